package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/echomind/mindink/internal/domain/entity"
	"github.com/echomind/mindink/internal/handler/http/dto"
)

// ErrorHandler centralizes error handling for HTTP responses
func ErrorHandler(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.ErrorResponse{Error: message})
}

// SuccessHandler centralizes success responses
func SuccessHandler(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// MessageHandler centralizes message responses
func MessageHandler(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.MessageResponse{Message: message})
}

// BindAndValidate binds JSON request and validates it
func BindAndValidate(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		ErrorHandler(c, http.StatusBadRequest, err.Error())
		return err
	}
	return nil
}

// StatusForError maps a usecase error onto an HTTP status code.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, entity.ErrPostNotFound), errors.Is(err, entity.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, entity.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, entity.ErrAlreadyExists), errors.Is(err, entity.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, entity.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// HandleUsecaseError writes err with the status StatusForError picks. Conflicts, outages and
// unexpected errors carry backend detail, so they get a fixed message instead of err.Error().
func HandleUsecaseError(c *gin.Context, err error) {
	status := StatusForError(err)
	switch {
	case status == http.StatusInternalServerError:
		_ = c.Error(err)
		ErrorHandler(c, status, "internal server error")
	case errors.Is(err, entity.ErrConflict):
		_ = c.Error(err)
		ErrorHandler(c, status, "the request conflicted with concurrent updates, please retry")
	case status == http.StatusServiceUnavailable:
		_ = c.Error(err)
		ErrorHandler(c, status, "service temporarily unavailable")
	default:
		ErrorHandler(c, status, err.Error())
	}
}

// currentUserID returns the authenticated user set by the auth middleware.
func currentUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("userID")
	if !exists {
		return "", false
	}
	userID, ok := v.(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}
