package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/echomind/mindink/internal/domain/entity"
	"github.com/echomind/mindink/internal/handler/http/dto"
	usecasecontract "github.com/echomind/mindink/internal/usecase/contract"
)

// UserHandlerInterface defines the methods for user handler to allow interface-based dependency injection (for testing/mocking)
type UserHandlerInterface interface {
	CreateUser(*gin.Context)
	Login(*gin.Context)
	GetUser(*gin.Context)
	GetCurrentUser(*gin.Context)
	UpdateUser(*gin.Context)
}

// Ensure UserHandler implements UserHandlerInterface
var _ UserHandlerInterface = (*UserHandler)(nil)

type UserHandler struct {
	userUsecase usecasecontract.IUserUseCase
}

func NewUserHandler(userUsecase usecasecontract.IUserUseCase) *UserHandler {
	return &UserHandler{
		userUsecase: userUsecase,
	}
}

// CreateUser handles user registration (signup)
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.RegisterRequest
	if err := BindAndValidate(c, &req); err != nil {
		return
	}

	user, err := h.userUsecase.Register(c.Request.Context(), req.Username, req.Email, req.Password, req.Location)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	SuccessHandler(c, http.StatusCreated, dto.ToUserResponse(*user))
}

// Login handles user authentication
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := BindAndValidate(c, &req); err != nil {
		return
	}

	user, accessToken, err := h.userUsecase.Login(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		ErrorHandler(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	response := dto.LoginResponse{
		User:        dto.ToUserResponse(*user),
		AccessToken: accessToken,
	}

	SuccessHandler(c, http.StatusOK, response)
}

// GetUser handles retrieving a public profile by ID
func (h *UserHandler) GetUser(c *gin.Context) {
	userID := c.Param("id")
	user, err := h.userUsecase.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if StatusForError(err) == http.StatusNotFound {
			ErrorHandler(c, http.StatusNotFound, "User not found")
			return
		}
		HandleUsecaseError(c, err)
		return
	}
	SuccessHandler(c, http.StatusOK, dto.ToPublicUserResponse(*user))
}

// GetCurrentUser handles retrieving the current authenticated user
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorHandler(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	user, err := h.userUsecase.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}
	SuccessHandler(c, http.StatusOK, dto.ToUserResponse(*user))
}

// UpdateUser handles updating user profile
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorHandler(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req dto.UpdateProfileRequest
	if err := BindAndValidate(c, &req); err != nil {
		return
	}

	updatedUser, err := h.userUsecase.UpdateProfile(c.Request.Context(), userID, entity.ProfilePatch{
		Username:     req.Username,
		Location:     req.Location,
		Bio:          req.Bio,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}
	SuccessHandler(c, http.StatusOK, dto.ToUserResponse(*updatedUser))
}
