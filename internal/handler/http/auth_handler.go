package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/echomind/mindink/internal/handler/http/dto"
	"github.com/echomind/mindink/internal/handler/http/middleware"
	usecasecontract "github.com/echomind/mindink/internal/usecase/contract"
)

// FirebaseLoginRequest carries an ID token obtained from Firebase sign-in (Google or email).
type FirebaseLoginRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

// AuthHandler exchanges Firebase identities for access tokens of this service.
type AuthHandler struct {
	userUsecase usecasecontract.IUserUseCase
	verifier    middleware.IDTokenVerifier
}

func NewAuthHandler(uc usecasecontract.IUserUseCase, verifier middleware.IDTokenVerifier) *AuthHandler {
	return &AuthHandler{
		userUsecase: uc,
		verifier:    verifier,
	}
}

// FirebaseLogin verifies the ID token, creates the profile on first sign-in and returns an access token.
func (h *AuthHandler) FirebaseLogin(c *gin.Context) {
	var req FirebaseLoginRequest
	if err := BindAndValidate(c, &req); err != nil {
		return
	}

	ctx := c.Request.Context()
	token, err := h.verifier.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		ErrorHandler(c, http.StatusUnauthorized, "Invalid ID token")
		return
	}

	id := middleware.IdentityFromToken(token)
	user, accessToken, err := h.userUsecase.LoginWithIdentity(ctx, id.UID, id.Email, id.DisplayName, id.PhotoURL)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	SuccessHandler(c, http.StatusOK, dto.LoginResponse{
		User:        dto.ToUserResponse(*user),
		AccessToken: accessToken,
	})
}
