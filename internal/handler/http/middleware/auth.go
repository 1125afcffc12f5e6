package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"

	"github.com/echomind/mindink/internal/handler/http/dto"
	"github.com/echomind/mindink/internal/usecase"
	usecasecontract "github.com/echomind/mindink/internal/usecase/contract"
)

// IDTokenVerifier verifies Firebase ID tokens. *auth.Client satisfies it.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// Identity is the profile data carried by a verified Firebase ID token.
type Identity struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
}

// IdentityFromToken reads the standard profile claims of a verified ID token.
func IdentityFromToken(t *auth.Token) Identity {
	claim := func(name string) string {
		v, _ := t.Claims[name].(string)
		return v
	}
	return Identity{
		UID:         t.UID,
		Email:       claim("email"),
		DisplayName: claim("name"),
		PhotoURL:    claim("picture"),
	}
}

// AuthMiddleWare accepts a Bearer access token issued by this service. When idVerifier is set,
// a Firebase ID token is accepted too and its profile is created on first use.
// On success the user id is stored under "userID".
func AuthMiddleWare(jwtService usecase.JWTService, userUsecase usecasecontract.IUserUseCase, idVerifier IDTokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Authorization header required"})
			return
		}

		if claims, err := jwtService.ParseAccessToken(token); err == nil && claims.UserID != "" {
			c.Set("userID", claims.UserID)
			c.Next()
			return
		}

		if idVerifier == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid or expired token"})
			return
		}

		ctx := c.Request.Context()
		verified, err := idVerifier.VerifyIDToken(ctx, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid or expired token"})
			return
		}
		id := IdentityFromToken(verified)
		user, err := userUsecase.EnsureProfile(ctx, id.UID, id.Email, id.DisplayName, id.PhotoURL)
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load user profile"})
			return
		}
		c.Set("userID", user.ID)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
