package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/didip/tollbooth/v7"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/echomind/mindink/internal/domain/entity"
	"github.com/echomind/mindink/internal/handler/http/middleware"
	mocks "github.com/echomind/mindink/internal/handler/http/mocks"
)

type fakeJWTService struct{}

func (fakeJWTService) GenerateAccessToken(userID string) (string, error) {
	return "token-" + userID, nil
}

func (fakeJWTService) ParseAccessToken(token string) (*entity.Claims, error) {
	if token == "good-token" {
		return &entity.Claims{UserID: "jwt-user"}, nil
	}
	return nil, errors.New("bad token")
}

type fakeVerifier struct {
	calls int
}

func (f *fakeVerifier) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	f.calls++
	if idToken != "firebase-token" {
		return nil, errors.New("not a firebase token")
	}
	return &auth.Token{
		UID: "fb-uid",
		Claims: map[string]interface{}{
			"email": "ada@example.com",
			"name":  "Ada Lovelace",
		},
	}, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func authRouter(users *mocks.MockUserUsecase, verifier middleware.IDTokenVerifier) *gin.Engine {
	r := gin.New()
	r.Use(middleware.AuthMiddleWare(fakeJWTService{}, users, verifier))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("userID"))
	})
	return r
}

func doAuth(r *gin.Engine, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/whoami", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleWare_AccessToken(t *testing.T) {
	users := mocks.NewMockUserUsecase()
	verifier := &fakeVerifier{}
	w := doAuth(authRouter(users, verifier), "Bearer good-token")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jwt-user", w.Body.String())
	assert.Zero(t, verifier.calls)
}

func TestAuthMiddleWare_MissingHeader(t *testing.T) {
	r := authRouter(mocks.NewMockUserUsecase(), nil)

	assert.Equal(t, http.StatusUnauthorized, doAuth(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doAuth(r, "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, doAuth(r, "Bearer ").Code)
}

func TestAuthMiddleWare_InvalidTokenWithoutFirebase(t *testing.T) {
	w := doAuth(authRouter(mocks.NewMockUserUsecase(), nil), "Bearer firebase-token")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired token")
}

func TestAuthMiddleWare_FirebaseIDToken(t *testing.T) {
	users := mocks.NewMockUserUsecase()
	w := doAuth(authRouter(users, &fakeVerifier{}), "Bearer firebase-token")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fb-uid", w.Body.String())
	assert.Equal(t, "fb-uid", users.EnsuredUID)
}

func TestAuthMiddleWare_FirebaseRejected(t *testing.T) {
	w := doAuth(authRouter(mocks.NewMockUserUsecase(), &fakeVerifier{}), "Bearer forged")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleWare_ProfileFailure(t *testing.T) {
	users := mocks.NewMockUserUsecase()
	users.ShouldFailEnsureProfile = true
	w := doAuth(authRouter(users, &fakeVerifier{}), "Bearer firebase-token")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestIdentityFromToken(t *testing.T) {
	id := middleware.IdentityFromToken(&auth.Token{
		UID:    "u1",
		Claims: map[string]interface{}{"email": "a@b.c", "picture": "https://img.example/a.png", "name": 42},
	})
	assert.Equal(t, "u1", id.UID)
	assert.Equal(t, "a@b.c", id.Email)
	assert.Equal(t, "https://img.example/a.png", id.PhotoURL)
	assert.Empty(t, id.DisplayName)
}

func TestRateLimiter(t *testing.T) {
	lmt := tollbooth.NewLimiter(1, nil)
	lmt.SetMessage("slow down")
	r := gin.New()
	r.Use(middleware.RateLimiter(lmt))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest("GET", "/ping", nil))
	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest("GET", "/ping", nil))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "slow down")
}
