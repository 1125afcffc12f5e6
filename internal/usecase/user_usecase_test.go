package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/echomind/mindink/internal/domain/entity"
	"github.com/echomind/mindink/internal/infrastructure/jwt"
	passwordservice "github.com/echomind/mindink/internal/infrastructure/password_service"
	"github.com/echomind/mindink/internal/infrastructure/repository/memory"
	"github.com/echomind/mindink/internal/infrastructure/uuidgen"
	"github.com/echomind/mindink/internal/infrastructure/validator"
	"github.com/echomind/mindink/internal/usecase"
)

const strongPassword = "Sup3r-secret"

func newUserFixture(t *testing.T) (*memory.Store, *usecase.UserUsecase) {
	t.Helper()
	store := memory.NewStore()
	jwtService := jwt.NewJWTService(jwt.NewJWTManager("test-secret", time.Minute))
	uc := usecase.NewUserUsecase(store, passwordservice.NewHasherWithCost(bcrypt.MinCost), jwtService, nopLogger{}, validator.NewValidator(), uuidgen.NewGenerator())
	return store, uc
}

func TestRegisterAndLogin(t *testing.T) {
	store, uc := newUserFixture(t)
	ctx := context.Background()

	user, err := uc.Register(ctx, "ada", "Ada@Example.com", strongPassword, "London")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEqual(t, strongPassword, user.PasswordHash)

	stored, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "London", stored.Location)

	for _, identifier := range []string{"ada@example.com", "ada"} {
		loggedIn, token, err := uc.Login(ctx, identifier, strongPassword)
		require.NoError(t, err, identifier)
		assert.Equal(t, user.ID, loggedIn.ID)
		require.NotEmpty(t, token)

		authed, err := uc.Authenticate(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, authed.ID)
	}
}

func TestRegister_Validation(t *testing.T) {
	_, uc := newUserFixture(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{"short username", "ab", "a@example.com", strongPassword},
		{"username with spaces", "ada lovelace", "a@example.com", strongPassword},
		{"bad email", "ada", "not-an-email", strongPassword},
		{"weak password", "ada", "a@example.com", "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Register(ctx, tt.username, tt.email, tt.password, "")
			assert.ErrorIs(t, err, entity.ErrValidation)
		})
	}
}

func TestRegister_Duplicates(t *testing.T) {
	_, uc := newUserFixture(t)
	ctx := context.Background()
	_, err := uc.Register(ctx, "ada", "ada@example.com", strongPassword, "")
	require.NoError(t, err)

	_, err = uc.Register(ctx, "ada2", "ADA@example.com", strongPassword, "")
	assert.ErrorIs(t, err, entity.ErrAlreadyExists)

	_, err = uc.Register(ctx, "ada", "other@example.com", strongPassword, "")
	assert.ErrorIs(t, err, entity.ErrAlreadyExists)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	_, uc := newUserFixture(t)
	ctx := context.Background()
	_, err := uc.Register(ctx, "ada", "ada@example.com", strongPassword, "")
	require.NoError(t, err)

	_, _, err = uc.Login(ctx, "ada", "Wr0ng-password")
	assert.ErrorIs(t, err, entity.ErrInvalidCredentials)

	_, _, err = uc.Login(ctx, "nobody@example.com", strongPassword)
	assert.ErrorIs(t, err, entity.ErrInvalidCredentials)
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	_, uc := newUserFixture(t)

	_, err := uc.Authenticate(context.Background(), "not.a.token")
	assert.Error(t, err)
}

func TestEnsureProfile(t *testing.T) {
	store, uc := newUserFixture(t)
	ctx := context.Background()

	user, err := uc.EnsureProfile(ctx, "fb-1", "Ada@Example.com", "Ada Lovelace", "https://img.example/ada.png")
	require.NoError(t, err)
	assert.Equal(t, "fb-1", user.ID)
	assert.Equal(t, "ada_lovelace", user.Username)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)

	again, err := uc.EnsureProfile(ctx, "fb-1", "ada@example.com", "Someone Else", "")
	require.NoError(t, err)
	assert.Equal(t, "ada_lovelace", again.Username)

	// a clashing display name gets a suffix
	second, err := uc.EnsureProfile(ctx, "fb-2", "", "Ada Lovelace", "")
	require.NoError(t, err)
	assert.NotEqual(t, "ada_lovelace", second.Username)
	assert.Contains(t, second.Username, "ada_lovelace-")

	// identities without an email do not collide with each other
	third, err := uc.EnsureProfile(ctx, "fb-3", "", "", "")
	require.NoError(t, err)
	assert.Equal(t, "user", third.Username)

	// password login is not possible for these profiles
	_, _, err = uc.Login(ctx, "ada_lovelace", "")
	assert.ErrorIs(t, err, entity.ErrInvalidCredentials)

	_, err = store.GetUserByID(ctx, "fb-2")
	require.NoError(t, err)

	_, err = uc.EnsureProfile(ctx, "", "x@example.com", "x", "")
	assert.ErrorIs(t, err, entity.ErrValidation)
}

// brokenUsernameLookup fails username lookups the way an unreachable backend would.
type brokenUsernameLookup struct {
	*memory.Store
}

func (brokenUsernameLookup) GetUserByUsername(ctx context.Context, username string) (*entity.User, error) {
	return nil, fmt.Errorf("%w: connection reset", entity.ErrUnavailable)
}

func TestEnsureProfile_UsernameLookupFails(t *testing.T) {
	store := brokenUsernameLookup{Store: memory.NewStore()}
	jwtService := jwt.NewJWTService(jwt.NewJWTManager("test-secret", time.Minute))
	uc := usecase.NewUserUsecase(store, passwordservice.NewHasherWithCost(bcrypt.MinCost), jwtService, nopLogger{}, validator.NewValidator(), uuidgen.NewGenerator())

	_, err := uc.EnsureProfile(context.Background(), "fb-1", "ada@example.com", "Ada", "")
	require.Error(t, err)

	_, err = store.Store.GetUserByID(context.Background(), "fb-1")
	assert.ErrorIs(t, err, entity.ErrUserNotFound)
}

// racingCreate loses the unique index race on create, after the availability checks passed.
type racingCreate struct {
	*memory.Store
}

func (racingCreate) CreateUser(ctx context.Context, user *entity.User) error {
	return fmt.Errorf("%w: E11000 duplicate key error collection: mindink.users index: username_1", entity.ErrAlreadyExists)
}

func TestRegister_LostUniqueRace(t *testing.T) {
	jwtService := jwt.NewJWTService(jwt.NewJWTManager("test-secret", time.Minute))
	uc := usecase.NewUserUsecase(racingCreate{Store: memory.NewStore()}, passwordservice.NewHasherWithCost(bcrypt.MinCost), jwtService, nopLogger{}, validator.NewValidator(), uuidgen.NewGenerator())

	_, err := uc.Register(context.Background(), "ada", "ada@example.com", strongPassword, "")
	assert.ErrorIs(t, err, entity.ErrAlreadyExists)
	assert.NotContains(t, err.Error(), "E11000")
}

func TestLoginWithIdentity(t *testing.T) {
	_, uc := newUserFixture(t)
	ctx := context.Background()

	user, token, err := uc.LoginWithIdentity(ctx, "fb-9", "grace@example.com", "Grace", "")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	authed, err := uc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)
}

func TestUpdateProfile(t *testing.T) {
	_, uc := newUserFixture(t)
	ctx := context.Background()
	ada, err := uc.Register(ctx, "ada", "ada@example.com", strongPassword, "")
	require.NoError(t, err)
	_, err = uc.Register(ctx, "grace", "grace@example.com", strongPassword, "")
	require.NoError(t, err)

	updated, err := uc.UpdateProfile(ctx, ada.ID, entity.ProfilePatch{
		Username:     strPtr("countess"),
		Bio:          strPtr("first programmer"),
		ProfileImage: strPtr("https://img.example/ada.png"),
	})
	require.NoError(t, err)
	assert.Equal(t, "countess", updated.Username)
	assert.Equal(t, "first programmer", updated.Bio)
	assert.Equal(t, "ada@example.com", updated.Email)

	_, err = uc.UpdateProfile(ctx, ada.ID, entity.ProfilePatch{Username: strPtr("grace")})
	assert.ErrorIs(t, err, entity.ErrAlreadyExists)

	_, err = uc.UpdateProfile(ctx, ada.ID, entity.ProfilePatch{ProfileImage: strPtr("javascript:alert(1)")})
	assert.ErrorIs(t, err, entity.ErrValidation)

	_, err = uc.UpdateProfile(ctx, "missing", entity.ProfilePatch{})
	assert.ErrorIs(t, err, entity.ErrUserNotFound)
}
