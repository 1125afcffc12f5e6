package mocks

import (
	"context"

	"github.com/echomind/mindink/internal/domain/entity"
	usecasecontract "github.com/echomind/mindink/internal/usecase/contract"
)

// MockUserUsecase is a mock implementation of the UserUsecase interface
type MockUserUsecase struct {
	// Control mock behavior
	ShouldFailCreateUser    bool
	ShouldFailLogin         bool
	ShouldFailGetByID       bool
	ShouldFailUpdateUser    bool
	ShouldFailAuthenticate  bool
	ShouldFailEnsureProfile bool

	// Return values
	MockUser        entity.User
	MockAccessToken string

	// Recorded calls
	EnsuredUID   string
	LastPatch    entity.ProfilePatch
	LastUpdateID string
}

// Ensure MockUserUsecase implements the correct interface for handler.NewUserHandler
var _ usecasecontract.IUserUseCase = (*MockUserUsecase)(nil)

func NewMockUserUsecase() *MockUserUsecase {
	return &MockUserUsecase{
		MockUser: entity.User{
			ID:       "mock-user-id",
			Username: "testuser",
			Email:    "test@example.com",
		},
		MockAccessToken: "mock_access_token",
	}
}

func (m *MockUserUsecase) Register(ctx context.Context, username, email, password, location string) (*entity.User, error) {
	if m.ShouldFailCreateUser {
		return nil, entity.ErrAlreadyExists
	}
	user := m.MockUser
	user.Username = username
	user.Email = email
	user.Location = location
	return &user, nil
}

func (m *MockUserUsecase) Login(ctx context.Context, emailOrUsername, password string) (*entity.User, string, error) {
	if m.ShouldFailLogin {
		return nil, "", entity.ErrInvalidCredentials
	}
	return &m.MockUser, m.MockAccessToken, nil
}

func (m *MockUserUsecase) Authenticate(ctx context.Context, accessToken string) (*entity.User, error) {
	if m.ShouldFailAuthenticate {
		return nil, entity.ErrUserNotFound
	}
	return &m.MockUser, nil
}

func (m *MockUserUsecase) EnsureProfile(ctx context.Context, uid, email, displayName, photoURL string) (*entity.User, error) {
	m.EnsuredUID = uid
	if m.ShouldFailEnsureProfile {
		return nil, entity.ErrUnavailable
	}
	user := m.MockUser
	user.ID = uid
	return &user, nil
}

func (m *MockUserUsecase) LoginWithIdentity(ctx context.Context, uid, email, displayName, photoURL string) (*entity.User, string, error) {
	user, err := m.EnsureProfile(ctx, uid, email, displayName, photoURL)
	if err != nil {
		return nil, "", err
	}
	return user, m.MockAccessToken, nil
}

func (m *MockUserUsecase) GetUserByID(ctx context.Context, userID string) (*entity.User, error) {
	if m.ShouldFailGetByID {
		return nil, entity.ErrUserNotFound
	}
	return &m.MockUser, nil
}

func (m *MockUserUsecase) UpdateProfile(ctx context.Context, userID string, patch entity.ProfilePatch) (*entity.User, error) {
	m.LastUpdateID = userID
	m.LastPatch = patch
	if m.ShouldFailUpdateUser {
		return nil, entity.ErrAlreadyExists
	}
	user := m.MockUser
	if patch.Username != nil {
		user.Username = *patch.Username
	}
	if patch.Bio != nil {
		user.Bio = *patch.Bio
	}
	return &user, nil
}
