package usecasecontract

import (
	"context"

	"github.com/echomind/mindink/internal/domain/entity"
)

// IUserUseCase defines the interface for user-related operations.
type IUserUseCase interface {
	Register(ctx context.Context, username, email, password, location string) (*entity.User, error)
	Login(ctx context.Context, emailOrUsername, password string) (*entity.User, string, error)
	Authenticate(ctx context.Context, accessToken string) (*entity.User, error)
	EnsureProfile(ctx context.Context, uid, email, displayName, photoURL string) (*entity.User, error)
	LoginWithIdentity(ctx context.Context, uid, email, displayName, photoURL string) (*entity.User, string, error)
	GetUserByID(ctx context.Context, userID string) (*entity.User, error)
	UpdateProfile(ctx context.Context, userID string, patch entity.ProfilePatch) (*entity.User, error)
}
