package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/echomind/mindink/internal/domain/contract"
	"github.com/echomind/mindink/internal/domain/entity"
	usecasecontract "github.com/echomind/mindink/internal/usecase/contract"
)

const errInternalServer = "internal server error"

// UserUsecase implements the IUserUseCase interface.
type UserUsecase struct {
	userRepo      contract.IUserRepository
	hasher        contract.IHasher
	jwtService    JWTService
	logger        usecasecontract.IAppLogger
	validator     usecasecontract.IValidator
	uuidGenerator contract.IUUIDGenerator
}

// NewUserUsecase creates a new UserUsecase instance.
func NewUserUsecase(
	userRepo contract.IUserRepository,
	hasher contract.IHasher,
	jwtService JWTService,
	logger usecasecontract.IAppLogger,
	validator usecasecontract.IValidator,
	uuidGenerator contract.IUUIDGenerator,
) *UserUsecase {
	return &UserUsecase{
		userRepo:      userRepo,
		hasher:        hasher,
		jwtService:    jwtService,
		logger:        logger,
		validator:     validator,
		uuidGenerator: uuidGenerator,
	}
}

// check if UserUsecase implements the IUserUseCase
var _ usecasecontract.IUserUseCase = (*UserUsecase)(nil)

// Register handles user registration.
func (uc *UserUsecase) Register(ctx context.Context, username, email, password, location string) (*entity.User, error) {
	if err := uc.validator.ValidateUsername(username); err != nil {
		return nil, fmt.Errorf("%w: invalid username: %v", entity.ErrValidation, err)
	}
	if err := uc.validator.ValidateEmail(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email format: %v", entity.ErrValidation, err)
	}
	if err := uc.validator.ValidatePasswordStrength(password); err != nil {
		return nil, fmt.Errorf("%w: weak password: %v", entity.ErrValidation, err)
	}

	// Check if user with same username or email already exists
	if err := uc.ensureAvailable(ctx, uc.userRepo.GetUserByEmail, email, "email"); err != nil {
		return nil, err
	}
	if err := uc.ensureAvailable(ctx, uc.userRepo.GetUserByUsername, username, "username"); err != nil {
		return nil, err
	}

	hashedPassword, err := uc.hasher.HashPassword(password)
	if err != nil {
		uc.logger.Errorf("failed to hash password: %v", err)
		return nil, fmt.Errorf("failed to process password")
	}

	now := time.Now().UTC()
	user := &entity.User{
		ID:           uc.uuidGenerator.NewUUID(),
		Username:     username,
		Email:        strings.ToLower(email),
		PasswordHash: hashedPassword,
		Location:     location,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, entity.ErrAlreadyExists) {
			return nil, fmt.Errorf("email or username already taken: %w", entity.ErrAlreadyExists)
		}
		uc.logger.Errorf("failed to create user: %v", err)
		return nil, fmt.Errorf("failed to register user")
	}

	return user, nil
}

func (uc *UserUsecase) ensureAvailable(ctx context.Context, lookup func(context.Context, string) (*entity.User, error), value, field string) error {
	existing, err := lookup(ctx, value)
	if err != nil && !errors.Is(err, entity.ErrUserNotFound) {
		uc.logger.Errorf("failed to check for existing user by %s: %v", field, err)
		return errors.New(errInternalServer)
	}
	if existing != nil {
		return fmt.Errorf("user with %s %s: %w", field, value, entity.ErrAlreadyExists)
	}
	return nil
}

// Login verifies the credentials and issues an access token.
func (uc *UserUsecase) Login(ctx context.Context, emailOrUsername, password string) (*entity.User, string, error) {
	var user *entity.User
	var err error

	if uc.validator.ValidateEmail(emailOrUsername) == nil {
		user, err = uc.userRepo.GetUserByEmail(ctx, emailOrUsername)
	} else {
		user, err = uc.userRepo.GetUserByUsername(ctx, emailOrUsername)
	}

	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, "", entity.ErrInvalidCredentials
		}
		uc.logger.Errorf("failed to retrieve user for login: %v", err)
		return nil, "", errors.New(errInternalServer)
	}

	// Profiles created from a Firebase identity have no password.
	if user.PasswordHash == "" {
		return nil, "", entity.ErrInvalidCredentials
	}
	if err := uc.hasher.ComparePasswordHash(password, user.PasswordHash); err != nil {
		return nil, "", entity.ErrInvalidCredentials
	}

	accessToken, err := uc.jwtService.GenerateAccessToken(user.ID)
	if err != nil {
		uc.logger.Errorf("failed to generate access token: %v", err)
		return nil, "", errors.New("failed to generate token")
	}

	return user, accessToken, nil
}

// Authenticate resolves the user behind an access token.
func (uc *UserUsecase) Authenticate(ctx context.Context, accessToken string) (*entity.User, error) {
	claims, err := uc.jwtService.ParseAccessToken(accessToken)
	if err != nil {
		return nil, fmt.Errorf("invalid access token: %w", err)
	}

	user, err := uc.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, entity.ErrUserNotFound
		}
		uc.logger.Errorf("failed to retrieve user during authentication: %v", err)
		return nil, errors.New(errInternalServer)
	}

	return user, nil
}

// EnsureProfile returns the profile of a Firebase identity, creating it on first sight.
func (uc *UserUsecase) EnsureProfile(ctx context.Context, uid, email, displayName, photoURL string) (*entity.User, error) {
	if uid == "" {
		return nil, fmt.Errorf("%w: uid is required", entity.ErrValidation)
	}

	user, err := uc.userRepo.GetUserByID(ctx, uid)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, entity.ErrUserNotFound) {
		uc.logger.Errorf("failed to look up profile %s: %v", uid, err)
		return nil, errors.New(errInternalServer)
	}

	username := usernameFromIdentity(displayName, email)
	taken, err := uc.userRepo.GetUserByUsername(ctx, username)
	switch {
	case err == nil && taken != nil:
		username = username + "-" + uc.uuidGenerator.NewUUID()[:8]
	case err != nil && !errors.Is(err, entity.ErrUserNotFound):
		uc.logger.Errorf("failed to check username %s for profile %s: %v", username, uid, err)
		return nil, errors.New(errInternalServer)
	}

	now := time.Now().UTC()
	user = &entity.User{
		ID:           uid,
		Username:     username,
		Email:        strings.ToLower(email),
		ProfileImage: photoURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, entity.ErrAlreadyExists) {
			// another request created it first
			return uc.userRepo.GetUserByID(ctx, uid)
		}
		uc.logger.Errorf("failed to create profile for %s: %v", uid, err)
		return nil, fmt.Errorf("failed to create profile")
	}
	uc.logger.Infof("created profile %s for new identity", uid)
	return user, nil
}

// LoginWithIdentity signs in a verified external identity and issues an access token for it.
func (uc *UserUsecase) LoginWithIdentity(ctx context.Context, uid, email, displayName, photoURL string) (*entity.User, string, error) {
	user, err := uc.EnsureProfile(ctx, uid, email, displayName, photoURL)
	if err != nil {
		return nil, "", err
	}
	accessToken, err := uc.jwtService.GenerateAccessToken(user.ID)
	if err != nil {
		uc.logger.Errorf("failed to generate access token: %v", err)
		return nil, "", errors.New("failed to generate token")
	}
	return user, accessToken, nil
}

func usernameFromIdentity(displayName, email string) string {
	name := strings.TrimSpace(displayName)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	name = strings.ToLower(strings.Join(strings.Fields(name), "_"))
	if name == "" {
		name = "user"
	}
	return name
}

func (uc *UserUsecase) GetUserByID(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, entity.ErrUserNotFound
		}

		uc.logger.Errorf("failed to retrieve user by ID: %v", err)
		return nil, errors.New(errInternalServer)
	}

	return user, nil
}

// UpdateProfile allows a user to update their own profile details.
func (uc *UserUsecase) UpdateProfile(ctx context.Context, userID string, patch entity.ProfilePatch) (*entity.User, error) {
	user, err := uc.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Check for username uniqueness if username is being updated
	if patch.Username != nil && *patch.Username != user.Username {
		if err := uc.validator.ValidateUsername(*patch.Username); err != nil {
			return nil, fmt.Errorf("%w: invalid username: %v", entity.ErrValidation, err)
		}
		existing, err := uc.userRepo.GetUserByUsername(ctx, *patch.Username)
		if err != nil && !errors.Is(err, entity.ErrUserNotFound) {
			uc.logger.Errorf("failed to check for existing username during update: %v", err)
			return nil, errors.New(errInternalServer)
		}
		if existing != nil && existing.ID != userID {
			return nil, fmt.Errorf("username %s already taken: %w", *patch.Username, entity.ErrAlreadyExists)
		}
		user.Username = *patch.Username
	}
	if patch.ProfileImage != nil && *patch.ProfileImage != "" {
		if err := uc.validator.ValidateImageURL(*patch.ProfileImage); err != nil {
			return nil, fmt.Errorf("%w: invalid profile image: %v", entity.ErrValidation, err)
		}
	}

	if patch.Location != nil {
		user.Location = *patch.Location
	}
	if patch.Bio != nil {
		user.Bio = *patch.Bio
	}
	if patch.ProfileImage != nil {
		user.ProfileImage = *patch.ProfileImage
	}
	user.UpdatedAt = time.Now().UTC()

	updated, err := uc.userRepo.UpdateUser(ctx, user)
	if err != nil {
		if errors.Is(err, entity.ErrAlreadyExists) {
			return nil, fmt.Errorf("username already taken: %w", entity.ErrAlreadyExists)
		}
		uc.logger.Errorf("failed to update profile for user %s: %v", userID, err)
		return nil, errors.New("failed to update profile")
	}

	uc.logger.Infof("User %s updated successfully", userID)
	return updated, nil
}
