package firestore

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"

	"github.com/echomind/mindink/internal/domain/contract"
	"github.com/echomind/mindink/internal/domain/entity"
)

type UserRepository struct {
	client *firestore.Client
}

var _ contract.IUserRepository = (*UserRepository)(nil)

func NewUserRepository(client *firestore.Client) *UserRepository {
	return &UserRepository{client: client}
}

func (r *UserRepository) users() *firestore.CollectionRef {
	return r.client.Collection(usersCollection)
}

// CreateUser checks email and username uniqueness inside the same transaction as the write.
func (r *UserRepository) CreateUser(ctx context.Context, user *entity.User) error {
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		for field, value := range map[string]string{"email": strings.ToLower(user.Email), "username": user.Username} {
			if value == "" {
				continue
			}
			snaps, err := tx.Documents(r.users().Where(field, "==", value).Limit(1)).GetAll()
			if err != nil {
				return err
			}
			if len(snaps) > 0 {
				return fmt.Errorf("%s %s: %w", field, value, entity.ErrAlreadyExists)
			}
		}
		return tx.Create(r.users().Doc(user.ID), user)
	})
	if err != nil {
		return translateError(fmt.Errorf("failed to create user: %w", err))
	}
	return nil
}

func decodeUser(snap *firestore.DocumentSnapshot) (*entity.User, error) {
	var user entity.User
	if err := snap.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user %s: %w", snap.Ref.ID, err)
	}
	user.ID = snap.Ref.ID
	return &user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*entity.User, error) {
	snap, err := r.users().Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, entity.ErrUserNotFound
		}
		return nil, translateError(fmt.Errorf("failed to retrieve user: %w", err))
	}
	return decodeUser(snap)
}

func (r *UserRepository) findBy(ctx context.Context, field, value string) (*entity.User, error) {
	snaps, err := r.users().Where(field, "==", value).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return nil, translateError(fmt.Errorf("failed to retrieve user: %w", err))
	}
	if len(snaps) == 0 {
		return nil, entity.ErrUserNotFound
	}
	return decodeUser(snaps[0])
}

func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findBy(ctx, "username", username)
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findBy(ctx, "email", strings.ToLower(email))
}

// UpdateUser replaces the stored profile after re-checking username uniqueness.
func (r *UserRepository) UpdateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	ref := r.users().Doc(user.ID)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			if isNotFound(err) {
				return entity.ErrUserNotFound
			}
			return err
		}
		snaps, err := tx.Documents(r.users().Where("username", "==", user.Username).Limit(2)).GetAll()
		if err != nil {
			return err
		}
		for _, s := range snaps {
			if s.Ref.ID != user.ID {
				return fmt.Errorf("username %s: %w", user.Username, entity.ErrAlreadyExists)
			}
		}
		return tx.Set(ref, user)
	})
	if err != nil {
		return nil, translateError(err)
	}
	return r.GetUserByID(ctx, user.ID)
}
