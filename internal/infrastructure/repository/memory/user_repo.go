package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/echomind/mindink/internal/domain/entity"
)

func (s *Store) CreateUser(ctx context.Context, user *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID == "" {
		return fmt.Errorf("%w: user id is required", entity.ErrValidation)
	}
	if _, ok := s.users[user.ID]; ok {
		return fmt.Errorf("user %s: %w", user.ID, entity.ErrAlreadyExists)
	}
	for _, u := range s.users {
		if (user.Email != "" && strings.EqualFold(u.Email, user.Email)) || u.Username == user.Username {
			return fmt.Errorf("email or username: %w", entity.ErrAlreadyExists)
		}
	}
	s.users[user.ID] = copyUser(user)
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, entity.ErrUserNotFound
	}
	return copyUser(user), nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return copyUser(u), nil
		}
	}
	return nil, entity.ErrUserNotFound
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	if email == "" {
		return nil, entity.ErrUserNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return copyUser(u), nil
		}
	}
	return nil, entity.ErrUserNotFound
}

// UpdateUser replaces the stored profile, keeping the username unique.
func (s *Store) UpdateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return nil, entity.ErrUserNotFound
	}
	for id, u := range s.users {
		if id != user.ID && u.Username == user.Username {
			return nil, fmt.Errorf("username %s: %w", user.Username, entity.ErrAlreadyExists)
		}
	}
	s.users[user.ID] = copyUser(user)
	return copyUser(user), nil
}
