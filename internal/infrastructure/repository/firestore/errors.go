package firestore

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/echomind/mindink/internal/domain/entity"
)

const (
	postsCollection = "posts"
	likesCollection = "likes"
	usersCollection = "users"
)

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// translateError maps gRPC status codes onto the domain sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, entity.ErrPostNotFound) || errors.Is(err, entity.ErrUserNotFound) ||
		errors.Is(err, entity.ErrConflict) || errors.Is(err, entity.ErrUnavailable) ||
		errors.Is(err, entity.ErrAlreadyExists) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	switch status.Code(err) {
	case codes.Aborted:
		return fmt.Errorf("%w: %v", entity.ErrConflict, err)
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted:
		return fmt.Errorf("%w: %v", entity.ErrUnavailable, err)
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %v", entity.ErrAlreadyExists, err)
	}
	return err
}
