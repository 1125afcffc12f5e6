package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/x/mongo/driver"

	"github.com/echomind/mindink/internal/domain/entity"
)

const writeConflictCode = 112

// translateError maps driver errors onto the domain sentinels, keeping the cause in the chain.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, entity.ErrPostNotFound) || errors.Is(err, entity.ErrConflict) ||
		errors.Is(err, entity.ErrUnavailable) || errors.Is(err, entity.ErrUserNotFound) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var labeled mongo.LabeledError
	if errors.As(err, &labeled) && labeled.HasErrorLabel(driver.TransientTransactionError) {
		return fmt.Errorf("%w: %v", entity.ErrConflict, err)
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == writeConflictCode {
		return fmt.Errorf("%w: %v", entity.ErrConflict, err)
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", entity.ErrAlreadyExists, err)
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) || errors.Is(err, mongo.ErrClientDisconnected) {
		return fmt.Errorf("%w: %v", entity.ErrUnavailable, err)
	}
	return err
}
