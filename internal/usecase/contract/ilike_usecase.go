package usecasecontract

import (
	"context"

	"github.com/echomind/mindink/internal/domain/entity"
)

// Unsubscribe stops a like count subscription. Calling it more than once is a no-op.
type Unsubscribe func()

type ILikeUseCase interface {
	ToggleLike(ctx context.Context, postID, userID string) (bool, error)
	// ToggleLikeState is ToggleLike that also reports the committed counter.
	ToggleLikeState(ctx context.Context, postID, userID string) (*entity.LikeState, error)
	GetInitialLikedState(ctx context.Context, postID, userID string) (bool, error)
	SubscribeToLikeCount(ctx context.Context, postID string, onChange func(count int64), onError func(err error)) (Unsubscribe, error)
}
