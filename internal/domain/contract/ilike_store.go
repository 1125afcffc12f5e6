package contract

import (
	"context"

	"github.com/echomind/mindink/internal/domain/entity"
)

// ILikeTx is the capability handed to a like transaction. Reads must come before writes
// and every effect commits atomically or not at all.
type ILikeTx interface {
	// GetLike returns the like record for the pair, or nil when the user does not like the post.
	GetLike(postID, userID string) (*entity.LikeRecord, error)
	// GetLikeCount returns the post's counter. It returns entity.ErrPostNotFound when the post is missing.
	GetLikeCount(postID string) (int64, error)
	SetLike(like *entity.LikeRecord) error
	DeleteLike(postID, userID string) error
	UpdateLikeCount(postID string, count int64) error
}

// ILikeStore runs like transactions and answers one-shot like reads.
//
// RunTransaction must translate contention into entity.ErrConflict and an unreachable backend
// into entity.ErrUnavailable. Errors returned by fn are returned unchanged (wrapped at most).
type ILikeStore interface {
	RunTransaction(ctx context.Context, fn func(tx ILikeTx) error) error
	LikeExists(ctx context.Context, postID, userID string) (bool, error)
}

// ILikeCountWatcher streams the like counter of a post.
//
// WatchLikeCount blocks until ctx is done or the stream fails. It calls onChange with the
// current value first and then once per committed change, sequentially and in commit order.
// A nil return means ctx was cancelled.
type ILikeCountWatcher interface {
	WatchLikeCount(ctx context.Context, postID string, onChange func(count int64)) error
}
