package contract

import (
	"context"

	"github.com/echomind/mindink/internal/domain/entity"
)

// IPostRepository persists posts. It never writes LikeCount except to initialise it on create.
type IPostRepository interface {
	CreatePost(ctx context.Context, post *entity.Post) error
	GetPostByID(ctx context.Context, postID string) (*entity.Post, error)
	// GetLikeCount reads the stored like counter alone.
	GetLikeCount(ctx context.Context, postID string) (int64, error)
	// UpdatePost applies the editable fields of post (title, content, image, tags, updated_at).
	UpdatePost(ctx context.Context, post *entity.Post) error
	// DeletePost removes the post together with its like records.
	DeletePost(ctx context.Context, postID string) error
	ListPosts(ctx context.Context, query entity.FeedQuery) ([]*entity.Post, int64, error)
}
