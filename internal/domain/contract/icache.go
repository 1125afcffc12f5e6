package contract

import (
	"context"

	"github.com/echomind/mindink/internal/domain/entity"
)

// CachedFeedPage is the cached payload for feed endpoints.
type CachedFeedPage struct {
	Posts []entity.Post `json:"posts"`
	Total int64         `json:"total"`
}

// IPostCache defines caching operations for posts.
type IPostCache interface {
	// Detail (by id)
	GetPost(ctx context.Context, postID string) (*entity.Post, bool, error)
	SetPost(ctx context.Context, post *entity.Post) error
	InvalidatePost(ctx context.Context, postID string) error

	// Feed pages (key built by usecase)
	GetFeedPage(ctx context.Context, key string) (*CachedFeedPage, bool, error)
	SetFeedPage(ctx context.Context, key string, page *CachedFeedPage) error
	InvalidateFeedPages(ctx context.Context) error
}
