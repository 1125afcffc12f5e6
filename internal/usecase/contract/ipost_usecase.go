package usecasecontract

import (
	"context"

	"github.com/echomind/mindink/internal/domain/entity"
)

// PostDetail is a post together with its rendered content.
type PostDetail struct {
	Post        *entity.Post
	ContentHTML string
}

// FeedPage is one page of the feed.
type FeedPage struct {
	Posts      []*entity.Post
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}

type IPostUseCase interface {
	CreatePost(ctx context.Context, authorID, title, content string, imageURL *string, tags []string) (*entity.Post, error)
	GetPost(ctx context.Context, postID string) (*PostDetail, error)
	UpdatePost(ctx context.Context, postID, userID string, patch entity.PostPatch) (*entity.Post, error)
	DeletePost(ctx context.Context, postID, userID string) error
	ListFeed(ctx context.Context, query entity.FeedQuery) (*FeedPage, error)
	ListTags() []string
}
