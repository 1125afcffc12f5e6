package mocks

import (
	"context"

	"github.com/echomind/mindink/internal/domain/entity"
	usecasecontract "github.com/echomind/mindink/internal/usecase/contract"
)

// MockPostUsecase is a mock implementation of IPostUseCase.
type MockPostUsecase struct {
	ShouldFailCreate bool
	ShouldFailGet    bool
	ShouldFailUpdate bool
	ShouldFailDelete bool
	ShouldFailList   bool

	MockPost entity.Post

	LastAuthorID string
	LastQuery    entity.FeedQuery
}

var _ usecasecontract.IPostUseCase = (*MockPostUsecase)(nil)

func NewMockPostUsecase() *MockPostUsecase {
	return &MockPostUsecase{
		MockPost: entity.Post{
			ID:        "mock-post-id",
			Title:     "Hello",
			Content:   "# Hello",
			Tags:      []string{"AI"},
			Author:    entity.PostAuthor{ID: "mock-user-id", Name: "testuser"},
			LikeCount: 3,
		},
	}
}

func (m *MockPostUsecase) CreatePost(ctx context.Context, authorID, title, content string, imageURL *string, tags []string) (*entity.Post, error) {
	m.LastAuthorID = authorID
	if m.ShouldFailCreate {
		return nil, entity.ErrValidation
	}
	post := m.MockPost
	post.Title = title
	post.Content = content
	post.Tags = tags
	post.Author.ID = authorID
	post.LikeCount = 0
	return &post, nil
}

func (m *MockPostUsecase) GetPost(ctx context.Context, postID string) (*usecasecontract.PostDetail, error) {
	if m.ShouldFailGet {
		return nil, entity.ErrPostNotFound
	}
	post := m.MockPost
	return &usecasecontract.PostDetail{Post: &post, ContentHTML: "<h1>Hello</h1>\n"}, nil
}

func (m *MockPostUsecase) UpdatePost(ctx context.Context, postID, userID string, patch entity.PostPatch) (*entity.Post, error) {
	if m.ShouldFailUpdate {
		return nil, entity.ErrForbidden
	}
	post := m.MockPost
	if patch.Title != nil {
		post.Title = *patch.Title
	}
	return &post, nil
}

func (m *MockPostUsecase) DeletePost(ctx context.Context, postID, userID string) error {
	if m.ShouldFailDelete {
		return entity.ErrForbidden
	}
	return nil
}

func (m *MockPostUsecase) ListFeed(ctx context.Context, query entity.FeedQuery) (*usecasecontract.FeedPage, error) {
	m.LastQuery = query
	if m.ShouldFailList {
		return nil, entity.ErrUnavailable
	}
	post := m.MockPost
	return &usecasecontract.FeedPage{
		Posts:      []*entity.Post{&post},
		TotalCount: 1,
		Page:       1,
		PageSize:   entity.DefaultFeedPageSize,
		TotalPages: 1,
	}, nil
}

func (m *MockPostUsecase) ListTags() []string {
	return entity.AvailableTags()
}
