package dto

import (
	"time"

	"github.com/echomind/mindink/internal/domain/entity"
	usecasecontract "github.com/echomind/mindink/internal/usecase/contract"
)

// Request DTOs for Post Handlers

// CreatePostRequest defines the structure for creating a new post
type CreatePostRequest struct {
	Title    string   `json:"title" binding:"required,max=200"`
	Content  string   `json:"content" binding:"required"`
	ImageURL *string  `json:"image_url"`
	Tags     []string `json:"tags" binding:"omitempty,max=5,dive,knowntag"`
}

// UpdatePostRequest defines the structure for updating an existing post
type UpdatePostRequest struct {
	Title    *string  `json:"title" binding:"omitempty,max=200"`
	Content  *string  `json:"content"`
	ImageURL *string  `json:"image_url"`
	Tags     []string `json:"tags" binding:"omitempty,max=5,dive,knowntag"`
}

// ToPatch converts the request into the usecase patch.
func (r UpdatePostRequest) ToPatch() entity.PostPatch {
	return entity.PostPatch{
		Title:    r.Title,
		Content:  r.Content,
		ImageURL: r.ImageURL,
		Tags:     r.Tags,
	}
}

// Response DTOs

// PostResponse defines the standard JSON response for a single post
type PostResponse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	ImageURL   *string   `json:"image_url,omitempty"`
	Tags       []string  `json:"tags"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	LikeCount  int64     `json:"like_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PostDetailResponse adds the rendered content to PostResponse.
type PostDetailResponse struct {
	PostResponse
	ContentHTML string `json:"content_html"`
}

// FeedResponse defines the structure for a paginated feed
type FeedResponse struct {
	Posts      []PostResponse `json:"posts"`
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// TagsResponse lists the tag catalog.
type TagsResponse struct {
	Tags []string `json:"tags"`
}

// LikeToggleResponse is returned by a successful toggle.
type LikeToggleResponse struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}

// LikedStateResponse reports whether the caller likes a post.
type LikedStateResponse struct {
	Liked bool `json:"liked"`
}

// LikeCountFrame is one message on the like count stream.
type LikeCountFrame struct {
	PostID    string `json:"post_id"`
	LikeCount int64  `json:"like_count"`
}

// Mapper functions

func ToPostResponse(post *entity.Post) PostResponse {
	tags := post.Tags
	if tags == nil {
		tags = []string{}
	}
	return PostResponse{
		ID:         post.ID,
		Title:      post.Title,
		Content:    post.Content,
		ImageURL:   post.ImageURL,
		Tags:       tags,
		AuthorID:   post.Author.ID,
		AuthorName: post.Author.Name,
		LikeCount:  post.LikeCount,
		CreatedAt:  post.CreatedAt,
		UpdatedAt:  post.UpdatedAt,
	}
}

func ToPostDetailResponse(detail *usecasecontract.PostDetail) PostDetailResponse {
	return PostDetailResponse{
		PostResponse: ToPostResponse(detail.Post),
		ContentHTML:  detail.ContentHTML,
	}
}

func ToFeedResponse(page *usecasecontract.FeedPage) FeedResponse {
	posts := make([]PostResponse, 0, len(page.Posts))
	for _, p := range page.Posts {
		posts = append(posts, ToPostResponse(p))
	}
	return FeedResponse{
		Posts:      posts,
		TotalCount: page.TotalCount,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}
