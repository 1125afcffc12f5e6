package entity

import (
	"time"
)

// Post is a blog post. LikeCount is denormalized from the like records and is only
// written by the like toggle transaction.
type Post struct {
	ID        string     `bson:"_id,omitempty" firestore:"-" json:"id"`
	Title     string     `bson:"title" firestore:"title" json:"title"`
	Content   string     `bson:"content" firestore:"content" json:"content"`
	ImageURL  *string    `bson:"image_url,omitempty" firestore:"image,omitempty" json:"image_url,omitempty"`
	Tags      []string   `bson:"tags" firestore:"tags" json:"tags"`
	Author    PostAuthor `bson:"author" firestore:"author" json:"author"`
	LikeCount int64      `bson:"like_count" firestore:"likeCount" json:"like_count"`
	CreatedAt time.Time  `bson:"created_at" firestore:"createdAt" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" firestore:"updatedAt" json:"updated_at"`
}

// PostAuthor is the author snapshot embedded in a post.
type PostAuthor struct {
	ID   string `bson:"id" firestore:"id" json:"id"`
	Name string `bson:"name" firestore:"name" json:"name"`
}

// PostPatch carries the editable fields of a post. Nil fields are left untouched.
type PostPatch struct {
	Title    *string
	Content  *string
	ImageURL *string
	Tags     []string
}

// FeedQuery filters and paginates the post feed.
type FeedQuery struct {
	Tag      string
	Search   string
	AuthorID string
	Page     int
	PageSize int
}

const (
	DefaultFeedPageSize = 10
	MaxFeedPageSize     = 50
	MaxTagsPerPost      = 5
)

// Normalize clamps pagination values to their allowed ranges.
func (q FeedQuery) Normalize() FeedQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultFeedPageSize
	}
	if q.PageSize > MaxFeedPageSize {
		q.PageSize = MaxFeedPageSize
	}
	return q
}

// Offset returns the number of posts to skip for the current page.
func (q FeedQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}
