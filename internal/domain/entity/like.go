package entity

import (
	"time"
)

// LikeRecord is the authoritative fact that a user currently likes a post.
// Its key is (PostID, UserID).
type LikeRecord struct {
	PostID  string    `bson:"post_id" firestore:"-" json:"post_id"`
	UserID  string    `bson:"user_id" firestore:"userId" json:"user_id"`
	LikedAt time.Time `bson:"liked_at" firestore:"likedAt" json:"liked_at"`
}

// LikeRecordID builds the storage key of a like record.
func LikeRecordID(postID, userID string) string {
	return postID + "/" + userID
}

// LikeState is the result of a toggle as seen by the caller.
type LikeState struct {
	PostID    string `json:"post_id"`
	Liked     bool   `json:"liked"`
	LikeCount int64  `json:"like_count"`
}
