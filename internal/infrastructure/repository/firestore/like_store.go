package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"github.com/echomind/mindink/internal/domain/contract"
	"github.com/echomind/mindink/internal/domain/entity"
)

// LikeStore runs like toggles as Firestore transactions. Likes live under posts/{postId}/likes/{userId}.
type LikeStore struct {
	client *firestore.Client
}

var _ contract.ILikeStore = (*LikeStore)(nil)

func NewLikeStore(client *firestore.Client) *LikeStore {
	return &LikeStore{client: client}
}

func (s *LikeStore) postRef(postID string) *firestore.DocumentRef {
	return s.client.Collection(postsCollection).Doc(postID)
}

func (s *LikeStore) likeRef(postID, userID string) *firestore.DocumentRef {
	return s.postRef(postID).Collection(likesCollection).Doc(userID)
}

// RunTransaction makes a single attempt; contention surfaces as entity.ErrConflict for the
// caller's backoff to handle.
func (s *LikeStore) RunTransaction(ctx context.Context, fn func(tx contract.ILikeTx) error) error {
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		return fn(&likeTx{store: s, tx: tx})
	}, firestore.MaxAttempts(1))
	return translateError(err)
}

func (s *LikeStore) LikeExists(ctx context.Context, postID, userID string) (bool, error) {
	_, err := s.likeRef(postID, userID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, translateError(fmt.Errorf("failed to check like: %w", err))
	}
	return true, nil
}

type likeTx struct {
	store *LikeStore
	tx    *firestore.Transaction
}

func (t *likeTx) GetLike(postID, userID string) (*entity.LikeRecord, error) {
	snap, err := t.tx.Get(t.store.likeRef(postID, userID))
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read like: %w", err)
	}
	var like entity.LikeRecord
	if err := snap.DataTo(&like); err != nil {
		return nil, fmt.Errorf("failed to decode like: %w", err)
	}
	like.PostID = postID
	return &like, nil
}

func (t *likeTx) GetLikeCount(postID string) (int64, error) {
	snap, err := t.tx.Get(t.store.postRef(postID))
	if err != nil {
		if isNotFound(err) {
			return 0, entity.ErrPostNotFound
		}
		return 0, fmt.Errorf("failed to read post: %w", err)
	}
	return likeCountOf(snap)
}

func (t *likeTx) SetLike(like *entity.LikeRecord) error {
	return t.tx.Create(t.store.likeRef(like.PostID, like.UserID), like)
}

func (t *likeTx) DeleteLike(postID, userID string) error {
	return t.tx.Delete(t.store.likeRef(postID, userID))
}

func (t *likeTx) UpdateLikeCount(postID string, count int64) error {
	return t.tx.Update(t.store.postRef(postID), []firestore.Update{{Path: "likeCount", Value: count}})
}

func likeCountOf(snap *firestore.DocumentSnapshot) (int64, error) {
	v, err := snap.DataAt("likeCount")
	if err != nil {
		// posts written before the counter existed
		return 0, nil
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case float64:
		return int64(n), nil
	}
	return 0, fmt.Errorf("unexpected likeCount type %T", v)
}
