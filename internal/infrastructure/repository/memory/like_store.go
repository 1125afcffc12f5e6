package memory

import (
	"context"

	"github.com/echomind/mindink/internal/domain/contract"
	"github.com/echomind/mindink/internal/domain/entity"
)

// likeTx buffers writes until the transaction function returns without error.
type likeTx struct {
	s        *Store
	setLikes map[string]*entity.LikeRecord
	delLikes map[string]struct{}
	counts   map[string]int64
	wrote    bool
}

var _ contract.ILikeTx = (*likeTx)(nil)

func (tx *likeTx) GetLike(postID, userID string) (*entity.LikeRecord, error) {
	if tx.wrote {
		return nil, errReadAfterWrite
	}
	like, ok := tx.s.likes[entity.LikeRecordID(postID, userID)]
	if !ok {
		return nil, nil
	}
	cp := *like
	return &cp, nil
}

func (tx *likeTx) GetLikeCount(postID string) (int64, error) {
	if tx.wrote {
		return 0, errReadAfterWrite
	}
	post, ok := tx.s.posts[postID]
	if !ok {
		return 0, entity.ErrPostNotFound
	}
	return post.LikeCount, nil
}

func (tx *likeTx) SetLike(like *entity.LikeRecord) error {
	tx.wrote = true
	id := entity.LikeRecordID(like.PostID, like.UserID)
	cp := *like
	tx.setLikes[id] = &cp
	delete(tx.delLikes, id)
	return nil
}

func (tx *likeTx) DeleteLike(postID, userID string) error {
	tx.wrote = true
	id := entity.LikeRecordID(postID, userID)
	tx.delLikes[id] = struct{}{}
	delete(tx.setLikes, id)
	return nil
}

func (tx *likeTx) UpdateLikeCount(postID string, count int64) error {
	tx.wrote = true
	if _, ok := tx.s.posts[postID]; !ok {
		return entity.ErrPostNotFound
	}
	tx.counts[postID] = count
	return nil
}

// RunTransaction runs fn with the store locked and applies its writes only when fn succeeds.
func (s *Store) RunTransaction(ctx context.Context, fn func(tx contract.ILikeTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &likeTx{
		s:        s,
		setLikes: make(map[string]*entity.LikeRecord),
		delLikes: make(map[string]struct{}),
		counts:   make(map[string]int64),
	}
	if err := fn(tx); err != nil {
		return err
	}

	for id := range tx.delLikes {
		delete(s.likes, id)
	}
	for id, like := range tx.setLikes {
		s.likes[id] = like
	}
	for postID, count := range tx.counts {
		post := s.posts[postID]
		if post.LikeCount == count {
			continue
		}
		post.LikeCount = count
		s.notifyLocked(postID, count)
	}
	return nil
}

// LikeExists reports whether the like record for the pair exists.
func (s *Store) LikeExists(ctx context.Context, postID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.likes[entity.LikeRecordID(postID, userID)]
	return ok, nil
}

// CountLikeRecords returns the number of like records stored for postID.
func (s *Store) CountLikeRecords(postID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, like := range s.likes {
		if like.PostID == postID {
			n++
		}
	}
	return n
}
