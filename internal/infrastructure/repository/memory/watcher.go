package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/echomind/mindink/internal/domain/entity"
)

var errReadAfterWrite = errors.New("memory store: reads must happen before writes in a transaction")

// countWatch queues counter values for one subscriber so the committer never blocks on it.
type countWatch struct {
	mu      sync.Mutex
	queue   []int64
	deleted bool
	signal  chan struct{}
}

func newCountWatch() *countWatch {
	return &countWatch{signal: make(chan struct{}, 1)}
}

func (w *countWatch) push(count int64) {
	w.mu.Lock()
	w.queue = append(w.queue, count)
	w.mu.Unlock()
	w.wake()
}

func (w *countWatch) markDeleted() {
	w.mu.Lock()
	w.deleted = true
	w.mu.Unlock()
	w.wake()
}

func (w *countWatch) wake() {
	select {
	case w.signal <- struct{}{}:
	default:
	}
}

func (w *countWatch) drain() ([]int64, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	values := w.queue
	w.queue = nil
	return values, w.deleted
}

// notifyLocked must be called with s.mu held so queues receive values in commit order.
func (s *Store) notifyLocked(postID string, count int64) {
	for w := range s.watchers[postID] {
		w.push(count)
	}
}

func (s *Store) dropWatchersLocked(postID string) {
	for w := range s.watchers[postID] {
		w.markDeleted()
	}
}

// WatchLikeCount streams the like counter of postID until ctx is done or the post is deleted.
func (s *Store) WatchLikeCount(ctx context.Context, postID string, onChange func(count int64)) error {
	w := newCountWatch()

	s.mu.Lock()
	post, ok := s.posts[postID]
	if !ok {
		s.mu.Unlock()
		return entity.ErrPostNotFound
	}
	w.push(post.LikeCount)
	if s.watchers[postID] == nil {
		s.watchers[postID] = make(map[*countWatch]struct{})
	}
	s.watchers[postID][w] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.watchers[postID], w)
		if len(s.watchers[postID]) == 0 {
			delete(s.watchers, postID)
		}
		s.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.signal:
			values, deleted := w.drain()
			for _, v := range values {
				if ctx.Err() != nil {
					return nil
				}
				onChange(v)
			}
			if deleted {
				return entity.ErrPostNotFound
			}
		}
	}
}
