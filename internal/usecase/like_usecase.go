package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/echomind/mindink/internal/domain/contract"
	"github.com/echomind/mindink/internal/domain/entity"
	"github.com/echomind/mindink/internal/infrastructure/metrics"
	usecasecontract "github.com/echomind/mindink/internal/usecase/contract"
)

// RetryPolicy bounds how a toggle is retried after a transaction conflict.
type RetryPolicy struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryPolicy is used when the configuration provides no usable values.
var DefaultRetryPolicy = RetryPolicy{
	MaxRetries:      4,
	InitialInterval: 50 * time.Millisecond,
	MaxInterval:     time.Second,
}

// LikeUsecase toggles likes and exposes the live like state of posts.
//
// Every like and unlike goes through ToggleLike; nothing else writes a like record or the
// post's like counter.
type LikeUsecase struct {
	store     contract.ILikeStore
	watcher   contract.ILikeCountWatcher
	postCache contract.IPostCache
	logger    usecasecontract.IAppLogger
	retry     RetryPolicy
	now       func() time.Time
}

// NewLikeUsecase creates and returns a new LikeUsecase instance.
func NewLikeUsecase(store contract.ILikeStore, watcher contract.ILikeCountWatcher, logger usecasecontract.IAppLogger, cfg usecasecontract.IConfigProvider) *LikeUsecase {
	retry := DefaultRetryPolicy
	if cfg != nil {
		if n := cfg.GetLikeToggleMaxRetries(); n >= 0 {
			retry.MaxRetries = n
		}
		if d := cfg.GetLikeToggleInitialBackoff(); d > 0 {
			retry.InitialInterval = d
		}
		if d := cfg.GetLikeToggleMaxBackoff(); d > 0 {
			retry.MaxInterval = d
		}
	}
	return &LikeUsecase{
		store:   store,
		watcher: watcher,
		logger:  logger,
		retry:   retry,
		now:     time.Now,
	}
}

var _ usecasecontract.ILikeUseCase = (*LikeUsecase)(nil)

// SetPostCache lets a toggle drop the cached copy of the post it changed.
func (u *LikeUsecase) SetPostCache(cache contract.IPostCache) {
	u.postCache = cache
}

// ToggleLike flips the like state of userID on postID and returns the new state.
func (u *LikeUsecase) ToggleLike(ctx context.Context, postID, userID string) (bool, error) {
	state, err := u.ToggleLikeState(ctx, postID, userID)
	if err != nil {
		return false, err
	}
	return state.Liked, nil
}

// ToggleLikeState flips the like state and reports the counter value it committed.
func (u *LikeUsecase) ToggleLikeState(ctx context.Context, postID, userID string) (*entity.LikeState, error) {
	if postID == "" || userID == "" {
		return nil, fmt.Errorf("%w: post id and user id are required", entity.ErrValidation)
	}

	var state *entity.LikeState
	attempts := 0
	op := func() error {
		attempts++
		s, err := u.toggleOnce(ctx, postID, userID)
		if err != nil {
			if errors.Is(err, entity.ErrConflict) {
				return err
			}
			return backoff.Permanent(err)
		}
		state = s
		return nil
	}
	notify := func(err error, wait time.Duration) {
		metrics.LikeToggleRetries.Inc()
		u.logger.Warnf("like toggle on post %s conflicted (attempt %d), retrying in %s: %v", postID, attempts, wait, err)
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(u.newBackOff(), ctx), notify); err != nil {
		switch {
		case errors.Is(err, entity.ErrPostNotFound):
			metrics.LikeToggles.WithLabelValues("not_found").Inc()
			return nil, err
		case errors.Is(err, entity.ErrConflict):
			metrics.LikeToggles.WithLabelValues("error").Inc()
			u.logger.Errorf("like toggle on post %s gave up after %d attempts: %v", postID, attempts, err)
			return nil, fmt.Errorf("failed to toggle like after %d attempts: %w", attempts, err)
		default:
			metrics.LikeToggles.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("failed to toggle like: %w", err)
		}
	}

	if state.Liked {
		metrics.LikeToggles.WithLabelValues("liked").Inc()
	} else {
		metrics.LikeToggles.WithLabelValues("unliked").Inc()
	}
	u.invalidateCachedPost(ctx, postID)
	return state, nil
}

// toggleOnce runs a single read-decide-write transaction.
func (u *LikeUsecase) toggleOnce(ctx context.Context, postID, userID string) (*entity.LikeState, error) {
	var state entity.LikeState
	err := u.store.RunTransaction(ctx, func(tx contract.ILikeTx) error {
		like, err := tx.GetLike(postID, userID)
		if err != nil {
			return err
		}
		count, err := tx.GetLikeCount(postID)
		if err != nil {
			return err
		}

		if like != nil {
			next := count - 1
			if next < 0 {
				u.logger.Warnf("like counter of post %s was %d with an existing like record, clamping to 0", postID, count)
				next = 0
			}
			if err := tx.DeleteLike(postID, userID); err != nil {
				return err
			}
			if err := tx.UpdateLikeCount(postID, next); err != nil {
				return err
			}
			state = entity.LikeState{PostID: postID, Liked: false, LikeCount: next}
			return nil
		}

		if err := tx.SetLike(&entity.LikeRecord{PostID: postID, UserID: userID, LikedAt: u.now().UTC()}); err != nil {
			return err
		}
		if err := tx.UpdateLikeCount(postID, count+1); err != nil {
			return err
		}
		state = entity.LikeState{PostID: postID, Liked: true, LikeCount: count + 1}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (u *LikeUsecase) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = u.retry.InitialInterval
	b.MaxInterval = u.retry.MaxInterval
	b.MaxElapsedTime = 0
	b.Reset()
	return backoff.WithMaxRetries(b, uint64(u.retry.MaxRetries))
}

func (u *LikeUsecase) invalidateCachedPost(ctx context.Context, postID string) {
	if u.postCache == nil {
		return
	}
	if err := u.postCache.InvalidatePost(ctx, postID); err != nil {
		u.logger.Warnf("failed to invalidate cached post %s after like toggle: %v", postID, err)
	}
}

// GetInitialLikedState reports whether userID likes postID as of the read.
func (u *LikeUsecase) GetInitialLikedState(ctx context.Context, postID, userID string) (bool, error) {
	if postID == "" || userID == "" {
		return false, fmt.Errorf("%w: post id and user id are required", entity.ErrValidation)
	}
	liked, err := u.store.LikeExists(ctx, postID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to read like state: %w", err)
	}
	return liked, nil
}

// SubscribeToLikeCount registers onChange on the like counter of postID. onChange receives the
// current value right away and every committed change afterwards, one call at a time. Stream
// failures are passed to onError. The subscription ends when the returned Unsubscribe is called
// or ctx is done.
//
// After Unsubscribe returns no further onChange call begins; one already running may finish.
// Unsubscribe can wait for a delivery that is about to call onChange, so onChange must not block
// on the goroutine that unsubscribes. Calling it from inside onChange is fine.
func (u *LikeUsecase) SubscribeToLikeCount(ctx context.Context, postID string, onChange func(count int64), onError func(err error)) (usecasecontract.Unsubscribe, error) {
	if postID == "" {
		return nil, fmt.Errorf("%w: post id is required", entity.ErrValidation)
	}
	if onChange == nil {
		return nil, fmt.Errorf("%w: onChange callback is required", entity.ErrValidation)
	}

	subCtx, cancel := context.WithCancel(ctx)
	var (
		mu         sync.Mutex
		stopped    atomic.Bool
		inCallback atomic.Bool
	)
	deliver := func(count int64) {
		mu.Lock()
		defer mu.Unlock()
		if stopped.Load() {
			return
		}
		inCallback.Store(true)
		defer inCallback.Store(false)
		onChange(count)
	}

	metrics.LikeCountSubscriptions.Inc()
	go func() {
		defer metrics.LikeCountSubscriptions.Dec()
		defer cancel()
		err := u.watcher.WatchLikeCount(subCtx, postID, deliver)
		if err == nil || subCtx.Err() != nil || stopped.Load() {
			return
		}
		u.logger.Warnf("like count subscription on post %s ended: %v", postID, err)
		if onError != nil {
			onError(err)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			stopped.Store(true)
			cancel()
		})
		// a running onChange holds mu and may be the caller
		if inCallback.Load() {
			return
		}
		mu.Lock()
		mu.Unlock()
	}, nil
}
