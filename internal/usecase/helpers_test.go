package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/echomind/mindink/internal/domain/contract"
	"github.com/echomind/mindink/internal/domain/entity"
	"github.com/echomind/mindink/internal/infrastructure/repository/memory"
	usecasecontract "github.com/echomind/mindink/internal/usecase/contract"
)

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{})                              {}
func (nopLogger) Infof(string, ...interface{})                               {}
func (nopLogger) Warnf(string, ...interface{})                               {}
func (nopLogger) Errorf(string, ...interface{})                              {}
func (nopLogger) Fatalf(string, ...interface{})                              {}
func (l nopLogger) WithField(string, interface{}) usecasecontract.IAppLogger { return l }

type testConfig struct {
	maxRetries int
}

func (testConfig) GetAppEnv() string                          { return "test" }
func (testConfig) GetAccessTokenExpiry() time.Duration        { return 15 * time.Minute }
func (c testConfig) GetLikeToggleMaxRetries() int             { return c.maxRetries }
func (testConfig) GetLikeToggleInitialBackoff() time.Duration { return time.Millisecond }
func (testConfig) GetLikeToggleMaxBackoff() time.Duration     { return 5 * time.Millisecond }
func (testConfig) GetFeedCacheTTL() time.Duration             { return time.Minute }

// flakyStore fails the first conflicts transactions with ErrConflict before delegating.
type flakyStore struct {
	*memory.Store
	mu        sync.Mutex
	conflicts int
	failWith  error
	calls     int
}

func (f *flakyStore) RunTransaction(ctx context.Context, fn func(tx contract.ILikeTx) error) error {
	f.mu.Lock()
	f.calls++
	if f.failWith != nil {
		f.mu.Unlock()
		return f.failWith
	}
	if f.conflicts > 0 {
		f.conflicts--
		f.mu.Unlock()
		return entity.ErrConflict
	}
	f.mu.Unlock()
	return f.Store.RunTransaction(ctx, fn)
}

func (f *flakyStore) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakePostCache records invalidations and keeps entries in maps.
type fakePostCache struct {
	mu          sync.Mutex
	posts       map[string]*entity.Post
	pages       map[string]*contract.CachedFeedPage
	invalidated []string
	pageFlushes int
}

func newFakePostCache() *fakePostCache {
	return &fakePostCache{
		posts: make(map[string]*entity.Post),
		pages: make(map[string]*contract.CachedFeedPage),
	}
}

func (c *fakePostCache) GetPost(ctx context.Context, postID string) (*entity.Post, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.posts[postID]
	if !ok {
		return nil, false, nil
	}
	cp := *p
	return &cp, true, nil
}

func (c *fakePostCache) SetPost(ctx context.Context, post *entity.Post) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *post
	c.posts[post.ID] = &cp
	return nil
}

func (c *fakePostCache) InvalidatePost(ctx context.Context, postID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.posts, postID)
	c.invalidated = append(c.invalidated, postID)
	return nil
}

func (c *fakePostCache) GetFeedPage(ctx context.Context, key string) (*contract.CachedFeedPage, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.pages[key]
	return p, ok, nil
}

func (c *fakePostCache) SetFeedPage(ctx context.Context, key string, page *contract.CachedFeedPage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages[key] = page
	return nil
}

func (c *fakePostCache) InvalidateFeedPages(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages = make(map[string]*contract.CachedFeedPage)
	c.pageFlushes++
	return nil
}

func (c *fakePostCache) Invalidated() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.invalidated...)
}
