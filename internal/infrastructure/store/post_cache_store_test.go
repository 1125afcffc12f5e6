package store

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/echomind/mindink/internal/domain/contract"
	"github.com/echomind/mindink/internal/domain/entity"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestPostCacheStore_Post(t *testing.T) {
	rdb := startRedis(t)
	c := NewPostCacheStore(rdb, time.Minute)
	ctx := context.Background()

	_, found, err := c.GetPost(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, found)

	post := &entity.Post{ID: "p1", Title: "Hello", Tags: []string{"Go"}, LikeCount: 3}
	require.NoError(t, c.SetPost(ctx, post))

	cached, found, err := c.GetPost(ctx, "p1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Hello", cached.Title)
	assert.Equal(t, int64(3), cached.LikeCount)

	require.NoError(t, c.InvalidatePost(ctx, "p1"))
	_, found, err = c.GetPost(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPostCacheStore_FeedPages(t *testing.T) {
	rdb := startRedis(t)
	c := NewPostCacheStore(rdb, time.Minute)
	ctx := context.Background()

	for _, key := range []string{"page=1", "page=2", "tag=Travel:page=1"} {
		require.NoError(t, c.SetFeedPage(ctx, key, &contract.CachedFeedPage{
			Posts: []entity.Post{{ID: "p1"}},
			Total: 1,
		}))
	}
	require.NoError(t, c.SetPost(ctx, &entity.Post{ID: "p1"}))

	page, found, err := c.GetFeedPage(ctx, "page=2")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(1), page.Total)

	require.NoError(t, c.InvalidateFeedPages(ctx))
	_, found, err = c.GetFeedPage(ctx, "tag=Travel:page=1")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = c.GetPost(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, found, "post detail survives feed invalidation")
}
