package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/echomind/mindink/internal/domain/contract"
	"github.com/echomind/mindink/internal/domain/entity"
)

const feedKeyPrefix = "posts:feed:"

type PostCacheStore struct {
	rdb       *redis.Client
	detailTTL time.Duration
	feedTTL   time.Duration
}

var _ contract.IPostCache = (*PostCacheStore)(nil)

// NewPostCacheStore caches post details for an hour and feed pages for feedTTL.
func NewPostCacheStore(rdb *redis.Client, feedTTL time.Duration) *PostCacheStore {
	if feedTTL <= 0 {
		feedTTL = 5 * time.Minute
	}
	return &PostCacheStore{
		rdb:       rdb,
		detailTTL: time.Hour,
		feedTTL:   feedTTL,
	}
}

func postDetailKey(postID string) string { return fmt.Sprintf("posts:id:%s", postID) }

func feedPageKey(key string) string { return feedKeyPrefix + key }

func (c *PostCacheStore) GetPost(ctx context.Context, postID string) (*entity.Post, bool, error) {
	b, err := c.rdb.Get(ctx, postDetailKey(postID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var post entity.Post
	if err := json.Unmarshal(b, &post); err != nil {
		return nil, false, nil
	}
	return &post, true, nil
}

func (c *PostCacheStore) SetPost(ctx context.Context, post *entity.Post) error {
	data, err := json.Marshal(post)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, postDetailKey(post.ID), data, c.detailTTL).Err()
}

func (c *PostCacheStore) InvalidatePost(ctx context.Context, postID string) error {
	return c.rdb.Del(ctx, postDetailKey(postID)).Err()
}

func (c *PostCacheStore) GetFeedPage(ctx context.Context, key string) (*contract.CachedFeedPage, bool, error) {
	b, err := c.rdb.Get(ctx, feedPageKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var page contract.CachedFeedPage
	if err := json.Unmarshal(b, &page); err != nil {
		return nil, false, nil
	}
	return &page, true, nil
}

func (c *PostCacheStore) SetFeedPage(ctx context.Context, key string, page *contract.CachedFeedPage) error {
	data, err := json.Marshal(page)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, feedPageKey(key), data, c.feedTTL).Err()
}

// InvalidateFeedPages deletes every cached feed page in batches.
func (c *PostCacheStore) InvalidateFeedPages(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, feedKeyPrefix+"*", 1000).Iterator()
	pipe := c.rdb.Pipeline()
	n := 0
	for iter.Next(ctx) {
		pipe.Del(ctx, iter.Val())
		n++
		if n%200 == 0 {
			if _, err := pipe.Exec(ctx); err != nil {
				return err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if n%200 != 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}
