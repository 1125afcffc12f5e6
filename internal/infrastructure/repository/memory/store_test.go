package memory_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echomind/mindink/internal/domain/contract"
	"github.com/echomind/mindink/internal/domain/entity"
	"github.com/echomind/mindink/internal/infrastructure/repository/memory"
)

func seedPost(t *testing.T, s *memory.Store, id string, createdAt time.Time, tags ...string) {
	t.Helper()
	require.NoError(t, s.CreatePost(context.Background(), &entity.Post{
		ID:        id,
		Title:     "Title " + id,
		Content:   "content of " + id,
		Tags:      tags,
		Author:    entity.PostAuthor{ID: "author-1", Name: "author"},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}))
}

func like(s *memory.Store, postID, userID string) error {
	return s.RunTransaction(context.Background(), func(tx contract.ILikeTx) error {
		count, err := tx.GetLikeCount(postID)
		if err != nil {
			return err
		}
		if err := tx.SetLike(&entity.LikeRecord{PostID: postID, UserID: userID, LikedAt: time.Now()}); err != nil {
			return err
		}
		return tx.UpdateLikeCount(postID, count+1)
	})
}

func TestRunTransaction_CommitsWrites(t *testing.T) {
	s := memory.NewStore()
	seedPost(t, s, "p1", time.Now())

	require.NoError(t, like(s, "p1", "u1"))

	post, err := s.GetPostByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), post.LikeCount)
	liked, err := s.LikeExists(context.Background(), "p1", "u1")
	require.NoError(t, err)
	assert.True(t, liked)
}

func TestRunTransaction_DiscardsWritesOnError(t *testing.T) {
	s := memory.NewStore()
	seedPost(t, s, "p1", time.Now())
	boom := errors.New("boom")

	err := s.RunTransaction(context.Background(), func(tx contract.ILikeTx) error {
		_ = tx.SetLike(&entity.LikeRecord{PostID: "p1", UserID: "u1"})
		_ = tx.UpdateLikeCount("p1", 1)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	post, _ := s.GetPostByID(context.Background(), "p1")
	assert.Equal(t, int64(0), post.LikeCount)
	assert.Equal(t, 0, s.CountLikeRecords("p1"))
}

func TestRunTransaction_RejectsReadAfterWrite(t *testing.T) {
	s := memory.NewStore()
	seedPost(t, s, "p1", time.Now())

	err := s.RunTransaction(context.Background(), func(tx contract.ILikeTx) error {
		if err := tx.SetLike(&entity.LikeRecord{PostID: "p1", UserID: "u1"}); err != nil {
			return err
		}
		_, err := tx.GetLikeCount("p1")
		return err
	})
	assert.Error(t, err)
	assert.Equal(t, 0, s.CountLikeRecords("p1"))
}

func TestRunTransaction_MissingPost(t *testing.T) {
	s := memory.NewStore()
	err := like(s, "missing", "u1")
	assert.ErrorIs(t, err, entity.ErrPostNotFound)
	assert.Equal(t, 0, s.CountLikeRecords("missing"))
}

func TestWatchLikeCount_InitialThenChanges(t *testing.T) {
	s := memory.NewStore()
	seedPost(t, s, "p1", time.Now())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	values := make(chan int64, 10)
	done := make(chan error, 1)
	go func() {
		done <- s.WatchLikeCount(ctx, "p1", func(count int64) { values <- count })
	}()

	assert.Equal(t, int64(0), receive(t, values))
	require.NoError(t, like(s, "p1", "u1"))
	require.NoError(t, like(s, "p1", "u2"))
	assert.Equal(t, int64(1), receive(t, values))
	assert.Equal(t, int64(2), receive(t, values))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestWatchLikeCount_PostDeleted(t *testing.T) {
	s := memory.NewStore()
	seedPost(t, s, "p1", time.Now())

	values := make(chan int64, 10)
	done := make(chan error, 1)
	go func() {
		done <- s.WatchLikeCount(context.Background(), "p1", func(count int64) { values <- count })
	}()
	receive(t, values)

	require.NoError(t, s.DeletePost(context.Background(), "p1"))
	select {
	case err := <-done:
		assert.ErrorIs(t, err, entity.ErrPostNotFound)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop after delete")
	}
}

func TestWatchLikeCount_MissingPost(t *testing.T) {
	s := memory.NewStore()
	err := s.WatchLikeCount(context.Background(), "missing", func(int64) {})
	assert.ErrorIs(t, err, entity.ErrPostNotFound)
}

func TestDeletePost_RemovesLikes(t *testing.T) {
	s := memory.NewStore()
	seedPost(t, s, "p1", time.Now())
	require.NoError(t, like(s, "p1", "u1"))

	require.NoError(t, s.DeletePost(context.Background(), "p1"))

	assert.Equal(t, 0, s.CountLikeRecords("p1"))
	_, err := s.GetPostByID(context.Background(), "p1")
	assert.ErrorIs(t, err, entity.ErrPostNotFound)
}

func TestUpdatePost_KeepsLikeCount(t *testing.T) {
	s := memory.NewStore()
	seedPost(t, s, "p1", time.Now())
	require.NoError(t, like(s, "p1", "u1"))

	post, _ := s.GetPostByID(context.Background(), "p1")
	post.Title = "edited"
	post.LikeCount = 42
	require.NoError(t, s.UpdatePost(context.Background(), post))

	stored, _ := s.GetPostByID(context.Background(), "p1")
	assert.Equal(t, "edited", stored.Title)
	assert.Equal(t, int64(1), stored.LikeCount)
}

func TestListPosts(t *testing.T) {
	s := memory.NewStore()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		tag := "Go"
		if i%2 == 1 {
			tag = "Travel"
		}
		seedPost(t, s, fmt.Sprintf("p%02d", i), base.Add(time.Duration(i)*time.Hour), tag)
	}

	page, total, err := s.ListPosts(context.Background(), entity.FeedQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	require.Len(t, page, entity.DefaultFeedPageSize)
	assert.Equal(t, "p11", page[0].ID)

	page, total, err = s.ListPosts(context.Background(), entity.FeedQuery{Tag: "Travel", PageSize: 4, Page: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(6), total)
	require.Len(t, page, 2)
	assert.Equal(t, "p03", page[0].ID)

	page, total, err = s.ListPosts(context.Background(), entity.FeedQuery{Search: "CONTENT OF P05"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "p05", page[0].ID)

	page, _, err = s.ListPosts(context.Background(), entity.FeedQuery{Page: 9})
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestUsers_Uniqueness(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, s.CreateUser(ctx, &entity.User{ID: "u1", Username: "ada", Email: "ada@example.com"}))

	err := s.CreateUser(ctx, &entity.User{ID: "u2", Username: "ada", Email: "other@example.com"})
	assert.ErrorIs(t, err, entity.ErrAlreadyExists)
	err = s.CreateUser(ctx, &entity.User{ID: "u3", Username: "grace", Email: "ADA@example.com"})
	assert.ErrorIs(t, err, entity.ErrAlreadyExists)

	require.NoError(t, s.CreateUser(ctx, &entity.User{ID: "u4", Username: "grace", Email: "grace@example.com"}))
	_, err = s.UpdateUser(ctx, &entity.User{ID: "u4", Username: "ada", Email: "grace@example.com"})
	assert.ErrorIs(t, err, entity.ErrAlreadyExists)

	u, err := s.GetUserByEmail(ctx, "GRACE@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u4", u.ID)
	_, err = s.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, entity.ErrUserNotFound)
}

func receive(t *testing.T, ch <-chan int64) int64 {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for like count")
		return 0
	}
}
