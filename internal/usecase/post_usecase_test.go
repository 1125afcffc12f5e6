package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echomind/mindink/internal/domain/entity"
	"github.com/echomind/mindink/internal/infrastructure/markdown"
	"github.com/echomind/mindink/internal/infrastructure/repository/memory"
	"github.com/echomind/mindink/internal/infrastructure/uuidgen"
	"github.com/echomind/mindink/internal/infrastructure/validator"
	"github.com/echomind/mindink/internal/usecase"
)

type postFixture struct {
	store *memory.Store
	posts *usecase.PostUsecase
	likes *usecase.LikeUsecase
	cache *fakePostCache
}

func newPostFixture(t *testing.T) *postFixture {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	for _, u := range []*entity.User{
		{ID: "author", Username: "ada", Email: "ada@example.com", CreatedAt: time.Now()},
		{ID: "other", Username: "grace", Email: "grace@example.com", CreatedAt: time.Now()},
	} {
		require.NoError(t, store.CreateUser(ctx, u))
	}

	cache := newFakePostCache()
	posts := usecase.NewPostUsecase(store, store, markdown.NewRenderer(), validator.NewValidator(), uuidgen.NewGenerator(), nopLogger{})
	posts.SetCache(cache)
	likes := usecase.NewLikeUsecase(store, store, nopLogger{}, testConfig{maxRetries: 3})
	likes.SetPostCache(cache)
	return &postFixture{store: store, posts: posts, likes: likes, cache: cache}
}

func strPtr(s string) *string { return &s }

func TestCreatePost(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()

	post, err := f.posts.CreatePost(ctx, "author", "  On robots ", "Robots are *neat*", strPtr("https://img.example/r.png"), []string{"AI", "Robotics", "AI"})
	require.NoError(t, err)

	assert.NotEmpty(t, post.ID)
	assert.Equal(t, "On robots", post.Title)
	assert.Equal(t, []string{"AI", "Robotics"}, post.Tags)
	assert.Equal(t, entity.PostAuthor{ID: "author", Name: "ada"}, post.Author)
	assert.Equal(t, int64(0), post.LikeCount)
	assert.Equal(t, 1, f.cache.pageFlushes)

	stored, err := f.store.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.Title, stored.Title)
}

func TestCreatePost_Validation(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		title   string
		content string
		image   *string
		tags    []string
	}{
		{"empty title", "  ", "body", nil, nil},
		{"empty content", "title", "", nil, nil},
		{"unknown tag", "title", "body", nil, []string{"Cooking"}},
		{"too many tags", "title", "body", nil, []string{"AI", "Art", "Books", "Business", "Career", "Culture"}},
		{"bad image url", "title", "body", strPtr("ftp://img.example/a.png"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.posts.CreatePost(ctx, "author", tt.title, tt.content, tt.image, tt.tags)
			assert.ErrorIs(t, err, entity.ErrValidation)
		})
	}
}

func TestCreatePost_UnknownAuthor(t *testing.T) {
	f := newPostFixture(t)

	_, err := f.posts.CreatePost(context.Background(), "ghost", "title", "body", nil, nil)
	assert.ErrorIs(t, err, entity.ErrUserNotFound)
}

func TestGetPost_RendersAndCaches(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()
	post, err := f.posts.CreatePost(ctx, "author", "Title", "# Hello\n\n<script>alert(1)</script>", nil, nil)
	require.NoError(t, err)

	detail, err := f.posts.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Contains(t, detail.ContentHTML, "<h1>Hello</h1>")
	assert.NotContains(t, detail.ContentHTML, "<script>")

	cached, found, err := f.cache.GetPost(ctx, post.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, post.ID, cached.ID)

	_, err = f.posts.GetPost(ctx, "missing")
	assert.ErrorIs(t, err, entity.ErrPostNotFound)
}

func TestGetPost_LikeToggleRefreshesCachedCount(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()
	post, err := f.posts.CreatePost(ctx, "author", "Title", "body", nil, nil)
	require.NoError(t, err)

	_, err = f.posts.GetPost(ctx, post.ID)
	require.NoError(t, err)
	_, err = f.likes.ToggleLike(ctx, post.ID, "other")
	require.NoError(t, err)

	detail, err := f.posts.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), detail.Post.LikeCount)
}

// toggleAfterRead commits a like right after a post read, before the caller can cache it.
type toggleAfterRead struct {
	*memory.Store
	likes  *usecase.LikeUsecase
	userID string
	fired  bool
}

func (r *toggleAfterRead) GetPostByID(ctx context.Context, postID string) (*entity.Post, error) {
	post, err := r.Store.GetPostByID(ctx, postID)
	if err == nil && !r.fired {
		r.fired = true
		if _, err := r.likes.ToggleLike(ctx, postID, r.userID); err != nil {
			return nil, err
		}
	}
	return post, err
}

func TestGetPost_ToggleDuringCacheFillIsNotLost(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()
	post, err := f.posts.CreatePost(ctx, "author", "Title", "body", nil, nil)
	require.NoError(t, err)

	repo := &toggleAfterRead{Store: f.store, likes: f.likes, userID: "other"}
	posts := usecase.NewPostUsecase(repo, f.store, markdown.NewRenderer(), validator.NewValidator(), uuidgen.NewGenerator(), nopLogger{})
	posts.SetCache(f.cache)

	first, err := posts.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), first.Post.LikeCount)
	require.Equal(t, int64(1), likeCount(t, f.store, post.ID))

	_, found, err := f.cache.GetPost(ctx, post.ID)
	require.NoError(t, err)
	require.True(t, found)

	detail, err := posts.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), detail.Post.LikeCount)
}

func TestGetPost_CachedPostDeletedElsewhere(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()
	post, err := f.posts.CreatePost(ctx, "author", "Title", "body", nil, nil)
	require.NoError(t, err)
	_, err = f.posts.GetPost(ctx, post.ID)
	require.NoError(t, err)

	require.NoError(t, f.store.DeletePost(ctx, post.ID))

	_, err = f.posts.GetPost(ctx, post.ID)
	assert.ErrorIs(t, err, entity.ErrPostNotFound)
	_, found, _ := f.cache.GetPost(ctx, post.ID)
	assert.False(t, found)
}

func TestUpdatePost(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()
	post, err := f.posts.CreatePost(ctx, "author", "Title", "body", nil, []string{"AI"})
	require.NoError(t, err)
	_, err = f.likes.ToggleLike(ctx, post.ID, "other")
	require.NoError(t, err)

	updated, err := f.posts.UpdatePost(ctx, post.ID, "author", entity.PostPatch{
		Title: strPtr("New title"),
		Tags:  []string{"Science"},
	})
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, "body", updated.Content)
	assert.Equal(t, []string{"Science"}, updated.Tags)
	// editing a post never rewrites its like counter
	assert.Equal(t, int64(1), updated.LikeCount)
	assert.Equal(t, int64(f.store.CountLikeRecords(post.ID)), updated.LikeCount)
	assert.Contains(t, f.cache.Invalidated(), post.ID)
}

func TestUpdatePost_Errors(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()
	post, err := f.posts.CreatePost(ctx, "author", "Title", "body", nil, nil)
	require.NoError(t, err)

	_, err = f.posts.UpdatePost(ctx, post.ID, "other", entity.PostPatch{Title: strPtr("hijacked")})
	assert.ErrorIs(t, err, entity.ErrForbidden)

	_, err = f.posts.UpdatePost(ctx, post.ID, "author", entity.PostPatch{Content: strPtr(" ")})
	assert.ErrorIs(t, err, entity.ErrValidation)

	_, err = f.posts.UpdatePost(ctx, "missing", "author", entity.PostPatch{})
	assert.ErrorIs(t, err, entity.ErrPostNotFound)
}

func TestDeletePost_RemovesLikes(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()
	post, err := f.posts.CreatePost(ctx, "author", "Title", "body", nil, nil)
	require.NoError(t, err)
	for _, u := range []string{"u1", "u2"} {
		_, err := f.likes.ToggleLike(ctx, post.ID, u)
		require.NoError(t, err)
	}

	assert.ErrorIs(t, f.posts.DeletePost(ctx, post.ID, "other"), entity.ErrForbidden)
	require.NoError(t, f.posts.DeletePost(ctx, post.ID, "author"))

	assert.Equal(t, 0, f.store.CountLikeRecords(post.ID))
	_, err = f.posts.GetPost(ctx, post.ID)
	assert.ErrorIs(t, err, entity.ErrPostNotFound)
	_, err = f.likes.ToggleLike(ctx, post.ID, "u3")
	assert.ErrorIs(t, err, entity.ErrPostNotFound)
}

func TestListFeed(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()
	for i := 0; i < 7; i++ {
		tags := []string{"AI"}
		if i%2 == 0 {
			tags = []string{"Travel"}
		}
		_, err := f.posts.CreatePost(ctx, "author", fmt.Sprintf("Post %d", i), "body", nil, tags)
		require.NoError(t, err)
	}

	page, err := f.posts.ListFeed(ctx, entity.FeedQuery{PageSize: 3})
	require.NoError(t, err)
	assert.Len(t, page.Posts, 3)
	assert.Equal(t, int64(7), page.TotalCount)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 1, page.Page)

	page, err = f.posts.ListFeed(ctx, entity.FeedQuery{Tag: "Travel"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.TotalCount)
	for _, p := range page.Posts {
		assert.Contains(t, p.Tags, "Travel")
	}

	page, err = f.posts.ListFeed(ctx, entity.FeedQuery{Search: "post 3"})
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "Post 3", page.Posts[0].Title)

	_, err = f.posts.ListFeed(ctx, entity.FeedQuery{Tag: "Cooking"})
	assert.ErrorIs(t, err, entity.ErrValidation)
}

func TestListFeed_ServedFromCacheUntilInvalidated(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()
	_, err := f.posts.CreatePost(ctx, "author", "One", "body", nil, nil)
	require.NoError(t, err)

	first, err := f.posts.ListFeed(ctx, entity.FeedQuery{})
	require.NoError(t, err)
	require.Equal(t, int64(1), first.TotalCount)
	assert.Len(t, f.cache.pages, 1)

	// a new post flushes the cached pages
	_, err = f.posts.CreatePost(ctx, "author", "Two", "body", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, f.cache.pages)

	second, err := f.posts.ListFeed(ctx, entity.FeedQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.TotalCount)
}

func TestListTags(t *testing.T) {
	f := newPostFixture(t)
	assert.Equal(t, entity.AvailableTags(), f.posts.ListTags())
}
