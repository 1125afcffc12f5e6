package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/echomind/mindink/internal/domain/contract"
	"github.com/echomind/mindink/internal/domain/entity"
	"github.com/echomind/mindink/internal/infrastructure/metrics"
	usecasecontract "github.com/echomind/mindink/internal/usecase/contract"
)

// PostUsecase implements the IPostUseCase interface.
type PostUsecase struct {
	postRepo      contract.IPostRepository
	userRepo      contract.IUserRepository
	renderer      contract.IContentRenderer
	validator     usecasecontract.IValidator
	uuidGenerator contract.IUUIDGenerator
	logger        usecasecontract.IAppLogger
	cache         contract.IPostCache
}

// NewPostUsecase creates a new PostUsecase instance.
func NewPostUsecase(
	postRepo contract.IPostRepository,
	userRepo contract.IUserRepository,
	renderer contract.IContentRenderer,
	validator usecasecontract.IValidator,
	uuidGenerator contract.IUUIDGenerator,
	logger usecasecontract.IAppLogger,
) *PostUsecase {
	return &PostUsecase{
		postRepo:      postRepo,
		userRepo:      userRepo,
		renderer:      renderer,
		validator:     validator,
		uuidGenerator: uuidGenerator,
		logger:        logger,
	}
}

var _ usecasecontract.IPostUseCase = (*PostUsecase)(nil)

// SetCache injects the cache implementation after construction.
func (uc *PostUsecase) SetCache(cache contract.IPostCache) {
	uc.cache = cache
}

// CreatePost creates a post authored by authorID with a zero like counter.
func (uc *PostUsecase) CreatePost(ctx context.Context, authorID, title, content string, imageURL *string, tags []string) (*entity.Post, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return nil, fmt.Errorf("%w: title and content are required", entity.ErrValidation)
	}
	tags = dedupeTags(tags)
	if err := uc.validator.ValidateTags(tags); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrValidation, err)
	}
	imageURL, err := uc.checkImageURL(imageURL)
	if err != nil {
		return nil, err
	}

	author, err := uc.userRepo.GetUserByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, err
		}
		uc.logger.Errorf("failed to load author %s: %v", authorID, err)
		return nil, errors.New(errInternalServer)
	}

	now := time.Now().UTC()
	post := &entity.Post{
		ID:        uc.uuidGenerator.NewUUID(),
		Title:     title,
		Content:   content,
		ImageURL:  imageURL,
		Tags:      tags,
		Author:    entity.PostAuthor{ID: author.ID, Name: author.DisplayName()},
		LikeCount: 0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.postRepo.CreatePost(ctx, post); err != nil {
		uc.logger.Errorf("failed to create post: %v", err)
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	uc.invalidateFeed(ctx)
	return post, nil
}

// GetPost returns the post with its content rendered to HTML.
func (uc *PostUsecase) GetPost(ctx context.Context, postID string) (*usecasecontract.PostDetail, error) {
	post, err := uc.loadPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	html, err := uc.renderer.Render(post.Content)
	if err != nil {
		uc.logger.Warnf("failed to render content of post %s: %v", postID, err)
		html = ""
	}
	return &usecasecontract.PostDetail{Post: post, ContentHTML: html}, nil
}

func (uc *PostUsecase) loadPost(ctx context.Context, postID string) (*entity.Post, error) {
	if uc.cache != nil {
		cached, found, err := uc.cache.GetPost(ctx, postID)
		if err != nil {
			uc.logger.Warnf("post cache read failed for %s: %v", postID, err)
		}
		if found {
			metrics.FeedCacheLookups.WithLabelValues("post", "hit").Inc()
			return uc.withStoredLikeCount(ctx, cached)
		}
		metrics.FeedCacheLookups.WithLabelValues("post", "miss").Inc()
	}

	post, err := uc.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, entity.ErrPostNotFound) {
			return nil, err
		}
		uc.logger.Errorf("failed to get post %s: %v", postID, err)
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	if uc.cache != nil {
		if err := uc.cache.SetPost(ctx, post); err != nil {
			uc.logger.Warnf("failed to cache post %s: %v", postID, err)
		}
	}
	return post, nil
}

// withStoredLikeCount replaces the counter of a cached post with the stored one. A toggle can
// commit between a cache miss's read and its SetPost, so cached counters are never served as is.
func (uc *PostUsecase) withStoredLikeCount(ctx context.Context, cached *entity.Post) (*entity.Post, error) {
	count, err := uc.postRepo.GetLikeCount(ctx, cached.ID)
	if err != nil {
		if errors.Is(err, entity.ErrPostNotFound) {
			uc.invalidatePost(ctx, cached.ID)
			return nil, err
		}
		uc.logger.Warnf("failed to read like count of cached post %s: %v", cached.ID, err)
		return cached, nil
	}
	cached.LikeCount = count
	return cached, nil
}

// UpdatePost applies patch to a post owned by userID. The like counter is not touched.
func (uc *PostUsecase) UpdatePost(ctx context.Context, postID, userID string, patch entity.PostPatch) (*entity.Post, error) {
	post, err := uc.ownedPost(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", entity.ErrValidation)
		}
		post.Title = title
	}
	if patch.Content != nil {
		content := strings.TrimSpace(*patch.Content)
		if content == "" {
			return nil, fmt.Errorf("%w: content cannot be empty", entity.ErrValidation)
		}
		post.Content = content
	}
	if patch.ImageURL != nil {
		post.ImageURL, err = uc.checkImageURL(patch.ImageURL)
		if err != nil {
			return nil, err
		}
	}
	if patch.Tags != nil {
		tags := dedupeTags(patch.Tags)
		if err := uc.validator.ValidateTags(tags); err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrValidation, err)
		}
		post.Tags = tags
	}
	post.UpdatedAt = time.Now().UTC()

	if err := uc.postRepo.UpdatePost(ctx, post); err != nil {
		if errors.Is(err, entity.ErrPostNotFound) {
			return nil, err
		}
		uc.logger.Errorf("failed to update post %s: %v", postID, err)
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	uc.invalidatePost(ctx, postID)
	uc.invalidateFeed(ctx)

	updated, err := uc.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return post, nil
	}
	return updated, nil
}

// DeletePost removes a post owned by userID along with its likes.
func (uc *PostUsecase) DeletePost(ctx context.Context, postID, userID string) error {
	if _, err := uc.ownedPost(ctx, postID, userID); err != nil {
		return err
	}
	if err := uc.postRepo.DeletePost(ctx, postID); err != nil {
		if errors.Is(err, entity.ErrPostNotFound) {
			return err
		}
		uc.logger.Errorf("failed to delete post %s: %v", postID, err)
		return fmt.Errorf("failed to delete post: %w", err)
	}

	uc.invalidatePost(ctx, postID)
	uc.invalidateFeed(ctx)
	return nil
}

func (uc *PostUsecase) ownedPost(ctx context.Context, postID, userID string) (*entity.Post, error) {
	post, err := uc.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, entity.ErrPostNotFound) {
			return nil, err
		}
		uc.logger.Errorf("failed to get post %s: %v", postID, err)
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if post.Author.ID != userID {
		return nil, fmt.Errorf("post %s belongs to another user: %w", postID, entity.ErrForbidden)
	}
	return post, nil
}

// ListFeed returns one page of posts, newest first.
func (uc *PostUsecase) ListFeed(ctx context.Context, query entity.FeedQuery) (*usecasecontract.FeedPage, error) {
	query = query.Normalize()
	query.Search = strings.TrimSpace(query.Search)
	if query.Tag != "" && !entity.IsKnownTag(query.Tag) {
		return nil, fmt.Errorf("%w: unknown tag %q", entity.ErrValidation, query.Tag)
	}

	key := feedCacheKey(query)
	if uc.cache != nil {
		cached, found, err := uc.cache.GetFeedPage(ctx, key)
		if err != nil {
			uc.logger.Warnf("feed cache read failed for %s: %v", key, err)
		}
		if found {
			metrics.FeedCacheLookups.WithLabelValues("feed", "hit").Inc()
			posts := make([]*entity.Post, len(cached.Posts))
			for i := range cached.Posts {
				posts[i] = &cached.Posts[i]
			}
			return newFeedPage(posts, cached.Total, query), nil
		}
		metrics.FeedCacheLookups.WithLabelValues("feed", "miss").Inc()
	}

	posts, total, err := uc.postRepo.ListPosts(ctx, query)
	if err != nil {
		uc.logger.Errorf("failed to list posts: %v", err)
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	if uc.cache != nil {
		page := &contract.CachedFeedPage{Posts: make([]entity.Post, len(posts)), Total: total}
		for i, p := range posts {
			page.Posts[i] = *p
		}
		if err := uc.cache.SetFeedPage(ctx, key, page); err != nil {
			uc.logger.Warnf("failed to cache feed page %s: %v", key, err)
		}
	}
	return newFeedPage(posts, total, query), nil
}

// ListTags returns the tag catalog.
func (uc *PostUsecase) ListTags() []string {
	return entity.AvailableTags()
}

func newFeedPage(posts []*entity.Post, total int64, query entity.FeedQuery) *usecasecontract.FeedPage {
	totalPages := int((total + int64(query.PageSize) - 1) / int64(query.PageSize))
	return &usecasecontract.FeedPage{
		Posts:      posts,
		TotalCount: total,
		Page:       query.Page,
		PageSize:   query.PageSize,
		TotalPages: totalPages,
	}
}

func feedCacheKey(q entity.FeedQuery) string {
	return fmt.Sprintf("tag=%s:q=%s:author=%s:page=%d:size=%d",
		q.Tag, strings.ToLower(q.Search), q.AuthorID, q.Page, q.PageSize)
}

func (uc *PostUsecase) checkImageURL(imageURL *string) (*string, error) {
	if imageURL == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*imageURL)
	if trimmed == "" {
		return nil, nil
	}
	if err := uc.validator.ValidateImageURL(trimmed); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrValidation, err)
	}
	return &trimmed, nil
}

func dedupeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func (uc *PostUsecase) invalidatePost(ctx context.Context, postID string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.InvalidatePost(ctx, postID); err != nil {
		uc.logger.Warnf("failed to invalidate cached post %s: %v", postID, err)
	}
}

func (uc *PostUsecase) invalidateFeed(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.InvalidateFeedPages(ctx); err != nil {
		uc.logger.Warnf("failed to invalidate feed cache: %v", err)
	}
}
