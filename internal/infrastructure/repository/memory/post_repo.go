package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/echomind/mindink/internal/domain/entity"
)

// CreatePost stores a new post. LikeCount always starts at zero.
func (s *Store) CreatePost(ctx context.Context, post *entity.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if post.ID == "" {
		return fmt.Errorf("%w: post id is required", entity.ErrValidation)
	}
	if _, ok := s.posts[post.ID]; ok {
		return fmt.Errorf("post %s: %w", post.ID, entity.ErrAlreadyExists)
	}
	cp := copyPost(post)
	cp.LikeCount = 0
	s.posts[post.ID] = cp
	post.LikeCount = 0
	return nil
}

func (s *Store) GetPostByID(ctx context.Context, postID string) (*entity.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[postID]
	if !ok {
		return nil, entity.ErrPostNotFound
	}
	return copyPost(post), nil
}

func (s *Store) GetLikeCount(ctx context.Context, postID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[postID]
	if !ok {
		return 0, entity.ErrPostNotFound
	}
	return post.LikeCount, nil
}

// UpdatePost overwrites the editable fields and keeps the stored like counter.
func (s *Store) UpdatePost(ctx context.Context, post *entity.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.posts[post.ID]
	if !ok {
		return entity.ErrPostNotFound
	}
	updated := copyPost(post)
	existing.Title = updated.Title
	existing.Content = updated.Content
	existing.ImageURL = updated.ImageURL
	existing.Tags = updated.Tags
	existing.UpdatedAt = updated.UpdatedAt
	return nil
}

func (s *Store) DeletePost(ctx context.Context, postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[postID]; !ok {
		return entity.ErrPostNotFound
	}
	delete(s.posts, postID)
	for id, like := range s.likes {
		if like.PostID == postID {
			delete(s.likes, id)
		}
	}
	s.dropWatchersLocked(postID)
	return nil
}

func (s *Store) ListPosts(ctx context.Context, query entity.FeedQuery) ([]*entity.Post, int64, error) {
	query = query.Normalize()
	search := strings.ToLower(strings.TrimSpace(query.Search))

	s.mu.Lock()
	matched := make([]*entity.Post, 0, len(s.posts))
	for _, post := range s.posts {
		if query.Tag != "" && !containsTag(post.Tags, query.Tag) {
			continue
		}
		if query.AuthorID != "" && post.Author.ID != query.AuthorID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(post.Title), search) &&
			!strings.Contains(strings.ToLower(post.Content), search) {
			continue
		}
		matched = append(matched, copyPost(post))
	}
	s.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := query.Offset()
	if start >= len(matched) {
		return []*entity.Post{}, total, nil
	}
	end := start + query.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
