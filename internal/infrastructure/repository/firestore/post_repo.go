package firestore

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/api/iterator"

	"github.com/echomind/mindink/internal/domain/contract"
	"github.com/echomind/mindink/internal/domain/entity"
)

// deleteBatchSize bounds one page of the like sweep.
const deleteBatchSize = 400

type PostRepository struct {
	client *firestore.Client
}

var _ contract.IPostRepository = (*PostRepository)(nil)

func NewPostRepository(client *firestore.Client) *PostRepository {
	return &PostRepository{client: client}
}

func (r *PostRepository) posts() *firestore.CollectionRef {
	return r.client.Collection(postsCollection)
}

func (r *PostRepository) CreatePost(ctx context.Context, post *entity.Post) error {
	post.LikeCount = 0
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if _, err := r.posts().Doc(post.ID).Create(ctx, post); err != nil {
		return translateError(fmt.Errorf("failed to create post: %w", err))
	}
	return nil
}

func (r *PostRepository) GetPostByID(ctx context.Context, postID string) (*entity.Post, error) {
	snap, err := r.posts().Doc(postID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, entity.ErrPostNotFound
		}
		return nil, translateError(fmt.Errorf("failed to retrieve post: %w", err))
	}
	return decodePost(snap)
}

func (r *PostRepository) GetLikeCount(ctx context.Context, postID string) (int64, error) {
	snap, err := r.posts().Doc(postID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return 0, entity.ErrPostNotFound
		}
		return 0, translateError(fmt.Errorf("failed to read like count: %w", err))
	}
	return likeCountOf(snap)
}

func decodePost(snap *firestore.DocumentSnapshot) (*entity.Post, error) {
	var post entity.Post
	if err := snap.DataTo(&post); err != nil {
		return nil, fmt.Errorf("failed to decode post %s: %w", snap.Ref.ID, err)
	}
	post.ID = snap.Ref.ID
	return &post, nil
}

// UpdatePost writes the editable fields only; likeCount is never part of the update.
func (r *PostRepository) UpdatePost(ctx context.Context, post *entity.Post) error {
	tags := post.Tags
	if tags == nil {
		tags = []string{}
	}
	updates := []firestore.Update{
		{Path: "title", Value: post.Title},
		{Path: "content", Value: post.Content},
		{Path: "tags", Value: tags},
		{Path: "updatedAt", Value: post.UpdatedAt},
	}
	if post.ImageURL != nil {
		updates = append(updates, firestore.Update{Path: "image", Value: *post.ImageURL})
	} else {
		updates = append(updates, firestore.Update{Path: "image", Value: firestore.Delete})
	}

	if _, err := r.posts().Doc(post.ID).Update(ctx, updates); err != nil {
		if isNotFound(err) {
			return entity.ErrPostNotFound
		}
		return translateError(fmt.Errorf("failed to update post: %w", err))
	}
	return nil
}

// DeletePost removes the post document in a transaction first, so any later like toggle fails
// with entity.ErrPostNotFound, and then sweeps the like subcollection. The sweep also runs when
// the post is already gone, which clears likes left behind by an interrupted earlier delete.
func (r *PostRepository) DeletePost(ctx context.Context, postID string) error {
	ref := r.posts().Doc(postID)
	var found bool
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		found = true
		if _, err := tx.Get(ref); err != nil {
			if isNotFound(err) {
				found = false
				return nil
			}
			return err
		}
		return tx.Delete(ref)
	})
	if err != nil {
		return translateError(fmt.Errorf("failed to delete post: %w", err))
	}

	if err := r.sweepLikes(ctx, ref); err != nil {
		return err
	}
	if !found {
		return entity.ErrPostNotFound
	}
	return nil
}

// sweepLikes deletes every like record under ref with a BulkWriter.
func (r *PostRepository) sweepLikes(ctx context.Context, ref *firestore.DocumentRef) error {
	likes := ref.Collection(likesCollection)
	for {
		snaps, err := likes.Limit(deleteBatchSize).Documents(ctx).GetAll()
		if err != nil {
			return translateError(fmt.Errorf("failed to list likes of post: %w", err))
		}
		if len(snaps) == 0 {
			return nil
		}

		bw := r.client.BulkWriter(ctx)
		jobs := make([]*firestore.BulkWriterJob, 0, len(snaps))
		for _, s := range snaps {
			job, err := bw.Delete(s.Ref)
			if err != nil {
				bw.End()
				return translateError(fmt.Errorf("failed to queue like delete: %w", err))
			}
			jobs = append(jobs, job)
		}
		bw.End()
		for _, job := range jobs {
			if _, err := job.Results(); err != nil {
				return translateError(fmt.Errorf("failed to delete likes of post: %w", err))
			}
		}
	}
}

// ListPosts pages through posts newest first. Firestore has no substring match, so a search
// query filters the ordered result set in process.
func (r *PostRepository) ListPosts(ctx context.Context, query entity.FeedQuery) ([]*entity.Post, int64, error) {
	query = query.Normalize()

	q := r.posts().Query
	if query.Tag != "" {
		q = q.Where("tags", "array-contains", query.Tag)
	}
	if query.AuthorID != "" {
		q = q.Where("author.id", "==", query.AuthorID)
	}
	q = q.OrderBy("createdAt", firestore.Desc)

	if query.Search != "" {
		return r.searchPosts(ctx, q, query)
	}

	total, err := countQuery(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	iter := q.Offset(query.Offset()).Limit(query.PageSize).Documents(ctx)
	defer iter.Stop()
	posts := []*entity.Post{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, translateError(fmt.Errorf("failed to retrieve posts: %w", err))
		}
		post, err := decodePost(snap)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, post)
	}
	return posts, total, nil
}

func (r *PostRepository) searchPosts(ctx context.Context, q firestore.Query, query entity.FeedQuery) ([]*entity.Post, int64, error) {
	needle := strings.ToLower(query.Search)
	iter := q.Documents(ctx)
	defer iter.Stop()

	var matched []*entity.Post
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, translateError(fmt.Errorf("failed to search posts: %w", err))
		}
		post, err := decodePost(snap)
		if err != nil {
			return nil, 0, err
		}
		if strings.Contains(strings.ToLower(post.Title), needle) || strings.Contains(strings.ToLower(post.Content), needle) {
			matched = append(matched, post)
		}
	}

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

func countQuery(ctx context.Context, q firestore.Query) (int64, error) {
	res, err := q.NewAggregationQuery().WithCount("total").Get(ctx)
	if err != nil {
		return 0, translateError(fmt.Errorf("failed to count posts: %w", err))
	}
	v, ok := res["total"].(*firestorepb.Value)
	if !ok {
		return 0, fmt.Errorf("unexpected count result %T", res["total"])
	}
	return v.GetIntegerValue(), nil
}
