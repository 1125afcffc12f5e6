package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/echomind/mindink/internal/domain/contract"
	"github.com/echomind/mindink/internal/domain/entity"
)

const (
	postsCollection = "posts"
	likesCollection = "likes"
	usersCollection = "users"
)

// PostRepository represents the MongoDB implementation of the IPostRepository interface.
type PostRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
	likes      *mongo.Collection
}

var _ contract.IPostRepository = (*PostRepository)(nil)

// NewPostRepository creates and returns a new PostRepository instance.
func NewPostRepository(client *mongo.Client, db *mongo.Database) *PostRepository {
	return &PostRepository{
		client:     client,
		collection: db.Collection(postsCollection),
		likes:      db.Collection(likesCollection),
	}
}

// buildFeedFilter creates a BSON filter from the feed query.
func buildFeedFilter(q entity.FeedQuery) bson.M {
	filter := bson.M{}
	if q.Tag != "" {
		filter["tags"] = q.Tag
	}
	if q.AuthorID != "" {
		filter["author.id"] = q.AuthorID
	}
	if q.Search != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(q.Search), "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"content": pattern},
		}
	}
	return filter
}

// CreatePost inserts a new post with a zero like counter.
func (r *PostRepository) CreatePost(ctx context.Context, post *entity.Post) error {
	post.LikeCount = 0
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if _, err := r.collection.InsertOne(ctx, post); err != nil {
		return translateError(fmt.Errorf("failed to create post: %w", err))
	}
	return nil
}

// GetPostByID retrieves a single post by its id.
func (r *PostRepository) GetPostByID(ctx context.Context, postID string) (*entity.Post, error) {
	var post entity.Post
	err := r.collection.FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entity.ErrPostNotFound
		}
		return nil, translateError(fmt.Errorf("failed to retrieve post: %w", err))
	}
	return &post, nil
}

// GetLikeCount reads only the like_count field of a post.
func (r *PostRepository) GetLikeCount(ctx context.Context, postID string) (int64, error) {
	var doc struct {
		LikeCount int64 `bson:"like_count"`
	}
	opts := options.FindOne().SetProjection(bson.M{"like_count": 1})
	err := r.collection.FindOne(ctx, bson.M{"_id": postID}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, entity.ErrPostNotFound
		}
		return 0, translateError(fmt.Errorf("failed to read like count: %w", err))
	}
	return doc.LikeCount, nil
}

// UpdatePost sets the editable fields. like_count is deliberately absent from the update.
func (r *PostRepository) UpdatePost(ctx context.Context, post *entity.Post) error {
	tags := post.Tags
	if tags == nil {
		tags = []string{}
	}
	set := bson.M{
		"title":      post.Title,
		"content":    post.Content,
		"tags":       tags,
		"updated_at": post.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if post.ImageURL != nil {
		set["image_url"] = *post.ImageURL
	} else {
		update["$unset"] = bson.M{"image_url": ""}
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": post.ID}, update)
	if err != nil {
		return translateError(fmt.Errorf("failed to update post: %w", err))
	}
	if res.MatchedCount == 0 {
		return entity.ErrPostNotFound
	}
	return nil
}

// DeletePost removes the post and its likes in one transaction.
func (r *PostRepository) DeletePost(ctx context.Context, postID string) error {
	session, err := r.client.StartSession()
	if err != nil {
		return translateError(fmt.Errorf("failed to start session: %w", err))
	}
	defer session.EndSession(context.Background())

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := r.collection.DeleteOne(sc, bson.M{"_id": postID})
		if err != nil {
			return nil, fmt.Errorf("failed to delete post: %w", err)
		}
		if res.DeletedCount == 0 {
			return nil, entity.ErrPostNotFound
		}
		if _, err := r.likes.DeleteMany(sc, bson.M{"post_id": postID}); err != nil {
			return nil, fmt.Errorf("failed to delete likes of post: %w", err)
		}
		return nil, nil
	})
	return translateError(err)
}

// ListPosts returns one page of matching posts, newest first, and the total match count.
func (r *PostRepository) ListPosts(ctx context.Context, query entity.FeedQuery) ([]*entity.Post, int64, error) {
	query = query.Normalize()
	filter := buildFeedFilter(query)

	totalCount, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, translateError(fmt.Errorf("failed to get total post count: %w", err))
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(query.Offset())).
		SetLimit(int64(query.PageSize))
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, translateError(fmt.Errorf("failed to retrieve posts: %w", err))
	}
	defer cursor.Close(ctx)

	posts := []*entity.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, 0, fmt.Errorf("failed to decode posts: %w", err)
	}
	return posts, totalCount, nil
}
