package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
	"go.mongodb.org/mongo-driver/x/mongo/driver"

	"github.com/echomind/mindink/internal/domain/contract"
	"github.com/echomind/mindink/internal/domain/entity"
)

const maxCommitAttempts = 3

// likeDocument is the stored shape of a like record; _id is "postID/userID".
type likeDocument struct {
	ID      string    `bson:"_id"`
	PostID  string    `bson:"post_id"`
	UserID  string    `bson:"user_id"`
	LikedAt time.Time `bson:"liked_at"`
}

// LikeStore runs like toggles as multi-document transactions on a replica set.
type LikeStore struct {
	client *mongo.Client
	posts  *mongo.Collection
	likes  *mongo.Collection
}

var _ contract.ILikeStore = (*LikeStore)(nil)

// NewLikeStore creates and returns a new LikeStore instance.
func NewLikeStore(client *mongo.Client, db *mongo.Database) *LikeStore {
	return &LikeStore{
		client: client,
		posts:  db.Collection(postsCollection),
		likes:  db.Collection(likesCollection),
	}
}

// RunTransaction runs fn in a snapshot transaction. The driver's own whole-transaction retry
// loop is not used so that conflicts reach the caller's backoff as entity.ErrConflict.
func (s *LikeStore) RunTransaction(ctx context.Context, fn func(tx contract.ILikeTx) error) error {
	session, err := s.client.StartSession()
	if err != nil {
		return translateError(fmt.Errorf("failed to start session: %w", err))
	}
	defer session.EndSession(context.Background())

	txOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	err = mongo.WithSession(ctx, session, func(sc mongo.SessionContext) error {
		if err := session.StartTransaction(txOpts); err != nil {
			return err
		}
		if err := fn(&likeTx{ctx: sc, posts: s.posts, likes: s.likes}); err != nil {
			_ = session.AbortTransaction(context.Background())
			return err
		}
		return commitWithRetry(sc, session)
	})
	return translateError(err)
}

// commitWithRetry retries only the commit when its outcome is unknown; re-running the whole
// transaction could apply a toggle twice.
func commitWithRetry(sc mongo.SessionContext, session mongo.Session) error {
	var err error
	for attempt := 0; attempt < maxCommitAttempts; attempt++ {
		err = session.CommitTransaction(sc)
		if err == nil {
			return nil
		}
		var labeled mongo.LabeledError
		if !errors.As(err, &labeled) || !labeled.HasErrorLabel(driver.UnknownTransactionCommitResult) {
			return err
		}
	}
	return fmt.Errorf("%w: commit outcome unknown: %v", entity.ErrUnavailable, err)
}

func (s *LikeStore) LikeExists(ctx context.Context, postID, userID string) (bool, error) {
	n, err := s.likes.CountDocuments(ctx, bson.M{"_id": entity.LikeRecordID(postID, userID)}, options.Count().SetLimit(1))
	if err != nil {
		return false, translateError(fmt.Errorf("failed to check like: %w", err))
	}
	return n > 0, nil
}

type likeTx struct {
	ctx   mongo.SessionContext
	posts *mongo.Collection
	likes *mongo.Collection
}

func (tx *likeTx) GetLike(postID, userID string) (*entity.LikeRecord, error) {
	var doc likeDocument
	err := tx.likes.FindOne(tx.ctx, bson.M{"_id": entity.LikeRecordID(postID, userID)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read like: %w", err)
	}
	return &entity.LikeRecord{PostID: doc.PostID, UserID: doc.UserID, LikedAt: doc.LikedAt}, nil
}

func (tx *likeTx) GetLikeCount(postID string) (int64, error) {
	var doc struct {
		LikeCount int64 `bson:"like_count"`
	}
	opts := options.FindOne().SetProjection(bson.M{"like_count": 1})
	err := tx.posts.FindOne(tx.ctx, bson.M{"_id": postID}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, entity.ErrPostNotFound
		}
		return 0, fmt.Errorf("failed to read like count: %w", err)
	}
	return doc.LikeCount, nil
}

func (tx *likeTx) SetLike(like *entity.LikeRecord) error {
	doc := likeDocument{
		ID:      entity.LikeRecordID(like.PostID, like.UserID),
		PostID:  like.PostID,
		UserID:  like.UserID,
		LikedAt: like.LikedAt,
	}
	if _, err := tx.likes.InsertOne(tx.ctx, doc); err != nil {
		return fmt.Errorf("failed to insert like: %w", err)
	}
	return nil
}

func (tx *likeTx) DeleteLike(postID, userID string) error {
	if _, err := tx.likes.DeleteOne(tx.ctx, bson.M{"_id": entity.LikeRecordID(postID, userID)}); err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}
	return nil
}

func (tx *likeTx) UpdateLikeCount(postID string, count int64) error {
	res, err := tx.posts.UpdateOne(tx.ctx, bson.M{"_id": postID}, bson.M{"$set": bson.M{"like_count": count}})
	if err != nil {
		return fmt.Errorf("failed to update like count: %w", err)
	}
	if res.MatchedCount == 0 {
		return entity.ErrPostNotFound
	}
	return nil
}
