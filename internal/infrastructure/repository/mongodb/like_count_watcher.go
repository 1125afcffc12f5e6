package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"

	"github.com/echomind/mindink/internal/domain/contract"
	"github.com/echomind/mindink/internal/domain/entity"
)

// LikeCountWatcher follows a post's like counter through a change stream.
type LikeCountWatcher struct {
	client   *mongo.Client
	posts    *mongo.Collection
	majority *mongo.Collection
}

var _ contract.ILikeCountWatcher = (*LikeCountWatcher)(nil)

func NewLikeCountWatcher(client *mongo.Client, db *mongo.Database) *LikeCountWatcher {
	return &LikeCountWatcher{
		client:   client,
		posts:    db.Collection(postsCollection),
		majority: db.Collection(postsCollection, options.Collection().SetReadConcern(readconcern.Majority())),
	}
}

type postChangeEvent struct {
	OperationType     string              `bson:"operationType"`
	ClusterTime       primitive.Timestamp `bson:"clusterTime"`
	UpdateDescription struct {
		UpdatedFields bson.M `bson:"updatedFields"`
	} `bson:"updateDescription"`
	FullDocument *struct {
		LikeCount int64 `bson:"like_count"`
	} `bson:"fullDocument"`
}

// WatchLikeCount reads the current value at a majority snapshot and opens the stream at that
// read's operation time. Events at or before the read are already reflected in it and are
// dropped, so values reach onChange in commit order.
func (w *LikeCountWatcher) WatchLikeCount(ctx context.Context, postID string, onChange func(count int64)) error {
	initial, readAt, err := w.readLikeCount(ctx, postID)
	if err != nil {
		if errors.Is(err, entity.ErrPostNotFound) {
			return err
		}
		return w.streamError(ctx, err)
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"documentKey._id": postID,
			"operationType":   bson.M{"$in": bson.A{"update", "replace", "delete"}},
		}}},
	}
	stream, err := w.posts.Watch(ctx, pipeline, options.ChangeStream().SetStartAtOperationTime(&readAt))
	if err != nil {
		return w.streamError(ctx, fmt.Errorf("failed to open like count stream: %w", err))
	}
	defer stream.Close(context.Background())

	last := initial
	onChange(last)

	for stream.Next(ctx) {
		var event postChangeEvent
		if err := stream.Decode(&event); err != nil {
			return fmt.Errorf("failed to decode change event: %w", err)
		}
		if !committedAfter(event, readAt) {
			continue
		}
		if event.OperationType == "delete" {
			return entity.ErrPostNotFound
		}

		count, ok := likeCountFromEvent(event)
		if !ok || count == last {
			continue
		}
		if ctx.Err() != nil {
			return nil
		}
		last = count
		onChange(count)
	}
	return w.streamError(ctx, stream.Err())
}

// readLikeCount reads like_count in a causally consistent session and returns the operation
// time of the read.
func (w *LikeCountWatcher) readLikeCount(ctx context.Context, postID string) (int64, primitive.Timestamp, error) {
	session, err := w.client.StartSession(options.Session().SetCausalConsistency(true))
	if err != nil {
		return 0, primitive.Timestamp{}, fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(context.Background())

	var doc struct {
		LikeCount int64 `bson:"like_count"`
	}
	err = mongo.WithSession(ctx, session, func(sc mongo.SessionContext) error {
		return w.majority.FindOne(sc, bson.M{"_id": postID}, options.FindOne().SetProjection(bson.M{"like_count": 1})).Decode(&doc)
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, primitive.Timestamp{}, entity.ErrPostNotFound
		}
		return 0, primitive.Timestamp{}, fmt.Errorf("failed to read like count: %w", err)
	}

	readAt := session.OperationTime()
	if readAt == nil {
		return 0, primitive.Timestamp{}, fmt.Errorf("%w: server returned no operation time", entity.ErrUnavailable)
	}
	return doc.LikeCount, *readAt, nil
}

// committedAfter reports whether the event is newer than the initial read.
func committedAfter(event postChangeEvent, readAt primitive.Timestamp) bool {
	return primitive.CompareTimestamp(event.ClusterTime, readAt) > 0
}

// likeCountFromEvent reads the value written by the event itself, so events map to commits.
func likeCountFromEvent(event postChangeEvent) (int64, bool) {
	if v, ok := event.UpdateDescription.UpdatedFields["like_count"]; ok {
		switch n := v.(type) {
		case int64:
			return n, true
		case int32:
			return int64(n), true
		case float64:
			return int64(n), true
		}
	}
	if event.OperationType == "replace" && event.FullDocument != nil {
		return event.FullDocument.LikeCount, true
	}
	return 0, false
}

func (w *LikeCountWatcher) streamError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return nil
	}
	if err == nil {
		return fmt.Errorf("%w: like count stream closed", entity.ErrUnavailable)
	}
	return translateError(err)
}
