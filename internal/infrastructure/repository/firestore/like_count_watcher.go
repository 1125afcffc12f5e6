package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/echomind/mindink/internal/domain/contract"
	"github.com/echomind/mindink/internal/domain/entity"
)

// LikeCountWatcher listens to post snapshots. Firestore may coalesce rapid commits into one
// snapshot, so intermediate values can be skipped, but delivered values are always in commit order.
type LikeCountWatcher struct {
	client *firestore.Client
}

var _ contract.ILikeCountWatcher = (*LikeCountWatcher)(nil)

func NewLikeCountWatcher(client *firestore.Client) *LikeCountWatcher {
	return &LikeCountWatcher{client: client}
}

func (w *LikeCountWatcher) WatchLikeCount(ctx context.Context, postID string, onChange func(count int64)) error {
	it := w.client.Collection(postsCollection).Doc(postID).Snapshots(ctx)
	defer it.Stop()

	first := true
	var last int64
	for {
		snap, err := it.Next()
		if err != nil {
			if ctx.Err() != nil || status.Code(err) == codes.Canceled {
				return nil
			}
			return translateError(fmt.Errorf("like count listener failed: %w", err))
		}
		if !snap.Exists() {
			return entity.ErrPostNotFound
		}
		count, err := likeCountOf(snap)
		if err != nil {
			return err
		}
		if !first && count == last {
			continue
		}
		if ctx.Err() != nil {
			return nil
		}
		first = false
		last = count
		onChange(count)
	}
}
