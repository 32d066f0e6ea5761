package feedback

import (
	"context"

	"github.com/batiprix/pricing-engine/internal/model"
)

// Store is the durable repository for feedback records. Append must be
// durable before it returns: a Compute started after a successful Append
// observes the new record (read-your-writes). Records are immutable once
// written, so concurrent reads need no mutual exclusion.
type Store interface {
	// Append inserts a record and returns its id.
	Append(ctx context.Context, rec model.FeedbackRecord) (string, error)
	// AllPriced returns every record with a non-null actual price.
	AllPriced(ctx context.Context) ([]model.FeedbackRecord, error)
	// List returns the most recent records, newest first.
	List(ctx context.Context, limit int) ([]model.FeedbackRecord, error)

	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
