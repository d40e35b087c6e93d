package report

import (
	"context"
	"time"
)

// Cache stores serialized reports. Entries are keyed under a generation
// number; bumping the generation orphans every earlier entry at once.
type Cache interface {
	// Get returns the cached value and whether it was present
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Generation returns the current generation, 0 when never bumped
	Generation(ctx context.Context) (int64, error)
	BumpGeneration(ctx context.Context) (int64, error)
}
