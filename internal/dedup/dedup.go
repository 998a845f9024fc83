// Package dedup suppresses duplicate webhook deliveries using a Redis
// SET with TTL. Email providers redeliver on slow responses, and a
// poster render can be slow.
package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultTTL is how long a seen MessageID is remembered. Provider
	// redelivery windows are far shorter than a day.
	DefaultTTL = 24 * time.Hour

	keyPrefix = "warlock:seen:"
)

// Filter tracks which message IDs have already been processed.
// A nil *Filter is valid and lets everything through.
type Filter struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewFilter creates a dedup filter backed by Redis.
func NewFilter(rdb *redis.Client, ttl time.Duration) *Filter {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Filter{rdb: rdb, ttl: ttl}
}

// IsNew reports whether the message ID has NOT been seen before,
// marking it as seen atomically (SETNX). Messages without an ID are
// always treated as new.
func (f *Filter) IsNew(ctx context.Context, messageID string) (bool, error) {
	if f == nil || messageID == "" {
		return true, nil
	}

	set, err := f.rdb.SetNX(ctx, fmt.Sprintf("%s%s", keyPrefix, messageID), 1, f.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dedup SETNX: %w", err)
	}
	return set, nil
}
