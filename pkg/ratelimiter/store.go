package ratelimiter

import (
	"context"
	"time"
)

// Store keeps token bucket state.
type Store interface {
	// ConsumeTokens takes tokens from the bucket of key when enough are left.
	// A denied call leaves the bucket unchanged and reports the deficit as a
	// negative remaining count.
	ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (remaining int, resetAt time.Time, err error)
	Reset(ctx context.Context, key string) error
}
