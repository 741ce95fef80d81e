// Package cache holds instrument quotes so catalog reads can skip the database.
// The database stays authoritative: trades always read prices inside their
// own transaction and never from here.
package cache

import (
	"context"
	"time"

	"github.com/tahirturgut/exchange/internal/model"
)

// QuoteCache stores instrument quotes keyed by symbol.
type QuoteCache interface {
	// Get returns the cached quote and whether it was present.
	Get(ctx context.Context, symbol string) (model.Instrument, bool, error)
	Set(ctx context.Context, instrument model.Instrument) error
	// Delete drops the given symbols. Unknown symbols are ignored.
	Delete(ctx context.Context, symbols ...string) error
	Close() error
}

// New returns a Redis-backed cache when redisURL is set, otherwise an in-process one.
func New(ctx context.Context, redisURL string, ttl time.Duration) (QuoteCache, error) {
	if redisURL == "" {
		return NewMemoryQuoteCache(ttl), nil
	}
	return NewRedisQuoteCache(ctx, redisURL, ttl)
}
