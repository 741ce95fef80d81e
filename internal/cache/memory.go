package cache

import (
	"context"
	"sync"
	"time"

	"github.com/tahirturgut/exchange/internal/model"
)

type memoryEntry struct {
	instrument model.Instrument
	expires    time.Time
}

// MemoryQuoteCache is an in-process QuoteCache used when no Redis URL is configured.
type MemoryQuoteCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryQuoteCache creates an empty cache whose entries live for ttl.
// A ttl of zero keeps entries until they are deleted.
func NewMemoryQuoteCache(ttl time.Duration) *MemoryQuoteCache {
	return &MemoryQuoteCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *MemoryQuoteCache) Get(_ context.Context, symbol string) (model.Instrument, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[symbol]
	c.mu.RUnlock()

	if !ok {
		return model.Instrument{}, false, nil
	}
	if !entry.expires.IsZero() && c.now().After(entry.expires) {
		c.mu.Lock()
		delete(c.entries, symbol)
		c.mu.Unlock()
		return model.Instrument{}, false, nil
	}
	return entry.instrument, true, nil
}

func (c *MemoryQuoteCache) Set(_ context.Context, instrument model.Instrument) error {
	entry := memoryEntry{instrument: instrument}
	if c.ttl > 0 {
		entry.expires = c.now().Add(c.ttl)
	}

	c.mu.Lock()
	c.entries[instrument.Symbol] = entry
	c.mu.Unlock()
	return nil
}

func (c *MemoryQuoteCache) Delete(_ context.Context, symbols ...string) error {
	c.mu.Lock()
	for _, s := range symbols {
		delete(c.entries, s)
	}
	c.mu.Unlock()
	return nil
}

func (c *MemoryQuoteCache) Close() error { return nil }
