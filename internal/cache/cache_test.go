package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tahirturgut/exchange/internal/model"
)

func testInstrument(symbol, price string) model.Instrument {
	return model.Instrument{
		ID:           symbol + "-id",
		Symbol:       symbol,
		Name:         symbol + " Corp",
		CurrentPrice: decimal.RequireFromString(price),
		LastUpdated:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// exerciseCache runs the behaviour every QuoteCache implementation must share.
func exerciseCache(t *testing.T, c QuoteCache) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := c.Get(ctx, "ABC"); err != nil || ok {
		t.Fatalf("Expected miss on empty cache, got ok=%v err=%v", ok, err)
	}

	if err := c.Set(ctx, testInstrument("ABC", "150.50")); err != nil {
		t.Fatalf("Set() returned unexpected error: %v", err)
	}
	if err := c.Set(ctx, testInstrument("XYZ", "75.25")); err != nil {
		t.Fatalf("Set() returned unexpected error: %v", err)
	}

	got, ok, err := c.Get(ctx, "ABC")
	if err != nil || !ok {
		t.Fatalf("Expected hit, got ok=%v err=%v", ok, err)
	}
	if !got.CurrentPrice.Equal(decimal.RequireFromString("150.50")) {
		t.Errorf("Expected price 150.50, got %s", got.CurrentPrice)
	}

	if err := c.Delete(ctx, "ABC", "NOP"); err != nil {
		t.Fatalf("Delete() returned unexpected error: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "ABC"); ok {
		t.Error("Expected ABC to be evicted")
	}
	if _, ok, _ := c.Get(ctx, "XYZ"); !ok {
		t.Error("Expected XYZ to remain cached")
	}
}

func TestMemoryQuoteCache(t *testing.T) {
	t.Run("get set delete", func(t *testing.T) {
		exerciseCache(t, NewMemoryQuoteCache(time.Minute))
	})

	t.Run("entries expire after ttl", func(t *testing.T) {
		c := NewMemoryQuoteCache(time.Minute)
		now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
		c.now = func() time.Time { return now }

		ctx := context.Background()
		if err := c.Set(ctx, testInstrument("EVA", "200.00")); err != nil {
			t.Fatalf("Set() returned unexpected error: %v", err)
		}

		now = now.Add(30 * time.Second)
		if _, ok, _ := c.Get(ctx, "EVA"); !ok {
			t.Error("Expected entry to be live before ttl")
		}

		now = now.Add(time.Minute)
		if _, ok, _ := c.Get(ctx, "EVA"); ok {
			t.Error("Expected entry to expire after ttl")
		}
	})

	t.Run("zero ttl never expires", func(t *testing.T) {
		c := NewMemoryQuoteCache(0)
		now := time.Now()
		c.now = func() time.Time { return now }

		ctx := context.Background()
		_ = c.Set(ctx, testInstrument("SUP", "95.80"))
		now = now.Add(24 * time.Hour)

		if _, ok, _ := c.Get(ctx, "SUP"); !ok {
			t.Error("Expected entry without ttl to remain")
		}
	})
}

// TestRedisQuoteCache runs against a real server when REDIS_URL is set.
func TestRedisQuoteCache(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}

	c, err := NewRedisQuoteCache(context.Background(), url, time.Minute)
	if err != nil {
		t.Fatalf("NewRedisQuoteCache() returned unexpected error: %v", err)
	}
	defer c.Close()
	defer c.Delete(context.Background(), "ABC", "XYZ") //nolint:errcheck // best-effort cleanup

	exerciseCache(t, c)
}

func TestNew(t *testing.T) {
	t.Run("empty url selects memory cache", func(t *testing.T) {
		c, err := New(context.Background(), "", time.Minute)
		if err != nil {
			t.Fatalf("New() returned unexpected error: %v", err)
		}
		if _, ok := c.(*MemoryQuoteCache); !ok {
			t.Errorf("Expected *MemoryQuoteCache, got %T", c)
		}
	})

	t.Run("invalid url is rejected", func(t *testing.T) {
		if _, err := New(context.Background(), "://not-a-url", time.Minute); err == nil {
			t.Error("Expected error for invalid redis url")
		}
	})
}
