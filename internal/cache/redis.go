package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/tahirturgut/exchange/internal/model"
)

const keyPrefix = "exchange:quote:"

// RedisQuoteCache is a QuoteCache shared between server instances through Redis.
type RedisQuoteCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisQuoteCache connects to the Redis server at url (redis://host:port/db)
// and verifies the connection.
func NewRedisQuoteCache(ctx context.Context, url string, ttl time.Duration) (*RedisQuoteCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisQuoteCache{client: client, ttl: ttl}, nil
}

func (c *RedisQuoteCache) Get(ctx context.Context, symbol string) (model.Instrument, bool, error) {
	data, err := c.client.Get(ctx, keyPrefix+symbol).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Instrument{}, false, nil
	}
	if err != nil {
		return model.Instrument{}, false, fmt.Errorf("failed to read quote %s: %w", symbol, err)
	}

	var instrument model.Instrument
	if err := json.Unmarshal(data, &instrument); err != nil {
		return model.Instrument{}, false, fmt.Errorf("failed to decode quote %s: %w", symbol, err)
	}
	return instrument, true, nil
}

func (c *RedisQuoteCache) Set(ctx context.Context, instrument model.Instrument) error {
	data, err := json.Marshal(instrument)
	if err != nil {
		return fmt.Errorf("failed to encode quote %s: %w", instrument.Symbol, err)
	}

	if err := c.client.Set(ctx, keyPrefix+instrument.Symbol, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store quote %s: %w", instrument.Symbol, err)
	}
	return nil
}

func (c *RedisQuoteCache) Delete(ctx context.Context, symbols ...string) error {
	if len(symbols) == 0 {
		return nil
	}

	keys := make([]string, len(symbols))
	for i, s := range symbols {
		keys[i] = keyPrefix + s
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete quotes: %w", err)
	}
	return nil
}

func (c *RedisQuoteCache) Close() error {
	return c.client.Close()
}
