// Package cache stores partitioned search results between catalog changes
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/mantonx/lineup/internal/modules/searchmodule/models"
	"github.com/redis/go-redis/v9"
)

// Cache holds results keyed by generation and normalized query. Callers read
// the generation before querying the backend and store under that same
// generation, so results computed across an Invalidate are never served.
type Cache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, gen int64, query string) (*models.Results, bool, error)
	Set(ctx context.Context, gen int64, query string, results *models.Results) error

	// Invalidate makes every stored entry unreachable
	Invalidate(ctx context.Context) error
	Close() error
}

// Normalize folds a query into its cache key form
func Normalize(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

// NopCache never stores anything
type NopCache struct{}

func (NopCache) Generation(context.Context) (int64, error) { return 0, nil }
func (NopCache) Get(context.Context, int64, string) (*models.Results, bool, error) {
	return nil, false, nil
}
func (NopCache) Set(context.Context, int64, string, *models.Results) error { return nil }
func (NopCache) Invalidate(context.Context) error                          { return nil }
func (NopCache) Close() error                                              { return nil }

// RedisCache stores results in redis under a generation counter. Invalidate
// bumps the generation; entries from older generations age out with the TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisCache connects to addr and verifies the connection
func NewRedisCache(ctx context.Context, addr string, ttl time.Duration) (*RedisCache, error) {
	var opts *redis.Options
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, err
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return NewRedisCacheFromClient(client, ttl), nil
}

// NewRedisCacheFromClient wraps an existing client
func NewRedisCacheFromClient(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, prefix: "lineup:search:"}
}

// Generation returns the current generation counter
func (c *RedisCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, c.prefix+"gen").Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *RedisCache) key(gen int64, query string) string {
	return c.prefix + strconv.FormatInt(gen, 10) + ":" + Normalize(query)
}

// Get returns the results cached for query under gen
func (c *RedisCache) Get(ctx context.Context, gen int64, query string) (*models.Results, bool, error) {
	raw, err := c.client.Get(ctx, c.key(gen, query)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var results models.Results
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, false, err
	}
	return &results, true, nil
}

// Set stores results for query under gen. Writes for a stale generation land
// under a key no reader asks for and expire with the TTL.
func (c *RedisCache) Set(ctx context.Context, gen int64, query string, results *models.Results) error {
	raw, err := json.Marshal(results)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(gen, query), raw, c.ttl).Err()
}

// Invalidate advances the generation
func (c *RedisCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, c.prefix+"gen").Err()
}

// Close closes the redis client
func (c *RedisCache) Close() error {
	return c.client.Close()
}
