// Package cache stores encoded result sets keyed by normalized query.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces result-set keys.
const KeyPrefix = "rccc:search:"

// Nop never stores anything.
type Nop struct{}

// Get implements search.Cache.
func (Nop) Get(ctx context.Context, query string) ([]byte, bool, error) { return nil, false, nil }

// Set implements search.Cache.
func (Nop) Set(ctx context.Context, query string, data []byte) error { return nil }

// Redis caches result sets in Redis with a fixed TTL.
type Redis struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedis creates a Redis cache from a redis:// URL.
func NewRedis(url string, ttl time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return NewRedisWithClient(redis.NewClient(opts), ttl), nil
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client redis.UniversalClient, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// Key returns the Redis key for a normalized query.
func Key(query string) string {
	sum := sha256.Sum256([]byte(query))
	return KeyPrefix + hex.EncodeToString(sum[:])
}

// Get implements search.Cache.
func (r *Redis) Get(ctx context.Context, query string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, Key(query)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set implements search.Cache.
func (r *Redis) Set(ctx context.Context, query string, data []byte) error {
	return r.client.Set(ctx, Key(query), data, r.ttl).Err()
}

// Ping checks the connection.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
