// redis.go provides a Redis-backed document cache for deployments where
// repeated CLI invocations should share lookups (category and author
// documents rarely change between runs).
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces pipeline keys in a shared Redis instance.
const keyPrefix = "pressline:"

// Redis is a document cache backed by a Redis-compatible server.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// Connect creates a Redis client and verifies the connection with a ping.
func Connect(addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	slog.Info("cache connected", "addr", addr)
	return client, nil
}

// NewRedis creates a Redis-backed cache. A zero ttl uses DefaultTTL.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Redis{client: client, ttl: ttl}
}

// Get retrieves a cached value. Errors degrade to a miss.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("cache get error", "key", key, "error", err)
		return nil, false
	}
	return val, true
}

// Set stores a value with the configured TTL. Errors are logged only.
func (r *Redis) Set(ctx context.Context, key string, val []byte) {
	if err := r.client.Set(ctx, keyPrefix+key, val, r.ttl).Err(); err != nil {
		slog.Warn("cache set error", "key", key, "error", err)
	}
}

// Delete removes a key. Errors are logged only.
func (r *Redis) Delete(ctx context.Context, key string) {
	if err := r.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		slog.Warn("cache delete error", "key", key, "error", err)
	}
}
