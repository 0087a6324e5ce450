package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisBlobs stores blobs as plain Redis strings under a key prefix.
type RedisBlobs struct {
	client redis.UniversalClient
	prefix string
	owned  bool
}

var _ BlobStore = (*RedisBlobs)(nil)

// NewRedisBlobs wraps an existing client. Close does not close it.
func NewRedisBlobs(client redis.UniversalClient, prefix string) *RedisBlobs {
	return &RedisBlobs{client: client, prefix: prefix}
}

// DialRedis connects to addr, verifies the connection with PING and returns
// a RedisBlobs that owns the client.
func DialRedis(ctx context.Context, addr, prefix string) (*RedisBlobs, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	r := NewRedisBlobs(client, prefix)
	r.owned = true
	return r, nil
}

func (r *RedisBlobs) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %q: %w", key, err)
	}
	return v, nil
}

func (r *RedisBlobs) Put(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

func (r *RedisBlobs) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", key, err)
	}
	return nil
}

func (r *RedisBlobs) Close() error {
	if !r.owned {
		return nil
	}
	return r.client.Close()
}
