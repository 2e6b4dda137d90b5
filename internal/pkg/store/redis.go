package store

import (
	"context"
	"fmt"
	"slices"

	"github.com/lk2023060901/osint-analysis-backend/internal/pkg/redis"
)

// Redis stores entries as plain redis strings without expiry
type Redis struct {
	client *redis.Client
}

// NewRedis wraps a connected redis client
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := r.client.Get(ctx, key)
	if redis.IsNil(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: redis get %s: %w", key, err)
	}
	return v, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, key, value, 0); err != nil {
		return fmt.Errorf("store: redis set %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if _, err := r.client.Del(ctx, keys...); err != nil {
		return fmt.Errorf("store: redis delete: %w", err)
	}
	return nil
}

func (r *Redis) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys, err := r.client.KeysWithPrefix(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("store: redis scan %s: %w", prefix, err)
	}
	// SCAN may return a key more than once
	slices.Sort(keys)
	return slices.Compact(keys), nil
}
