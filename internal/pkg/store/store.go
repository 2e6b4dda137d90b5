// Package store is a small key/value port used to persist investigations.
// Adapters exist for process memory, redis and any gorm database.
package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the key does not exist
var ErrNotFound = errors.New("store: key not found")

// Supported backends
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendDatabase = "database"
)

// Store is a flat key/value namespace. Values are opaque bytes.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes the keys; missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
	// Keys lists every key starting with prefix, sorted.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Config selects the backend
type Config struct {
	Backend string `mapstructure:"backend"`
}

// Validate checks the backend name
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMemory, BackendRedis, BackendDatabase:
		return nil
	default:
		return fmt.Errorf("store: unknown backend %q", c.Backend)
	}
}
