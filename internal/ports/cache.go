package ports

import (
	"context"
	"time"
)

// Cache is a small key-value capability for usecases: import run locks and
// last-run summaries live here. Adapters may back it with SQLite or Redis.
type Cache interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
