package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is a minimal string key-value store.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Options selects and configures a backend.
type Options struct {
	Backend    string
	Redis      *goredis.Client
	Namespace  string
	TTL        time.Duration
	SQLitePath string
}

// Open builds the configured backend. The returned close func is never nil.
func Open(ctx context.Context, opts Options) (Store, func() error, error) {
	noop := func() error { return nil }

	switch opts.Backend {
	case "", BackendMemory:
		return NewMemoryStore(), noop, nil

	case BackendRedis:
		if opts.Redis == nil {
			return nil, noop, errors.New("kvstore: redis backend selected but redis is not available")
		}
		return NewRedisStore(opts.Redis, opts.Namespace, opts.TTL), noop, nil

	case BackendSQLite:
		store, err := OpenSQLiteStore(ctx, opts.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil

	default:
		return nil, noop, fmt.Errorf("kvstore: unknown backend %q", opts.Backend)
	}
}
