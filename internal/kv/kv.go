// Package kv holds the key-value backends the catalog snapshot is written to.
package kv

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

var ErrNotFound = errors.New("kv: key not found")

type Store interface {
	// Get returns ErrNotFound when the key has never been written.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
	Close() error
}

const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Options struct {
	Backend     string
	SQLitePath  string
	RedisURL    string
	DatabaseURL string
}

func Open(ctx context.Context, opt Options) (Store, error) {
	switch opt.Backend {
	case "", BackendMemory:
		return NewMemStore(), nil
	case BackendSQLite:
		return OpenSQLite(ctx, opt.SQLitePath)
	case BackendRedis:
		return OpenRedis(ctx, opt.RedisURL)
	case BackendPostgres:
		return OpenPostgres(ctx, opt.DatabaseURL)
	default:
		return nil, fmt.Errorf("kv: unknown backend %q", opt.Backend)
	}
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
