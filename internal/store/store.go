// Package store wraps the durable key-value store behind a narrow contract
// with uniform error semantics. Callers decide retry/fallback policy; the
// adapter itself never retries.
package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound means the store answered and the key is absent. This is
	// a different outcome from ErrUnavailable and must not be conflated
	// with it by callers.
	ErrNotFound = errors.New("store: key not found")

	// ErrUnavailable means the store call itself failed. Callers treat
	// this as an expected condition and apply degraded-mode policy.
	ErrUnavailable = errors.New("store: unavailable")
)

type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	TTL(ctx context.Context, key string) (time.Duration, error)
	Keys(ctx context.Context, pattern string) ([]string, error)
	Ping(ctx context.Context) error
}
