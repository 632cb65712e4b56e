// Package limiter enforces per-identifier request quotas over a fixed
// one-hour window. Counters live in the durable store so multiple
// instances share them; correctness under concurrency rests entirely on
// the store's atomic increment. When the store is unreachable the limiter
// degrades to a process-local token-bucket layer instead of blocking
// requests.
package limiter

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/readmeforge/readmeforge/internal/store"
)

const (
	// Window is the span over which a quota is counted before resetting.
	Window = time.Hour

	// AnonymousLimit applies to unauthenticated/browser callers keyed by IP.
	AnonymousLimit = 10
	// AuthenticatedLimit applies to API callers keyed by bearer token.
	AuthenticatedLimit = 100

	counterPrefix = "rate-limit:"
)

// Result is the outcome of an admission check. Reset is the remaining
// window time; Degraded marks decisions made by the process-local
// fallback while the store is unreachable.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Duration
	Degraded  bool
}

type Limiter struct {
	store    store.Store
	fallback *Memory
}

func New(st store.Store, fallback *Memory) *Limiter {
	return &Limiter{store: st, fallback: fallback}
}

// Allow admits or rejects one request from identifier under limit.
// The increment happens first and is atomic, so two concurrent requests
// can never both observe the same pre-increment count.
func (l *Limiter) Allow(ctx context.Context, identifier string, limit int) Result {
	key := counterPrefix + identifier

	count, err := l.store.Incr(ctx, key)
	if err != nil {
		logrus.WithError(err).WithField("identifier", identifier).
			Warn("store unavailable, rate limiting degraded to in-memory fallback")
		return l.fallback.Allow(identifier, limit)
	}

	if count == 1 {
		if err := l.store.Expire(ctx, key, Window); err != nil {
			logrus.WithError(err).Warn("failed to set rate limit window")
		}
	}

	reset, err := l.store.TTL(ctx, key)
	if err != nil || reset <= 0 {
		// Counter without a window (lost EXPIRE or TTL read failure):
		// re-arm it rather than leaving an immortal counter behind.
		_ = l.store.Expire(ctx, key, Window)
		reset = Window
	}

	if count > int64(limit) {
		return Result{Limit: limit, Remaining: 0, Reset: reset}
	}

	return Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - int(count),
		Reset:     reset,
	}
}
