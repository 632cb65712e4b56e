// Package storetest provides an in-memory Store with a switchable outage
// mode, so components can be tested against both the healthy path and the
// degraded one.
package storetest

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/readmeforge/readmeforge/internal/store"
)

type entry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

type Fake struct {
	mu      sync.Mutex
	entries map[string]entry

	// Unavailable makes every operation fail with ErrUnavailable,
	// simulating a store outage.
	Unavailable bool
}

func New() *Fake {
	return &Fake{entries: make(map[string]entry)}
}

func (f *Fake) unavailable() error {
	return fmt.Errorf("%w: simulated outage", store.ErrUnavailable)
}

func (f *Fake) live(key string) (entry, bool) {
	ent, ok := f.entries[key]
	if !ok {
		return entry{}, false
	}
	if !ent.expiresAt.IsZero() && time.Now().After(ent.expiresAt) {
		delete(f.entries, key)
		return entry{}, false
	}
	return ent, true
}

func (f *Fake) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Unavailable {
		return "", f.unavailable()
	}
	ent, ok := f.live(key)
	if !ok {
		return "", store.ErrNotFound
	}
	return ent.value, nil
}

func (f *Fake) Set(_ context.Context, key, value string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Unavailable {
		return f.unavailable()
	}
	ent := entry{value: value}
	if ttl > 0 {
		ent.expiresAt = time.Now().Add(ttl)
	}
	f.entries[key] = ent
	return nil
}

func (f *Fake) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Unavailable {
		return f.unavailable()
	}
	delete(f.entries, key)
	return nil
}

func (f *Fake) Incr(_ context.Context, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Unavailable {
		return 0, f.unavailable()
	}
	ent, ok := f.live(key)
	n := int64(0)
	if ok {
		parsed, err := strconv.ParseInt(ent.value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: non-numeric value", store.ErrUnavailable)
		}
		n = parsed
	}
	n++
	ent.value = strconv.FormatInt(n, 10)
	f.entries[key] = ent
	return n, nil
}

func (f *Fake) Expire(_ context.Context, key string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Unavailable {
		return f.unavailable()
	}
	ent, ok := f.live(key)
	if !ok {
		return store.ErrNotFound
	}
	ent.expiresAt = time.Now().Add(ttl)
	f.entries[key] = ent
	return nil
}

func (f *Fake) TTL(_ context.Context, key string) (time.Duration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Unavailable {
		return 0, f.unavailable()
	}
	ent, ok := f.live(key)
	if !ok {
		return 0, store.ErrNotFound
	}
	if ent.expiresAt.IsZero() {
		return 0, nil
	}
	return time.Until(ent.expiresAt), nil
}

func (f *Fake) Keys(_ context.Context, pattern string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Unavailable {
		return nil, f.unavailable()
	}
	prefix := strings.TrimSuffix(pattern, "*")
	var keys []string
	for key := range f.entries {
		if _, ok := f.live(key); !ok {
			continue
		}
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (f *Fake) Ping(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Unavailable {
		return f.unavailable()
	}
	return nil
}

// SetTTL rewrites a key's expiry directly, bypassing outage mode. Tests
// use it to observe TTL refreshes.
func (f *Fake) SetTTL(key string, ttl time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ent, ok := f.entries[key]; ok {
		ent.expiresAt = time.Now().Add(ttl)
		f.entries[key] = ent
	}
}

var _ store.Store = (*Fake)(nil)
