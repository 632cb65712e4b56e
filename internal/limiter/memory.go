package limiter

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Memory is the process-local fallback admission layer used while the
// durable store is unreachable. Each identifier gets a token bucket sized
// to its hourly limit. It is not consistent across instances; that is an
// accepted limitation of degraded mode, not a distributed rate limiter.
type Memory struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	idleTTL time.Duration
}

type memoryEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]*memoryEntry),
		idleTTL: 2 * Window,
	}
}

// Allow draws one token from identifier's bucket. Remaining is a
// best-effort snapshot; the bucket refills continuously rather than
// resetting on a window boundary.
func (m *Memory) Allow(identifier string, limit int) Result {
	lim := m.get(identifier, limit)

	allowed := lim.Allow()
	remaining := int(lim.Tokens())
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   allowed,
		Limit:     limit,
		Remaining: remaining,
		Reset:     Window,
		Degraded:  true,
	}
}

func (m *Memory) get(identifier string, limit int) *rate.Limiter {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if ent, ok := m.entries[identifier]; ok {
		ent.lastSeen = now
		return ent.lim
	}

	lim := rate.NewLimiter(rate.Every(Window/time.Duration(limit)), limit)
	m.entries[identifier] = &memoryEntry{lim: lim, lastSeen: now}
	return lim
}

// StartCleanup periodically evicts idle identifiers to bound memory.
func (m *Memory) StartCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		for range ticker.C {
			m.cleanup()
		}
	}()
}

func (m *Memory) cleanup() {
	cutoff := time.Now().Add(-m.idleTTL)

	m.mu.Lock()
	defer m.mu.Unlock()

	for id, ent := range m.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(m.entries, id)
		}
	}
}
