package limiter

import (
	"testing"
	"time"
)

func TestMemoryBurst(t *testing.T) {
	m := NewMemory()

	allowed := 0
	for i := 0; i < AnonymousLimit+5; i++ {
		if res := m.Allow("ip-1", AnonymousLimit); res.Allowed {
			allowed++
		}
	}
	if allowed != AnonymousLimit {
		t.Errorf("expected burst capped at %d, got %d", AnonymousLimit, allowed)
	}
}

func TestMemoryResultShape(t *testing.T) {
	m := NewMemory()

	res := m.Allow("ip-2", AuthenticatedLimit)
	if !res.Allowed {
		t.Fatal("first request should be allowed")
	}
	if !res.Degraded {
		t.Error("memory decisions must be marked degraded")
	}
	if res.Limit != AuthenticatedLimit {
		t.Errorf("expected limit %d, got %d", AuthenticatedLimit, res.Limit)
	}
	if res.Remaining < 0 || res.Remaining >= AuthenticatedLimit {
		t.Errorf("remaining out of range: %d", res.Remaining)
	}
}

func TestMemoryCleanupEvictsIdleEntries(t *testing.T) {
	m := NewMemory()
	m.idleTTL = 0

	m.Allow("ip-3", AnonymousLimit)

	time.Sleep(time.Millisecond)
	m.cleanup()

	m.mu.Lock()
	_, ok := m.entries["ip-3"]
	m.mu.Unlock()
	if ok {
		t.Error("idle entry should have been evicted")
	}
}
