package metrics

import (
	"sync"
	"testing"
	"time"
)

type mockStatsProvider struct {
	mu    sync.Mutex
	stats Stats
	calls int
}

func (m *mockStatsProvider) GetStats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.stats
}

func (m *mockStatsProvider) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func TestCollectorCollectsImmediately(t *testing.T) {
	provider := &mockStatsProvider{stats: Stats{Images: 2, Videos: 1, Located: 3, Indexed: 3}}
	c := NewCollector(provider, time.Hour)

	c.Start()
	defer c.Stop()

	deadline := time.After(2 * time.Second)
	for provider.callCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("collector never polled the provider")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestCollectorStop(t *testing.T) {
	provider := &mockStatsProvider{}
	c := NewCollector(provider, 10*time.Millisecond)

	c.Start()
	time.Sleep(50 * time.Millisecond)
	c.Stop()

	// Let any in-flight collection drain before sampling the count.
	time.Sleep(30 * time.Millisecond)
	calls := provider.callCount()
	time.Sleep(50 * time.Millisecond)
	if provider.callCount() != calls {
		t.Error("collector kept polling after Stop")
	}
}

func TestCollectorNilProvider(t *testing.T) {
	c := NewCollector(nil, 10*time.Millisecond)
	c.Start()
	time.Sleep(30 * time.Millisecond)
	c.Stop()
	// Must not panic.
}
