package memory

import (
	"testing"

	"github.com/discochess/xzstream/internal/source/cachedsource/cachestrategy/lru"
	"github.com/discochess/xzstream/internal/stats"
)

// countingCollector records counter totals.
type countingCollector struct {
	counters map[string]int64
	gauges   map[string]int64
}

func newCountingCollector() *countingCollector {
	return &countingCollector{counters: map[string]int64{}, gauges: map[string]int64{}}
}

func (c *countingCollector) IncCounter(name string, delta int64) { c.counters[name] += delta }
func (c *countingCollector) SetGauge(name string, value int64)   { c.gauges[name] = value }
func (c *countingCollector) ObserveHistogram(string, float64)    {}

func TestBackend_GetSet(t *testing.T) {
	strategy, err := lru.New(10)
	if err != nil {
		t.Fatalf("lru.New() error = %v", err)
	}
	b := New(strategy, nil)

	// Initially empty.
	if _, ok := b.Get("a.xz"); ok {
		t.Error("Get() should return false for missing key")
	}

	b.Set("a.xz", []byte("hello"))
	data, ok := b.Get("a.xz")
	if !ok {
		t.Error("Get() should return true after Set")
	}
	if string(data) != "hello" {
		t.Errorf("Get() = %q, want %q", data, "hello")
	}
}

func TestBackend_Stats(t *testing.T) {
	strategy, err := lru.New(10)
	if err != nil {
		t.Fatalf("lru.New() error = %v", err)
	}
	collector := newCountingCollector()
	b := New(strategy, collector)

	b.Set("a", []byte("data"))
	b.Get("a") // hit
	b.Get("b") // miss

	s := b.Stats()
	if s.Hits != 1 || s.Misses != 1 || s.Size != 1 {
		t.Errorf("Stats() = %+v, want 1 hit, 1 miss, size 1", s)
	}
	if collector.counters[stats.MetricCacheHits] != 1 {
		t.Errorf("%s = %d, want 1", stats.MetricCacheHits, collector.counters[stats.MetricCacheHits])
	}
	if collector.counters[stats.MetricCacheMisses] != 1 {
		t.Errorf("%s = %d, want 1", stats.MetricCacheMisses, collector.counters[stats.MetricCacheMisses])
	}
	if collector.gauges[stats.MetricCacheSize] != 1 {
		t.Errorf("%s = %d, want 1", stats.MetricCacheSize, collector.gauges[stats.MetricCacheSize])
	}
}

func TestBackend_LRUEviction(t *testing.T) {
	strategy, err := lru.New(2)
	if err != nil {
		t.Fatalf("lru.New() error = %v", err)
	}
	b := New(strategy, nil)

	b.Set("a", []byte("1"))
	b.Set("b", []byte("2"))
	b.Get("a") // a is now most recently used
	b.Set("c", []byte("3"))

	if _, ok := b.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if _, ok := b.Get("a"); !ok {
		t.Error("a should still be cached")
	}
}
