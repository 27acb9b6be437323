package banyan

import (
	"sync"
	"time"
)

// latencyWindow is the number of recent resolutions the rolling average
// latency is computed over.
const latencyWindow = 64

// telemetry is a passive event sink. The resolver, pool and hot-swap paths
// report events; telemetry only counts, it never influences behavior.
type telemetry struct {
	mu sync.Mutex

	resolutions   uint64
	cacheHits     uint64
	cacheMisses   uint64
	cycleBreaks   uint64
	poolHits      uint64
	poolMisses    uint64
	poolOverflows uint64
	hotSwaps      uint64

	latencies [latencyWindow]time.Duration
	latNext   int
	latCount  int
}

func (t *telemetry) resolution(d time.Duration) {
	t.mu.Lock()
	t.resolutions++
	t.latencies[t.latNext] = d
	t.latNext = (t.latNext + 1) % latencyWindow
	if t.latCount < latencyWindow {
		t.latCount++
	}
	t.mu.Unlock()
}

func (t *telemetry) cacheHit() {
	t.mu.Lock()
	t.cacheHits++
	t.mu.Unlock()
}

func (t *telemetry) cacheMiss() {
	t.mu.Lock()
	t.cacheMisses++
	t.mu.Unlock()
}

func (t *telemetry) cycleBreak() {
	t.mu.Lock()
	t.cycleBreaks++
	t.mu.Unlock()
}

func (t *telemetry) poolHit() {
	t.mu.Lock()
	t.poolHits++
	t.mu.Unlock()
}

func (t *telemetry) poolMiss() {
	t.mu.Lock()
	t.poolMisses++
	t.mu.Unlock()
}

func (t *telemetry) poolOverflow() {
	t.mu.Lock()
	t.poolMisses++
	t.poolOverflows++
	t.mu.Unlock()
}

func (t *telemetry) hotSwap() {
	t.mu.Lock()
	t.hotSwaps++
	t.mu.Unlock()
}

func (t *telemetry) snapshot() MetricsSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	var avg time.Duration
	if t.latCount > 0 {
		var sum time.Duration
		for i := 0; i < t.latCount; i++ {
			sum += t.latencies[i]
		}
		avg = sum / time.Duration(t.latCount)
	}

	return MetricsSnapshot{
		Resolutions:       t.resolutions,
		CacheHits:         t.cacheHits,
		CacheMisses:       t.cacheMisses,
		CycleBreaks:       t.cycleBreaks,
		PoolHits:          t.poolHits,
		PoolMisses:        t.poolMisses,
		PoolOverflows:     t.poolOverflows,
		HotSwaps:          t.hotSwaps,
		AvgResolveLatency: avg,
	}
}

// MetricsSnapshot is an immutable view of the container's counters, returned
// by [Container.Metrics].
type MetricsSnapshot struct {
	// Resolutions counts completed top-level and recursive resolve calls.
	Resolutions uint64

	// CacheHits and CacheMisses count singleton cache lookups.
	CacheHits   uint64
	CacheMisses uint64

	// CycleBreaks counts forwarding handles issued for circular chains.
	CycleBreaks uint64

	// PoolHits counts resolves served by an idle pooled instance.
	// PoolMisses counts resolves that had to construct, including the
	// PoolOverflows subset that exceeded capacity and went untracked.
	PoolHits      uint64
	PoolMisses    uint64
	PoolOverflows uint64

	// HotSwaps counts successful recipe replacements.
	HotSwaps uint64

	// AvgResolveLatency is the rolling average duration of the most recent
	// resolutions.
	AvgResolveLatency time.Duration
}
