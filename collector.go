package banyan

import "github.com/prometheus/client_golang/prometheus"

var (
	resolutionsDesc = prometheus.NewDesc(
		"banyan_resolutions_total",
		"Total number of completed resolve calls",
		nil, nil,
	)
	cacheHitsDesc = prometheus.NewDesc(
		"banyan_cache_hits_total",
		"Total number of singleton cache hits",
		nil, nil,
	)
	cacheMissesDesc = prometheus.NewDesc(
		"banyan_cache_misses_total",
		"Total number of singleton cache misses",
		nil, nil,
	)
	cycleBreaksDesc = prometheus.NewDesc(
		"banyan_cycle_breaks_total",
		"Total number of forwarding handles issued for circular chains",
		nil, nil,
	)
	poolHitsDesc = prometheus.NewDesc(
		"banyan_pool_hits_total",
		"Total number of resolves served by an idle pooled instance",
		nil, nil,
	)
	poolMissesDesc = prometheus.NewDesc(
		"banyan_pool_misses_total",
		"Total number of pooled resolves that constructed a new instance",
		nil, nil,
	)
	poolOverflowsDesc = prometheus.NewDesc(
		"banyan_pool_overflows_total",
		"Total number of pooled resolves degraded to untracked instances",
		nil, nil,
	)
	hotSwapsDesc = prometheus.NewDesc(
		"banyan_hot_swaps_total",
		"Total number of successful recipe replacements",
		nil, nil,
	)
	resolveLatencyDesc = prometheus.NewDesc(
		"banyan_resolve_latency_seconds",
		"Rolling average resolve latency over recent resolutions",
		nil, nil,
	)
)

// collector exports a container's telemetry snapshot as Prometheus metrics.
type collector struct {
	c Container
}

// Collector returns a [prometheus.Collector] over the container's counters,
// ready to register with any Prometheus registry:
//
//	prometheus.MustRegister(banyan.Collector(c))
func Collector(c Container) prometheus.Collector {
	return &collector{c: c}
}

func (col *collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- resolutionsDesc
	ch <- cacheHitsDesc
	ch <- cacheMissesDesc
	ch <- cycleBreaksDesc
	ch <- poolHitsDesc
	ch <- poolMissesDesc
	ch <- poolOverflowsDesc
	ch <- hotSwapsDesc
	ch <- resolveLatencyDesc
}

func (col *collector) Collect(ch chan<- prometheus.Metric) {
	s := col.c.Metrics()

	ch <- prometheus.MustNewConstMetric(resolutionsDesc, prometheus.CounterValue, float64(s.Resolutions))
	ch <- prometheus.MustNewConstMetric(cacheHitsDesc, prometheus.CounterValue, float64(s.CacheHits))
	ch <- prometheus.MustNewConstMetric(cacheMissesDesc, prometheus.CounterValue, float64(s.CacheMisses))
	ch <- prometheus.MustNewConstMetric(cycleBreaksDesc, prometheus.CounterValue, float64(s.CycleBreaks))
	ch <- prometheus.MustNewConstMetric(poolHitsDesc, prometheus.CounterValue, float64(s.PoolHits))
	ch <- prometheus.MustNewConstMetric(poolMissesDesc, prometheus.CounterValue, float64(s.PoolMisses))
	ch <- prometheus.MustNewConstMetric(poolOverflowsDesc, prometheus.CounterValue, float64(s.PoolOverflows))
	ch <- prometheus.MustNewConstMetric(hotSwapsDesc, prometheus.CounterValue, float64(s.HotSwaps))
	ch <- prometheus.MustNewConstMetric(resolveLatencyDesc, prometheus.GaugeValue, s.AvgResolveLatency.Seconds())
}
