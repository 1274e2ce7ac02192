package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CacheStats is the read side of an in-memory cache, as exposed by freecache.
type CacheStats interface {
	EntryCount() int64
	HitCount() int64
	MissCount() int64
	EvacuateCount() int64
	ExpiredCount() int64
}

// CacheCollector exports cache statistics at scrape time.
type CacheCollector struct {
	cache CacheStats

	entries   *prometheus.Desc
	hits      *prometheus.Desc
	misses    *prometheus.Desc
	evacuated *prometheus.Desc
	expired   *prometheus.Desc
}

var _ prometheus.Collector = (*CacheCollector)(nil)

func NewCacheCollector(name string, cache CacheStats) *CacheCollector {
	labels := prometheus.Labels{"cache": name}
	return &CacheCollector{
		cache:     cache,
		entries:   prometheus.NewDesc("infofit_cache_entries", "Current number of cache entries", nil, labels),
		hits:      prometheus.NewDesc("infofit_cache_hits_total", "Total number of cache hits", nil, labels),
		misses:    prometheus.NewDesc("infofit_cache_misses_total", "Total number of cache misses", nil, labels),
		evacuated: prometheus.NewDesc("infofit_cache_evacuated_total", "Total number of entries evicted to make room", nil, labels),
		expired:   prometheus.NewDesc("infofit_cache_expired_total", "Total number of expired entries", nil, labels),
	}
}

func (c *CacheCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.entries
	ch <- c.hits
	ch <- c.misses
	ch <- c.evacuated
	ch <- c.expired
}

func (c *CacheCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(c.cache.EntryCount()))
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(c.cache.HitCount()))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(c.cache.MissCount()))
	ch <- prometheus.MustNewConstMetric(c.evacuated, prometheus.CounterValue, float64(c.cache.EvacuateCount()))
	ch <- prometheus.MustNewConstMetric(c.expired, prometheus.CounterValue, float64(c.cache.ExpiredCount()))
}
