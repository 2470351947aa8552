// SPDX-License-Identifier: MIT

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "lstsq"

// Label values used by the lsq and design packages.
const (
	ResultHit  = "hit"
	ResultMiss = "miss"

	ModeColumn = "column"
	ModeRow    = "row"

	PathIncremental = "incremental"
	PathRecompute   = "recompute"
	PathNoop        = "noop"
)

// Collector groups the counters and histograms of one process or test.
type Collector struct {
	cacheLookups  *prometheus.CounterVec
	updates       *prometheus.CounterVec
	failures      *prometheus.CounterVec
	factorization *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers it with reg.
// A nil reg leaves the collectors unregistered; Register can be called later.
func NewCollector(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)

	return &Collector{
		cacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "design",
			Name:      "cache_lookups_total",
			Help:      "Design column cache lookups by result",
		}, []string{"result"}),
		updates: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_total",
			Help:      "Successful factorization updates by strategy, mode and path",
		}, []string{"strategy", "mode", "path"}),
		failures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Failed factorizations or updates by strategy and error kind",
		}, []string{"strategy", "kind"}),
		factorization: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "factorization_seconds",
			Help:      "Time spent computing or updating a factorization",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"strategy"}),
	}
}

// Collectors returns every underlying collector.
func (c *Collector) Collectors() []prometheus.Collector {
	if c == nil {
		return nil
	}

	return []prometheus.Collector{c.cacheLookups, c.updates, c.failures, c.factorization}
}

// Register registers all collectors with reg.
func (c *Collector) Register(reg prometheus.Registerer) error {
	for _, col := range c.Collectors() {
		if err := reg.Register(col); err != nil {
			return err
		}
	}

	return nil
}

// CacheHit records a cache lookup served from memory.
func (c *Collector) CacheHit() {
	if c == nil {
		return
	}
	c.cacheLookups.WithLabelValues(ResultHit).Inc()
}

// CacheMiss records a lookup that evaluated a column.
func (c *Collector) CacheMiss() {
	if c == nil {
		return
	}
	c.cacheLookups.WithLabelValues(ResultMiss).Inc()
}

// Update records a successful update.
func (c *Collector) Update(strategy, mode, path string) {
	if c == nil {
		return
	}
	c.updates.WithLabelValues(strategy, mode, path).Inc()
}

// Failure records a failed factorization or update.
func (c *Collector) Failure(strategy, kind string) {
	if c == nil {
		return
	}
	c.failures.WithLabelValues(strategy, kind).Inc()
}

// ObserveFactorization records the time elapsed since start.
func (c *Collector) ObserveFactorization(strategy string, start time.Time) {
	if c == nil {
		return
	}
	c.factorization.WithLabelValues(strategy).Observe(time.Since(start).Seconds())
}

// UpdateCount returns the current value of the update counter for one label set.
func (c *Collector) UpdateCount(strategy, mode, path string) float64 {
	if c == nil {
		return 0
	}

	return counterValue(c.updates.WithLabelValues(strategy, mode, path))
}

// FailureCount returns the current value of the failure counter for one label set.
func (c *Collector) FailureCount(strategy, kind string) float64 {
	if c == nil {
		return 0
	}

	return counterValue(c.failures.WithLabelValues(strategy, kind))
}

// CacheLookups returns the hit and miss counts.
func (c *Collector) CacheLookups() (hits, misses float64) {
	if c == nil {
		return 0, 0
	}

	return counterValue(c.cacheLookups.WithLabelValues(ResultHit)),
		counterValue(c.cacheLookups.WithLabelValues(ResultMiss))
}

func counterValue(m prometheus.Metric) float64 {
	var pb dto.Metric
	if err := m.Write(&pb); err != nil || pb.Counter == nil {
		return 0
	}

	return pb.Counter.GetValue()
}
