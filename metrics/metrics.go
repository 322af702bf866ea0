// Package metrics exports cache events to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Jaysum57/CropGuard-sub000/types"
)

// Collector owns the cache counters. Each cache facade gets its own
// label value through Scope.
type Collector struct {
	hits          *prometheus.CounterVec
	misses        *prometheus.CounterVec
	expired       *prometheus.CounterVec
	corrupt       *prometheus.CounterVec
	persistErrors *prometheus.CounterVec
}

// NewCollector registers the cache counters on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		hits: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cropguard_cache_hits_total",
				Help: "Total number of cache reads that returned fresh data",
			},
			[]string{"cache"},
		),
		misses: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cropguard_cache_misses_total",
				Help: "Total number of cache reads that found nothing usable",
			},
			[]string{"cache"},
		),
		expired: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cropguard_cache_expired_total",
				Help: "Total number of entries dropped after passing their expiry",
			},
			[]string{"cache"},
		),
		corrupt: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cropguard_cache_corrupt_total",
				Help: "Total number of durable records that could not be decoded",
			},
			[]string{"cache"},
		),
		persistErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cropguard_cache_persist_errors_total",
				Help: "Total number of failed or dropped durable store writes and removes",
			},
			[]string{"cache"},
		),
	}
}

// Scope returns a types.Metrics that records under the given cache label.
func (c *Collector) Scope(name string) types.Metrics {
	return scoped{
		hit:     c.hits.WithLabelValues(name),
		miss:    c.misses.WithLabelValues(name),
		expire:  c.expired.WithLabelValues(name),
		corrupt: c.corrupt.WithLabelValues(name),
		persist: c.persistErrors.WithLabelValues(name),
	}
}

type scoped struct {
	hit, miss, expire, corrupt, persist prometheus.Counter
}

func (s scoped) Hit()          { s.hit.Inc() }
func (s scoped) Miss()         { s.miss.Inc() }
func (s scoped) Expire()       { s.expire.Inc() }
func (s scoped) Corrupt()      { s.corrupt.Inc() }
func (s scoped) PersistError() { s.persist.Inc() }
