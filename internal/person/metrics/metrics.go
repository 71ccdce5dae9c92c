package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks the person directory cache.
type Metrics struct {
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
	CacheErrors prometheus.Counter
}

func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "trs_person_cache_hits_total",
			Help: "Person lookups served from cache",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "trs_person_cache_misses_total",
			Help: "Person lookups that fell through to the store",
		}),
		CacheErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "trs_person_cache_errors_total",
			Help: "Cache reads or writes that failed and were bypassed",
		}),
	}
}

func (m *Metrics) IncrementHit() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}

func (m *Metrics) IncrementMiss() {
	if m == nil {
		return
	}
	m.CacheMisses.Inc()
}

func (m *Metrics) IncrementError() {
	if m == nil {
		return
	}
	m.CacheErrors.Inc()
}
