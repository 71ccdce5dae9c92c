package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the change history module.
// Tracks appends by kind, append failures, timeline build latency and the
// events the builder had to skip. A nil *Metrics is a no-op.
type Metrics struct {
	EventsAppended        *prometheus.CounterVec
	AppendFailures        prometheus.Counter
	TimelineBuildDuration prometheus.Histogram
	EventsSkipped         *prometheus.CounterVec
	ItemsRedacted         prometheus.Counter
}

// New creates a new Metrics instance registered on the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the module metrics on reg. Tests pass a fresh
// registry so constructing twice does not panic.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EventsAppended: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trs_history_events_appended_total",
			Help: "Total number of events appended, by kind",
		}, []string{"kind"}),
		AppendFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "trs_history_append_failures_total",
			Help: "Total number of event appends that failed and aborted their transaction",
		}),
		TimelineBuildDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "trs_history_timeline_build_duration_seconds",
			Help:    "Duration of change history reads (load, render, filter)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		EventsSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trs_history_events_skipped_total",
			Help: "Events left out of a timeline, by reason",
		}, []string{"reason"}),
		ItemsRedacted: factory.NewCounter(prometheus.CounterOpts{
			Name: "trs_history_items_redacted_total",
			Help: "Timeline items removed because the caller lacked the capability",
		}),
	}
}

// IncrementAppended records a successful append.
func (m *Metrics) IncrementAppended(kind string) {
	if m == nil {
		return
	}
	m.EventsAppended.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncrementAppendFailures() {
	if m == nil {
		return
	}
	m.AppendFailures.Inc()
}

// IncrementSkipped records an event the timeline builder could not render.
func (m *Metrics) IncrementSkipped(reason string) {
	if m == nil {
		return
	}
	m.EventsSkipped.WithLabelValues(reason).Inc()
}

func (m *Metrics) AddRedacted(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ItemsRedacted.Add(float64(n))
}

// ObserveTimelineBuild records the duration of a history read.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveTimelineBuild(start time.Time) {
	if m == nil {
		return
	}
	m.TimelineBuildDuration.Observe(time.Since(start).Seconds())
}
