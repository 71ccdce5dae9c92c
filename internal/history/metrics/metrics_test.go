package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry())

	m.IncrementAppended("AlertCreatedEvent")
	m.IncrementAppended("AlertCreatedEvent")
	m.IncrementAppendFailures()
	m.IncrementSkipped("unknown_kind")
	m.AddRedacted(3)
	m.AddRedacted(0)
	m.ObserveTimelineBuild(time.Now())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.EventsAppended.WithLabelValues("AlertCreatedEvent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AppendFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsSkipped.WithLabelValues("unknown_kind")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ItemsRedacted))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementAppended("x")
		m.IncrementAppendFailures()
		m.IncrementSkipped("x")
		m.AddRedacted(1)
		m.ObserveTimelineBuild(time.Now())
	})
}
