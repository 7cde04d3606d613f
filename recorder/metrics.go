package recorder

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instruments the delivery pipeline. The drop counter is the
// observable half of the overload policy: spans produced equal spans
// delivered plus spans dropped.
type Metrics struct {
	SpansEnqueued  prometheus.Counter
	SpansDropped   prometheus.Counter
	SpansDelivered prometheus.Counter
	BatchesFlushed prometheus.Counter
	QueueDepth     prometheus.Gauge
}

// NewMetrics registers pipeline metrics with the given registerer. Pass
// prometheus.DefaultRegisterer in production; tests use a fresh registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SpansEnqueued: factory.NewCounter(prometheus.CounterOpts{
			Name: "tracewire_spans_enqueued_total",
			Help: "Total number of spans accepted onto the recording queue",
		}),
		SpansDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "tracewire_spans_dropped_total",
			Help: "Total number of spans dropped due to a full queue or closed recorder",
		}),
		SpansDelivered: factory.NewCounter(prometheus.CounterOpts{
			Name: "tracewire_spans_delivered_total",
			Help: "Total number of spans handed to the flush sink",
		}),
		BatchesFlushed: factory.NewCounter(prometheus.CounterOpts{
			Name: "tracewire_batches_flushed_total",
			Help: "Total number of batches passed to the flush sink",
		}),
		QueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "tracewire_span_queue_depth",
			Help: "Number of spans currently pending delivery",
		}),
	}
}

func (m *Metrics) spanEnqueued(depth int) {
	if m == nil {
		return
	}
	m.SpansEnqueued.Inc()
	m.QueueDepth.Set(float64(depth))
}

func (m *Metrics) spanDropped() {
	if m == nil {
		return
	}
	m.SpansDropped.Inc()
}

func (m *Metrics) batchFlushed(size, depth int) {
	if m == nil {
		return
	}
	m.SpansDelivered.Add(float64(size))
	m.BatchesFlushed.Inc()
	m.QueueDepth.Set(float64(depth))
}
