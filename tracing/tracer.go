package tracing

import (
	"context"
	"net"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/tracewire/tracewire/recorder"
)

// Remote collectors get smaller batches than the log sink: each batch is one
// HTTP request, and smaller payloads keep delivery under the flush timeout.
const defaultRemoteSpanBatch = 20

// Config holds the construction-time options for a Tracer.
type Config struct {
	// ServiceName identifies this process in span annotations.
	ServiceName string
	// CollectorEndpoint is the span collector as host:port. Empty selects
	// the log sink.
	CollectorEndpoint string
	// NumConns sizes the collector connection pool.
	NumConns int
	// MaxQueueSize caps spans pending delivery.
	MaxQueueSize int
	// NumWorkers is the delivery worker pool size.
	NumWorkers int
	// MaxSpanBatch bounds spans per flush. 0 selects the sink's default.
	MaxSpanBatch int
	// BatchWaitInterval is the idle sleep between queue checks.
	BatchWaitInterval time.Duration
	// Registerer receives pipeline metrics. Nil uses the default registry.
	Registerer prometheus.Registerer
}

// Tracer is the per-process tracing entry point. It owns the single shared
// Recorder and creates a server observer for each inbound request's root
// span. Construct one per service process.
type Tracer struct {
	serviceName string
	hostname    string
	recorder    *recorder.Recorder
	logger      *zap.Logger
}

// New creates a Tracer. The sink is chosen by configuration: a collector
// endpoint wires the remote HTTP sink, otherwise spans go to the debug log.
func New(cfg Config, logger *zap.Logger) *Tracer {
	reg := cfg.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	recorderCfg := recorder.Config{
		MaxQueueSize:      cfg.MaxQueueSize,
		NumWorkers:        cfg.NumWorkers,
		MaxSpanBatch:      cfg.MaxSpanBatch,
		BatchWaitInterval: cfg.BatchWaitInterval,
		Metrics:           recorder.NewMetrics(reg),
	}

	var sink recorder.Sink
	if cfg.CollectorEndpoint != "" {
		logger.Info("recording spans to collector",
			zap.String("endpoint", cfg.CollectorEndpoint),
		)
		if recorderCfg.MaxSpanBatch <= 0 {
			recorderCfg.MaxSpanBatch = defaultRemoteSpanBatch
		}
		sink = recorder.NewRemoteSink(recorder.RemoteSinkConfig{
			Endpoint: cfg.CollectorEndpoint,
			NumConns: cfg.NumConns,
		}, logger)
	} else {
		sink = recorder.NewLogSink(logger)
	}

	return &Tracer{
		serviceName: cfg.ServiceName,
		hostname:    resolveHostIPv4(logger),
		recorder:    recorder.New(sink, recorderCfg, logger),
		logger:      logger,
	}
}

// OnServerSpanCreated attaches a server observer to a new inbound request's
// root span. The framework calls this once per request, before Start.
func (t *Tracer) OnServerSpanCreated(span *Span) {
	span.Register(NewServerSpanObserver(t.serviceName, t.hostname, span, t.recorder, t.logger))
}

// StartServerSpan creates a fresh root span for an inbound request,
// instruments it, and starts it.
func (t *Tracer) StartServerSpan(name string) *Span {
	span := NewRootSpan(name)
	t.OnServerSpanCreated(span)
	span.Start()
	return span
}

// Close drains and stops the delivery pipeline, bounded by ctx.
func (t *Tracer) Close(ctx context.Context) error {
	return t.recorder.Close(ctx)
}

// resolveHostIPv4 resolves the process host's IPv4 address once, at
// construction. Spans annotate this as the reporting endpoint. Resolution
// failure falls back to loopback rather than disabling tracing.
func resolveHostIPv4(logger *zap.Logger) string {
	host, err := os.Hostname()
	if err == nil {
		if addrs, lookupErr := net.LookupIP(host); lookupErr == nil {
			for _, addr := range addrs {
				if ipv4 := addr.To4(); ipv4 != nil {
					return ipv4.String()
				}
			}
		}
	}
	logger.Warn("could not resolve host IPv4, using loopback")
	return "127.0.0.1"
}
