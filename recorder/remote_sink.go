package recorder

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Default connection pool size for the collector client.
const DefaultNumConns = 100

// DefaultFlushTimeout bounds one delivery call to the collector.
const DefaultFlushTimeout = time.Second

// RemoteSinkConfig configures delivery to a span collector.
type RemoteSinkConfig struct {
	// Endpoint is the collector address as host:port. A scheme may be
	// included; plain http is assumed otherwise.
	Endpoint string
	// NumConns sizes the connection pool to the collector.
	NumConns int
	// Timeout bounds a single delivery request.
	Timeout time.Duration
}

// RemoteSink posts span batches to a Zipkin-compatible collector as a single
// JSON array per flush. Delivery is best-effort: failures and timeouts are
// logged and the batch discarded, with no retry and no effect on workers.
type RemoteSink struct {
	client *resty.Client
	url    string
	logger *zap.Logger
}

// NewRemoteSink creates a sink posting to {endpoint}/api/v1/spans with a
// pooled HTTP client.
func NewRemoteSink(cfg RemoteSinkConfig, logger *zap.Logger) *RemoteSink {
	if cfg.NumConns <= 0 {
		cfg.NumConns = DefaultNumConns
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultFlushTimeout
	}

	transport := &http.Transport{
		MaxIdleConns:        cfg.NumConns,
		MaxIdleConnsPerHost: cfg.NumConns,
	}

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetTransport(transport).
		SetHeader("User-Agent", "tracewire/1.0")

	endpoint := cfg.Endpoint
	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}

	return &RemoteSink{
		client: client,
		url:    endpoint + "/api/v1/spans",
		logger: logger,
	}
}

// Flush posts the batch to the collector. Errors never escape the sink.
func (s *RemoteSink) Flush(ctx context.Context, batch []json.RawMessage) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(batch).
		Post(s.url)
	if err != nil {
		s.logger.Error("failed to deliver span batch",
			zap.Error(err),
			zap.Int("batch_size", len(batch)),
		)
		return
	}
	if resp.IsError() {
		s.logger.Error("collector rejected span batch",
			zap.Int("status", resp.StatusCode()),
			zap.Int("batch_size", len(batch)),
		)
	}
}
