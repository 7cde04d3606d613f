package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "unnamed-service", cfg.Service.Name)
	assert.Empty(t, cfg.Collector.Endpoint)
	assert.Equal(t, 100, cfg.Collector.NumConns)
	assert.Equal(t, 50000, cfg.Recorder.MaxQueueSize)
	assert.Equal(t, 5, cfg.Recorder.NumWorkers)
	assert.Equal(t, 500*time.Millisecond, cfg.Recorder.BatchWaitInterval)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadDefaultsMatchDefault(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("TRACE_SERVICE_NAME", "checkout")
	t.Setenv("TRACE_COLLECTOR_ENDPOINT", "zipkin.internal:9411")
	t.Setenv("TRACE_QUEUE_SIZE", "1000")
	t.Setenv("TRACE_WORKERS", "2")
	t.Setenv("TRACE_BATCH_INTERVAL", "250ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "checkout", cfg.Service.Name)
	assert.Equal(t, "zipkin.internal:9411", cfg.Collector.Endpoint)
	assert.Equal(t, 1000, cfg.Recorder.MaxQueueSize)
	assert.Equal(t, 2, cfg.Recorder.NumWorkers)
	assert.Equal(t, 250*time.Millisecond, cfg.Recorder.BatchWaitInterval)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracewire.yaml")
	content := `
service:
  name: checkout
collector:
  endpoint: zipkin.internal:9411
  num_conns: 10
recorder:
  max_queue_size: 2000
  max_span_batch: 50
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "checkout", cfg.Service.Name)
	assert.Equal(t, "zipkin.internal:9411", cfg.Collector.Endpoint)
	assert.Equal(t, 10, cfg.Collector.NumConns)
	assert.Equal(t, 2000, cfg.Recorder.MaxQueueSize)
	assert.Equal(t, 50, cfg.Recorder.MaxSpanBatch)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Fields absent from the file keep their defaults.
	assert.Equal(t, 5, cfg.Recorder.NumWorkers)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
