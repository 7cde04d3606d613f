package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all tracewire configuration.
type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	Collector CollectorConfig `yaml:"collector"`
	Recorder  RecorderConfig  `yaml:"recorder"`
	Logging   LogConfig       `yaml:"logging"`
}

// ServiceConfig identifies the instrumented service.
type ServiceConfig struct {
	Name string `envconfig:"TRACE_SERVICE_NAME" default:"unnamed-service" yaml:"name"`
}

// CollectorConfig holds span collector configuration. An empty endpoint
// selects the log sink.
type CollectorConfig struct {
	Endpoint string `envconfig:"TRACE_COLLECTOR_ENDPOINT" default:"" yaml:"endpoint"`
	NumConns int    `envconfig:"TRACE_COLLECTOR_CONNS" default:"100" yaml:"num_conns"`
}

// RecorderConfig tunes the span delivery pipeline.
type RecorderConfig struct {
	MaxQueueSize      int           `envconfig:"TRACE_QUEUE_SIZE" default:"50000" yaml:"max_queue_size"`
	NumWorkers        int           `envconfig:"TRACE_WORKERS" default:"5" yaml:"num_workers"`
	MaxSpanBatch      int           `envconfig:"TRACE_BATCH_MAX" default:"0" yaml:"max_span_batch"`
	BatchWaitInterval time.Duration `envconfig:"TRACE_BATCH_INTERVAL" default:"500ms" yaml:"batch_wait_interval"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"TRACE_LOG_LEVEL" default:"info" yaml:"level"`
	Development bool   `envconfig:"TRACE_LOG_DEV" default:"false" yaml:"development"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadFile loads configuration from a YAML file, layered over the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads configuration from environment or returns defaults.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Service: ServiceConfig{
			Name: "unnamed-service",
		},
		Collector: CollectorConfig{
			NumConns: 100,
		},
		Recorder: RecorderConfig{
			MaxQueueSize:      50000,
			NumWorkers:        5,
			BatchWaitInterval: 500 * time.Millisecond,
		},
		Logging: LogConfig{
			Level: "info",
		},
	}
}
