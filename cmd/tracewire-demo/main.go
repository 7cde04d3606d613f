// Command tracewire-demo runs a small instrumented HTTP service. Every
// request opens a server span; the /work endpoint makes two simulated
// outbound calls, each traced as a client span. With no collector configured
// the serialized spans appear in the debug log.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/tracewire/tracewire/config"
	"github.com/tracewire/tracewire/logging"
	"github.com/tracewire/tracewire/tracing"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (env vars used if empty)")
	addr := flag.String("addr", ":8080", "Listen address")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	tracer := tracing.New(tracing.Config{
		ServiceName:       cfg.Service.Name,
		CollectorEndpoint: cfg.Collector.Endpoint,
		NumConns:          cfg.Collector.NumConns,
		MaxQueueSize:      cfg.Recorder.MaxQueueSize,
		NumWorkers:        cfg.Recorder.NumWorkers,
		MaxSpanBatch:      cfg.Recorder.MaxSpanBatch,
		BatchWaitInterval: cfg.Recorder.BatchWaitInterval,
	}, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/work", handleWork)

	srv := &http.Server{Addr: *addr, Handler: router}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", *addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("server shutdown error", zap.Error(err))
		}
		if err := tracer.Close(ctx); err != nil {
			logger.Error("tracer drain error", zap.Error(err))
		}
	case err := <-errChan:
		logger.Fatal("server error", zap.Error(err))
	}
}

// handleWork simulates a request that fans out to two downstream services.
func handleWork(c *gin.Context) {
	span := tracing.SpanFromContext(c.Request.Context())

	for _, name := range []string{"fetch-profile", "fetch-inventory"} {
		child := span.NewChild(name)
		child.Start()
		time.Sleep(2 * time.Millisecond)
		child.Finish(nil)
	}

	c.JSON(http.StatusOK, gin.H{"done": true})
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}
