package recorder

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Default tuning values, matching the documented construction options.
const (
	DefaultMaxQueueSize      = 50000
	DefaultNumWorkers        = 5
	DefaultMaxSpanBatch      = 100
	DefaultBatchWaitInterval = 500 * time.Millisecond
)

// Span is an opaque handle to a finished span awaiting delivery. The queue
// holds these handles, not encoded bytes: serialization happens at dequeue
// time inside a worker, keeping the hot Send path allocation-light.
type Span interface {
	// Serialize renders the span into its JSON wire form.
	Serialize() ([]byte, error)
}

// Sink disposes of one drained batch. Implementations must contain their own
// I/O failures: a failed delivery is logged and the batch discarded, never
// propagated back into the worker loop.
type Sink interface {
	Flush(ctx context.Context, batch []json.RawMessage)
}

// Config tunes the batching engine.
type Config struct {
	// MaxQueueSize caps pending spans. A full queue drops, it never blocks.
	MaxQueueSize int
	// NumWorkers is the number of independent drain loops.
	NumWorkers int
	// MaxSpanBatch bounds the spans drained per flush call.
	MaxSpanBatch int
	// BatchWaitInterval is how long an idle worker sleeps before rechecking.
	BatchWaitInterval time.Duration
	// Metrics receives pipeline counters. Nil disables instrumentation.
	Metrics *Metrics
}

func (c Config) withDefaults() Config {
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = DefaultMaxQueueSize
	}
	if c.NumWorkers <= 0 {
		c.NumWorkers = DefaultNumWorkers
	}
	if c.MaxSpanBatch <= 0 {
		c.MaxSpanBatch = DefaultMaxSpanBatch
	}
	if c.BatchWaitInterval <= 0 {
		c.BatchWaitInterval = DefaultBatchWaitInterval
	}
	return c
}

// Recorder decouples span production on request goroutines from delivery
// I/O. Producers enqueue with Send; a fixed pool of workers drains the queue
// in batches and passes them to the sink. Overload policy is lossy: a full
// queue drops the span and logs, so tracing never back-pressures the
// application.
type Recorder struct {
	cfg     Config
	sink    Sink
	logger  *zap.Logger
	queue   chan Span
	metrics *Metrics

	cancel  context.CancelFunc
	workers []*worker
	wg      sync.WaitGroup
	closed  atomic.Bool
}

// worker is one drain loop. Each worker is independently owned by the
// Recorder so the pool can be joined as a unit on Close.
type worker struct {
	id       int
	recorder *Recorder
}

// New creates a Recorder and starts its worker pool.
func New(sink Sink, cfg Config, logger *zap.Logger) *Recorder {
	cfg = cfg.withDefaults()

	ctx, cancel := context.WithCancel(context.Background())
	r := &Recorder{
		cfg:     cfg,
		sink:    sink,
		logger:  logger,
		queue:   make(chan Span, cfg.MaxQueueSize),
		metrics: cfg.Metrics,
		cancel:  cancel,
	}

	r.workers = make([]*worker, cfg.NumWorkers)
	for i := range r.workers {
		w := &worker{id: i, recorder: r}
		r.workers[i] = w
		r.wg.Add(1)
		go w.run(ctx)
	}

	return r
}

// Send enqueues a finished span for delivery. It never blocks: if the queue
// is at capacity or the recorder is closed, the span is dropped and the drop
// is logged. Callers must never fail because of tracing back-pressure.
func (r *Recorder) Send(span Span) {
	if r.closed.Load() {
		r.drop(span, "recorder closed")
		return
	}
	select {
	case r.queue <- span:
		r.metrics.spanEnqueued(len(r.queue))
	default:
		r.drop(span, "span queue full")
	}
}

func (r *Recorder) drop(span Span, reason string) {
	r.metrics.spanDropped()
	r.logger.Error("dropping span: "+reason,
		zap.Int("queue_size", r.cfg.MaxQueueSize),
	)
}

// Close stops the worker pool and then drains whatever remains in the queue,
// bounded by ctx. Without Close, spans queued or in flight at process exit
// are lost; that matches the engine's best-effort delivery contract.
func (r *Recorder) Close(ctx context.Context) error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	r.cancel()
	r.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		batch := r.drainBatch()
		if len(batch) == 0 {
			return nil
		}
		r.deliver(ctx, batch)
	}
}

// run is the worker loop: drain a batch and flush it immediately, or sleep
// for the idle interval when the queue was empty. Batches go out either when
// full or after the idle wait, whichever comes first.
func (w *worker) run(ctx context.Context) {
	defer w.recorder.wg.Done()

	r := w.recorder
	for {
		batch := r.drainBatch()
		if len(batch) > 0 {
			r.deliver(ctx, batch)
			continue
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(r.cfg.BatchWaitInterval):
		}
	}
}

// drainBatch pulls up to MaxSpanBatch spans without blocking, serializing
// each as it comes off the queue. Spans that fail to serialize are dropped
// with a log line; the rest of the batch is unaffected.
func (r *Recorder) drainBatch() []json.RawMessage {
	var batch []json.RawMessage
	for len(batch) < r.cfg.MaxSpanBatch {
		select {
		case span := <-r.queue:
			data, err := span.Serialize()
			if err != nil {
				r.metrics.spanDropped()
				r.logger.Error("failed to serialize span", zap.Error(err))
				continue
			}
			batch = append(batch, json.RawMessage(data))
		default:
			return batch
		}
	}
	return batch
}

func (r *Recorder) deliver(ctx context.Context, batch []json.RawMessage) {
	r.sink.Flush(ctx, batch)
	r.metrics.batchFlushed(len(batch), len(r.queue))
}
