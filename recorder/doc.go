/*
Package recorder implements the asynchronous span delivery pipeline.

# Overview

The Recorder decouples span production on request goroutines from delivery
I/O. Finished spans are enqueued onto a bounded queue; a fixed pool of
workers drains the queue in batches and hands each batch to a pluggable
sink. Serialization is lazy: the queue holds span handles, and workers
serialize at dequeue time, so the hot Send path does no encoding work.

# Overload policy

Send never blocks. When the queue is at capacity the span is dropped and the
drop logged and counted. Tracing malfunction must never surface as
application latency or errors; its only observable effect is missing spans
at the collector.

# Sinks

Two sinks ship with the package:

  - LogSink writes each span to the debug log (no collector configured)
  - RemoteSink posts JSON batches to a Zipkin-compatible collector over a
    pooled HTTP client, with a 1 second delivery timeout and no retry

# Usage

	metrics := recorder.NewMetrics(prometheus.DefaultRegisterer)
	sink := recorder.NewRemoteSink(recorder.RemoteSinkConfig{
		Endpoint: "zipkin.internal:9411",
	}, logger)

	rec := recorder.New(sink, recorder.Config{
		MaxQueueSize: 50000,
		NumWorkers:   5,
		MaxSpanBatch: 20,
		Metrics:      metrics,
	}, logger)
	defer rec.Close(context.Background())

	rec.Send(span)
*/
package recorder
