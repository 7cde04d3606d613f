/*
Package tracing instruments request handling with Zipkin-compatible
distributed tracing spans.

# Overview

A Span is a named, timed unit of work identified by trace/span/parent IDs.
Observers attach to live spans, capture microsecond start and end
timestamps, and on finish serialize the span and hand it to the shared
recorder for asynchronous delivery. Nothing here blocks the request path:
all I/O happens on recorder workers.

# Observers

Two observer variants cover the two halves of a request trace:

  - ServerSpanObserver records the inbound span (server-receive and
    server-send annotations) and instruments child spans as they are created
  - ClientSpanObserver records one outbound call (client-send and
    client-receive annotations)

One server record is produced per inbound request, plus one client record
per traced outbound call.

# Usage

	tracer := tracing.New(tracing.Config{
		ServiceName:       "user-service",
		CollectorEndpoint: "zipkin.internal:9411",
	}, logger)
	defer tracer.Close(context.Background())

	// Gin integration: one server span per request
	router.Use(tracing.HTTPMiddleware(tracer))

	// Inside a handler, trace an outbound call
	span := tracing.SpanFromContext(c.Request.Context())
	child := span.NewChild("fetch-profile")
	child.Start()
	// ... outbound call ...
	child.Finish(err)

# Delivery

Finished spans flow into a bounded queue drained by a worker pool (see
package recorder). Delivery is best-effort: a full queue drops spans, a
failed delivery discards the batch, and neither ever surfaces to the
instrumented caller.
*/
package tracing
