package tracing

import (
	"context"

	"github.com/gin-gonic/gin"
)

type contextKey struct{}

var spanKey contextKey

// ContextWithSpan returns a context carrying the given span.
func ContextWithSpan(ctx context.Context, span *Span) context.Context {
	return context.WithValue(ctx, spanKey, span)
}

// SpanFromContext returns the span carried by ctx, or nil. Handlers use it
// to create child spans for outbound calls.
func SpanFromContext(ctx context.Context) *Span {
	span, _ := ctx.Value(spanKey).(*Span)
	return span
}

// HTTPMiddleware creates Gin middleware that opens one server span per
// inbound request and finishes it after the handler chain runs. The span is
// placed on the request context so handlers can spawn child spans.
func HTTPMiddleware(tracer *Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.FullPath()
		if name == "" {
			name = c.Request.URL.Path
		}

		span := tracer.StartServerSpan(name)
		c.Request = c.Request.WithContext(ContextWithSpan(c.Request.Context(), span))

		c.Next()

		var err error
		if len(c.Errors) > 0 {
			err = c.Errors.Last()
		}
		span.Finish(err)
	}
}
