package tracing

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/tracewire/tracewire/recorder"
)

// Recorder consumes finished spans for asynchronous delivery. The production
// implementation is recorder.Recorder.
type Recorder interface {
	Send(span recorder.Span)
}

// epochMicros returns the current UTC time in microseconds since the epoch.
func epochMicros() int64 {
	return time.Now().UnixMicro()
}

// observerCore holds the timing state shared by the client and server
// observers. Timestamps are set exactly once; after finish the observer is
// immutable and safe to hand to a recorder worker.
type observerCore struct {
	serviceName string
	hostname    string
	span        *Span
	recorder    Recorder
	logger      *zap.Logger
	now         func() int64

	start   int64
	end     int64
	elapsed int64

	// Reserved extension point; serialized but never populated.
	binaryAnnotations []BinaryAnnotation
}

func newObserverCore(serviceName, hostname string, span *Span, rec Recorder, logger *zap.Logger) observerCore {
	return observerCore{
		serviceName: serviceName,
		hostname:    hostname,
		span:        span,
		recorder:    rec,
		logger:      logger,
		now:         epochMicros,
	}
}

// finish captures the end timestamp and hands the observer to the recorder.
// handle is the outer observer, so the worker serializes the right variant.
// A finish without a prior start is rejected rather than emitting a record
// with a corrupt duration.
func (o *observerCore) finish(handle recorder.Span) {
	if o.start == 0 {
		o.logger.Error("span finished before start, discarding",
			zap.String("span", o.span.Name),
			zap.Uint64("trace_id", o.span.TraceID),
		)
		return
	}
	o.end = o.now()
	o.elapsed = o.end - o.start
	o.recorder.Send(handle)
}

func (o *observerCore) timeAnnotation(value string, timestamp int64) Annotation {
	return Annotation{
		Endpoint: Endpoint{
			ServiceName: o.serviceName,
			IPv4:        o.hostname,
		},
		Timestamp: timestamp,
		Value:     value,
	}
}

func (o *observerCore) record(annotations []Annotation) *Record {
	binary := o.binaryAnnotations
	if binary == nil {
		binary = []BinaryAnnotation{}
	}
	return &Record{
		TraceID:           o.span.TraceID,
		Name:              o.span.Name,
		ID:                o.span.SpanID,
		ParentID:          o.span.ParentID,
		Timestamp:         o.start,
		Duration:          o.elapsed,
		Annotations:       annotations,
		BinaryAnnotations: binary,
	}
}

// ClientSpanObserver records the client-side portion of a trace: one span
// per outbound call. On finish it tags the record with client-send at the
// start timestamp and client-receive at the end timestamp (the standard
// Zipkin orientation) and enqueues it on the recorder.
type ClientSpanObserver struct {
	observerCore
}

// NewClientSpanObserver attaches client-side recording to an outbound span.
func NewClientSpanObserver(serviceName, hostname string, span *Span, rec Recorder, logger *zap.Logger) *ClientSpanObserver {
	return &ClientSpanObserver{
		observerCore: newObserverCore(serviceName, hostname, span, rec, logger),
	}
}

// OnStart records the moment the outbound call began.
func (o *ClientSpanObserver) OnStart() {
	o.start = o.now()
}

// OnFinish records the end timestamp and enqueues the span. err is accepted
// for interface symmetry; failure tagging is reserved for binary annotations.
func (o *ClientSpanObserver) OnFinish(err error) {
	o.finish(o)
}

// Serialize renders the span in Zipkin v1 JSON. Called by a recorder worker
// at dequeue time, never on the request path.
func (o *ClientSpanObserver) Serialize() ([]byte, error) {
	annotations := []Annotation{
		o.timeAnnotation(ClientSend, o.start),
		o.timeAnnotation(ClientReceive, o.end),
	}
	return json.Marshal(o.record(annotations))
}

// ServerSpanObserver records the server-side portion of a trace: one span
// per inbound request. It is also the factory for the client observers of
// any child spans created while the request is being handled.
type ServerSpanObserver struct {
	observerCore
}

// NewServerSpanObserver attaches server-side recording to an inbound span.
func NewServerSpanObserver(serviceName, hostname string, span *Span, rec Recorder, logger *zap.Logger) *ServerSpanObserver {
	return &ServerSpanObserver{
		observerCore: newObserverCore(serviceName, hostname, span, rec, logger),
	}
}

// OnStart records the moment the request was received.
func (o *ServerSpanObserver) OnStart() {
	o.start = o.now()
}

// OnChildSpanCreated instruments an outbound child span with a client
// observer sharing this observer's service identity and recorder.
func (o *ServerSpanObserver) OnChildSpanCreated(child *Span) {
	child.Register(NewClientSpanObserver(o.serviceName, o.hostname, child, o.recorder, o.logger))
}

// OnFinish records the end timestamp and enqueues the span.
func (o *ServerSpanObserver) OnFinish(err error) {
	o.finish(o)
}

// Serialize renders the span in Zipkin v1 JSON with server-receive and
// server-send annotations.
func (o *ServerSpanObserver) Serialize() ([]byte, error) {
	annotations := []Annotation{
		o.timeAnnotation(ServerReceive, o.start),
		o.timeAnnotation(ServerSend, o.end),
	}
	return json.Marshal(o.record(annotations))
}
