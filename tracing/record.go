package tracing

// Core Zipkin v1 annotation values.
const (
	ClientSend    = "cs"
	ClientReceive = "cr"
	ServerSend    = "ss"
	ServerReceive = "sr"
)

// Endpoint identifies the service that produced an annotation.
type Endpoint struct {
	ServiceName string `json:"serviceName"`
	IPv4        string `json:"ipv4"`
}

// Annotation is a timestamped event marker attached to a span record,
// e.g. the client-send or server-receive instant.
type Annotation struct {
	Endpoint  Endpoint `json:"endpoint"`
	Timestamp int64    `json:"timestamp"`
	Value     string   `json:"value"`
}

// BinaryAnnotation is a key/value tag without a time component.
// Reserved for request tags (URIs, status codes); not yet populated.
type BinaryAnnotation struct {
	Key      string   `json:"key"`
	Value    string   `json:"value"`
	Endpoint Endpoint `json:"endpoint"`
}

// Record is the Zipkin v1 wire form of one finished span. It is built once,
// when a worker serializes the observer that produced it, and never mutated.
type Record struct {
	TraceID uint64 `json:"traceId"`
	Name    string `json:"name"`
	ID      uint64 `json:"id"`
	// ParentID is 0 for root spans. The collector treats 0 as "no parent".
	ParentID uint64 `json:"parentId"`
	// Timestamp is the span start in microseconds since the Unix epoch, UTC.
	Timestamp int64 `json:"timestamp"`
	// Duration is the span's elapsed time in microseconds.
	Duration          int64              `json:"duration"`
	Annotations       []Annotation       `json:"annotations"`
	BinaryAnnotations []BinaryAnnotation `json:"binary_annotations"`
}
