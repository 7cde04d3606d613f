package tracing

import "sync"

// SpanObserver receives lifecycle callbacks from the span it is registered on.
// OnStart must be called exactly once, before OnFinish. The err passed to
// OnFinish is the failure the observed work propagated, or nil on success.
type SpanObserver interface {
	OnStart()
	OnFinish(err error)
}

// ChildSpanObserver is implemented by observers that also instrument child
// spans created while their own span is active.
type ChildSpanObserver interface {
	OnChildSpanCreated(child *Span)
}

// Span is a named, timed unit of work within a trace. Identifiers are fixed
// at construction; observers attach via Register and are notified as the
// span moves through its lifecycle.
type Span struct {
	TraceID  uint64
	SpanID   uint64
	ParentID uint64
	Name     string

	mu        sync.Mutex
	observers []SpanObserver
}

// NewSpan creates a span with explicit identifiers. A parentID of 0 marks a
// root span.
func NewSpan(name string, traceID, spanID, parentID uint64) *Span {
	return &Span{
		TraceID:  traceID,
		SpanID:   spanID,
		ParentID: parentID,
		Name:     name,
	}
}

// NewRootSpan creates a span that begins a fresh trace.
func NewRootSpan(name string) *Span {
	return NewSpan(name, NewID(), NewID(), 0)
}

// IsRoot reports whether the span has no parent.
func (s *Span) IsRoot() bool {
	return s.ParentID == 0
}

// Register attaches an observer to the span.
func (s *Span) Register(observer SpanObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, observer)
}

// Start notifies observers that the span's work has begun.
func (s *Span) Start() {
	for _, observer := range s.snapshot() {
		observer.OnStart()
	}
}

// Finish notifies observers that the span's work completed. err carries the
// failure the work propagated, if any.
func (s *Span) Finish(err error) {
	for _, observer := range s.snapshot() {
		observer.OnFinish(err)
	}
}

// NewChild creates a span for an outbound call made while this span is
// active. Observers implementing ChildSpanObserver are given the chance to
// instrument the child before it is returned.
func (s *Span) NewChild(name string) *Span {
	child := NewSpan(name, s.TraceID, NewID(), s.SpanID)
	for _, observer := range s.snapshot() {
		if co, ok := observer.(ChildSpanObserver); ok {
			co.OnChildSpanCreated(child)
		}
	}
	return child
}

func (s *Span) snapshot() []SpanObserver {
	s.mu.Lock()
	defer s.mu.Unlock()
	observers := make([]SpanObserver, len(s.observers))
	copy(observers, s.observers)
	return observers
}
