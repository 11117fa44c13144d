package helper

import (
	"context"
	"maps"
	"sync"

	"github.com/AntonStoeckl/library-catalog-go/catalog"
)

// TracingCollectorSpy is a test implementation of catalog.TracingCollector that records finished spans.
type TracingCollectorSpy struct {
	mu    sync.Mutex
	spans []*SpySpan
}

// SpySpan is a span captured by TracingCollectorSpy.
type SpySpan struct {
	Name     string
	Status   string
	Attrs    map[string]string
	Finished bool
}

// SetStatus implements catalog.SpanContext.
func (s *SpySpan) SetStatus(status string) {
	s.Status = status
}

// AddAttribute implements catalog.SpanContext.
func (s *SpySpan) AddAttribute(key, value string) {
	s.Attrs[key] = value
}

// NewTracingCollectorSpy creates a new TracingCollectorSpy.
func NewTracingCollectorSpy() *TracingCollectorSpy {
	return &TracingCollectorSpy{}
}

func (spy *TracingCollectorSpy) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, catalog.SpanContext) {
	span := &SpySpan{Name: name, Attrs: make(map[string]string)}
	maps.Copy(span.Attrs, attrs)

	spy.mu.Lock()
	spy.spans = append(spy.spans, span)
	spy.mu.Unlock()

	return ctx, span
}

func (spy *TracingCollectorSpy) FinishSpan(spanCtx catalog.SpanContext, status string, attrs map[string]string) {
	span, ok := spanCtx.(*SpySpan)
	if !ok {
		return
	}

	spy.mu.Lock()
	defer spy.mu.Unlock()

	span.Status = status
	maps.Copy(span.Attrs, attrs)
	span.Finished = true
}

// Spans returns the spans started so far, in order.
func (spy *TracingCollectorSpy) Spans() []*SpySpan {
	spy.mu.Lock()
	defer spy.mu.Unlock()

	return append([]*SpySpan(nil), spy.spans...)
}

var _ catalog.TracingCollector = (*TracingCollectorSpy)(nil)
