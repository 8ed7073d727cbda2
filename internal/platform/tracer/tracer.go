// Package tracer is a small tracing facade used by the record service.
// OTelTracer adapts OpenTelemetry; NoopTracer is the default when tracing
// is not configured.
package tracer

import "context"

// Span is an active trace span. End must be called exactly once.
type Span interface {
	// End completes the span. A non-nil err marks the span as failed.
	End(err error)
	SetAttributes(attrs ...Attribute)
}

// Tracer starts spans. Implementations must be safe for concurrent use.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute is a key-value pair attached to a span.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}
