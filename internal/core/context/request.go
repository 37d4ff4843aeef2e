// Package context carries the identifiers of a wizard API call: its trace,
// the matched route and the session it acts on.
package context

import "context"

// TraceContext identifies one API call across logs, spans and response headers.
type TraceContext struct {
	TraceID   string
	SpanID    string
	RequestID string
	Route     string
}

type traceContextKey struct{}

// WithTrace adds TraceContext to context.
func WithTrace(ctx context.Context, trace *TraceContext) context.Context {
	return context.WithValue(ctx, traceContextKey{}, trace)
}

// GetTrace returns TraceContext from context.
func GetTrace(ctx context.Context) *TraceContext {
	if v, ok := ctx.Value(traceContextKey{}).(*TraceContext); ok {
		return v
	}
	return nil
}

// LogFields returns the key/value pairs every log line for ctx should carry.
// Empty identifiers are left out.
func LogFields(ctx context.Context) []any {
	var kv []any
	add := func(key, value string) {
		if value != "" {
			kv = append(kv, key, value)
		}
	}
	if t := GetTrace(ctx); t != nil {
		add("trace_id", t.TraceID)
		add("request_id", t.RequestID)
		add("route", t.Route)
	}
	add("session_id", GetSessionID(ctx))
	return kv
}
