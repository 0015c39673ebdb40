package tracex

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

type traceIDKey struct{}
type spanIDKey struct{}
type simIDKey struct{}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

func TraceIDFrom(ctx context.Context) (string, bool) {
	return stringFrom(ctx, traceIDKey{})
}

func WithSpanID(ctx context.Context, spanID string) context.Context {
	return context.WithValue(ctx, spanIDKey{}, spanID)
}

func SpanIDFrom(ctx context.Context) (string, bool) {
	return stringFrom(ctx, spanIDKey{})
}

// WithSimID 把模拟实例 ID 挂到 ctx 上，日志自动带 sim_id。
func WithSimID(ctx context.Context, simID string) context.Context {
	return context.WithValue(ctx, simIDKey{}, simID)
}

func SimIDFrom(ctx context.Context) (string, bool) {
	return stringFrom(ctx, simIDKey{})
}

// EnsureTraceID 没有 trace_id 时补一个。
func EnsureTraceID(ctx context.Context) (context.Context, string) {
	if tid, ok := TraceIDFrom(ctx); ok {
		return ctx, tid
	}
	tid := NewTraceID()
	return WithTraceID(ctx, tid), tid
}

// NewTraceID 生成 32 位 hex trace_id。
func NewTraceID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func stringFrom(ctx context.Context, key any) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v := ctx.Value(key)
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}
