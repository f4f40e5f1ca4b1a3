package log

import (
	"context"

	"github.com/looplj/visionhub/internal/tracing"
)

// Hook derives extra fields from the context for every log entry.
type Hook interface {
	Apply(ctx context.Context, msg string) []Field
}

// HookFunc adapts a function to the Hook interface.
type HookFunc func(ctx context.Context, msg string) []Field

func (f HookFunc) Apply(ctx context.Context, msg string) []Field {
	return f(ctx, msg)
}

// traceFields attaches trace_id, request_id and operation_name when present.
func traceFields(ctx context.Context, _ string) []Field {
	if ctx == nil {
		return nil
	}

	var fields []Field

	if traceID, ok := tracing.GetTraceID(ctx); ok {
		fields = append(fields, String("trace_id", traceID))
	}

	if requestID, ok := tracing.GetRequestID(ctx); ok {
		fields = append(fields, String("request_id", requestID))
	}

	if name, ok := tracing.GetOperationName(ctx); ok {
		fields = append(fields, String("operation_name", name))
	}

	return fields
}
