package tracing

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/looplj/visionhub/internal/contexts"
)

type Config struct {
	TraceHeader   string `conf:"trace_header"   yaml:"trace_header"   json:"trace_header"`
	RequestHeader string `conf:"request_header" yaml:"request_header" json:"request_header"`
}

// GenerateTraceID generates a trace id, formatted as vh-{{uuid}}.
func GenerateTraceID() string {
	return fmt.Sprintf("vh-%s", uuid.New().String())
}

// GenerateRequestID generates a request id, formatted as vhr-{{uuid}}.
func GenerateRequestID() string {
	return fmt.Sprintf("vhr-%s", uuid.New().String())
}

// WithTraceID stores the trace id to the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return contexts.WithTraceID(ctx, traceID)
}

// GetTraceID gets the trace id from the context.
func GetTraceID(ctx context.Context) (string, bool) {
	return contexts.GetTraceID(ctx)
}

// WithRequestID stores the request id to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return contexts.WithRequestID(ctx, requestID)
}

// GetRequestID gets the request id from the context.
func GetRequestID(ctx context.Context) (string, bool) {
	return contexts.GetRequestID(ctx)
}

// WithOperationName stores the operation name to the context.
func WithOperationName(ctx context.Context, name string) context.Context {
	return contexts.WithOperationName(ctx, name)
}

// GetOperationName gets the operation name from the context.
func GetOperationName(ctx context.Context) (string, bool) {
	return contexts.GetOperationName(ctx)
}
