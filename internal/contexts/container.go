package contexts

import (
	"context"
	"sync"
)

// ContextKey defines the context key type.
type ContextKey string

const (
	// containerContextKey is used to store the context container in the context.
	containerContextKey ContextKey = "context_container"
)

// contextContainer contains all request-scoped values.
type contextContainer struct {
	TraceID       *string
	RequestID     *string
	OperationName *string
	Errors        []error
	mu            sync.RWMutex
}

// getContainer retrieves the existing container from context, or creates a new one if it doesn't exist.
func getContainer(ctx context.Context) *contextContainer {
	if ctx == nil {
		return &contextContainer{}
	}

	if container, ok := ctx.Value(containerContextKey).(*contextContainer); ok {
		return container
	}

	return &contextContainer{}
}

// withContainer stores the container in the context (if not already stored).
func withContainer(ctx context.Context, container *contextContainer) context.Context {
	if ctx.Value(containerContextKey) == nil {
		return context.WithValue(ctx, containerContextKey, container)
	}

	return ctx
}
