package contexts

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraceID(t *testing.T) {
	ctx := context.Background()

	_, ok := GetTraceID(ctx)
	assert.False(t, ok)

	ctx = WithTraceID(ctx, "vh-trace-1")

	traceID, ok := GetTraceID(ctx)
	assert.True(t, ok)
	assert.Equal(t, "vh-trace-1", traceID)
}

func TestRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "vh-req-1")

	requestID, ok := GetRequestID(ctx)
	assert.True(t, ok)
	assert.Equal(t, "vh-req-1", requestID)
}

func TestOperationName(t *testing.T) {
	ctx := WithOperationName(context.Background(), "POST /chat/completions")

	name, ok := GetOperationName(ctx)
	assert.True(t, ok)
	assert.Equal(t, "POST /chat/completions", name)
}

func TestContainerSharedAcrossValues(t *testing.T) {
	ctx := WithTraceID(context.Background(), "vh-trace-2")
	ctx = WithRequestID(ctx, "vh-req-2")

	traceID, ok := GetTraceID(ctx)
	assert.True(t, ok)
	assert.Equal(t, "vh-trace-2", traceID)

	requestID, ok := GetRequestID(ctx)
	assert.True(t, ok)
	assert.Equal(t, "vh-req-2", requestID)
}

func TestErrors(t *testing.T) {
	ctx := WithTraceID(context.Background(), "vh-trace-3")

	assert.Empty(t, GetErrors(ctx))

	AddError(ctx, errors.New("boom"))
	AddError(ctx, nil)

	errs := GetErrors(ctx)
	assert.Len(t, errs, 1)
	assert.EqualError(t, errs[0], "boom")
}
