package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/looplj/visionhub/internal/tracing"
)

// WithLoggingTracing saves the trace ID and request ID to the request context
// so later logs carry them.
func WithLoggingTracing(config tracing.Config) gin.HandlerFunc {
	traceHeader := config.TraceHeader
	if traceHeader == "" {
		traceHeader = "VH-Trace-Id"
	}

	requestHeader := config.RequestHeader
	if requestHeader == "" {
		requestHeader = "VH-Request-Id"
	}

	return func(c *gin.Context) {
		// Use the trace header from the request first.
		traceID := c.GetHeader(traceHeader)
		if traceID == "" {
			traceID = tracing.GenerateTraceID()
		}

		// Generate request ID for each request
		requestID := tracing.GenerateRequestID()

		// Set request ID header in response
		c.Header(requestHeader, requestID)

		ctx := tracing.WithTraceID(c.Request.Context(), traceID)
		ctx = tracing.WithRequestID(ctx, requestID)

		operationName := fmt.Sprintf("%s %s", c.Request.Method, c.FullPath())
		ctx = tracing.WithOperationName(ctx, operationName)

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
