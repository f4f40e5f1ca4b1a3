package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// WithMetrics records a request counter and latency histogram per route. The
// instruments resolve through the global meter provider, so this is a noop
// until metrics are enabled.
func WithMetrics() gin.HandlerFunc {
	meter := otel.Meter("github.com/looplj/visionhub/internal/server")

	requests, _ := meter.Int64Counter("visionhub.requests",
		metric.WithDescription("Number of HTTP requests handled"),
	)
	latency, _ := meter.Float64Histogram("visionhub.request.duration",
		metric.WithDescription("HTTP request latency"),
		metric.WithUnit("s"),
	)

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		attrs := metric.WithAttributes(
			attribute.String("method", c.Request.Method),
			attribute.String("path", path),
			attribute.Int("status", c.Writer.Status()),
		)

		ctx := c.Request.Context()
		requests.Add(ctx, 1, attrs)
		latency.Record(ctx, time.Since(start).Seconds(), attrs)
	}
}
