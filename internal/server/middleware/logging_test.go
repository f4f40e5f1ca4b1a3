package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/looplj/visionhub/internal/tracing"
)

func TestWithLoggingTracing(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("generates trace and request IDs", func(t *testing.T) {
		router := gin.New()
		router.Use(WithLoggingTracing(tracing.Config{}))

		var gotTrace, gotRequest string

		router.GET("/ping", func(c *gin.Context) {
			ctx := c.Request.Context()
			gotTrace, _ = tracing.GetTraceID(ctx)
			gotRequest, _ = tracing.GetRequestID(ctx)
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.True(t, len(gotTrace) > 0)
		assert.Contains(t, gotTrace, "vh-")
		assert.Contains(t, gotRequest, "vhr-")
		assert.Equal(t, gotRequest, w.Header().Get("VH-Request-Id"))
	})

	t.Run("honors incoming trace header", func(t *testing.T) {
		router := gin.New()
		router.Use(WithLoggingTracing(tracing.Config{TraceHeader: "X-Trace"}))

		var gotTrace string

		router.GET("/ping", func(c *gin.Context) {
			gotTrace, _ = tracing.GetTraceID(c.Request.Context())
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Trace", "upstream-trace")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, "upstream-trace", gotTrace)
	})

	t.Run("records the operation name", func(t *testing.T) {
		router := gin.New()
		router.Use(WithLoggingTracing(tracing.Config{}))

		var gotOp string

		router.POST("/chat/completions", func(c *gin.Context) {
			gotOp, _ = tracing.GetOperationName(c.Request.Context())
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodPost, "/chat/completions", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "POST /chat/completions", gotOp)
	})
}
