package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/looplj/visionhub/internal/log"
	"github.com/looplj/visionhub/internal/objects"
)

// Recovery converts panics into a 500 JSON response instead of tearing down
// the connection.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				ctx := c.Request.Context()
				log.Error(ctx, "panic recovered", log.Any("panic", r))

				_ = c.Error(fmt.Errorf("panic: %v", r))
				c.AbortWithStatusJSON(http.StatusInternalServerError, objects.ErrorResponse{
					Detail: "internal server error",
				})
			}
		}()

		c.Next()
	}
}
