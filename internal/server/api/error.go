package api

import (
	"github.com/gin-gonic/gin"

	"github.com/looplj/visionhub/internal/objects"
)

// JSONError returns a JSON error response and adds the error to gin context
// for access logging. The error message is carried verbatim in the detail
// field.
func JSONError(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	c.JSON(status, objects.ErrorResponse{Detail: err.Error()})
}
