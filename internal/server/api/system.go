package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/looplj/visionhub/internal/build"
	"github.com/looplj/visionhub/internal/engine"
)

type SystemHandlersParams struct {
	fx.In

	Engine engine.Engine
}

type SystemHandlers struct {
	Engine engine.Engine
}

func NewSystemHandlers(params SystemHandlersParams) *SystemHandlers {
	return &SystemHandlers{Engine: params.Engine}
}

// Health reports liveness and whether the model is ready to serve.
func (handlers *SystemHandlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"version":      build.Version,
		"model_loaded": handlers.Engine.Loaded(),
	})
}
