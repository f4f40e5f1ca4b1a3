package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/looplj/visionhub/internal/engine"
	"github.com/looplj/visionhub/internal/objects"
	"github.com/looplj/visionhub/internal/pkg/xerrors"
	"github.com/looplj/visionhub/internal/vision"
	"github.com/looplj/visionhub/llm"
)

type OpenAIHandlersParams struct {
	fx.In

	Vision       *vision.Service
	EngineConfig engine.Config
}

type OpenAIHandlers struct {
	Vision       *vision.Service
	EngineConfig engine.Config
}

func NewOpenAIHandlers(params OpenAIHandlersParams) *OpenAIHandlers {
	return &OpenAIHandlers{
		Vision:       params.Vision,
		EngineConfig: params.EngineConfig,
	}
}

// ChatCompletion handles POST /chat/completions. All pipeline failures
// surface here and map to a status code; nothing below this writes to the
// response.
func (handlers *OpenAIHandlers) ChatCompletion(c *gin.Context) {
	ctx := c.Request.Context()

	var request llm.Request
	if err := c.ShouldBindJSON(&request); err != nil {
		JSONError(c, http.StatusBadRequest, err)
		return
	}

	if request.Model == "" {
		JSONError(c, http.StatusBadRequest, errors.New("model is required"))
		return
	}

	if len(request.Messages) == 0 {
		JSONError(c, http.StatusBadRequest, errors.New("messages are required"))
		return
	}

	response, err := handlers.Vision.ChatCompletion(ctx, &request)
	if err != nil {
		JSONError(c, statusFromError(err), err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ListModels handles GET /models with the single served model.
func (handlers *OpenAIHandlers) ListModels(c *gin.Context) {
	c.JSON(http.StatusOK, objects.ModelList{
		Object: "list",
		Data: []objects.Model{
			{
				ID:      handlers.EngineConfig.ModelPath,
				Object:  "model",
				Created: 1234567890,
				OwnedBy: handlers.EngineConfig.Owner,
			},
		},
	})
}

// statusFromError maps pipeline errors to HTTP statuses. Missing or
// undecodable images are the caller's fault; everything else is ours.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, vision.ErrNoImage):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrNotLoaded):
		return http.StatusInternalServerError
	}

	if _, ok := xerrors.As[*vision.DecodeError](err); ok {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}
