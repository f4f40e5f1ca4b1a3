package vision

import (
	"context"

	"github.com/looplj/visionhub/internal/engine"
	"github.com/looplj/visionhub/internal/log"
	"github.com/looplj/visionhub/llm"
)

// Generation defaults applied when the request leaves them unset.
const (
	DefaultMaxTokens   = 512
	DefaultTemperature = 0.7
)

// Service runs a chat completion request through the vision pipeline:
// extract content, resolve the image, format the prompt, generate, wrap.
type Service struct {
	engine    engine.Engine
	resolver  *ImageResolver
	formatter *PromptFormatter
}

func NewService(eng engine.Engine, resolver *ImageResolver, formatter *PromptFormatter) *Service {
	return &Service{
		engine:    eng,
		resolver:  resolver,
		formatter: formatter,
	}
}

func (s *Service) ChatCompletion(ctx context.Context, request *llm.Request) (*llm.Response, error) {
	content, err := ExtractContent(request.Messages)
	if err != nil {
		return nil, err
	}

	img, err := s.resolver.Resolve(ctx, content.ImageRef)
	if err != nil {
		return nil, err
	}

	prompt, err := s.formatter.Format(request.Model, content.Text)
	if err != nil {
		return nil, err
	}

	log.Debug(ctx, "formatted prompt", log.String("prompt", prompt))

	params := engine.GenerateParams{
		Prompt: prompt,
		// The engine contract takes a sequence even for a single image.
		Images:      []engine.Image{img},
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
	}
	if request.MaxTokens != nil {
		params.MaxTokens = *request.MaxTokens
	}

	if request.Temperature != nil {
		params.Temperature = *request.Temperature
	}

	result, err := s.engine.Generate(ctx, params)
	if err != nil {
		return nil, err
	}

	log.Debug(ctx, "generation output", log.String("text", result.Text))

	return BuildResponse(request.Model, result.Text), nil
}
