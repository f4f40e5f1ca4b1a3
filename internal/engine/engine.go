package engine

import (
	"context"
	"image"
	"time"
)

// Image is one image input for a generation call. Exactly one field is set:
// Decoded for inline images already decoded to pixels, URL for remote
// references the engine fetches itself.
type Image struct {
	Decoded image.Image
	URL     string
}

// GenerateParams are the inputs of a single generation call.
type GenerateParams struct {
	Prompt string

	// Images is always a sequence, even for a single image.
	Images []Image

	MaxTokens   int64
	Temperature float64
}

// GenerateResult is the raw output of a generation call.
type GenerateResult struct {
	Text string `json:"text"`
}

// Engine is the opaque generation capability. Load is called exactly once at
// process start; Generate may be called from many request goroutines.
type Engine interface {
	// Load loads the model. It must be called before Generate.
	Load(ctx context.Context) error

	// Loaded reports whether Load has completed successfully.
	Loaded() bool

	// Generate runs one generation call and returns the generated text.
	// Returns ErrNotLoaded before Load completes, or a *GenerateError
	// wrapping whatever the engine failed with.
	Generate(ctx context.Context, params GenerateParams) (*GenerateResult, error)

	// Stop releases the engine.
	Stop(ctx context.Context) error
}

// Config configures the generation engine.
type Config struct {
	// ModelPath identifies the model the worker loads, e.g.
	// "mlx-community/LFM2-VL-3B-4bit".
	ModelPath string `conf:"model_path" yaml:"model_path" json:"model_path"`

	// Owner is reported as owned_by in the model listing.
	Owner string `conf:"owner" yaml:"owner" json:"owner"`

	// Command launches the worker process speaking the stdio protocol.
	Command []string `conf:"command" yaml:"command" json:"command"`

	// MaxConcurrency bounds how many generation calls may be admitted at
	// once. The worker itself runs calls one at a time; raising this only
	// makes sense with an engine that can serve multiple replicas.
	MaxConcurrency int64 `conf:"max_concurrency" yaml:"max_concurrency" json:"max_concurrency"`

	// LoadTimeout bounds how long the initial model load may take.
	LoadTimeout time.Duration `conf:"load_timeout" yaml:"load_timeout" json:"load_timeout"`
}

// New builds the default engine: a worker subprocess behind an admission gate.
func New(config Config) Engine {
	return NewGated(NewWorker(config), config.MaxConcurrency)
}
