package engine

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Gated wraps an Engine with a bounded admission gate so concurrent requests
// queue for a generation slot instead of racing into the engine. The inner
// worker is not safe to invoke concurrently, so the default gate size is 1;
// larger sizes are only meaningful with multiple model replicas behind the
// inner engine.
type Gated struct {
	inner Engine
	sem   *semaphore.Weighted
}

func NewGated(inner Engine, slots int64) *Gated {
	if slots <= 0 {
		slots = 1
	}

	return &Gated{
		inner: inner,
		sem:   semaphore.NewWeighted(slots),
	}
}

func (g *Gated) Load(ctx context.Context) error {
	return g.inner.Load(ctx)
}

func (g *Gated) Loaded() bool {
	return g.inner.Loaded()
}

// Generate waits for a free slot, then delegates. Waiting is cancellable;
// once admitted, the call runs to completion regardless of the caller.
func (g *Gated) Generate(ctx context.Context, params GenerateParams) (*GenerateResult, error) {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return nil, &GenerateError{Err: err}
	}
	defer g.sem.Release(1)

	return g.inner.Generate(ctx, params)
}

func (g *Gated) Stop(ctx context.Context) error {
	return g.inner.Stop(ctx)
}
