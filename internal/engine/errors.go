package engine

import "errors"

// ErrNotLoaded is returned when generation is requested before the model
// finished loading.
var ErrNotLoaded = errors.New("model not loaded")

// GenerateError wraps any failure surfaced by the generation engine. The
// underlying message is carried verbatim to the error response.
type GenerateError struct {
	Err error
}

func (e *GenerateError) Error() string {
	return e.Err.Error()
}

func (e *GenerateError) Unwrap() error {
	return e.Err
}
