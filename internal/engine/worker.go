package engine

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image/png"
	"io"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/looplj/visionhub/internal/log"
)

const defaultLoadTimeout = 10 * time.Minute

// Worker runs the model in a subprocess and talks to it over a
// newline-delimited JSON protocol on stdin/stdout. One request line gets
// exactly one response line, so a mutex serializes the exchange.
type Worker struct {
	config Config

	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	enc    *json.Encoder
	dec    *json.Decoder
	loaded atomic.Bool
}

func NewWorker(config Config) *Worker {
	return &Worker{config: config}
}

type workerRequest struct {
	Op          string        `json:"op"`
	Model       string        `json:"model,omitempty"`
	Prompt      string        `json:"prompt,omitempty"`
	Images      []workerImage `json:"images,omitempty"`
	MaxTokens   int64         `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type workerImage struct {
	URL string `json:"url,omitempty"`
	PNG string `json:"png,omitempty"`
}

type workerResponse struct {
	Text  string `json:"text"`
	Error string `json:"error"`
}

// Load starts the worker process and asks it to load the model. The call
// blocks until the worker acknowledges, bounded by LoadTimeout.
func (w *Worker) Load(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.loaded.Load() {
		return nil
	}

	if len(w.config.Command) == 0 {
		return fmt.Errorf("engine: no worker command configured")
	}

	timeout := w.config.LoadTimeout
	if timeout <= 0 {
		timeout = defaultLoadTimeout
	}

	if err := w.start(); err != nil {
		return err
	}

	log.Info(ctx, "loading model",
		log.String("model", w.config.ModelPath),
		log.Strings("command", w.config.Command),
	)

	resp, err := w.roundTrip(workerRequest{Op: "load", Model: w.config.ModelPath}, timeout)
	if err != nil {
		w.kill()
		return fmt.Errorf("engine: load model: %w", err)
	}

	if resp.Error != "" {
		w.kill()
		return fmt.Errorf("engine: load model: %s", resp.Error)
	}

	w.loaded.Store(true)
	log.Info(ctx, "model loaded", log.String("model", w.config.ModelPath))

	return nil
}

func (w *Worker) Loaded() bool {
	return w.loaded.Load()
}

// Generate sends one generation request to the worker. The call runs to
// completion once started; the context only gates entry.
func (w *Worker) Generate(ctx context.Context, params GenerateParams) (*GenerateResult, error) {
	if !w.loaded.Load() {
		return nil, ErrNotLoaded
	}

	if err := ctx.Err(); err != nil {
		return nil, &GenerateError{Err: err}
	}

	req := workerRequest{
		Op:          "generate",
		Prompt:      params.Prompt,
		MaxTokens:   params.MaxTokens,
		Temperature: params.Temperature,
	}

	for _, img := range params.Images {
		encoded, err := encodeImage(img)
		if err != nil {
			return nil, &GenerateError{Err: err}
		}

		req.Images = append(req.Images, encoded)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	resp, err := w.roundTrip(req, 0)
	if err != nil {
		return nil, &GenerateError{Err: err}
	}

	if resp.Error != "" {
		return nil, &GenerateError{Err: fmt.Errorf("%s", resp.Error)}
	}

	return &GenerateResult{Text: resp.Text}, nil
}

// Stop shuts the worker process down by closing its stdin and waiting.
func (w *Worker) Stop(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.loaded.Store(false)

	if w.cmd == nil {
		return nil
	}

	if w.stdin != nil {
		_ = w.stdin.Close()
	}

	done := make(chan error, 1)
	go func() { done <- w.cmd.Wait() }()

	select {
	case <-done:
	case <-ctx.Done():
		w.kill()
	}

	w.cmd = nil
	w.stdin = nil

	return nil
}

// start launches the subprocess and wires the JSON codec to its pipes.
// Caller holds the mutex.
func (w *Worker) start() error {
	if w.cmd != nil {
		return nil
	}

	cmd := exec.Command(w.config.Command[0], w.config.Command[1:]...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("engine: open worker stdin: %w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("engine: open worker stdout: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("engine: start worker: %w", err)
	}

	w.cmd = cmd
	w.stdin = stdin
	w.enc = json.NewEncoder(stdin)
	w.dec = json.NewDecoder(stdout)

	return nil
}

// roundTrip writes one request line and reads one response line. A zero
// timeout waits indefinitely: a running generation is never cut off.
// Caller holds the mutex.
func (w *Worker) roundTrip(req workerRequest, timeout time.Duration) (*workerResponse, error) {
	if err := w.enc.Encode(req); err != nil {
		return nil, fmt.Errorf("write worker request: %w", err)
	}

	var (
		resp workerResponse
		done = make(chan error, 1)
	)

	go func() { done <- w.dec.Decode(&resp) }()

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case err := <-done:
		if err != nil {
			return nil, fmt.Errorf("read worker response: %w", err)
		}
	case <-expired:
		return nil, fmt.Errorf("worker response timed out after %s", timeout)
	}

	return &resp, nil
}

// kill tears the subprocess down hard. Caller holds the mutex.
func (w *Worker) kill() {
	if w.cmd != nil && w.cmd.Process != nil {
		_ = w.cmd.Process.Kill()
		_ = w.cmd.Wait()
	}

	w.cmd = nil
	w.stdin = nil
	w.loaded.Store(false)
}

// encodeImage converts an image input to its wire form. Decoded pixels are
// re-encoded as PNG so the worker never sees the original payload.
func encodeImage(img Image) (workerImage, error) {
	if img.Decoded == nil {
		return workerImage{URL: img.URL}, nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img.Decoded); err != nil {
		return workerImage{}, fmt.Errorf("encode image: %w", err)
	}

	return workerImage{PNG: base64.StdEncoding.EncodeToString(buf.Bytes())}, nil
}
