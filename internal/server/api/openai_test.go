package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/looplj/visionhub/internal/engine"
	"github.com/looplj/visionhub/internal/pkg/xcache"
	"github.com/looplj/visionhub/internal/vision"
)

type stubEngine struct {
	mu      sync.Mutex
	text    string
	err     error
	loaded  bool
	latency time.Duration
	params  []engine.GenerateParams
}

func (e *stubEngine) Load(ctx context.Context) error { return nil }

func (e *stubEngine) Loaded() bool { return e.loaded }

func (e *stubEngine) Stop(ctx context.Context) error { return nil }

func (e *stubEngine) Generate(ctx context.Context, params engine.GenerateParams) (*engine.GenerateResult, error) {
	e.mu.Lock()
	e.params = append(e.params, params)
	e.mu.Unlock()

	if e.latency > 0 {
		time.Sleep(e.latency)
	}

	if e.err != nil {
		return nil, e.err
	}

	return &engine.GenerateResult{Text: e.text}, nil
}

func newTestRouter(eng engine.Engine) *gin.Engine {
	gin.SetMode(gin.TestMode)

	engineConfig := engine.Config{
		ModelPath: "mlx-community/LFM2-VL-3B-4bit",
		Owner:     "mlx-community",
	}

	service := vision.NewService(eng, vision.NewImageResolver(xcache.Config{}), vision.NewPromptFormatter())

	openai := NewOpenAIHandlers(OpenAIHandlersParams{Vision: service, EngineConfig: engineConfig})
	system := NewSystemHandlers(SystemHandlersParams{Engine: eng})

	router := gin.New()
	router.POST("/chat/completions", openai.ChatCompletion)
	router.GET("/models", openai.ListModels)
	router.GET("/health", system.Health)

	return router
}

func postChat(t *testing.T, router *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/chat/completions", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func chatRequest(imageURL string) map[string]any {
	return map[string]any{
		"model": "mlx-community/LFM2-VL-3B-4bit",
		"messages": []map[string]any{
			{
				"role": "user",
				"content": []map[string]any{
					{"type": "text", "text": "what is in this picture"},
					{"type": "image_url", "image_url": map[string]any{"url": imageURL}},
				},
			},
		},
	}
}

func TestChatCompletion_OK(t *testing.T) {
	eng := &stubEngine{text: "a red square", loaded: true}
	router := newTestRouter(eng)

	w := postChat(t, router, chatRequest("https://example.com/cat.png"))

	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Equal(t, "chatcmpl-123", gjson.Get(body, "id").String())
	assert.Equal(t, "chat.completion", gjson.Get(body, "object").String())
	assert.EqualValues(t, 1234567890, gjson.Get(body, "created").Int())
	assert.Equal(t, "mlx-community/LFM2-VL-3B-4bit", gjson.Get(body, "model").String())
	assert.Equal(t, "a red square", gjson.Get(body, "choices.0.message.content").String())
	assert.Equal(t, "assistant", gjson.Get(body, "choices.0.message.role").String())
	assert.Equal(t, "stop", gjson.Get(body, "choices.0.finish_reason").String())
	assert.EqualValues(t, 0, gjson.Get(body, "usage.prompt_tokens").Int())
	assert.EqualValues(t, 0, gjson.Get(body, "usage.completion_tokens").Int())
	assert.EqualValues(t, 0, gjson.Get(body, "usage.total_tokens").Int())
}

func TestChatCompletion_StringContentAndDataURI(t *testing.T) {
	eng := &stubEngine{text: "pixels", loaded: true}
	router := newTestRouter(eng)

	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	body := map[string]any{
		"model": "mlx-community/LFM2-VL-3B-4bit",
		"messages": []map[string]any{
			{
				"role": "user",
				"content": []map[string]any{
					{"type": "image_url", "image_url": map[string]any{
						"url": "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
					}},
				},
			},
			{"role": "user", "content": "describe the pixel"},
		},
	}

	w := postChat(t, router, body)
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, eng.params, 1)
	params := eng.params[0]

	assert.Contains(t, params.Prompt, "<image>describe the pixel")
	require.Len(t, params.Images, 1)
	assert.NotNil(t, params.Images[0].Decoded)
}

func TestChatCompletion_NoImage(t *testing.T) {
	router := newTestRouter(&stubEngine{loaded: true})

	w := postChat(t, router, map[string]any{
		"model": "mlx-community/LFM2-VL-3B-4bit",
		"messages": []map[string]any{
			{"role": "user", "content": "describe this image"},
		},
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "no image provided", gjson.Get(w.Body.String(), "detail").String())
}

func TestChatCompletion_InvalidBase64(t *testing.T) {
	router := newTestRouter(&stubEngine{loaded: true})

	w := postChat(t, router, chatRequest("data:image/png;base64,%%%broken%%%"))

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, gjson.Get(w.Body.String(), "detail").String(), "invalid base64 image")
}

func TestChatCompletion_ModelNotLoaded(t *testing.T) {
	router := newTestRouter(&stubEngine{err: engine.ErrNotLoaded})

	w := postChat(t, router, chatRequest("https://example.com/cat.png"))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "model not loaded", gjson.Get(w.Body.String(), "detail").String())
}

func TestChatCompletion_GenerateError(t *testing.T) {
	router := newTestRouter(&stubEngine{
		loaded: true,
		err:    &engine.GenerateError{Err: assert.AnError},
	})

	w := postChat(t, router, chatRequest("https://example.com/cat.png"))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, assert.AnError.Error(), gjson.Get(w.Body.String(), "detail").String())
}

func TestChatCompletion_InvalidRequests(t *testing.T) {
	router := newTestRouter(&stubEngine{loaded: true})

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/chat/completions", bytes.NewReader([]byte("{not json")))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing model", func(t *testing.T) {
		body := chatRequest("https://example.com/cat.png")
		delete(body, "model")

		w := postChat(t, router, body)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "model is required", gjson.Get(w.Body.String(), "detail").String())
	})

	t.Run("missing messages", func(t *testing.T) {
		w := postChat(t, router, map[string]any{"model": "mlx-community/LFM2-VL-3B-4bit"})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "messages are required", gjson.Get(w.Body.String(), "detail").String())
	})

	t.Run("unknown fields are ignored", func(t *testing.T) {
		body := chatRequest("https://example.com/cat.png")
		body["stream"] = true
		body["tools"] = []string{"search"}

		w := postChat(t, router, body)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestListModels(t *testing.T) {
	router := newTestRouter(&stubEngine{loaded: true})

	req := httptest.NewRequest(http.MethodGet, "/models", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Equal(t, "list", gjson.Get(body, "object").String())
	require.EqualValues(t, 1, gjson.Get(body, "data.#").Int())
	assert.Equal(t, "mlx-community/LFM2-VL-3B-4bit", gjson.Get(body, "data.0.id").String())
	assert.Equal(t, "model", gjson.Get(body, "data.0.object").String())
	assert.Equal(t, "mlx-community", gjson.Get(body, "data.0.owned_by").String())
}

func TestHealth(t *testing.T) {
	router := newTestRouter(&stubEngine{loaded: true})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", gjson.Get(w.Body.String(), "status").String())
	assert.True(t, gjson.Get(w.Body.String(), "model_loaded").Bool())
}

func TestChatCompletion_ConcurrentRequestsAreGated(t *testing.T) {
	const (
		requests = 3
		latency  = 30 * time.Millisecond
	)

	inner := &stubEngine{text: "ok", loaded: true, latency: latency}
	router := newTestRouter(engine.NewGated(inner, 1))

	start := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < requests; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			w := postChat(t, router, chatRequest("https://example.com/cat.png"))
			assert.Equal(t, http.StatusOK, w.Code)
		}()
	}
	wg.Wait()

	assert.GreaterOrEqual(t, time.Since(start), requests*latency)
}
