package llm

// Request is the OpenAI-compatible chat completion request.
//
// Unknown fields (stream, tools, penalties, ...) are accepted and ignored;
// the vision pipeline only consumes the fields below.
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   *int64    `json:"max_tokens,omitempty"`
	Temperature *float64  `json:"temperature,omitempty"`
	User        string    `json:"user,omitempty"`
}
