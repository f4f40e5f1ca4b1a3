package llm

import (
	"encoding/json"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageContent_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected MessageContent
		wantErr  bool
	}{
		{
			name:  "string content",
			input: `"What is this logo?"`,
			expected: MessageContent{
				Content: lo.ToPtr("What is this logo?"),
			},
		},
		{
			name:  "multi-part content",
			input: `[{"type":"text","text":"Describe"},{"type":"image_url","image_url":{"url":"https://example.com/a.png"}}]`,
			expected: MessageContent{
				MultipleContent: []MessageContentPart{
					{Type: "text", Text: lo.ToPtr("Describe")},
					{Type: "image_url", ImageURL: &ImageURL{URL: "https://example.com/a.png"}},
				},
			},
		},
		{
			name:    "invalid content",
			input:   `42`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var mc MessageContent

			err := json.Unmarshal([]byte(tt.input), &mc)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, mc)
		})
	}
}

func TestMessageContent_MarshalJSON(t *testing.T) {
	t.Run("string content round trip", func(t *testing.T) {
		msg := Message{
			Role:    "user",
			Content: MessageContent{Content: lo.ToPtr("hello")},
		}

		data, err := json.Marshal(msg)
		require.NoError(t, err)
		assert.JSONEq(t, `{"role":"user","content":"hello"}`, string(data))
	})

	t.Run("parts content round trip", func(t *testing.T) {
		msg := Message{
			Role: "user",
			Content: MessageContent{
				MultipleContent: []MessageContentPart{
					{Type: "text", Text: lo.ToPtr("hi")},
				},
			},
		}

		data, err := json.Marshal(msg)
		require.NoError(t, err)
		assert.JSONEq(t, `{"role":"user","content":[{"type":"text","text":"hi"}]}`, string(data))
	})
}
