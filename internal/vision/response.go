package vision

import (
	"github.com/samber/lo"

	"github.com/looplj/visionhub/llm"
)

// Response identifiers are fixed placeholders kept for compatibility with the
// reference server. Clients must not treat them as unique.
const (
	completionID      = "chatcmpl-123"
	completionCreated = 1234567890

	objectChatCompletion = "chat.completion"
)

// BuildResponse wraps generated text in a chat completion envelope. Usage is
// always zero: no token accounting is performed.
func BuildResponse(model, text string) *llm.Response {
	return &llm.Response{
		ID:      completionID,
		Object:  objectChatCompletion,
		Created: completionCreated,
		Model:   model,
		Choices: []llm.Choice{
			{
				Index: 0,
				Message: llm.Message{
					Role: llm.RoleAssistant,
					Content: llm.MessageContent{
						Content: lo.ToPtr(text),
					},
				},
				FinishReason: lo.ToPtr(llm.FinishReasonStop),
			},
		},
		Usage: &llm.Usage{},
	}
}
