package vision

import (
	"errors"

	"github.com/looplj/visionhub/llm"
)

// ErrNoImage is returned when no user message carries an image reference.
var ErrNoImage = errors.New("no image provided")

// PromptContent is the text and image reference extracted from a request.
type PromptContent struct {
	Text     string
	ImageRef string
}

// ExtractContent scans the user messages in order and folds them into one
// prompt. Plain string content replaces the accumulated text wholesale, while
// text parts inside a content array append to it. For images the last
// reference seen wins. Messages with other roles are ignored.
//
// The mixed replace/append behavior is deliberate: clients that send a final
// plain-string user message expect it to stand alone, while multipart
// messages are read as a single concatenated prompt.
func ExtractContent(messages []llm.Message) (PromptContent, error) {
	var content PromptContent

	for _, message := range messages {
		if message.Role != llm.RoleUser {
			continue
		}

		if message.Content.Content != nil {
			content.Text = *message.Content.Content
			continue
		}

		for _, part := range message.Content.MultipleContent {
			switch part.Type {
			case llm.MessageContentTypeText:
				if part.Text != nil {
					content.Text += *part.Text
				}
			case llm.MessageContentTypeImageURL:
				if part.ImageURL != nil {
					content.ImageRef = part.ImageURL.URL
				}
			}
		}
	}

	if content.ImageRef == "" {
		return PromptContent{}, ErrNoImage
	}

	return content, nil
}
