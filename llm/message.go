package llm

import (
	"encoding/json"
	"fmt"
)

const (
	MessageContentTypeText     = "text"
	MessageContentTypeImageURL = "image_url"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single chat message in OpenAI-compatible format.
type Message struct {
	Role    string         `json:"role"`
	Content MessageContent `json:"content"`
	Name    *string        `json:"name,omitempty"`
}

// MessageContent models the OpenAI content union: either a plain string or an
// ordered list of typed parts. Exactly one of Content and MultipleContent is
// set after a successful unmarshal.
type MessageContent struct {
	Content         *string
	MultipleContent []MessageContentPart
}

func (mc MessageContent) MarshalJSON() ([]byte, error) {
	if mc.Content != nil {
		return json.Marshal(*mc.Content)
	}

	if mc.MultipleContent != nil {
		return json.Marshal(mc.MultipleContent)
	}

	return []byte("null"), nil
}

func (mc *MessageContent) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		mc.Content = &str
		mc.MultipleContent = nil

		return nil
	}

	var parts []MessageContentPart
	if err := json.Unmarshal(data, &parts); err == nil {
		mc.Content = nil
		mc.MultipleContent = parts

		return nil
	}

	return fmt.Errorf("message content must be a string or an array of content parts")
}

// MessageContentPart is a single typed part of a multi-part message content.
// Type is "text" or "image_url"; the matching pointer field is set.
type MessageContentPart struct {
	Type     string    `json:"type"`
	Text     *string   `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL carries an image reference: a remote URL or a data URI of the form
// data:<mime-type>;base64,<payload>.
type ImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}
