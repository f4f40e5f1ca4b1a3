package vision

import (
	"strings"
	"text/template"
)

// Prompt templates are keyed by model family. The text is substituted
// verbatim, with no escaping, and every template carries exactly one image
// slot. Unknown models fall back to the default family.
const (
	defaultFamily = "lfm2-vl"

	// lfm2ChatTemplate frames the user turn in the ChatML dialect LFM2-VL
	// was trained on: the image token sits directly before the text and the
	// assistant turn is left open for the model to continue.
	lfm2ChatTemplate = "<|startoftext|><|im_start|>user\n<image>{{.Prompt}}<|im_end|>\n<|im_start|>assistant\n"
)

type promptData struct {
	Prompt string
}

// PromptFormatter renders engine prompts from user text.
type PromptFormatter struct {
	templates map[string]*template.Template
}

func NewPromptFormatter() *PromptFormatter {
	return &PromptFormatter{
		templates: map[string]*template.Template{
			defaultFamily: template.Must(template.New(defaultFamily).Parse(lfm2ChatTemplate)),
		},
	}
}

func (f *PromptFormatter) Format(model, text string) (string, error) {
	tmpl, ok := f.templates[familyOf(model)]
	if !ok {
		tmpl = f.templates[defaultFamily]
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, promptData{Prompt: text}); err != nil {
		return "", err
	}

	return sb.String(), nil
}

func familyOf(model string) string {
	if strings.Contains(strings.ToLower(model), "lfm2-vl") {
		return "lfm2-vl"
	}

	return defaultFamily
}
