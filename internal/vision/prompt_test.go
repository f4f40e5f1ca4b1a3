package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_LFM2VL(t *testing.T) {
	formatter := NewPromptFormatter()

	prompt, err := formatter.Format("mlx-community/LFM2-VL-3B-4bit", "describe this image")
	require.NoError(t, err)

	assert.Equal(t, "<|startoftext|><|im_start|>user\n<image>describe this image<|im_end|>\n<|im_start|>assistant\n", prompt)
}

func TestFormat_TextSubstitutedVerbatim(t *testing.T) {
	formatter := NewPromptFormatter()

	// Markup-looking text must pass through without escaping.
	text := `what does <b>this</b> say? "quotes" & <|im_end|>`

	prompt, err := formatter.Format("mlx-community/LFM2-VL-3B-4bit", text)
	require.NoError(t, err)

	assert.Contains(t, prompt, text)
}

func TestFormat_UnknownModelFallsBack(t *testing.T) {
	formatter := NewPromptFormatter()

	known, err := formatter.Format("mlx-community/LFM2-VL-3B-4bit", "hello")
	require.NoError(t, err)

	unknown, err := formatter.Format("some/other-model", "hello")
	require.NoError(t, err)

	assert.Equal(t, known, unknown)
}
