package provider

import (
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// NewOpenRouter builds an OpenAI-shaped adapter pointed at OpenRouter's
// OpenAI-compatible endpoint instead of constructing a distinct client
// type, the same "reuse the OpenAI client, swap the base URL" pattern
// original_source/docpixie/providers/openrouter.py uses. Request and
// image-content shape are otherwise identical to OpenAI's.
func NewOpenRouter(apiKey, textModel, visionModel string, attempts int) *OpenAI {
	return &OpenAI{
		client:      openai.NewClient(option.WithAPIKey(apiKey), option.WithBaseURL("https://openrouter.ai/api/v1")),
		textModel:   textModel,
		visionModel: visionModel,
		attempts:    attempts,
	}
}
