package provider

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/docpixie/agent/internal/domain"
)

// OpenAI adapts domain.Provider to the OpenAI Chat Completions wire format
// (spec.md §6.2): system messages carried as a normal role=system entry,
// images inlined as image_url parts with a data:image/jpeg;base64,... URL.
// Grounded on the official SDK present in the corpus's ratchet dependency
// set (github.com/openai/openai-go).
type OpenAI struct {
	client      openai.Client
	textModel   string
	visionModel string
	attempts    int
}

func NewOpenAI(apiKey, textModel, visionModel string, attempts int) *OpenAI {
	return &OpenAI{
		client:      openai.NewClient(option.WithAPIKey(apiKey)),
		textModel:   textModel,
		visionModel: visionModel,
		attempts:    attempts,
	}
}

func (p *OpenAI) toMessages(messages []domain.Message) ([]openai.ChatCompletionMessageParamUnion, error) {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case domain.RoleSystem:
			out = append(out, openai.SystemMessage(flattenText(m.Content)))
		case domain.RoleAssistant:
			out = append(out, openai.AssistantMessage(flattenText(m.Content)))
		case domain.RoleUser:
			parts, err := p.toContentParts(m.Content)
			if err != nil {
				return nil, err
			}
			out = append(out, openai.UserMessage(parts))
		default:
			return nil, errors.New("provider: openai adapter received unknown message role")
		}
	}
	return out, nil
}

func (p *OpenAI) toContentParts(parts []domain.Part) ([]openai.ChatCompletionContentPartUnionParam, error) {
	out := make([]openai.ChatCompletionContentPartUnionParam, 0, len(parts))
	for _, part := range parts {
		switch part.Kind {
		case domain.PartText:
			out = append(out, openai.TextContentPart(part.Text))
		case domain.PartImage:
			url := part.Image.URL
			if url == "" {
				var err error
				url, err = dataURL(part.Image)
				if err != nil {
					return nil, err
				}
			}
			out = append(out, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
				URL:    url,
				Detail: "low",
			}))
		}
	}
	return out, nil
}

func flattenText(parts []domain.Part) string {
	var s string
	for _, p := range parts {
		if p.Kind == domain.PartText {
			if s != "" {
				s += "\n"
			}
			s += p.Text
		}
	}
	return s
}

func (p *OpenAI) request(ctx context.Context, model string, messages []domain.Message, maxTokens int, temperature float64) (string, error) {
	return withRetry(ctx, "openai", p.attempts, func(ctx context.Context) (string, error) {
		msgs, err := p.toMessages(messages)
		if err != nil {
			return "", domain.NewProviderError(domain.KindBadRequest, "openai", err)
		}

		resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model:       model,
			Messages:    msgs,
			MaxTokens:   openai.Int(int64(maxTokens)),
			Temperature: openai.Float(temperature),
		})
		if err != nil {
			return "", classifyOpenAIError(err)
		}
		if len(resp.Choices) == 0 {
			return "", domain.NewProviderError(domain.KindUnknown, "openai", errors.New("no choices returned"))
		}
		return resp.Choices[0].Message.Content, nil
	})
}

func (p *OpenAI) ProcessText(ctx context.Context, messages []domain.Message, maxTokens int, temperature float64) (string, error) {
	return p.request(ctx, p.textModel, messages, maxTokens, temperature)
}

func (p *OpenAI) ProcessMultimodal(ctx context.Context, messages []domain.Message, maxTokens int, temperature float64) (string, error) {
	return p.request(ctx, p.visionModel, messages, maxTokens, temperature)
}

// classifyOpenAIError maps the SDK's error type onto domain.ErrorKind.
// openai-go surfaces HTTP-level failures as *openai.Error carrying the
// response status code.
func classifyOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 401 || apiErr.StatusCode == 403:
			return domain.NewProviderError(domain.KindAuth, "openai", err)
		case apiErr.StatusCode == 429:
			return domain.NewProviderError(domain.KindRateLimited, "openai", err)
		case apiErr.StatusCode == 408:
			return domain.NewProviderError(domain.KindTimeout, "openai", err)
		case apiErr.StatusCode >= 500:
			return domain.NewProviderError(domain.KindTransient, "openai", err)
		case apiErr.StatusCode >= 400:
			return domain.NewProviderError(domain.KindBadRequest, "openai", err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewProviderError(domain.KindTimeout, "openai", err)
	}
	if errors.Is(err, context.Canceled) {
		return domain.NewProviderError(domain.KindCanceled, "openai", err)
	}
	return domain.NewProviderError(domain.KindTransient, "openai", err)
}
