package provider

import (
	"context"
	"errors"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/docpixie/agent/internal/domain"
)

// Anthropic adapts domain.Provider to the Claude Messages API (spec.md
// §6.2): the system prompt is lifted into the top-level System field
// rather than the message list, and images become base64 source blocks.
// Grounded on github.com/anthropics/anthropic-sdk-go, present in both
// GoCodeAlone-ratchet and ternarybob-quaero's dependency sets.
type Anthropic struct {
	client      anthropic.Client
	textModel   string
	visionModel string
	attempts    int
}

func NewAnthropic(apiKey, textModel, visionModel string, attempts int) *Anthropic {
	return &Anthropic{
		client:      anthropic.NewClient(option.WithAPIKey(apiKey)),
		textModel:   textModel,
		visionModel: visionModel,
		attempts:    attempts,
	}
}

// splitSystem pulls the leading system message (if any) out of messages,
// since the Claude Messages API never accepts role=system in the list
// (original_source/docpixie/providers/anthropic.py:_prepare_claude_text_messages).
func splitSystem(messages []domain.Message) (system string, rest []domain.Message) {
	if len(messages) > 0 && messages[0].Role == domain.RoleSystem {
		return flattenText(messages[0].Content), messages[1:]
	}
	return "", messages
}

func (p *Anthropic) toMessages(messages []domain.Message) ([]anthropic.MessageParam, error) {
	out := make([]anthropic.MessageParam, 0, len(messages))
	for _, m := range messages {
		blocks, err := p.toBlocks(m.Content)
		if err != nil {
			return nil, err
		}
		switch m.Role {
		case domain.RoleUser:
			out = append(out, anthropic.NewUserMessage(blocks...))
		case domain.RoleAssistant:
			out = append(out, anthropic.NewAssistantMessage(blocks...))
		default:
			return nil, errors.New("provider: anthropic adapter received a non user/assistant message after system extraction")
		}
	}
	return out, nil
}

func (p *Anthropic) toBlocks(parts []domain.Part) ([]anthropic.ContentBlockParamUnion, error) {
	out := make([]anthropic.ContentBlockParamUnion, 0, len(parts))
	for _, part := range parts {
		switch part.Kind {
		case domain.PartText:
			out = append(out, anthropic.NewTextBlock(part.Text))
		case domain.PartImage:
			encoded, err := encodeImageBase64(part.Image)
			if err != nil {
				return nil, err
			}
			out = append(out, anthropic.NewImageBlockBase64("image/jpeg", encoded))
		}
	}
	return out, nil
}

func (p *Anthropic) request(ctx context.Context, model string, messages []domain.Message, maxTokens int, temperature float64) (string, error) {
	return withRetry(ctx, "anthropic", p.attempts, func(ctx context.Context) (string, error) {
		systemPrompt, rest := splitSystem(messages)
		msgs, err := p.toMessages(rest)
		if err != nil {
			return "", domain.NewProviderError(domain.KindBadRequest, "anthropic", err)
		}

		params := anthropic.MessageNewParams{
			Model:       anthropic.Model(model),
			MaxTokens:   int64(maxTokens),
			Messages:    msgs,
			Temperature: anthropic.Float(temperature),
		}
		if systemPrompt != "" {
			params.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
		}

		resp, err := p.client.Messages.New(ctx, params)
		if err != nil {
			return "", classifyAnthropicError(err)
		}
		if len(resp.Content) == 0 {
			return "", domain.NewProviderError(domain.KindUnknown, "anthropic", errors.New("no content blocks returned"))
		}
		return resp.Content[0].Text, nil
	})
}

func (p *Anthropic) ProcessText(ctx context.Context, messages []domain.Message, maxTokens int, temperature float64) (string, error) {
	return p.request(ctx, p.textModel, messages, maxTokens, temperature)
}

func (p *Anthropic) ProcessMultimodal(ctx context.Context, messages []domain.Message, maxTokens int, temperature float64) (string, error) {
	return p.request(ctx, p.visionModel, messages, maxTokens, temperature)
}

func classifyAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 401 || apiErr.StatusCode == 403:
			return domain.NewProviderError(domain.KindAuth, "anthropic", err)
		case apiErr.StatusCode == 429:
			return domain.NewProviderError(domain.KindRateLimited, "anthropic", err)
		case apiErr.StatusCode == 408:
			return domain.NewProviderError(domain.KindTimeout, "anthropic", err)
		case apiErr.StatusCode >= 500:
			return domain.NewProviderError(domain.KindTransient, "anthropic", err)
		case apiErr.StatusCode >= 400:
			return domain.NewProviderError(domain.KindBadRequest, "anthropic", err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewProviderError(domain.KindTimeout, "anthropic", err)
	}
	if errors.Is(err, context.Canceled) {
		return domain.NewProviderError(domain.KindCanceled, "anthropic", err)
	}
	return domain.NewProviderError(domain.KindTransient, "anthropic", err)
}
