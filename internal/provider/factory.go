package provider

import (
	"fmt"

	"github.com/docpixie/agent/internal/config"
	"github.com/docpixie/agent/internal/domain"
)

// New constructs the concrete Provider named by cfg.Provider, mirroring
// original_source/docpixie/providers/factory.py's create_provider switch.
func New(cfg *config.Config) (domain.Provider, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("provider: DOCPIXIE_PROVIDER=openai requires OPENAI_API_KEY")
		}
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.TextModel, cfg.VisionModel, cfg.RetryAttempts), nil
	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("provider: DOCPIXIE_PROVIDER=anthropic requires ANTHROPIC_API_KEY")
		}
		return NewAnthropic(cfg.AnthropicAPIKey, cfg.TextModel, cfg.VisionModel, cfg.RetryAttempts), nil
	case config.ProviderOpenRouter:
		if cfg.OpenRouterAPIKey == "" {
			return nil, fmt.Errorf("provider: DOCPIXIE_PROVIDER=openrouter requires OPENROUTER_API_KEY")
		}
		return NewOpenRouter(cfg.OpenRouterAPIKey, cfg.TextModel, cfg.VisionModel, cfg.RetryAttempts), nil
	default:
		return nil, fmt.Errorf("provider: unknown provider %q", cfg.Provider)
	}
}
