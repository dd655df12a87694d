package config

import (
	"os"
	"strconv"
	"time"
)

// ProviderName selects which vendor Provider implementation to construct.
type ProviderName string

const (
	ProviderOpenAI     ProviderName = "openai"
	ProviderAnthropic  ProviderName = "anthropic"
	ProviderOpenRouter ProviderName = "openrouter"
)

// Config holds every tunable of spec.md §6.4. It is a plain record with no
// global mutable state, read once at process start the way the teacher's
// config.Load() reads FARUM_* env vars.
type Config struct {
	Provider    ProviderName
	TextModel   string
	VisionModel string

	OpenAIAPIKey     string
	AnthropicAPIKey  string
	OpenRouterAPIKey string

	MaxAgentIterations int
	MaxPagesPerTask    int
	MaxTasksPerPlan    int

	MaxConversationTurns int
	TurnsToSummarize     int
	TurnsToKeepFull      int

	RequestTimeout time.Duration
	RetryAttempts  int

	TemperatureClassification float64
	TemperatureReformulation  float64
	TemperatureSelection      float64
	TemperatureAnalysis       float64
	TemperatureSynthesis      float64
	TemperatureSummary        float64

	// IncludePageSummariesInSelection resolves spec.md §9's open question:
	// page summaries are shown to the page selector whenever present and
	// this flag is set (SPEC_FULL.md §10 item 2).
	IncludePageSummariesInSelection bool
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getFloatEnv(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// defaultModels mirrors the original docpixie config's per-provider model
// defaults (original_source/docpixie/core/config.py:_set_provider_defaults).
func defaultModels(provider ProviderName) (textModel, visionModel string) {
	switch provider {
	case ProviderAnthropic:
		return "claude-3-5-sonnet-latest", "claude-3-5-sonnet-latest"
	case ProviderOpenRouter:
		return "openai/gpt-4o", "openai/gpt-4o"
	default:
		return "gpt-4o", "gpt-4o"
	}
}

// Load reads configuration from the environment, applying the defaults of
// spec.md §6.4. Environment-variable parsing is the only collaborator
// this package touches directly; the core pipeline itself only ever sees
// a constructed *Config value.
func Load() *Config {
	provider := ProviderName(getEnv("DOCPIXIE_PROVIDER", string(ProviderOpenAI)))
	defaultText, defaultVision := defaultModels(provider)

	return &Config{
		Provider:    provider,
		TextModel:   getEnv("DOCPIXIE_TEXT_MODEL", defaultText),
		VisionModel: getEnv("DOCPIXIE_VISION_MODEL", defaultVision),

		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey:  getEnv("ANTHROPIC_API_KEY", ""),
		OpenRouterAPIKey: getEnv("OPENROUTER_API_KEY", ""),

		MaxAgentIterations: getIntEnv("DOCPIXIE_MAX_AGENT_ITERATIONS", 5),
		MaxPagesPerTask:    getIntEnv("DOCPIXIE_MAX_PAGES_PER_TASK", 6),
		MaxTasksPerPlan:    getIntEnv("DOCPIXIE_MAX_TASKS_PER_PLAN", 4),

		MaxConversationTurns: getIntEnv("DOCPIXIE_MAX_CONVERSATION_TURNS", 8),
		TurnsToSummarize:     getIntEnv("DOCPIXIE_TURNS_TO_SUMMARIZE", 5),
		TurnsToKeepFull:      getIntEnv("DOCPIXIE_TURNS_TO_KEEP_FULL", 3),

		RequestTimeout: time.Duration(getIntEnv("DOCPIXIE_REQUEST_TIMEOUT_SECONDS", 60)) * time.Second,
		RetryAttempts:  getIntEnv("DOCPIXIE_RETRY_ATTEMPTS", 3),

		TemperatureClassification: getFloatEnv("DOCPIXIE_TEMP_CLASSIFICATION", 0.1),
		TemperatureReformulation:  getFloatEnv("DOCPIXIE_TEMP_REFORMULATION", 0.1),
		TemperatureSelection:      getFloatEnv("DOCPIXIE_TEMP_SELECTION", 0.1),
		TemperatureAnalysis:       getFloatEnv("DOCPIXIE_TEMP_ANALYSIS", 0.3),
		TemperatureSynthesis:      getFloatEnv("DOCPIXIE_TEMP_SYNTHESIS", 0.4),
		TemperatureSummary:        getFloatEnv("DOCPIXIE_TEMP_SUMMARY", 0.2),

		IncludePageSummariesInSelection: getBoolEnv("DOCPIXIE_INCLUDE_PAGE_SUMMARIES", true),
	}
}
