package agent

import (
	"context"

	"github.com/docpixie/agent/internal/domain"
	"github.com/docpixie/agent/internal/jsonutil"
)

// QueryReformulator rewrites the latest question into a self-contained
// form using conversation history, grounded on
// original_source/docpixie/ai/query_reformulator.py. Unlike the original
// (which keys its JSON reply "reformulated_query"), the wire contract here
// is spec.md §6.3's "reformulated"/"changed" shape.
type QueryReformulator struct {
	llm         domain.Provider
	maxTokens   int
	temperature float64
}

func NewQueryReformulator(llm domain.Provider, temperature float64) *QueryReformulator {
	return &QueryReformulator{llm: llm, maxTokens: 256, temperature: temperature}
}

type reformulationResponse struct {
	Reformulated string `json:"reformulated"`
	Changed      bool   `json:"changed"`
}

// Reformulate returns the rewritten query, falling back to query unchanged
// on any provider or parse failure (spec.md §7 item 4: ParseError is
// always component-local).
func (r *QueryReformulator) Reformulate(ctx context.Context, history []domain.ConversationMessage, query string) string {
	if len(history) == 0 {
		return query
	}

	messages := []domain.Message{
		domain.TextMessage(domain.RoleSystem, reformulatorSystemPrompt),
		domain.TextMessage(domain.RoleUser, reformulatorUserPrompt(formatMessages(history), query)),
	}

	reply, err := r.llm.ProcessText(ctx, messages, r.maxTokens, r.temperature)
	if err != nil {
		return query
	}

	var parsed reformulationResponse
	if err := jsonutil.ParseInto(reply, &parsed); err != nil {
		return query
	}
	if jsonutil.StringOrEmpty(parsed.Reformulated) == "" {
		return query
	}
	return parsed.Reformulated
}
