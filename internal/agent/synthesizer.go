package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/docpixie/agent/internal/domain"
)

const minSynthesisLength = 20

// ResponseSynthesizer writes the final answer from completed task
// analyses, grounded on original_source/docpixie/ai/synthesizer.py
// (synthesize_response, validate_synthesis_quality,
// _create_fallback_response — carried over per SPEC_FULL.md §9).
type ResponseSynthesizer struct {
	llm         domain.Provider
	maxTokens   int
	temperature float64
}

func NewResponseSynthesizer(llm domain.Provider, temperature float64) *ResponseSynthesizer {
	return &ResponseSynthesizer{llm: llm, maxTokens: 1024, temperature: temperature}
}

// Synthesize produces the final answer from every task result, completed
// or failed — original_source/docpixie/ai/agent.py passes all
// task_results into synthesize_response without filtering by status, so
// a failed task's FailureReason is still evidence the synthesizer (and
// its fallback) should ground an explanatory answer in, per spec.md
// §4.8 and the partial-failure scenario of spec.md §8. If the provider
// call fails, or succeeds with a degenerate (too-short) response, it
// falls back to a deterministic concatenation of each task's name and
// analysis instead of inventing prose.
func (s *ResponseSynthesizer) Synthesize(ctx context.Context, query string, results []*domain.TaskResult) string {
	if len(results) == 0 {
		return "I could not find enough information in the available documents to answer this question."
	}

	messages := []domain.Message{
		domain.TextMessage(domain.RoleSystem, synthesizerSystemPrompt),
		domain.TextMessage(domain.RoleUser, synthesizerUserPrompt(query, results)),
	}

	reply, err := s.llm.ProcessText(ctx, messages, s.maxTokens, s.temperature)
	if err != nil || !isAcceptableSynthesis(reply) {
		return fallbackSynthesis(results)
	}
	return reply
}

// isAcceptableSynthesis is the Go counterpart of validate_synthesis_quality:
// a synthesis that's too short to be a real answer is treated the same as
// a failed provider call.
func isAcceptableSynthesis(text string) bool {
	return len(strings.TrimSpace(text)) >= minSynthesisLength
}

func fallbackSynthesis(results []*domain.TaskResult) string {
	var b strings.Builder
	b.WriteString("Based on the documents reviewed:\n\n")
	for _, r := range results {
		fmt.Fprintf(&b, "- %s: %s\n", r.Task.Name, r.Analysis)
	}
	return b.String()
}
