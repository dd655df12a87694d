package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/docpixie/agent/internal/domain"
)

// ContextProcessor keeps conversation history bounded by summarizing older
// turns, the way original_source/docpixie/ai/context_processor.py does
// (ContextProcessor.process_conversation_context). spec.md §4.2 is silent
// on the exact split algorithm, so the split/keep-tail behavior is carried
// over in full per SPEC_FULL.md §9.
type ContextProcessor struct {
	llm              domain.Provider
	turnsBeforeSplit int
	turnsToSummarize int
	turnsToKeepFull  int
	maxTokens        int
	temperature      float64
}

func NewContextProcessor(llm domain.Provider, turnsBeforeSplit, turnsToSummarize, turnsToKeepFull int, temperature float64) *ContextProcessor {
	return &ContextProcessor{
		llm:              llm,
		turnsBeforeSplit: turnsBeforeSplit,
		turnsToSummarize: turnsToSummarize,
		turnsToKeepFull:  turnsToKeepFull,
		maxTokens:        512,
		temperature:      temperature,
	}
}

// countTurns counts user-authored messages only, matching
// ContextProcessor._count_turns in the original.
func countTurns(history []domain.ConversationMessage) int {
	n := 0
	for _, m := range history {
		if m.Role == domain.ConversationUser {
			n++
		}
	}
	return n
}

// Process returns history unchanged if it has not yet grown past
// turnsBeforeSplit user turns. Otherwise it summarizes the oldest chunk
// and keeps the most recent turnsToKeepFull*2 messages verbatim, exactly
// as _split_messages_for_summary/_summarize_conversation_chunk do.
func (p *ContextProcessor) Process(ctx context.Context, history []domain.ConversationMessage) ([]domain.ConversationMessage, error) {
	if countTurns(history) <= p.turnsBeforeSplit {
		return history, nil
	}

	splitIdx := p.splitIndex(history)
	if splitIdx <= 0 || splitIdx >= len(history) {
		return history, nil
	}

	chunk := history[:splitIdx]
	tail := history[splitIdx:]

	keepFrom := len(tail) - p.turnsToKeepFull*2
	if keepFrom > 0 {
		chunk = append(chunk, tail[:keepFrom]...)
		tail = tail[keepFrom:]
	}

	summary, err := p.summarize(ctx, chunk)
	if err != nil {
		// Parse/provider failure here is never fatal: fall back to the
		// unmodified history rather than aborting the query.
		return history, nil //nolint:nilerr
	}

	summaryMsg, err := domain.NewConversationMessage(domain.ConversationAssistant, summary)
	if err != nil {
		return history, nil
	}
	return append([]domain.ConversationMessage{summaryMsg}, tail...), nil
}

// splitIndex finds the message boundary that ends the turnsToSummarize-th
// user turn's paired assistant reply, the same pairing walk as
// _split_messages_for_summary (steps of 2, counting only user-authored
// turns).
func (p *ContextProcessor) splitIndex(history []domain.ConversationMessage) int {
	userTurns := 0
	for i := 0; i < len(history); i += 2 {
		if history[i].Role == domain.ConversationUser {
			userTurns++
		}
		if userTurns >= p.turnsToSummarize {
			end := i + 2
			if end > len(history) {
				end = len(history)
			}
			return end
		}
	}
	return 0
}

func formatMessages(messages []domain.ConversationMessage) string {
	var b strings.Builder
	for _, m := range messages {
		fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
	}
	return b.String()
}

func (p *ContextProcessor) summarize(ctx context.Context, chunk []domain.ConversationMessage) (string, error) {
	messages := []domain.Message{
		domain.TextMessage(domain.RoleSystem, summarizerSystemPrompt),
		domain.TextMessage(domain.RoleUser, summarizerUserPrompt(formatMessages(chunk))),
	}
	return p.llm.ProcessText(ctx, messages, p.maxTokens, p.temperature)
}
