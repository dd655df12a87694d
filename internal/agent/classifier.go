package agent

import (
	"context"

	"github.com/docpixie/agent/internal/domain"
	"github.com/docpixie/agent/internal/jsonutil"
)

// QueryClassifier decides whether a query needs document evidence,
// grounded on original_source/docpixie/ai/query_classifier.py. Unlike the
// original (which raises QueryClassificationError on a malformed reply),
// spec.md §7 item 4 requires failing open toward needing documents, since
// answering without evidence when evidence was in fact required is the
// worse failure mode.
type QueryClassifier struct {
	llm         domain.Provider
	maxTokens   int
	temperature float64
}

func NewQueryClassifier(llm domain.Provider, temperature float64) *QueryClassifier {
	return &QueryClassifier{llm: llm, maxTokens: 256, temperature: temperature}
}

// Classification is the classifier's verdict. DirectAnswer is only
// meaningful when NeedsDocuments is false and the model chose to answer
// immediately rather than just flagging that documents aren't needed.
type Classification struct {
	NeedsDocuments bool
	Reasoning      string
	DirectAnswer   string
}

type classifierResponse struct {
	NeedsDocuments bool   `json:"needs_documents"`
	Reasoning      string `json:"reasoning"`
	DirectAnswer   string `json:"direct_answer"`
}

func (c *QueryClassifier) Classify(ctx context.Context, history []domain.ConversationMessage, query string) Classification {
	messages := []domain.Message{
		domain.TextMessage(domain.RoleSystem, classifierSystemPrompt),
		domain.TextMessage(domain.RoleUser, classifierUserPrompt(query, formatMessages(history))),
	}

	reply, err := c.llm.ProcessText(ctx, messages, c.maxTokens, c.temperature)
	if err != nil {
		return Classification{NeedsDocuments: true, Reasoning: "provider call failed, defaulting to requiring documents"}
	}

	var parsed classifierResponse
	if err := jsonutil.ParseInto(reply, &parsed); err != nil {
		return Classification{NeedsDocuments: true, Reasoning: "could not parse classifier response, defaulting to requiring documents"}
	}

	return Classification{
		NeedsDocuments: parsed.NeedsDocuments,
		Reasoning:      parsed.Reasoning,
		DirectAnswer:   jsonutil.StringOrEmpty(parsed.DirectAnswer),
	}
}
