package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/docpixie/agent/internal/domain"
	"github.com/docpixie/agent/internal/provider"
)

func TestReformulateReturnsQueryUnchangedWithNoHistory(t *testing.T) {
	mock := provider.NewMock()
	r := NewQueryReformulator(mock, 0.1)

	got := r.Reformulate(context.Background(), nil, "what is the revenue")
	assert.Equal(t, "what is the revenue", got)
	assert.Empty(t, mock.Calls())
}

func TestReformulateUsesModelReply(t *testing.T) {
	mock := provider.NewMock(`{"reformulated": "what was Acme's Q3 revenue", "changed": true}`)
	r := NewQueryReformulator(mock, 0.1)
	history := []domain.ConversationMessage{mustMessage(t, domain.ConversationUser, "tell me about Acme's Q3")}

	got := r.Reformulate(context.Background(), history, "what was the revenue")
	assert.Equal(t, "what was Acme's Q3 revenue", got)
}

func TestReformulateFallsBackOnParseFailure(t *testing.T) {
	mock := provider.NewMock("not json at all")
	r := NewQueryReformulator(mock, 0.1)
	history := []domain.ConversationMessage{mustMessage(t, domain.ConversationUser, "hi")}

	got := r.Reformulate(context.Background(), history, "original query")
	assert.Equal(t, "original query", got)
}

func mustMessage(t *testing.T, role domain.ConversationRole, content string) domain.ConversationMessage {
	t.Helper()
	m, err := domain.NewConversationMessage(role, content)
	if err != nil {
		t.Fatalf("mustMessage: %v", err)
	}
	return m
}
