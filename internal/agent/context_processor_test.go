package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docpixie/agent/internal/domain"
	"github.com/docpixie/agent/internal/provider"
)

func conv(t *testing.T, pairs ...string) []domain.ConversationMessage {
	t.Helper()
	var out []domain.ConversationMessage
	for i, content := range pairs {
		role := domain.ConversationUser
		if i%2 == 1 {
			role = domain.ConversationAssistant
		}
		out = append(out, mustMessage(t, role, content))
	}
	return out
}

func TestContextProcessorNoopBelowThreshold(t *testing.T) {
	mock := provider.NewMock()
	p := NewContextProcessor(mock, 8, 5, 3, 0.2)
	history := conv(t, "q1", "a1", "q2", "a2")

	out, err := p.Process(context.Background(), history)
	require.NoError(t, err)
	assert.Equal(t, history, out)
	assert.Empty(t, mock.Calls())
}

func TestContextProcessorSummarizesPastThreshold(t *testing.T) {
	mock := provider.NewMock("summary of the earlier turns")
	p := NewContextProcessor(mock, 2, 1, 1, 0.2)
	history := conv(t, "q1", "a1", "q2", "a2", "q3", "a3")

	out, err := p.Process(context.Background(), history)
	require.NoError(t, err)
	require.Len(t, mock.Calls(), 1)
	// the summarized chunk is replaced by one assistant message, and the
	// kept tail (turnsToKeepFull*2 = 2 messages) is preserved verbatim.
	require.Len(t, out, 3)
	assert.Equal(t, "summary of the earlier turns", out[0].Content)
	assert.Equal(t, "q3", out[1].Content)
	assert.Equal(t, "a3", out[2].Content)
}

func TestContextProcessorFallsBackOnProviderError(t *testing.T) {
	mock := provider.NewMock("").WithError(0, assertError())
	p := NewContextProcessor(mock, 2, 1, 1, 0.2)
	history := conv(t, "q1", "a1", "q2", "a2", "q3", "a3")

	out, err := p.Process(context.Background(), history)
	require.NoError(t, err)
	assert.Equal(t, history, out)
}
