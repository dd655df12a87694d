package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docpixie/agent/internal/domain"
)

func TestMockReturnsRepliesInOrder(t *testing.T) {
	m := NewMock("first", "second")

	reply, err := m.ProcessText(context.Background(), []domain.Message{domain.TextMessage(domain.RoleUser, "hi")}, 100, 0.1)
	require.NoError(t, err)
	assert.Equal(t, "first", reply)

	reply, err = m.ProcessMultimodal(context.Background(), []domain.Message{domain.TextMessage(domain.RoleUser, "hi again")}, 100, 0.1)
	require.NoError(t, err)
	assert.Equal(t, "second", reply)
}

func TestMockExhaustion(t *testing.T) {
	m := NewMock("only-one")
	_, err := m.ProcessText(context.Background(), nil, 100, 0.1)
	require.NoError(t, err)

	_, err = m.ProcessText(context.Background(), nil, 100, 0.1)
	assert.Error(t, err)
}

func TestMockWithError(t *testing.T) {
	wantErr := domain.NewProviderError(domain.KindBadRequest, "mock", nil)
	m := NewMock("unused").WithError(0, wantErr)

	_, err := m.ProcessText(context.Background(), nil, 100, 0.1)
	assert.ErrorIs(t, err, wantErr)
}

func TestMockCostReporter(t *testing.T) {
	m := NewMock("reply").WithCost(0.0042)
	_, err := m.ProcessText(context.Background(), nil, 100, 0.1)
	require.NoError(t, err)

	cost, ok := m.LastCallCost()
	assert.True(t, ok)
	assert.Equal(t, 0.0042, cost)
}

func TestMockRecordsCalls(t *testing.T) {
	m := NewMock("reply")
	messages := []domain.Message{domain.TextMessage(domain.RoleUser, "hi")}
	_, err := m.ProcessMultimodal(context.Background(), messages, 256, 0.3)
	require.NoError(t, err)

	calls := m.Calls()
	require.Len(t, calls, 1)
	assert.True(t, calls[0].Multimodal)
	assert.Equal(t, 256, calls[0].MaxTokens)
	assert.Equal(t, 0.3, calls[0].Temperature)
}
