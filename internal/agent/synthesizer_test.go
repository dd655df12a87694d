package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docpixie/agent/internal/domain"
	"github.com/docpixie/agent/internal/provider"
)

func completedResult(t *testing.T, name, analysis string) *domain.TaskResult {
	task, err := domain.NewAgentTask(name, "desc", "d1")
	require.NoError(t, err)
	require.NoError(t, task.Advance(domain.TaskInProgress))
	require.NoError(t, task.Advance(domain.TaskCompleted))
	return &domain.TaskResult{Task: task, Analysis: analysis}
}

func TestSynthesizeUsesModelReply(t *testing.T) {
	mock := provider.NewMock("Revenue grew 12% year over year according to the filing.")
	s := NewResponseSynthesizer(mock, 0.4)
	results := []*domain.TaskResult{completedResult(t, "find revenue", "the filing shows 12% growth")}

	got := s.Synthesize(context.Background(), "how did revenue grow", results)
	assert.Equal(t, "Revenue grew 12% year over year according to the filing.", got)
}

func TestSynthesizeFallsBackOnDegenerateReply(t *testing.T) {
	mock := provider.NewMock("too short")
	s := NewResponseSynthesizer(mock, 0.4)
	results := []*domain.TaskResult{completedResult(t, "find revenue", "the filing shows 12% growth")}

	got := s.Synthesize(context.Background(), "how did revenue grow", results)
	assert.Contains(t, got, "find revenue")
	assert.Contains(t, got, "12% growth")
}

func TestSynthesizeWithNoCompletedTasks(t *testing.T) {
	mock := provider.NewMock()
	s := NewResponseSynthesizer(mock, 0.4)

	got := s.Synthesize(context.Background(), "anything", nil)
	assert.Contains(t, got, "could not find")
	assert.Empty(t, mock.Calls())
}
