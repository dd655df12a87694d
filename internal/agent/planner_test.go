package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docpixie/agent/internal/domain"
	"github.com/docpixie/agent/internal/provider"
)

func catalog() []domain.DocumentSummary {
	return []domain.DocumentSummary{
		{ID: "d1", Name: "Annual Report", Summary: "10-K filing"},
		{ID: "d2", Name: "Slide Deck", Summary: "investor deck"},
	}
}

func TestCreateInitialPlanParsesTasks(t *testing.T) {
	mock := provider.NewMock(`{"tasks": [
		{"name": "find revenue", "description": "look up Q3 revenue", "document_id": "d1"},
		{"name": "find guidance", "description": "look up forward guidance", "document_id": "d2"}
	]}`)
	p := NewTaskPlanner(mock, 4, 0.1)

	plan, err := p.CreateInitialPlan(context.Background(), "how did Q3 go", catalog())
	require.NoError(t, err)
	require.Len(t, plan.Tasks, 2)
	assert.Equal(t, "d1", plan.Tasks[0].AssignedDocumentID)
}

func TestCreateInitialPlanDropsUnknownDocuments(t *testing.T) {
	mock := provider.NewMock(`{"tasks": [
		{"name": "bad", "description": "bad", "document_id": "unknown"},
		{"name": "good", "description": "good", "document_id": "d1"}
	]}`)
	p := NewTaskPlanner(mock, 4, 0.1)

	plan, err := p.CreateInitialPlan(context.Background(), "q", catalog())
	require.NoError(t, err)
	require.Len(t, plan.Tasks, 1)
	assert.Equal(t, "d1", plan.Tasks[0].AssignedDocumentID)
}

func TestCreateInitialPlanFallsBackOnParseFailure(t *testing.T) {
	mock := provider.NewMock("not json")
	p := NewTaskPlanner(mock, 4, 0.1)

	plan, err := p.CreateInitialPlan(context.Background(), "q", catalog())
	require.NoError(t, err)
	require.Len(t, plan.Tasks, 1)
	assert.Equal(t, "d1", plan.Tasks[0].AssignedDocumentID)
}

func TestUpdatePlanSufficientClearsPending(t *testing.T) {
	mock := provider.NewMock(`{"action": "sufficient"}`)
	p := NewTaskPlanner(mock, 4, 0.1)

	task1, _ := domain.NewAgentTask("t1", "d", "d1")
	task1.Advance(domain.TaskInProgress)
	task1.Advance(domain.TaskCompleted)
	task2, _ := domain.NewAgentTask("t2", "d", "d1")
	plan := domain.NewTaskPlan("q", []*domain.AgentTask{task1, task2})

	err := p.UpdatePlan(context.Background(), plan, &domain.TaskResult{Task: task1}, catalog())
	require.NoError(t, err)
	assert.False(t, plan.HasPending())
	assert.Len(t, plan.Tasks, 1)
}

func TestUpdatePlanRemovesPendingTask(t *testing.T) {
	task1, _ := domain.NewAgentTask("t1", "d", "d1")
	task2, _ := domain.NewAgentTask("t2", "d", "d2")
	plan := domain.NewTaskPlan("q", []*domain.AgentTask{task1, task2})

	mock := provider.NewMock(`{"action": "remove", "task_id": "` + task2.ID + `"}`)
	p := NewTaskPlanner(mock, 4, 0.1)

	err := p.UpdatePlan(context.Background(), plan, &domain.TaskResult{Task: task1}, catalog())
	require.NoError(t, err)
	require.Len(t, plan.Tasks, 1)
	assert.Equal(t, task1.ID, plan.Tasks[0].ID)
}

func TestUpdatePlanNeverModifiesNonPendingTask(t *testing.T) {
	task1, _ := domain.NewAgentTask("t1", "d", "d1")
	task1.Advance(domain.TaskInProgress)
	task1.Advance(domain.TaskCompleted)
	plan := domain.NewTaskPlan("q", []*domain.AgentTask{task1})

	mock := provider.NewMock(`{"action": "modify", "task_id": "` + task1.ID + `", "task": {"name": "changed", "description": "changed", "document_id": "d2"}}`)
	p := NewTaskPlanner(mock, 4, 0.1)

	err := p.UpdatePlan(context.Background(), plan, &domain.TaskResult{Task: task1}, catalog())
	require.NoError(t, err)
	assert.Equal(t, "t1", plan.Tasks[0].Name)
}

func TestUpdatePlanKeepsOnProviderFailure(t *testing.T) {
	task1, _ := domain.NewAgentTask("t1", "d", "d1")
	task2, _ := domain.NewAgentTask("t2", "d", "d1")
	plan := domain.NewTaskPlan("q", []*domain.AgentTask{task1, task2})

	mock := provider.NewMock("").WithError(0, assertError())
	p := NewTaskPlanner(mock, 4, 0.1)

	err := p.UpdatePlan(context.Background(), plan, &domain.TaskResult{Task: task1}, catalog())
	require.NoError(t, err)
	require.Len(t, plan.Tasks, 2)
}
