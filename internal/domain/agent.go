package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TaskStatus tracks an AgentTask through its monotonic lifecycle
// (spec.md §3: pending → in_progress → {completed, failed}).
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskFailed     TaskStatus = "failed"
)

// advanceable reports whether transitioning from `from` to `to` obeys the
// monotonic status invariant.
func advanceable(from, to TaskStatus) bool {
	switch from {
	case TaskPending:
		return to == TaskInProgress
	case TaskInProgress:
		return to == TaskCompleted || to == TaskFailed
	default:
		return false
	}
}

// AgentTask is a single focused sub-question bound to exactly one
// document.
type AgentTask struct {
	ID                 string
	Name               string
	Description        string
	AssignedDocumentID string
	Status             TaskStatus
	FailureKind        ErrorKind
	FailureReason      string
}

func NewAgentTask(name, description, documentID string) (*AgentTask, error) {
	if name == "" {
		return nil, fmt.Errorf("domain: task name cannot be empty")
	}
	if description == "" {
		return nil, fmt.Errorf("domain: task description cannot be empty")
	}
	if documentID == "" {
		return nil, fmt.Errorf("domain: task must be assigned exactly one document")
	}
	return &AgentTask{
		ID:                 uuid.NewString(),
		Name:               name,
		Description:        description,
		AssignedDocumentID: documentID,
		Status:             TaskPending,
	}, nil
}

// Advance moves the task forward one lifecycle step, rejecting any
// transition that would violate the monotonic pending→in_progress→
// {completed,failed} invariant.
func (t *AgentTask) Advance(to TaskStatus) error {
	if !advanceable(t.Status, to) {
		return fmt.Errorf("domain: task %q cannot move from %s to %s", t.Name, t.Status, to)
	}
	t.Status = to
	return nil
}

// TaskPlan is the ordered, mutable-only-at-task-boundaries collection of
// tasks for a single query.
type TaskPlan struct {
	InitialQuery     string
	Tasks            []*AgentTask
	CurrentIteration int
}

func NewTaskPlan(initialQuery string, tasks []*AgentTask) *TaskPlan {
	return &TaskPlan{InitialQuery: initialQuery, Tasks: tasks}
}

func (p *TaskPlan) NextPending() *AgentTask {
	for _, t := range p.Tasks {
		if t.Status == TaskPending {
			return t
		}
	}
	return nil
}

func (p *TaskPlan) HasPending() bool {
	return p.NextPending() != nil
}

func (p *TaskPlan) CompletedTasks() []*AgentTask {
	var out []*AgentTask
	for _, t := range p.Tasks {
		if t.Status == TaskCompleted {
			out = append(out, t)
		}
	}
	return out
}

func (p *TaskPlan) ByID(id string) *AgentTask {
	for _, t := range p.Tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// RemovePending removes a task by id, but only if it is still pending —
// completed/in-progress tasks are immutable once a plan has started
// executing (spec.md §4.5, open question #1 of SPEC_FULL.md §10).
func (p *TaskPlan) RemovePending(id string) bool {
	for i, t := range p.Tasks {
		if t.ID == id && t.Status == TaskPending {
			p.Tasks = append(p.Tasks[:i], p.Tasks[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveAllPending drops every pending task, used when the planner
// declares the plan "sufficient" (spec.md §4.5).
func (p *TaskPlan) RemoveAllPending() {
	kept := p.Tasks[:0:0]
	for _, t := range p.Tasks {
		if t.Status != TaskPending {
			kept = append(kept, t)
		}
	}
	p.Tasks = kept
}

// TaskResult is the outcome of executing a single AgentTask.
type TaskResult struct {
	Task          *AgentTask
	SelectedPages []Page
	Analysis      string
}

func (r *TaskResult) PagesAnalyzed() int {
	return len(r.SelectedPages)
}

// QueryResult is the value returned to the caller for a single
// process-query call.
type QueryResult struct {
	Query          string
	ReformulatedQuery string
	Answer         string
	SelectedPages  []Page
	TaskResults    []*TaskResult
	Iterations     int
	ProcessingTime time.Duration
	TotalCost      float64
	Canceled       bool
}
