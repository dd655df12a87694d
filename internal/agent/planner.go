package agent

import (
	"context"

	"github.com/docpixie/agent/internal/domain"
	"github.com/docpixie/agent/internal/jsonutil"
)

// TaskPlanner creates and adaptively revises a TaskPlan, grounded on
// original_source/docpixie/ai/task_planner.py's create_initial_plan and
// update_plan. The action vocabulary on the wire
// ("keep"|"modify"|"remove"|"add"|"sufficient") follows spec.md §6.3
// rather than the original's continue/add_tasks/remove_tasks/modify_tasks
// naming.
type TaskPlanner struct {
	llm             domain.Provider
	maxTasksPerPlan int
	maxTokens       int
	temperature     float64
}

func NewTaskPlanner(llm domain.Provider, maxTasksPerPlan int, temperature float64) *TaskPlanner {
	return &TaskPlanner{llm: llm, maxTasksPerPlan: maxTasksPerPlan, maxTokens: 512, temperature: temperature}
}

type taskSpec struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	DocumentID  string `json:"document_id"`
}

type initialPlanResponse struct {
	Tasks []taskSpec `json:"tasks"`
}

// CreateInitialPlan builds the first TaskPlan for query, validating every
// task's document_id against the catalog and truncating to
// maxTasksPerPlan. A provider or parse failure collapses to a single
// catch-all task against the first cataloged document, so a plan always
// has at least one task to run if any document exists.
func (p *TaskPlanner) CreateInitialPlan(ctx context.Context, query string, catalog []domain.DocumentSummary) (*domain.TaskPlan, error) {
	valid := make(map[string]bool, len(catalog))
	for _, d := range catalog {
		valid[d.ID] = true
	}

	messages := []domain.Message{
		domain.TextMessage(domain.RoleSystem, plannerSystemPrompt),
		domain.TextMessage(domain.RoleUser, plannerUserPrompt(query, catalog)),
	}

	reply, err := p.llm.ProcessText(ctx, messages, p.maxTokens, p.temperature)
	if err != nil {
		return p.fallbackPlan(query, catalog)
	}

	var parsed initialPlanResponse
	if err := jsonutil.ParseInto(reply, &parsed); err != nil {
		return p.fallbackPlan(query, catalog)
	}

	var tasks []*domain.AgentTask
	for _, spec := range parsed.Tasks {
		if !valid[spec.DocumentID] {
			continue
		}
		task, err := domain.NewAgentTask(spec.Name, spec.Description, spec.DocumentID)
		if err != nil {
			continue
		}
		tasks = append(tasks, task)
		if len(tasks) >= p.maxTasksPerPlan {
			break
		}
	}

	if len(tasks) == 0 {
		return p.fallbackPlan(query, catalog)
	}
	return domain.NewTaskPlan(query, tasks), nil
}

func (p *TaskPlanner) fallbackPlan(query string, catalog []domain.DocumentSummary) (*domain.TaskPlan, error) {
	if len(catalog) == 0 {
		return domain.NewTaskPlan(query, nil), nil
	}
	task, err := domain.NewAgentTask("review document", query, catalog[0].ID)
	if err != nil {
		return nil, err
	}
	return domain.NewTaskPlan(query, []*domain.AgentTask{task}), nil
}

type planUpdateResponse struct {
	Action string   `json:"action"`
	TaskID string   `json:"task_id"`
	Task   taskSpec `json:"task"`
}

// UpdatePlan applies the adaptive update step after a task result, per
// spec.md §4.5. A provider or parse failure is treated as "keep" — the
// plan continues unchanged rather than the query aborting. Modifications
// and removals are refused for any task whose status is no longer
// pending, resolving SPEC_FULL.md §10 open question 1.
func (p *TaskPlanner) UpdatePlan(ctx context.Context, plan *domain.TaskPlan, latest *domain.TaskResult, catalog []domain.DocumentSummary) error {
	valid := make(map[string]bool, len(catalog))
	for _, d := range catalog {
		valid[d.ID] = true
	}

	messages := []domain.Message{
		domain.TextMessage(domain.RoleSystem, planUpdateSystemPrompt),
		domain.TextMessage(domain.RoleUser, planUpdateUserPrompt(plan.InitialQuery, plan, latest, catalog)),
	}

	reply, err := p.llm.ProcessText(ctx, messages, p.maxTokens, p.temperature)
	if err != nil {
		return nil
	}

	action, ok := jsonutil.ProbeField(reply, "action")
	if !ok {
		return nil
	}

	switch action.String() {
	case "sufficient":
		plan.RemoveAllPending()
	case "remove":
		var parsed planUpdateResponse
		if err := jsonutil.ParseInto(reply, &parsed); err == nil {
			plan.RemovePending(parsed.TaskID)
		}
	case "add":
		var parsed planUpdateResponse
		if err := jsonutil.ParseInto(reply, &parsed); err == nil && valid[parsed.Task.DocumentID] {
			if len(plan.Tasks) < p.maxTasksPerPlan {
				if task, err := domain.NewAgentTask(parsed.Task.Name, parsed.Task.Description, parsed.Task.DocumentID); err == nil {
					plan.Tasks = append(plan.Tasks, task)
				}
			}
		}
	case "modify":
		var parsed planUpdateResponse
		if err := jsonutil.ParseInto(reply, &parsed); err == nil && valid[parsed.Task.DocumentID] {
			if target := plan.ByID(parsed.TaskID); target != nil && target.Status == domain.TaskPending {
				target.Name = parsed.Task.Name
				target.Description = parsed.Task.Description
				target.AssignedDocumentID = parsed.Task.DocumentID
			}
		}
	case "keep":
		// no-op
	}

	return nil
}
