package agent

import (
	"context"
	"errors"

	"github.com/docpixie/agent/internal/domain"
	"github.com/docpixie/agent/internal/observability"
)

// TaskExecutor runs the vision page selector for a single task and then
// asks the Provider to analyze the selected pages, grounded on
// original_source/docpixie/ai/agent.py's _execute_single_task and
// _analyze_pages_for_task.
type TaskExecutor struct {
	llm         domain.Provider
	selector    *VisionPageSelector
	maxTokens   int
	temperature float64
}

func NewTaskExecutor(llm domain.Provider, selector *VisionPageSelector, temperature float64) *TaskExecutor {
	return &TaskExecutor{llm: llm, selector: selector, maxTokens: 1024, temperature: temperature}
}

// resolveDocument implements the per-task document-not-found fallback of
// SPEC_FULL.md §9: if the task's assigned document can't be found, fall
// back to scanning every known document's pages rather than failing the
// task outright. The fallback only fails the task when there is truly
// nothing to look at.
func resolveDocument(task *domain.AgentTask, byID map[string]*domain.Document, all []*domain.Document) (*domain.Document, bool) {
	if doc, ok := byID[task.AssignedDocumentID]; ok {
		return doc, true
	}
	if len(all) == 0 {
		return nil, false
	}
	merged := &domain.Document{ID: "all-documents", Name: "all documents"}
	for _, d := range all {
		merged.Pages = append(merged.Pages, d.Pages...)
	}
	if len(merged.Pages) == 0 {
		return nil, false
	}
	return merged, true
}

// Execute advances task to in_progress, runs page selection and analysis,
// and advances it to completed or failed. It never returns an error for a
// failure that should only fail the task — only for cases the caller must
// abort on (context cancellation).
func (e *TaskExecutor) Execute(ctx context.Context, task *domain.AgentTask, byID map[string]*domain.Document, all []*domain.Document) (*domain.TaskResult, error) {
	log := observability.LoggerFromContext(ctx).With("task", task.Name)

	if err := ctx.Err(); err != nil {
		return nil, domain.ErrCanceled
	}

	if err := task.Advance(domain.TaskInProgress); err != nil {
		return nil, err
	}

	doc, ok := resolveDocument(task, byID, all)
	if !ok {
		log.Warn("task has no resolvable document and no fallback pages")
		return e.fail(task, domain.KindBadRequest, "no document available for this task")
	}

	pages, err := e.selector.Select(ctx, task, doc)
	if err != nil {
		return e.failFromError(task, err)
	}
	log.Info("pages selected", "count", len(pages))

	analysis, err := e.analyze(ctx, task, pages)
	if err != nil {
		return e.failFromError(task, err)
	}

	if err := task.Advance(domain.TaskCompleted); err != nil {
		return nil, err
	}
	return &domain.TaskResult{Task: task, SelectedPages: pages, Analysis: analysis}, nil
}

func (e *TaskExecutor) analyze(ctx context.Context, task *domain.AgentTask, pages []domain.Page) (string, error) {
	parts := []domain.Part{domain.TextPart(executorUserPrompt(task))}
	for _, p := range pages {
		parts = append(parts, domain.ImagePart(p.Image))
	}
	messages := []domain.Message{
		domain.TextMessage(domain.RoleSystem, executorSystemPrompt),
		{Role: domain.RoleUser, Content: parts},
	}
	return e.llm.ProcessMultimodal(ctx, messages, e.maxTokens, e.temperature)
}

func (e *TaskExecutor) fail(task *domain.AgentTask, kind domain.ErrorKind, reason string) (*domain.TaskResult, error) {
	task.FailureKind = kind
	task.FailureReason = reason
	if err := task.Advance(domain.TaskFailed); err != nil {
		return nil, err
	}
	return &domain.TaskResult{Task: task, Analysis: reason}, nil
}

func (e *TaskExecutor) failFromError(task *domain.AgentTask, err error) (*domain.TaskResult, error) {
	if errors.Is(err, domain.ErrCanceled) {
		return nil, err
	}
	var perr *domain.ProviderError
	if errors.As(err, &perr) {
		return e.fail(task, perr.Kind, perr.Error())
	}
	return e.fail(task, domain.KindUnknown, err.Error())
}
