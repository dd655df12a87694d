package agent

import (
	"context"
	"errors"
	"time"

	"github.com/docpixie/agent/internal/domain"
	"github.com/docpixie/agent/internal/observability"
)

// Orchestrator wires the seven pipeline components into the control flow
// of spec.md §4.9/§2, the way the teacher's agentflow.Orchestrator wires
// Listener → Planner → Reflector, except tasks loop adaptively instead of
// running once each.
type Orchestrator struct {
	storage domain.Storage
	// llm is the shared Provider instance behind every component below,
	// held here only so ProcessQuery can probe it for domain.CostReporter
	// (SPEC_FULL.md §9's cost accounting). The probe runs after each task
	// execution, each plan update and the synthesis step, and adds the
	// cost of the most recent call only; the calls made for context
	// summarization, reformulation, classification, initial planning and
	// page selection are not counted. Nothing else about it is used
	// directly.
	llm domain.Provider

	contextProcessor *ContextProcessor
	reformulator     *QueryReformulator
	classifier       *QueryClassifier
	planner          *TaskPlanner
	executor         *TaskExecutor
	synthesizer      *ResponseSynthesizer

	maxIterations int
}

func NewOrchestrator(
	storage domain.Storage,
	llm domain.Provider,
	contextProcessor *ContextProcessor,
	reformulator *QueryReformulator,
	classifier *QueryClassifier,
	planner *TaskPlanner,
	executor *TaskExecutor,
	synthesizer *ResponseSynthesizer,
	maxIterations int,
) *Orchestrator {
	return &Orchestrator{
		storage:          storage,
		llm:              llm,
		contextProcessor: contextProcessor,
		reformulator:     reformulator,
		classifier:       classifier,
		planner:          planner,
		executor:         executor,
		synthesizer:      synthesizer,
		maxIterations:    maxIterations,
	}
}

// ProcessQuery runs the full pipeline of spec.md §2 for a single query.
// Iteration budget exhaustion is not treated as an error (spec.md §7 item
// 7): the loop simply stops and synthesizes from whatever task results
// exist so far.
func (o *Orchestrator) ProcessQuery(ctx context.Context, query string, history []domain.ConversationMessage) (*domain.QueryResult, error) {
	start := time.Now()
	log := observability.LoggerFromContext(ctx)
	log.Info("query started", "query", query)

	processedHistory, err := o.contextProcessor.Process(ctx, history)
	if err != nil {
		return nil, err
	}

	reformulated := o.reformulator.Reformulate(ctx, processedHistory, query)
	classification := o.classifier.Classify(ctx, processedHistory, reformulated)

	if !classification.NeedsDocuments {
		log.Info("direct answer, no documents needed", "reasoning", classification.Reasoning)
		return o.directAnswerResult(query, reformulated, classification, start), nil
	}

	catalog, err := o.storage.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}
	if len(catalog) == 0 {
		log.Info("documents needed but none available")
		return o.noDocumentsResult(query, reformulated, start), nil
	}

	byID, all, err := o.loadDocuments(ctx, catalog)
	if err != nil {
		return nil, err
	}

	plan, err := o.planner.CreateInitialPlan(ctx, reformulated, catalog)
	if err != nil {
		return nil, err
	}

	var results []*domain.TaskResult
	iteration := 0
	canceled := false
	var totalCost float64

	for plan.HasPending() && iteration < o.maxIterations {
		if err := ctx.Err(); err != nil {
			canceled = true
			break
		}

		task := plan.NextPending()
		result, err := o.executor.Execute(ctx, task, byID, all)
		if err != nil {
			if errors.Is(err, domain.ErrCanceled) {
				canceled = true
				break
			}
			return nil, err
		}
		results = append(results, result)
		iteration++
		plan.CurrentIteration = iteration
		totalCost += o.lastCallCost()

		log.Info("task finished", "task", task.Name, "status", task.Status, "iteration", iteration)

		if plan.HasPending() {
			if err := o.planner.UpdatePlan(ctx, plan, result, catalog); err != nil {
				return nil, err
			}
			totalCost += o.lastCallCost()
		}
	}

	answer := o.synthesizer.Synthesize(ctx, reformulated, results)
	totalCost += o.lastCallCost()

	return &domain.QueryResult{
		Query:             query,
		ReformulatedQuery: reformulated,
		Answer:            answer,
		SelectedPages:     uniquePages(results),
		TaskResults:       results,
		Iterations:        iteration,
		ProcessingTime:    time.Since(start),
		TotalCost:         totalCost,
		Canceled:          canceled,
	}, nil
}

// lastCallCost probes the shared Provider for domain.CostReporter,
// returning 0 when the Provider doesn't implement it. Matches the
// original's "always include cost, even if 0" contract
// (original_source/docpixie/ai/agent.py:_accumulate_cost).
func (o *Orchestrator) lastCallCost() float64 {
	reporter, ok := o.llm.(domain.CostReporter)
	if !ok {
		return 0
	}
	cost, ok := reporter.LastCallCost()
	if !ok {
		return 0
	}
	return cost
}

// loadDocuments fetches every cataloged document once up front, so the
// executor's per-task document-not-found fallback can scan "all
// documents" without issuing a storage call per task.
func (o *Orchestrator) loadDocuments(ctx context.Context, catalog []domain.DocumentSummary) (map[string]*domain.Document, []*domain.Document, error) {
	byID := make(map[string]*domain.Document, len(catalog))
	all := make([]*domain.Document, 0, len(catalog))
	for _, summary := range catalog {
		doc, err := o.storage.GetDocument(ctx, summary.ID)
		if errors.Is(err, domain.ErrStorageNotFound) {
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		byID[doc.ID] = doc
		all = append(all, doc)
	}
	return byID, all, nil
}

// uniquePages computes the union of every task's selected pages
// (spec.md §3). Keyed on (document, page number), not page number alone:
// two tasks bound to different documents can each select their own
// "page 1", and those are distinct images, not duplicates.
type pageKey struct {
	documentID string
	pageNumber int
}

func uniquePages(results []*domain.TaskResult) []domain.Page {
	seen := make(map[pageKey]bool)
	var out []domain.Page
	for _, r := range results {
		for _, p := range r.SelectedPages {
			key := pageKey{documentID: r.Task.AssignedDocumentID, pageNumber: p.PageNumber}
			if !seen[key] {
				seen[key] = true
				out = append(out, p)
			}
		}
	}
	return out
}

func (o *Orchestrator) directAnswerResult(query, reformulated string, c Classification, start time.Time) *domain.QueryResult {
	answer := c.DirectAnswer
	if answer == "" {
		answer = c.Reasoning
	}
	return &domain.QueryResult{
		Query:             query,
		ReformulatedQuery: reformulated,
		Answer:            answer,
		ProcessingTime:    time.Since(start),
	}
}

func (o *Orchestrator) noDocumentsResult(query, reformulated string, start time.Time) *domain.QueryResult {
	return &domain.QueryResult{
		Query:             query,
		ReformulatedQuery: reformulated,
		Answer:            "This question needs document evidence, but no documents are available yet.",
		ProcessingTime:    time.Since(start),
	}
}
