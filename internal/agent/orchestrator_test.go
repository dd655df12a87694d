package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docpixie/agent/internal/domain"
	"github.com/docpixie/agent/internal/provider"
)

type fakeStorage struct {
	docs map[string]*domain.Document
}

func newFakeStorage(docs ...*domain.Document) *fakeStorage {
	s := &fakeStorage{docs: map[string]*domain.Document{}}
	for _, d := range docs {
		s.docs[d.ID] = d
	}
	return s
}

func (s *fakeStorage) ListDocuments(ctx context.Context) ([]domain.DocumentSummary, error) {
	var out []domain.DocumentSummary
	for _, d := range s.docs {
		out = append(out, domain.DocumentSummary{ID: d.ID, Name: d.Name, Summary: d.Summary})
	}
	return out, nil
}

func (s *fakeStorage) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	d, ok := s.docs[id]
	if !ok {
		return nil, domain.ErrStorageNotFound
	}
	return d, nil
}

func buildOrchestrator(mock *provider.Mock, storage domain.Storage, maxIterations int) *Orchestrator {
	return NewOrchestrator(
		storage,
		mock,
		NewContextProcessor(mock, 8, 5, 3, 0.2),
		NewQueryReformulator(mock, 0.1),
		NewQueryClassifier(mock, 0.1),
		NewTaskPlanner(mock, 4, 0.1),
		NewTaskExecutor(mock, NewVisionPageSelector(mock, 6, true, 0.1), 0.3),
		NewResponseSynthesizer(mock, 0.4),
		maxIterations,
	)
}

func TestProcessQueryDirectAnswerShortCircuit(t *testing.T) {
	mock := provider.NewMock(`{"needs_documents": false, "reasoning": "general knowledge", "direct_answer": "Paris."}`)
	storage := newFakeStorage()
	o := buildOrchestrator(mock, storage, 5)

	result, err := o.ProcessQuery(context.Background(), "what is the capital of France", nil)
	require.NoError(t, err)
	assert.Equal(t, "Paris.", result.Answer)
	assert.Empty(t, result.TaskResults)
}

func TestProcessQueryNoDocumentsAvailable(t *testing.T) {
	mock := provider.NewMock(`{"needs_documents": true, "reasoning": "needs the filing"}`)
	storage := newFakeStorage()
	o := buildOrchestrator(mock, storage, 5)

	result, err := o.ProcessQuery(context.Background(), "what did the filing say", nil)
	require.NoError(t, err)
	assert.Contains(t, result.Answer, "no documents")
	assert.Empty(t, result.TaskResults)
}

func TestProcessQuerySingleTaskFlow(t *testing.T) {
	doc := &domain.Document{ID: "d1", Name: "10-K", Summary: "annual filing", Pages: makePages(2)}
	storage := newFakeStorage(doc)

	mock := provider.NewMock(
		`{"needs_documents": true, "reasoning": "requires the filing"}`,
		`{"tasks": [{"name": "find revenue", "description": "look up revenue", "document_id": "d1"}]}`,
		"the filing reports a 12% revenue increase",
		"Revenue increased 12% according to the filing.",
	)
	o := buildOrchestrator(mock, storage, 5)

	result, err := o.ProcessQuery(context.Background(), "how did revenue change", nil)
	require.NoError(t, err)
	require.Len(t, result.TaskResults, 1)
	assert.Equal(t, domain.TaskCompleted, result.TaskResults[0].Task.Status)
	assert.Equal(t, "Revenue increased 12% according to the filing.", result.Answer)
}

func TestProcessQueryStopsAtIterationCap(t *testing.T) {
	doc := &domain.Document{ID: "d1", Name: "10-K", Summary: "annual filing", Pages: makePages(2)}
	storage := newFakeStorage(doc)

	mock := provider.NewMock(
		`{"needs_documents": true, "reasoning": "requires the filing"}`,
		`{"tasks": [
			{"name": "t1", "description": "d", "document_id": "d1"},
			{"name": "t2", "description": "d", "document_id": "d1"}
		]}`,
		"analysis one",
		`{"action": "keep"}`,
		"analysis two",
		"final synthesized answer text",
	)
	o := buildOrchestrator(mock, storage, 1)

	result, err := o.ProcessQuery(context.Background(), "question", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Iterations)
	assert.False(t, result.Canceled)
}

func TestProcessQueryCanceledMidPlan(t *testing.T) {
	doc := &domain.Document{ID: "d1", Name: "10-K", Summary: "annual filing", Pages: makePages(2)}
	storage := newFakeStorage(doc)

	mock := provider.NewMock(
		`{"needs_documents": true, "reasoning": "requires the filing"}`,
		`{"tasks": [{"name": "t1", "description": "d", "document_id": "d1"}]}`,
	)
	o := buildOrchestrator(mock, storage, 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := o.ProcessQuery(ctx, "question", nil)
	require.NoError(t, err)
	assert.True(t, result.Canceled)
	assert.Empty(t, result.TaskResults)
}
