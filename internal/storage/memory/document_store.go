package memory

import (
	"context"
	"sync"

	"github.com/docpixie/agent/internal/domain"
)

// DocumentStore is an in-memory domain.Storage, the document-QA
// counterpart of the teacher's memory.SessionStore/MessageStore — a real
// persistent/document-processing backend is out of scope (spec.md §1),
// but the core needs *a* concrete Storage to run against.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]*domain.Document
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		docs: make(map[string]*domain.Document),
	}
}

// Put registers or replaces a document; test fixtures and the HTTP API's
// POST /documents handler populate the store with it.
func (s *DocumentStore) Put(doc *domain.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = doc
}

func (s *DocumentStore) ListDocuments(ctx context.Context) ([]domain.DocumentSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.DocumentSummary, 0, len(s.docs))
	for _, d := range s.docs {
		out = append(out, domain.DocumentSummary{ID: d.ID, Name: d.Name, Summary: d.Summary})
	}
	return out, nil
}

func (s *DocumentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, domain.ErrStorageNotFound
	}
	return doc, nil
}
