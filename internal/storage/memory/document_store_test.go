package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docpixie/agent/internal/domain"
)

func TestDocumentStoreRoundTrip(t *testing.T) {
	store := NewDocumentStore()
	doc := &domain.Document{ID: "d1", Name: "10-K", Summary: "annual filing"}
	store.Put(doc)

	got, err := store.GetDocument(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, doc, got)

	list, err := store.ListDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "10-K", list[0].Name)
}

func TestDocumentStoreNotFound(t *testing.T) {
	store := NewDocumentStore()
	_, err := store.GetDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrStorageNotFound)
}
