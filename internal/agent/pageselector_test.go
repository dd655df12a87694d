package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docpixie/agent/internal/domain"
	"github.com/docpixie/agent/internal/provider"
)

func makePages(n int) []domain.Page {
	pages := make([]domain.Page, 0, n)
	for i := 1; i <= n; i++ {
		p, _ := domain.NewPage(i, domain.ImageHandle{Path: "/tmp/fake.jpg"})
		pages = append(pages, *p)
	}
	return pages
}

func TestSelectSkipsProviderWhenWithinBudget(t *testing.T) {
	mock := provider.NewMock()
	s := NewVisionPageSelector(mock, 6, true, 0.1)
	doc := &domain.Document{ID: "d1", Pages: makePages(4)}
	task, err := domain.NewAgentTask("t", "desc", "d1")
	require.NoError(t, err)

	pages, err := s.Select(context.Background(), task, doc)
	require.NoError(t, err)
	assert.Len(t, pages, 4)
	assert.Empty(t, mock.Calls())
}

func TestSelectUsesModelChoice(t *testing.T) {
	mock := provider.NewMock(`{"selected_pages": [2, 5], "reasoning": "most relevant"}`)
	s := NewVisionPageSelector(mock, 3, true, 0.1)
	doc := &domain.Document{ID: "d1", Pages: makePages(10)}
	task, err := domain.NewAgentTask("t", "desc", "d1")
	require.NoError(t, err)

	pages, err := s.Select(context.Background(), task, doc)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, 2, pages[0].PageNumber)
	assert.Equal(t, 5, pages[1].PageNumber)
}

func TestSelectFallsBackOnParseFailure(t *testing.T) {
	mock := provider.NewMock("garbage")
	s := NewVisionPageSelector(mock, 3, true, 0.1)
	doc := &domain.Document{ID: "d1", Pages: makePages(10)}
	task, err := domain.NewAgentTask("t", "desc", "d1")
	require.NoError(t, err)

	pages, err := s.Select(context.Background(), task, doc)
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, 1, pages[0].PageNumber)
	assert.Equal(t, 3, pages[2].PageNumber)
}

func TestSelectFallsBackWhenSelectionEmpty(t *testing.T) {
	mock := provider.NewMock(`{"selected_pages": [999], "reasoning": "bad indices"}`)
	s := NewVisionPageSelector(mock, 3, true, 0.1)
	doc := &domain.Document{ID: "d1", Pages: makePages(10)}
	task, err := domain.NewAgentTask("t", "desc", "d1")
	require.NoError(t, err)

	pages, err := s.Select(context.Background(), task, doc)
	require.NoError(t, err)
	require.Len(t, pages, 3)
}
