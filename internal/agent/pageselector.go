package agent

import (
	"context"
	"fmt"

	"github.com/docpixie/agent/internal/domain"
	"github.com/docpixie/agent/internal/jsonutil"
)

// VisionPageSelector picks the page images most relevant to a task,
// grounded on original_source/docpixie/ai/page_selector.py
// (VisionPageSelector.select_pages_for_task).
type VisionPageSelector struct {
	llm                    domain.Provider
	maxPagesPerTask        int
	includeSummaries       bool
	maxTokens              int
	temperature            float64
}

func NewVisionPageSelector(llm domain.Provider, maxPagesPerTask int, includeSummaries bool, temperature float64) *VisionPageSelector {
	return &VisionPageSelector{
		llm:              llm,
		maxPagesPerTask:  maxPagesPerTask,
		includeSummaries: includeSummaries,
		maxTokens:        256,
		temperature:      temperature,
	}
}

type pageSelectionResponse struct {
	SelectedPages []int  `json:"selected_pages"`
	Reasoning     string `json:"reasoning"`
}

// Select returns the pages to hand to the executor for task. If the
// document has no more pages than maxPagesPerTask, every page is used and
// no provider call happens at all (original's early-return optimization).
// On any provider or parse failure the fallback is deterministic: the
// first min(n, maxPagesPerTask) pages, never a retry (SPEC_FULL.md §10
// item 3).
func (s *VisionPageSelector) Select(ctx context.Context, task *domain.AgentTask, doc *domain.Document) ([]domain.Page, error) {
	if len(doc.Pages) <= s.maxPagesPerTask {
		return doc.Pages, nil
	}

	messages := s.buildMessages(task, doc.Pages)
	reply, err := s.llm.ProcessMultimodal(ctx, messages, s.maxTokens, s.temperature)
	if err != nil {
		return s.fallback(doc.Pages), nil
	}

	var parsed pageSelectionResponse
	if err := jsonutil.ParseInto(reply, &parsed); err != nil {
		return s.fallback(doc.Pages), nil
	}

	pages := s.resolvePages(doc.Pages, parsed.SelectedPages)
	if len(pages) == 0 {
		return s.fallback(doc.Pages), nil
	}
	return pages, nil
}

func (s *VisionPageSelector) fallback(pages []domain.Page) []domain.Page {
	n := s.maxPagesPerTask
	if n > len(pages) {
		n = len(pages)
	}
	return pages[:n]
}

// resolvePages validates each 1-based page number against the document's
// actual pages, dedupes, and truncates to maxPagesPerTask, matching
// _parse_page_selection's bounds-checking in the original.
func (s *VisionPageSelector) resolvePages(all []domain.Page, selected []int) []domain.Page {
	seen := make(map[int]bool)
	var out []domain.Page
	for _, n := range selected {
		if seen[n] {
			continue
		}
		if page, ok := findPage(all, n); ok {
			out = append(out, page)
			seen[n] = true
		}
		if len(out) >= s.maxPagesPerTask {
			break
		}
	}
	return out
}

func findPage(pages []domain.Page, number int) (domain.Page, bool) {
	for _, p := range pages {
		if p.PageNumber == number {
			return p, true
		}
	}
	return domain.Page{}, false
}

func (s *VisionPageSelector) buildMessages(task *domain.AgentTask, pages []domain.Page) []domain.Message {
	parts := []domain.Part{domain.TextPart(pageSelectorUserPrompt(task, s.maxPagesPerTask))}
	for _, p := range pages {
		label := fmt.Sprintf("[Page %d]", p.PageNumber)
		if s.includeSummaries && p.PageSummary != "" {
			label = fmt.Sprintf("%s %s", label, p.PageSummary)
		}
		parts = append(parts, domain.TextPart(label), domain.ImagePart(p.Image))
	}

	return []domain.Message{
		domain.TextMessage(domain.RoleSystem, pageSelectorSystemPrompt),
		{Role: domain.RoleUser, Content: parts},
	}
}
