package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/docpixie/agent/internal/domain"
)

// Mock is the scripted, replay-based Provider spec.md §9 calls for: a
// sequence of canned replies consumed strictly in call order, shared by
// both ProcessText and ProcessMultimodal. Every internal/agent component
// test and the end-to-end scenarios of spec.md §8 build their fixtures
// against this instead of a real vendor.
type Mock struct {
	mu       sync.Mutex
	replies  []string
	errs     []error
	calls    []MockCall
	cost     float64
	hasCost  bool
}

// MockCall records one ProcessText/ProcessMultimodal invocation, for tests
// that want to assert on what was actually sent to the provider.
type MockCall struct {
	Multimodal  bool
	Messages    []domain.Message
	MaxTokens   int
	Temperature float64
}

// NewMock builds a Mock that returns each reply in order, one per call,
// regardless of whether the call was text or multimodal. A call made after
// the last scripted reply returns an error rather than repeating the last
// reply.
func NewMock(replies ...string) *Mock {
	return &Mock{replies: replies}
}

// WithError makes the call at position idx (0-based, in the order
// ProcessText/ProcessMultimodal is invoked) fail with err instead of
// returning a scripted reply.
func (m *Mock) WithError(idx int, err error) *Mock {
	for len(m.errs) <= idx {
		m.errs = append(m.errs, nil)
	}
	m.errs[idx] = err
	return m
}

// WithCost makes LastCallCost report cost after every call, exercising the
// optional CostReporter path (SPEC_FULL.md §9).
func (m *Mock) WithCost(cost float64) *Mock {
	m.cost = cost
	m.hasCost = true
	return m
}

func (m *Mock) next(ctx context.Context, multimodal bool, messages []domain.Message, maxTokens int, temperature float64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := len(m.calls)
	m.calls = append(m.calls, MockCall{Multimodal: multimodal, Messages: messages, MaxTokens: maxTokens, Temperature: temperature})

	if idx < len(m.errs) && m.errs[idx] != nil {
		return "", m.errs[idx]
	}
	if idx >= len(m.replies) {
		return "", fmt.Errorf("provider: mock exhausted after %d scripted replies", len(m.replies))
	}
	if err := ctx.Err(); err != nil {
		return "", domain.NewProviderError(domain.KindCanceled, "mock", err)
	}
	return m.replies[idx], nil
}

func (m *Mock) ProcessText(ctx context.Context, messages []domain.Message, maxTokens int, temperature float64) (string, error) {
	return m.next(ctx, false, messages, maxTokens, temperature)
}

func (m *Mock) ProcessMultimodal(ctx context.Context, messages []domain.Message, maxTokens int, temperature float64) (string, error) {
	return m.next(ctx, true, messages, maxTokens, temperature)
}

func (m *Mock) LastCallCost() (float64, bool) {
	return m.cost, m.hasCost
}

// Calls returns every recorded invocation, for assertions.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCall(nil), m.calls...)
}
