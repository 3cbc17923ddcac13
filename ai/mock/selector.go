package mock

import (
	"context"
	"sync/atomic"

	"github.com/poiesic/lectern/ai"
)

// MockSelector is a test double for ai.Selector.
// It allows custom behavior injection via function fields.
type MockSelector struct {
	// SelectFunc is called by SelectRelevant if set.
	// If nil, every item is judged relevant, in catalog order.
	SelectFunc func(ctx context.Context, query string, items []ai.ItemSummary) ([]uint64, error)

	callCount atomic.Int64
}

// NewMockSelector creates a mock selector with default behavior.
func NewMockSelector() *MockSelector {
	return &MockSelector{}
}

// SelectRelevant returns every item id or delegates to SelectFunc.
func (m *MockSelector) SelectRelevant(ctx context.Context, query string, items []ai.ItemSummary) ([]uint64, error) {
	m.callCount.Add(1)

	if m.SelectFunc != nil {
		return m.SelectFunc(ctx, query, items)
	}

	ids := make([]uint64, len(items))
	for i, item := range items {
		ids[i] = item.Id
	}
	return ids, nil
}

// CallCount returns the number of times SelectRelevant was called.
func (m *MockSelector) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and custom function.
func (m *MockSelector) Reset() {
	m.callCount.Store(0)
	m.SelectFunc = nil
}
