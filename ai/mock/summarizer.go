package mock

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/poiesic/lectern/ai"
)

// MockSummarizer is a test double for ai.Summarizer.
// It allows custom behavior injection via function fields.
type MockSummarizer struct {
	// SummarizeFunc is called by Summarize if set.
	// If nil, returns a canned summary naming the artifact count.
	SummarizeFunc func(ctx context.Context, artifacts []ai.Artifact) (string, error)

	callCount atomic.Int64
}

// NewMockSummarizer creates a mock summarizer with default behavior.
func NewMockSummarizer() *MockSummarizer {
	return &MockSummarizer{}
}

// Summarize returns a canned summary or delegates to SummarizeFunc.
func (m *MockSummarizer) Summarize(ctx context.Context, artifacts []ai.Artifact) (string, error) {
	m.callCount.Add(1)

	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(ctx, artifacts)
	}
	return fmt.Sprintf("mock summary of %d artifact(s)", len(artifacts)), nil
}

// CallCount returns the number of times Summarize was called.
func (m *MockSummarizer) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and custom function.
func (m *MockSummarizer) Reset() {
	m.callCount.Store(0)
	m.SummarizeFunc = nil
}
