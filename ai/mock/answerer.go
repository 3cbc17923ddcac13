package mock

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/poiesic/lectern/ai"
)

// MockAnswerer is a test double for ai.Answerer.
// It allows custom behavior injection via function fields and counts
// Answer and Synthesize calls separately.
type MockAnswerer struct {
	// AnswerFunc is called by Answer if set.
	// If nil, returns a canned answer naming the first artifact path.
	AnswerFunc func(ctx context.Context, query string, artifacts []ai.Artifact) (string, error)

	// SynthesizeFunc is called by Synthesize if set.
	// If nil, joins the individual answers with " / ".
	SynthesizeFunc func(ctx context.Context, query string, answers []ai.SourcedAnswer) (string, error)

	answerCount     atomic.Int64
	synthesizeCount atomic.Int64
}

// NewMockAnswerer creates a mock answerer with default behavior.
func NewMockAnswerer() *MockAnswerer {
	return &MockAnswerer{}
}

// Answer returns a canned answer or delegates to AnswerFunc.
func (m *MockAnswerer) Answer(ctx context.Context, query string, artifacts []ai.Artifact) (string, error) {
	m.answerCount.Add(1)

	if m.AnswerFunc != nil {
		return m.AnswerFunc(ctx, query, artifacts)
	}

	source := "no artifacts"
	if len(artifacts) > 0 {
		source = artifacts[0].Path
	}
	return fmt.Sprintf("mock answer from %s", source), nil
}

// Synthesize joins the answers or delegates to SynthesizeFunc.
func (m *MockAnswerer) Synthesize(ctx context.Context, query string, answers []ai.SourcedAnswer) (string, error) {
	m.synthesizeCount.Add(1)

	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, query, answers)
	}

	parts := make([]string, len(answers))
	for i, answer := range answers {
		parts[i] = answer.Answer
	}
	return strings.Join(parts, " / "), nil
}

// AnswerCallCount returns the number of times Answer was called.
func (m *MockAnswerer) AnswerCallCount() int {
	return int(m.answerCount.Load())
}

// SynthesizeCallCount returns the number of times Synthesize was called.
func (m *MockAnswerer) SynthesizeCallCount() int {
	return int(m.synthesizeCount.Load())
}

// Reset clears the call counts and custom functions.
func (m *MockAnswerer) Reset() {
	m.answerCount.Store(0)
	m.synthesizeCount.Store(0)
	m.AnswerFunc = nil
	m.SynthesizeFunc = nil
}
