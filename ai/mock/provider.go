// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package mock

import "github.com/poiesic/lectern/ai"

// MockProvider is a test double for ai.Provider.
// It aggregates mock summarizer, selector, and answerer instances.
type MockProvider struct {
	summarizer *MockSummarizer
	selector   *MockSelector
	answerer   *MockAnswerer
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns the concrete type so tests can reach the underlying mocks for
// behavior injection and call-count assertions.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		summarizer: NewMockSummarizer(),
		selector:   NewMockSelector(),
		answerer:   NewMockAnswerer(),
	}
}

// Summarizer returns the mock summarizer as the ai interface.
func (p *MockProvider) Summarizer() ai.Summarizer {
	return p.summarizer
}

// Selector returns the mock selector as the ai interface.
func (p *MockProvider) Selector() ai.Selector {
	return p.selector
}

// Answerer returns the mock answerer as the ai interface.
func (p *MockProvider) Answerer() ai.Answerer {
	return p.answerer
}

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockSummarizer returns the underlying mock summarizer for test assertions.
func (p *MockProvider) GetMockSummarizer() *MockSummarizer {
	return p.summarizer
}

// GetMockSelector returns the underlying mock selector for test assertions.
func (p *MockProvider) GetMockSelector() *MockSelector {
	return p.selector
}

// GetMockAnswerer returns the underlying mock answerer for test assertions.
func (p *MockProvider) GetMockAnswerer() *MockAnswerer {
	return p.answerer
}
