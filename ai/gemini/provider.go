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


package gemini

import (
	"context"
	"log/slog"

	"github.com/poiesic/lectern/ai"
	"github.com/tmc/langchaingo/llms/googleai"
)

// Provider implements ai.Provider using Gemini models.
// It manages summarizer, selector, and answerer instances sharing two
// underlying model clients.
type Provider struct {
	config     *ai.Config
	summarizer *Summarizer
	selector   *Selector
	answerer   *Answerer
	logger     *slog.Logger
}

// NewProvider creates a new inference provider backed by Gemini.
// The config is validated before any client is constructed.
//
// Returns ai.Provider interface (not *Provider) to enforce abstraction
// and prevent coupling to Gemini-specific implementation details.
func NewProvider(ctx context.Context, config *ai.Config) (ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Multimodal client for artifact-carrying calls
	media, err := googleai.New(ctx,
		googleai.WithAPIKey(config.APIKey),
		googleai.WithDefaultModel(config.Model),
	)
	if err != nil {
		return nil, err
	}

	// Text client for selection and synthesis
	text, err := googleai.New(ctx,
		googleai.WithAPIKey(config.APIKey),
		googleai.WithDefaultModel(config.TextModel),
	)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:     config,
		summarizer: newSummarizer(media),
		selector:   newSelector(text),
		answerer:   newAnswerer(media, text),
		logger:     slog.Default().With("component", "gemini-provider"),
	}, nil
}

// Summarizer returns the summarization service.
func (p *Provider) Summarizer() ai.Summarizer {
	return p.summarizer
}

// Selector returns the relevance-selection service.
func (p *Provider) Selector() ai.Selector {
	return p.selector
}

// Answerer returns the question-answering service.
func (p *Provider) Answerer() ai.Answerer {
	return p.answerer
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing Gemini provider")
	return nil
}
