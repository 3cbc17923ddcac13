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
	"github.com/tmc/langchaingo/llms"
)

// Summarizer implements ai.Summarizer using a multimodal Gemini model.
type Summarizer struct {
	client llms.Model
	logger *slog.Logger
}

func newSummarizer(client llms.Model) *Summarizer {
	return &Summarizer{
		client: client,
		logger: slog.Default().With("component", "gemini-summarizer"),
	}
}

// Summarize sends all artifacts in one generation call and returns the
// summary text. Long recordings make this a multi-minute call.
func (s *Summarizer) Summarize(ctx context.Context, artifacts []ai.Artifact) (string, error) {
	parts, err := artifactParts(artifacts)
	if err != nil {
		return "", err
	}

	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: append([]llms.ContentPart{llms.TextPart(summaryPrompt)}, parts...),
		},
	}

	s.logger.Debug("requesting summary", "artifacts", len(artifacts))
	response, err := s.client.GenerateContent(ctx, content)
	if err != nil {
		return "", err
	}
	return firstChoice(response)
}
