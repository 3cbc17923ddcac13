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
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/lectern/ai"
	"github.com/tmc/langchaingo/llms"
)

// Answerer implements ai.Answerer. Per-item analysis uses the multimodal
// client so artifacts can ride along; synthesis is text-only.
type Answerer struct {
	media  llms.Model
	text   llms.Model
	logger *slog.Logger
}

func newAnswerer(media, text llms.Model) *Answerer {
	return &Answerer{
		media:  media,
		text:   text,
		logger: slog.Default().With("component", "gemini-answerer"),
	}
}

// Answer sends the query with one item's artifacts attached and returns
// the answer derived from that item alone.
func (a *Answerer) Answer(ctx context.Context, query string, artifacts []ai.Artifact) (string, error) {
	parts, err := artifactParts(artifacts)
	if err != nil {
		return "", err
	}

	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: append([]llms.ContentPart{llms.TextPart(answerInstruction + query)}, parts...),
		},
	}

	a.logger.Debug("requesting per-item answer", "artifacts", len(artifacts))
	response, err := a.media.GenerateContent(ctx, content)
	if err != nil {
		return "", err
	}
	return firstChoice(response)
}

// Synthesize merges two or more attributed per-item answers into one
// coherent response to the original query.
func (a *Answerer) Synthesize(ctx context.Context, query string, answers []ai.SourcedAnswer) (string, error) {
	var prompt strings.Builder
	fmt.Fprintf(&prompt, "The student asked: %q\n\nIndividual answers:\n\n", query)
	for _, answer := range answers {
		fmt.Fprintf(&prompt, "Answer from item %d:\n%s\n\n", answer.Id, answer.Answer)
	}
	prompt.WriteString("Final synthesized answer:")

	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, synthesisSystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt.String()),
	}

	a.logger.Debug("requesting synthesis", "answers", len(answers))
	response, err := a.text.GenerateContent(ctx, content)
	if err != nil {
		return "", err
	}
	return firstChoice(response)
}
