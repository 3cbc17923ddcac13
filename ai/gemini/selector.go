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
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/poiesic/lectern/ai"
	"github.com/tmc/langchaingo/llms"
)

// Selector implements ai.Selector using a text Gemini model with a JSON
// response contract.
type Selector struct {
	client llms.Model
	logger *slog.Logger
}

// selection is the wrapper structure for the model's JSON response.
// Ids are kept raw so that malformed elements can be skipped individually
// instead of failing the whole response.
type selection struct {
	Ids []json.RawMessage `json:"ids"`
}

func newSelector(client llms.Model) *Selector {
	return &Selector{
		client: client,
		logger: slog.Default().With("component", "gemini-selector"),
	}
}

// SelectRelevant asks the model which items are relevant to the query,
// judged by summaries alone. The returned ids preserve the model's order
// and are NOT validated against the catalog; that is the caller's job.
func (s *Selector) SelectRelevant(ctx context.Context, query string, items []ai.ItemSummary) ([]uint64, error) {
	catalog, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}

	var prompt strings.Builder
	prompt.WriteString("Student query:\n")
	prompt.WriteString(query)
	prompt.WriteString("\n\nAvailable items (id and summary):\n")
	prompt.Write(catalog)

	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, selectSystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt.String()),
	}

	response, err := s.client.GenerateContent(ctx, content,
		llms.WithTemperature(0.0), llms.WithJSONMode())
	if err != nil {
		return nil, err
	}

	text, err := firstChoice(response)
	if err != nil {
		return nil, err
	}

	ids, err := parseSelection(text, s.logger)
	if err != nil {
		return nil, fmt.Errorf("parse selector response: %w", err)
	}
	return ids, nil
}

// parseSelection decodes the model's {"ids": [...]} payload.
// Code fences and common JSON damage are repaired first; elements that
// still fail integer parsing are dropped with a log line rather than
// failing the call.
func parseSelection(text string, logger *slog.Logger) ([]uint64, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)
	text = repairJSON(text)

	var parsed selection
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(parsed.Ids))
	for _, raw := range parsed.Ids {
		var num json.Number
		if err := json.Unmarshal(raw, &num); err != nil {
			logger.Warn("dropping malformed id from selector response", "value", string(raw))
			continue
		}
		id, err := strconv.ParseUint(num.String(), 10, 64)
		if err != nil {
			logger.Warn("dropping malformed id from selector response", "value", num.String())
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
