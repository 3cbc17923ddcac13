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


package ai

import "errors"

// Default model identifiers.
const (
	DefaultModel     = "gemini-2.5-flash"
	DefaultTextModel = "gemini-2.5-flash"
)

// Config holds configuration for inference service providers.
type Config struct {
	// Model is the multimodal model used for summarization and per-item
	// analysis (calls that carry audio, video, image or document parts).
	// Example: "gemini-2.5-flash"
	Model string

	// TextModel is the model used for text-only calls: relevance
	// selection and answer synthesis. Often the same as Model.
	TextModel string

	// APIKey authenticates against the inference service.
	APIKey string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithModel sets the multimodal model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithTextModel sets the text model identifier.
func WithTextModel(model string) ConfigOption {
	return func(c *Config) {
		c.TextModel = model
	}
}

// WithAPIKey sets the service API key.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// DefaultConfig returns a Config with the default model selection.
// The API key has no default and must be supplied by the caller.
func DefaultConfig() *Config {
	return &Config{
		Model:     DefaultModel,
		TextModel: DefaultTextModel,
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithAPIKey(os.Getenv("GEMINI_API_KEY")),
//	    WithModel("gemini-2.5-pro"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks that the configuration is valid and complete.
func (c *Config) Validate() error {
	if c.Model == "" {
		return errors.New("ai config: Model is required")
	}
	if c.TextModel == "" {
		return errors.New("ai config: TextModel is required")
	}
	if c.APIKey == "" {
		return errors.New("ai config: APIKey is required")
	}
	return nil
}
