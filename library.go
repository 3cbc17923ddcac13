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


package lectern

import (
	"context"
	"log/slog"

	"github.com/poiesic/lectern/ai"
	"github.com/poiesic/lectern/ai/gemini"
	"github.com/poiesic/lectern/ingest"
	"github.com/poiesic/lectern/media"
	"github.com/poiesic/lectern/query"
	"github.com/poiesic/lectern/storage"
	"github.com/poiesic/lectern/storage/badger"
	"github.com/poiesic/lectern/storage/jsonfile"
)

// Library bundles the stores and the AI provider behind one handle and
// hands out ingestion and query pipelines wired to them.
type Library struct {
	media        *media.Library
	catalog      storage.Catalog
	aiConfig     *ai.Config
	provider     ai.Provider
	cache        storage.AnswerCache
	cacheBackend *badger.Backend
	ffmpegPath   string
	transcoder   media.Transcoder
	logger       *slog.Logger
}

// Option configures a Library.
type Option func(*libraryOptions)

type libraryOptions struct {
	aiConfig   *ai.Config
	cacheDir   string
	ffmpegPath string
	provider   ai.Provider
	transcoder media.Transcoder
}

// WithAIConfig sets the inference configuration.
func WithAIConfig(config *ai.Config) Option {
	return func(o *libraryOptions) {
		o.aiConfig = config
	}
}

// WithCacheDir enables the on-disk answer cache at dir. Empty means no
// cache.
func WithCacheDir(dir string) Option {
	return func(o *libraryOptions) {
		o.cacheDir = dir
	}
}

// WithFFmpegPath overrides the transcoder binary looked up on PATH.
func WithFFmpegPath(path string) Option {
	return func(o *libraryOptions) {
		o.ffmpegPath = path
	}
}

// WithProvider injects a pre-built AI provider, bypassing the default
// Gemini client construction. Intended for tests.
func WithProvider(provider ai.Provider) Option {
	return func(o *libraryOptions) {
		o.provider = provider
	}
}

// WithTranscoder injects a pre-built transcoder, bypassing the ffmpeg
// lookup. Intended for tests.
func WithTranscoder(transcoder media.Transcoder) Option {
	return func(o *libraryOptions) {
		o.transcoder = transcoder
	}
}

// Open opens (creating if needed) the lecture library rooted at root.
func Open(ctx context.Context, root string, opts ...Option) (*Library, error) {
	options := &libraryOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	mediaLib, err := media.OpenLibrary(root)
	if err != nil {
		return nil, err
	}

	catalog, err := jsonfile.OpenCatalog(mediaLib.CatalogPath())
	if err != nil {
		return nil, err
	}

	lib := &Library{
		media:      mediaLib,
		catalog:    catalog,
		aiConfig:   options.aiConfig,
		provider:   options.provider,
		ffmpegPath: options.ffmpegPath,
		transcoder: options.transcoder,
		logger:     slog.Default(),
	}

	if options.cacheDir != "" {
		backend, err := badger.OpenBackend(options.cacheDir, false)
		if err != nil {
			catalog.Close()
			return nil, err
		}
		lib.cacheBackend = backend
		lib.cache = badger.NewAnswerCache(backend)
	}

	return lib, nil
}

// aiProvider returns the provider, building the Gemini client on first
// use. Catalog-only operations (listing) never pay for client setup or
// need an API key.
func (l *Library) aiProvider(ctx context.Context) (ai.Provider, error) {
	if l.provider == nil {
		provider, err := gemini.NewProvider(ctx, l.aiConfig)
		if err != nil {
			return nil, err
		}
		l.provider = provider
	}
	return l.provider, nil
}

// Close releases the provider and the stores.
func (l *Library) Close() error {
	if l.provider != nil {
		if err := l.provider.Close(); err != nil {
			l.logger.Error("error closing AI provider", "err", err)
		}
	}

	if l.cache != nil {
		if err := l.cache.Close(); err != nil {
			l.logger.Error("error closing answer cache", "err", err)
			return err
		}
	}
	if l.cacheBackend != nil {
		if err := l.cacheBackend.Close(); err != nil {
			l.logger.Error("error closing cache backend", "err", err)
			return err
		}
	}

	if err := l.catalog.Close(); err != nil {
		l.logger.Error("error closing catalog", "err", err)
		return err
	}
	return nil
}

// Catalog exposes the item metadata store.
func (l *Library) Catalog() storage.Catalog {
	return l.catalog
}

// NewIngestPipeline builds an ingestion pipeline on this library. The
// ffmpeg binary and the inference client are resolved here rather than in
// Open so catalog-only usage never requires them.
func (l *Library) NewIngestPipeline(ctx context.Context, opts ...ingest.Option) (*ingest.Pipeline, error) {
	provider, err := l.aiProvider(ctx)
	if err != nil {
		return nil, err
	}

	transcoder := l.transcoder
	if transcoder == nil {
		ffmpeg, err := media.NewFFmpeg(l.ffmpegPath)
		if err != nil {
			return nil, err
		}
		transcoder = ffmpeg
	}
	return ingest.NewPipeline(l.catalog, provider, transcoder, l.media, opts...)
}

// NewQueryPipeline builds a query pipeline on this library. The answer
// cache, when enabled at Open, is wired in automatically.
func (l *Library) NewQueryPipeline(ctx context.Context, opts ...query.Option) (*query.Pipeline, error) {
	provider, err := l.aiProvider(ctx)
	if err != nil {
		return nil, err
	}

	if l.cache != nil {
		opts = append([]query.Option{query.WithCache(l.cache)}, opts...)
	}
	return query.NewPipeline(l.catalog, provider, opts...)
}
