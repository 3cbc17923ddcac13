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


package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/poiesic/lectern/ai"
	"github.com/poiesic/lectern/core"
	"github.com/poiesic/lectern/media"
	"github.com/poiesic/lectern/storage"
)

const (
	defaultMaxAttempts = 3
	defaultRetryDelay  = 5 * time.Second
)

// Pipeline orchestrates the ingestion of lecture materials.
type Pipeline struct {
	catalog     storage.Catalog
	provider    ai.Provider
	transcoder  media.Transcoder
	library     *media.Library
	maxAttempts int
	retryDelay  time.Duration
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithRetryPolicy sets the retry policy for summarization calls.
// Default is 3 attempts with a 5 second fixed delay.
func WithRetryPolicy(maxAttempts int, delay time.Duration) Option {
	return func(p *Pipeline) error {
		if maxAttempts < 1 {
			return ai.ErrInvalidMaxAttempts
		}
		p.maxAttempts = maxAttempts
		p.retryDelay = delay
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	catalog storage.Catalog,
	provider ai.Provider,
	transcoder media.Transcoder,
	library *media.Library,
	opts ...Option,
) (*Pipeline, error) {
	if catalog == nil {
		return nil, ErrCatalogRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if transcoder == nil {
		return nil, ErrTranscoderRequired
	}
	if library == nil {
		return nil, ErrLibraryRequired
	}

	p := &Pipeline{
		catalog:     catalog,
		provider:    provider,
		transcoder:  transcoder,
		library:     library,
		maxAttempts: defaultMaxAttempts,
		retryDelay:  defaultRetryDelay,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Ingest processes one file of the given kind and returns the appended
// catalog record. The original is archived for video and audio (their
// content lives on in transcoded artifacts) and left in place for kinds
// stored verbatim.
func (p *Pipeline) Ingest(ctx context.Context, path string, kind core.Kind) (*core.ItemRecord, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedKind, kind)
	}

	id, err := p.catalog.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve id for %s: %w", path, err)
	}

	p.logger.Info("ingesting item", "id", id, "kind", kind.String(), "path", path)

	contentPaths, archivePath, err := p.prepareArtifacts(ctx, id, path, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare artifacts for %s: %w", path, err)
	}

	summary, err := p.summarize(ctx, contentPaths)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize %s: %w", path, err)
	}

	record := &core.ItemRecord{
		Id:           id,
		Kind:         kind,
		OriginalName: filepath.Base(path),
		ContentPaths: contentPaths,
		ArchivePath:  archivePath,
		Summary:      summary,
		AddedAt:      time.Now().UTC(),
	}

	if err := core.ValidateRecord(record); err != nil {
		return nil, err
	}
	if err := p.catalog.Append(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to catalog %s: %w", path, err)
	}

	p.logger.Info("item ingested", "id", id, "artifacts", len(contentPaths))
	return record, nil
}

// prepareArtifacts routes by kind: video yields a transcoded audio track
// plus a downsampled frame track and archives the original; audio yields
// one opus artifact and archives the original; everything else is copied
// verbatim with no archival.
func (p *Pipeline) prepareArtifacts(ctx context.Context, id core.ID, path string, kind core.Kind) (contentPaths []string, archivePath string, err error) {
	switch kind {
	case core.KindVideo:
		audioDst := p.library.ArtifactPath(id, path, ".opus")
		videoDst := p.library.ArtifactPath(id, path, ".mp4")
		if err := p.transcoder.ExtractAudio(ctx, path, audioDst); err != nil {
			return nil, "", fmt.Errorf("audio extraction: %w", err)
		}
		if err := p.transcoder.DownsampleVideo(ctx, path, videoDst); err != nil {
			return nil, "", fmt.Errorf("video downsampling: %w", err)
		}
		archived, err := p.library.ArchiveOriginal(id, path)
		if err != nil {
			return nil, "", err
		}
		return []string{audioDst, videoDst}, archived, nil

	case core.KindAudio:
		audioDst := p.library.ArtifactPath(id, path, ".opus")
		if err := p.transcoder.ConvertAudio(ctx, path, audioDst); err != nil {
			return nil, "", fmt.Errorf("audio conversion: %w", err)
		}
		archived, err := p.library.ArchiveOriginal(id, path)
		if err != nil {
			return nil, "", err
		}
		return []string{audioDst}, archived, nil

	case core.KindDocument, core.KindImage, core.KindText:
		dst, err := p.library.CopyIn(id, path)
		if err != nil {
			return nil, "", err
		}
		return []string{dst}, "", nil

	default:
		return nil, "", fmt.Errorf("%w: %d", ErrUnsupportedKind, kind)
	}
}

func (p *Pipeline) summarize(ctx context.Context, contentPaths []string) (string, error) {
	artifacts := ai.ArtifactsFromPaths(contentPaths)

	var summary string
	err := ai.Retry(ctx, func() error {
		var callErr error
		summary, callErr = p.provider.Summarizer().Summarize(ctx, artifacts)
		return callErr
	}, p.maxAttempts, p.retryDelay)
	if err != nil {
		return "", err
	}
	return summary, nil
}
