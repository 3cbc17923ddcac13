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


package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/lectern/ai"
	"github.com/poiesic/lectern/core"
	"github.com/poiesic/lectern/storage"
)

const (
	defaultMaxAttempts = 3
	defaultRetryDelay  = 5 * time.Second
)

// Pipeline resolves queries against the catalog in three stages:
// filtering, analyzing, synthesizing.
type Pipeline struct {
	catalog     storage.Catalog
	provider    ai.Provider
	cache       storage.AnswerCache
	pool        *ants.Pool
	maxAttempts int
	retryDelay  time.Duration
	timeout     time.Duration
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent analysis.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

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

// WithCache attaches an answer cache consulted before each analysis call.
// Default is no cache; every analysis hits the inference service.
func WithCache(cache storage.AnswerCache) Option {
	return func(p *Pipeline) error {
		p.cache = cache
		return nil
	}
}

// WithRetryPolicy sets the retry policy for remote inference calls.
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

// WithTimeout bounds a whole Resolve call. Default is no timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(p *Pipeline) error {
		p.timeout = timeout
		return nil
	}
}

// NewPipeline creates a new query pipeline.
func NewPipeline(catalog storage.Catalog, provider ai.Provider, opts ...Option) (*Pipeline, error) {
	if catalog == nil {
		return nil, ErrCatalogRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		catalog:     catalog,
		provider:    provider,
		pool:        pool,
		maxAttempts: defaultMaxAttempts,
		retryDelay:  defaultRetryDelay,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			p.pool.Release()
			return nil, err
		}
	}
	return p, nil
}

// Release shuts down the worker pool. The pipeline cannot be used after.
func (p *Pipeline) Release() {
	p.pool.Release()
}

// Resolve answers q against the library. A nil error with Found=false
// means nothing relevant exists; errors are reserved for failures.
func (p *Pipeline) Resolve(ctx context.Context, q string) (*Result, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, ErrEmptyQuery
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	candidates, err := p.filter(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s stage: %w", StageFiltering, err)
	}
	if len(candidates) == 0 {
		return &Result{Found: false}, nil
	}

	answers, failures, err := p.analyze(ctx, q, candidates)
	if err != nil {
		return nil, err
	}

	return p.synthesize(ctx, q, answers, failures)
}

// filter snapshots the catalog once and asks the selector for candidates.
// The selector's output is untrusted: duplicates are collapsed keeping
// first position, ids absent from the snapshot are dropped.
func (p *Pipeline) filter(ctx context.Context, q string) ([]*core.ItemRecord, error) {
	items, err := p.catalog.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		p.logger.Info("library is empty, nothing to query")
		return nil, nil
	}

	byId := make(map[core.ID]*core.ItemRecord, len(items))
	summaries := make([]ai.ItemSummary, 0, len(items))
	for _, item := range items {
		byId[item.Id] = item
		summaries = append(summaries, ai.ItemSummary{Id: uint64(item.Id), Summary: item.Summary})
	}

	var selected []uint64
	err = ai.Retry(ctx, func() error {
		var callErr error
		selected, callErr = p.provider.Selector().SelectRelevant(ctx, q, summaries)
		return callErr
	}, p.maxAttempts, p.retryDelay)
	if err != nil {
		return nil, err
	}

	seen := make(map[core.ID]bool, len(selected))
	candidates := make([]*core.ItemRecord, 0, len(selected))
	for _, raw := range selected {
		id := core.ID(raw)
		item, ok := byId[id]
		if !ok {
			p.logger.Warn("selector returned unknown item id", "id", raw)
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		candidates = append(candidates, item)
	}

	p.logger.Info("filtering complete", "items", len(items), "candidates", len(candidates))
	return candidates, nil
}

// analyzeOutcome is the per-candidate result slot. Slots are addressed by
// candidate index so the final order never depends on completion order.
type analyzeOutcome struct {
	answer string
	err    error
}

// analyze answers the query against each candidate's artifacts on the
// worker pool. A candidate failure is isolated; the stage only fails as a
// whole when every candidate fails.
func (p *Pipeline) analyze(ctx context.Context, q string, candidates []*core.ItemRecord) ([]ai.SourcedAnswer, []CandidateFailure, error) {
	outcomes := make([]analyzeOutcome, len(candidates))

	var wg sync.WaitGroup
	for i, candidate := range candidates {
		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			outcomes[i].answer, outcomes[i].err = p.analyzeOne(ctx, q, candidate)
		})
		if err != nil {
			wg.Done()
			outcomes[i].err = err
		}
	}
	wg.Wait()

	var answers []ai.SourcedAnswer
	var failures []CandidateFailure
	for i, outcome := range outcomes {
		id := candidates[i].Id
		if outcome.err != nil {
			p.logger.Warn("candidate analysis failed", "id", id, "error", outcome.err)
			failures = append(failures, CandidateFailure{Id: id, Err: outcome.err})
			continue
		}
		answers = append(answers, ai.SourcedAnswer{Id: uint64(id), Answer: outcome.answer})
	}

	if len(answers) == 0 {
		return nil, failures, fmt.Errorf("%s stage: %w", StageAnalyzing, &AnalysisError{Failures: failures})
	}
	return answers, failures, nil
}

// analyzeOne answers the query from one item, going through the cache
// when one is attached.
func (p *Pipeline) analyzeOne(ctx context.Context, q string, item *core.ItemRecord) (string, error) {
	key := core.CacheKeyFromContent(fmt.Sprintf("%d|%s", item.Id, q))

	if p.cache != nil {
		cached, err := p.cache.Get(ctx, key)
		if err == nil {
			p.logger.Debug("answer cache hit", "id", item.Id)
			return cached.Answer, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			p.logger.Warn("answer cache read failed", "id", item.Id, "error", err)
		}
	}

	artifacts := ai.ArtifactsFromPaths(item.ContentPaths)

	var answer string
	err := ai.Retry(ctx, func() error {
		var callErr error
		answer, callErr = p.provider.Answerer().Answer(ctx, q, artifacts)
		return callErr
	}, p.maxAttempts, p.retryDelay)
	if err != nil {
		return "", err
	}

	if p.cache != nil {
		entry := &core.CachedAnswer{
			ItemId:    item.Id,
			Query:     q,
			Answer:    answer,
			CreatedAt: time.Now().UTC(),
		}
		if err := p.cache.Put(ctx, key, entry); err != nil {
			p.logger.Warn("answer cache write failed", "id", item.Id, "error", err)
		}
	}
	return answer, nil
}

// synthesize merges the per-item answers. One answer is returned verbatim
// without an inference call; several are merged by the answerer.
func (p *Pipeline) synthesize(ctx context.Context, q string, answers []ai.SourcedAnswer, failures []CandidateFailure) (*Result, error) {
	sources := make([]core.ID, len(answers))
	for i, answer := range answers {
		sources[i] = core.ID(answer.Id)
	}

	if len(answers) == 1 {
		return &Result{
			Answer:   answers[0].Answer,
			Found:    true,
			Sources:  sources,
			Answers:  answers,
			Failures: failures,
		}, nil
	}

	var merged string
	err := ai.Retry(ctx, func() error {
		var callErr error
		merged, callErr = p.provider.Answerer().Synthesize(ctx, q, answers)
		return callErr
	}, p.maxAttempts, p.retryDelay)
	if err != nil {
		return nil, fmt.Errorf("%s stage: %w", StageSynthesizing, &SynthesisError{Answers: answers, Err: err})
	}

	return &Result{
		Answer:   merged,
		Found:    true,
		Sources:  sources,
		Answers:  answers,
		Failures: failures,
	}, nil
}
