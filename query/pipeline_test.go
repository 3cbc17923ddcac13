package query

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/lectern/ai"
	"github.com/poiesic/lectern/ai/mock"
	"github.com/poiesic/lectern/core"
	"github.com/poiesic/lectern/storage"
	badgerstore "github.com/poiesic/lectern/storage/badger"
	"github.com/poiesic/lectern/storage/jsonfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCatalog(t *testing.T, ids ...core.ID) storage.Catalog {
	t.Helper()

	catalog, err := jsonfile.OpenCatalog(filepath.Join(t.TempDir(), "catalog.json"))
	require.NoError(t, err)
	t.Cleanup(func() { catalog.Close() })

	for _, id := range ids {
		record := &core.ItemRecord{
			Id:           id,
			Kind:         core.KindText,
			OriginalName: fmt.Sprintf("item%d.txt", id),
			ContentPaths: []string{fmt.Sprintf("library/%d.item%d.txt", id, id)},
			Summary:      fmt.Sprintf("summary of item %d", id),
			AddedAt:      time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		}
		require.NoError(t, catalog.Append(context.Background(), record))
	}
	return catalog
}

func newTestPipeline(t *testing.T, catalog storage.Catalog, provider *mock.MockProvider, opts ...Option) *Pipeline {
	t.Helper()

	opts = append([]Option{WithRetryPolicy(3, time.Millisecond)}, opts...)
	pipeline, err := NewPipeline(catalog, provider, opts...)
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)
	return pipeline
}

func TestNewPipeline_RequiredCollaborators(t *testing.T) {
	catalog := seedCatalog(t)
	provider := mock.NewMockProvider()

	_, err := NewPipeline(nil, provider)
	assert.ErrorIs(t, err, ErrCatalogRequired)

	_, err = NewPipeline(catalog, nil)
	assert.ErrorIs(t, err, ErrProviderRequired)
}

func TestResolve_EmptyQuery(t *testing.T) {
	pipeline := newTestPipeline(t, seedCatalog(t), mock.NewMockProvider())

	_, err := pipeline.Resolve(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestResolve_EmptyLibrary(t *testing.T) {
	provider := mock.NewMockProvider()
	pipeline := newTestPipeline(t, seedCatalog(t), provider)

	result, err := pipeline.Resolve(context.Background(), "anything")
	require.NoError(t, err)
	assert.False(t, result.Found)
	assert.Empty(t, result.Answer)

	// Nothing downstream runs on an empty library.
	assert.Equal(t, 0, provider.GetMockSelector().CallCount())
	assert.Equal(t, 0, provider.GetMockAnswerer().AnswerCallCount())
}

func TestResolve_SelectorMatchesNothing(t *testing.T) {
	provider := mock.NewMockProvider()
	provider.GetMockSelector().SelectFunc = func(ctx context.Context, query string, items []ai.ItemSummary) ([]uint64, error) {
		return nil, nil
	}
	pipeline := newTestPipeline(t, seedCatalog(t, 1, 2), provider)

	result, err := pipeline.Resolve(context.Background(), "quantum chromodynamics")
	require.NoError(t, err)
	assert.False(t, result.Found)
	assert.Equal(t, 0, provider.GetMockAnswerer().AnswerCallCount())
	assert.Equal(t, 0, provider.GetMockAnswerer().SynthesizeCallCount())
}

func TestResolve_SingleCandidateSkipsSynthesis(t *testing.T) {
	provider := mock.NewMockProvider()
	provider.GetMockSelector().SelectFunc = func(ctx context.Context, query string, items []ai.ItemSummary) ([]uint64, error) {
		return []uint64{2}, nil
	}
	provider.GetMockAnswerer().AnswerFunc = func(ctx context.Context, query string, artifacts []ai.Artifact) (string, error) {
		return "the single answer", nil
	}
	pipeline := newTestPipeline(t, seedCatalog(t, 1, 2, 3), provider)

	result, err := pipeline.Resolve(context.Background(), "what is in item two")
	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.Equal(t, "the single answer", result.Answer, "single answer is returned verbatim")
	assert.Equal(t, []core.ID{2}, result.Sources)
	assert.Equal(t, 0, provider.GetMockAnswerer().SynthesizeCallCount())
}

func TestResolve_MultipleCandidatesSynthesized(t *testing.T) {
	provider := mock.NewMockProvider()
	provider.GetMockSelector().SelectFunc = func(ctx context.Context, query string, items []ai.ItemSummary) ([]uint64, error) {
		return []uint64{3, 1}, nil
	}
	provider.GetMockAnswerer().AnswerFunc = func(ctx context.Context, query string, artifacts []ai.Artifact) (string, error) {
		return "answer from " + artifacts[0].Path, nil
	}
	provider.GetMockAnswerer().SynthesizeFunc = func(ctx context.Context, query string, answers []ai.SourcedAnswer) (string, error) {
		require.Len(t, answers, 2)
		// Candidate order follows selector ranking, not completion order.
		assert.Equal(t, uint64(3), answers[0].Id)
		assert.Equal(t, uint64(1), answers[1].Id)
		return "merged answer", nil
	}
	pipeline := newTestPipeline(t, seedCatalog(t, 1, 2, 3), provider)

	result, err := pipeline.Resolve(context.Background(), "compare the two lectures")
	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.Equal(t, "merged answer", result.Answer)
	assert.Equal(t, []core.ID{3, 1}, result.Sources)
	assert.Equal(t, 2, provider.GetMockAnswerer().AnswerCallCount())
	assert.Equal(t, 1, provider.GetMockAnswerer().SynthesizeCallCount())
}

func TestResolve_SelectorOutputSanitized(t *testing.T) {
	provider := mock.NewMockProvider()
	provider.GetMockSelector().SelectFunc = func(ctx context.Context, query string, items []ai.ItemSummary) ([]uint64, error) {
		// Duplicates and an unknown id must not survive filtering.
		return []uint64{2, 99, 2, 1}, nil
	}
	pipeline := newTestPipeline(t, seedCatalog(t, 1, 2), provider, WithPoolSize(1))

	result, err := pipeline.Resolve(context.Background(), "sanitize me")
	require.NoError(t, err)
	assert.Equal(t, []core.ID{2, 1}, result.Sources)
	assert.Equal(t, 2, provider.GetMockAnswerer().AnswerCallCount())
}

func TestResolve_PartialCandidateFailure(t *testing.T) {
	provider := mock.NewMockProvider()
	provider.GetMockSelector().SelectFunc = func(ctx context.Context, query string, items []ai.ItemSummary) ([]uint64, error) {
		return []uint64{1, 2}, nil
	}
	analysisErr := errors.New("item unreadable")
	provider.GetMockAnswerer().AnswerFunc = func(ctx context.Context, query string, artifacts []ai.Artifact) (string, error) {
		if artifacts[0].Path == "library/1.item1.txt" {
			return "", analysisErr
		}
		return "survivor answer", nil
	}
	pipeline := newTestPipeline(t, seedCatalog(t, 1, 2), provider)

	result, err := pipeline.Resolve(context.Background(), "partial failure")
	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.Equal(t, "survivor answer", result.Answer)
	assert.Equal(t, []core.ID{2}, result.Sources)

	require.Len(t, result.Failures, 1)
	assert.Equal(t, core.ID(1), result.Failures[0].Id)
	assert.ErrorIs(t, result.Failures[0].Err, analysisErr)
}

func TestResolve_AllCandidatesFailed(t *testing.T) {
	provider := mock.NewMockProvider()
	answerErr := errors.New("inference down")
	provider.GetMockAnswerer().AnswerFunc = func(ctx context.Context, query string, artifacts []ai.Artifact) (string, error) {
		return "", answerErr
	}
	pipeline := newTestPipeline(t, seedCatalog(t, 1, 2), provider)

	_, err := pipeline.Resolve(context.Background(), "doomed")
	assert.ErrorIs(t, err, ErrAllCandidatesFailed)
	assert.Equal(t, 0, provider.GetMockAnswerer().SynthesizeCallCount())

	// The error names every failed candidate.
	var analysisErr *AnalysisError
	require.ErrorAs(t, err, &analysisErr)
	require.Len(t, analysisErr.Failures, 2)
	assert.Equal(t, core.ID(1), analysisErr.Failures[0].Id)
	assert.Equal(t, core.ID(2), analysisErr.Failures[1].Id)
	for _, failure := range analysisErr.Failures {
		assert.ErrorIs(t, failure.Err, answerErr)
	}
}

func TestResolve_FilterFailureIsFatal(t *testing.T) {
	provider := mock.NewMockProvider()
	selectErr := errors.New("selector offline")
	provider.GetMockSelector().SelectFunc = func(ctx context.Context, query string, items []ai.ItemSummary) ([]uint64, error) {
		return nil, selectErr
	}
	pipeline := newTestPipeline(t, seedCatalog(t, 1), provider)

	_, err := pipeline.Resolve(context.Background(), "whatever")
	require.ErrorIs(t, err, selectErr)
	assert.Equal(t, 3, provider.GetMockSelector().CallCount(), "filter call is retried before giving up")
	assert.Equal(t, 0, provider.GetMockAnswerer().AnswerCallCount())
}

func TestResolve_SynthesisFailureKeepsPartialAnswers(t *testing.T) {
	provider := mock.NewMockProvider()
	provider.GetMockAnswerer().SynthesizeFunc = func(ctx context.Context, query string, answers []ai.SourcedAnswer) (string, error) {
		return "", errors.New("merge failed")
	}
	pipeline := newTestPipeline(t, seedCatalog(t, 1, 2), provider)

	_, err := pipeline.Resolve(context.Background(), "merge these")
	require.Error(t, err)

	var synthErr *SynthesisError
	require.ErrorAs(t, err, &synthErr)
	assert.Len(t, synthErr.Answers, 2, "per-item answers survive a synthesis failure")
}

func TestResolve_AnalysisRetriesTransientFailures(t *testing.T) {
	provider := mock.NewMockProvider()
	provider.GetMockSelector().SelectFunc = func(ctx context.Context, query string, items []ai.ItemSummary) ([]uint64, error) {
		return []uint64{1}, nil
	}
	attempts := 0
	provider.GetMockAnswerer().AnswerFunc = func(ctx context.Context, query string, artifacts []ai.Artifact) (string, error) {
		attempts++
		if attempts < 2 {
			return "", errors.New("flaky")
		}
		return "recovered", nil
	}
	pipeline := newTestPipeline(t, seedCatalog(t, 1), provider)

	result, err := pipeline.Resolve(context.Background(), "retry me")
	require.NoError(t, err)
	assert.Equal(t, "recovered", result.Answer)
	assert.Equal(t, 2, attempts)
}

func TestResolve_CacheShortCircuitsAnalysis(t *testing.T) {
	cache, backend, err := badgerstore.NewMemoryCache()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	provider := mock.NewMockProvider()
	provider.GetMockSelector().SelectFunc = func(ctx context.Context, query string, items []ai.ItemSummary) ([]uint64, error) {
		return []uint64{1}, nil
	}
	pipeline := newTestPipeline(t, seedCatalog(t, 1), provider, WithCache(cache))

	first, err := pipeline.Resolve(context.Background(), "cached question")
	require.NoError(t, err)
	assert.Equal(t, 1, provider.GetMockAnswerer().AnswerCallCount())

	second, err := pipeline.Resolve(context.Background(), "cached question")
	require.NoError(t, err)
	assert.Equal(t, first.Answer, second.Answer)
	assert.Equal(t, 1, provider.GetMockAnswerer().AnswerCallCount(), "second resolve must be served from cache")

	// A different query misses the cache.
	_, err = pipeline.Resolve(context.Background(), "different question")
	require.NoError(t, err)
	assert.Equal(t, 2, provider.GetMockAnswerer().AnswerCallCount())
}

func TestStage_String(t *testing.T) {
	assert.Equal(t, "filtering", StageFiltering.String())
	assert.Equal(t, "analyzing", StageAnalyzing.String())
	assert.Equal(t, "synthesizing", StageSynthesizing.String())
	assert.Equal(t, "unknown", Stage(42).String())
}
