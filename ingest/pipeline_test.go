package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/lectern/ai"
	"github.com/poiesic/lectern/ai/mock"
	"github.com/poiesic/lectern/core"
	"github.com/poiesic/lectern/media"
	"github.com/poiesic/lectern/storage"
	"github.com/poiesic/lectern/storage/jsonfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTranscoder writes a marker file at dst instead of running ffmpeg.
type fakeTranscoder struct {
	extractCalls    int
	downsampleCalls int
	convertCalls    int
	failWith        error
}

func (f *fakeTranscoder) ExtractAudio(ctx context.Context, src, dst string) error {
	f.extractCalls++
	return f.write(dst, "fake opus from "+src)
}

func (f *fakeTranscoder) DownsampleVideo(ctx context.Context, src, dst string) error {
	f.downsampleCalls++
	return f.write(dst, "fake mp4 from "+src)
}

func (f *fakeTranscoder) ConvertAudio(ctx context.Context, src, dst string) error {
	f.convertCalls++
	return f.write(dst, "fake opus from "+src)
}

func (f *fakeTranscoder) write(dst, content string) error {
	if f.failWith != nil {
		return f.failWith
	}
	return os.WriteFile(dst, []byte(content), 0o644)
}

type testHarness struct {
	pipeline   *Pipeline
	catalog    storage.Catalog
	provider   *mock.MockProvider
	transcoder *fakeTranscoder
	library    *media.Library
	incoming   string
}

func newHarness(t *testing.T, opts ...Option) *testHarness {
	t.Helper()

	library, err := media.OpenLibrary(filepath.Join(t.TempDir(), "library"))
	require.NoError(t, err)

	catalog, err := jsonfile.OpenCatalog(library.CatalogPath())
	require.NoError(t, err)
	t.Cleanup(func() { catalog.Close() })

	provider := mock.NewMockProvider()
	transcoder := &fakeTranscoder{}

	opts = append([]Option{WithRetryPolicy(3, time.Millisecond)}, opts...)
	pipeline, err := NewPipeline(catalog, provider, transcoder, library, opts...)
	require.NoError(t, err)

	return &testHarness{
		pipeline:   pipeline,
		catalog:    catalog,
		provider:   provider,
		transcoder: transcoder,
		library:    library,
		incoming:   t.TempDir(),
	}
}

func (h *testHarness) sourceFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(h.incoming, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewPipeline_RequiredCollaborators(t *testing.T) {
	library, err := media.OpenLibrary(t.TempDir())
	require.NoError(t, err)
	catalog, err := jsonfile.OpenCatalog(library.CatalogPath())
	require.NoError(t, err)
	provider := mock.NewMockProvider()
	transcoder := &fakeTranscoder{}

	_, err = NewPipeline(nil, provider, transcoder, library)
	assert.ErrorIs(t, err, ErrCatalogRequired)

	_, err = NewPipeline(catalog, nil, transcoder, library)
	assert.ErrorIs(t, err, ErrProviderRequired)

	_, err = NewPipeline(catalog, provider, nil, library)
	assert.ErrorIs(t, err, ErrTranscoderRequired)

	_, err = NewPipeline(catalog, provider, transcoder, nil)
	assert.ErrorIs(t, err, ErrLibraryRequired)
}

func TestIngest_Video(t *testing.T) {
	h := newHarness(t)
	src := h.sourceFile(t, "lecture.mkv", "raw video")

	record, err := h.pipeline.Ingest(context.Background(), src, core.KindVideo)
	require.NoError(t, err)

	assert.Equal(t, core.ID(1), record.Id)
	assert.Equal(t, core.KindVideo, record.Kind)
	assert.Equal(t, "lecture.mkv", record.OriginalName)
	require.Len(t, record.ContentPaths, 2, "video yields an audio track and a frame track")
	assert.Equal(t, h.library.ArtifactPath(1, src, ".opus"), record.ContentPaths[0])
	assert.Equal(t, h.library.ArtifactPath(1, src, ".mp4"), record.ContentPaths[1])
	assert.NotEmpty(t, record.Summary)

	// Original moved to the archive.
	assert.NotEmpty(t, record.ArchivePath)
	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(record.ArchivePath)
	assert.NoError(t, err)

	// Record persisted.
	items, err := h.catalog.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, record.Id, items[0].Id)

	assert.Equal(t, 1, h.transcoder.extractCalls)
	assert.Equal(t, 1, h.transcoder.downsampleCalls)
	assert.Equal(t, 1, h.provider.GetMockSummarizer().CallCount())
}

func TestIngest_Audio(t *testing.T) {
	h := newHarness(t)
	src := h.sourceFile(t, "podcast.m4a", "raw audio")

	record, err := h.pipeline.Ingest(context.Background(), src, core.KindAudio)
	require.NoError(t, err)

	require.Len(t, record.ContentPaths, 1)
	assert.Equal(t, h.library.ArtifactPath(1, src, ".opus"), record.ContentPaths[0])
	assert.NotEmpty(t, record.ArchivePath)
	assert.Equal(t, 1, h.transcoder.convertCalls)

	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err))
}

func TestIngest_DocumentCopiedVerbatim(t *testing.T) {
	h := newHarness(t)
	src := h.sourceFile(t, "slides.pdf", "%PDF")

	record, err := h.pipeline.Ingest(context.Background(), src, core.KindDocument)
	require.NoError(t, err)

	require.Len(t, record.ContentPaths, 1)
	assert.Empty(t, record.ArchivePath, "verbatim kinds are not archived")
	assert.Equal(t, 0, h.transcoder.extractCalls+h.transcoder.downsampleCalls+h.transcoder.convertCalls)

	// Original stays where it was.
	_, err = os.Stat(src)
	assert.NoError(t, err)

	data, err := os.ReadFile(record.ContentPaths[0])
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data))
}

func TestIngest_TranscodeFailureAbortsBeforeSummary(t *testing.T) {
	h := newHarness(t)
	h.transcoder.failWith = media.ErrTranscodeFailed
	src := h.sourceFile(t, "broken.mkv", "raw")

	_, err := h.pipeline.Ingest(context.Background(), src, core.KindVideo)
	require.ErrorIs(t, err, media.ErrTranscodeFailed)

	assert.Equal(t, 0, h.provider.GetMockSummarizer().CallCount(), "no inference spend on a failed transcode")

	items, err := h.catalog.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items, "no record for a failed ingest")
}

func TestIngest_SummaryRetriesThenSucceeds(t *testing.T) {
	h := newHarness(t)
	src := h.sourceFile(t, "notes.txt", "plain notes")

	attempts := 0
	h.provider.GetMockSummarizer().SummarizeFunc = func(ctx context.Context, artifacts []ai.Artifact) (string, error) {
		attempts++
		if attempts < 3 {
			return "", errors.New("transient inference error")
		}
		return "summary after retries", nil
	}

	record, err := h.pipeline.Ingest(context.Background(), src, core.KindText)
	require.NoError(t, err)
	assert.Equal(t, "summary after retries", record.Summary)
	assert.Equal(t, 3, attempts)
}

func TestIngest_SummaryExhaustsRetries(t *testing.T) {
	h := newHarness(t)
	src := h.sourceFile(t, "notes.txt", "plain notes")

	wantErr := errors.New("inference down")
	h.provider.GetMockSummarizer().SummarizeFunc = func(ctx context.Context, artifacts []ai.Artifact) (string, error) {
		return "", wantErr
	}

	_, err := h.pipeline.Ingest(context.Background(), src, core.KindText)
	require.ErrorIs(t, err, wantErr)
	assert.Equal(t, 3, h.provider.GetMockSummarizer().CallCount())

	items, err := h.catalog.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestIngest_InvalidKind(t *testing.T) {
	h := newHarness(t)
	src := h.sourceFile(t, "thing.bin", "bytes")

	_, err := h.pipeline.Ingest(context.Background(), src, core.Kind(0))
	assert.ErrorIs(t, err, ErrUnsupportedKind)
}

func TestIngest_IDsNeverReused(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	first, err := h.pipeline.Ingest(ctx, h.sourceFile(t, "a.txt", "a"), core.KindText)
	require.NoError(t, err)
	second, err := h.pipeline.Ingest(ctx, h.sourceFile(t, "b.txt", "b"), core.KindText)
	require.NoError(t, err)

	assert.Equal(t, core.ID(1), first.Id)
	assert.Equal(t, core.ID(2), second.Id)
}
