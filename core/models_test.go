package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheKeyFromContent_Deterministic(t *testing.T) {
	key1 := CacheKeyFromContent("explain recursion|2")
	key2 := CacheKeyFromContent("explain recursion|2")
	assert.Equal(t, key1, key2, "identical content must produce identical keys")
}

func TestCacheKeyFromContent_DifferentContent(t *testing.T) {
	key1 := CacheKeyFromContent("explain recursion|1")
	key2 := CacheKeyFromContent("explain recursion|2")
	assert.NotEqual(t, key1, key2)
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindVideo, "video"},
		{KindAudio, "audio"},
		{KindDocument, "document"},
		{KindImage, "image"},
		{KindText, "text"},
		{Kind(0), "unknown"},
		{Kind(99), "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String())
	}
}

func TestParseKind_RoundTrip(t *testing.T) {
	for _, kind := range []Kind{KindVideo, KindAudio, KindDocument, KindImage, KindText} {
		parsed, err := ParseKind(kind.String())
		require.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}
}

func TestParseKind_Unknown(t *testing.T) {
	_, err := ParseKind("hologram")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestItemRecord_JSONRoundTrip(t *testing.T) {
	record := &ItemRecord{
		Id:           7,
		Kind:         KindVideo,
		OriginalName: "lecture03.mp4",
		ContentPaths: []string{"library/7.lecture03.mp4", "library/7.lecture03.opus"},
		ArchivePath:  "library/Archive/lecture03.mp4",
		Summary:      "Covers divide and conquer.",
		AddedAt:      time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(record)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind":"video"`)

	var decoded ItemRecord
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, *record, decoded)
}

func TestItemRecord_IgnoresUnknownFields(t *testing.T) {
	// Future catalog versions may add fields; older readers must skip them.
	raw := `{
		"id": 3,
		"kind": "text",
		"original_name": "notes.txt",
		"content_paths": ["library/3.notes.txt"],
		"summary": "Course notes.",
		"checksum": "abc123",
		"tags": ["math"]
	}`

	var record ItemRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &record))
	assert.Equal(t, ID(3), record.Id)
	assert.Equal(t, KindText, record.Kind)
	assert.Equal(t, []string{"library/3.notes.txt"}, record.ContentPaths)
	assert.Empty(t, record.ArchivePath)
}

func TestKind_UnmarshalInvalid(t *testing.T) {
	var kind Kind
	err := json.Unmarshal([]byte(`"hologram"`), &kind)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidKind)
}
