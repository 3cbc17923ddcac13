package gemini

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/lectern/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

func TestSniffMIME(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"library/1.lecture.opus", "audio/opus"},
		{"library/1.lecture.mp4", "video/mp4"},
		{"library/2.slides.pdf", "application/pdf"},
		{"library/3.diagram.png", "image/png"},
		{"library/4.notes.txt", "text/plain"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, sniffMIME(tt.path), tt.path)
	}
}

func TestArtifactParts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("sorting algorithms"), 0o644))

	parts, err := artifactParts([]ai.Artifact{{Path: path}})
	require.NoError(t, err)
	require.Len(t, parts, 1)

	binary, ok := parts[0].(llms.BinaryContent)
	require.True(t, ok)
	assert.Equal(t, "text/plain", binary.MIMEType)
	assert.Equal(t, []byte("sorting algorithms"), binary.Data)
}

func TestArtifactParts_ExplicitMIME(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stream.bin")
	require.NoError(t, os.WriteFile(path, []byte{0x01}, 0o644))

	parts, err := artifactParts([]ai.Artifact{{Path: path, MIME: "audio/opus"}})
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, "audio/opus", parts[0].(llms.BinaryContent).MIMEType)
}

func TestArtifactParts_MissingFile(t *testing.T) {
	_, err := artifactParts([]ai.Artifact{{Path: filepath.Join(t.TempDir(), "gone.opus")}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read artifact")
}
