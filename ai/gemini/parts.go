package gemini

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/lectern/ai"
	"github.com/tmc/langchaingo/llms"
)

// Extensions the stdlib mime table doesn't know, or that the transcoder
// produces with a container Gemini expects a specific type for.
var extraMIMETypes = map[string]string{
	".opus": "audio/opus",
	".ogg":  "audio/ogg",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".flac": "audio/flac",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
	".pdf":  "application/pdf",
	".md":   "text/markdown",
	".txt":  "text/plain",
}

// sniffMIME resolves a MIME type from the file extension.
// Unknown extensions fall back to text/plain: the library accepts arbitrary
// source-code files as text items, and Gemini rejects octet streams.
func sniffMIME(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if typ, ok := extraMIMETypes[ext]; ok {
		return typ
	}
	if typ := mime.TypeByExtension(ext); typ != "" {
		// Strip any charset parameter the stdlib table adds.
		if idx := strings.Index(typ, ";"); idx >= 0 {
			typ = typ[:idx]
		}
		return typ
	}
	return "text/plain"
}

// artifactParts loads artifact contents and wraps them as inline binary
// parts for a generation call.
func artifactParts(artifacts []ai.Artifact) ([]llms.ContentPart, error) {
	parts := make([]llms.ContentPart, 0, len(artifacts))
	for _, artifact := range artifacts {
		data, err := os.ReadFile(artifact.Path)
		if err != nil {
			return nil, fmt.Errorf("read artifact %s: %w", artifact.Path, err)
		}
		mimeType := artifact.MIME
		if mimeType == "" {
			mimeType = sniffMIME(artifact.Path)
		}
		parts = append(parts, llms.BinaryPart(mimeType, data))
	}
	return parts, nil
}

// firstChoice extracts the text of the first choice from a generation
// response, or ai.ErrEmptyResponse when the model produced nothing.
func firstChoice(response *llms.ContentResponse) (string, error) {
	if response == nil || len(response.Choices) == 0 {
		return "", ai.ErrEmptyResponse
	}
	text := strings.TrimSpace(response.Choices[0].Content)
	if text == "" {
		return "", ai.ErrEmptyResponse
	}
	return text, nil
}
