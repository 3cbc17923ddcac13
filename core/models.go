package core

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for catalog items.
// IDs are assigned monotonically by the catalog at ingestion time and are
// never reused, even if items are removed by a future cleanup tool.
type ID uint64

// CacheKeyFromContent derives a deterministic ID from text content using
// BLAKE2b hashing. Identical content always produces the same key, which is
// what makes it usable as an answer-cache key.
func CacheKeyFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Kind classifies an ingested item by its source media type.
// The kind decides how the original file is processed before it is sent to
// the inference service: video and audio are transcoded, everything else is
// stored verbatim.
type Kind int

const (
	// KindVideo is a video recording. Produces two artifacts: a compact
	// visual stream and an audio stream.
	KindVideo Kind = iota + 1
	// KindAudio is an audio recording. Produces one converted artifact.
	KindAudio
	// KindDocument is a document such as a PDF.
	KindDocument
	// KindImage is a still image.
	KindImage
	// KindText is a plain text or source code file.
	KindText
)

var kindNames = map[Kind]string{
	KindVideo:    "video",
	KindAudio:    "audio",
	KindDocument: "document",
	KindImage:    "image",
	KindText:     "text",
}

// String returns the lowercase name of the kind, or "unknown" for invalid values.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseKind converts a kind name back to its Kind value.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

// MarshalJSON serializes the kind as its lowercase name so the catalog file
// stays readable and stable across releases.
func (k Kind) MarshalJSON() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidKind, k)
	}
	return json.Marshal(k.String())
}

// UnmarshalJSON parses a kind from its lowercase name.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseKind(name)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ItemRecord is the persisted metadata for one ingested item.
// Records are created once by the ingestion pipeline after a summary has been
// produced and are read-only afterwards.
type ItemRecord struct {
	Id           ID       `json:"id"`
	Kind         Kind     `json:"kind"`
	OriginalName string   `json:"original_name"`
	ContentPaths []string `json:"content_paths"`
	// ArchivePath points at the original, pre-transcoding file.
	// Only set for video and audio items.
	ArchivePath string `json:"archive_path,omitempty"`
	// Summary is produced once by the inference service at ingestion time.
	Summary string    `json:"summary"`
	AddedAt time.Time `json:"added_at"`
}

// CachedAnswer is a per-item analysis answer stored in the answer cache.
// Deep analysis of a single item can take minutes of remote inference time,
// so repeated queries reuse the cached answer instead.
type CachedAnswer struct {
	ItemId    ID
	Query     string
	Answer    string
	CreatedAt time.Time
}
