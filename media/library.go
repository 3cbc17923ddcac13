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


package media

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/lectern/core"
)

const (
	archiveDirName  = "Archive"
	catalogFileName = "catalog.json"
)

// Library manages the on-disk layout of a lecture library: a root
// directory holding processed artifacts, the catalog file, and an Archive
// subdirectory for consumed originals.
type Library struct {
	root string
}

// OpenLibrary creates (if needed) and opens the library rooted at root.
func OpenLibrary(root string) (*Library, error) {
	if root == "" {
		return nil, errors.New("library root is empty")
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create library root: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(root, archiveDirName), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	return &Library{root: root}, nil
}

// Root returns the library root directory.
func (l *Library) Root() string {
	return l.root
}

// CatalogPath returns the path of the catalog file inside the library.
func (l *Library) CatalogPath() string {
	return filepath.Join(l.root, catalogFileName)
}

// ArtifactPath builds the library path for an artifact derived from
// originalName, keyed by id and carrying the target extension (with dot).
// The id prefix keeps artifacts from different items with the same
// original name apart.
func (l *Library) ArtifactPath(id core.ID, originalName, ext string) string {
	stem := strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName))
	return filepath.Join(l.root, fmt.Sprintf("%d.%s%s", id, stem, ext))
}

// ArchivePath returns where the original named originalName is archived
// after processing.
func (l *Library) ArchivePath(id core.ID, originalName string) string {
	return filepath.Join(l.root, archiveDirName, fmt.Sprintf("%d.%s", id, filepath.Base(originalName)))
}

// CopyIn copies src verbatim into the library as the artifact for id.
// Used for kinds that need no transcoding. Returns the destination path.
func (l *Library) CopyIn(id core.ID, src string) (string, error) {
	dst := l.ArtifactPath(id, src, filepath.Ext(src))
	if err := copyFile(src, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// ArchiveOriginal moves the consumed original src into the Archive
// directory. Falls back to copy-and-delete when src lives on a different
// filesystem. Returns the archive path.
func (l *Library) ArchiveOriginal(id core.ID, src string) (string, error) {
	dst := l.ArchivePath(id, src)

	err := os.Rename(src, dst)
	if err == nil {
		return dst, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrSourceNotFound, src)
	}

	// Cross-device rename fails with EXDEV; copy then remove.
	if copyErr := copyFile(src, dst); copyErr != nil {
		return "", fmt.Errorf("failed to archive %s: %w", src, copyErr)
	}
	if removeErr := os.Remove(src); removeErr != nil {
		return "", fmt.Errorf("archived %s but failed to remove original: %w", src, removeErr)
	}
	return dst, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrSourceNotFound, src)
		}
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	_, err = io.Copy(out, in)
	if err == nil {
		err = out.Sync()
	}
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(dst)
		return err
	}
	return nil
}
