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


package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/poiesic/lectern/core"
	"github.com/poiesic/lectern/storage"
)

const (
	defaultLockWait   = 10 * time.Second
	lockPollInterval  = 50 * time.Millisecond
	catalogPermission = 0o644
)

// document is the on-disk shape of the catalog.
type document struct {
	Items []*core.ItemRecord `json:"items"`
}

// Catalog implements storage.Catalog on a single JSON file.
type Catalog struct {
	path     string
	lockWait time.Duration
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLockWait sets how long Append waits for the write lock before
// giving up with ErrLockTimeout.
func WithLockWait(wait time.Duration) Option {
	return func(c *Catalog) {
		c.lockWait = wait
	}
}

// OpenCatalog opens the catalog stored at path. The file does not need to
// exist yet; the first Append creates it.
func OpenCatalog(path string, opts ...Option) (storage.Catalog, error) {
	if path == "" {
		return nil, errors.New("catalog path is empty")
	}

	catalog := &Catalog{
		path:     path,
		lockWait: defaultLockWait,
	}
	for _, opt := range opts {
		opt(catalog)
	}
	return catalog, nil
}

// Load reads and parses the whole catalog. A missing file yields an empty
// sequence.
func (c *Catalog) Load(ctx context.Context) ([]*core.ItemRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", c.path, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", storage.ErrCorruptCatalog, c.path, err)
	}
	return doc.Items, nil
}

// Append adds record and rewrites the catalog file. The record's id must
// not already be present.
func (c *Catalog) Append(ctx context.Context, record *core.ItemRecord) error {
	if record == nil {
		return core.ErrInvalidItemRecord
	}

	unlock, err := c.acquireLock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	items, err := c.Load(ctx)
	if err != nil {
		return err
	}

	for _, existing := range items {
		if existing.Id == record.Id {
			return fmt.Errorf("%w: id %d", storage.ErrDuplicateKey, record.Id)
		}
	}

	items = append(items, record)
	return c.rewrite(items)
}

// NextID returns one past the highest existing id, or 1 for an empty
// catalog. Ids of removed records are never reused because the maximum
// only grows.
func (c *Catalog) NextID(ctx context.Context) (core.ID, error) {
	items, err := c.Load(ctx)
	if err != nil {
		return 0, err
	}

	var max core.ID
	for _, item := range items {
		if item.Id > max {
			max = item.Id
		}
	}
	return max + 1, nil
}

// Close releases resources. The file-backed catalog holds nothing open
// between calls.
func (c *Catalog) Close() error {
	return nil
}

// rewrite persists items atomically: write a temp file in the same
// directory, fsync it, then rename over the catalog path.
func (c *Catalog) rewrite(items []*core.ItemRecord) error {
	data, err := json.MarshalIndent(document{Items: items}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(c.path)
	tmp, err := os.CreateTemp(dir, ".catalog-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp catalog: %w", err)
	}
	tmpPath := tmp.Name()

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp catalog: %w", err)
	}

	if err := os.Chmod(tmpPath, catalogPermission); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set catalog permissions: %w", err)
	}

	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace catalog: %w", err)
	}
	return nil
}

// acquireLock takes the sidecar lock file with O_EXCL, polling until the
// wait budget runs out.
func (c *Catalog) acquireLock(ctx context.Context) (func(), error) {
	lockPath := c.path + ".lock"
	deadline := time.Now().Add(c.lockWait)

	for {
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			fmt.Fprintf(f, "%d\n", os.Getpid())
			f.Close()
			return func() { os.Remove(lockPath) }, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("failed to create lock file %s: %w", lockPath, err)
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s", storage.ErrLockTimeout, lockPath)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockPollInterval):
		}
	}
}
