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


package badger

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/lectern/core"
	"github.com/poiesic/lectern/storage"
)

// AnswerCache implements storage.AnswerCache for BadgerDB.
type AnswerCache struct {
	backend *Backend
}

var _ storage.AnswerCache = (*AnswerCache)(nil)

// NewAnswerCache creates a new AnswerCache on the given backend.
func NewAnswerCache(backend *Backend) *AnswerCache {
	return &AnswerCache{backend: backend}
}

// Get returns the cached answer stored under key.
func (c *AnswerCache) Get(ctx context.Context, key core.ID) (*core.CachedAnswer, error) {
	if c.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var answer *core.CachedAnswer
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeAnswerKey(key))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			answer, unmarshalErr = storage.UnmarshalCachedAnswer(val)
			return unmarshalErr
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return answer, nil
}

// Put stores answer under key, replacing any previous value.
func (c *AnswerCache) Put(ctx context.Context, key core.ID, answer *core.CachedAnswer) error {
	if answer == nil {
		return fmt.Errorf("cached answer is nil")
	}
	if c.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	return c.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeAnswerKey(key), storage.MarshalCachedAnswer(answer)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Close is a no-op; the backend owns the database handle.
func (c *AnswerCache) Close() error {
	return nil
}
