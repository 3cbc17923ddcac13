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


package storage

import "errors"

var (
	// ErrNotFound indicates that the requested entry was not found.
	ErrNotFound = errors.New("entry not found")

	// ErrDuplicateKey indicates a duplicate identifier.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrCorruptCatalog indicates the catalog file exists but cannot be
	// parsed. Fatal for the whole process; no auto-repair.
	ErrCorruptCatalog = errors.New("catalog file is corrupt")

	// ErrLockTimeout indicates the catalog write lock could not be
	// acquired within the wait budget.
	ErrLockTimeout = errors.New("timed out waiting for catalog lock")

	// ErrStorageClosed indicates that the storage backend is closed.
	ErrStorageClosed = errors.New("storage is closed")

	// ErrTruncatedData indicates that data was truncated during reading.
	ErrTruncatedData = errors.New("truncated data")
)
