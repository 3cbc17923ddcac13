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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidItemRecord indicates an ItemRecord failed validation.
	ErrInvalidItemRecord = errors.New("invalid item record")

	// ErrInvalidID indicates an item identifier of zero.
	ErrInvalidID = errors.New("item id must be assigned")

	// ErrInvalidKind indicates an unknown Kind value.
	ErrInvalidKind = errors.New("invalid item kind")

	// ErrEmptyOriginalName indicates the OriginalName field is empty.
	ErrEmptyOriginalName = errors.New("original name cannot be empty")

	// ErrEmptyContentPaths indicates a record with no content artifacts.
	ErrEmptyContentPaths = errors.New("content paths cannot be empty")

	// ErrEmptySummary indicates a record without a generated summary.
	ErrEmptySummary = errors.New("summary cannot be empty")
)
