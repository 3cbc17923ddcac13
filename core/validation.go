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

import "fmt"

// ValidateRecord validates an ItemRecord according to domain rules.
//
// Validation rules:
//   - Id must be assigned (non-zero)
//   - Kind must be one of the defined kinds
//   - OriginalName must not be empty
//   - ContentPaths must contain at least one non-empty path
//   - Summary must not be empty
//
// A record that fails validation must never be appended to the catalog;
// ingestion aborts instead of persisting a partial record.
func ValidateRecord(record *ItemRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidItemRecord)
	}

	if record.Id == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidItemRecord, ErrInvalidID)
	}

	if !record.Kind.Valid() {
		return fmt.Errorf("%w: %w: %d", ErrInvalidItemRecord, ErrInvalidKind, record.Kind)
	}

	if record.OriginalName == "" {
		return fmt.Errorf("%w: %w", ErrInvalidItemRecord, ErrEmptyOriginalName)
	}

	if len(record.ContentPaths) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidItemRecord, ErrEmptyContentPaths)
	}
	for _, path := range record.ContentPaths {
		if path == "" {
			return fmt.Errorf("%w: %w: blank path", ErrInvalidItemRecord, ErrEmptyContentPaths)
		}
	}

	if record.Summary == "" {
		return fmt.Errorf("%w: %w", ErrInvalidItemRecord, ErrEmptySummary)
	}

	return nil
}
