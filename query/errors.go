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


package query

import (
	"errors"
	"fmt"

	"github.com/poiesic/lectern/ai"
)

var (
	// ErrCatalogRequired indicates that a catalog is required but was not provided.
	ErrCatalogRequired = errors.New("catalog is required")

	// ErrProviderRequired indicates that an AI provider is required but was not provided.
	ErrProviderRequired = errors.New("AI provider is required")

	// ErrEmptyQuery indicates a blank query string.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrAllCandidatesFailed indicates that every selected candidate failed
	// during analysis, leaving nothing to answer from.
	ErrAllCandidatesFailed = errors.New("analysis failed for all candidates")
)

// AnalysisError reports that every selected candidate failed analysis,
// carrying the per-candidate failures so callers can say which items
// failed and why. Matches ErrAllCandidatesFailed under errors.Is.
type AnalysisError struct {
	// Failures holds one entry per failed candidate, in candidate order.
	Failures []CandidateFailure
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("%v: %d candidate(s)", ErrAllCandidatesFailed, len(e.Failures))
}

func (e *AnalysisError) Unwrap() error {
	return ErrAllCandidatesFailed
}

// SynthesisError reports a synthesis failure while preserving the per-item
// answers that were already obtained, so callers can still show them.
type SynthesisError struct {
	// Answers holds the successful per-item answers, in candidate order.
	Answers []ai.SourcedAnswer

	// Err is the underlying synthesis failure.
	Err error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("synthesis failed with %d partial answer(s): %v", len(e.Answers), e.Err)
}

func (e *SynthesisError) Unwrap() error {
	return e.Err
}
