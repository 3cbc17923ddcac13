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
	"github.com/poiesic/lectern/ai"
	"github.com/poiesic/lectern/core"
)

// Stage identifies where in the resolution pipeline an event happened.
type Stage int

const (
	StageFiltering Stage = iota + 1
	StageAnalyzing
	StageSynthesizing
)

var stageNames = map[Stage]string{
	StageFiltering:    "filtering",
	StageAnalyzing:    "analyzing",
	StageSynthesizing: "synthesizing",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "unknown"
}

// CandidateFailure records one candidate that could not be analyzed.
type CandidateFailure struct {
	Id  core.ID
	Err error
}

// Result is the outcome of resolving a query.
type Result struct {
	// Answer is the final response text. Empty when Found is false.
	Answer string

	// Found reports whether any item produced an answer. False means the
	// library was empty or the selector matched nothing; it is not an error.
	Found bool

	// Sources lists the items that contributed to Answer, in the order the
	// selector ranked them.
	Sources []core.ID

	// Answers holds the per-item answers behind a synthesized response.
	Answers []ai.SourcedAnswer

	// Failures lists candidates that were selected but failed analysis.
	Failures []CandidateFailure
}
