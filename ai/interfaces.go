package ai

import "context"

// Summarizer produces a compact index summary for the artifacts of one item.
// Implementations must be thread-safe for concurrent use.
type Summarizer interface {
	// Summarize sends all artifacts of a single item to the inference
	// service in one call and returns the generated summary text.
	// This is a blocking call that can take minutes for long recordings.
	Summarize(ctx context.Context, artifacts []Artifact) (string, error)
}

// Selector picks the items relevant to a query, judged by summary alone.
// Implementations must be thread-safe for concurrent use.
type Selector interface {
	// SelectRelevant sends the query together with every (id, summary)
	// pair and returns the identifiers the service judges relevant, in
	// the order the service returned them. The result is untrusted: it
	// may be empty, contain duplicates, or name identifiers that do not
	// exist. Callers must validate it before use.
	SelectRelevant(ctx context.Context, query string, items []ItemSummary) ([]uint64, error)
}

// Answerer answers a query against item content and merges partial answers.
// Implementations must be thread-safe for concurrent use.
type Answerer interface {
	// Answer sends the query together with one item's artifacts and
	// returns the answer derived from that item alone.
	Answer(ctx context.Context, query string, artifacts []Artifact) (string, error)

	// Synthesize merges two or more per-item answers into one coherent
	// response to the original query. Each input answer stays attributed
	// to its source item so the merged text can acknowledge conflicts.
	Synthesize(ctx context.Context, query string, answers []SourcedAnswer) (string, error)
}

// Provider aggregates the inference services for convenient initialization
// and lifecycle management. All services returned by a provider share
// configuration and underlying client resources.
type Provider interface {
	// Summarizer returns the summarization service.
	Summarizer() Summarizer

	// Selector returns the relevance-selection service.
	Selector() Selector

	// Answerer returns the question-answering service.
	Answerer() Answerer

	// Close releases resources held by the provider and its services.
	Close() error
}
