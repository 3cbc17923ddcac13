// Package ai defines the inference service abstraction for lectern.
//
// The package declares three capability interfaces — Summarizer, Selector,
// and Answerer — aggregated by a Provider. Concrete providers live in
// subpackages (gemini for production, mock for tests).
//
// Every call to a provider crosses the network and may fail transiently, so
// callers wrap each invocation with Retry, the bounded fixed-delay retry
// helper shared by the ingestion and query pipelines.
package ai
