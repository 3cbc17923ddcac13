// Package query resolves questions against an ingested lecture library.
//
// Resolution runs three stages. Filtering asks the selector to pick
// candidate items by their index summaries, which keeps the expensive
// stage small. Analyzing answers the query against each candidate's full
// artifacts concurrently on a worker pool, consulting the answer cache
// first. Synthesizing merges the per-item answers into one response; a
// single surviving answer is returned verbatim with no synthesis call.
package query
