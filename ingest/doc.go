// Package ingest orchestrates adding lecture materials to a library.
//
// For each file the pipeline reserves a catalog id, prepares artifacts
// according to the item kind (transcoding video and audio, copying
// everything else verbatim), asks the AI provider for a summary with
// bounded retry, and appends a validated record to the catalog. A failure
// at any step aborts before the catalog is touched, so the catalog never
// holds a record whose artifacts or summary are missing.
package ingest
