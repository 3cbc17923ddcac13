// Package gemini implements the ai.Provider interfaces on top of Google's
// Gemini models via langchaingo.
//
// Two model clients are held per provider: a multimodal one for calls that
// carry media artifacts (summarization, per-item analysis) and a text one
// for relevance selection and answer synthesis. Artifacts are attached as
// inline binary parts with MIME types sniffed from the file extension.
package gemini
