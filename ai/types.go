package ai

// Artifact is one processed file to be sent to the inference service.
// MIME may be left empty, in which case providers sniff it from the
// file extension.
type Artifact struct {
	Path string
	MIME string
}

// ArtifactsFromPaths wraps plain file paths as artifacts.
func ArtifactsFromPaths(paths []string) []Artifact {
	artifacts := make([]Artifact, len(paths))
	for i, path := range paths {
		artifacts[i] = Artifact{Path: path}
	}
	return artifacts
}

// ItemSummary is the (id, summary) pair the selector works from.
type ItemSummary struct {
	Id      uint64
	Summary string
}

// SourcedAnswer is a per-item answer tagged with the item it came from.
type SourcedAnswer struct {
	Id     uint64
	Answer string
}
