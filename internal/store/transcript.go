package store

import "github.com/jonathan/candidate-screener/internal/types"

// PreferSavedTranscript picks between the currently stored transcript and an
// incoming one. The incoming transcript wins unless it is strictly shorter
// than what is stored, which guards against a client re-sending a stale,
// truncated transcript over a more complete one already persisted. This is a
// length heuristic, not a content merge.
func PreferSavedTranscript(current, incoming []types.TranscriptEntry) []types.TranscriptEntry {
	if len(incoming) < len(current) {
		return current
	}
	return incoming
}
