package transcripts

import "errors"

var (
	// ErrTranscriptNotFound is returned when no transcript record exists
	// for the requested episode.
	ErrTranscriptNotFound = errors.New("transcript not found")
)
