package transcripts

import (
	"context"

	"github.com/killallgit/review-api/internal/models"
)

// Repository defines the interface for transcript data access
type Repository interface {
	GetByEpisodeID(ctx context.Context, episodeID int64) (*models.Transcript, error)
	Upsert(ctx context.Context, transcript *models.Transcript) error
	Save(ctx context.Context, transcript *models.Transcript) error
}

// Service defines the interface for transcript business logic
type Service interface {
	// GetTranscript returns the stored transcript record for an episode.
	GetTranscript(ctx context.Context, episodeID int64) (*models.Transcript, error)

	// UpsertTranscript stores or replaces the transcript record wholesale
	// (initial ingest and diarization reprocessing).
	UpsertTranscript(ctx context.Context, transcript *models.Transcript) error

	// UpdateSpeakerNames merges entries into the record's persisted
	// label-to-name map. Existing keys are overwritten. When sample
	// indices are supplied, a voice-sample extraction is queued for each
	// named segment; extraction is best-effort and never fails the
	// rename.
	UpdateSpeakerNames(ctx context.Context, episodeID int64, names models.SpeakerNameMap, sampleIndices ...int) error

	// SaveEdits applies text corrections keyed by segment index to the
	// stored segment payload. Unknown indices are rejected before any
	// write happens.
	SaveEdits(ctx context.Context, episodeID int64, edits map[int]string) error

	// GetAudioPath returns the local audio path for an episode, or empty
	// when no audio is attached.
	GetAudioPath(ctx context.Context, episodeID int64) (string, error)
}
