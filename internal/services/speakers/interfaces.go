package speakers

import (
	"context"

	"github.com/killallgit/review-api/internal/models"
)

// VoiceLibraryEntry is one deduplicated voice known to the system: a
// display name plus how many episodes it has been assigned in.
type VoiceLibraryEntry struct {
	DisplayName  string `json:"display_name"`
	EpisodeCount int64  `json:"episode_count"`
}

// Repository defines the interface for speaker assignment data access
type Repository interface {
	UpsertAssignment(ctx context.Context, assignment *models.SpeakerAssignment) error
	GetAssignmentsByEpisodeID(ctx context.Context, episodeID int64) ([]models.SpeakerAssignment, error)
	DeleteAssignment(ctx context.Context, episodeID int64, label string) error
	AggregateVoiceLibrary(ctx context.Context) ([]VoiceLibraryEntry, error)

	// Audio drop catalog
	CreateAudioDrop(ctx context.Context, drop *models.AudioDrop) error
	GetAudioDropByID(ctx context.Context, id uint) (*models.AudioDrop, error)
	ListAudioDrops(ctx context.Context) ([]models.AudioDrop, error)
}

// Service defines the interface for speaker assignment business logic
type Service interface {
	// AssignSpeaker links a raw diarization label to a display name or an
	// audio drop for one episode, replacing any previous assignment of
	// the same label.
	AssignSpeaker(ctx context.Context, assignment *models.SpeakerAssignment) error
	GetAssignmentsByEpisodeID(ctx context.Context, episodeID int64) ([]models.SpeakerAssignment, error)
	ClearAssignment(ctx context.Context, episodeID int64, label string) error

	// AssignmentNameMap flattens an episode's assignments into a
	// label -> display name map. Audio drop assignments resolve to the
	// drop's name.
	AssignmentNameMap(ctx context.Context, episodeID int64) (map[string]string, error)

	// VoiceLibrary lists every known voice deduplicated by display name.
	VoiceLibrary(ctx context.Context) ([]VoiceLibraryEntry, error)

	CreateAudioDrop(ctx context.Context, name, clipPath string) (*models.AudioDrop, error)
	ListAudioDrops(ctx context.Context) ([]models.AudioDrop, error)
}
