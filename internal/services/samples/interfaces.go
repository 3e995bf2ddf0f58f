package samples

import (
	"context"

	"github.com/killallgit/review-api/internal/models"
)

// Repository defines the interface for voice sample data access
type Repository interface {
	CreateSample(ctx context.Context, sample *models.VoiceSample) error
	GetSampleByID(ctx context.Context, id uint) (*models.VoiceSample, error)
	GetSamplesByEpisodeID(ctx context.Context, episodeID int64) ([]models.VoiceSample, error)
	CountSamplesByEpisodeID(ctx context.Context, episodeID int64) (int64, error)
	UpdateSample(ctx context.Context, sample *models.VoiceSample) error
	DeleteSample(ctx context.Context, id uint) error
}

// Service defines the interface for voice sample business logic
type Service interface {
	// SaveSample clamps the trim window into the segment's natural bounds
	// and persists it.
	SaveSample(ctx context.Context, sample *models.VoiceSample) (*models.VoiceSample, error)
	GetSample(ctx context.Context, id uint) (*models.VoiceSample, error)
	GetSamplesByEpisodeID(ctx context.Context, episodeID int64) ([]models.VoiceSample, error)
	CountSamples(ctx context.Context, episodeID int64) (int64, error)
	MarkExtracted(ctx context.Context, id uint) error
	DeleteSample(ctx context.Context, id uint) error
}
