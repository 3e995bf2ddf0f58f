package transcripts

import (
	"context"
	"errors"
	"fmt"

	"github.com/killallgit/review-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RepositoryImpl implements the Repository interface
type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new transcript repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

// GetByEpisodeID retrieves the transcript record for an episode
func (r *RepositoryImpl) GetByEpisodeID(ctx context.Context, episodeID int64) (*models.Transcript, error) {
	var transcript models.Transcript
	if err := r.db.WithContext(ctx).Where("episode_id = ?", episodeID).First(&transcript).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTranscriptNotFound
		}
		return nil, fmt.Errorf("getting transcript: %w", err)
	}
	return &transcript, nil
}

// Upsert creates the transcript record or replaces it wholesale when one
// already exists for the episode
func (r *RepositoryImpl) Upsert(ctx context.Context, transcript *models.Transcript) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "episode_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"segments_json", "speaker_names", "full_text", "language", "has_diarization", "audio_path", "updated_at",
		}),
	}).Create(transcript).Error

	if err != nil {
		return fmt.Errorf("upserting transcript: %w", err)
	}
	return nil
}

// Save persists changes to an existing transcript record
func (r *RepositoryImpl) Save(ctx context.Context, transcript *models.Transcript) error {
	result := r.db.WithContext(ctx).Save(transcript)
	if result.Error != nil {
		return fmt.Errorf("saving transcript: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTranscriptNotFound
	}
	return nil
}
