package samples

import (
	"context"
	"errors"
	"fmt"

	"github.com/killallgit/review-api/internal/models"
	"gorm.io/gorm"
)

// ErrSampleNotFound is returned when a voice sample doesn't exist
var ErrSampleNotFound = errors.New("voice sample not found")

// RepositoryImpl implements the Repository interface
type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new voice sample repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

// CreateSample creates a new voice sample
func (r *RepositoryImpl) CreateSample(ctx context.Context, sample *models.VoiceSample) error {
	if err := r.db.WithContext(ctx).Create(sample).Error; err != nil {
		return fmt.Errorf("creating voice sample: %w", err)
	}
	return nil
}

// GetSampleByID retrieves a voice sample by its ID
func (r *RepositoryImpl) GetSampleByID(ctx context.Context, id uint) (*models.VoiceSample, error) {
	var sample models.VoiceSample
	if err := r.db.WithContext(ctx).First(&sample, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSampleNotFound
		}
		return nil, fmt.Errorf("getting voice sample: %w", err)
	}
	return &sample, nil
}

// GetSamplesByEpisodeID retrieves all voice samples for an episode
func (r *RepositoryImpl) GetSamplesByEpisodeID(ctx context.Context, episodeID int64) ([]models.VoiceSample, error) {
	var samples []models.VoiceSample
	if err := r.db.WithContext(ctx).
		Where("episode_id = ?", episodeID).
		Order("segment_index ASC").
		Find(&samples).Error; err != nil {
		return nil, fmt.Errorf("getting voice samples for episode: %w", err)
	}
	return samples, nil
}

// CountSamplesByEpisodeID counts the voice samples saved for an episode
func (r *RepositoryImpl) CountSamplesByEpisodeID(ctx context.Context, episodeID int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.VoiceSample{}).
		Where("episode_id = ?", episodeID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting voice samples: %w", err)
	}
	return count, nil
}

// UpdateSample updates an existing voice sample
func (r *RepositoryImpl) UpdateSample(ctx context.Context, sample *models.VoiceSample) error {
	if err := r.db.WithContext(ctx).Save(sample).Error; err != nil {
		return fmt.Errorf("updating voice sample: %w", err)
	}
	return nil
}

// DeleteSample deletes a voice sample by its ID
func (r *RepositoryImpl) DeleteSample(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.VoiceSample{}, id)
	if result.Error != nil {
		return fmt.Errorf("deleting voice sample: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSampleNotFound
	}
	return nil
}
