package flags

import (
	"context"
	"errors"
	"fmt"

	"github.com/killallgit/review-api/internal/models"
	"gorm.io/gorm"
)

// ErrFlagNotFound is returned when a flag lookup matches nothing.
var ErrFlagNotFound = errors.New("flag not found")

// RepositoryImpl implements the Repository interface
type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new flag repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

// ReplaceActiveFlag swaps the unresolved flag on a segment for the given
// one inside a single transaction: last-write-wins replacement that can
// never strand a segment without its previous flag.
func (r *RepositoryImpl) ReplaceActiveFlag(ctx context.Context, flag *models.Flag) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("episode_id = ? AND segment_index = ? AND resolved = ?", flag.EpisodeID, flag.SegmentIndex, false).
			Delete(&models.Flag{}).Error; err != nil {
			return fmt.Errorf("deleting active flag: %w", err)
		}
		if err := tx.Create(flag).Error; err != nil {
			return fmt.Errorf("creating flag: %w", err)
		}
		return nil
	})
}

// GetFlagByID retrieves a flag by its ID
func (r *RepositoryImpl) GetFlagByID(ctx context.Context, id uint) (*models.Flag, error) {
	var flag models.Flag
	if err := r.db.WithContext(ctx).First(&flag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFlagNotFound
		}
		return nil, fmt.Errorf("getting flag: %w", err)
	}
	return &flag, nil
}

// GetFlagsByEpisodeID retrieves all flags for an episode ordered by segment
func (r *RepositoryImpl) GetFlagsByEpisodeID(ctx context.Context, episodeID int64) ([]models.Flag, error) {
	var flags []models.Flag
	if err := r.db.WithContext(ctx).
		Where("episode_id = ?", episodeID).
		Order("segment_index ASC").
		Find(&flags).Error; err != nil {
		return nil, fmt.Errorf("getting flags for episode: %w", err)
	}
	return flags, nil
}

// GetActiveFlagForSegment retrieves the unresolved flag for one segment
func (r *RepositoryImpl) GetActiveFlagForSegment(ctx context.Context, episodeID int64, segmentIndex int) (*models.Flag, error) {
	var flag models.Flag
	if err := r.db.WithContext(ctx).
		Where("episode_id = ? AND segment_index = ? AND resolved = ?", episodeID, segmentIndex, false).
		First(&flag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFlagNotFound
		}
		return nil, fmt.Errorf("getting active flag: %w", err)
	}
	return &flag, nil
}

// UpdateFlag updates an existing flag
func (r *RepositoryImpl) UpdateFlag(ctx context.Context, flag *models.Flag) error {
	result := r.db.WithContext(ctx).Save(flag)
	if result.Error != nil {
		return fmt.Errorf("updating flag: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrFlagNotFound
	}
	return nil
}

// DeleteFlag deletes a flag by its ID
func (r *RepositoryImpl) DeleteFlag(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Flag{}, id)
	if result.Error != nil {
		return fmt.Errorf("deleting flag: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrFlagNotFound
	}
	return nil
}
