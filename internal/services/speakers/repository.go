package speakers

import (
	"context"
	"errors"
	"fmt"

	"github.com/killallgit/review-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository errors
var (
	ErrAssignmentNotFound = errors.New("speaker assignment not found")
	ErrAudioDropNotFound  = errors.New("audio drop not found")
)

// RepositoryImpl implements the Repository interface
type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new speaker repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

// UpsertAssignment creates or replaces the assignment for one
// episode/label pair
func (r *RepositoryImpl) UpsertAssignment(ctx context.Context, assignment *models.SpeakerAssignment) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "episode_id"}, {Name: "label"}},
			DoUpdates: clause.AssignmentColumns([]string{"display_name", "audio_drop_id", "updated_at"}),
		}).
		Create(assignment).Error; err != nil {
		return fmt.Errorf("upserting speaker assignment: %w", err)
	}
	return nil
}

// GetAssignmentsByEpisodeID retrieves all assignments for an episode
func (r *RepositoryImpl) GetAssignmentsByEpisodeID(ctx context.Context, episodeID int64) ([]models.SpeakerAssignment, error) {
	var assignments []models.SpeakerAssignment
	if err := r.db.WithContext(ctx).
		Where("episode_id = ?", episodeID).
		Order("label ASC").
		Find(&assignments).Error; err != nil {
		return nil, fmt.Errorf("getting speaker assignments: %w", err)
	}
	return assignments, nil
}

// DeleteAssignment removes the assignment for one episode/label pair
func (r *RepositoryImpl) DeleteAssignment(ctx context.Context, episodeID int64, label string) error {
	result := r.db.WithContext(ctx).
		Where("episode_id = ? AND label = ?", episodeID, label).
		Delete(&models.SpeakerAssignment{})
	if result.Error != nil {
		return fmt.Errorf("deleting speaker assignment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAssignmentNotFound
	}
	return nil
}

// AggregateVoiceLibrary groups assignments by display name across all
// episodes
func (r *RepositoryImpl) AggregateVoiceLibrary(ctx context.Context) ([]VoiceLibraryEntry, error) {
	var entries []VoiceLibraryEntry
	if err := r.db.WithContext(ctx).
		Model(&models.SpeakerAssignment{}).
		Select("display_name, COUNT(DISTINCT episode_id) AS episode_count").
		Where("display_name != ''").
		Group("display_name").
		Order("display_name ASC").
		Scan(&entries).Error; err != nil {
		return nil, fmt.Errorf("aggregating voice library: %w", err)
	}
	return entries, nil
}

// CreateAudioDrop creates a new audio drop
func (r *RepositoryImpl) CreateAudioDrop(ctx context.Context, drop *models.AudioDrop) error {
	if err := r.db.WithContext(ctx).Create(drop).Error; err != nil {
		return fmt.Errorf("creating audio drop: %w", err)
	}
	return nil
}

// GetAudioDropByID retrieves an audio drop by its ID
func (r *RepositoryImpl) GetAudioDropByID(ctx context.Context, id uint) (*models.AudioDrop, error) {
	var drop models.AudioDrop
	if err := r.db.WithContext(ctx).First(&drop, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAudioDropNotFound
		}
		return nil, fmt.Errorf("getting audio drop: %w", err)
	}
	return &drop, nil
}

// ListAudioDrops retrieves all audio drops
func (r *RepositoryImpl) ListAudioDrops(ctx context.Context) ([]models.AudioDrop, error) {
	var drops []models.AudioDrop
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&drops).Error; err != nil {
		return nil, fmt.Errorf("listing audio drops: %w", err)
	}
	return drops, nil
}
