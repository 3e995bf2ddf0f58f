package suggestions

import (
	"context"
	"errors"
	"fmt"

	"github.com/killallgit/review-api/internal/models"
	"gorm.io/gorm"
)

// ErrSuggestionNotFound is returned when a suggestion doesn't exist
var ErrSuggestionNotFound = errors.New("suggestion not found")

// RepositoryImpl implements the Repository interface
type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new suggestion repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

// CreateSuggestions creates multiple suggestions in one batch
func (r *RepositoryImpl) CreateSuggestions(ctx context.Context, suggestions []models.Suggestion) error {
	if len(suggestions) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&suggestions).Error; err != nil {
		return fmt.Errorf("creating suggestions: %w", err)
	}
	return nil
}

// GetSuggestionByID retrieves a suggestion by its ID
func (r *RepositoryImpl) GetSuggestionByID(ctx context.Context, id uint) (*models.Suggestion, error) {
	var suggestion models.Suggestion
	if err := r.db.WithContext(ctx).First(&suggestion, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSuggestionNotFound
		}
		return nil, fmt.Errorf("getting suggestion: %w", err)
	}
	return &suggestion, nil
}

// GetSuggestionsByEpisode retrieves all suggestions of a kind for an
// episode ordered by segment
func (r *RepositoryImpl) GetSuggestionsByEpisode(ctx context.Context, episodeID int64, kind models.SuggestionKind) ([]models.Suggestion, error) {
	var suggestions []models.Suggestion
	if err := r.db.WithContext(ctx).
		Where("episode_id = ? AND kind = ?", episodeID, kind).
		Order("segment_index ASC").
		Find(&suggestions).Error; err != nil {
		return nil, fmt.Errorf("getting suggestions for episode: %w", err)
	}
	return suggestions, nil
}

// GetPendingByEpisode retrieves the undecided suggestions of a kind for
// an episode ordered by segment
func (r *RepositoryImpl) GetPendingByEpisode(ctx context.Context, episodeID int64, kind models.SuggestionKind) ([]models.Suggestion, error) {
	var suggestions []models.Suggestion
	if err := r.db.WithContext(ctx).
		Where("episode_id = ? AND kind = ? AND approved = ?", episodeID, kind, models.ApprovalPending).
		Order("segment_index ASC").
		Find(&suggestions).Error; err != nil {
		return nil, fmt.Errorf("getting pending suggestions: %w", err)
	}
	return suggestions, nil
}

// UpdateSuggestion updates an existing suggestion
func (r *RepositoryImpl) UpdateSuggestion(ctx context.Context, suggestion *models.Suggestion) error {
	if err := r.db.WithContext(ctx).Save(suggestion).Error; err != nil {
		return fmt.Errorf("updating suggestion: %w", err)
	}
	return nil
}

// DeleteByEpisodeAndKind deletes all suggestions of a kind for an episode
func (r *RepositoryImpl) DeleteByEpisodeAndKind(ctx context.Context, episodeID int64, kind models.SuggestionKind) error {
	if err := r.db.WithContext(ctx).
		Where("episode_id = ? AND kind = ?", episodeID, kind).
		Delete(&models.Suggestion{}).Error; err != nil {
		return fmt.Errorf("deleting suggestions: %w", err)
	}
	return nil
}
