package characters

import (
	"context"
	"errors"
	"fmt"

	"github.com/killallgit/review-api/internal/models"
	"gorm.io/gorm"
)

// Repository errors
var (
	ErrCharacterNotFound  = errors.New("character not found")
	ErrAppearanceNotFound = errors.New("character appearance not found")
)

// RepositoryImpl implements the Repository interface
type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new character repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

// CreateCharacter creates a new character in the catalog
func (r *RepositoryImpl) CreateCharacter(ctx context.Context, character *models.Character) error {
	if err := r.db.WithContext(ctx).Create(character).Error; err != nil {
		return fmt.Errorf("creating character: %w", err)
	}
	return nil
}

// GetCharacterByID retrieves a character by its ID
func (r *RepositoryImpl) GetCharacterByID(ctx context.Context, id uint) (*models.Character, error) {
	var character models.Character
	if err := r.db.WithContext(ctx).First(&character, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("getting character: %w", err)
	}
	return &character, nil
}

// ListCharacters retrieves the full character catalog
func (r *RepositoryImpl) ListCharacters(ctx context.Context) ([]models.Character, error) {
	var characters []models.Character
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&characters).Error; err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}
	return characters, nil
}

// CreateAppearance records a character appearance on a segment
func (r *RepositoryImpl) CreateAppearance(ctx context.Context, appearance *models.CharacterAppearance) error {
	if err := r.db.WithContext(ctx).Create(appearance).Error; err != nil {
		return fmt.Errorf("creating character appearance: %w", err)
	}
	return nil
}

// GetAppearancesByEpisodeID retrieves all appearances for an episode
func (r *RepositoryImpl) GetAppearancesByEpisodeID(ctx context.Context, episodeID int64) ([]models.CharacterAppearance, error) {
	var appearances []models.CharacterAppearance
	if err := r.db.WithContext(ctx).
		Where("episode_id = ?", episodeID).
		Order("segment_index ASC").
		Find(&appearances).Error; err != nil {
		return nil, fmt.Errorf("getting appearances for episode: %w", err)
	}
	return appearances, nil
}

// DeleteAppearance deletes an appearance by its ID
func (r *RepositoryImpl) DeleteAppearance(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.CharacterAppearance{}, id)
	if result.Error != nil {
		return fmt.Errorf("deleting appearance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAppearanceNotFound
	}
	return nil
}
