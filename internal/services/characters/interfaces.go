package characters

import (
	"context"

	"github.com/killallgit/review-api/internal/models"
)

// Repository defines the interface for character data access
type Repository interface {
	// Catalog operations
	CreateCharacter(ctx context.Context, character *models.Character) error
	GetCharacterByID(ctx context.Context, id uint) (*models.Character, error)
	ListCharacters(ctx context.Context) ([]models.Character, error)

	// Appearance operations
	CreateAppearance(ctx context.Context, appearance *models.CharacterAppearance) error
	GetAppearancesByEpisodeID(ctx context.Context, episodeID int64) ([]models.CharacterAppearance, error)
	DeleteAppearance(ctx context.Context, id uint) error
}

// Service defines the interface for character business logic
type Service interface {
	CreateCharacter(ctx context.Context, name, notes string) (*models.Character, error)
	ListCharacters(ctx context.Context) ([]models.Character, error)

	// TagAppearance records one character on one segment slot.
	TagAppearance(ctx context.Context, appearance *models.CharacterAppearance) (*models.CharacterAppearance, error)
	GetAppearancesByEpisodeID(ctx context.Context, episodeID int64) ([]models.CharacterAppearance, error)
	RemoveAppearance(ctx context.Context, id uint) error
}
