package characters

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/killallgit/review-api/internal/models"
)

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	repository Repository
}

// NewService creates a new character service
func NewService(repository Repository) Service {
	return &ServiceImpl{
		repository: repository,
	}
}

// CreateCharacter adds a character to the catalog
func (s *ServiceImpl) CreateCharacter(ctx context.Context, name, notes string) (*models.Character, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("character name is required")
	}

	character := &models.Character{
		Name:  name,
		Notes: notes,
	}

	if err := s.repository.CreateCharacter(ctx, character); err != nil {
		return nil, err
	}
	return character, nil
}

// ListCharacters retrieves the full character catalog
func (s *ServiceImpl) ListCharacters(ctx context.Context) ([]models.Character, error) {
	return s.repository.ListCharacters(ctx)
}

// TagAppearance records a character appearance on one segment slot
func (s *ServiceImpl) TagAppearance(ctx context.Context, appearance *models.CharacterAppearance) (*models.CharacterAppearance, error) {
	if appearance.EpisodeID == 0 {
		return nil, fmt.Errorf("episode ID is required")
	}
	if appearance.SegmentIndex < 0 {
		return nil, fmt.Errorf("segment index must not be negative")
	}

	// Resolve the character name so panels can render without a second
	// catalog lookup.
	character, err := s.repository.GetCharacterByID(ctx, appearance.CharacterID)
	if err != nil {
		return nil, err
	}
	appearance.CharacterName = character.Name

	if appearance.UUID == "" {
		appearance.UUID = uuid.New().String()
	}

	if err := s.repository.CreateAppearance(ctx, appearance); err != nil {
		return nil, err
	}
	return appearance, nil
}

// GetAppearancesByEpisodeID retrieves all appearances for an episode
func (s *ServiceImpl) GetAppearancesByEpisodeID(ctx context.Context, episodeID int64) ([]models.CharacterAppearance, error) {
	return s.repository.GetAppearancesByEpisodeID(ctx, episodeID)
}

// RemoveAppearance deletes an appearance by its ID
func (s *ServiceImpl) RemoveAppearance(ctx context.Context, id uint) error {
	return s.repository.DeleteAppearance(ctx, id)
}
