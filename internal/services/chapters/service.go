package chapters

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

// NewService creates a new chapter service
func NewService(repository Repository) Service {
	return &ServiceImpl{
		repository: repository,
	}
}

// CreateChapterType adds a chapter type to the catalog
func (s *ServiceImpl) CreateChapterType(ctx context.Context, name, color string) (*models.ChapterType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("chapter type name is required")
	}

	chapterType := &models.ChapterType{
		Name:  name,
		Color: color,
	}

	if err := s.repository.CreateChapterType(ctx, chapterType); err != nil {
		return nil, err
	}
	return chapterType, nil
}

// ListChapterTypes retrieves all chapter types
func (s *ServiceImpl) ListChapterTypes(ctx context.Context) ([]models.ChapterType, error) {
	return s.repository.ListChapterTypes(ctx)
}

// CreateChapter validates and persists a chapter. Invalid ranges are
// rejected before anything touches the repository.
func (s *ServiceImpl) CreateChapter(ctx context.Context, chapter *models.Chapter) (*models.Chapter, error) {
	if chapter.EpisodeID == 0 {
		return nil, fmt.Errorf("episode ID is required")
	}
	if err := chapter.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repository.GetChapterTypeByID(ctx, chapter.ChapterTypeID); err != nil {
		return nil, err
	}

	if chapter.UUID == "" {
		chapter.UUID = uuid.New().String()
	}

	if err := s.repository.CreateChapter(ctx, chapter); err != nil {
		return nil, err
	}
	return chapter, nil
}

// GetChaptersByEpisodeID retrieves all chapters for an episode
func (s *ServiceImpl) GetChaptersByEpisodeID(ctx context.Context, episodeID int64) ([]models.Chapter, error) {
	return s.repository.GetChaptersByEpisodeID(ctx, episodeID)
}

// ChapterForSegment returns the first chapter covering the segment index.
// Chapters are scanned in start order; overlapping ranges resolve to the
// earliest match. A nil chapter with nil error means no chapter covers it.
func (s *ServiceImpl) ChapterForSegment(ctx context.Context, episodeID int64, segmentIndex int) (*models.Chapter, error) {
	chapters, err := s.repository.GetChaptersByEpisodeID(ctx, episodeID)
	if err != nil {
		return nil, err
	}

	for i := range chapters {
		if chapters[i].Contains(segmentIndex) {
			return &chapters[i], nil
		}
	}
	return nil, nil
}

// UpdateChapter validates and updates an existing chapter
func (s *ServiceImpl) UpdateChapter(ctx context.Context, chapter *models.Chapter) error {
	if err := chapter.Validate(); err != nil {
		return err
	}
	return s.repository.UpdateChapter(ctx, chapter)
}

// DeleteChapter deletes a chapter by its ID
func (s *ServiceImpl) DeleteChapter(ctx context.Context, id uint) error {
	return s.repository.DeleteChapter(ctx, id)
}

// ReplaceChapters swaps out an episode's chapters wholesale. All incoming
// chapters are validated before the existing set is touched.
func (s *ServiceImpl) ReplaceChapters(ctx context.Context, episodeID int64, chapters []models.Chapter) (int, error) {
	if episodeID == 0 {
		return 0, fmt.Errorf("episode ID is required")
	}

	for i := range chapters {
		chapters[i].EpisodeID = episodeID
		if chapters[i].UUID == "" {
			chapters[i].UUID = uuid.New().String()
		}
		if err := chapters[i].Validate(); err != nil {
			return 0, fmt.Errorf("chapter %d: %w", i, err)
		}
	}

	if err := s.repository.DeleteChaptersByEpisodeID(ctx, episodeID); err != nil {
		return 0, err
	}
	if err := s.repository.CreateChapters(ctx, chapters); err != nil {
		return 0, err
	}
	return len(chapters), nil
}
