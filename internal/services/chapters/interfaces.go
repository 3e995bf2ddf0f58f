package chapters

import (
	"context"

	"github.com/killallgit/review-api/internal/models"
)

// Repository defines the interface for chapter data access
type Repository interface {
	// Chapter type catalog
	CreateChapterType(ctx context.Context, chapterType *models.ChapterType) error
	GetChapterTypeByID(ctx context.Context, id uint) (*models.ChapterType, error)
	ListChapterTypes(ctx context.Context) ([]models.ChapterType, error)

	// Chapter operations
	CreateChapter(ctx context.Context, chapter *models.Chapter) error
	CreateChapters(ctx context.Context, chapters []models.Chapter) error
	GetChapterByID(ctx context.Context, id uint) (*models.Chapter, error)
	GetChaptersByEpisodeID(ctx context.Context, episodeID int64) ([]models.Chapter, error)
	UpdateChapter(ctx context.Context, chapter *models.Chapter) error
	DeleteChapter(ctx context.Context, id uint) error
	DeleteChaptersByEpisodeID(ctx context.Context, episodeID int64) error
}

// Service defines the interface for chapter business logic
type Service interface {
	CreateChapterType(ctx context.Context, name, color string) (*models.ChapterType, error)
	ListChapterTypes(ctx context.Context) ([]models.ChapterType, error)

	CreateChapter(ctx context.Context, chapter *models.Chapter) (*models.Chapter, error)
	GetChaptersByEpisodeID(ctx context.Context, episodeID int64) ([]models.Chapter, error)

	// ChapterForSegment returns the first chapter whose segment range
	// contains the given index, or nil when no chapter covers it.
	ChapterForSegment(ctx context.Context, episodeID int64, segmentIndex int) (*models.Chapter, error)

	UpdateChapter(ctx context.Context, chapter *models.Chapter) error
	DeleteChapter(ctx context.Context, id uint) error

	// ReplaceChapters swaps out an episode's chapters wholesale. Used by
	// the auto-label worker; returns how many chapters were written.
	ReplaceChapters(ctx context.Context, episodeID int64, chapters []models.Chapter) (int, error)
}
