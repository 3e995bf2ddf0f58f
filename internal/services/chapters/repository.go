package chapters

import (
	"context"
	"errors"
	"fmt"

	"github.com/killallgit/review-api/internal/models"
	"gorm.io/gorm"
)

// Repository errors
var (
	ErrChapterNotFound     = errors.New("chapter not found")
	ErrChapterTypeNotFound = errors.New("chapter type not found")
)

// RepositoryImpl implements the Repository interface
type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new chapter repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

// CreateChapterType creates a new chapter type
func (r *RepositoryImpl) CreateChapterType(ctx context.Context, chapterType *models.ChapterType) error {
	if err := r.db.WithContext(ctx).Create(chapterType).Error; err != nil {
		return fmt.Errorf("creating chapter type: %w", err)
	}
	return nil
}

// GetChapterTypeByID retrieves a chapter type by its ID
func (r *RepositoryImpl) GetChapterTypeByID(ctx context.Context, id uint) (*models.ChapterType, error) {
	var chapterType models.ChapterType
	if err := r.db.WithContext(ctx).First(&chapterType, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChapterTypeNotFound
		}
		return nil, fmt.Errorf("getting chapter type: %w", err)
	}
	return &chapterType, nil
}

// ListChapterTypes retrieves all chapter types
func (r *RepositoryImpl) ListChapterTypes(ctx context.Context) ([]models.ChapterType, error) {
	var chapterTypes []models.ChapterType
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&chapterTypes).Error; err != nil {
		return nil, fmt.Errorf("listing chapter types: %w", err)
	}
	return chapterTypes, nil
}

// CreateChapter creates a new chapter
func (r *RepositoryImpl) CreateChapter(ctx context.Context, chapter *models.Chapter) error {
	if err := r.db.WithContext(ctx).Create(chapter).Error; err != nil {
		return fmt.Errorf("creating chapter: %w", err)
	}
	return nil
}

// CreateChapters creates multiple chapters in one batch
func (r *RepositoryImpl) CreateChapters(ctx context.Context, chapters []models.Chapter) error {
	if len(chapters) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&chapters).Error; err != nil {
		return fmt.Errorf("creating chapters: %w", err)
	}
	return nil
}

// GetChapterByID retrieves a chapter by its ID
func (r *RepositoryImpl) GetChapterByID(ctx context.Context, id uint) (*models.Chapter, error) {
	var chapter models.Chapter
	if err := r.db.WithContext(ctx).First(&chapter, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChapterNotFound
		}
		return nil, fmt.Errorf("getting chapter: %w", err)
	}
	return &chapter, nil
}

// GetChaptersByEpisodeID retrieves all chapters for an episode ordered by
// start segment
func (r *RepositoryImpl) GetChaptersByEpisodeID(ctx context.Context, episodeID int64) ([]models.Chapter, error) {
	var chapters []models.Chapter
	if err := r.db.WithContext(ctx).
		Where("episode_id = ?", episodeID).
		Order("start_segment_index ASC").
		Find(&chapters).Error; err != nil {
		return nil, fmt.Errorf("getting chapters for episode: %w", err)
	}
	return chapters, nil
}

// UpdateChapter updates an existing chapter
func (r *RepositoryImpl) UpdateChapter(ctx context.Context, chapter *models.Chapter) error {
	if err := r.db.WithContext(ctx).Save(chapter).Error; err != nil {
		return fmt.Errorf("updating chapter: %w", err)
	}
	return nil
}

// DeleteChapter deletes a chapter by its ID
func (r *RepositoryImpl) DeleteChapter(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Chapter{}, id)
	if result.Error != nil {
		return fmt.Errorf("deleting chapter: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrChapterNotFound
	}
	return nil
}

// DeleteChaptersByEpisodeID deletes all chapters for an episode
func (r *RepositoryImpl) DeleteChaptersByEpisodeID(ctx context.Context, episodeID int64) error {
	if err := r.db.WithContext(ctx).
		Where("episode_id = ?", episodeID).
		Delete(&models.Chapter{}).Error; err != nil {
		return fmt.Errorf("deleting chapters for episode: %w", err)
	}
	return nil
}
