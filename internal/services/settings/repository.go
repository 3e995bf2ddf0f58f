package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/killallgit/review-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrSettingNotFound is returned when a setting key has never been written
var ErrSettingNotFound = errors.New("setting not found")

// RepositoryImpl implements the Repository interface
type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new setting repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

// GetSetting retrieves a setting by key
func (r *RepositoryImpl) GetSetting(ctx context.Context, key string) (*models.Setting, error) {
	var setting models.Setting
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, fmt.Errorf("getting setting: %w", err)
	}
	return &setting, nil
}

// UpsertSetting creates or replaces a setting
func (r *RepositoryImpl) UpsertSetting(ctx context.Context, setting *models.Setting) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(setting).Error; err != nil {
		return fmt.Errorf("upserting setting: %w", err)
	}
	return nil
}

// ListSettings retrieves all settings
func (r *RepositoryImpl) ListSettings(ctx context.Context) ([]models.Setting, error) {
	var settings []models.Setting
	if err := r.db.WithContext(ctx).Order("key ASC").Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("listing settings: %w", err)
	}
	return settings, nil
}
