package settings

import (
	"context"

	"github.com/killallgit/review-api/internal/models"
)

// Repository defines the interface for setting data access
type Repository interface {
	GetSetting(ctx context.Context, key string) (*models.Setting, error)
	UpsertSetting(ctx context.Context, setting *models.Setting) error
	ListSettings(ctx context.Context) ([]models.Setting, error)
}

// Service defines the interface for setting business logic
type Service interface {
	// Get returns the stored value, or the fallback when the key has
	// never been written.
	Get(ctx context.Context, key, fallback string) (string, error)
	Set(ctx context.Context, key, value string) error
	GetBool(ctx context.Context, key string, fallback bool) (bool, error)
	List(ctx context.Context) ([]models.Setting, error)
}
