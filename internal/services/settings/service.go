package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/killallgit/review-api/internal/models"
)

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	repository Repository
}

// NewService creates a new setting service
func NewService(repository Repository) Service {
	return &ServiceImpl{
		repository: repository,
	}
}

// Get returns the stored value for key, or fallback when unset
func (s *ServiceImpl) Get(ctx context.Context, key, fallback string) (string, error) {
	setting, err := s.repository.GetSetting(ctx, key)
	if err != nil {
		if errors.Is(err, ErrSettingNotFound) {
			return fallback, nil
		}
		return "", err
	}
	return setting.Value, nil
}

// Set stores a value under key
func (s *ServiceImpl) Set(ctx context.Context, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("setting key is required")
	}
	return s.repository.UpsertSetting(ctx, &models.Setting{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	})
}

// GetBool parses the stored value as a boolean, or fallback when unset
// or unparseable
func (s *ServiceImpl) GetBool(ctx context.Context, key string, fallback bool) (bool, error) {
	raw, err := s.Get(ctx, key, strconv.FormatBool(fallback))
	if err != nil {
		return fallback, err
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback, nil
	}
	return parsed, nil
}

// List retrieves all settings
func (s *ServiceImpl) List(ctx context.Context) ([]models.Setting, error) {
	return s.repository.ListSettings(ctx)
}
