package suggestions

import (
	"context"

	"github.com/killallgit/review-api/internal/models"
)

// Partitions groups an episode's suggestions by decision state.
type Partitions struct {
	Pending  []models.Suggestion `json:"pending"`
	Approved []models.Suggestion `json:"approved"`
	Rejected []models.Suggestion `json:"rejected"`
}

// Repository defines the interface for suggestion data access
type Repository interface {
	CreateSuggestions(ctx context.Context, suggestions []models.Suggestion) error
	GetSuggestionByID(ctx context.Context, id uint) (*models.Suggestion, error)
	GetSuggestionsByEpisode(ctx context.Context, episodeID int64, kind models.SuggestionKind) ([]models.Suggestion, error)
	GetPendingByEpisode(ctx context.Context, episodeID int64, kind models.SuggestionKind) ([]models.Suggestion, error)
	UpdateSuggestion(ctx context.Context, suggestion *models.Suggestion) error
	DeleteByEpisodeAndKind(ctx context.Context, episodeID int64, kind models.SuggestionKind) error
}

// Service defines the interface for suggestion business logic
type Service interface {
	// ReplaceSuggestions swaps out an episode's suggestions of one kind.
	// Used by the classification and polish workers.
	ReplaceSuggestions(ctx context.Context, episodeID int64, kind models.SuggestionKind, suggestions []models.Suggestion) (int, error)

	// GetPartitions returns an episode's suggestions of one kind split
	// into pending / approved / rejected.
	GetPartitions(ctx context.Context, episodeID int64, kind models.SuggestionKind) (*Partitions, error)

	// Approve and Reject are terminal: a decided suggestion cannot be
	// decided again.
	Approve(ctx context.Context, id uint) (*models.Suggestion, error)
	Reject(ctx context.Context, id uint) (*models.Suggestion, error)

	// ApproveAll approves an episode's pending suggestions of one kind in
	// order, stopping at the first failure. Earlier approvals stand.
	ApproveAll(ctx context.Context, episodeID int64, kind models.SuggestionKind) (int, error)
}
