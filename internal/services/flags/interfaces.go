package flags

import (
	"context"

	"github.com/killallgit/review-api/internal/models"
)

// Repository defines the interface for flag data access
type Repository interface {
	// ReplaceActiveFlag atomically swaps the unresolved flag on a
	// segment (if any) for the given one. Delete and create commit
	// together, so a failed create never leaves the segment unflagged.
	ReplaceActiveFlag(ctx context.Context, flag *models.Flag) error

	// Read operations
	GetFlagByID(ctx context.Context, id uint) (*models.Flag, error)
	GetFlagsByEpisodeID(ctx context.Context, episodeID int64) ([]models.Flag, error)
	GetActiveFlagForSegment(ctx context.Context, episodeID int64, segmentIndex int) (*models.Flag, error)

	// Update operations
	UpdateFlag(ctx context.Context, flag *models.Flag) error

	// Delete operations
	DeleteFlag(ctx context.Context, id uint) error
}

// Service defines the interface for flag business logic
type Service interface {
	// CreateFlag validates and persists a flag. Creating a flag for an
	// already-flagged segment replaces the previous active flag
	// (last-write-wins). Correction-type flags capture the original
	// segment text into Notes, and a supplied corrected text is written
	// back to the transcript after the flag is persisted; an edit failure
	// does not roll the flag back (ErrEditNotApplied).
	CreateFlag(ctx context.Context, flag *models.Flag) (*models.Flag, error)

	// Read operations
	GetFlagsByEpisodeID(ctx context.Context, episodeID int64) ([]models.Flag, error)
	GetActiveFlagForSegment(ctx context.Context, episodeID int64, segmentIndex int) (*models.Flag, error)

	// ResolveFlag marks a flag as handled without deleting it.
	ResolveFlag(ctx context.Context, id uint) error

	// DeleteFlag removes exactly the given flag.
	DeleteFlag(ctx context.Context, id uint) error
}
