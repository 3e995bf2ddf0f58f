package flags

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/killallgit/review-api/internal/models"
	"github.com/killallgit/review-api/internal/services/transcripts"
	"github.com/killallgit/review-api/pkg/segments"
)

// ErrEditNotApplied signals that a correction flag was persisted but the
// follow-up transcript edit failed. The flag is NOT rolled back; the
// caller should surface the partial outcome and let the reviewer retry
// the edit.
var ErrEditNotApplied = errors.New("flag created but transcript edit not applied")

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	repository  Repository
	transcripts transcripts.Service
}

// NewService creates a new flag service
func NewService(repository Repository, transcriptService transcripts.Service) Service {
	return &ServiceImpl{
		repository:  repository,
		transcripts: transcriptService,
	}
}

// CreateFlag validates and persists a flag, replacing any active flag on
// the same segment
func (s *ServiceImpl) CreateFlag(ctx context.Context, flag *models.Flag) (*models.Flag, error) {
	if flag.EpisodeID == 0 {
		return nil, fmt.Errorf("episode ID is required")
	}
	if err := flag.Validate(); err != nil {
		return nil, err
	}

	if flag.UUID == "" {
		flag.UUID = uuid.New().String()
	}

	// Correction flags capture the original segment text into Notes
	// before anything is persisted.
	var originalText string
	if flag.IsCorrection() {
		transcript, err := s.transcripts.GetTranscript(ctx, flag.EpisodeID)
		if err != nil {
			return nil, err
		}
		segs, err := segments.Parse(transcript.SegmentsJSON)
		if err != nil {
			return nil, fmt.Errorf("transcript segments are malformed: %w", err)
		}
		if flag.SegmentIndex >= len(segs) {
			return nil, fmt.Errorf("segment index %d out of range (0..%d)", flag.SegmentIndex, len(segs)-1)
		}
		originalText = segs[flag.SegmentIndex].Text
		flag.Notes = originalText
	}

	// Last-write-wins: a new flag on an already-flagged segment replaces
	// the previous active flag. The swap is atomic; a failure here leaves
	// the previous flag in place.
	if err := s.repository.ReplaceActiveFlag(ctx, flag); err != nil {
		return nil, err
	}

	// The transcript edit is a second, ordered persistence call. Its
	// failure leaves the flag in place.
	if flag.IsCorrection() && flag.CorrectedText != "" && flag.CorrectedText != originalText {
		if err := s.transcripts.SaveEdits(ctx, flag.EpisodeID, map[int]string{flag.SegmentIndex: flag.CorrectedText}); err != nil {
			log.Printf("[ERROR] Flag %s created but edit for segment %d failed: %v", flag.UUID, flag.SegmentIndex, err)
			return flag, fmt.Errorf("%w: %v", ErrEditNotApplied, err)
		}
	}

	return flag, nil
}

// GetFlagsByEpisodeID retrieves all flags for an episode
func (s *ServiceImpl) GetFlagsByEpisodeID(ctx context.Context, episodeID int64) ([]models.Flag, error) {
	return s.repository.GetFlagsByEpisodeID(ctx, episodeID)
}

// GetActiveFlagForSegment retrieves the unresolved flag for one segment
func (s *ServiceImpl) GetActiveFlagForSegment(ctx context.Context, episodeID int64, segmentIndex int) (*models.Flag, error) {
	return s.repository.GetActiveFlagForSegment(ctx, episodeID, segmentIndex)
}

// ResolveFlag marks a flag as handled
func (s *ServiceImpl) ResolveFlag(ctx context.Context, id uint) error {
	flag, err := s.repository.GetFlagByID(ctx, id)
	if err != nil {
		return err
	}
	if flag.Resolved {
		return nil
	}

	flag.Resolved = true
	return s.repository.UpdateFlag(ctx, flag)
}

// DeleteFlag deletes a flag by its ID
func (s *ServiceImpl) DeleteFlag(ctx context.Context, id uint) error {
	return s.repository.DeleteFlag(ctx, id)
}
