package samples

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/killallgit/review-api/internal/models"
	"github.com/killallgit/review-api/internal/services/transcripts"
	"github.com/killallgit/review-api/pkg/segments"
)

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	repository  Repository
	transcripts transcripts.Service
}

// NewService creates a new voice sample service
func NewService(repository Repository, transcriptService transcripts.Service) Service {
	return &ServiceImpl{
		repository:  repository,
		transcripts: transcriptService,
	}
}

// SaveSample clamps the trim window into the segment's natural bounds,
// validates the result, and persists it
func (s *ServiceImpl) SaveSample(ctx context.Context, sample *models.VoiceSample) (*models.VoiceSample, error) {
	if sample.EpisodeID == 0 {
		return nil, fmt.Errorf("episode ID is required")
	}
	if sample.SegmentIndex < 0 {
		return nil, fmt.Errorf("segment index must not be negative")
	}

	transcript, err := s.transcripts.GetTranscript(ctx, sample.EpisodeID)
	if err != nil {
		return nil, err
	}
	segs, err := segments.Parse(transcript.SegmentsJSON)
	if err != nil {
		return nil, fmt.Errorf("transcript segments are malformed: %w", err)
	}
	if sample.SegmentIndex >= len(segs) {
		return nil, fmt.Errorf("segment index %d out of range (0..%d)", sample.SegmentIndex, len(segs)-1)
	}

	seg := segs[sample.SegmentIndex]

	// A zero window means "whole segment".
	if sample.StartTime == 0 && sample.EndTime == 0 {
		sample.StartTime = seg.StartTime
		sample.EndTime = seg.EndTime
	}

	// Clamp into the segment's bounds rather than rejecting.
	if sample.StartTime < seg.StartTime {
		sample.StartTime = seg.StartTime
	}
	if sample.EndTime > seg.EndTime {
		sample.EndTime = seg.EndTime
	}

	if sample.SpeakerLabel == "" {
		sample.SpeakerLabel = seg.Speaker
	}

	if err := sample.Validate(); err != nil {
		return nil, err
	}

	if sample.UUID == "" {
		sample.UUID = uuid.New().String()
	}

	if err := s.repository.CreateSample(ctx, sample); err != nil {
		return nil, err
	}

	log.Printf("[DEBUG] Saved voice sample %s for episode %d segment %d (%.2fs-%.2fs)",
		sample.UUID, sample.EpisodeID, sample.SegmentIndex, sample.StartTime, sample.EndTime)
	return sample, nil
}

// GetSamplesByEpisodeID retrieves all voice samples for an episode
func (s *ServiceImpl) GetSamplesByEpisodeID(ctx context.Context, episodeID int64) ([]models.VoiceSample, error) {
	return s.repository.GetSamplesByEpisodeID(ctx, episodeID)
}

// CountSamples counts the voice samples saved for an episode
func (s *ServiceImpl) CountSamples(ctx context.Context, episodeID int64) (int64, error) {
	return s.repository.CountSamplesByEpisodeID(ctx, episodeID)
}

// GetSample fetches one sample by its ID
func (s *ServiceImpl) GetSample(ctx context.Context, id uint) (*models.VoiceSample, error) {
	return s.repository.GetSampleByID(ctx, id)
}

// MarkExtracted records that a sample's audio has been cut out
func (s *ServiceImpl) MarkExtracted(ctx context.Context, id uint) error {
	sample, err := s.repository.GetSampleByID(ctx, id)
	if err != nil {
		return err
	}
	if sample.Extracted {
		return nil
	}

	sample.Extracted = true
	return s.repository.UpdateSample(ctx, sample)
}

// DeleteSample deletes a voice sample by its ID
func (s *ServiceImpl) DeleteSample(ctx context.Context, id uint) error {
	return s.repository.DeleteSample(ctx, id)
}
