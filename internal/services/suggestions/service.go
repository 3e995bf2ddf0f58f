package suggestions

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/killallgit/review-api/internal/models"
	"github.com/killallgit/review-api/internal/services/jobs"
	"github.com/killallgit/review-api/internal/services/transcripts"
	"github.com/killallgit/review-api/pkg/segments"
)

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	repository  Repository
	transcripts transcripts.Service
	jobs        jobs.Service
}

// NewService creates a new suggestion service
func NewService(repository Repository, transcriptService transcripts.Service, jobService jobs.Service) Service {
	return &ServiceImpl{
		repository:  repository,
		transcripts: transcriptService,
		jobs:        jobService,
	}
}

// ReplaceSuggestions swaps out an episode's suggestions of one kind.
// Earlier decisions on the old set are discarded with it.
func (s *ServiceImpl) ReplaceSuggestions(ctx context.Context, episodeID int64, kind models.SuggestionKind, suggestions []models.Suggestion) (int, error) {
	if episodeID == 0 {
		return 0, fmt.Errorf("episode ID is required")
	}

	for i := range suggestions {
		suggestions[i].EpisodeID = episodeID
		suggestions[i].Kind = kind
		suggestions[i].Approved = models.ApprovalPending
		if suggestions[i].UUID == "" {
			suggestions[i].UUID = uuid.New().String()
		}
	}

	if err := s.repository.DeleteByEpisodeAndKind(ctx, episodeID, kind); err != nil {
		return 0, err
	}
	if err := s.repository.CreateSuggestions(ctx, suggestions); err != nil {
		return 0, err
	}
	return len(suggestions), nil
}

// GetPartitions returns an episode's suggestions of one kind split into
// pending / approved / rejected
func (s *ServiceImpl) GetPartitions(ctx context.Context, episodeID int64, kind models.SuggestionKind) (*Partitions, error) {
	all, err := s.repository.GetSuggestionsByEpisode(ctx, episodeID, kind)
	if err != nil {
		return nil, err
	}

	partitions := &Partitions{
		Pending:  []models.Suggestion{},
		Approved: []models.Suggestion{},
		Rejected: []models.Suggestion{},
	}
	for _, suggestion := range all {
		switch suggestion.Approved {
		case models.ApprovalApproved:
			partitions.Approved = append(partitions.Approved, suggestion)
		case models.ApprovalRejected:
			partitions.Rejected = append(partitions.Rejected, suggestion)
		default:
			partitions.Pending = append(partitions.Pending, suggestion)
		}
	}
	return partitions, nil
}

// Approve marks a suggestion approved and applies its side effects
func (s *ServiceImpl) Approve(ctx context.Context, id uint) (*models.Suggestion, error) {
	suggestion, err := s.repository.GetSuggestionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.approve(ctx, suggestion)
}

func (s *ServiceImpl) approve(ctx context.Context, suggestion *models.Suggestion) (*models.Suggestion, error) {
	if err := suggestion.Decide(models.ApprovalApproved); err != nil {
		return nil, err
	}

	// Approving a polish correction pushes the corrected text into the
	// transcript before the decision is recorded, so a failed edit leaves
	// the suggestion pending and retryable.
	if suggestion.HasTextChange() {
		edits := map[int]string{suggestion.SegmentIndex: suggestion.CorrectedText}
		if err := s.transcripts.SaveEdits(ctx, suggestion.EpisodeID, edits); err != nil {
			return nil, fmt.Errorf("applying polish correction: %w", err)
		}
	}

	if err := s.repository.UpdateSuggestion(ctx, suggestion); err != nil {
		return nil, err
	}

	// A corrected segment is a chance to grow the voice library for its
	// speaker. Extraction is best-effort: nothing here fails the approval.
	if suggestion.HasTextChange() {
		s.enqueueExtraction(ctx, suggestion)
	}

	return suggestion, nil
}

// enqueueExtraction queues voice-sample extraction for the segment the
// correction touched, attributed to that segment's speaker. All failures
// are swallowed.
func (s *ServiceImpl) enqueueExtraction(ctx context.Context, suggestion *models.Suggestion) {
	transcript, err := s.transcripts.GetTranscript(ctx, suggestion.EpisodeID)
	if err != nil {
		log.Printf("[DEBUG] Skipping sample extraction for episode %d: %v", suggestion.EpisodeID, err)
		return
	}

	segs, err := segments.Parse(transcript.SegmentsJSON)
	if err != nil || suggestion.SegmentIndex < 0 || suggestion.SegmentIndex >= len(segs) {
		log.Printf("[DEBUG] Skipping sample extraction for episode %d segment %d: no such segment",
			suggestion.EpisodeID, suggestion.SegmentIndex)
		return
	}

	payload := models.JobPayload{
		"episode_id":    suggestion.EpisodeID,
		"segment_index": suggestion.SegmentIndex,
		"speaker":       segs[suggestion.SegmentIndex].Speaker,
	}
	if _, err := s.jobs.EnqueueJob(ctx, models.JobTypeSampleExtraction, payload); err != nil {
		log.Printf("[DEBUG] Could not enqueue sample extraction for episode %d segment %d: %v",
			suggestion.EpisodeID, suggestion.SegmentIndex, err)
	}
}

// Reject marks a suggestion rejected
func (s *ServiceImpl) Reject(ctx context.Context, id uint) (*models.Suggestion, error) {
	suggestion, err := s.repository.GetSuggestionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := suggestion.Decide(models.ApprovalRejected); err != nil {
		return nil, err
	}
	if err := s.repository.UpdateSuggestion(ctx, suggestion); err != nil {
		return nil, err
	}
	return suggestion, nil
}

// ApproveAll approves an episode's pending suggestions of one kind in
// segment order. It stops at the first failure; earlier approvals stand.
func (s *ServiceImpl) ApproveAll(ctx context.Context, episodeID int64, kind models.SuggestionKind) (int, error) {
	pending, err := s.repository.GetPendingByEpisode(ctx, episodeID, kind)
	if err != nil {
		return 0, err
	}

	approved := 0
	for i := range pending {
		if _, err := s.approve(ctx, &pending[i]); err != nil {
			return approved, fmt.Errorf("approving suggestion at segment %d: %w", pending[i].SegmentIndex, err)
		}
		approved++
	}
	return approved, nil
}
