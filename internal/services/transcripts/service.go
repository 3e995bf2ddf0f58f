package transcripts

import (
	"context"
	"fmt"
	"log"

	"github.com/killallgit/review-api/internal/models"
	"github.com/killallgit/review-api/internal/services/jobs"
	"github.com/killallgit/review-api/pkg/segments"
)

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	repository Repository
	jobs       jobs.Service
}

// NewService creates a new transcript service. The job service is used
// to queue voice-sample extraction on speaker renames; pass nil to
// disable that.
func NewService(repository Repository, jobService jobs.Service) Service {
	return &ServiceImpl{
		repository: repository,
		jobs:       jobService,
	}
}

// GetTranscript retrieves the transcript record for an episode
func (s *ServiceImpl) GetTranscript(ctx context.Context, episodeID int64) (*models.Transcript, error) {
	return s.repository.GetByEpisodeID(ctx, episodeID)
}

// UpsertTranscript validates and stores a transcript record wholesale
func (s *ServiceImpl) UpsertTranscript(ctx context.Context, transcript *models.Transcript) error {
	if transcript.EpisodeID == 0 {
		return fmt.Errorf("episode ID is required")
	}

	// Derive the full text from the segment payload when the caller
	// didn't supply one.
	if transcript.FullText == "" && transcript.SegmentsJSON != "" {
		segs, err := segments.Parse(transcript.SegmentsJSON)
		if err == nil {
			transcript.FullText = segments.FullText(segs)
		}
	}

	return s.repository.Upsert(ctx, transcript)
}

// UpdateSpeakerNames merges entries into the persisted name map and
// queues voice-sample extraction for any supplied segment indices
func (s *ServiceImpl) UpdateSpeakerNames(ctx context.Context, episodeID int64, names models.SpeakerNameMap, sampleIndices ...int) error {
	if len(names) == 0 {
		return fmt.Errorf("name map must not be empty")
	}

	transcript, err := s.repository.GetByEpisodeID(ctx, episodeID)
	if err != nil {
		return err
	}

	if transcript.SpeakerNames == nil {
		transcript.SpeakerNames = make(models.SpeakerNameMap, len(names))
	}
	for label, name := range names {
		if label == "" {
			return fmt.Errorf("speaker label must not be empty")
		}
		transcript.SpeakerNames[label] = name
	}

	if err := s.repository.Save(ctx, transcript); err != nil {
		return err
	}

	s.enqueueSampleExtractions(ctx, transcript, sampleIndices)
	return nil
}

// enqueueSampleExtractions queues one extraction job per valid segment
// index. Best-effort: out-of-range indices and enqueue failures are
// logged and skipped, the rename already succeeded.
func (s *ServiceImpl) enqueueSampleExtractions(ctx context.Context, transcript *models.Transcript, sampleIndices []int) {
	if s.jobs == nil || len(sampleIndices) == 0 {
		return
	}

	segs, err := segments.Parse(transcript.SegmentsJSON)
	if err != nil {
		log.Printf("[DEBUG] Skipping sample extraction for episode %d, segments are malformed: %v", transcript.EpisodeID, err)
		return
	}

	for _, idx := range sampleIndices {
		if idx < 0 || idx >= len(segs) {
			log.Printf("[DEBUG] Skipping sample extraction for episode %d, segment %d out of range", transcript.EpisodeID, idx)
			continue
		}
		_, err := s.jobs.EnqueueJob(ctx, models.JobTypeSampleExtraction, models.JobPayload{
			"episode_id":    transcript.EpisodeID,
			"segment_index": idx,
			"speaker":       segs[idx].Speaker,
		})
		if err != nil {
			log.Printf("[DEBUG] Sample extraction enqueue failed for episode %d segment %d: %v", transcript.EpisodeID, idx, err)
		}
	}
}

// SaveEdits applies text corrections keyed by segment index
func (s *ServiceImpl) SaveEdits(ctx context.Context, episodeID int64, edits map[int]string) error {
	if len(edits) == 0 {
		return fmt.Errorf("no edits supplied")
	}

	transcript, err := s.repository.GetByEpisodeID(ctx, episodeID)
	if err != nil {
		return err
	}

	segs, err := segments.Parse(transcript.SegmentsJSON)
	if err != nil {
		return fmt.Errorf("transcript segments are malformed: %w", err)
	}

	// Reject every edit before applying any.
	for idx := range edits {
		if idx < 0 || idx >= len(segs) {
			return fmt.Errorf("segment index %d out of range (0..%d)", idx, len(segs)-1)
		}
	}

	for idx, text := range edits {
		segs[idx].Text = text
	}

	payload, err := segments.Marshal(segs)
	if err != nil {
		return err
	}

	transcript.SegmentsJSON = payload
	transcript.FullText = segments.FullText(segs)

	return s.repository.Save(ctx, transcript)
}

// GetAudioPath returns the audio path for an episode, or empty when no
// audio is attached
func (s *ServiceImpl) GetAudioPath(ctx context.Context, episodeID int64) (string, error) {
	transcript, err := s.repository.GetByEpisodeID(ctx, episodeID)
	if err != nil {
		return "", err
	}
	return transcript.AudioPath, nil
}
