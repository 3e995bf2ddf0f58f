package workers

import (
	"context"
	"fmt"
	"log"

	"github.com/killallgit/review-api/internal/clients/analysis"
	"github.com/killallgit/review-api/internal/models"
	"github.com/killallgit/review-api/internal/review"
	"github.com/killallgit/review-api/internal/services/jobs"
	"github.com/killallgit/review-api/internal/services/settings"
	"github.com/killallgit/review-api/internal/services/suggestions"
	"github.com/killallgit/review-api/internal/services/transcripts"
	"github.com/killallgit/review-api/pkg/segments"
)

// PolishProcessor runs transcript polish jobs: it sends the episode's
// segments to the analysis backend and stores text corrections as
// pending suggestions. Corrections identical to the original text are
// dropped before storage.
type PolishProcessor struct {
	jobService  jobs.Service
	transcripts transcripts.Service
	suggestions suggestions.Service
	settings    settings.Service
	client      *analysis.Client
	hub         *review.Hub
}

// NewPolishProcessor creates a new polish processor
func NewPolishProcessor(
	jobService jobs.Service,
	transcriptService transcripts.Service,
	suggestionService suggestions.Service,
	settingService settings.Service,
	client *analysis.Client,
	hub *review.Hub,
) *PolishProcessor {
	return &PolishProcessor{
		jobService:  jobService,
		transcripts: transcriptService,
		suggestions: suggestionService,
		settings:    settingService,
		client:      client,
		hub:         hub,
	}
}

// CanProcess returns true if this processor can handle the job type
func (p *PolishProcessor) CanProcess(jobType models.JobType) bool {
	return jobType == models.JobTypeTranscriptPolish
}

// ProcessJob processes a transcript polish job
func (p *PolishProcessor) ProcessJob(ctx context.Context, job *models.Job) error {
	if !p.CanProcess(job.Type) {
		return fmt.Errorf("unsupported job type: %s", job.Type)
	}

	episodeID, ok := job.EpisodeID()
	if !ok {
		return models.NewSystemError(
			"invalid_payload",
			"Invalid job payload",
			"missing episode_id in payload",
			nil,
		)
	}

	log.Printf("[DEBUG] Processing polish job %d for episode %d", job.ID, episodeID)
	p.updateProgress(ctx, job, 10)

	transcript, err := p.transcripts.GetTranscript(ctx, episodeID)
	if err != nil {
		return models.NewNotFoundError(
			"transcript_not_found",
			fmt.Sprintf("Transcript for episode %d not found", episodeID),
			err.Error(),
			err,
		)
	}

	segs, err := segments.Parse(transcript.SegmentsJSON)
	if err != nil {
		return models.NewProcessingError(
			"malformed_segments",
			"Transcript segments could not be parsed",
			err.Error(),
			err,
		)
	}
	if len(segs) == 0 {
		return models.NewProcessingError(
			"no_targets",
			"No segments to polish",
			fmt.Sprintf("episode %d transcript is empty", episodeID),
			nil,
		)
	}

	p.updateProgress(ctx, job, 30)

	model, err := p.settings.Get(ctx, models.SettingPolishModel, "")
	if err != nil {
		log.Printf("[WARN] Could not read polish model setting: %v", err)
	}

	corrections, err := p.client.PolishSegments(ctx, analysis.PolishRequest{
		EpisodeID: episodeID,
		Model:     model,
		Segments:  segs,
	})
	if err != nil {
		return models.NewProcessingError(
			"polish_failed",
			"Transcript polish backend failed",
			err.Error(),
			err,
		)
	}

	// No-op corrections would clutter the review queue.
	kept := corrections[:0]
	for _, correction := range corrections {
		if correction.CorrectedText != correction.OriginalText {
			kept = append(kept, correction)
		}
	}

	p.updateProgress(ctx, job, 80)

	count, err := p.suggestions.ReplaceSuggestions(ctx, episodeID, models.SuggestionPolish, kept)
	if err != nil {
		return models.NewSystemError(
			"store_failed",
			"Failed to store polish suggestions",
			err.Error(),
			err,
		)
	}

	result := models.JobResult{
		"episode_id":       episodeID,
		"suggestion_count": count,
	}
	if err := p.jobService.CompleteJob(ctx, job.ID, result); err != nil {
		return fmt.Errorf("completing job: %w", err)
	}

	log.Printf("[DEBUG] Polish job %d stored %d corrections for episode %d", job.ID, count, episodeID)
	return nil
}

func (p *PolishProcessor) updateProgress(ctx context.Context, job *models.Job, progress int) {
	if err := p.jobService.UpdateProgress(ctx, job.ID, progress); err != nil {
		log.Printf("[WARN] Failed to update job progress: %v", err)
	}
	publishProgress(p.hub, job, progress)
}
