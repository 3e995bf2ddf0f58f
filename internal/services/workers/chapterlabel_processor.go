package workers

import (
	"context"
	"fmt"
	"log"

	"github.com/killallgit/review-api/internal/clients/analysis"
	"github.com/killallgit/review-api/internal/models"
	"github.com/killallgit/review-api/internal/review"
	"github.com/killallgit/review-api/internal/services/chapters"
	"github.com/killallgit/review-api/internal/services/jobs"
	"github.com/killallgit/review-api/internal/services/transcripts"
	"github.com/killallgit/review-api/pkg/segments"
)

// ChapterLabelProcessor runs chapter auto-label jobs: it asks the
// analysis backend for chapter boundaries and replaces the episode's
// chapters with the proposal.
type ChapterLabelProcessor struct {
	jobService  jobs.Service
	transcripts transcripts.Service
	chapters    chapters.Service
	client      *analysis.Client
	hub         *review.Hub
}

// NewChapterLabelProcessor creates a new chapter auto-label processor
func NewChapterLabelProcessor(
	jobService jobs.Service,
	transcriptService transcripts.Service,
	chapterService chapters.Service,
	client *analysis.Client,
	hub *review.Hub,
) *ChapterLabelProcessor {
	return &ChapterLabelProcessor{
		jobService:  jobService,
		transcripts: transcriptService,
		chapters:    chapterService,
		client:      client,
		hub:         hub,
	}
}

// CanProcess returns true if this processor can handle the job type
func (p *ChapterLabelProcessor) CanProcess(jobType models.JobType) bool {
	return jobType == models.JobTypeChapterAutoLabel
}

// ProcessJob processes a chapter auto-label job
func (p *ChapterLabelProcessor) ProcessJob(ctx context.Context, job *models.Job) error {
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

	log.Printf("[DEBUG] Processing chapter auto-label job %d for episode %d", job.ID, episodeID)
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

	p.updateProgress(ctx, job, 40)

	proposed, err := p.client.SuggestChapters(ctx, analysis.ChapterRequest{
		EpisodeID: episodeID,
		Segments:  segs,
	})
	if err != nil {
		return models.NewProcessingError(
			"chapter_suggestion_failed",
			"Chapter suggestion backend failed",
			err.Error(),
			err,
		)
	}

	p.updateProgress(ctx, job, 80)

	count, err := p.chapters.ReplaceChapters(ctx, episodeID, proposed)
	if err != nil {
		return models.NewSystemError(
			"store_failed",
			"Failed to store proposed chapters",
			err.Error(),
			err,
		)
	}

	result := models.JobResult{
		"episode_id":    episodeID,
		"chapter_count": count,
	}
	if err := p.jobService.CompleteJob(ctx, job.ID, result); err != nil {
		return fmt.Errorf("completing job: %w", err)
	}

	log.Printf("[DEBUG] Chapter auto-label job %d wrote %d chapters for episode %d", job.ID, count, episodeID)
	return nil
}

func (p *ChapterLabelProcessor) updateProgress(ctx context.Context, job *models.Job, progress int) {
	if err := p.jobService.UpdateProgress(ctx, job.ID, progress); err != nil {
		log.Printf("[WARN] Failed to update job progress: %v", err)
	}
	publishProgress(p.hub, job, progress)
}
