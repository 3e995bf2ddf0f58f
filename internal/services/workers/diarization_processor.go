package workers

import (
	"context"
	"fmt"
	"log"

	"github.com/killallgit/review-api/internal/clients/analysis"
	"github.com/killallgit/review-api/internal/models"
	"github.com/killallgit/review-api/internal/review"
	"github.com/killallgit/review-api/internal/services/jobs"
	"github.com/killallgit/review-api/internal/services/transcripts"
	"github.com/killallgit/review-api/pkg/download"
	"github.com/killallgit/review-api/pkg/segments"
)

// DiarizationProcessor runs diarization reprocess jobs: it asks the
// analysis backend to re-run diarization on the episode audio and
// replaces the stored segment payload with the result. The stored
// speaker-name map and assignments survive the swap.
type DiarizationProcessor struct {
	jobService  jobs.Service
	transcripts transcripts.Service
	client      *analysis.Client
	fetcher     *download.Fetcher
	hub         *review.Hub
}

// NewDiarizationProcessor creates a new diarization reprocess processor
func NewDiarizationProcessor(
	jobService jobs.Service,
	transcriptService transcripts.Service,
	client *analysis.Client,
	fetcher *download.Fetcher,
	hub *review.Hub,
) *DiarizationProcessor {
	return &DiarizationProcessor{
		jobService:  jobService,
		transcripts: transcriptService,
		client:      client,
		fetcher:     fetcher,
		hub:         hub,
	}
}

// CanProcess returns true if this processor can handle the job type
func (p *DiarizationProcessor) CanProcess(jobType models.JobType) bool {
	return jobType == models.JobTypeReprocessDiarization
}

// ProcessJob processes a diarization reprocess job
func (p *DiarizationProcessor) ProcessJob(ctx context.Context, job *models.Job) error {
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

	log.Printf("[DEBUG] Processing diarization reprocess job %d for episode %d", job.ID, episodeID)
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
	audioPath, err := resolveAudio(ctx, p.fetcher, p.transcripts, transcript)
	if err != nil {
		return models.NewNotFoundError(
			"audio_missing",
			fmt.Sprintf("Episode %d has no audio attached", episodeID),
			err.Error(),
			err,
		)
	}

	p.updateProgress(ctx, job, 30)

	result, err := p.client.ReprocessDiarization(ctx, analysis.DiarizationRequest{
		EpisodeID: episodeID,
		AudioPath: audioPath,
	})
	if err != nil {
		return models.NewProcessingError(
			"diarization_failed",
			"Diarization backend failed",
			err.Error(),
			err,
		)
	}

	p.updateProgress(ctx, job, 80)

	payload, err := segments.Marshal(result.Segments)
	if err != nil {
		return models.NewProcessingError(
			"marshal_failed",
			"Could not serialize re-diarized segments",
			err.Error(),
			err,
		)
	}

	transcript.SegmentsJSON = payload
	transcript.HasDiarization = true
	if err := p.transcripts.UpsertTranscript(ctx, transcript); err != nil {
		return models.NewSystemError(
			"store_failed",
			"Failed to store re-diarized transcript",
			err.Error(),
			err,
		)
	}

	jobResult := models.JobResult{
		"episode_id":    episodeID,
		"segment_count": len(result.Segments),
	}
	if err := p.jobService.CompleteJob(ctx, job.ID, jobResult); err != nil {
		return fmt.Errorf("completing job: %w", err)
	}

	log.Printf("[DEBUG] Diarization job %d replaced %d segments for episode %d", job.ID, len(result.Segments), episodeID)
	return nil
}

func (p *DiarizationProcessor) updateProgress(ctx context.Context, job *models.Job, progress int) {
	if err := p.jobService.UpdateProgress(ctx, job.ID, progress); err != nil {
		log.Printf("[WARN] Failed to update job progress: %v", err)
	}
	publishProgress(p.hub, job, progress)
}
