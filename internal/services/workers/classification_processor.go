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

// ClassificationProcessor runs speaker classification jobs: it sends the
// episode's raw-labelled segments to the analysis backend and stores the
// returned identifications as pending suggestions.
type ClassificationProcessor struct {
	jobService  jobs.Service
	transcripts transcripts.Service
	suggestions suggestions.Service
	settings    settings.Service
	client      *analysis.Client
	hub         *review.Hub
}

// NewClassificationProcessor creates a new classification processor
func NewClassificationProcessor(
	jobService jobs.Service,
	transcriptService transcripts.Service,
	suggestionService suggestions.Service,
	settingService settings.Service,
	client *analysis.Client,
	hub *review.Hub,
) *ClassificationProcessor {
	return &ClassificationProcessor{
		jobService:  jobService,
		transcripts: transcriptService,
		suggestions: suggestionService,
		settings:    settingService,
		client:      client,
		hub:         hub,
	}
}

// CanProcess returns true if this processor can handle the job type
func (p *ClassificationProcessor) CanProcess(jobType models.JobType) bool {
	return jobType == models.JobTypeSpeakerClassification
}

// ProcessJob processes a speaker classification job
func (p *ClassificationProcessor) ProcessJob(ctx context.Context, job *models.Job) error {
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

	log.Printf("[DEBUG] Processing classification job %d for episode %d", job.ID, episodeID)
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

	// Only raw diarization labels are worth classifying; segments with a
	// confirmed human name are left alone.
	targets := make([]segments.Segment, 0, len(segs))
	for _, seg := range segs {
		if segments.IsRawLabel(seg.Speaker) {
			targets = append(targets, seg)
		}
	}
	if len(targets) == 0 {
		return models.NewProcessingError(
			"no_targets",
			"No raw-labelled segments to classify",
			fmt.Sprintf("episode %d has %d segments, none with raw labels", episodeID, len(segs)),
			nil,
		)
	}

	p.updateProgress(ctx, job, 30)

	backend, err := p.settings.Get(ctx, models.SettingEmbeddingBackend, "pyannote")
	if err != nil {
		log.Printf("[WARN] Could not read embedding backend setting, using default: %v", err)
		backend = "pyannote"
	}

	results, err := p.client.ClassifySegments(ctx, analysis.ClassificationRequest{
		EpisodeID: episodeID,
		Backend:   backend,
		Segments:  targets,
	})
	if err != nil {
		return models.NewProcessingError(
			"classification_failed",
			"Speaker classification backend failed",
			err.Error(),
			err,
		)
	}

	p.updateProgress(ctx, job, 80)

	count, err := p.suggestions.ReplaceSuggestions(ctx, episodeID, models.SuggestionClassification, results)
	if err != nil {
		return models.NewSystemError(
			"store_failed",
			"Failed to store classification suggestions",
			err.Error(),
			err,
		)
	}

	result := models.JobResult{
		"episode_id":       episodeID,
		"suggestion_count": count,
		"backend":          backend,
	}
	if err := p.jobService.CompleteJob(ctx, job.ID, result); err != nil {
		return fmt.Errorf("completing job: %w", err)
	}

	log.Printf("[DEBUG] Classification job %d stored %d suggestions for episode %d", job.ID, count, episodeID)
	return nil
}

func (p *ClassificationProcessor) updateProgress(ctx context.Context, job *models.Job, progress int) {
	if err := p.jobService.UpdateProgress(ctx, job.ID, progress); err != nil {
		log.Printf("[WARN] Failed to update job progress: %v", err)
	}
	publishProgress(p.hub, job, progress)
}
