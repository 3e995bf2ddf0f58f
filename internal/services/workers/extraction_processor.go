package workers

import (
	"context"
	"fmt"
	"log"

	"github.com/killallgit/review-api/internal/clients/analysis"
	"github.com/killallgit/review-api/internal/models"
	"github.com/killallgit/review-api/internal/review"
	"github.com/killallgit/review-api/internal/services/jobs"
	"github.com/killallgit/review-api/internal/services/samples"
	"github.com/killallgit/review-api/internal/services/transcripts"
	"github.com/killallgit/review-api/pkg/download"
	"github.com/killallgit/review-api/pkg/segments"
)

// ExtractionProcessor runs voice sample extraction jobs: it asks the
// analysis backend to cut the segment's audio out of the episode file
// and records the extracted sample.
type ExtractionProcessor struct {
	jobService  jobs.Service
	transcripts transcripts.Service
	samples     samples.Service
	client      *analysis.Client
	fetcher     *download.Fetcher
	hub         *review.Hub
}

// NewExtractionProcessor creates a new sample extraction processor
func NewExtractionProcessor(
	jobService jobs.Service,
	transcriptService transcripts.Service,
	sampleService samples.Service,
	client *analysis.Client,
	fetcher *download.Fetcher,
	hub *review.Hub,
) *ExtractionProcessor {
	return &ExtractionProcessor{
		jobService:  jobService,
		transcripts: transcriptService,
		samples:     sampleService,
		client:      client,
		fetcher:     fetcher,
		hub:         hub,
	}
}

// CanProcess returns true if this processor can handle the job type
func (p *ExtractionProcessor) CanProcess(jobType models.JobType) bool {
	return jobType == models.JobTypeSampleExtraction
}

// ProcessJob processes a sample extraction job
func (p *ExtractionProcessor) ProcessJob(ctx context.Context, job *models.Job) error {
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
	segmentIndex, ok := job.GetPayloadInt64("segment_index")
	if !ok {
		return models.NewSystemError(
			"invalid_payload",
			"Invalid job payload",
			"missing segment_index in payload",
			nil,
		)
	}
	speaker, _ := job.GetPayloadString("speaker")

	log.Printf("[DEBUG] Processing extraction job %d for episode %d segment %d", job.ID, episodeID, segmentIndex)
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

	segs, err := segments.Parse(transcript.SegmentsJSON)
	if err != nil {
		return models.NewProcessingError(
			"malformed_segments",
			"Transcript segments could not be parsed",
			err.Error(),
			err,
		)
	}
	if segmentIndex < 0 || int(segmentIndex) >= len(segs) {
		return models.NewProcessingError(
			"segment_out_of_range",
			fmt.Sprintf("Segment %d out of range", segmentIndex),
			fmt.Sprintf("episode %d has %d segments", episodeID, len(segs)),
			nil,
		)
	}
	seg := segs[segmentIndex]
	if speaker == "" {
		speaker = seg.Speaker
	}

	p.updateProgress(ctx, job, 40)

	extraction, err := p.client.ExtractSample(ctx, analysis.ExtractionRequest{
		EpisodeID: episodeID,
		AudioPath: audioPath,
		Speaker:   speaker,
		StartTime: seg.StartTime,
		EndTime:   seg.EndTime,
	})
	if err != nil {
		return models.NewProcessingError(
			"extraction_failed",
			"Sample extraction backend failed",
			err.Error(),
			err,
		)
	}

	p.updateProgress(ctx, job, 80)

	sample := &models.VoiceSample{
		EpisodeID:    episodeID,
		SegmentIndex: int(segmentIndex),
		SpeakerLabel: speaker,
		Extracted:    true,
	}
	saved, err := p.samples.SaveSample(ctx, sample)
	if err != nil {
		return models.NewSystemError(
			"store_failed",
			"Failed to record extracted sample",
			err.Error(),
			err,
		)
	}

	result := models.JobResult{
		"episode_id":  episodeID,
		"sample_uuid": saved.UUID,
		"sample_path": extraction.SamplePath,
	}
	if err := p.jobService.CompleteJob(ctx, job.ID, result); err != nil {
		return fmt.Errorf("completing job: %w", err)
	}

	log.Printf("[DEBUG] Extraction job %d saved sample %s for episode %d", job.ID, saved.UUID, episodeID)
	return nil
}

func (p *ExtractionProcessor) updateProgress(ctx context.Context, job *models.Job, progress int) {
	if err := p.jobService.UpdateProgress(ctx, job.ID, progress); err != nil {
		log.Printf("[WARN] Failed to update job progress: %v", err)
	}
	publishProgress(p.hub, job, progress)
}
