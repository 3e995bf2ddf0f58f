package episodes

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/review-api/api/types"
	"github.com/killallgit/review-api/internal/models"
	"github.com/killallgit/review-api/internal/review"
	"github.com/killallgit/review-api/internal/services/transcripts"
	"github.com/killallgit/review-api/pkg/segments"
)

// PostClassify queues a speaker classification job for the episode
func PostClassify(deps *types.Dependencies) gin.HandlerFunc {
	return startTrackedJob(deps, models.JobTypeSpeakerClassification)
}

// PostPolish queues a transcript polish job for the episode
func PostPolish(deps *types.Dependencies) gin.HandlerFunc {
	return startTrackedJob(deps, models.JobTypeTranscriptPolish)
}

// PostAutoLabel queues a chapter auto-label job for the episode
func PostAutoLabel(deps *types.Dependencies) gin.HandlerFunc {
	return enqueueEpisodeJob(deps, models.JobTypeChapterAutoLabel)
}

// PostReprocess queues a diarization reprocess job for the episode
func PostReprocess(deps *types.Dependencies) gin.HandlerFunc {
	return enqueueEpisodeJob(deps, models.JobTypeReprocessDiarization)
}

// startTrackedJob starts a suggestion-producing job through the episode's
// tracker. An episode with no transcript is a 404; a transcript with no
// segments is rejected up front with 422 instead of queueing a job that
// has nothing to work on; a job already running for this episode and
// family is a 409.
func startTrackedJob(deps *types.Dependencies, jobType models.JobType) gin.HandlerFunc {
	return func(c *gin.Context) {
		episodeID, ok := parseEpisodeID(c)
		if !ok {
			return
		}

		transcript, err := deps.TranscriptService.GetTranscript(c.Request.Context(), episodeID)
		if err != nil {
			if errors.Is(err, transcripts.ErrTranscriptNotFound) {
				c.JSON(http.StatusNotFound, types.NewErrorResponse("Transcript not found"))
				return
			}
			log.Printf("[ERROR] Failed to load transcript for episode %d: %v", episodeID, err)
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to load transcript"))
			return
		}

		segs, err := segments.Parse(transcript.SegmentsJSON)
		if err != nil {
			log.Printf("[WARN] Episode %d has malformed segments: %v", episodeID, err)
			segs = nil
		}

		tracker, err := deps.Trackers.Tracker(episodeID, jobType)
		if err != nil {
			log.Printf("[ERROR] No tracker for %s job on episode %d: %v", jobType, episodeID, err)
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to queue job"))
			return
		}

		job, err := tracker.Start(c.Request.Context(), len(segs))
		switch {
		case errors.Is(err, review.ErrNoTargets):
			c.JSON(http.StatusUnprocessableEntity, types.NewErrorResponse("Nothing to do: episode has no segments"))
			return
		case errors.Is(err, review.ErrTrackerBusy):
			c.JSON(http.StatusConflict, types.NewErrorResponse("A job of this type is already running for this episode"))
			return
		case err != nil:
			log.Printf("[ERROR] Failed to start %s job for episode %d: %v", jobType, episodeID, err)
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to queue job"))
			return
		}

		log.Printf("[DEBUG] Started %s job %d for episode %d (%d segments)", jobType, job.ID, episodeID, len(segs))
		c.JSON(http.StatusAccepted, types.JobResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusQueued, Message: "Job queued"},
			JobID:        job.ID,
			JobType:      string(job.Type),
			Progress:     job.Progress,
		})
	}
}

// enqueueEpisodeJob queues one background job keyed by episode. Duplicate
// requests while a job of the same type is pending or running return the
// existing job instead of queueing another.
func enqueueEpisodeJob(deps *types.Dependencies, jobType models.JobType) gin.HandlerFunc {
	return func(c *gin.Context) {
		episodeID, ok := parseEpisodeID(c)
		if !ok {
			return
		}

		job, err := deps.JobService.EnqueueUniqueJob(c.Request.Context(), jobType, models.JobPayload{
			"episode_id": episodeID,
		})
		if err != nil {
			log.Printf("[ERROR] Failed to enqueue %s job for episode %d: %v", jobType, episodeID, err)
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to queue job"))
			return
		}

		log.Printf("[DEBUG] Queued %s job %d for episode %d", jobType, job.ID, episodeID)
		c.JSON(http.StatusAccepted, types.JobResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusQueued, Message: "Job queued"},
			JobID:        job.ID,
			JobType:      string(job.Type),
			Progress:     job.Progress,
		})
	}
}
