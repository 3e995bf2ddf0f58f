package samples

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/review-api/api/types"
	"github.com/killallgit/review-api/internal/models"
	samplesService "github.com/killallgit/review-api/internal/services/samples"
	"github.com/killallgit/review-api/internal/services/transcripts"
)

// CreateSampleRequest marks a trim window inside one segment. A zero
// start and end selects the whole segment.
type CreateSampleRequest struct {
	EpisodeID    int64   `json:"episode_id" binding:"required"`
	SegmentIndex int     `json:"segment_index"`
	SpeakerLabel string  `json:"speaker_label,omitempty"`
	StartTime    float64 `json:"start_time,omitempty"`
	EndTime      float64 `json:"end_time,omitempty"`
}

// Create saves a voice sample window, clamped into the segment's bounds
func Create(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateSampleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid request body"))
			return
		}

		sample, err := deps.SampleService.SaveSample(c.Request.Context(), &models.VoiceSample{
			EpisodeID:    req.EpisodeID,
			SegmentIndex: req.SegmentIndex,
			SpeakerLabel: req.SpeakerLabel,
			StartTime:    req.StartTime,
			EndTime:      req.EndTime,
		})
		if err != nil {
			if errors.Is(err, transcripts.ErrTranscriptNotFound) {
				c.JSON(http.StatusNotFound, types.NewErrorResponse("Episode transcript not found"))
				return
			}
			log.Printf("[ERROR] Failed to save sample for episode %d segment %d: %v",
				req.EpisodeID, req.SegmentIndex, err)
			c.JSON(http.StatusUnprocessableEntity, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Failed to save sample",
				Error:   err.Error(),
			})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"status": types.StatusOK,
			"sample": sample,
		})
	}
}

// GetByEpisode lists an episode's saved voice samples
func GetByEpisode(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		episodeID, err := strconv.ParseInt(c.Param("episodeId"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid episode ID"))
			return
		}

		samples, err := deps.SampleService.GetSamplesByEpisodeID(c.Request.Context(), episodeID)
		if err != nil {
			log.Printf("[ERROR] Failed to list samples for episode %d: %v", episodeID, err)
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to list samples"))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  types.StatusOK,
			"samples": samples,
			"count":   len(samples),
		})
	}
}

// Count returns how many samples an episode has saved
func Count(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		episodeID, err := strconv.ParseInt(c.Param("episodeId"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid episode ID"))
			return
		}

		count, err := deps.SampleService.CountSamples(c.Request.Context(), episodeID)
		if err != nil {
			log.Printf("[ERROR] Failed to count samples for episode %d: %v", episodeID, err)
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to count samples"))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": types.StatusOK,
			"count":  count,
		})
	}
}

// Extract queues a background extraction job for one saved sample
func Extract(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid sample ID"))
			return
		}

		sample, err := deps.SampleService.GetSample(c.Request.Context(), uint(id))
		if err != nil {
			if errors.Is(err, samplesService.ErrSampleNotFound) {
				c.JSON(http.StatusNotFound, types.NewErrorResponse("Sample not found"))
				return
			}
			log.Printf("[ERROR] Failed to fetch sample %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to fetch sample"))
			return
		}

		job, err := deps.JobService.EnqueueJob(c.Request.Context(), models.JobTypeSampleExtraction, models.JobPayload{
			"episode_id":    sample.EpisodeID,
			"segment_index": int64(sample.SegmentIndex),
			"speaker":       sample.SpeakerLabel,
		})
		if err != nil {
			log.Printf("[ERROR] Failed to enqueue extraction for sample %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to queue extraction"))
			return
		}

		log.Printf("[DEBUG] Queued extraction job %d for sample %d", job.ID, id)
		c.JSON(http.StatusAccepted, types.JobResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusQueued, Message: "Extraction queued"},
			JobID:        job.ID,
			JobType:      string(job.Type),
		})
	}
}

// Delete removes one saved sample
func Delete(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid sample ID"))
			return
		}

		if err := deps.SampleService.DeleteSample(c.Request.Context(), uint(id)); err != nil {
			if errors.Is(err, samplesService.ErrSampleNotFound) {
				c.JSON(http.StatusNotFound, types.NewErrorResponse("Sample not found"))
				return
			}
			log.Printf("[ERROR] Failed to delete sample %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to delete sample"))
			return
		}

		c.JSON(http.StatusOK, types.BaseResponse{Status: types.StatusOK, Message: "Sample deleted"})
	}
}
