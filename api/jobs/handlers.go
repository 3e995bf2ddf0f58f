package jobs

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/review-api/api/types"
	"github.com/killallgit/review-api/internal/models"
	jobsService "github.com/killallgit/review-api/internal/services/jobs"
)

// GetByID returns one job's status, progress, and result
func GetByID(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid job ID"))
			return
		}

		job, err := deps.JobService.GetJob(c.Request.Context(), uint(id))
		if err != nil {
			if errors.Is(err, jobsService.ErrJobNotFound) {
				c.JSON(http.StatusNotFound, types.NewErrorResponse("Job not found"))
				return
			}
			log.Printf("[ERROR] Failed to fetch job %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to fetch job"))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": types.StatusOK,
			"job":    job,
		})
	}
}

// GetForEpisode returns the most recent job of a type for an episode
func GetForEpisode(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		episodeID, err := strconv.ParseInt(c.Param("episodeId"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid episode ID"))
			return
		}
		jobType := models.JobType(c.Param("type"))

		job, err := deps.JobService.GetJobForEpisode(c.Request.Context(), jobType, episodeID)
		if err != nil {
			if errors.Is(err, jobsService.ErrJobNotFound) {
				c.JSON(http.StatusNotFound, types.NewErrorResponse("No such job for this episode"))
				return
			}
			log.Printf("[ERROR] Failed to fetch %s job for episode %d: %v", jobType, episodeID, err)
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to fetch job"))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": types.StatusOK,
			"job":    job,
		})
	}
}

// GetTrackers returns the per-family tracker state for an episode,
// keyed by suggestion kind
func GetTrackers(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		episodeID, err := strconv.ParseInt(c.Param("episodeId"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid episode ID"))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":   types.StatusOK,
			"trackers": deps.Trackers.Snapshots(episodeID),
		})
	}
}

// Retry requeues a failed job
func Retry(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid job ID"))
			return
		}

		job, err := deps.JobService.RetryFailedJob(c.Request.Context(), uint(id))
		if err != nil {
			if errors.Is(err, jobsService.ErrJobNotFound) {
				c.JSON(http.StatusNotFound, types.NewErrorResponse("Job not found"))
				return
			}
			log.Printf("[ERROR] Failed to retry job %d: %v", id, err)
			c.JSON(http.StatusUnprocessableEntity, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Job could not be retried",
				Error:   err.Error(),
			})
			return
		}

		log.Printf("[DEBUG] Requeued job %d (%s)", job.ID, job.Type)
		c.JSON(http.StatusAccepted, types.JobResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusQueued, Message: "Job requeued"},
			JobID:        job.ID,
			JobType:      string(job.Type),
		})
	}
}
