package speakers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/review-api/api/types"
	"github.com/killallgit/review-api/internal/models"
	speakersService "github.com/killallgit/review-api/internal/services/speakers"
)

// AssignRequest links a raw diarization label to a display name or an
// audio drop. Exactly one of display_name and audio_drop_id must be set.
type AssignRequest struct {
	EpisodeID   int64  `json:"episode_id" binding:"required"`
	Label       string `json:"label" binding:"required"`
	DisplayName string `json:"display_name,omitempty"`
	AudioDropID *uint  `json:"audio_drop_id,omitempty"`
}

// CreateAudioDropRequest registers a reusable audio drop
type CreateAudioDropRequest struct {
	Name     string `json:"name" binding:"required"`
	ClipPath string `json:"clip_path,omitempty"`
}

// Assign links a label to a name or drop, replacing any earlier assignment
func Assign(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AssignRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid request body"))
			return
		}

		assignment := &models.SpeakerAssignment{
			EpisodeID:   req.EpisodeID,
			Label:       req.Label,
			DisplayName: req.DisplayName,
			AudioDropID: req.AudioDropID,
		}

		if err := deps.SpeakerService.AssignSpeaker(c.Request.Context(), assignment); err != nil {
			if errors.Is(err, speakersService.ErrAudioDropNotFound) {
				c.JSON(http.StatusNotFound, types.NewErrorResponse("Audio drop not found"))
				return
			}
			log.Printf("[ERROR] Failed to assign speaker '%s' on episode %d: %v", req.Label, req.EpisodeID, err)
			c.JSON(http.StatusUnprocessableEntity, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Failed to assign speaker",
				Error:   err.Error(),
			})
			return
		}

		log.Printf("[DEBUG] Assigned speaker '%s' for episode %d", req.Label, req.EpisodeID)
		c.JSON(http.StatusOK, gin.H{
			"status":     types.StatusOK,
			"assignment": assignment,
		})
	}
}

// GetAssignments lists an episode's speaker assignments
func GetAssignments(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		episodeID, err := strconv.ParseInt(c.Param("episodeId"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid episode ID"))
			return
		}

		assignments, err := deps.SpeakerService.GetAssignmentsByEpisodeID(c.Request.Context(), episodeID)
		if err != nil {
			log.Printf("[ERROR] Failed to list assignments for episode %d: %v", episodeID, err)
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to list assignments"))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":      types.StatusOK,
			"assignments": assignments,
			"count":       len(assignments),
		})
	}
}

// ClearAssignment removes one label's assignment from an episode
func ClearAssignment(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		episodeID, err := strconv.ParseInt(c.Param("episodeId"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid episode ID"))
			return
		}
		label := c.Param("label")

		if err := deps.SpeakerService.ClearAssignment(c.Request.Context(), episodeID, label); err != nil {
			if errors.Is(err, speakersService.ErrAssignmentNotFound) {
				c.JSON(http.StatusNotFound, types.NewErrorResponse("Assignment not found"))
				return
			}
			log.Printf("[ERROR] Failed to clear assignment '%s' on episode %d: %v", label, episodeID, err)
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to clear assignment"))
			return
		}

		c.JSON(http.StatusOK, types.BaseResponse{Status: types.StatusOK, Message: "Assignment cleared"})
	}
}

// GetVoiceLibrary lists every known voice deduplicated by display name
func GetVoiceLibrary(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		library, err := deps.SpeakerService.VoiceLibrary(c.Request.Context())
		if err != nil {
			log.Printf("[ERROR] Failed to aggregate voice library: %v", err)
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to load voice library"))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": types.StatusOK,
			"voices": library,
			"count":  len(library),
		})
	}
}

// CreateAudioDrop registers a reusable drop clip
func CreateAudioDrop(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateAudioDropRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid request body"))
			return
		}

		drop, err := deps.SpeakerService.CreateAudioDrop(c.Request.Context(), req.Name, req.ClipPath)
		if err != nil {
			log.Printf("[ERROR] Failed to create audio drop '%s': %v", req.Name, err)
			c.JSON(http.StatusUnprocessableEntity, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Failed to create audio drop",
				Error:   err.Error(),
			})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"status": types.StatusOK,
			"drop":   drop,
		})
	}
}

// ListAudioDrops lists every registered drop
func ListAudioDrops(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		drops, err := deps.SpeakerService.ListAudioDrops(c.Request.Context())
		if err != nil {
			log.Printf("[ERROR] Failed to list audio drops: %v", err)
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to list audio drops"))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": types.StatusOK,
			"drops":  drops,
			"count":  len(drops),
		})
	}
}
