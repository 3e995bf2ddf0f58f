package episodes

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/review-api/api/types"
	"github.com/killallgit/review-api/internal/models"
	"github.com/killallgit/review-api/internal/services/transcripts"
)

// SpeakerNamesRequest carries label-to-name entries to merge into the
// transcript's stored name map
type SpeakerNamesRequest struct {
	Names map[string]string `json:"names" binding:"required"`

	// Optional segment indices to extract voice samples from once the
	// names are stored.
	SampleIndices []int `json:"sample_indices"`
}

// PutSpeakerNames merges entries into the episode's stored speaker-name map
func PutSpeakerNames(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		episodeID, ok := parseEpisodeID(c)
		if !ok {
			return
		}

		var req SpeakerNamesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Printf("[ERROR] Invalid speaker names payload for episode %d: %v", episodeID, err)
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid request body"))
			return
		}

		names := make(models.SpeakerNameMap, len(req.Names))
		for label, name := range req.Names {
			names[label] = name
		}

		if err := deps.TranscriptService.UpdateSpeakerNames(c.Request.Context(), episodeID, names, req.SampleIndices...); err != nil {
			if errors.Is(err, transcripts.ErrTranscriptNotFound) {
				c.JSON(http.StatusNotFound, types.NewErrorResponse("Episode transcript not found"))
			} else {
				log.Printf("[ERROR] Failed to update speaker names for episode %d: %v", episodeID, err)
				c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to update speaker names"))
			}
			return
		}

		log.Printf("[DEBUG] Updated %d speaker name(s) for episode %d", len(names), episodeID)
		c.JSON(http.StatusOK, types.BaseResponse{
			Status:  types.StatusOK,
			Message: "Speaker names updated",
		})
	}
}
