package episodes

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/review-api/api/types"
	"github.com/killallgit/review-api/internal/services/transcripts"
)

// GetAudio returns the local audio path attached to an episode
func GetAudio(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		episodeID, ok := parseEpisodeID(c)
		if !ok {
			return
		}

		audioPath, err := deps.TranscriptService.GetAudioPath(c.Request.Context(), episodeID)
		if err != nil {
			if errors.Is(err, transcripts.ErrTranscriptNotFound) {
				c.JSON(http.StatusNotFound, types.NewErrorResponse("Episode transcript not found"))
				return
			}
			log.Printf("[ERROR] Failed to read audio path for episode %d: %v", episodeID, err)
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to read audio path"))
			return
		}
		if audioPath == "" {
			c.JSON(http.StatusNotFound, types.NewErrorResponse("Episode has no audio attached"))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":     types.StatusOK,
			"audio_path": audioPath,
		})
	}
}
