package episodes

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/review-api/api/types"
	"github.com/killallgit/review-api/internal/services/transcripts"
)

// GetView returns the resolved review view for one episode
func GetView(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		episodeIDStr := c.Param("id")
		episodeID, err := strconv.ParseInt(episodeIDStr, 10, 64)
		if err != nil {
			log.Printf("[ERROR] Invalid episode ID '%s': %v", episodeIDStr, err)
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid episode ID"))
			return
		}

		view, err := deps.Loader.Load(c.Request.Context(), episodeID)
		if err != nil {
			if errors.Is(err, transcripts.ErrTranscriptNotFound) {
				log.Printf("[WARN] No transcript for episode %d", episodeID)
				c.JSON(http.StatusNotFound, types.NewErrorResponse("Episode transcript not found"))
			} else {
				log.Printf("[ERROR] Failed to load episode %d: %v", episodeID, err)
				c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to load episode"))
			}
			return
		}

		log.Printf("[DEBUG] Loaded episode %d: %d segments, %d known speakers",
			episodeID, len(view.Segments), len(view.UniqueSpeakers))
		c.JSON(http.StatusOK, view)
	}
}

// parseEpisodeID is the shared :id param parser for this package
func parseEpisodeID(c *gin.Context) (int64, bool) {
	episodeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid episode ID"))
		return 0, false
	}
	return episodeID, true
}
