package episodes

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/review-api/api/types"
	"github.com/killallgit/review-api/internal/services/transcripts"
)

// SegmentEdit is one text correction for one segment
type SegmentEdit struct {
	SegmentIndex int    `json:"segment_index"`
	Text         string `json:"text"`
}

// EditsRequest carries a batch of segment text corrections
type EditsRequest struct {
	Edits []SegmentEdit `json:"edits" binding:"required"`
}

// PostEdits applies text corrections to the stored segment payload
func PostEdits(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		episodeID, ok := parseEpisodeID(c)
		if !ok {
			return
		}

		var req EditsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Printf("[ERROR] Invalid edits payload for episode %d: %v", episodeID, err)
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid request body"))
			return
		}
		if len(req.Edits) == 0 {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("No edits supplied"))
			return
		}

		edits := make(map[int]string, len(req.Edits))
		for _, edit := range req.Edits {
			edits[edit.SegmentIndex] = edit.Text
		}

		if err := deps.TranscriptService.SaveEdits(c.Request.Context(), episodeID, edits); err != nil {
			switch {
			case errors.Is(err, transcripts.ErrTranscriptNotFound):
				c.JSON(http.StatusNotFound, types.NewErrorResponse("Episode transcript not found"))
			default:
				// Out-of-range indices are rejected before any write.
				log.Printf("[ERROR] Failed to save edits for episode %d: %v", episodeID, err)
				c.JSON(http.StatusUnprocessableEntity, types.ErrorResponse{
					Status:  types.StatusError,
					Message: "Edits not applied",
					Error:   err.Error(),
				})
			}
			return
		}

		log.Printf("[DEBUG] Applied %d edit(s) to episode %d", len(edits), episodeID)
		c.JSON(http.StatusOK, types.CountResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "Edits applied"},
			Count:        len(edits),
		})
	}
}
