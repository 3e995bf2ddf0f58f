package events

import (
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/review-api/api/types"
)

// Stream pushes job events to the client as server-sent events. An
// optional ?episode_id= filter drops events for other episodes.
func Stream(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.Hub == nil {
			c.JSON(http.StatusServiceUnavailable, types.NewErrorResponse("Event hub not available"))
			return
		}

		var episodeFilter int64
		if raw := c.Query("episode_id"); raw != "" {
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid episode ID"))
				return
			}
			episodeFilter = parsed
		}

		events, cancel := deps.Hub.Subscribe()
		defer cancel()

		log.Printf("[DEBUG] Event stream opened for %s (episode filter: %d)", c.ClientIP(), episodeFilter)

		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")

		clientGone := c.Request.Context().Done()
		c.Stream(func(w io.Writer) bool {
			select {
			case <-clientGone:
				return false
			case event, ok := <-events:
				if !ok {
					return false
				}
				if episodeFilter != 0 && event.EpisodeID != episodeFilter {
					return true
				}
				c.SSEvent("job", event)
				return true
			}
		})

		log.Printf("[DEBUG] Event stream closed for %s", c.ClientIP())
	}
}
