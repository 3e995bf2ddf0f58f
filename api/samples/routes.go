package samples

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/review-api/api/types"
)

// RegisterRoutes registers voice sample routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	// POST /api/v1/samples - Save a trimmed voice sample window
	router.POST("", Create(deps))

	// GET /api/v1/samples/episode/:episodeId - An episode's saved samples
	router.GET("/episode/:episodeId", GetByEpisode(deps))

	// GET /api/v1/samples/episode/:episodeId/count - Saved sample count
	router.GET("/episode/:episodeId/count", Count(deps))

	// POST /api/v1/samples/:id/extract - Queue audio extraction for a sample
	router.POST("/:id/extract", Extract(deps))

	// DELETE /api/v1/samples/:id - Remove a sample
	router.DELETE("/:id", Delete(deps))
}
