package flags

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/review-api/api/types"
)

// RegisterRoutes registers flag routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	// POST /api/v1/flags - Create (or replace) the active flag on a segment
	router.POST("", Create(deps))

	// GET /api/v1/flags/episode/:episodeId - All flags for an episode
	router.GET("/episode/:episodeId", GetByEpisode(deps))

	// GET /api/v1/flags/episode/:episodeId/segment/:index - Active flag on one segment
	router.GET("/episode/:episodeId/segment/:index", GetForSegment(deps))

	// POST /api/v1/flags/:id/resolve - Mark a flag handled
	router.POST("/:id/resolve", Resolve(deps))

	// DELETE /api/v1/flags/:id - Remove a flag outright
	router.DELETE("/:id", Delete(deps))
}
