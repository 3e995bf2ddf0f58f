package jobs

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/review-api/api/types"
)

// RegisterRoutes registers job routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	// GET /api/v1/jobs/:id - One job's status and result
	router.GET("/:id", GetByID(deps))

	// GET /api/v1/jobs/episode/:episodeId/:type - Latest job of a type for an episode
	router.GET("/episode/:episodeId/:type", GetForEpisode(deps))

	// GET /api/v1/jobs/episode/:episodeId/trackers - Tracker state for an episode
	router.GET("/episode/:episodeId/trackers", GetTrackers(deps))

	// POST /api/v1/jobs/:id/retry - Requeue a failed job
	router.POST("/:id/retry", Retry(deps))
}
