package suggestions

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/review-api/api/types"
)

// RegisterRoutes registers suggestion routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	// GET /api/v1/suggestions/episode/:episodeId?kind= - Partitioned suggestions
	router.GET("/episode/:episodeId", GetPartitions(deps))

	// POST /api/v1/suggestions/episode/:episodeId/approve-all?kind= - Approve pending in order
	router.POST("/episode/:episodeId/approve-all", ApproveAll(deps))

	// POST /api/v1/suggestions/:id/approve - Approve one suggestion
	router.POST("/:id/approve", Approve(deps))

	// POST /api/v1/suggestions/:id/reject - Reject one suggestion
	router.POST("/:id/reject", Reject(deps))
}
