package chapters

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/review-api/api/types"
)

// RegisterRoutes registers chapter routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	// GET /api/v1/chapters/types - List the chapter type catalog
	router.GET("/types", ListTypes(deps))

	// POST /api/v1/chapters/types - Add a chapter type
	router.POST("/types", CreateType(deps))

	// POST /api/v1/chapters - Create a chapter over a segment range
	router.POST("", Create(deps))

	// GET /api/v1/chapters/episode/:episodeId - An episode's chapters in start order
	router.GET("/episode/:episodeId", GetByEpisode(deps))

	// GET /api/v1/chapters/episode/:episodeId/segment/:index - Chapter covering a segment
	router.GET("/episode/:episodeId/segment/:index", GetForSegment(deps))

	// PUT /api/v1/chapters/:id - Update a chapter's range, type, or title
	router.PUT("/:id", Update(deps))

	// DELETE /api/v1/chapters/:id - Remove a chapter
	router.DELETE("/:id", Delete(deps))
}
