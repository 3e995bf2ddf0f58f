package characters

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/review-api/api/types"
)

// RegisterRoutes registers character routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	// POST /api/v1/characters - Add a character to the catalog
	router.POST("", Create(deps))

	// GET /api/v1/characters - List the character catalog
	router.GET("", List(deps))

	// POST /api/v1/characters/appearances - Tag a character on a segment
	router.POST("/appearances", TagAppearance(deps))

	// GET /api/v1/characters/appearances/episode/:episodeId - Appearances in an episode
	router.GET("/appearances/episode/:episodeId", GetAppearances(deps))

	// DELETE /api/v1/characters/appearances/:id - Remove an appearance tag
	router.DELETE("/appearances/:id", RemoveAppearance(deps))
}
