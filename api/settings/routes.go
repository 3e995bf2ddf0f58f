package settings

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/review-api/api/types"
)

// RegisterRoutes registers setting routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	// GET /api/v1/settings - Every stored setting
	router.GET("", List(deps))

	// GET /api/v1/settings/:key - One setting (404 when never written)
	router.GET("/:key", Get(deps))

	// PUT /api/v1/settings/:key - Write one setting
	router.PUT("/:key", Set(deps))
}
