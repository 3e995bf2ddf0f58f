package events

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/review-api/api/types"
)

// RegisterRoutes registers the job event stream route
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	// GET /api/v1/events?episode_id= - Server-sent job event stream
	router.GET("", Stream(deps))
}
