package speakers

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/review-api/api/types"
)

// RegisterRoutes registers speaker assignment routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	// POST /api/v1/speakers/assignments - Assign a label to a name or audio drop
	router.POST("/assignments", Assign(deps))

	// GET /api/v1/speakers/assignments/episode/:episodeId - An episode's assignments
	router.GET("/assignments/episode/:episodeId", GetAssignments(deps))

	// DELETE /api/v1/speakers/assignments/episode/:episodeId/:label - Clear one assignment
	router.DELETE("/assignments/episode/:episodeId/:label", ClearAssignment(deps))

	// GET /api/v1/speakers/library - Deduplicated voice library
	router.GET("/library", GetVoiceLibrary(deps))

	// POST /api/v1/speakers/drops - Register an audio drop
	router.POST("/drops", CreateAudioDrop(deps))

	// GET /api/v1/speakers/drops - List registered audio drops
	router.GET("/drops", ListAudioDrops(deps))
}
