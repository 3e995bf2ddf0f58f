package episodes

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/review-api/api/types"
)

// RegisterRoutes registers episode routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	// GET /api/v1/episodes/:id - Resolved episode view (segments + names)
	router.GET("/:id", GetView(deps))

	// PUT /api/v1/episodes/:id/speakers - Merge entries into the stored name map
	router.PUT("/:id/speakers", PutSpeakerNames(deps))

	// POST /api/v1/episodes/:id/edits - Apply text corrections by segment index
	router.POST("/:id/edits", PostEdits(deps))

	// GET /api/v1/episodes/:id/audio - Local audio path for playback
	router.GET("/:id/audio", GetAudio(deps))

	// POST /api/v1/episodes/:id/classify - Queue speaker classification
	router.POST("/:id/classify", PostClassify(deps))

	// POST /api/v1/episodes/:id/polish - Queue transcript polish
	router.POST("/:id/polish", PostPolish(deps))

	// POST /api/v1/episodes/:id/autolabel - Queue chapter auto-labeling
	router.POST("/:id/autolabel", PostAutoLabel(deps))

	// POST /api/v1/episodes/:id/reprocess - Queue diarization reprocessing
	router.POST("/:id/reprocess", PostReprocess(deps))
}
