package api

import (
	"sync"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/killallgit/review-api/api/chapters"
	"github.com/killallgit/review-api/api/characters"
	"github.com/killallgit/review-api/api/episodes"
	"github.com/killallgit/review-api/api/events"
	"github.com/killallgit/review-api/api/flags"
	"github.com/killallgit/review-api/api/health"
	"github.com/killallgit/review-api/api/jobs"
	"github.com/killallgit/review-api/api/samples"
	"github.com/killallgit/review-api/api/settings"
	"github.com/killallgit/review-api/api/speakers"
	"github.com/killallgit/review-api/api/suggestions"
	"github.com/killallgit/review-api/api/types"
	"github.com/killallgit/review-api/api/version"
	_ "github.com/killallgit/review-api/docs/swagger"
	"github.com/killallgit/review-api/internal/review"
	chaptersService "github.com/killallgit/review-api/internal/services/chapters"
	charactersService "github.com/killallgit/review-api/internal/services/characters"
	flagsService "github.com/killallgit/review-api/internal/services/flags"
	jobsService "github.com/killallgit/review-api/internal/services/jobs"
	samplesService "github.com/killallgit/review-api/internal/services/samples"
	settingsService "github.com/killallgit/review-api/internal/services/settings"
	speakersService "github.com/killallgit/review-api/internal/services/speakers"
	suggestionsService "github.com/killallgit/review-api/internal/services/suggestions"
	transcriptsService "github.com/killallgit/review-api/internal/services/transcripts"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once) error {
	if deps == nil {
		deps = &types.Dependencies{}
	}

	// Register public routes (no rate limiting)
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine, deps)

	// Register Swagger documentation route
	engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(301, "/docs/index.html")
	})
	docsGroup := engine.Group("/docs")
	docsGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Setup 404 handler
	engine.NoRoute(NotFoundHandler())

	// API v1 routes
	v1 := engine.Group("/api/v1")

	if deps.DB != nil && deps.DB.DB != nil {
		initializeServices(deps)
	}

	// Event stream gets generous limits: one long-lived request per tab
	eventsGroup := v1.Group("/events")
	eventsGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, 5, 10))
	events.RegisterRoutes(eventsGroup, deps)

	// Episode views and transcript mutations (10 req/s, burst of 20)
	episodeGroup := v1.Group("/episodes")
	episodeGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, 10, 20))
	episodes.RegisterRoutes(episodeGroup, deps)

	// Annotation stores share general rate limiting (10 req/s, burst of 20)
	flagGroup := v1.Group("/flags")
	flagGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, 10, 20))
	flags.RegisterRoutes(flagGroup, deps)

	characterGroup := v1.Group("/characters")
	characterGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, 10, 20))
	characters.RegisterRoutes(characterGroup, deps)

	chapterGroup := v1.Group("/chapters")
	chapterGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, 10, 20))
	chapters.RegisterRoutes(chapterGroup, deps)

	sampleGroup := v1.Group("/samples")
	sampleGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, 10, 20))
	samples.RegisterRoutes(sampleGroup, deps)

	speakerGroup := v1.Group("/speakers")
	speakerGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, 10, 20))
	speakers.RegisterRoutes(speakerGroup, deps)

	suggestionGroup := v1.Group("/suggestions")
	suggestionGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, 10, 20))
	suggestions.RegisterRoutes(suggestionGroup, deps)

	// Job status polling is cheap but frequent (20 req/s, burst of 30)
	jobGroup := v1.Group("/jobs")
	jobGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, 20, 30))
	jobs.RegisterRoutes(jobGroup, deps)

	// Settings writes are rare (5 req/s, burst of 10)
	settingGroup := v1.Group("/settings")
	settingGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, 5, 10))
	settings.RegisterRoutes(settingGroup, deps)

	return nil
}

// initializeServices fills in any service not already wired by the caller
func initializeServices(deps *types.Dependencies) {
	db := deps.DB.DB

	if deps.JobService == nil {
		deps.JobService = jobsService.NewService(jobsService.NewRepository(db))
	}
	if deps.TranscriptService == nil {
		deps.TranscriptService = transcriptsService.NewService(transcriptsService.NewRepository(db), deps.JobService)
	}
	if deps.FlagService == nil {
		deps.FlagService = flagsService.NewService(flagsService.NewRepository(db), deps.TranscriptService)
	}
	if deps.CharacterService == nil {
		deps.CharacterService = charactersService.NewService(charactersService.NewRepository(db))
	}
	if deps.ChapterService == nil {
		deps.ChapterService = chaptersService.NewService(chaptersService.NewRepository(db))
	}
	if deps.SampleService == nil {
		deps.SampleService = samplesService.NewService(samplesService.NewRepository(db), deps.TranscriptService)
	}
	if deps.SpeakerService == nil {
		deps.SpeakerService = speakersService.NewService(speakersService.NewRepository(db))
	}
	if deps.SuggestionService == nil {
		deps.SuggestionService = suggestionsService.NewService(suggestionsService.NewRepository(db), deps.TranscriptService, deps.JobService)
	}
	if deps.SettingService == nil {
		deps.SettingService = settingsService.NewService(settingsService.NewRepository(db))
	}
	if deps.Hub == nil {
		deps.Hub = review.NewHub()
	}
	if deps.Loader == nil {
		deps.Loader = review.NewLoader(deps.TranscriptService, deps.SpeakerService)
	}
	if deps.Trackers == nil {
		deps.Trackers = review.NewTrackerSet(deps.JobService, deps.SuggestionService)
	}
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(404, gin.H{
			"status":  "error",
			"message": "The requested endpoint was not found",
			"path":    c.Request.URL.Path,
		})
	}
}
