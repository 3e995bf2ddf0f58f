package types

import (
	"github.com/killallgit/review-api/internal/database"
	"github.com/killallgit/review-api/internal/review"
	"github.com/killallgit/review-api/internal/services/chapters"
	"github.com/killallgit/review-api/internal/services/characters"
	"github.com/killallgit/review-api/internal/services/flags"
	"github.com/killallgit/review-api/internal/services/jobs"
	"github.com/killallgit/review-api/internal/services/samples"
	"github.com/killallgit/review-api/internal/services/settings"
	"github.com/killallgit/review-api/internal/services/speakers"
	"github.com/killallgit/review-api/internal/services/suggestions"
	"github.com/killallgit/review-api/internal/services/transcripts"
	"github.com/killallgit/review-api/internal/services/workers"
)

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB                *database.DB
	TranscriptService transcripts.Service
	FlagService       flags.Service
	CharacterService  characters.Service
	ChapterService    chapters.Service
	SampleService     samples.Service
	SpeakerService    speakers.Service
	SuggestionService suggestions.Service
	SettingService    settings.Service
	JobService        jobs.Service
	WorkerPool        *workers.WorkerPool
	Hub               *review.Hub
	Loader            *review.Loader
	Trackers          *review.TrackerSet
}
