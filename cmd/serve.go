package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/killallgit/review-api/api"
	"github.com/killallgit/review-api/api/types"
	"github.com/killallgit/review-api/internal/clients/analysis"
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
	"github.com/killallgit/review-api/pkg/config"
	"github.com/killallgit/review-api/pkg/download"
	"github.com/spf13/cobra"
)

var (
	serverHost string
	serverPort int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Start the Transcript Review API server with the configured settings.

The server exposes the review endpoints, streams job events, and runs
the background worker pool for analysis jobs.

Example:
  review-api serve
  review-api serve --port 9191
  review-api serve --host 0.0.0.0 --port 9090`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Server flags
	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host (overrides config)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (overrides config)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Use config values if flags not provided
	if serverHost == "" {
		serverHost = cfg.Server.Host
	}
	if serverPort == 0 {
		serverPort = cfg.Server.Port
	}

	// Database
	db, err := database.Initialize(cfg.Database.Path, cfg.Database.Verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := db.MigrateAll(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Services
	jobService := jobs.NewService(jobs.NewRepository(db.DB))
	transcriptService := transcripts.NewService(transcripts.NewRepository(db.DB), jobService)
	flagService := flags.NewService(flags.NewRepository(db.DB), transcriptService)
	characterService := characters.NewService(characters.NewRepository(db.DB))
	chapterService := chapters.NewService(chapters.NewRepository(db.DB))
	sampleService := samples.NewService(samples.NewRepository(db.DB), transcriptService)
	speakerService := speakers.NewService(speakers.NewRepository(db.DB))
	suggestionService := suggestions.NewService(suggestions.NewRepository(db.DB), transcriptService, jobService)
	settingService := settings.NewService(settings.NewRepository(db.DB))

	hub := review.NewHub()
	loader := review.NewLoader(transcriptService, speakerService)
	trackerSet := review.NewTrackerSet(jobService, suggestionService)
	analysisClient := analysis.NewClient(cfg.Analysis.BaseURL, cfg.Analysis.Timeout)

	fetchOptions := download.DefaultOptions()
	fetchOptions.AudioDir = cfg.Storage.AudioDir
	fetchOptions.Timeout = cfg.Storage.DownloadTimeout
	fetcher := download.NewFetcher(fetchOptions)

	// Worker pool
	pool := workers.NewWorkerPool(jobService, hub, cfg.Processing.Workers, cfg.Processing.PollInterval)
	pool.RegisterProcessor(workers.NewClassificationProcessor(jobService, transcriptService, suggestionService, settingService, analysisClient, hub))
	pool.RegisterProcessor(workers.NewPolishProcessor(jobService, transcriptService, suggestionService, settingService, analysisClient, hub))
	pool.RegisterProcessor(workers.NewChapterLabelProcessor(jobService, transcriptService, chapterService, analysisClient, hub))
	pool.RegisterProcessor(workers.NewExtractionProcessor(jobService, transcriptService, sampleService, analysisClient, fetcher, hub))
	pool.RegisterProcessor(workers.NewDiarizationProcessor(jobService, transcriptService, analysisClient, fetcher, hub))

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	if err := pool.Start(workerCtx); err != nil {
		return fmt.Errorf("failed to start worker pool: %w", err)
	}
	defer pool.Stop()

	// Feed terminal job events into the per-episode trackers
	go trackerSet.Run(workerCtx, hub)

	// Periodic cleanup of finished jobs past the retention window
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				if removed, err := jobService.CleanupOldJobs(workerCtx, cfg.Processing.JobRetentionDays); err != nil {
					log.Printf("[WARN] Job cleanup failed: %v", err)
				} else if removed > 0 {
					log.Printf("[DEBUG] Job cleanup removed %d old jobs", removed)
				}
			}
		}
	}()

	// HTTP server
	address := fmt.Sprintf("%s:%d", serverHost, serverPort)
	server := api.NewServer(address)
	server.SetDatabase(db)
	server.SetDependencies(&types.Dependencies{
		DB:                db,
		TranscriptService: transcriptService,
		FlagService:       flagService,
		CharacterService:  characterService,
		ChapterService:    chapterService,
		SampleService:     sampleService,
		SpeakerService:    speakerService,
		SuggestionService: suggestionService,
		SettingService:    settingService,
		JobService:        jobService,
		WorkerPool:        pool,
		Hub:               hub,
		Loader:            loader,
		Trackers:          trackerSet,
	})

	if err := server.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	fmt.Printf("Starting Transcript Review API server on %s\n", address)

	// Channel to listen for interrupt signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Channel to receive server errors
	serverErr := make(chan error, 1)

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server error: %w", err)
		}
	}()

	fmt.Printf("Server is ready to handle requests at %s\n", address)

	// Wait for interrupt signal or server error
	select {
	case <-stop:
		fmt.Println("\nShutting down server...")
	case err := <-serverErr:
		fmt.Fprintf(os.Stderr, "\n%v\n", err)
		fmt.Println("Shutting down server...")
	}

	cancelWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Server forced to shutdown: %v\n", err)
		return err
	}

	fmt.Println("Server gracefully stopped")
	return nil
}
