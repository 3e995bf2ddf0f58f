package cmd

import (
	"fmt"

	"github.com/killallgit/review-api/internal/database"
	"github.com/killallgit/review-api/pkg/config"
	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Apply the database schema for the Transcript Review API.

This runs GORM auto-migration for every persisted model: transcripts,
flags, characters, chapters, voice samples, audio drops, speaker
assignments, suggestions, settings, and jobs.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	dbPath := config.GetString("database.path")
	verbose := config.GetBool("database.verbose")

	fmt.Printf("Migrating database at %s\n", dbPath)

	db, err := database.Initialize(dbPath, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := db.MigrateAll(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Println("Database schema is up to date")
	return nil
}
