package workers

import (
	"context"
	"fmt"
	"log"

	"github.com/killallgit/review-api/internal/models"
	"github.com/killallgit/review-api/internal/services/transcripts"
	"github.com/killallgit/review-api/pkg/download"
)

// resolveAudio returns a local audio path for the transcript, fetching the
// episode audio from its source URL when only the URL is known. The fetched
// path is recorded back on the transcript so later jobs skip the download.
func resolveAudio(ctx context.Context, fetcher *download.Fetcher, transcriptService transcripts.Service, transcript *models.Transcript) (string, error) {
	if transcript.AudioPath != "" {
		return transcript.AudioPath, nil
	}
	if fetcher == nil || transcript.AudioURL == "" {
		return "", fmt.Errorf("episode %d has no audio attached", transcript.EpisodeID)
	}

	log.Printf("[DEBUG] Fetching audio for episode %d from %s", transcript.EpisodeID, transcript.AudioURL)
	result, err := fetcher.Fetch(ctx, transcript.AudioURL, transcript.EpisodeID)
	if err != nil {
		return "", fmt.Errorf("fetching episode audio: %w", err)
	}

	transcript.AudioPath = result.FilePath
	if err := transcriptService.UpsertTranscript(ctx, transcript); err != nil {
		log.Printf("[WARN] Failed to record fetched audio path for episode %d: %v", transcript.EpisodeID, err)
	}
	return result.FilePath, nil
}
