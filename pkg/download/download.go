package download

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Options configures audio fetching behavior
type Options struct {
	AudioDir      string        // Directory episode audio is stored in
	MaxSize       int64         // Maximum file size in bytes (0 = no limit)
	Timeout       time.Duration // Per-attempt download timeout
	MaxElapsed    time.Duration // Total retry budget
	ProgressFunc  ProgressFunc  // Optional progress callback
	UserAgent     string        // User agent string
	ValidateAudio bool          // Validate content-type is audio
}

// ProgressFunc is called during download to report progress
type ProgressFunc func(downloaded, total int64)

// DefaultOptions returns default fetch options
func DefaultOptions() Options {
	return Options{
		AudioDir:      "./data/audio",
		MaxSize:       500 * 1024 * 1024, // 500MB default max
		Timeout:       5 * time.Minute,
		MaxElapsed:    15 * time.Minute,
		UserAgent:     "TranscriptReviewAPI/1.0",
		ValidateAudio: true,
	}
}

// Result contains information about a successful fetch
type Result struct {
	FilePath      string // Path to the stored audio file
	ContentType   string // Content-Type from response
	ContentLength int64  // Size in bytes
}

// Fetcher downloads episode audio into the local audio directory so the
// review tools (playback, diarization, sample extraction) can reach it.
type Fetcher struct {
	client  *http.Client
	options Options
}

// NewFetcher creates a new audio fetcher with the given options
func NewFetcher(options Options) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: options.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				DisableCompression:  true, // Don't compress audio
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		options: options,
	}
}

// Fetch downloads a URL into the audio directory as
// episode_<id>.<ext>, retrying transient failures with exponential
// backoff. An existing file for the episode is returned as-is.
func (f *Fetcher) Fetch(ctx context.Context, url string, episodeID int64) (*Result, error) {
	if err := os.MkdirAll(f.options.AudioDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create audio directory: %w", err)
	}

	target := f.targetPath(url, episodeID)
	if info, err := os.Stat(target); err == nil && info.Size() > 0 {
		log.Printf("[DEBUG] Audio for episode %d already present at %s", episodeID, target)
		return &Result{FilePath: target, ContentLength: info.Size()}, nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 2 * time.Second
	policy.MaxElapsedTime = f.options.MaxElapsed

	var result *Result
	operation := func() error {
		res, err := f.fetchOnce(ctx, url, episodeID, target)
		if err != nil {
			return err
		}
		result = res
		return nil
	}
	notify := func(err error, next time.Duration) {
		log.Printf("[WARN] Audio download for episode %d failed, retrying in %s: %v", episodeID, next, err)
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(policy, ctx), notify); err != nil {
		return nil, err
	}
	return result, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string, episodeID int64, target string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("User-Agent", f.options.UserAgent)
	req.Header.Set("Accept", "audio/*,*/*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return nil, backoff.Permanent(fmt.Errorf("server returned status %d", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return nil, fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if f.options.ValidateAudio && !isAudioContentType(contentType) {
		return nil, backoff.Permanent(fmt.Errorf("invalid content type: %s", contentType))
	}

	contentLength := resp.ContentLength
	if f.options.MaxSize > 0 && contentLength > f.options.MaxSize {
		return nil, backoff.Permanent(fmt.Errorf("file too large: %d bytes (max %d)", contentLength, f.options.MaxSize))
	}

	// Write to a partial file, then rename into place.
	partial := target + ".partial"
	file, err := os.Create(partial)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to create file: %w", err))
	}

	written, err := f.copyBody(resp.Body, file, contentLength)
	file.Close()
	if err != nil {
		os.Remove(partial)
		return nil, fmt.Errorf("failed to download: %w", err)
	}
	if err := os.Rename(partial, target); err != nil {
		os.Remove(partial)
		return nil, backoff.Permanent(fmt.Errorf("failed to store audio: %w", err))
	}

	log.Printf("[DEBUG] Downloaded %d bytes to %s", written, target)
	return &Result{
		FilePath:      target,
		ContentType:   contentType,
		ContentLength: written,
	}, nil
}

// targetPath derives the stored filename for an episode's audio
func (f *Fetcher) targetPath(url string, episodeID int64) string {
	ext := ".mp3" // default
	if parts := strings.Split(url, "."); len(parts) > 1 {
		lastPart := parts[len(parts)-1]
		// Remove query params if present
		if idx := strings.Index(lastPart, "?"); idx > 0 {
			lastPart = lastPart[:idx]
		}
		if isValidAudioExtension(lastPart) {
			ext = "." + lastPart
		}
	}
	return filepath.Join(f.options.AudioDir, fmt.Sprintf("episode_%d%s", episodeID, ext))
}

// copyBody copies the response body with optional progress tracking
func (f *Fetcher) copyBody(src io.Reader, dst *os.File, totalSize int64) (int64, error) {
	reader := src
	if f.options.ProgressFunc != nil && totalSize > 0 {
		reader = &progressReader{
			reader:   src,
			total:    totalSize,
			callback: f.options.ProgressFunc,
		}
	}

	if f.options.MaxSize > 0 {
		reader = &io.LimitedReader{
			R: reader,
			N: f.options.MaxSize,
		}
	}

	return io.Copy(dst, reader)
}

// Remove deletes an episode's stored audio file
func Remove(path string) error {
	if path == "" {
		return nil
	}

	log.Printf("[DEBUG] Removing audio file: %s", path)
	return os.Remove(path)
}

// progressReader wraps a reader and reports progress through a callback
type progressReader struct {
	reader     io.Reader
	total      int64
	downloaded int64
	callback   ProgressFunc
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if n > 0 {
		r.downloaded += int64(n)
		r.callback(r.downloaded, r.total)
	}
	return n, err
}

// isAudioContentType reports whether the content type looks like audio
func isAudioContentType(contentType string) bool {
	if contentType == "" {
		return true // some hosts omit it; let the extension decide
	}
	ct := strings.ToLower(contentType)
	return strings.HasPrefix(ct, "audio/") ||
		ct == "application/octet-stream" ||
		ct == "binary/octet-stream"
}

// isValidAudioExtension reports whether ext is a known audio extension
func isValidAudioExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case "mp3", "m4a", "aac", "ogg", "opus", "wav", "flac":
		return true
	}
	return false
}
