package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/killallgit/review-api/internal/models"
	"github.com/killallgit/review-api/pkg/segments"
)

// Client talks to the analysis backend that runs speaker classification,
// transcript polish, chapter suggestion, and sample extraction. Requests
// retry transient failures with exponential backoff; 4xx responses are
// permanent.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxElapsed time.Duration
}

// NewClient creates a new analysis client
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		maxElapsed: 2 * time.Minute,
	}
}

// ClassificationRequest asks the backend to identify speakers for a set
// of segments.
type ClassificationRequest struct {
	EpisodeID int64              `json:"episode_id"`
	Backend   string             `json:"backend,omitempty"`
	Segments  []segments.Segment `json:"segments"`
}

// classificationResponse is the backend's per-segment identification.
type classificationResponse struct {
	Results []struct {
		SegmentIndex int     `json:"segment_index"`
		Speaker      string  `json:"speaker"`
		Confidence   float64 `json:"confidence"`
	} `json:"results"`
}

// ClassifySegments asks the backend who is speaking in each segment
func (c *Client) ClassifySegments(ctx context.Context, req ClassificationRequest) ([]models.Suggestion, error) {
	var resp classificationResponse
	if err := c.post(ctx, "/v1/classify", req, &resp); err != nil {
		return nil, fmt.Errorf("classifying segments: %w", err)
	}

	suggestions := make([]models.Suggestion, 0, len(resp.Results))
	for _, result := range resp.Results {
		suggestions = append(suggestions, models.Suggestion{
			EpisodeID:        req.EpisodeID,
			Kind:             models.SuggestionClassification,
			SegmentIndex:     result.SegmentIndex,
			SuggestedSpeaker: result.Speaker,
			Confidence:       result.Confidence,
		})
	}
	return suggestions, nil
}

// PolishRequest asks the backend to clean up segment text.
type PolishRequest struct {
	EpisodeID int64              `json:"episode_id"`
	Model     string             `json:"model,omitempty"`
	Segments  []segments.Segment `json:"segments"`
}

type polishResponse struct {
	Corrections []struct {
		SegmentIndex  int     `json:"segment_index"`
		OriginalText  string  `json:"original_text"`
		CorrectedText string  `json:"corrected_text"`
		Confidence    float64 `json:"confidence"`
	} `json:"corrections"`
}

// PolishSegments asks the backend for text corrections
func (c *Client) PolishSegments(ctx context.Context, req PolishRequest) ([]models.Suggestion, error) {
	var resp polishResponse
	if err := c.post(ctx, "/v1/polish", req, &resp); err != nil {
		return nil, fmt.Errorf("polishing segments: %w", err)
	}

	suggestions := make([]models.Suggestion, 0, len(resp.Corrections))
	for _, correction := range resp.Corrections {
		suggestions = append(suggestions, models.Suggestion{
			EpisodeID:     req.EpisodeID,
			Kind:          models.SuggestionPolish,
			SegmentIndex:  correction.SegmentIndex,
			OriginalText:  correction.OriginalText,
			CorrectedText: correction.CorrectedText,
			Confidence:    correction.Confidence,
		})
	}
	return suggestions, nil
}

// ChapterRequest asks the backend to propose chapter boundaries.
type ChapterRequest struct {
	EpisodeID int64              `json:"episode_id"`
	Segments  []segments.Segment `json:"segments"`
}

type chapterResponse struct {
	Chapters []struct {
		StartSegmentIndex int     `json:"start_segment_index"`
		EndSegmentIndex   int     `json:"end_segment_index"`
		ChapterTypeID     uint    `json:"chapter_type_id"`
		Title             string  `json:"title"`
		StartTime         float64 `json:"start_time"`
		EndTime           float64 `json:"end_time"`
	} `json:"chapters"`
}

// SuggestChapters asks the backend for chapter boundaries
func (c *Client) SuggestChapters(ctx context.Context, req ChapterRequest) ([]models.Chapter, error) {
	var resp chapterResponse
	if err := c.post(ctx, "/v1/chapters", req, &resp); err != nil {
		return nil, fmt.Errorf("suggesting chapters: %w", err)
	}

	chapters := make([]models.Chapter, 0, len(resp.Chapters))
	for _, ch := range resp.Chapters {
		chapters = append(chapters, models.Chapter{
			EpisodeID:         req.EpisodeID,
			ChapterTypeID:     ch.ChapterTypeID,
			StartSegmentIndex: ch.StartSegmentIndex,
			EndSegmentIndex:   ch.EndSegmentIndex,
			StartTime:         ch.StartTime,
			EndTime:           ch.EndTime,
			Title:             ch.Title,
		})
	}
	return chapters, nil
}

// ExtractionRequest asks the backend to cut a voice sample out of the
// episode audio.
type ExtractionRequest struct {
	EpisodeID int64   `json:"episode_id"`
	AudioPath string  `json:"audio_path"`
	Speaker   string  `json:"speaker"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

// ExtractionResult is the backend's record of the extracted sample.
type ExtractionResult struct {
	SamplePath string `json:"sample_path"`
}

// ExtractSample asks the backend to extract a voice sample
func (c *Client) ExtractSample(ctx context.Context, req ExtractionRequest) (*ExtractionResult, error) {
	var result ExtractionResult
	if err := c.post(ctx, "/v1/samples/extract", req, &result); err != nil {
		return nil, fmt.Errorf("extracting sample: %w", err)
	}
	return &result, nil
}

// DiarizationRequest asks the backend to re-run diarization on the
// episode audio.
type DiarizationRequest struct {
	EpisodeID int64  `json:"episode_id"`
	AudioPath string `json:"audio_path"`
}

// DiarizationResult carries the re-diarized segment payload.
type DiarizationResult struct {
	Segments []segments.Segment `json:"segments"`
}

// ReprocessDiarization asks the backend to re-run diarization
func (c *Client) ReprocessDiarization(ctx context.Context, req DiarizationRequest) (*DiarizationResult, error) {
	var result DiarizationResult
	if err := c.post(ctx, "/v1/diarize", req, &result); err != nil {
		return nil, fmt.Errorf("reprocessing diarization: %w", err)
	}
	return &result, nil
}

// post sends a JSON request and decodes the JSON response, retrying
// transient failures
func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return backoff.Permanent(fmt.Errorf("backend rejected request: status %d: %s", resp.StatusCode, data))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("decoding response: %w", err))
		}
		return nil
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.MaxElapsedTime = c.maxElapsed
	expBackoff.InitialInterval = 500 * time.Millisecond

	notify := func(err error, wait time.Duration) {
		log.Printf("[DEBUG] Analysis request %s failed, retrying in %v: %v", path, wait, err)
	}

	return backoff.RetryNotify(operation, backoff.WithContext(expBackoff, ctx), notify)
}
