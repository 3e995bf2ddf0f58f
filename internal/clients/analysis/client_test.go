package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/killallgit/review-api/internal/models"
	"github.com/killallgit/review-api/pkg/segments"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_ClassifySegments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/classify", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req ClassificationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(42), req.EpisodeID)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"results": []map[string]interface{}{
				{"segment_index": 0, "speaker": "Matt", "confidence": 0.91},
				{"segment_index": 2, "speaker": "Woolie", "confidence": 0.84},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	suggestions, err := client.ClassifySegments(context.Background(), ClassificationRequest{
		EpisodeID: 42,
		Backend:   "pyannote",
		Segments:  []segments.Segment{{Index: 0, Speaker: "SPEAKER_00"}},
	})
	require.NoError(t, err)
	require.Len(t, suggestions, 2)
	assert.Equal(t, models.SuggestionClassification, suggestions[0].Kind)
	assert.Equal(t, "Matt", suggestions[0].SuggestedSpeaker)
	assert.Equal(t, 0.91, suggestions[0].Confidence)
	assert.Equal(t, int64(42), suggestions[1].EpisodeID)
}

func TestClient_RetriesTransientFailures(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"corrections": []interface{}{}})
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.PolishSegments(context.Background(), PolishRequest{EpisodeID: 42})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(3))
}

func TestClient_ClientErrorIsPermanent(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.ExtractSample(context.Background(), ExtractionRequest{EpisodeID: 42})
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_SuggestChapters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chapters", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"chapters": []map[string]interface{}{
				{"start_segment_index": 0, "end_segment_index": 4, "chapter_type_id": 1, "title": "intro"},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	chapters, err := client.SuggestChapters(context.Background(), ChapterRequest{EpisodeID: 42})
	require.NoError(t, err)
	require.Len(t, chapters, 1)
	assert.Equal(t, "intro", chapters[0].Title)
	assert.Equal(t, int64(42), chapters[0].EpisodeID)
}
