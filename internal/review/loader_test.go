package review

import (
	"context"
	"testing"

	"github.com/killallgit/review-api/internal/models"
	"github.com/killallgit/review-api/internal/services/transcripts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loaderSegments = `[
	{"speaker":"SPEAKER_00","text":"hello","start":0,"end":5},
	{"speaker":"SPEAKER_01","text":"hi there","start":5,"end":9},
	{"speaker":"Pat","text":"already named","start":9,"end":12}
]`

func TestLoader_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("assignments override the stored name map", func(t *testing.T) {
		mockTranscripts := new(MockTranscriptService)
		mockSpeakers := new(MockSpeakerService)
		loader := NewLoader(mockTranscripts, mockSpeakers)

		mockTranscripts.On("GetTranscript", ctx, int64(42)).Return(&models.Transcript{
			EpisodeID:    42,
			SegmentsJSON: loaderSegments,
			SpeakerNames: models.SpeakerNameMap{"SPEAKER_00": "Matt", "SPEAKER_01": "Maybe Woolie"},
			AudioPath:    "/audio/42.mp3",
		}, nil)
		mockSpeakers.On("AssignmentNameMap", ctx, int64(42)).
			Return(map[string]string{"SPEAKER_01": "Woolie"}, nil)

		view, err := loader.Load(ctx, 42)
		require.NoError(t, err)

		assert.Equal(t, "Matt", view.DisplayName("SPEAKER_00"))
		assert.Equal(t, "Woolie", view.DisplayName("SPEAKER_01"))
		assert.Equal(t, "Pat", view.DisplayName("Pat"))
		assert.Equal(t, "/audio/42.mp3", view.AudioPath)
		assert.Len(t, view.Segments, 3)
	})

	t.Run("unresolved labels fall back to themselves", func(t *testing.T) {
		mockTranscripts := new(MockTranscriptService)
		mockSpeakers := new(MockSpeakerService)
		loader := NewLoader(mockTranscripts, mockSpeakers)

		mockTranscripts.On("GetTranscript", ctx, int64(42)).Return(&models.Transcript{
			EpisodeID:    42,
			SegmentsJSON: loaderSegments,
		}, nil)
		mockSpeakers.On("AssignmentNameMap", ctx, int64(42)).
			Return(map[string]string{}, nil)

		view, err := loader.Load(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, "SPEAKER_00", view.DisplayName("SPEAKER_00"))
	})

	t.Run("unique speakers exclude raw-only noise", func(t *testing.T) {
		mockTranscripts := new(MockTranscriptService)
		mockSpeakers := new(MockSpeakerService)
		loader := NewLoader(mockTranscripts, mockSpeakers)

		mockTranscripts.On("GetTranscript", ctx, int64(42)).Return(&models.Transcript{
			EpisodeID:    42,
			SegmentsJSON: loaderSegments,
		}, nil)
		mockSpeakers.On("AssignmentNameMap", ctx, int64(42)).
			Return(map[string]string{}, nil)

		view, err := loader.Load(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, []string{"Pat", "SPEAKER_00", "SPEAKER_01"}, view.UniqueSpeakers)
	})

	t.Run("malformed segments degrade to an empty list", func(t *testing.T) {
		mockTranscripts := new(MockTranscriptService)
		mockSpeakers := new(MockSpeakerService)
		loader := NewLoader(mockTranscripts, mockSpeakers)

		mockTranscripts.On("GetTranscript", ctx, int64(42)).Return(&models.Transcript{
			EpisodeID:    42,
			SegmentsJSON: `{"segments": "not an array"}`,
		}, nil)
		mockSpeakers.On("AssignmentNameMap", ctx, int64(42)).
			Return(map[string]string{}, nil)

		view, err := loader.Load(ctx, 42)
		require.NoError(t, err)
		assert.Empty(t, view.Segments)
		assert.Empty(t, view.UniqueSpeakers)
	})

	t.Run("missing transcript propagates not-found", func(t *testing.T) {
		mockTranscripts := new(MockTranscriptService)
		mockSpeakers := new(MockSpeakerService)
		loader := NewLoader(mockTranscripts, mockSpeakers)

		mockTranscripts.On("GetTranscript", ctx, int64(99)).
			Return(nil, transcripts.ErrTranscriptNotFound)

		_, err := loader.Load(ctx, 99)
		assert.ErrorIs(t, err, transcripts.ErrTranscriptNotFound)
	})
}
