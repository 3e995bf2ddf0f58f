package review

import (
	"context"
	"errors"
	"testing"

	"github.com/killallgit/review-api/internal/models"
	"github.com/killallgit/review-api/internal/services/suggestions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newClassificationTracker() (*MockJobService, *MockSuggestionService, *Tracker) {
	mockJobs := new(MockJobService)
	mockSuggestions := new(MockSuggestionService)
	tracker := NewTracker(models.JobTypeSpeakerClassification, models.SuggestionClassification, mockJobs, mockSuggestions)
	tracker.BindEpisode(42)
	return mockJobs, mockSuggestions, tracker
}

func TestTracker_Start(t *testing.T) {
	ctx := context.Background()

	t.Run("idle to running on successful enqueue", func(t *testing.T) {
		mockJobs, _, tracker := newClassificationTracker()

		mockJobs.On("EnqueueUniqueJob", ctx, models.JobTypeSpeakerClassification, mock.AnythingOfType("models.JobPayload")).
			Return(&models.Job{Type: models.JobTypeSpeakerClassification}, nil)

		_, err := tracker.Start(ctx, 12)
		require.NoError(t, err)
		assert.Equal(t, TrackerRunning, tracker.Snapshot().State)
	})

	t.Run("rejects zero targets synchronously", func(t *testing.T) {
		mockJobs, _, tracker := newClassificationTracker()

		_, err := tracker.Start(ctx, 0)
		assert.ErrorIs(t, err, ErrNoTargets)
		assert.Equal(t, TrackerIdle, tracker.Snapshot().State)

		mockJobs.AssertNotCalled(t, "EnqueueUniqueJob")
	})

	t.Run("rejects a second start while running", func(t *testing.T) {
		mockJobs, _, tracker := newClassificationTracker()

		mockJobs.On("EnqueueUniqueJob", ctx, models.JobTypeSpeakerClassification, mock.AnythingOfType("models.JobPayload")).
			Return(&models.Job{}, nil).Once()

		_, err := tracker.Start(ctx, 12)
		require.NoError(t, err)

		_, err = tracker.Start(ctx, 12)
		assert.ErrorIs(t, err, ErrTrackerBusy)
	})

	t.Run("enqueue failure records the error and stays idle", func(t *testing.T) {
		mockJobs, _, tracker := newClassificationTracker()

		mockJobs.On("EnqueueUniqueJob", ctx, models.JobTypeSpeakerClassification, mock.AnythingOfType("models.JobPayload")).
			Return(nil, errors.New("queue full"))

		_, err := tracker.Start(ctx, 12)
		require.Error(t, err)

		snapshot := tracker.Snapshot()
		assert.Equal(t, TrackerIdle, snapshot.State)
		assert.Contains(t, snapshot.LastError, "queue full")
	})
}

func TestTracker_HandleEvent(t *testing.T) {
	ctx := context.Background()

	running := func(t *testing.T) (*MockJobService, *Tracker) {
		mockJobs, _, tracker := newClassificationTracker()
		mockJobs.On("EnqueueUniqueJob", ctx, models.JobTypeSpeakerClassification, mock.AnythingOfType("models.JobPayload")).
			Return(&models.Job{}, nil)
		_, err := tracker.Start(ctx, 12)
		require.NoError(t, err)
		return mockJobs, tracker
	}

	t.Run("progress for the bound episode is applied", func(t *testing.T) {
		_, tracker := running(t)

		tracker.HandleEvent(JobEvent{
			EpisodeID: 42,
			JobType:   models.JobTypeSpeakerClassification,
			Status:    models.JobStatusProcessing,
			Progress:  60,
		})
		assert.Equal(t, 60, tracker.Snapshot().Progress)
	})

	t.Run("events for another episode are ignored", func(t *testing.T) {
		_, tracker := running(t)

		tracker.HandleEvent(JobEvent{
			EpisodeID: 99,
			JobType:   models.JobTypeSpeakerClassification,
			Status:    models.JobStatusCompleted,
			Progress:  100,
		})

		snapshot := tracker.Snapshot()
		assert.Equal(t, TrackerRunning, snapshot.State)
		assert.Equal(t, 0, snapshot.Progress)
	})

	t.Run("events for another job type are ignored", func(t *testing.T) {
		_, tracker := running(t)

		tracker.HandleEvent(JobEvent{
			EpisodeID: 42,
			JobType:   models.JobTypeTranscriptPolish,
			Status:    models.JobStatusCompleted,
		})
		assert.Equal(t, TrackerRunning, tracker.Snapshot().State)
	})

	t.Run("completion returns to idle", func(t *testing.T) {
		_, tracker := running(t)

		tracker.HandleEvent(JobEvent{
			EpisodeID: 42,
			JobType:   models.JobTypeSpeakerClassification,
			Status:    models.JobStatusCompleted,
			Progress:  100,
		})

		snapshot := tracker.Snapshot()
		assert.Equal(t, TrackerIdle, snapshot.State)
		assert.Equal(t, 100, snapshot.Progress)
		assert.Empty(t, snapshot.LastError)
	})

	t.Run("failure returns to idle with the error", func(t *testing.T) {
		_, tracker := running(t)

		tracker.HandleEvent(JobEvent{
			EpisodeID: 42,
			JobType:   models.JobTypeSpeakerClassification,
			Status:    models.JobStatusFailed,
			Error:     "model unavailable",
		})

		snapshot := tracker.Snapshot()
		assert.Equal(t, TrackerIdle, snapshot.State)
		assert.Equal(t, "model unavailable", snapshot.LastError)
	})

	t.Run("switching episodes resets local tracking", func(t *testing.T) {
		_, tracker := running(t)

		tracker.BindEpisode(77)

		snapshot := tracker.Snapshot()
		assert.Equal(t, TrackerIdle, snapshot.State)
		assert.Equal(t, int64(77), snapshot.EpisodeID)

		// The old episode's completion no longer matches.
		tracker.HandleEvent(JobEvent{
			EpisodeID: 42,
			JobType:   models.JobTypeSpeakerClassification,
			Status:    models.JobStatusCompleted,
		})
		assert.Equal(t, 0, tracker.Snapshot().Progress)
	})
}

func TestTracker_Refresh(t *testing.T) {
	ctx := context.Background()

	_, mockSuggestions, tracker := newClassificationTracker()

	mockSuggestions.On("GetPartitions", ctx, int64(42), models.SuggestionClassification).
		Return(&suggestions.Partitions{
			Pending: []models.Suggestion{{UUID: "s-1"}},
		}, nil)

	partitions, err := tracker.Refresh(ctx)
	require.NoError(t, err)
	assert.Len(t, partitions.Pending, 1)
}
