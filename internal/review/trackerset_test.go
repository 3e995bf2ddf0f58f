package review

import (
	"context"
	"testing"
	"time"

	"github.com/killallgit/review-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTrackerSet_Tracker(t *testing.T) {
	set := NewTrackerSet(new(MockJobService), new(MockSuggestionService))

	t.Run("creates a bound tracker on first use", func(t *testing.T) {
		tracker, err := set.Tracker(42, models.JobTypeSpeakerClassification)
		require.NoError(t, err)
		assert.Equal(t, int64(42), tracker.Snapshot().EpisodeID)
	})

	t.Run("same episode and family reuses the tracker", func(t *testing.T) {
		first, err := set.Tracker(42, models.JobTypeSpeakerClassification)
		require.NoError(t, err)
		second, err := set.Tracker(42, models.JobTypeSpeakerClassification)
		require.NoError(t, err)
		assert.Same(t, first, second)
	})

	t.Run("families are tracked independently", func(t *testing.T) {
		classify, err := set.Tracker(42, models.JobTypeSpeakerClassification)
		require.NoError(t, err)
		polish, err := set.Tracker(42, models.JobTypeTranscriptPolish)
		require.NoError(t, err)
		assert.NotSame(t, classify, polish)
	})

	t.Run("rejects job types without suggestion state", func(t *testing.T) {
		_, err := set.Tracker(42, models.JobTypeSampleExtraction)
		assert.Error(t, err)
	})
}

func TestTrackerSet_HandleEvent(t *testing.T) {
	ctx := context.Background()

	newRunningSet := func(t *testing.T) *TrackerSet {
		mockJobs := new(MockJobService)
		mockJobs.On("EnqueueUniqueJob", ctx, models.JobTypeSpeakerClassification, mock.AnythingOfType("models.JobPayload")).
			Return(&models.Job{}, nil)

		set := NewTrackerSet(mockJobs, new(MockSuggestionService))
		tracker, err := set.Tracker(42, models.JobTypeSpeakerClassification)
		require.NoError(t, err)
		_, err = tracker.Start(ctx, 12)
		require.NoError(t, err)
		return set
	}

	t.Run("routes completion to the episode's tracker", func(t *testing.T) {
		set := newRunningSet(t)

		set.HandleEvent(JobEvent{
			EpisodeID: 42,
			JobType:   models.JobTypeSpeakerClassification,
			Status:    models.JobStatusCompleted,
			Progress:  100,
		})

		snapshots := set.Snapshots(42)
		assert.Equal(t, TrackerIdle, snapshots[string(models.SuggestionClassification)].State)
		assert.Equal(t, 100, snapshots[string(models.SuggestionClassification)].Progress)
	})

	t.Run("events for untouched episodes are discarded", func(t *testing.T) {
		set := newRunningSet(t)

		set.HandleEvent(JobEvent{
			EpisodeID: 99,
			JobType:   models.JobTypeSpeakerClassification,
			Status:    models.JobStatusCompleted,
		})

		snapshots := set.Snapshots(42)
		assert.Equal(t, TrackerRunning, snapshots[string(models.SuggestionClassification)].State)
	})

	t.Run("untracked job families are discarded", func(t *testing.T) {
		set := newRunningSet(t)

		set.HandleEvent(JobEvent{
			EpisodeID: 42,
			JobType:   models.JobTypeSampleExtraction,
			Status:    models.JobStatusCompleted,
		})

		snapshots := set.Snapshots(42)
		assert.Equal(t, TrackerRunning, snapshots[string(models.SuggestionClassification)].State)
	})
}

func TestTrackerSet_Run(t *testing.T) {
	ctx := context.Background()

	mockJobs := new(MockJobService)
	mockJobs.On("EnqueueUniqueJob", ctx, models.JobTypeTranscriptPolish, mock.AnythingOfType("models.JobPayload")).
		Return(&models.Job{}, nil)

	set := NewTrackerSet(mockJobs, new(MockSuggestionService))
	tracker, err := set.Tracker(7, models.JobTypeTranscriptPolish)
	require.NoError(t, err)
	_, err = tracker.Start(ctx, 3)
	require.NoError(t, err)

	hub := NewHub()
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		set.Run(runCtx, hub)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return hub.SubscriberCount() > 0
	}, 2*time.Second, 10*time.Millisecond)

	hub.Publish(JobEvent{
		EpisodeID: 7,
		JobType:   models.JobTypeTranscriptPolish,
		Status:    models.JobStatusFailed,
		Error:     "model unavailable",
	})

	assert.Eventually(t, func() bool {
		return tracker.Snapshot().State == TrackerIdle
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "model unavailable", tracker.Snapshot().LastError)

	cancel()
	<-done
}
