package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/killallgit/review-api/internal/models"
	"github.com/killallgit/review-api/internal/review"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestWorkerPublishFailure(t *testing.T) {
	ctx := context.Background()

	job := &models.Job{
		Model:   gorm.Model{ID: 9},
		Type:    models.JobTypeSpeakerClassification,
		Payload: models.JobPayload{"episode_id": int64(42)},
	}

	t.Run("holds the event while the queue will retry", func(t *testing.T) {
		mockJobs := new(MockJobService)
		hub := review.NewHub()
		worker := NewWorker("worker-test", mockJobs, hub, time.Second)

		events, cancel := hub.Subscribe()
		defer cancel()

		mockJobs.On("GetJob", ctx, uint(9)).Return(&models.Job{
			Model:      gorm.Model{ID: 9},
			Status:     models.JobStatusFailed,
			RetryCount: 1,
			MaxRetries: 3,
		}, nil)

		worker.publishFailure(ctx, job, errors.New("backend unavailable"))

		select {
		case event := <-events:
			t.Fatalf("no event expected for a retryable failure, got %+v", event)
		default:
		}
	})

	t.Run("publishes once retries are exhausted", func(t *testing.T) {
		mockJobs := new(MockJobService)
		hub := review.NewHub()
		worker := NewWorker("worker-test", mockJobs, hub, time.Second)

		events, cancel := hub.Subscribe()
		defer cancel()

		mockJobs.On("GetJob", ctx, uint(9)).Return(&models.Job{
			Model:      gorm.Model{ID: 9},
			Status:     models.JobStatusPermanentlyFailed,
			RetryCount: 3,
			MaxRetries: 3,
		}, nil)

		worker.publishFailure(ctx, job, errors.New("backend unavailable"))

		select {
		case event := <-events:
			assert.True(t, event.Failed())
			assert.Equal(t, int64(42), event.EpisodeID)
			assert.Equal(t, "backend unavailable", event.Error)
		default:
			t.Fatal("expected a terminal failure event")
		}
	})

	t.Run("completion always publishes", func(t *testing.T) {
		hub := review.NewHub()
		worker := NewWorker("worker-test", new(MockJobService), hub, time.Second)

		events, cancel := hub.Subscribe()
		defer cancel()

		worker.publishTerminal(job, nil)

		select {
		case event := <-events:
			require.True(t, event.Completed())
			assert.Equal(t, 100, event.Progress)
		default:
			t.Fatal("expected a completion event")
		}
	})

	t.Run("worker pool rejects a double start", func(t *testing.T) {
		mockJobs := new(MockJobService)
		mockJobs.On("ClaimNextJob", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("no jobs available")).Maybe()

		pool := NewWorkerPool(mockJobs, review.NewHub(), 1, time.Hour)
		pool.RegisterProcessor(NewClassificationProcessor(mockJobs, nil, nil, nil, nil, nil))

		poolCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		require.NoError(t, pool.Start(poolCtx))
		defer pool.Stop()

		assert.Error(t, pool.Start(poolCtx))
	})
}
