package transcripts

import (
	"context"
	"errors"
	"testing"

	"github.com/killallgit/review-api/internal/models"
	"github.com/killallgit/review-api/internal/services/jobs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetByEpisodeID(ctx context.Context, episodeID int64) (*models.Transcript, error) {
	args := m.Called(ctx, episodeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transcript), args.Error(1)
}

func (m *MockRepository) Upsert(ctx context.Context, transcript *models.Transcript) error {
	args := m.Called(ctx, transcript)
	return args.Error(0)
}

func (m *MockRepository) Save(ctx context.Context, transcript *models.Transcript) error {
	args := m.Called(ctx, transcript)
	return args.Error(0)
}

// MockJobService mocks jobs.Service
type MockJobService struct {
	mock.Mock
}

func (m *MockJobService) EnqueueJob(ctx context.Context, jobType models.JobType, payload models.JobPayload, opts ...jobs.JobOption) (*models.Job, error) {
	args := m.Called(ctx, jobType, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobService) EnqueueUniqueJob(ctx context.Context, jobType models.JobType, payload models.JobPayload, opts ...jobs.JobOption) (*models.Job, error) {
	args := m.Called(ctx, jobType, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobService) GetJob(ctx context.Context, jobID uint) (*models.Job, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobService) GetJobStatus(ctx context.Context, jobID uint) (models.JobStatus, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).(models.JobStatus), args.Error(1)
}

func (m *MockJobService) GetJobForEpisode(ctx context.Context, jobType models.JobType, episodeID int64) (*models.Job, error) {
	args := m.Called(ctx, jobType, episodeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobService) ClaimNextJob(ctx context.Context, workerID string, jobTypes []models.JobType) (*models.Job, error) {
	args := m.Called(ctx, workerID, jobTypes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobService) UpdateProgress(ctx context.Context, jobID uint, progress int) error {
	args := m.Called(ctx, jobID, progress)
	return args.Error(0)
}

func (m *MockJobService) CompleteJob(ctx context.Context, jobID uint, result models.JobResult) error {
	args := m.Called(ctx, jobID, result)
	return args.Error(0)
}

func (m *MockJobService) FailJob(ctx context.Context, jobID uint, err error) error {
	args := m.Called(ctx, jobID, err)
	return args.Error(0)
}

func (m *MockJobService) FailJobWithDetails(ctx context.Context, jobID uint, errorType models.JobErrorType, errorCode, errorMsg, errorDetails string) error {
	args := m.Called(ctx, jobID, errorType, errorCode, errorMsg, errorDetails)
	return args.Error(0)
}

func (m *MockJobService) ReleaseJob(ctx context.Context, jobID uint) error {
	args := m.Called(ctx, jobID)
	return args.Error(0)
}

func (m *MockJobService) RetryFailedJob(ctx context.Context, jobID uint) (*models.Job, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobService) CleanupOldJobs(ctx context.Context, retentionDays int) (int64, error) {
	args := m.Called(ctx, retentionDays)
	return args.Get(0).(int64), args.Error(1)
}

var _ jobs.Service = (*MockJobService)(nil)

const testSegments = `[
	{"speaker":"SPEAKER_00","text":"hi","start":0,"end":5},
	{"speaker":"SPEAKER_01","text":"bye","start":5,"end":9}
]`

func TestServiceImpl_UpdateSpeakerNames(t *testing.T) {
	ctx := context.Background()

	t.Run("merges into existing map", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo, nil)

		transcript := &models.Transcript{
			EpisodeID:    42,
			SpeakerNames: models.SpeakerNameMap{"SPEAKER_00": "Old"},
		}

		mockRepo.On("GetByEpisodeID", ctx, int64(42)).Return(transcript, nil)
		mockRepo.On("Save", ctx, mock.AnythingOfType("*models.Transcript")).
			Run(func(args mock.Arguments) {
				tr := args.Get(1).(*models.Transcript)
				assert.Equal(t, "Matt", tr.SpeakerNames["SPEAKER_00"])
				assert.Equal(t, "Dave", tr.SpeakerNames["SPEAKER_01"])
			}).
			Return(nil)

		err := service.UpdateSpeakerNames(ctx, 42, models.SpeakerNameMap{
			"SPEAKER_00": "Matt",
			"SPEAKER_01": "Dave",
		})
		require.NoError(t, err)

		mockRepo.AssertExpectations(t)
	})

	t.Run("rejects empty map before lookup", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo, nil)

		err := service.UpdateSpeakerNames(ctx, 42, models.SpeakerNameMap{})
		assert.Error(t, err)

		mockRepo.AssertNotCalled(t, "GetByEpisodeID")
	})

	t.Run("rejects empty label", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo, nil)

		mockRepo.On("GetByEpisodeID", ctx, int64(42)).Return(&models.Transcript{EpisodeID: 42}, nil)

		err := service.UpdateSpeakerNames(ctx, 42, models.SpeakerNameMap{"": "Matt"})
		assert.Error(t, err)

		mockRepo.AssertNotCalled(t, "Save")
	})

	t.Run("propagates missing transcript", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo, nil)

		mockRepo.On("GetByEpisodeID", ctx, int64(9)).Return(nil, ErrTranscriptNotFound)

		err := service.UpdateSpeakerNames(ctx, 9, models.SpeakerNameMap{"SPEAKER_00": "Matt"})
		assert.ErrorIs(t, err, ErrTranscriptNotFound)
	})

	t.Run("queues sample extraction for supplied indices", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockJobs := new(MockJobService)
		service := NewService(mockRepo, mockJobs)

		transcript := &models.Transcript{EpisodeID: 42, SegmentsJSON: testSegments}
		mockRepo.On("GetByEpisodeID", ctx, int64(42)).Return(transcript, nil)
		mockRepo.On("Save", ctx, mock.AnythingOfType("*models.Transcript")).Return(nil)
		mockJobs.On("EnqueueJob", ctx, models.JobTypeSampleExtraction, models.JobPayload{
			"episode_id":    int64(42),
			"segment_index": 1,
			"speaker":       "SPEAKER_01",
		}).Return(&models.Job{Type: models.JobTypeSampleExtraction}, nil)

		err := service.UpdateSpeakerNames(ctx, 42, models.SpeakerNameMap{"SPEAKER_01": "Dave"}, 1)
		require.NoError(t, err)

		mockJobs.AssertExpectations(t)
	})

	t.Run("out of range sample index is skipped", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockJobs := new(MockJobService)
		service := NewService(mockRepo, mockJobs)

		transcript := &models.Transcript{EpisodeID: 42, SegmentsJSON: testSegments}
		mockRepo.On("GetByEpisodeID", ctx, int64(42)).Return(transcript, nil)
		mockRepo.On("Save", ctx, mock.AnythingOfType("*models.Transcript")).Return(nil)

		err := service.UpdateSpeakerNames(ctx, 42, models.SpeakerNameMap{"SPEAKER_01": "Dave"}, 5)
		require.NoError(t, err)

		mockJobs.AssertNotCalled(t, "EnqueueJob")
	})

	t.Run("extraction enqueue failure does not fail the rename", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockJobs := new(MockJobService)
		service := NewService(mockRepo, mockJobs)

		transcript := &models.Transcript{EpisodeID: 42, SegmentsJSON: testSegments}
		mockRepo.On("GetByEpisodeID", ctx, int64(42)).Return(transcript, nil)
		mockRepo.On("Save", ctx, mock.AnythingOfType("*models.Transcript")).Return(nil)
		mockJobs.On("EnqueueJob", ctx, models.JobTypeSampleExtraction, mock.AnythingOfType("models.JobPayload")).
			Return(nil, errors.New("queue full"))

		err := service.UpdateSpeakerNames(ctx, 42, models.SpeakerNameMap{"SPEAKER_00": "Matt"}, 0)
		require.NoError(t, err)
	})
}

func TestServiceImpl_SaveEdits(t *testing.T) {
	ctx := context.Background()

	t.Run("applies edits to segment payload", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo, nil)

		transcript := &models.Transcript{EpisodeID: 42, SegmentsJSON: testSegments}

		mockRepo.On("GetByEpisodeID", ctx, int64(42)).Return(transcript, nil)
		mockRepo.On("Save", ctx, mock.AnythingOfType("*models.Transcript")).
			Run(func(args mock.Arguments) {
				tr := args.Get(1).(*models.Transcript)
				assert.Contains(t, tr.SegmentsJSON, "goodbye")
				assert.NotContains(t, tr.SegmentsJSON, `"bye"`)
				assert.Equal(t, "hi goodbye", tr.FullText)
			}).
			Return(nil)

		err := service.SaveEdits(ctx, 42, map[int]string{1: "goodbye"})
		require.NoError(t, err)

		mockRepo.AssertExpectations(t)
	})

	t.Run("rejects out of range index without writing", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo, nil)

		transcript := &models.Transcript{EpisodeID: 42, SegmentsJSON: testSegments}
		mockRepo.On("GetByEpisodeID", ctx, int64(42)).Return(transcript, nil)

		err := service.SaveEdits(ctx, 42, map[int]string{0: "a", 5: "b"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "out of range")

		mockRepo.AssertNotCalled(t, "Save")
	})

	t.Run("rejects empty edit set", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo, nil)

		err := service.SaveEdits(ctx, 42, nil)
		assert.Error(t, err)

		mockRepo.AssertNotCalled(t, "GetByEpisodeID")
	})
}

func TestServiceImpl_UpsertTranscript(t *testing.T) {
	ctx := context.Background()

	t.Run("derives full text from segments", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo, nil)

		mockRepo.On("Upsert", ctx, mock.AnythingOfType("*models.Transcript")).
			Run(func(args mock.Arguments) {
				tr := args.Get(1).(*models.Transcript)
				assert.Equal(t, "hi bye", tr.FullText)
			}).
			Return(nil)

		err := service.UpsertTranscript(ctx, &models.Transcript{EpisodeID: 42, SegmentsJSON: testSegments})
		require.NoError(t, err)

		mockRepo.AssertExpectations(t)
	})

	t.Run("requires episode ID", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo, nil)

		err := service.UpsertTranscript(ctx, &models.Transcript{})
		assert.Error(t, err)

		mockRepo.AssertNotCalled(t, "Upsert")
	})
}

func TestServiceImpl_GetAudioPath(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockRepository)
	service := NewService(mockRepo, nil)

	mockRepo.On("GetByEpisodeID", ctx, int64(42)).Return(&models.Transcript{EpisodeID: 42, AudioPath: "/audio/42.mp3"}, nil)

	path, err := service.GetAudioPath(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "/audio/42.mp3", path)
}
