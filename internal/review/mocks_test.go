package review

import (
	"context"

	"github.com/killallgit/review-api/internal/models"
	"github.com/killallgit/review-api/internal/services/chapters"
	"github.com/killallgit/review-api/internal/services/characters"
	"github.com/killallgit/review-api/internal/services/flags"
	"github.com/killallgit/review-api/internal/services/jobs"
	"github.com/killallgit/review-api/internal/services/samples"
	"github.com/killallgit/review-api/internal/services/speakers"
	"github.com/killallgit/review-api/internal/services/suggestions"
	"github.com/killallgit/review-api/internal/services/transcripts"
	"github.com/stretchr/testify/mock"
)

// MockTranscriptService mocks transcripts.Service
type MockTranscriptService struct {
	mock.Mock
}

func (m *MockTranscriptService) GetTranscript(ctx context.Context, episodeID int64) (*models.Transcript, error) {
	args := m.Called(ctx, episodeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transcript), args.Error(1)
}

func (m *MockTranscriptService) UpsertTranscript(ctx context.Context, transcript *models.Transcript) error {
	args := m.Called(ctx, transcript)
	return args.Error(0)
}

func (m *MockTranscriptService) UpdateSpeakerNames(ctx context.Context, episodeID int64, names models.SpeakerNameMap, sampleIndices ...int) error {
	args := m.Called(ctx, episodeID, names)
	return args.Error(0)
}

func (m *MockTranscriptService) SaveEdits(ctx context.Context, episodeID int64, edits map[int]string) error {
	args := m.Called(ctx, episodeID, edits)
	return args.Error(0)
}

func (m *MockTranscriptService) GetAudioPath(ctx context.Context, episodeID int64) (string, error) {
	args := m.Called(ctx, episodeID)
	return args.String(0), args.Error(1)
}

// MockSpeakerService mocks speakers.Service
type MockSpeakerService struct {
	mock.Mock
}

func (m *MockSpeakerService) AssignSpeaker(ctx context.Context, assignment *models.SpeakerAssignment) error {
	args := m.Called(ctx, assignment)
	return args.Error(0)
}

func (m *MockSpeakerService) GetAssignmentsByEpisodeID(ctx context.Context, episodeID int64) ([]models.SpeakerAssignment, error) {
	args := m.Called(ctx, episodeID)
	return args.Get(0).([]models.SpeakerAssignment), args.Error(1)
}

func (m *MockSpeakerService) ClearAssignment(ctx context.Context, episodeID int64, label string) error {
	args := m.Called(ctx, episodeID, label)
	return args.Error(0)
}

func (m *MockSpeakerService) AssignmentNameMap(ctx context.Context, episodeID int64) (map[string]string, error) {
	args := m.Called(ctx, episodeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockSpeakerService) VoiceLibrary(ctx context.Context) ([]speakers.VoiceLibraryEntry, error) {
	args := m.Called(ctx)
	return args.Get(0).([]speakers.VoiceLibraryEntry), args.Error(1)
}

func (m *MockSpeakerService) CreateAudioDrop(ctx context.Context, name, clipPath string) (*models.AudioDrop, error) {
	args := m.Called(ctx, name, clipPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AudioDrop), args.Error(1)
}

func (m *MockSpeakerService) ListAudioDrops(ctx context.Context) ([]models.AudioDrop, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.AudioDrop), args.Error(1)
}

// MockFlagService mocks flags.Service
type MockFlagService struct {
	mock.Mock
}

func (m *MockFlagService) CreateFlag(ctx context.Context, flag *models.Flag) (*models.Flag, error) {
	args := m.Called(ctx, flag)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Flag), args.Error(1)
}

func (m *MockFlagService) GetFlagsByEpisodeID(ctx context.Context, episodeID int64) ([]models.Flag, error) {
	args := m.Called(ctx, episodeID)
	return args.Get(0).([]models.Flag), args.Error(1)
}

func (m *MockFlagService) GetActiveFlagForSegment(ctx context.Context, episodeID int64, segmentIndex int) (*models.Flag, error) {
	args := m.Called(ctx, episodeID, segmentIndex)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Flag), args.Error(1)
}

func (m *MockFlagService) ResolveFlag(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFlagService) DeleteFlag(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCharacterService mocks characters.Service
type MockCharacterService struct {
	mock.Mock
}

func (m *MockCharacterService) CreateCharacter(ctx context.Context, name, notes string) (*models.Character, error) {
	args := m.Called(ctx, name, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Character), args.Error(1)
}

func (m *MockCharacterService) ListCharacters(ctx context.Context) ([]models.Character, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Character), args.Error(1)
}

func (m *MockCharacterService) TagAppearance(ctx context.Context, appearance *models.CharacterAppearance) (*models.CharacterAppearance, error) {
	args := m.Called(ctx, appearance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CharacterAppearance), args.Error(1)
}

func (m *MockCharacterService) GetAppearancesByEpisodeID(ctx context.Context, episodeID int64) ([]models.CharacterAppearance, error) {
	args := m.Called(ctx, episodeID)
	return args.Get(0).([]models.CharacterAppearance), args.Error(1)
}

func (m *MockCharacterService) RemoveAppearance(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockChapterService mocks chapters.Service
type MockChapterService struct {
	mock.Mock
}

func (m *MockChapterService) CreateChapterType(ctx context.Context, name, color string) (*models.ChapterType, error) {
	args := m.Called(ctx, name, color)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChapterType), args.Error(1)
}

func (m *MockChapterService) ListChapterTypes(ctx context.Context) ([]models.ChapterType, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.ChapterType), args.Error(1)
}

func (m *MockChapterService) CreateChapter(ctx context.Context, chapter *models.Chapter) (*models.Chapter, error) {
	args := m.Called(ctx, chapter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Chapter), args.Error(1)
}

func (m *MockChapterService) GetChaptersByEpisodeID(ctx context.Context, episodeID int64) ([]models.Chapter, error) {
	args := m.Called(ctx, episodeID)
	return args.Get(0).([]models.Chapter), args.Error(1)
}

func (m *MockChapterService) ChapterForSegment(ctx context.Context, episodeID int64, segmentIndex int) (*models.Chapter, error) {
	args := m.Called(ctx, episodeID, segmentIndex)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Chapter), args.Error(1)
}

func (m *MockChapterService) UpdateChapter(ctx context.Context, chapter *models.Chapter) error {
	args := m.Called(ctx, chapter)
	return args.Error(0)
}

func (m *MockChapterService) DeleteChapter(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockChapterService) ReplaceChapters(ctx context.Context, episodeID int64, episodeChapters []models.Chapter) (int, error) {
	args := m.Called(ctx, episodeID, episodeChapters)
	return args.Int(0), args.Error(1)
}

// MockSampleService mocks samples.Service
type MockSampleService struct {
	mock.Mock
}

func (m *MockSampleService) SaveSample(ctx context.Context, sample *models.VoiceSample) (*models.VoiceSample, error) {
	args := m.Called(ctx, sample)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VoiceSample), args.Error(1)
}

func (m *MockSampleService) GetSample(ctx context.Context, id uint) (*models.VoiceSample, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VoiceSample), args.Error(1)
}

func (m *MockSampleService) GetSamplesByEpisodeID(ctx context.Context, episodeID int64) ([]models.VoiceSample, error) {
	args := m.Called(ctx, episodeID)
	return args.Get(0).([]models.VoiceSample), args.Error(1)
}

func (m *MockSampleService) CountSamples(ctx context.Context, episodeID int64) (int64, error) {
	args := m.Called(ctx, episodeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSampleService) MarkExtracted(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSampleService) DeleteSample(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
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

// MockSuggestionService mocks suggestions.Service
type MockSuggestionService struct {
	mock.Mock
}

func (m *MockSuggestionService) ReplaceSuggestions(ctx context.Context, episodeID int64, kind models.SuggestionKind, items []models.Suggestion) (int, error) {
	args := m.Called(ctx, episodeID, kind, items)
	return args.Int(0), args.Error(1)
}

func (m *MockSuggestionService) GetPartitions(ctx context.Context, episodeID int64, kind models.SuggestionKind) (*suggestions.Partitions, error) {
	args := m.Called(ctx, episodeID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*suggestions.Partitions), args.Error(1)
}

func (m *MockSuggestionService) Approve(ctx context.Context, id uint) (*models.Suggestion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Suggestion), args.Error(1)
}

func (m *MockSuggestionService) Reject(ctx context.Context, id uint) (*models.Suggestion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Suggestion), args.Error(1)
}

func (m *MockSuggestionService) ApproveAll(ctx context.Context, episodeID int64, kind models.SuggestionKind) (int, error) {
	args := m.Called(ctx, episodeID, kind)
	return args.Int(0), args.Error(1)
}

var (
	_ flags.Service       = (*MockFlagService)(nil)
	_ characters.Service  = (*MockCharacterService)(nil)
	_ chapters.Service    = (*MockChapterService)(nil)
	_ samples.Service     = (*MockSampleService)(nil)
	_ speakers.Service    = (*MockSpeakerService)(nil)
	_ jobs.Service        = (*MockJobService)(nil)
	_ suggestions.Service = (*MockSuggestionService)(nil)
	_ transcripts.Service = (*MockTranscriptService)(nil)
)
