package flags

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/review-api/api/types"
	"github.com/killallgit/review-api/internal/models"
	flagsService "github.com/killallgit/review-api/internal/services/flags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
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

var _ flagsService.Service = (*MockFlagService)(nil)

func setupRouter(service flagsService.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	deps := &types.Dependencies{FlagService: service}
	RegisterRoutes(engine.Group("/api/v1/flags"), deps)
	return engine
}

func TestCreate(t *testing.T) {
	t.Run("creates a flag", func(t *testing.T) {
		mockService := new(MockFlagService)
		mockService.On("CreateFlag", mock.Anything, mock.AnythingOfType("*models.Flag")).
			Return(&models.Flag{
				UUID:         "f-1",
				EpisodeID:    42,
				SegmentIndex: 3,
				Type:         models.FlagWrongSpeaker,
			}, nil)

		body, _ := json.Marshal(CreateFlagRequest{
			EpisodeID:        42,
			SegmentIndex:     3,
			Type:             models.FlagWrongSpeaker,
			CorrectedSpeaker: "Matt",
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/flags", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		setupRouter(mockService).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response FlagResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "f-1", response.Flag.UUID)
		mockService.AssertExpectations(t)
	})

	t.Run("edit failure still returns the created flag", func(t *testing.T) {
		mockService := new(MockFlagService)
		mockService.On("CreateFlag", mock.Anything, mock.AnythingOfType("*models.Flag")).
			Return(&models.Flag{UUID: "f-2", Type: models.FlagMisspelling}, flagsService.ErrEditNotApplied)

		body, _ := json.Marshal(CreateFlagRequest{
			EpisodeID:     42,
			SegmentIndex:  3,
			Type:          models.FlagMisspelling,
			CorrectedText: "corrected",
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/flags", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		setupRouter(mockService).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response FlagResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "f-2", response.Flag.UUID)
		assert.Contains(t, response.Message, "edit was not applied")
	})

	t.Run("validation failure is unprocessable", func(t *testing.T) {
		mockService := new(MockFlagService)
		mockService.On("CreateFlag", mock.Anything, mock.AnythingOfType("*models.Flag")).
			Return(nil, assert.AnError)

		body, _ := json.Marshal(CreateFlagRequest{
			EpisodeID: 42,
			Type:      models.FlagMultipleSpeakers,
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/flags", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		setupRouter(mockService).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("missing type is a bad request", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/flags", bytes.NewReader([]byte(`{"episode_id": 42}`)))
		req.Header.Set("Content-Type", "application/json")
		setupRouter(new(MockFlagService)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetForSegment(t *testing.T) {
	t.Run("returns the active flag", func(t *testing.T) {
		mockService := new(MockFlagService)
		mockService.On("GetActiveFlagForSegment", mock.Anything, int64(42), 3).
			Return(&models.Flag{UUID: "f-1", Type: models.FlagAudioIssue}, nil)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/flags/episode/42/segment/3", nil)
		setupRouter(mockService).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("404 when the segment is unflagged", func(t *testing.T) {
		mockService := new(MockFlagService)
		mockService.On("GetActiveFlagForSegment", mock.Anything, int64(42), 9).
			Return(nil, flagsService.ErrFlagNotFound)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/flags/episode/42/segment/9", nil)
		setupRouter(mockService).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestResolve(t *testing.T) {
	mockService := new(MockFlagService)
	mockService.On("ResolveFlag", mock.Anything, uint(7)).Return(nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/flags/7/resolve", nil)
	setupRouter(mockService).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}
