package review

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/killallgit/review-api/internal/models"
	"github.com/killallgit/review-api/internal/services/flags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestSession() (*MockFlagService, *MockCharacterService, *MockChapterService, *MockSampleService, *Session) {
	mockFlags := new(MockFlagService)
	mockCharacters := new(MockCharacterService)
	mockChapters := new(MockChapterService)
	mockSamples := new(MockSampleService)

	session := NewSession(42, SessionServices{
		Flags:      mockFlags,
		Characters: mockCharacters,
		Chapters:   mockChapters,
		Samples:    mockSamples,
	})
	return mockFlags, mockCharacters, mockChapters, mockSamples, session
}

func TestSession_CreateFlag(t *testing.T) {
	ctx := context.Background()

	t.Run("success mirrors the flag and clears the draft", func(t *testing.T) {
		mockFlags, _, _, _, session := newTestSession()

		session.SetDraft(DraftFlag{Type: models.FlagWrongSpeaker, CorrectedSpeaker: "Matt"})
		require.NotNil(t, session.Draft())

		created := &models.Flag{
			UUID:         "f-1",
			EpisodeID:    42,
			SegmentIndex: 3,
			Type:         models.FlagWrongSpeaker,
		}
		mockFlags.On("CreateFlag", ctx, mock.AnythingOfType("*models.Flag")).Return(created, nil)

		_, err := session.CreateFlag(ctx, &models.Flag{SegmentIndex: 3, Type: models.FlagWrongSpeaker})
		require.NoError(t, err)

		mirrored, ok := session.ActiveFlag(3)
		require.True(t, ok)
		assert.Equal(t, "f-1", mirrored.UUID)
		assert.Nil(t, session.Draft())
	})

	t.Run("one active flag per segment in the mirror", func(t *testing.T) {
		mockFlags, _, _, _, session := newTestSession()

		first := &models.Flag{UUID: "f-1", EpisodeID: 42, SegmentIndex: 3, Type: models.FlagWrongSpeaker}
		second := &models.Flag{UUID: "f-2", EpisodeID: 42, SegmentIndex: 3, Type: models.FlagAudioIssue}
		mockFlags.On("CreateFlag", ctx, mock.AnythingOfType("*models.Flag")).Return(first, nil).Once()
		mockFlags.On("CreateFlag", ctx, mock.AnythingOfType("*models.Flag")).Return(second, nil).Once()

		_, err := session.CreateFlag(ctx, &models.Flag{SegmentIndex: 3, Type: models.FlagWrongSpeaker})
		require.NoError(t, err)
		_, err = session.CreateFlag(ctx, &models.Flag{SegmentIndex: 3, Type: models.FlagAudioIssue})
		require.NoError(t, err)

		assert.Equal(t, 1, session.FlagCount())
		mirrored, _ := session.ActiveFlag(3)
		assert.Equal(t, "f-2", mirrored.UUID)
	})

	t.Run("failure leaves the mirror and draft untouched", func(t *testing.T) {
		mockFlags, _, _, _, session := newTestSession()

		session.SetDraft(DraftFlag{Type: models.FlagOther})
		mockFlags.On("CreateFlag", ctx, mock.AnythingOfType("*models.Flag")).
			Return(nil, fmt.Errorf("backend unavailable"))

		_, err := session.CreateFlag(ctx, &models.Flag{SegmentIndex: 3, Type: models.FlagOther})
		require.Error(t, err)

		assert.Equal(t, 0, session.FlagCount())
		assert.NotNil(t, session.Draft())
	})

	t.Run("edit-not-applied still mirrors the flag", func(t *testing.T) {
		mockFlags, _, _, _, session := newTestSession()

		created := &models.Flag{UUID: "f-3", EpisodeID: 42, SegmentIndex: 0, Type: models.FlagMisspelling}
		mockFlags.On("CreateFlag", ctx, mock.AnythingOfType("*models.Flag")).
			Return(created, fmt.Errorf("%w: backend unavailable", flags.ErrEditNotApplied))

		_, err := session.CreateFlag(ctx, &models.Flag{SegmentIndex: 0, Type: models.FlagMisspelling})
		require.Error(t, err)
		assert.ErrorIs(t, err, flags.ErrEditNotApplied)

		_, ok := session.ActiveFlag(0)
		assert.True(t, ok)
	})
}

func TestSession_ResolveFlag(t *testing.T) {
	ctx := context.Background()

	t.Run("resolving drops the flag from the mirror", func(t *testing.T) {
		mockFlags, _, _, _, session := newTestSession()

		created := &models.Flag{UUID: "f-1", EpisodeID: 42, SegmentIndex: 3, Type: models.FlagOther}
		created.ID = 7
		mockFlags.On("CreateFlag", ctx, mock.AnythingOfType("*models.Flag")).Return(created, nil)
		mockFlags.On("ResolveFlag", ctx, uint(7)).Return(nil)

		_, err := session.CreateFlag(ctx, &models.Flag{SegmentIndex: 3, Type: models.FlagOther})
		require.NoError(t, err)

		require.NoError(t, session.ResolveFlag(ctx, 3))
		_, ok := session.ActiveFlag(3)
		assert.False(t, ok)
	})

	t.Run("resolving an unflagged segment fails", func(t *testing.T) {
		_, _, _, _, session := newTestSession()
		assert.ErrorIs(t, session.ResolveFlag(ctx, 9), flags.ErrFlagNotFound)
	})

	t.Run("remote failure keeps the flag mirrored", func(t *testing.T) {
		mockFlags, _, _, _, session := newTestSession()

		created := &models.Flag{UUID: "f-1", EpisodeID: 42, SegmentIndex: 3, Type: models.FlagOther}
		created.ID = 7
		mockFlags.On("CreateFlag", ctx, mock.AnythingOfType("*models.Flag")).Return(created, nil)
		mockFlags.On("ResolveFlag", ctx, uint(7)).Return(errors.New("backend unavailable"))

		_, err := session.CreateFlag(ctx, &models.Flag{SegmentIndex: 3, Type: models.FlagOther})
		require.NoError(t, err)

		require.Error(t, session.ResolveFlag(ctx, 3))
		_, ok := session.ActiveFlag(3)
		assert.True(t, ok)
	})
}

func TestSession_Refresh(t *testing.T) {
	ctx := context.Background()

	mockFlags, mockCharacters, mockChapters, mockSamples, session := newTestSession()

	mockFlags.On("GetFlagsByEpisodeID", ctx, int64(42)).Return([]models.Flag{
		{UUID: "f-1", SegmentIndex: 0, Type: models.FlagOther},
		{UUID: "f-2", SegmentIndex: 1, Type: models.FlagOther, Resolved: true},
	}, nil)
	mockCharacters.On("GetAppearancesByEpisodeID", ctx, int64(42)).
		Return([]models.CharacterAppearance{{UUID: "a-1", SegmentIndex: 2}}, nil)
	mockChapters.On("GetChaptersByEpisodeID", ctx, int64(42)).
		Return([]models.Chapter{{UUID: "ch-1", StartSegmentIndex: 0, EndSegmentIndex: 4}}, nil)
	mockSamples.On("GetSamplesByEpisodeID", ctx, int64(42)).
		Return([]models.VoiceSample{{UUID: "s-1", SegmentIndex: 0}}, nil)

	require.NoError(t, session.Refresh(ctx))

	// Resolved flags are not mirrored as active.
	assert.Equal(t, 1, session.FlagCount())
	assert.Len(t, session.Appearances(), 1)
	assert.Len(t, session.Chapters(), 1)
	assert.Len(t, session.Samples(), 1)

	chapter, ok := session.ChapterForSegment(3)
	require.True(t, ok)
	assert.Equal(t, "ch-1", chapter.UUID)
}

func TestSession_TagCharacter(t *testing.T) {
	ctx := context.Background()

	mockFlags, mockCharacters, _, _, session := newTestSession()
	_ = mockFlags

	tagged := &models.CharacterAppearance{UUID: "a-1", EpisodeID: 42, CharacterID: 3, SegmentIndex: 5}
	mockCharacters.On("TagAppearance", ctx, mock.AnythingOfType("*models.CharacterAppearance")).
		Run(func(args mock.Arguments) {
			assert.Equal(t, int64(42), args.Get(1).(*models.CharacterAppearance).EpisodeID)
		}).
		Return(tagged, nil)

	_, err := session.TagCharacter(ctx, &models.CharacterAppearance{CharacterID: 3, SegmentIndex: 5})
	require.NoError(t, err)
	assert.Len(t, session.Appearances(), 1)
}
