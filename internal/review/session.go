package review

import (
	"context"
	"errors"
	"sync"

	"github.com/killallgit/review-api/internal/models"
	"github.com/killallgit/review-api/internal/services/characters"
	"github.com/killallgit/review-api/internal/services/chapters"
	"github.com/killallgit/review-api/internal/services/flags"
	"github.com/killallgit/review-api/internal/services/samples"
)

// DraftFlag is the transient picker state of the flag editor: what kind
// of flag the reviewer is lining up before committing it.
type DraftFlag struct {
	Type             models.FlagType
	CorrectedSpeaker string
	CharacterID      *uint
	Speakers         []string
	CorrectedText    string
}

// SessionServices bundles the stores a session mutates through.
type SessionServices struct {
	Flags      flags.Service
	Characters characters.Service
	Chapters   chapters.Service
	Samples    samples.Service
}

// Session is the per-episode in-memory mirror of the annotation stores.
// Every mutation goes remote first and applies locally only on success,
// so a failed call leaves the mirror exactly as it was.
type Session struct {
	mu        sync.RWMutex
	episodeID int64
	services  SessionServices

	flags       map[int]models.Flag
	appearances []models.CharacterAppearance
	chapters    []models.Chapter
	samples     []models.VoiceSample
	draft       *DraftFlag
}

// NewSession creates a session bound to one episode
func NewSession(episodeID int64, services SessionServices) *Session {
	return &Session{
		episodeID: episodeID,
		services:  services,
		flags:     make(map[int]models.Flag),
	}
}

// EpisodeID returns the episode this session is bound to
func (s *Session) EpisodeID() int64 {
	return s.episodeID
}

// Refresh refetches every collection from the stores and rebuilds the
// mirror wholesale
func (s *Session) Refresh(ctx context.Context) error {
	allFlags, err := s.services.Flags.GetFlagsByEpisodeID(ctx, s.episodeID)
	if err != nil {
		return err
	}
	appearances, err := s.services.Characters.GetAppearancesByEpisodeID(ctx, s.episodeID)
	if err != nil {
		return err
	}
	episodeChapters, err := s.services.Chapters.GetChaptersByEpisodeID(ctx, s.episodeID)
	if err != nil {
		return err
	}
	episodeSamples, err := s.services.Samples.GetSamplesByEpisodeID(ctx, s.episodeID)
	if err != nil {
		return err
	}

	flagMap := make(map[int]models.Flag, len(allFlags))
	for _, f := range allFlags {
		if !f.Resolved {
			flagMap[f.SegmentIndex] = f
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags = flagMap
	s.appearances = appearances
	s.chapters = episodeChapters
	s.samples = episodeSamples
	return nil
}

// SetDraft stages picker state for the next flag
func (s *Session) SetDraft(draft DraftFlag) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = &draft
}

// Draft returns the staged picker state, or nil when nothing is staged
func (s *Session) Draft() *DraftFlag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.draft == nil {
		return nil
	}
	copied := *s.draft
	return &copied
}

// CreateFlag commits a flag for one segment. On success the mirror's
// single active-flag slot for that segment is replaced and the draft is
// cleared. An ErrEditNotApplied outcome still counts as a created flag:
// the mirror is updated and the error propagated for the caller to
// surface.
func (s *Session) CreateFlag(ctx context.Context, flag *models.Flag) (*models.Flag, error) {
	flag.EpisodeID = s.episodeID

	created, err := s.services.Flags.CreateFlag(ctx, flag)
	if err != nil && !errors.Is(err, flags.ErrEditNotApplied) {
		return nil, err
	}

	s.mu.Lock()
	s.flags[created.SegmentIndex] = *created
	s.draft = nil
	s.mu.Unlock()

	return created, err
}

// ResolveFlag resolves the active flag on one segment and drops it from
// the mirror
func (s *Session) ResolveFlag(ctx context.Context, segmentIndex int) error {
	s.mu.RLock()
	flag, ok := s.flags[segmentIndex]
	s.mu.RUnlock()
	if !ok {
		return flags.ErrFlagNotFound
	}

	if err := s.services.Flags.ResolveFlag(ctx, flag.ID); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.flags, segmentIndex)
	s.mu.Unlock()
	return nil
}

// ActiveFlag returns the unresolved flag on one segment, if any
func (s *Session) ActiveFlag(segmentIndex int) (models.Flag, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	flag, ok := s.flags[segmentIndex]
	return flag, ok
}

// FlagCount returns how many segments carry an active flag
func (s *Session) FlagCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.flags)
}

// TagCharacter records a character appearance and mirrors it locally
func (s *Session) TagCharacter(ctx context.Context, appearance *models.CharacterAppearance) (*models.CharacterAppearance, error) {
	appearance.EpisodeID = s.episodeID

	tagged, err := s.services.Characters.TagAppearance(ctx, appearance)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.appearances = append(s.appearances, *tagged)
	s.mu.Unlock()
	return tagged, nil
}

// Appearances returns the mirrored character appearances
func (s *Session) Appearances() []models.CharacterAppearance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CharacterAppearance, len(s.appearances))
	copy(out, s.appearances)
	return out
}

// CreateChapter creates a chapter and mirrors it locally
func (s *Session) CreateChapter(ctx context.Context, chapter *models.Chapter) (*models.Chapter, error) {
	chapter.EpisodeID = s.episodeID

	created, err := s.services.Chapters.CreateChapter(ctx, chapter)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.chapters = append(s.chapters, *created)
	s.mu.Unlock()
	return created, nil
}

// Chapters returns the mirrored chapters
func (s *Session) Chapters() []models.Chapter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Chapter, len(s.chapters))
	copy(out, s.chapters)
	return out
}

// ChapterForSegment returns the first mirrored chapter containing idx
func (s *Session) ChapterForSegment(idx int) (models.Chapter, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.chapters {
		if ch.Contains(idx) {
			return ch, true
		}
	}
	return models.Chapter{}, false
}

// SaveSample saves a voice sample and mirrors it locally
func (s *Session) SaveSample(ctx context.Context, sample *models.VoiceSample) (*models.VoiceSample, error) {
	sample.EpisodeID = s.episodeID

	saved, err := s.services.Samples.SaveSample(ctx, sample)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.samples = append(s.samples, *saved)
	s.mu.Unlock()
	return saved, nil
}

// Samples returns the mirrored voice samples
func (s *Session) Samples() []models.VoiceSample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.VoiceSample, len(s.samples))
	copy(out, s.samples)
	return out
}
