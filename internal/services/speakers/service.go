package speakers

import (
	"context"
	"fmt"
	"strings"

	"github.com/killallgit/review-api/internal/models"
)

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	repository Repository
}

// NewService creates a new speaker service
func NewService(repository Repository) Service {
	return &ServiceImpl{
		repository: repository,
	}
}

// AssignSpeaker links a raw label to a display name or an audio drop,
// replacing any previous assignment of the same label
func (s *ServiceImpl) AssignSpeaker(ctx context.Context, assignment *models.SpeakerAssignment) error {
	if assignment.EpisodeID == 0 {
		return fmt.Errorf("episode ID is required")
	}
	if err := assignment.Validate(); err != nil {
		return err
	}

	// An audio drop assignment must reference an existing drop.
	if assignment.AudioDropID != nil {
		if _, err := s.repository.GetAudioDropByID(ctx, *assignment.AudioDropID); err != nil {
			return err
		}
	}

	return s.repository.UpsertAssignment(ctx, assignment)
}

// GetAssignmentsByEpisodeID retrieves all assignments for an episode
func (s *ServiceImpl) GetAssignmentsByEpisodeID(ctx context.Context, episodeID int64) ([]models.SpeakerAssignment, error) {
	return s.repository.GetAssignmentsByEpisodeID(ctx, episodeID)
}

// ClearAssignment removes the assignment for one episode/label pair
func (s *ServiceImpl) ClearAssignment(ctx context.Context, episodeID int64, label string) error {
	return s.repository.DeleteAssignment(ctx, episodeID, label)
}

// AssignmentNameMap flattens an episode's assignments into a
// label -> display name map
func (s *ServiceImpl) AssignmentNameMap(ctx context.Context, episodeID int64) (map[string]string, error) {
	assignments, err := s.repository.GetAssignmentsByEpisodeID(ctx, episodeID)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(assignments))
	for _, a := range assignments {
		switch {
		case a.DisplayName != "":
			names[a.Label] = a.DisplayName
		case a.AudioDropID != nil:
			drop, err := s.repository.GetAudioDropByID(ctx, *a.AudioDropID)
			if err != nil {
				return nil, err
			}
			names[a.Label] = drop.Name
		}
	}
	return names, nil
}

// VoiceLibrary lists every known voice deduplicated by display name
func (s *ServiceImpl) VoiceLibrary(ctx context.Context) ([]VoiceLibraryEntry, error) {
	return s.repository.AggregateVoiceLibrary(ctx)
}

// CreateAudioDrop adds a named clip to the audio drop catalog
func (s *ServiceImpl) CreateAudioDrop(ctx context.Context, name, clipPath string) (*models.AudioDrop, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("audio drop name is required")
	}

	drop := &models.AudioDrop{
		Name:     name,
		ClipPath: clipPath,
	}

	if err := s.repository.CreateAudioDrop(ctx, drop); err != nil {
		return nil, err
	}
	return drop, nil
}

// ListAudioDrops retrieves all audio drops
func (s *ServiceImpl) ListAudioDrops(ctx context.Context) ([]models.AudioDrop, error) {
	return s.repository.ListAudioDrops(ctx)
}
