package review

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/killallgit/review-api/internal/models"
	"github.com/killallgit/review-api/internal/services/jobs"
	"github.com/killallgit/review-api/internal/services/suggestions"
)

// Tracker errors
var (
	ErrTrackerBusy = errors.New("a job is already running for this tracker")
	ErrNoTargets   = errors.New("nothing to do: no target segments")
)

// TrackerState is the tracker's lifecycle position.
type TrackerState string

const (
	TrackerIdle    TrackerState = "idle"
	TrackerRunning TrackerState = "running"
)

// TrackerSnapshot is a point-in-time copy of the tracker for rendering.
type TrackerSnapshot struct {
	State     TrackerState `json:"state"`
	EpisodeID int64        `json:"episode_id"`
	Progress  int          `json:"progress"`
	LastError string       `json:"last_error,omitempty"`
}

// Tracker follows one background job family (classification or polish)
// for the episode it is bound to. Events for other episodes are ignored;
// a completion or failure returns the tracker to idle.
type Tracker struct {
	mu sync.Mutex

	jobType models.JobType
	kind    models.SuggestionKind

	jobs        jobs.Service
	suggestions suggestions.Service

	episodeID int64
	state     TrackerState
	progress  int
	lastError string
}

// NewTracker creates a tracker for one job family
func NewTracker(jobType models.JobType, kind models.SuggestionKind, jobService jobs.Service, suggestionService suggestions.Service) *Tracker {
	return &Tracker{
		jobType:     jobType,
		kind:        kind,
		jobs:        jobService,
		suggestions: suggestionService,
		state:       TrackerIdle,
	}
}

// BindEpisode points the tracker at a different episode. Local tracking
// resets; a job still running remotely for the previous episode is NOT
// cancelled, its later events simply no longer match.
func (t *Tracker) BindEpisode(episodeID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.episodeID = episodeID
	t.state = TrackerIdle
	t.progress = 0
	t.lastError = ""
}

// Start enqueues the tracker's job for the bound episode. Starting while
// running is rejected, as is starting with zero target segments. A
// synchronous enqueue failure records the error and stays idle.
func (t *Tracker) Start(ctx context.Context, targetCount int) (*models.Job, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.episodeID == 0 {
		return nil, fmt.Errorf("tracker is not bound to an episode")
	}
	if t.state == TrackerRunning {
		return nil, ErrTrackerBusy
	}
	if targetCount <= 0 {
		return nil, ErrNoTargets
	}

	payload := models.JobPayload{
		"episode_id":   t.episodeID,
		"target_count": targetCount,
	}
	job, err := t.jobs.EnqueueUniqueJob(ctx, t.jobType, payload)
	if err != nil {
		t.lastError = err.Error()
		return nil, fmt.Errorf("starting %s job: %w", t.jobType, err)
	}

	t.state = TrackerRunning
	t.progress = 0
	t.lastError = ""
	return job, nil
}

// HandleEvent feeds one hub event through the tracker. Events for other
// job types or other episodes are discarded.
func (t *Tracker) HandleEvent(event JobEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if event.JobType != t.jobType || event.EpisodeID != t.episodeID {
		return
	}

	switch {
	case event.Completed():
		t.state = TrackerIdle
		t.progress = 100
		t.lastError = ""
	case event.Failed():
		t.state = TrackerIdle
		t.lastError = event.Error
	default:
		if t.state == TrackerRunning {
			t.progress = event.Progress
		}
	}
}

// Run consumes hub events until ctx is cancelled
func (t *Tracker) Run(ctx context.Context, hub *Hub) {
	events, cancel := hub.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			t.HandleEvent(event)
		}
	}
}

// Refresh refetches the suggestion partitions for the bound episode
func (t *Tracker) Refresh(ctx context.Context) (*suggestions.Partitions, error) {
	t.mu.Lock()
	episodeID := t.episodeID
	t.mu.Unlock()

	if episodeID == 0 {
		return nil, fmt.Errorf("tracker is not bound to an episode")
	}

	partitions, err := t.suggestions.GetPartitions(ctx, episodeID, t.kind)
	if err != nil {
		return nil, err
	}
	log.Printf("[DEBUG] Refreshed %s suggestions for episode %d: %d pending, %d approved, %d rejected",
		t.kind, episodeID, len(partitions.Pending), len(partitions.Approved), len(partitions.Rejected))
	return partitions, nil
}

// Snapshot returns a copy of the tracker's current state
func (t *Tracker) Snapshot() TrackerSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return TrackerSnapshot{
		State:     t.state,
		EpisodeID: t.episodeID,
		Progress:  t.progress,
		LastError: t.lastError,
	}
}
