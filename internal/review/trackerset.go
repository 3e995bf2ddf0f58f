package review

import (
	"context"
	"fmt"
	"sync"

	"github.com/killallgit/review-api/internal/models"
	"github.com/killallgit/review-api/internal/services/jobs"
	"github.com/killallgit/review-api/internal/services/suggestions"
)

// trackedKinds maps each trackable job family to the suggestion kind it
// produces. Only the two suggestion families carry tracker state.
var trackedKinds = map[models.JobType]models.SuggestionKind{
	models.JobTypeSpeakerClassification: models.SuggestionClassification,
	models.JobTypeTranscriptPolish:      models.SuggestionPolish,
}

// TrackerSet owns the per-episode trackers for the suggestion job
// families. Trackers are created lazily the first time an episode's
// family is touched; all of them feed off one hub subscription.
type TrackerSet struct {
	mu          sync.Mutex
	jobs        jobs.Service
	suggestions suggestions.Service
	trackers    map[int64]map[models.JobType]*Tracker
}

// NewTrackerSet creates an empty tracker set
func NewTrackerSet(jobService jobs.Service, suggestionService suggestions.Service) *TrackerSet {
	return &TrackerSet{
		jobs:        jobService,
		suggestions: suggestionService,
		trackers:    make(map[int64]map[models.JobType]*Tracker),
	}
}

// Tracker returns the tracker bound to one episode and job family,
// creating it on first use.
func (ts *TrackerSet) Tracker(episodeID int64, jobType models.JobType) (*Tracker, error) {
	kind, ok := trackedKinds[jobType]
	if !ok {
		return nil, fmt.Errorf("job type %s is not tracked", jobType)
	}

	ts.mu.Lock()
	defer ts.mu.Unlock()

	byType := ts.trackers[episodeID]
	if byType == nil {
		byType = make(map[models.JobType]*Tracker, len(trackedKinds))
		ts.trackers[episodeID] = byType
	}

	tracker := byType[jobType]
	if tracker == nil {
		tracker = NewTracker(jobType, kind, ts.jobs, ts.suggestions)
		tracker.BindEpisode(episodeID)
		byType[jobType] = tracker
	}
	return tracker, nil
}

// HandleEvent routes one hub event to the tracker it belongs to. Events
// for untracked families or untouched episodes are discarded.
func (ts *TrackerSet) HandleEvent(event JobEvent) {
	ts.mu.Lock()
	var tracker *Tracker
	if byType := ts.trackers[event.EpisodeID]; byType != nil {
		tracker = byType[event.JobType]
	}
	ts.mu.Unlock()

	if tracker != nil {
		tracker.HandleEvent(event)
	}
}

// Run consumes hub events until ctx is cancelled
func (ts *TrackerSet) Run(ctx context.Context, hub *Hub) {
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
			ts.HandleEvent(event)
		}
	}
}

// Snapshots returns an episode's tracker state keyed by suggestion kind
func (ts *TrackerSet) Snapshots(episodeID int64) map[string]TrackerSnapshot {
	snapshots := make(map[string]TrackerSnapshot, len(trackedKinds))
	for jobType, kind := range trackedKinds {
		tracker, err := ts.Tracker(episodeID, jobType)
		if err != nil {
			continue
		}
		snapshots[string(kind)] = tracker.Snapshot()
	}
	return snapshots
}
