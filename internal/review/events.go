package review

import (
	"log"
	"sync"

	"github.com/killallgit/review-api/internal/models"
)

// JobEvent is one episode-tagged progress or lifecycle notification from
// a background job. Every event carries the episode it belongs to so
// consumers bound to a different episode can discard it.
type JobEvent struct {
	EpisodeID int64            `json:"episode_id"`
	JobType   models.JobType   `json:"job_type"`
	Status    models.JobStatus `json:"status"`
	Progress  int              `json:"progress"`
	Error     string           `json:"error,omitempty"`
}

// Completed reports whether the event is a terminal success.
func (e JobEvent) Completed() bool {
	return e.Status == models.JobStatusCompleted
}

// Failed reports whether the event is a terminal failure.
func (e JobEvent) Failed() bool {
	return e.Status == models.JobStatusFailed || e.Status == models.JobStatusPermanentlyFailed
}

// Hub fans job events out to subscribers. Publishing never blocks: a
// subscriber that stops draining loses events rather than stalling the
// workers.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[int]chan JobEvent
	nextID      int
}

// NewHub creates a new event hub
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[int]chan JobEvent),
	}
}

// Subscribe registers a new subscriber. The returned cancel func must be
// called when the subscriber goes away.
func (h *Hub) Subscribe() (<-chan JobEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++

	ch := make(chan JobEvent, 64)
	h.subscribers[id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subscribers[id]; ok {
			delete(h.subscribers, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish delivers an event to every subscriber
func (h *Hub) Publish(event JobEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, ch := range h.subscribers {
		select {
		case ch <- event:
		default:
			log.Printf("[DEBUG] Dropping job event for subscriber %d (channel full)", id)
		}
	}
}

// SubscriberCount returns how many subscribers are registered
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
