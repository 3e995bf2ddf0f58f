package review

import (
	"errors"
	"sync/atomic"

	"github.com/killallgit/review-api/internal/models"
)

// ErrNoHandlers is returned when the bus is invoked before any view has
// registered its handlers.
var ErrNoHandlers = errors.New("no view handlers registered")

// Handlers is the typed bundle of callbacks a view registers to receive
// cross-view notifications. Any individual field may be nil; a nil
// callback is simply skipped.
type Handlers struct {
	OnSegmentSelected func(segmentIndex int)
	OnFlagChanged     func(flag models.Flag)
	OnSpeakersChanged func(names map[string]string)
	OnChaptersChanged func(chapters []models.Chapter)
	OnSeek            func(seconds float64)
	OnRefresh         func()
}

// HandlerBus holds one Handlers bundle in a single atomic slot.
// Registration replaces the whole bundle; the last registration wins.
type HandlerBus struct {
	handlers atomic.Pointer[Handlers]
}

// NewHandlerBus creates an empty handler bus
func NewHandlerBus() *HandlerBus {
	return &HandlerBus{}
}

// Register installs a handler bundle, replacing any previous one
func (b *HandlerBus) Register(handlers Handlers) {
	b.handlers.Store(&handlers)
}

// Unregister clears the slot
func (b *HandlerBus) Unregister() {
	b.handlers.Store(nil)
}

// SelectSegment notifies the registered view of a segment selection
func (b *HandlerBus) SelectSegment(segmentIndex int) error {
	handlers := b.handlers.Load()
	if handlers == nil {
		return ErrNoHandlers
	}
	if handlers.OnSegmentSelected != nil {
		handlers.OnSegmentSelected(segmentIndex)
	}
	return nil
}

// NotifyFlagChanged notifies the registered view of a flag mutation
func (b *HandlerBus) NotifyFlagChanged(flag models.Flag) error {
	handlers := b.handlers.Load()
	if handlers == nil {
		return ErrNoHandlers
	}
	if handlers.OnFlagChanged != nil {
		handlers.OnFlagChanged(flag)
	}
	return nil
}

// NotifySpeakersChanged pushes a fresh effective name map to the view
func (b *HandlerBus) NotifySpeakersChanged(names map[string]string) error {
	handlers := b.handlers.Load()
	if handlers == nil {
		return ErrNoHandlers
	}
	if handlers.OnSpeakersChanged != nil {
		handlers.OnSpeakersChanged(names)
	}
	return nil
}

// NotifyChaptersChanged pushes the episode's chapter list to the view
func (b *HandlerBus) NotifyChaptersChanged(chapters []models.Chapter) error {
	handlers := b.handlers.Load()
	if handlers == nil {
		return ErrNoHandlers
	}
	if handlers.OnChaptersChanged != nil {
		handlers.OnChaptersChanged(chapters)
	}
	return nil
}

// Seek asks the view's player to jump to a position
func (b *HandlerBus) Seek(seconds float64) error {
	handlers := b.handlers.Load()
	if handlers == nil {
		return ErrNoHandlers
	}
	if handlers.OnSeek != nil {
		handlers.OnSeek(seconds)
	}
	return nil
}

// RequestRefresh asks the view to reload everything
func (b *HandlerBus) RequestRefresh() error {
	handlers := b.handlers.Load()
	if handlers == nil {
		return ErrNoHandlers
	}
	if handlers.OnRefresh != nil {
		handlers.OnRefresh()
	}
	return nil
}
