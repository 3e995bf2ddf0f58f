package review

import (
	"fmt"
	"sync"

	"github.com/killallgit/review-api/internal/models"
	"github.com/killallgit/review-api/pkg/segments"
)

// PlayMode distinguishes full playback from clip preview.
type PlayMode string

const (
	PlayModeFull PlayMode = "full"
	PlayModeClip PlayMode = "clip"
)

// Cursor tracks the audio playback position against an episode's
// segments. The current segment is the first one whose half-open
// [start, end) interval contains the position; at or before zero there
// is no current segment.
type Cursor struct {
	mu sync.Mutex

	segments    []segments.Segment
	currentTime float64
	playing     bool

	mode      PlayMode
	clipStart float64
	clipEnd   float64
}

// NewCursor creates a cursor over an episode's segments
func NewCursor(segs []segments.Segment) *Cursor {
	return &Cursor{
		segments: segs,
		mode:     PlayModeFull,
	}
}

// SetSegments swaps the segment list, e.g. after a reload
func (c *Cursor) SetSegments(segs []segments.Segment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.segments = segs
}

// CurrentSegment returns the index of the segment under the cursor, or
// -1 when none contains the current position.
func (c *Cursor) CurrentSegment() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.segmentAt(c.currentTime)
}

func (c *Cursor) segmentAt(t float64) int {
	if t <= 0 {
		return -1
	}
	for i := range c.segments {
		if c.segments[i].Contains(t) {
			return i
		}
	}
	return -1
}

// Position returns the current playback position in seconds
func (c *Cursor) Position() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentTime
}

// Playing reports whether playback is running
func (c *Cursor) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

// Seek moves the cursor without changing play state. Negative positions
// clamp to zero.
func (c *Cursor) Seek(seconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seconds < 0 {
		seconds = 0
	}
	c.currentTime = seconds
}

// PlayFull starts ordinary playback from the current position
func (c *Cursor) PlayFull() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = PlayModeFull
	c.playing = true
}

// PlayClipOnly starts clip preview: playback jumps to the clip start and
// auto-pauses when it crosses the clip end.
func (c *Cursor) PlayClipOnly(start, end float64) error {
	if start >= end {
		return fmt.Errorf("clip start must be before clip end")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = PlayModeClip
	c.clipStart = start
	c.clipEnd = end
	c.currentTime = start
	c.playing = true
	return nil
}

// Pause stops playback without moving the cursor
func (c *Cursor) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playing = false
}

// Advance moves the cursor to the player's reported position. In clip
// mode, crossing the clip end pauses playback and rewinds to the clip
// start so the next play reviews the same window.
func (c *Cursor) Advance(seconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == PlayModeClip && seconds >= c.clipEnd {
		c.playing = false
		c.currentTime = c.clipStart
		return
	}
	c.currentTime = seconds
}

// Trim narrows the clip window. The new bounds must keep the window
// inside the old one and leave at least the minimum sample duration
// between them.
func (c *Cursor) Trim(in, out float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != PlayModeClip {
		return fmt.Errorf("not in clip mode")
	}
	if in < c.clipStart || out > c.clipEnd {
		return fmt.Errorf("trim window must stay inside the clip")
	}
	if in > out-models.MinSampleDuration {
		return fmt.Errorf("trim window must keep at least %.1fs", models.MinSampleDuration)
	}

	c.clipStart = in
	c.clipEnd = out
	if c.currentTime < in {
		c.currentTime = in
	}
	if c.currentTime > out {
		c.currentTime = out
	}
	return nil
}

// Clip returns the current clip window
func (c *Cursor) Clip() (start, end float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clipStart, c.clipEnd
}
