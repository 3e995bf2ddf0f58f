package review

import (
	"testing"

	"github.com/killallgit/review-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerBus(t *testing.T) {
	t.Run("invoking an empty bus returns ErrNoHandlers", func(t *testing.T) {
		bus := NewHandlerBus()

		assert.ErrorIs(t, bus.SelectSegment(3), ErrNoHandlers)
		assert.ErrorIs(t, bus.Seek(12.5), ErrNoHandlers)
		assert.ErrorIs(t, bus.RequestRefresh(), ErrNoHandlers)
	})

	t.Run("registered handlers receive notifications", func(t *testing.T) {
		bus := NewHandlerBus()

		var selected int
		var sought float64
		bus.Register(Handlers{
			OnSegmentSelected: func(idx int) { selected = idx },
			OnSeek:            func(s float64) { sought = s },
		})

		require.NoError(t, bus.SelectSegment(7))
		require.NoError(t, bus.Seek(33.25))
		assert.Equal(t, 7, selected)
		assert.Equal(t, 33.25, sought)
	})

	t.Run("nil callbacks in a registered bundle are skipped", func(t *testing.T) {
		bus := NewHandlerBus()
		bus.Register(Handlers{})

		require.NoError(t, bus.SelectSegment(1))
		require.NoError(t, bus.NotifyFlagChanged(models.Flag{}))
		require.NoError(t, bus.RequestRefresh())
	})

	t.Run("last registration wins", func(t *testing.T) {
		bus := NewHandlerBus()

		var first, second bool
		bus.Register(Handlers{OnRefresh: func() { first = true }})
		bus.Register(Handlers{OnRefresh: func() { second = true }})

		require.NoError(t, bus.RequestRefresh())
		assert.False(t, first)
		assert.True(t, second)
	})

	t.Run("unregister empties the slot", func(t *testing.T) {
		bus := NewHandlerBus()
		bus.Register(Handlers{OnRefresh: func() {}})
		bus.Unregister()

		assert.ErrorIs(t, bus.RequestRefresh(), ErrNoHandlers)
	})
}
