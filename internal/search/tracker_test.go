package search

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker(t *testing.T) {
	t.Run("Only The Latest Ticket Applies", func(t *testing.T) {
		tr := NewTracker(context.Background())
		first := tr.Begin()
		second := tr.Begin()

		assert.Less(t, first.Seq(), second.Seq())
		assert.False(t, first.Current())
		assert.ErrorIs(t, first.Context().Err(), context.Canceled)

		applied := ""
		assert.False(t, first.Apply(func() { applied = "first" }))
		assert.True(t, second.Apply(func() { applied = "second" }))
		assert.Equal(t, "second", applied)
	})

	t.Run("Leave Cancels Everything", func(t *testing.T) {
		tr := NewTracker(context.Background())
		tk := tr.Begin()
		tr.Leave()

		require.ErrorIs(t, tk.Context().Err(), context.Canceled)
		assert.False(t, tk.Current())
		assert.False(t, tk.Apply(func() { t.Error("applied after leave") }))
	})

	t.Run("Concurrent Responses", func(t *testing.T) {
		tr := NewTracker(context.Background())
		tickets := make([]*Ticket, 50)
		for i := range tickets {
			tickets[i] = tr.Begin()
		}

		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			applied []uint64
		)
		for _, tk := range tickets {
			wg.Add(1)
			go func() {
				defer wg.Done()
				tk.Apply(func() {
					mu.Lock()
					applied = append(applied, tk.Seq())
					mu.Unlock()
				})
			}()
		}
		wg.Wait()

		assert.Equal(t, []uint64{tr.Latest()}, applied)
	})
}
