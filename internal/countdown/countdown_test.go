package countdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountdownMonotonicity(t *testing.T) {
	s := NewScheduler()
	s.Set("item-1", 1, 30)

	for i := 0; i < 90; i++ {
		s.Tick()
		snap, ok := s.Get("item-1")
		require.True(t, ok)
		assert.GreaterOrEqual(t, snap.Remaining, 0, "remaining must never go negative")
	}

	snap, ok := s.Get("item-1")
	require.True(t, ok)
	assert.Equal(t, Expired, snap.State)
	assert.Equal(t, "00:00", snap.Display())

	// Extra ticks stay pinned at zero.
	s.Tick()
	s.Tick()
	snap, _ = s.Get("item-1")
	assert.Equal(t, 0, snap.Remaining)
}

func TestZeroTotalNeverStarts(t *testing.T) {
	s := NewScheduler()

	snap := s.Set("item-1", 0, 0)
	assert.Equal(t, Expired, snap.State)
	assert.Equal(t, "00:00", snap.Display())

	var ticks int
	s.SetTickHandler(func(Snapshot) { ticks++ })
	s.Tick()
	assert.Zero(t, ticks, "expired entries must not fire the tick handler")
}

func TestResetReplacesInFlightCountdown(t *testing.T) {
	s := NewScheduler()
	s.Set("item-1", 0, 10)
	s.Tick()
	s.Tick()

	// New input values reset to a fresh running state.
	snap := s.Set("item-1", 0, 5)
	assert.Equal(t, Running, snap.State)
	assert.Equal(t, 5, snap.Remaining)

	// Only one entry ticks: a single decrement per Tick, no doubling from
	// the replaced countdown.
	s.Tick()
	snap, _ = s.Get("item-1")
	assert.Equal(t, 4, snap.Remaining)
}

func TestTickHandlerReceivesTransitions(t *testing.T) {
	s := NewScheduler()
	s.Set("item-1", 0, 2)

	var got []Snapshot
	s.SetTickHandler(func(snap Snapshot) { got = append(got, snap) })

	s.Tick()
	s.Tick()
	s.Tick() // expired already, no callback

	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Remaining)
	assert.Equal(t, Running, got[0].State)
	assert.Equal(t, 0, got[1].Remaining)
	assert.Equal(t, Expired, got[1].State)
}

func TestRemoveCancelsCountdown(t *testing.T) {
	s := NewScheduler()
	s.Set("item-1", 5, 0)
	s.Remove("item-1")

	_, ok := s.Get("item-1")
	assert.False(t, ok)

	var ticks int
	s.SetTickHandler(func(Snapshot) { ticks++ })
	s.Tick()
	assert.Zero(t, ticks)
}

func TestIndependentItems(t *testing.T) {
	s := NewScheduler()
	s.Set("a", 0, 10)
	s.Set("b", 0, 3)

	for i := 0; i < 3; i++ {
		s.Tick()
	}

	a, _ := s.Get("a")
	b, _ := s.Get("b")
	assert.Equal(t, 7, a.Remaining)
	assert.Equal(t, Running, a.State)
	assert.Equal(t, Expired, b.State)
	assert.Len(t, s.Active(), 2)
}

func TestDisplaySlots(t *testing.T) {
	tests := []struct {
		name      string
		remaining int
		display   string
		slots     [5]string
	}{
		{"ninety seconds", 90, "01:30", [5]string{"0", "1", ":", "3", "0"}},
		{"zero", 0, "00:00", [5]string{"0", "0", ":", "0", "0"}},
		{"max", 59*60 + 59, "59:59", [5]string{"5", "9", ":", "5", "9"}},
		{"nine seconds", 9, "00:09", [5]string{"0", "0", ":", "0", "9"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := Snapshot{Remaining: tt.remaining}
			assert.Equal(t, tt.display, snap.Display())
			assert.Equal(t, tt.slots, snap.Slots())
		})
	}
}

func TestStartStop(t *testing.T) {
	s := NewScheduler()
	assert.False(t, s.IsRunning())
	s.Stop() // stop before start is a no-op
	assert.False(t, s.IsRunning())
}
