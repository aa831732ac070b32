// Package countdown runs the per-item discount countdowns for a page.
//
// A single Scheduler owns every active countdown, keyed by content-item ID.
// Re-registering an item replaces its entry atomically, so a value change
// never leaves two tickers decrementing the same item.
package countdown

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// State is the lifecycle of a single countdown.
type State int

const (
	// Running counts down once per second toward zero.
	Running State = iota
	// Expired is terminal; the remaining time is exactly zero.
	Expired
)

func (s State) String() string {
	if s == Expired {
		return "expired"
	}
	return "running"
}

// Snapshot is the externally visible view of one countdown.
type Snapshot struct {
	ItemID    string
	State     State
	Remaining int // seconds, never negative
}

// TickHandler is called after every decrement with the item's new snapshot,
// and once more on the transition to Expired.
type TickHandler func(snap Snapshot)

// Scheduler drives all registered countdowns from one ticker loop.
type Scheduler struct {
	mu      sync.RWMutex
	entries map[string]*entry
	onTick  TickHandler

	ticker  *time.Ticker
	done    chan struct{}
	running bool
}

type entry struct {
	itemID    string
	remaining int
	state     State
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{
		entries: make(map[string]*entry),
	}
}

// SetTickHandler sets the callback invoked after each decrement.
func (s *Scheduler) SetTickHandler(h TickHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onTick = h
}

// Set registers (or resets) the countdown for an item. A previous entry for
// the same item is replaced, cancelling its remaining ticks. A total of zero
// or less never starts: the entry is stored already Expired so the terminal
// "00:00" shows immediately.
func (s *Scheduler) Set(itemID string, minutes, seconds int) Snapshot {
	total := minutes*60 + seconds

	s.mu.Lock()
	defer s.mu.Unlock()

	e := &entry{itemID: itemID, remaining: total, state: Running}
	if total <= 0 {
		e.remaining = 0
		e.state = Expired
	}
	s.entries[itemID] = e
	return e.snapshot()
}

// Remove cancels and forgets the countdown for an item.
func (s *Scheduler) Remove(itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, itemID)
}

// RemoveAll cancels every countdown, e.g. when the page is replaced.
func (s *Scheduler) RemoveAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*entry)
}

// Get returns the snapshot for an item.
func (s *Scheduler) Get(itemID string) (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[itemID]
	if !ok {
		return Snapshot{}, false
	}
	return e.snapshot(), true
}

// Active returns snapshots of all registered countdowns.
func (s *Scheduler) Active() []Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Snapshot, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.snapshot())
	}
	return out
}

// Start begins the one-second tick loop. Calling Start on a running
// scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.ticker = time.NewTicker(time.Second)
	s.done = make(chan struct{})
	s.mu.Unlock()

	go s.run(ctx)
}

// Stop halts the tick loop. Registered countdowns keep their state.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.running = false
	s.ticker.Stop()
	close(s.done)
}

// IsRunning reports whether the tick loop is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

func (s *Scheduler) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			s.Stop()
			return
		case <-s.done:
			return
		case <-s.ticker.C:
			s.Tick()
		}
	}
}

// Tick advances every running countdown by one second. Exposed so tests can
// drive the clock deterministically.
func (s *Scheduler) Tick() {
	s.mu.Lock()
	var fired []Snapshot
	for _, e := range s.entries {
		if e.state != Running {
			continue
		}
		e.remaining--
		if e.remaining <= 0 {
			e.remaining = 0
			e.state = Expired
		}
		fired = append(fired, e.snapshot())
	}
	handler := s.onTick
	s.mu.Unlock()

	if handler != nil {
		for _, snap := range fired {
			handler(snap)
		}
	}
}

func (e *entry) snapshot() Snapshot {
	return Snapshot{ItemID: e.itemID, State: e.state, Remaining: e.remaining}
}

// Display formats the remaining time as zero-padded "MM:SS".
func (snap Snapshot) Display() string {
	return fmt.Sprintf("%02d:%02d", snap.Remaining/60, snap.Remaining%60)
}

// Slots returns the five independent display glyphs: two minute digits, a
// colon, two second digits. Each slot is styled independently by the
// renderer.
func (snap Snapshot) Slots() [5]string {
	mins := snap.Remaining / 60
	secs := snap.Remaining % 60
	return [5]string{
		string(rune('0' + mins/10)),
		string(rune('0' + mins%10)),
		":",
		string(rune('0' + secs/10)),
		string(rune('0' + secs%10)),
	}
}
