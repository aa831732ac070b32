// Package reorder turns drag-gesture completions into order permutations.
//
// Two nesting levels exist: the page's section order, and each custom
// section's own item order. Every level is a separate drag scope, so a drag
// inside one section can never reorder the sections themselves.
package reorder

import "sync"

// Scope identifies an isolated drag collision domain.
type Scope string

// SectionScope is the top-level section ordering domain.
const SectionScope Scope = "sections"

// ItemScope returns the drag scope for items inside one section.
func ItemScope(sectionID string) Scope {
	return Scope("items/" + sectionID)
}

// SectionID extracts the section from an item scope. The boolean is false
// for the section scope itself.
func (s Scope) SectionID() (string, bool) {
	const prefix = "items/"
	if len(s) > len(prefix) && string(s[:len(prefix)]) == prefix {
		return string(s[len(prefix):]), true
	}
	return "", false
}

// Move performs a stable array move: the element at from is removed and
// reinserted at to, preserving the relative order of everything else. The
// input is not mutated. Out-of-range indices return the input order
// unchanged.
func Move(order []string, from, to int) []string {
	n := len(order)
	if from < 0 || from >= n || to < 0 || to >= n {
		return order
	}
	out := make([]string, 0, n)
	out = append(out, order[:from]...)
	out = append(out, order[from+1:]...)

	tail := append([]string{}, out[to:]...)
	out = append(out[:to:to], order[from])
	out = append(out, tail...)
	return out
}

// SectionsHandler receives the new top-level section order.
type SectionsHandler func(newOrder []string)

// ItemsHandler receives the new item ID order within one section.
type ItemsHandler func(sectionID string, newOrder []string)

// Coordinator computes permutations on drag completion and delegates the
// result to the owning store via callbacks. It never mutates order state
// itself: whether the new order applies optimistically or waits for
// persistence is the callback owner's decision.
type Coordinator struct {
	mu         sync.RWMutex
	onSections SectionsHandler
	onItems    ItemsHandler
}

// NewCoordinator creates a coordinator with no handlers registered.
func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// OnSections registers the section-order callback.
func (c *Coordinator) OnSections(h SectionsHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onSections = h
}

// OnItems registers the per-section item-order callback.
func (c *Coordinator) OnItems(h ItemsHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onItems = h
}

// DragEnd handles a completed drag gesture in the given scope. order is the
// current order snapshot for that scope. Returns true when a callback was
// invoked with a new order; stale gestures (missing activeID or overID,
// identical endpoints, empty overID) are no-ops.
func (c *Coordinator) DragEnd(scope Scope, order []string, activeID, overID string) bool {
	if overID == "" || activeID == overID {
		return false
	}

	from := indexOf(order, activeID)
	to := indexOf(order, overID)
	if from < 0 || to < 0 {
		return false
	}

	newOrder := Move(order, from, to)

	c.mu.RLock()
	onSections := c.onSections
	onItems := c.onItems
	c.mu.RUnlock()

	if sectionID, ok := scope.SectionID(); ok {
		if onItems == nil {
			return false
		}
		onItems(sectionID, newOrder)
		return true
	}
	if onSections == nil {
		return false
	}
	onSections(newOrder)
	return true
}

func indexOf(order []string, id string) int {
	for i, v := range order {
		if v == id {
			return i
		}
	}
	return -1
}
