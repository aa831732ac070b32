// Package compose owns the mutable page during an editing session. It applies
// structural edits, keeps countdown registrations in sync with item state, and
// re-renders the preview tree after every change.
package compose

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/creatorhub/linkpage"
	"github.com/creatorhub/linkpage/internal/countdown"
	"github.com/creatorhub/linkpage/internal/render"
	"github.com/creatorhub/linkpage/internal/reorder"
)

// Hooks receive edits after they are applied, for persistence. A nil hook is
// skipped. Hooks run outside the composer lock.
type Hooks struct {
	OnSectionAdded    func(sec linkpage.Section, position int)
	OnSectionUpdated  func(sec linkpage.Section)
	OnSectionDeleted  func(sectionID string)
	OnItemAdded       func(sectionID string, it linkpage.ContentItem)
	OnItemUpdated     func(sectionID string, it linkpage.ContentItem)
	OnItemDeleted     func(sectionID, itemID string)
	OnSectionsOrdered func(order []string)
	OnItemsOrdered    func(sectionID string, order []string)
	OnPageUpdated     func(p *linkpage.Page)
}

// NotifyFunc receives the freshly rendered preview tree after every mutation
// and every countdown tick.
type NotifyFunc func(tree *render.Node)

// Composer serializes all edits to one page. Safe for concurrent use.
type Composer struct {
	mu       sync.RWMutex
	page     *linkpage.Page
	sched    *countdown.Scheduler
	coord    *reorder.Coordinator
	renderer *render.Renderer
	hooks    Hooks
	notify   NotifyFunc
	debug    bool
}

// Option configures a Composer.
type Option func(*Composer)

// WithHooks installs persistence hooks.
func WithHooks(h Hooks) Option {
	return func(c *Composer) { c.hooks = h }
}

// WithNotify installs the preview-push callback.
func WithNotify(fn NotifyFunc) Option {
	return func(c *Composer) { c.notify = fn }
}

// WithRenderer overrides the default renderer.
func WithRenderer(r *render.Renderer) Option {
	return func(c *Composer) { c.renderer = r }
}

// WithDebug enables composer logging.
func WithDebug() Option {
	return func(c *Composer) { c.debug = true }
}

// New creates a Composer for the given page. Countdowns are registered for
// every item that carries one, and reorder handling is wired for both the
// section scope and per-section item scopes.
func New(page *linkpage.Page, opts ...Option) *Composer {
	c := &Composer{
		page:     page,
		sched:    countdown.NewScheduler(),
		coord:    reorder.NewCoordinator(),
		renderer: render.New(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.coord.OnSections(c.applySectionOrder)
	c.coord.OnItems(c.applyItemOrder)
	c.sched.SetTickHandler(func(countdown.Snapshot) { c.push() })

	c.registerPageCountdowns()
	return c
}

// Start begins countdown ticking. The scheduler stops when ctx is canceled.
func (c *Composer) Start(ctx context.Context) {
	c.sched.Start(ctx)
}

// Close stops the countdown scheduler.
func (c *Composer) Close() error {
	c.sched.Stop()
	return nil
}

// Page returns the composed page. Callers must not mutate it; all edits go
// through the composer.
func (c *Composer) Page() *linkpage.Page {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.page
}

// Snapshot renders the current preview tree.
func (c *Composer) Snapshot() *render.Node {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.renderer.Page(c.page, c.sched.Get)
}

// Replace swaps in a new page wholesale, e.g. after the page file changed on
// disk. Every countdown is re-registered from the new page's items.
func (c *Composer) Replace(page *linkpage.Page) {
	c.mu.Lock()
	c.page = page
	c.sched.RemoveAll()
	c.registerPageCountdownsLocked()
	c.mu.Unlock()

	if c.debug {
		log.Printf("[Compose] Page %s replaced", page.ID)
	}
	c.push()
}

// AddSection appends a section to the page and to the visible order.
func (c *Composer) AddSection(sec linkpage.Section) error {
	c.mu.Lock()
	id := sec.SectionID()
	if id == "" {
		c.mu.Unlock()
		return fmt.Errorf("section has no id")
	}
	if c.page.Section(id) != nil {
		c.mu.Unlock()
		return fmt.Errorf("section %q already exists", id)
	}

	c.page.Sections = append(c.page.Sections, sec)
	c.page.Order = append(c.page.Order, id)
	position := len(c.page.Order) - 1
	c.syncSectionCountdownsLocked(nil, sec)
	c.mu.Unlock()

	if c.hooks.OnSectionAdded != nil {
		c.hooks.OnSectionAdded(sec, position)
	}
	c.push()
	return nil
}

// UpdateSection replaces the section with the same id. The edit is applied
// whole: either the replacement lands or the page is untouched.
func (c *Composer) UpdateSection(sec linkpage.Section) error {
	c.mu.Lock()
	id := sec.SectionID()
	prev := c.page.Section(id)
	if prev == nil {
		c.mu.Unlock()
		return fmt.Errorf("section %q not found", id)
	}

	if id == linkpage.ExclusiveContentID {
		ex, ok := sec.(*linkpage.ExclusiveContent)
		if !ok {
			c.mu.Unlock()
			return fmt.Errorf("section %q must be exclusive content", id)
		}
		// Section(ExclusiveContentID) aliases the page field, so the old
		// items must be copied out before the overwrite.
		old := c.page.Exclusive
		prev = &old
		c.page.Exclusive = *ex
	} else {
		for i, existing := range c.page.Sections {
			if existing.SectionID() == id {
				c.page.Sections[i] = sec
				break
			}
		}
	}
	c.syncSectionCountdownsLocked(prev, sec)
	c.mu.Unlock()

	if c.hooks.OnSectionUpdated != nil {
		c.hooks.OnSectionUpdated(sec)
	}
	c.push()
	return nil
}

// DeleteSection removes a section and its order entry. Deleting the exclusive
// section clears its items; the slot itself is fixed.
func (c *Composer) DeleteSection(id string) error {
	c.mu.Lock()
	prev := c.page.Section(id)
	if prev == nil {
		c.mu.Unlock()
		return fmt.Errorf("section %q not found", id)
	}

	if id == linkpage.ExclusiveContentID {
		old := c.page.Exclusive
		prev = &old
		c.page.Exclusive = linkpage.ExclusiveContent{}
	} else {
		for i, sec := range c.page.Sections {
			if sec.SectionID() == id {
				c.page.Sections = append(c.page.Sections[:i], c.page.Sections[i+1:]...)
				break
			}
		}
	}
	c.page.Order = removeFromOrder(c.page.Order, id)
	c.syncSectionCountdownsLocked(prev, nil)
	c.mu.Unlock()

	if c.hooks.OnSectionDeleted != nil {
		c.hooks.OnSectionDeleted(id)
	}
	c.push()
	return nil
}

// AddItem appends an item to a section.
func (c *Composer) AddItem(sectionID string, it linkpage.ContentItem) error {
	c.mu.Lock()
	items, err := c.itemsOfLocked(sectionID)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	if it.ID == "" {
		c.mu.Unlock()
		return fmt.Errorf("item has no id")
	}
	for i := range *items {
		if (*items)[i].ID == it.ID {
			c.mu.Unlock()
			return fmt.Errorf("item %q already exists in section %q", it.ID, sectionID)
		}
	}

	*items = append(*items, it)
	if it.HasCountdown() {
		c.sched.Set(it.ID, it.CountdownMinutes, it.CountdownSeconds)
	}
	c.mu.Unlock()

	if c.hooks.OnItemAdded != nil {
		c.hooks.OnItemAdded(sectionID, it)
	}
	c.push()
	return nil
}

// UpdateItem replaces an item wholesale, keyed by id. A changed countdown
// restarts the timer; an unchanged one keeps ticking.
func (c *Composer) UpdateItem(sectionID string, it linkpage.ContentItem) error {
	c.mu.Lock()
	items, err := c.itemsOfLocked(sectionID)
	if err != nil {
		c.mu.Unlock()
		return err
	}

	found := false
	for i := range *items {
		if (*items)[i].ID == it.ID {
			c.syncItemCountdownLocked(&(*items)[i], &it)
			(*items)[i] = it
			found = true
			break
		}
	}
	c.mu.Unlock()

	if !found {
		return fmt.Errorf("item %q not found in section %q", it.ID, sectionID)
	}
	if c.hooks.OnItemUpdated != nil {
		c.hooks.OnItemUpdated(sectionID, it)
	}
	c.push()
	return nil
}

// DeleteItem removes an item from a section and cancels its countdown.
func (c *Composer) DeleteItem(sectionID, itemID string) error {
	c.mu.Lock()
	items, err := c.itemsOfLocked(sectionID)
	if err != nil {
		c.mu.Unlock()
		return err
	}

	found := false
	for i := range *items {
		if (*items)[i].ID == itemID {
			*items = append((*items)[:i], (*items)[i+1:]...)
			found = true
			break
		}
	}
	if found {
		c.sched.Remove(itemID)
	}
	c.mu.Unlock()

	if !found {
		return fmt.Errorf("item %q not found in section %q", itemID, sectionID)
	}
	if c.hooks.OnItemDeleted != nil {
		c.hooks.OnItemDeleted(sectionID, itemID)
	}
	c.push()
	return nil
}

// SetBackground updates the page background. The theme follows on the next
// render.
func (c *Composer) SetBackground(background string) {
	c.mu.Lock()
	c.page.Background = background
	page := c.page
	c.mu.Unlock()

	if c.hooks.OnPageUpdated != nil {
		c.hooks.OnPageUpdated(page)
	}
	c.push()
}

// SetDisplayName updates the creator display name.
func (c *Composer) SetDisplayName(name string) {
	c.mu.Lock()
	c.page.DisplayName = name
	page := c.page
	c.mu.Unlock()

	if c.hooks.OnPageUpdated != nil {
		c.hooks.OnPageUpdated(page)
	}
	c.push()
}

// DragEnd applies a drag-and-drop gesture. The scope selects section-level or
// per-section item-level reordering; gestures that resolve to no movement are
// ignored. Returns true when an order changed.
func (c *Composer) DragEnd(scope reorder.Scope, activeID, overID string) bool {
	c.mu.RLock()
	var order []string
	if scope == reorder.SectionScope {
		order = append([]string(nil), c.page.Order...)
	} else if sectionID, ok := scope.SectionID(); ok {
		items, err := c.itemsOfLocked(sectionID)
		if err != nil {
			c.mu.RUnlock()
			return false
		}
		for i := range *items {
			order = append(order, (*items)[i].ID)
		}
	}
	c.mu.RUnlock()

	return c.coord.DragEnd(scope, order, activeID, overID)
}

// applySectionOrder installs a reordered section list.
func (c *Composer) applySectionOrder(order []string) {
	c.mu.Lock()
	c.page.Order = order
	c.mu.Unlock()

	if c.hooks.OnSectionsOrdered != nil {
		c.hooks.OnSectionsOrdered(order)
	}
	c.push()
}

// applyItemOrder installs a reordered item list within one section.
func (c *Composer) applyItemOrder(sectionID string, order []string) {
	c.mu.Lock()
	items, err := c.itemsOfLocked(sectionID)
	if err != nil {
		c.mu.Unlock()
		if c.debug {
			log.Printf("[Compose] Item reorder for missing section %s dropped", sectionID)
		}
		return
	}

	byID := make(map[string]linkpage.ContentItem, len(*items))
	for i := range *items {
		byID[(*items)[i].ID] = (*items)[i]
	}
	reordered := make([]linkpage.ContentItem, 0, len(*items))
	for _, id := range order {
		if it, ok := byID[id]; ok {
			reordered = append(reordered, it)
			delete(byID, id)
		}
	}
	// Items missing from the incoming order keep their relative position at
	// the end rather than vanishing.
	for i := range *items {
		if _, ok := byID[(*items)[i].ID]; ok {
			reordered = append(reordered, (*items)[i])
		}
	}
	*items = reordered
	c.mu.Unlock()

	if c.hooks.OnItemsOrdered != nil {
		c.hooks.OnItemsOrdered(sectionID, order)
	}
	c.push()
}

// itemsOfLocked resolves the item slice for a section id. Text sections carry
// no items.
func (c *Composer) itemsOfLocked(sectionID string) (*[]linkpage.ContentItem, error) {
	sec := c.page.Section(sectionID)
	if sec == nil {
		return nil, fmt.Errorf("section %q not found", sectionID)
	}
	switch s := sec.(type) {
	case *linkpage.ExclusiveContent:
		return &s.Items, nil
	case *linkpage.CustomSection:
		return &s.Items, nil
	default:
		return nil, fmt.Errorf("section %q has no items", sectionID)
	}
}

// registerPageCountdowns seeds the scheduler from every item on the page.
func (c *Composer) registerPageCountdowns() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registerPageCountdownsLocked()
}

func (c *Composer) registerPageCountdownsLocked() {
	for _, sec := range c.page.OrderedSections() {
		c.syncSectionCountdownsLocked(nil, sec)
	}
}

// syncSectionCountdownsLocked reconciles scheduler entries when a section is
// added, replaced, or removed. Items whose countdown total is unchanged keep
// their running timer; changed totals restart it.
func (c *Composer) syncSectionCountdownsLocked(prev, next linkpage.Section) {
	prevItems := sectionItems(prev)
	nextItems := sectionItems(next)

	nextByID := make(map[string]*linkpage.ContentItem, len(nextItems))
	for i := range nextItems {
		nextByID[nextItems[i].ID] = &nextItems[i]
	}

	for i := range prevItems {
		old := &prevItems[i]
		cur, ok := nextByID[old.ID]
		if !ok || !cur.HasCountdown() {
			c.sched.Remove(old.ID)
			continue
		}
		if cur.CountdownTotal() != old.CountdownTotal() {
			c.sched.Set(cur.ID, cur.CountdownMinutes, cur.CountdownSeconds)
		}
		delete(nextByID, old.ID)
	}
	for _, cur := range nextByID {
		if cur.HasCountdown() {
			c.sched.Set(cur.ID, cur.CountdownMinutes, cur.CountdownSeconds)
		}
	}
}

// syncItemCountdownLocked reconciles one item's scheduler entry on update.
func (c *Composer) syncItemCountdownLocked(prev, next *linkpage.ContentItem) {
	if !next.HasCountdown() {
		c.sched.Remove(next.ID)
		return
	}
	if prev.CountdownTotal() != next.CountdownTotal() {
		c.sched.Set(next.ID, next.CountdownMinutes, next.CountdownSeconds)
	}
}

// push renders the page and hands the tree to the notify callback.
func (c *Composer) push() {
	if c.notify == nil {
		return
	}
	c.notify(c.Snapshot())
}

func sectionItems(sec linkpage.Section) []linkpage.ContentItem {
	switch s := sec.(type) {
	case *linkpage.ExclusiveContent:
		return s.Items
	case *linkpage.CustomSection:
		return s.Items
	default:
		return nil
	}
}

func removeFromOrder(order []string, id string) []string {
	out := order[:0]
	for _, v := range order {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
