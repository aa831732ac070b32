package store

import (
	"context"
	"log"
	"time"

	"github.com/creatorhub/linkpage"
	"github.com/creatorhub/linkpage/internal/compose"
)

// writeTimeout bounds each hook-driven write.
const writeTimeout = 5 * time.Second

// ComposerHooks adapts a Store into composer persistence hooks. Each edit is
// written as it happens; write failures are logged rather than surfaced, so a
// storage hiccup never blocks the editing session.
func ComposerHooks(s Store, pageID string) compose.Hooks {
	run := func(op string, fn func(ctx context.Context) error) {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			log.Printf("[Store] %s failed for page %s: %v", op, pageID, err)
		}
	}

	return compose.Hooks{
		OnSectionAdded: func(sec linkpage.Section, position int) {
			run("section add", func(ctx context.Context) error {
				return s.SaveSection(ctx, pageID, sec, position)
			})
		},
		OnSectionUpdated: func(sec linkpage.Section) {
			run("section update", func(ctx context.Context) error {
				return s.SaveSection(ctx, pageID, sec, currentPosition(s, pageID, sec.SectionID()))
			})
		},
		OnSectionDeleted: func(sectionID string) {
			run("section delete", func(ctx context.Context) error {
				return s.DeleteSection(ctx, pageID, sectionID)
			})
		},
		OnItemAdded: func(sectionID string, it linkpage.ContentItem) {
			run("item add", func(ctx context.Context) error {
				return s.SaveItem(ctx, pageID, sectionID, it)
			})
		},
		OnItemUpdated: func(sectionID string, it linkpage.ContentItem) {
			run("item update", func(ctx context.Context) error {
				return s.SaveItem(ctx, pageID, sectionID, it)
			})
		},
		OnItemDeleted: func(sectionID, itemID string) {
			run("item delete", func(ctx context.Context) error {
				return s.DeleteItem(ctx, pageID, sectionID, itemID)
			})
		},
		OnSectionsOrdered: func(order []string) {
			run("section reorder", func(ctx context.Context) error {
				return s.SaveSectionOrder(ctx, pageID, order)
			})
		},
		OnItemsOrdered: func(sectionID string, order []string) {
			run("item reorder", func(ctx context.Context) error {
				return s.SaveItemOrder(ctx, pageID, sectionID, order)
			})
		},
		OnPageUpdated: func(p *linkpage.Page) {
			run("page update", func(ctx context.Context) error {
				return s.SavePage(ctx, p)
			})
		},
	}
}

// currentPosition looks up a section's persisted slot so an update does not
// move it. Falls back to 0 for sections not yet persisted.
func currentPosition(s Store, pageID, sectionID string) int {
	sqlStore, ok := s.(*SQLStore)
	if !ok {
		return 0
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	var pos int
	err := sqlStore.db.QueryRowContext(ctx, sqlStore.rebind(
		`SELECT position FROM sections WHERE page_id = ? AND id = ?`),
		pageID, sectionID).Scan(&pos)
	if err != nil {
		return 0
	}
	return pos
}
