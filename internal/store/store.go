// Package store persists pages to SQLite or PostgreSQL.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/creatorhub/linkpage"
)

// ErrNotFound is returned when a page does not exist.
var ErrNotFound = errors.New("page not found")

// Store is the persistence interface the composer's hooks write through.
// SavePage writes a full snapshot; the granular methods mirror individual
// edits so a single click never rewrites the whole page.
type Store interface {
	SavePage(ctx context.Context, p *linkpage.Page) error
	LoadPage(ctx context.Context, id string) (*linkpage.Page, error)
	DeletePage(ctx context.Context, id string) error

	SaveSection(ctx context.Context, pageID string, sec linkpage.Section, position int) error
	DeleteSection(ctx context.Context, pageID, sectionID string) error
	SaveSectionOrder(ctx context.Context, pageID string, order []string) error

	SaveItem(ctx context.Context, pageID, sectionID string, it linkpage.ContentItem) error
	DeleteItem(ctx context.Context, pageID, sectionID, itemID string) error
	SaveItemOrder(ctx context.Context, pageID, sectionID string, order []string) error

	Close() error
}

// Open creates a Store for the configured driver.
func Open(driver, dsn string) (Store, error) {
	switch driver {
	case "", "sqlite":
		return OpenSQLite(dsn)
	case "postgres", "pg":
		return OpenPostgres(dsn)
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", driver)
	}
}
