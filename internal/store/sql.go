package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"         // PostgreSQL driver
	_ "modernc.org/sqlite"        // Pure Go SQLite driver

	"github.com/creatorhub/linkpage"
)

// Section kind tags as persisted. Exclusive and text use their own tags so
// reconstruction can pick the right variant.
const (
	rowKindExclusive = "exclusive"
	rowKindText      = "text"
)

const schema = `
CREATE TABLE IF NOT EXISTS pages (
	id           TEXT PRIMARY KEY,
	display_name TEXT NOT NULL DEFAULT '',
	background   TEXT NOT NULL DEFAULT '',
	brand_kit    TEXT NOT NULL DEFAULT '{}'
);
CREATE TABLE IF NOT EXISTS sections (
	page_id        TEXT NOT NULL,
	id             TEXT NOT NULL,
	position       INTEGER NOT NULL DEFAULT 0,
	kind           TEXT NOT NULL,
	name           TEXT NOT NULL DEFAULT '',
	layout         TEXT NOT NULL DEFAULT '',
	use_item_image INTEGER NOT NULL DEFAULT 0,
	title          TEXT NOT NULL DEFAULT '',
	content        TEXT NOT NULL DEFAULT '',
	text_kind      TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (page_id, id)
);
CREATE TABLE IF NOT EXISTS items (
	page_id           TEXT NOT NULL,
	section_id        TEXT NOT NULL,
	id                TEXT NOT NULL,
	position          INTEGER NOT NULL DEFAULT 0,
	title             TEXT NOT NULL DEFAULT '',
	price             TEXT NOT NULL DEFAULT '',
	image_url         TEXT NOT NULL DEFAULT '',
	discount          TEXT NOT NULL DEFAULT '',
	countdown_minutes INTEGER NOT NULL DEFAULT 0,
	countdown_seconds INTEGER NOT NULL DEFAULT 0,
	url               TEXT NOT NULL DEFAULT '',
	is_email          INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (page_id, section_id, id)
);
`

// SQLStore implements Store on database/sql. The same implementation serves
// SQLite and PostgreSQL; queries are written with ? placeholders and rebound
// to $n for postgres.
type SQLStore struct {
	db       *sql.DB
	postgres bool
}

// OpenSQLite opens (and if needed creates) a SQLite database at path.
func OpenSQLite(path string) (*SQLStore, error) {
	if path == "" {
		path = "./linkpage.db"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	return newSQLStore(db, false)
}

// OpenPostgres connects to PostgreSQL with the given DSN.
func OpenPostgres(dsn string) (*SQLStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	return newSQLStore(db, true)
}

func newSQLStore(db *sql.DB, postgres bool) (*SQLStore, error) {
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	s := &SQLStore{db: db, postgres: postgres}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// rebind converts ? placeholders to $n for postgres.
func (s *SQLStore) rebind(query string) string {
	if !s.postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLStore) exec(ctx context.Context, tx *sql.Tx, query string, args ...interface{}) error {
	q := s.rebind(query)
	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, q, args...)
	} else {
		_, err = s.db.ExecContext(ctx, q, args...)
	}
	return err
}

// SavePage writes a full page snapshot in one transaction, replacing any
// previous rows for the same page id.
func (s *SQLStore) SavePage(ctx context.Context, p *linkpage.Page) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	brandKit, err := json.Marshal(p.BrandKit)
	if err != nil {
		return fmt.Errorf("failed to encode brand kit: %w", err)
	}

	if err := s.exec(ctx, tx,
		`INSERT INTO pages (id, display_name, background, brand_kit) VALUES (?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET display_name = excluded.display_name,
		 background = excluded.background, brand_kit = excluded.brand_kit`,
		p.ID, p.DisplayName, p.Background, string(brandKit)); err != nil {
		return fmt.Errorf("failed to save page %q: %w", p.ID, err)
	}

	if err := s.exec(ctx, tx, `DELETE FROM sections WHERE page_id = ?`, p.ID); err != nil {
		return err
	}
	if err := s.exec(ctx, tx, `DELETE FROM items WHERE page_id = ?`, p.ID); err != nil {
		return err
	}

	for pos, sec := range p.OrderedSections() {
		if err := s.insertSection(ctx, tx, p.ID, sec, pos); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLStore) insertSection(ctx context.Context, tx *sql.Tx, pageID string, sec linkpage.Section, position int) error {
	row := sectionRowOf(sec)
	if err := s.exec(ctx, tx,
		`INSERT INTO sections (page_id, id, position, kind, name, layout, use_item_image, title, content, text_kind)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (page_id, id) DO UPDATE SET position = excluded.position,
		 kind = excluded.kind, name = excluded.name, layout = excluded.layout,
		 use_item_image = excluded.use_item_image, title = excluded.title,
		 content = excluded.content, text_kind = excluded.text_kind`,
		pageID, row.id, position, row.kind, row.name, row.layout,
		boolToInt(row.useItemImage), row.title, row.content, row.textKind); err != nil {
		return fmt.Errorf("failed to save section %q: %w", row.id, err)
	}

	for pos, it := range sectionItemsOf(sec) {
		if err := s.insertItem(ctx, tx, pageID, row.id, it, pos); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLStore) insertItem(ctx context.Context, tx *sql.Tx, pageID, sectionID string, it linkpage.ContentItem, position int) error {
	if err := s.exec(ctx, tx,
		`INSERT INTO items (page_id, section_id, id, position, title, price, image_url, discount,
		 countdown_minutes, countdown_seconds, url, is_email)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (page_id, section_id, id) DO UPDATE SET position = excluded.position,
		 title = excluded.title, price = excluded.price, image_url = excluded.image_url,
		 discount = excluded.discount, countdown_minutes = excluded.countdown_minutes,
		 countdown_seconds = excluded.countdown_seconds, url = excluded.url,
		 is_email = excluded.is_email`,
		pageID, sectionID, it.ID, position, it.Title, it.Price, it.ImageURL, it.Discount,
		it.CountdownMinutes, it.CountdownSeconds, it.URL, boolToInt(it.IsEmail)); err != nil {
		return fmt.Errorf("failed to save item %q: %w", it.ID, err)
	}
	return nil
}

// LoadPage reconstructs a page from its rows. Section order follows the
// persisted positions.
func (s *SQLStore) LoadPage(ctx context.Context, id string) (*linkpage.Page, error) {
	p := linkpage.New(id)
	// The constructor seeds a default order; the persisted positions are the
	// only source of truth here.
	p.Order = nil

	var brandKit string
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT display_name, background, brand_kit FROM pages WHERE id = ?`), id).
		Scan(&p.DisplayName, &p.Background, &brandKit)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load page %q: %w", id, err)
	}
	if brandKit != "" && brandKit != "{}" {
		if err := json.Unmarshal([]byte(brandKit), &p.BrandKit); err != nil {
			return nil, fmt.Errorf("failed to decode brand kit: %w", err)
		}
	}

	items, err := s.loadItems(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT id, kind, name, layout, use_item_image, title, content, text_kind
		 FROM sections WHERE page_id = ? ORDER BY position`), id)
	if err != nil {
		return nil, fmt.Errorf("failed to load sections: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var row sectionRow
		var useItemImage int
		if err := rows.Scan(&row.id, &row.kind, &row.name, &row.layout,
			&useItemImage, &row.title, &row.content, &row.textKind); err != nil {
			return nil, err
		}
		row.useItemImage = useItemImage != 0

		sec := row.toSection(items[row.id])
		if sec == nil {
			continue
		}
		p.Order = append(p.Order, row.id)
		if ex, ok := sec.(*linkpage.ExclusiveContent); ok {
			p.Exclusive = *ex
			continue
		}
		p.Sections = append(p.Sections, sec)
	}
	return p, rows.Err()
}

func (s *SQLStore) loadItems(ctx context.Context, pageID string) (map[string][]linkpage.ContentItem, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT section_id, id, title, price, image_url, discount,
		 countdown_minutes, countdown_seconds, url, is_email
		 FROM items WHERE page_id = ? ORDER BY section_id, position`), pageID)
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]linkpage.ContentItem)
	for rows.Next() {
		var sectionID string
		var it linkpage.ContentItem
		var isEmail int
		if err := rows.Scan(&sectionID, &it.ID, &it.Title, &it.Price, &it.ImageURL,
			&it.Discount, &it.CountdownMinutes, &it.CountdownSeconds, &it.URL, &isEmail); err != nil {
			return nil, err
		}
		it.IsEmail = isEmail != 0
		out[sectionID] = append(out[sectionID], it)
	}
	return out, rows.Err()
}

// DeletePage removes a page and everything that hangs off it.
func (s *SQLStore) DeletePage(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.exec(ctx, tx, `DELETE FROM items WHERE page_id = ?`, id); err != nil {
		return err
	}
	if err := s.exec(ctx, tx, `DELETE FROM sections WHERE page_id = ?`, id); err != nil {
		return err
	}
	if err := s.exec(ctx, tx, `DELETE FROM pages WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// SaveSection upserts one section and replaces its items.
func (s *SQLStore) SaveSection(ctx context.Context, pageID string, sec linkpage.Section, position int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.exec(ctx, tx, `DELETE FROM items WHERE page_id = ? AND section_id = ?`,
		pageID, sec.SectionID()); err != nil {
		return err
	}
	if err := s.insertSection(ctx, tx, pageID, sec, position); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteSection removes one section and its items.
func (s *SQLStore) DeleteSection(ctx context.Context, pageID, sectionID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.exec(ctx, tx, `DELETE FROM items WHERE page_id = ? AND section_id = ?`, pageID, sectionID); err != nil {
		return err
	}
	if err := s.exec(ctx, tx, `DELETE FROM sections WHERE page_id = ? AND id = ?`, pageID, sectionID); err != nil {
		return err
	}
	return tx.Commit()
}

// SaveSectionOrder rewrites section positions to match the given order.
func (s *SQLStore) SaveSectionOrder(ctx context.Context, pageID string, order []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for pos, id := range order {
		if err := s.exec(ctx, tx,
			`UPDATE sections SET position = ? WHERE page_id = ? AND id = ?`,
			pos, pageID, id); err != nil {
			return fmt.Errorf("failed to reorder section %q: %w", id, err)
		}
	}
	return tx.Commit()
}

// SaveItem upserts one item. New items land after the section's existing
// items; updates keep their position.
func (s *SQLStore) SaveItem(ctx context.Context, pageID, sectionID string, it linkpage.ContentItem) error {
	var next int
	err := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT COALESCE(MAX(position) + 1, 0) FROM items WHERE page_id = ? AND section_id = ?`),
		pageID, sectionID).Scan(&next)
	if err != nil {
		return fmt.Errorf("failed to place item %q: %w", it.ID, err)
	}

	if err := s.exec(ctx, nil,
		`INSERT INTO items (page_id, section_id, id, position, title, price, image_url, discount,
		 countdown_minutes, countdown_seconds, url, is_email)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (page_id, section_id, id) DO UPDATE SET
		 title = excluded.title, price = excluded.price, image_url = excluded.image_url,
		 discount = excluded.discount, countdown_minutes = excluded.countdown_minutes,
		 countdown_seconds = excluded.countdown_seconds, url = excluded.url,
		 is_email = excluded.is_email`,
		pageID, sectionID, it.ID, next, it.Title, it.Price, it.ImageURL, it.Discount,
		it.CountdownMinutes, it.CountdownSeconds, it.URL, boolToInt(it.IsEmail)); err != nil {
		return fmt.Errorf("failed to save item %q: %w", it.ID, err)
	}
	return nil
}

// DeleteItem removes one item.
func (s *SQLStore) DeleteItem(ctx context.Context, pageID, sectionID, itemID string) error {
	return s.exec(ctx, nil,
		`DELETE FROM items WHERE page_id = ? AND section_id = ? AND id = ?`,
		pageID, sectionID, itemID)
}

// SaveItemOrder rewrites item positions within one section.
func (s *SQLStore) SaveItemOrder(ctx context.Context, pageID, sectionID string, order []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for pos, id := range order {
		if err := s.exec(ctx, tx,
			`UPDATE items SET position = ? WHERE page_id = ? AND section_id = ? AND id = ?`,
			pos, pageID, sectionID, id); err != nil {
			return fmt.Errorf("failed to reorder item %q: %w", id, err)
		}
	}
	return tx.Commit()
}

// sectionRow is the flattened persisted form of any section variant.
type sectionRow struct {
	id           string
	kind         string
	name         string
	layout       string
	useItemImage bool
	title        string
	content      string
	textKind     string
}

func sectionRowOf(sec linkpage.Section) sectionRow {
	switch s := sec.(type) {
	case *linkpage.ExclusiveContent:
		return sectionRow{id: linkpage.ExclusiveContentID, kind: rowKindExclusive}
	case *linkpage.CustomSection:
		return sectionRow{
			id:           s.ID,
			kind:         string(s.Kind),
			name:         s.Name,
			layout:       string(s.Layout),
			useItemImage: s.UseItemImageAsBackground,
		}
	case *linkpage.TextSection:
		return sectionRow{
			id:       s.ID,
			kind:     rowKindText,
			title:    s.Title,
			content:  s.Content,
			textKind: string(s.Kind),
		}
	default:
		return sectionRow{id: sec.SectionID()}
	}
}

// toSection reconstructs the section variant. Unknown kinds return nil and
// are skipped on load.
func (r sectionRow) toSection(items []linkpage.ContentItem) linkpage.Section {
	switch r.kind {
	case rowKindExclusive:
		return &linkpage.ExclusiveContent{Items: items}
	case rowKindText:
		kind := linkpage.TextKind(r.textKind)
		if kind != linkpage.TextEmail {
			kind = linkpage.TextPlain
		}
		return &linkpage.TextSection{ID: r.id, Title: r.title, Content: r.content, Kind: kind}
	default:
		kind, ok := linkpage.ParseSectionKind(r.kind)
		if !ok {
			return nil
		}
		layout, ok := linkpage.ParseLayout(r.layout)
		if !ok {
			layout = linkpage.LayoutList
		}
		return &linkpage.CustomSection{
			ID:                       r.id,
			Name:                     r.name,
			Layout:                   layout,
			Kind:                     kind,
			UseItemImageAsBackground: r.useItemImage,
			Items:                    items,
		}
	}
}

func sectionItemsOf(sec linkpage.Section) []linkpage.ContentItem {
	switch s := sec.(type) {
	case *linkpage.ExclusiveContent:
		return s.Items
	case *linkpage.CustomSection:
		return s.Items
	default:
		return nil
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
