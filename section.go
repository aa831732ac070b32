package linkpage

// ExclusiveContentID is the fixed identifier of the exclusive-content section.
const ExclusiveContentID = "exclusive-content"

// Layout selects the visual arrangement of a custom section's items.
type Layout string

const (
	LayoutList        Layout = "list"
	LayoutRow         Layout = "row"
	LayoutParallelRow Layout = "parallel-row"
)

// ParseLayout maps a persisted layout tag to a Layout.
// The boolean is false for unknown tags, which callers must treat as an
// explicit "unknown variant" case rather than a fatal error.
func ParseLayout(s string) (Layout, bool) {
	switch Layout(s) {
	case LayoutList, LayoutRow, LayoutParallelRow:
		return Layout(s), true
	}
	return "", false
}

// SectionKind classifies what a custom section's items represent.
type SectionKind string

const (
	KindLinks         SectionKind = "links"
	KindEmbeds        SectionKind = "embeds"
	KindEmail         SectionKind = "email"
	KindText          SectionKind = "text"
	KindUnlockContent SectionKind = "unlock_content"
	KindBrandKit      SectionKind = "brand_kit"
)

// ParseSectionKind maps a persisted sectionType tag to a SectionKind.
func ParseSectionKind(s string) (SectionKind, bool) {
	switch SectionKind(s) {
	case KindLinks, KindEmbeds, KindEmail, KindText, KindUnlockContent, KindBrandKit:
		return SectionKind(s), true
	}
	return "", false
}

// TextKind distinguishes the two text section behaviors.
type TextKind string

const (
	TextEmail TextKind = "email"
	TextPlain TextKind = "text"
)

// Section is the closed set of page section variants.
type Section interface {
	SectionID() string

	// section restricts implementations to this package.
	section()
}

// ExclusiveContent is the fixed unlock section holding purchasable items.
type ExclusiveContent struct {
	Items []ContentItem
}

func (*ExclusiveContent) SectionID() string { return ExclusiveContentID }
func (*ExclusiveContent) section()          {}

// Item returns the content item with the given ID, or nil.
func (s *ExclusiveContent) Item(id string) *ContentItem {
	for i := range s.Items {
		if s.Items[i].ID == id {
			return &s.Items[i]
		}
	}
	return nil
}

// CustomSection is a creator-defined section of links or embeds with a
// selectable layout.
type CustomSection struct {
	ID                       string
	Name                     string
	Layout                   Layout
	Kind                     SectionKind
	UseItemImageAsBackground bool
	Items                    []ContentItem
}

func (s *CustomSection) SectionID() string { return s.ID }
func (*CustomSection) section()            {}

// Item returns the content item with the given ID, or nil.
func (s *CustomSection) Item(id string) *ContentItem {
	for i := range s.Items {
		if s.Items[i].ID == id {
			return &s.Items[i]
		}
	}
	return nil
}

// TextSection is a static text block or an inline email-capture block.
type TextSection struct {
	ID      string
	Title   string
	Content string
	Kind    TextKind
}

func (s *TextSection) SectionID() string { return s.ID }
func (*TextSection) section()            {}
