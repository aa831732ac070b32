// Package linkpage provides the core data model for a creator's public
// link-in-bio page: an ordered collection of heterogeneous sections plus the
// brand-kit content rendered after them.
package linkpage

// Page represents a creator's public page.
type Page struct {
	ID          string
	DisplayName string
	Background  string // color literal, CSS variable reference, or image URL

	// Exclusive holds the fixed exclusive-content unlock section. It is
	// addressed in the order list by ExclusiveContentID.
	Exclusive ExclusiveContent

	// Sections holds the creator-defined sections in collection order.
	Sections []Section

	// Order lists section identifiers in display order. An entry with no
	// matching section is treated as already deleted and skipped; a section
	// missing from the list is appended at render time so it stays visible.
	Order []string

	BrandKit BrandKit
}

// New creates an empty Page with the given ID.
func New(id string) *Page {
	return &Page{
		ID:    id,
		Order: []string{ExclusiveContentID},
	}
}

// Section returns the section with the given ID, or nil.
// ExclusiveContentID resolves to the page's exclusive-content section.
func (p *Page) Section(id string) Section {
	if id == ExclusiveContentID {
		return &p.Exclusive
	}
	for i := range p.Sections {
		if p.Sections[i].SectionID() == id {
			return p.Sections[i]
		}
	}
	return nil
}

// SectionIDs returns the identifiers of all sections in collection order,
// including the exclusive-content section.
func (p *Page) SectionIDs() []string {
	ids := make([]string, 0, len(p.Sections)+1)
	ids = append(ids, ExclusiveContentID)
	for _, s := range p.Sections {
		ids = append(ids, s.SectionID())
	}
	return ids
}

// OrderedSections resolves the order list against the section collection.
// Order entries without a matching section are skipped; sections absent from
// the order list are appended in collection order.
func (p *Page) OrderedSections() []Section {
	seen := make(map[string]bool, len(p.Order))
	out := make([]Section, 0, len(p.Sections)+1)

	for _, id := range p.Order {
		if seen[id] {
			continue
		}
		if s := p.Section(id); s != nil {
			seen[id] = true
			out = append(out, s)
		}
	}

	// Defensive append: newly created sections stay visible even if the
	// persisted order list predates them.
	if !seen[ExclusiveContentID] {
		out = append(out, &p.Exclusive)
	}
	for i := range p.Sections {
		if !seen[p.Sections[i].SectionID()] {
			out = append(out, p.Sections[i])
		}
	}
	return out
}

// BrandKit holds agency-managed content rendered after all ordered sections.
// It is intentionally not part of the orderable section list.
type BrandKit struct {
	Items       []ContentItem
	Engagements []Engagement
	Pricing     []PriceTier
}

// IsEmpty reports whether the brand kit has no content at all.
func (b BrandKit) IsEmpty() bool {
	return len(b.Items) == 0 && len(b.Engagements) == 0 && len(b.Pricing) == 0
}

// Engagement describes a past collaboration shown in the brand-kit block.
type Engagement struct {
	ID    string
	Brand string
	Title string
	URL   string
}

// PriceTier describes a service offering in the brand-kit block.
type PriceTier struct {
	ID          string
	Name        string
	Price       string
	Description string
}
