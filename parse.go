package linkpage

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// pageFile mirrors the YAML authoring format for a creator page.
type pageFile struct {
	ID          string        `yaml:"id"`
	DisplayName string        `yaml:"display_name"`
	Background  string        `yaml:"background"`
	Order       []string      `yaml:"order"`
	Exclusive   exclusiveFile `yaml:"exclusive"`
	Sections    []sectionFile `yaml:"sections"`
	BrandKit    brandKitFile  `yaml:"brand_kit"`
}

type exclusiveFile struct {
	Items []itemFile `yaml:"items"`
}

type sectionFile struct {
	ID                       string     `yaml:"id"`
	Name                     string     `yaml:"name"`
	Title                    string     `yaml:"title"`
	Type                     string     `yaml:"type"`
	Layout                   string     `yaml:"layout"`
	Content                  string     `yaml:"content"`
	UseItemImageAsBackground bool       `yaml:"use_item_image_as_background"`
	Items                    []itemFile `yaml:"items"`
}

type itemFile struct {
	ID               string  `yaml:"id"`
	Title            string  `yaml:"title"`
	Price            string  `yaml:"price"`
	ImageURL         string  `yaml:"image_url"`
	Discount         string  `yaml:"discount"`
	CountdownMinutes flexInt `yaml:"countdown_minutes"`
	CountdownSeconds flexInt `yaml:"countdown_seconds"`
	URL              string  `yaml:"url"`
	IsEmail          bool    `yaml:"is_email"`
}

type brandKitFile struct {
	Items       []itemFile `yaml:"items"`
	Engagements []struct {
		ID    string `yaml:"id"`
		Brand string `yaml:"brand"`
		Title string `yaml:"title"`
		URL   string `yaml:"url"`
	} `yaml:"engagements"`
	Pricing []struct {
		ID          string `yaml:"id"`
		Name        string `yaml:"name"`
		Price       string `yaml:"price"`
		Description string `yaml:"description"`
	} `yaml:"pricing"`
}

// flexInt accepts either a YAML integer or a numeric string. Values that do
// not parse as an integer are coerced to 0, which downstream treats as "no
// countdown".
type flexInt int

func (f *flexInt) UnmarshalYAML(node *yaml.Node) error {
	var n int
	if err := node.Decode(&n); err == nil {
		*f = flexInt(n)
		return nil
	}
	var s string
	if err := node.Decode(&s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			*f = flexInt(n)
			return nil
		}
	}
	*f = 0
	return nil
}

// ParseFile reads and validates a page file.
func ParseFile(path string) (*Page, []ParseWarning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read page file: %w", err)
	}
	return Parse(data, path)
}

// Parse validates a page document. Unknown section or layout variants are
// skipped and reported as warnings rather than failing the parse, since they
// may originate from records that predate a schema addition. Structural
// problems (missing ids, duplicate ids) are errors.
func Parse(data []byte, file string) (*Page, []ParseWarning, error) {
	var pf pageFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, nil, NewValidationError(file, "", fmt.Sprintf("invalid YAML: %v", err))
	}

	if pf.ID == "" {
		return nil, nil, NewValidationError(file, "id", "page id is required").
			WithHint("add a top-level `id:` field")
	}

	var warnings []ParseWarning
	page := &Page{
		ID:          pf.ID,
		DisplayName: pf.DisplayName,
		Background:  pf.Background,
		Order:       pf.Order,
	}
	if len(page.Order) == 0 {
		page.Order = []string{ExclusiveContentID}
	}

	for i, it := range pf.Exclusive.Items {
		item, ws := convertItem(it, fmt.Sprintf("exclusive.items[%d]", i))
		warnings = append(warnings, ws...)
		page.Exclusive.Items = append(page.Exclusive.Items, item)
	}

	seen := map[string]bool{ExclusiveContentID: true}
	for i, sf := range pf.Sections {
		field := fmt.Sprintf("sections[%d]", i)
		if sf.ID == "" {
			return nil, warnings, NewValidationError(file, field+".id", "section id is required")
		}
		if seen[sf.ID] {
			return nil, warnings, NewValidationError(file, field+".id",
				fmt.Sprintf("duplicate section id %q", sf.ID))
		}
		seen[sf.ID] = true

		sec, ws := convertSection(sf, field)
		warnings = append(warnings, ws...)
		if sec != nil {
			page.Sections = append(page.Sections, sec)
		}
	}

	for i, it := range pf.BrandKit.Items {
		item, ws := convertItem(it, fmt.Sprintf("brand_kit.items[%d]", i))
		warnings = append(warnings, ws...)
		page.BrandKit.Items = append(page.BrandKit.Items, item)
	}
	for _, e := range pf.BrandKit.Engagements {
		page.BrandKit.Engagements = append(page.BrandKit.Engagements, Engagement(e))
	}
	for _, p := range pf.BrandKit.Pricing {
		page.BrandKit.Pricing = append(page.BrandKit.Pricing, PriceTier(p))
	}

	return page, warnings, nil
}

// convertSection maps a raw section entry onto the closed Section union.
// A nil result with a warning is the explicit "unknown variant" case.
func convertSection(sf sectionFile, field string) (Section, []ParseWarning) {
	var warnings []ParseWarning

	kind, known := ParseSectionKind(sf.Type)
	if sf.Type != "" && !known {
		return nil, []ParseWarning{{
			Field:   field + ".type",
			Message: fmt.Sprintf("unknown section type %q; section will not render", sf.Type),
		}}
	}

	switch kind {
	case KindEmail, KindText:
		return &TextSection{
			ID:      sf.ID,
			Title:   textTitle(sf),
			Content: sf.Content,
			Kind:    textKindOf(kind),
		}, nil

	case "":
		// No type tag. Legacy records marked email-capture sections only by
		// title, so normalize that inference here, once, at ingestion.
		if t := strings.ToLower(strings.TrimSpace(textTitle(sf))); t == "social" || t == "email" {
			return &TextSection{
				ID:      sf.ID,
				Title:   textTitle(sf),
				Content: sf.Content,
				Kind:    TextEmail,
			}, nil
		}
		if sf.Layout == "" && len(sf.Items) == 0 {
			return &TextSection{
				ID:      sf.ID,
				Title:   textTitle(sf),
				Content: sf.Content,
				Kind:    TextPlain,
			}, nil
		}
		kind = KindLinks
	}

	layout, ok := ParseLayout(sf.Layout)
	if !ok {
		if sf.Layout == "" {
			layout = LayoutList
		} else {
			return nil, []ParseWarning{{
				Field:   field + ".layout",
				Message: fmt.Sprintf("unknown layout %q; section will not render", sf.Layout),
			}}
		}
	}

	cs := &CustomSection{
		ID:                       sf.ID,
		Name:                     textTitle(sf),
		Layout:                   layout,
		Kind:                     kind,
		UseItemImageAsBackground: sf.UseItemImageAsBackground,
	}
	for i, it := range sf.Items {
		item, ws := convertItem(it, fmt.Sprintf("%s.items[%d]", field, i))
		warnings = append(warnings, ws...)
		cs.Items = append(cs.Items, item)
	}
	return cs, warnings
}

func textTitle(sf sectionFile) string {
	if sf.Title != "" {
		return sf.Title
	}
	return sf.Name
}

func textKindOf(k SectionKind) TextKind {
	if k == KindEmail {
		return TextEmail
	}
	return TextPlain
}

// convertItem validates a raw item entry. Countdown values outside [0,59]
// are clamped, with a warning.
func convertItem(it itemFile, field string) (ContentItem, []ParseWarning) {
	var warnings []ParseWarning

	mins, ws := clampCountdown(int(it.CountdownMinutes), field+".countdown_minutes")
	warnings = append(warnings, ws...)
	secs, ws := clampCountdown(int(it.CountdownSeconds), field+".countdown_seconds")
	warnings = append(warnings, ws...)

	return ContentItem{
		ID:               it.ID,
		Title:            it.Title,
		Price:            it.Price,
		ImageURL:         it.ImageURL,
		Discount:         it.Discount,
		CountdownMinutes: mins,
		CountdownSeconds: secs,
		URL:              it.URL,
		IsEmail:          it.IsEmail,
	}, warnings
}

func clampCountdown(v int, field string) (int, []ParseWarning) {
	switch {
	case v < 0:
		return 0, []ParseWarning{{Field: field, Message: fmt.Sprintf("value %d clamped to 0", v)}}
	case v > 59:
		return 59, []ParseWarning{{Field: field, Message: fmt.Sprintf("value %d clamped to 59", v)}}
	}
	return v, nil
}
