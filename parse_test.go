package linkpage

import (
	"strings"
	"testing"
)

func TestParseMinimalPage(t *testing.T) {
	data := []byte(`
id: creator-1
display_name: Ada
background: "#112233"
`)
	page, warnings, err := Parse(data, "page.yaml")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("got %d warnings, want 0", len(warnings))
	}
	if page.ID != "creator-1" {
		t.Errorf("id = %q, want %q", page.ID, "creator-1")
	}
	if len(page.Order) != 1 || page.Order[0] != ExclusiveContentID {
		t.Errorf("default order = %v, want [%s]", page.Order, ExclusiveContentID)
	}
}

func TestParseRequiresPageID(t *testing.T) {
	_, _, err := Parse([]byte(`display_name: Ada`), "page.yaml")
	if err == nil {
		t.Fatal("expected error for missing page id")
	}
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
	if ve.Field != "id" {
		t.Errorf("field = %q, want %q", ve.Field, "id")
	}
}

func TestParseSectionVariants(t *testing.T) {
	data := []byte(`
id: creator-1
order: [exclusive-content, links-1, txt-1, cap-1]
sections:
  - id: links-1
    name: My Links
    type: links
    layout: row
    items:
      - id: a
        title: First
        url: https://example.com
  - id: txt-1
    title: About
    type: text
    content: "Hello **world**"
  - id: cap-1
    title: Newsletter
    type: email
`)
	page, warnings, err := Parse(data, "page.yaml")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(page.Sections) != 3 {
		t.Fatalf("got %d sections, want 3", len(page.Sections))
	}

	cs, ok := page.Sections[0].(*CustomSection)
	if !ok {
		t.Fatalf("sections[0] type = %T, want *CustomSection", page.Sections[0])
	}
	if cs.Layout != LayoutRow || cs.Kind != KindLinks {
		t.Errorf("custom section = %+v", cs)
	}

	txt, ok := page.Sections[1].(*TextSection)
	if !ok || txt.Kind != TextPlain {
		t.Errorf("sections[1] = %#v, want plain TextSection", page.Sections[1])
	}

	capture, ok := page.Sections[2].(*TextSection)
	if !ok || capture.Kind != TextEmail {
		t.Errorf("sections[2] = %#v, want email TextSection", page.Sections[2])
	}
}

func TestParseLegacyEmailTitleInference(t *testing.T) {
	tests := []struct {
		title string
		want  TextKind
	}{
		{"Social", TextEmail},
		{"EMAIL", TextEmail},
		{"  email  ", TextEmail},
		{"About me", TextPlain},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			data := []byte("id: p\nsections:\n  - id: s1\n    title: \"" + tt.title + "\"\n")
			page, _, err := Parse(data, "page.yaml")
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			txt, ok := page.Sections[0].(*TextSection)
			if !ok {
				t.Fatalf("section type = %T, want *TextSection", page.Sections[0])
			}
			if txt.Kind != tt.want {
				t.Errorf("kind = %q, want %q", txt.Kind, tt.want)
			}
		})
	}
}

func TestParseUnknownVariantsSkipped(t *testing.T) {
	data := []byte(`
id: creator-1
sections:
  - id: weird-1
    type: hologram
    layout: list
  - id: weird-2
    type: links
    layout: carousel
  - id: ok-1
    type: links
    layout: list
`)
	page, warnings, err := Parse(data, "page.yaml")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(page.Sections) != 1 {
		t.Fatalf("got %d sections, want 1 (unknown variants skipped)", len(page.Sections))
	}
	if page.Sections[0].SectionID() != "ok-1" {
		t.Errorf("kept section = %q, want ok-1", page.Sections[0].SectionID())
	}
	if len(warnings) != 2 {
		t.Fatalf("got %d warnings, want 2: %v", len(warnings), warnings)
	}
	if !strings.Contains(warnings[0].Message, "hologram") {
		t.Errorf("warning = %v, want mention of unknown type", warnings[0])
	}
}

func TestParseDuplicateSectionID(t *testing.T) {
	data := []byte(`
id: creator-1
sections:
  - id: s1
    type: links
  - id: s1
    type: links
`)
	if _, _, err := Parse(data, "page.yaml"); err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestParseCountdownCoercion(t *testing.T) {
	tests := []struct {
		name     string
		yamlVal  string
		wantMins int
	}{
		{"integer", "5", 5},
		{"numeric string", `"12"`, 12},
		{"garbage string", `"soon"`, 0},
		{"negative clamped", "-3", 0},
		{"overflow clamped", "90", 59},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := []byte(`
id: p
exclusive:
  items:
    - id: i1
      title: Drop
      countdown_minutes: ` + tt.yamlVal + `
`)
			page, _, err := Parse(data, "page.yaml")
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			if got := page.Exclusive.Items[0].CountdownMinutes; got != tt.wantMins {
				t.Errorf("minutes = %d, want %d", got, tt.wantMins)
			}
		})
	}
}
