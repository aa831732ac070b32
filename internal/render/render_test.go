package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creatorhub/linkpage"
	"github.com/creatorhub/linkpage/internal/countdown"
	"github.com/creatorhub/linkpage/internal/theme"
)

var lightTheme = theme.Resolve("#ffffff")

func TestPageEndToEnd(t *testing.T) {
	// Page with order ["exclusive-content","custom-1"], custom-1 in row
	// layout with one imaged and one image-less item.
	page := &linkpage.Page{
		ID:         "p",
		Background: "#ffffff",
		Exclusive: linkpage.ExclusiveContent{
			Items: []linkpage.ContentItem{{ID: "x1", Title: "Unlock", Price: "$5"}},
		},
		Sections: []linkpage.Section{
			&linkpage.CustomSection{
				ID:     "custom-1",
				Layout: linkpage.LayoutRow,
				Kind:   linkpage.KindLinks,
				Items: []linkpage.ContentItem{
					{ID: "itemA", Title: "With image", ImageURL: "https://cdn.example.com/a.jpg"},
					{ID: "itemB", Title: "No image"},
				},
			},
		},
		Order: []string{linkpage.ExclusiveContentID, "custom-1"},
	}

	tree := New().Page(page, nil)
	require.NotNil(t, tree)
	require.Len(t, tree.Children, 2)
	assert.Equal(t, linkpage.ExclusiveContentID, tree.Children[0].ID)

	row := tree.Children[1]
	assert.Equal(t, "custom-1", row.ID)
	assert.Equal(t, 2, row.Columns)

	tiles := row.FindAll(KindTile)
	require.Len(t, tiles, 2)

	// itemA shows its image with a title overlay.
	thumbA := tiles[0].Find(KindThumbnail)
	require.NotNil(t, thumbA)
	assert.Equal(t, "https://cdn.example.com/a.jpg", thumbA.Src)
	assert.Equal(t, "With image", tiles[0].Find(KindTitle).Text)

	// itemB falls back to the neutral placeholder with a generic link icon.
	placeB := tiles[1].Find(KindPlaceholder)
	require.NotNil(t, placeB)
	assert.Equal(t, "#9ca3af", placeB.Color)
	assert.Equal(t, IconLink, placeB.Find(KindIcon).Icon)
	assert.Equal(t, "No image", tiles[1].Find(KindTitle).Text)
}

func TestRowCompactVariant(t *testing.T) {
	sec := &linkpage.CustomSection{
		ID:     "s",
		Layout: linkpage.LayoutRow,
		Kind:   linkpage.KindLinks,
		Items:  []linkpage.ContentItem{{ID: "a", Title: "A"}},
	}
	editor := New().Section(sec, lightTheme, nil)
	public := New(WithCompactRows()).Section(sec, lightTheme, nil)
	assert.Equal(t, 2, editor.Columns)
	assert.Equal(t, 3, public.Columns)
}

func TestListLayoutPlaceholderBrandColor(t *testing.T) {
	sec := &linkpage.CustomSection{
		ID:     "s",
		Layout: linkpage.LayoutList,
		Kind:   linkpage.KindLinks,
		Items: []linkpage.ContentItem{
			{ID: "yt", Title: "My channel", URL: "https://youtube.com/@me"},
			{ID: "plain", Title: "My site", URL: "https://example.com"},
		},
	}
	node := New().Section(sec, lightTheme, nil)
	require.NotNil(t, node)

	items := node.FindAll(KindListItem)
	require.Len(t, items, 2)

	yt := items[0].Find(KindPlaceholder)
	require.NotNil(t, yt)
	assert.Equal(t, "#ff0000", yt.Color, "known platform uses its brand color")
	assert.Equal(t, Icon("youtube"), yt.Find(KindIcon).Icon)

	plain := items[1].Find(KindPlaceholder)
	assert.Equal(t, "#9ca3af", plain.Color, "generic link uses neutral gray")
	assert.Equal(t, IconLink, plain.Find(KindIcon).Icon)
}

func TestParallelRowTooltip(t *testing.T) {
	sec := &linkpage.CustomSection{
		ID:     "s",
		Layout: linkpage.LayoutParallelRow,
		Kind:   linkpage.KindLinks,
		Items: []linkpage.ContentItem{
			{ID: "a", Title: "A very long clamped title", URL: "https://example.com", Price: "$3"},
		},
	}
	node := New().Section(sec, lightTheme, nil)
	card := node.Find(KindCard)
	require.NotNil(t, card)
	require.NotNil(t, card.Tooltip)
	assert.Equal(t, "A very long clamped title", card.Tooltip.Title)
	assert.Equal(t, "https://example.com", card.Tooltip.URL)
	assert.Equal(t, "$3", card.Tooltip.Price)
}

func TestClickActionDispatch(t *testing.T) {
	tests := []struct {
		name     string
		item     linkpage.ContentItem
		wantType ActionType
		wantURL  string
		wantNil  bool
	}{
		{
			name:     "plain link opens new tab",
			item:     linkpage.ContentItem{URL: "https://example.com"},
			wantType: ActionOpenURL,
			wantURL:  "https://example.com",
		},
		{
			name:     "email flag wins over non-url value",
			item:     linkpage.ContentItem{URL: "hello@example.com", IsEmail: true},
			wantType: ActionMailto,
			wantURL:  "mailto:hello@example.com",
		},
		{
			name:     "email flag with url-shaped value still mailto",
			item:     linkpage.ContentItem{URL: "https://example.com", IsEmail: true},
			wantType: ActionMailto,
			wantURL:  "mailto:https://example.com",
		},
		{
			name:    "no url no action",
			item:    linkpage.ContentItem{Title: "x"},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := clickAction(&tt.item)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantURL, got.URL)
			if tt.wantType == ActionOpenURL {
				assert.Equal(t, "_blank", got.Target)
				assert.Equal(t, "noopener,noreferrer", got.Rel)
			}
		})
	}
}

func TestEmbedsFiltering(t *testing.T) {
	sec := &linkpage.CustomSection{
		ID:     "emb",
		Layout: linkpage.LayoutList,
		Kind:   linkpage.KindEmbeds,
		Items: []linkpage.ContentItem{
			{ID: "a", URL: "https://youtube.com/watch?v=abc"},
			{ID: "b", URL: "https://example.com/not-a-platform"},
			{ID: "c"}, // no URL at all
			{ID: "d", URL: "https://vimeo.com/123"},
		},
	}
	node := New().Section(sec, lightTheme, nil)
	require.NotNil(t, node)

	embeds := node.FindAll(KindEmbed)
	require.Len(t, embeds, 2, "unclassifiable items are excluded")
	assert.Equal(t, "a", embeds[0].ID)
	assert.Equal(t, "d", embeds[1].ID)

	// Filtering twice yields the same subset.
	again := New().Section(sec, lightTheme, nil)
	assert.Len(t, again.FindAll(KindEmbed), 2)
}

func TestEmbedsItemWithoutURLNeverClassifies(t *testing.T) {
	sec := &linkpage.CustomSection{
		ID:     "emb",
		Layout: linkpage.LayoutList,
		Kind:   linkpage.KindEmbeds,
		Items: []linkpage.ContentItem{
			{ID: "a", IsEmail: true}, // isEmail does not make it an embed
		},
	}
	node := New().Section(sec, lightTheme, nil)
	assert.Nil(t, node, "section with no classifiable item renders nothing")
}

func TestEmbedsRowSlider(t *testing.T) {
	sec := &linkpage.CustomSection{
		ID:     "emb",
		Layout: linkpage.LayoutRow,
		Kind:   linkpage.KindEmbeds,
		Items: []linkpage.ContentItem{
			{ID: "a", URL: "https://youtube.com/watch?v=a1"},
			{ID: "b", URL: "https://youtube.com/watch?v=b2"},
		},
	}
	node := New().Section(sec, lightTheme, nil)
	require.NotNil(t, node)

	slider := node.Find(KindSlider)
	require.NotNil(t, slider)
	assert.Len(t, slider.Children, 2)
	assert.Equal(t, 296, slider.Step, "step is one item width plus the gap")

	controls := node.FindAll(KindSliderControl)
	require.Len(t, controls, 2)
	assert.Equal(t, -296, controls[0].Step)
	assert.Equal(t, 296, controls[1].Step)
}

func TestTextSectionVariants(t *testing.T) {
	plain := &linkpage.TextSection{
		ID:      "t1",
		Title:   "About",
		Content: "Hello **world**",
		Kind:    linkpage.TextPlain,
	}
	node := New().Section(plain, lightTheme, nil)
	require.NotNil(t, node)
	html := node.Find(KindHTML)
	require.NotNil(t, html)
	assert.Contains(t, html.HTML, "<strong>world</strong>")

	capture := &linkpage.TextSection{
		ID:      "t2",
		Title:   "Newsletter",
		Content: "creator@example.com",
		Kind:    linkpage.TextEmail,
	}
	node = New().Section(capture, lightTheme, nil)
	require.NotNil(t, node)
	assert.Equal(t, KindEmailCapture, node.Kind)
	require.NotNil(t, node.Action)
	assert.Equal(t, ActionMailto, node.Action.Type)
	assert.Equal(t, "mailto:creator@example.com", node.Action.URL)
}

func TestCountdownRendering(t *testing.T) {
	sched := countdown.NewScheduler()
	sched.Set("x1", 1, 30)
	sched.Tick() // 89s remaining

	sec := &linkpage.ExclusiveContent{
		Items: []linkpage.ContentItem{
			{ID: "x1", Title: "Drop", CountdownMinutes: 1, CountdownSeconds: 30},
		},
	}
	node := New().Section(sec, lightTheme, sched.Get)
	cdNode := node.Find(KindCountdown)
	require.NotNil(t, cdNode)
	assert.Equal(t, "01:29", cdNode.Text)

	slots := cdNode.FindAll(KindCountdownSlot)
	require.Len(t, slots, 5)
	assert.Equal(t, "0", slots[0].Text)
	assert.Equal(t, "1", slots[1].Text)
	assert.Equal(t, ":", slots[2].Text)
	assert.Equal(t, "2", slots[3].Text)
	assert.Equal(t, "9", slots[4].Text)
}

func TestCountdownFallbackWithoutScheduler(t *testing.T) {
	sec := &linkpage.ExclusiveContent{
		Items: []linkpage.ContentItem{
			{ID: "x1", Title: "Drop", CountdownMinutes: 0, CountdownSeconds: 45},
		},
	}
	node := New().Section(sec, lightTheme, nil)
	cdNode := node.Find(KindCountdown)
	require.NotNil(t, cdNode)
	assert.Equal(t, "00:45", cdNode.Text, "static initial value without a live scheduler")
}

func TestDarkThemeIconTreatment(t *testing.T) {
	sec := &linkpage.CustomSection{
		ID:     "s",
		Layout: linkpage.LayoutList,
		Kind:   linkpage.KindLinks,
		Items:  []linkpage.ContentItem{{ID: "a", Title: "A"}},
	}
	dark := New().Section(sec, theme.Resolve("#000000"), nil)
	assert.Equal(t, "#ffffff", dark.Find(KindIcon).Color, "white icon circle on dark background")

	light := New().Section(sec, lightTheme, nil)
	assert.Equal(t, "#000000", light.Find(KindIcon).Color)
}

func TestBrandKitRendersAfterSections(t *testing.T) {
	page := &linkpage.Page{
		ID:         "p",
		Background: "#ffffff",
		Sections: []linkpage.Section{
			&linkpage.CustomSection{
				ID: "s1", Layout: linkpage.LayoutList, Kind: linkpage.KindLinks,
				Items: []linkpage.ContentItem{{ID: "a", Title: "A"}},
			},
		},
		Order: []string{"s1"},
		BrandKit: linkpage.BrandKit{
			Engagements: []linkpage.Engagement{{ID: "e1", Brand: "Acme", URL: "https://acme.example"}},
			Pricing:     []linkpage.PriceTier{{ID: "p1", Name: "Post", Price: "$100"}},
		},
	}

	tree := New().Page(page, nil)
	require.NotEmpty(t, tree.Children)
	last := tree.Children[len(tree.Children)-1]
	assert.Equal(t, KindBrandKit, last.Kind, "brand kit always renders last")
	assert.NotNil(t, last.Find(KindEngagement))
	assert.NotNil(t, last.Find(KindPriceTier))
}

func TestEmptySectionsRenderNothing(t *testing.T) {
	r := New()
	assert.Nil(t, r.Section(&linkpage.ExclusiveContent{}, lightTheme, nil))
	assert.Nil(t, r.Section(&linkpage.CustomSection{ID: "s", Kind: linkpage.KindLinks, Layout: linkpage.LayoutList}, lightTheme, nil))
}

func TestNormalizeCaptureInput(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"  fan@example.com  ", "fan@example.com", true},
		{"fan@example.com", "fan@example.com", true},
		{"   ", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeCaptureInput(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("NormalizeCaptureInput(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestPageThemeOnRoot(t *testing.T) {
	page := linkpage.New("p")
	page.Background = "#101010"
	tree := New().Page(page, nil)
	assert.Equal(t, KindPage, tree.Kind)
	assert.True(t, tree.Dark)
	assert.Equal(t, "#101010", tree.Color)
}

func TestUnlockSectionCountdownRidesInsideItem(t *testing.T) {
	sec := &linkpage.CustomSection{
		ID:     "unlocks",
		Kind:   linkpage.KindUnlockContent,
		Layout: linkpage.LayoutRow,
		Items: []linkpage.ContentItem{
			{ID: "free", Title: "Already open"},
			{ID: "gated", Title: "Gated", CountdownMinutes: 2, CountdownSeconds: 0},
		},
	}
	node := New().Section(sec, lightTheme, nil)
	require.NotNil(t, node)
	require.Len(t, node.Children, 2)

	// The countdown belongs to the gated tile, not to the section grid.
	for _, child := range node.Children {
		assert.NotEqual(t, KindCountdown, child.Kind)
	}
	gated := node.Children[1]
	assert.Equal(t, "gated", gated.ID)
	cdNode := gated.Find(KindCountdown)
	require.NotNil(t, cdNode)
	assert.Equal(t, "02:00", cdNode.Text)
	assert.Nil(t, node.Children[0].Find(KindCountdown))
}
