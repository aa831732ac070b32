// Package render builds the preview render tree for a creator page.
//
// Rendering is a pure snapshot-in/tree-out step: the renderer performs no
// I/O and holds no page state. Dispatch is by section variant, then by
// layout for custom sections.
package render

import (
	"bytes"
	"log"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/creatorhub/linkpage"
	"github.com/creatorhub/linkpage/internal/countdown"
	"github.com/creatorhub/linkpage/internal/embedx"
	"github.com/creatorhub/linkpage/internal/theme"
)

// Embed slider geometry: each click advances one item width plus the gap.
const (
	embedItemWidth = 280
	embedGap       = 16
	sliderStep     = embedItemWidth + embedGap
)

// linkRel is applied to every external-link action.
const linkRel = "noopener,noreferrer"

// CountdownLookup resolves the live countdown snapshot for an item. A false
// return means no countdown is registered and the renderer falls back to the
// item's static initial value.
type CountdownLookup func(itemID string) (countdown.Snapshot, bool)

// Renderer builds render trees. Safe for concurrent use.
type Renderer struct {
	md      goldmark.Markdown
	compact bool
	debug   bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithCompactRows renders row layouts with the 3-column public-page variant
// instead of the 2-column editor variant.
func WithCompactRows() Option {
	return func(r *Renderer) { r.compact = true }
}

// WithDebug enables render logging.
func WithDebug() Option {
	return func(r *Renderer) { r.debug = true }
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		md: goldmark.New(goldmark.WithExtensions(extension.Linkify)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Page renders the full preview tree: every ordered section that produces
// output, then the brand-kit block. The theme is resolved from the page
// background once per composed render.
func (r *Renderer) Page(p *linkpage.Page, cd CountdownLookup) *Node {
	th := theme.Resolve(p.Background)

	root := &Node{
		Kind:  KindPage,
		ID:    p.ID,
		Text:  p.DisplayName,
		Color: p.Background,
		Dark:  th.IsDark,
	}

	for _, sec := range p.OrderedSections() {
		if node := r.Section(sec, th, cd); node != nil {
			root.Children = append(root.Children, node)
		}
	}

	if bk := r.brandKit(p.BrandKit, th); bk != nil {
		root.Children = append(root.Children, bk)
	}
	return root
}

// Section renders one section. A nil result means the section produces
// nothing, e.g. an embeds section with no classifiable item.
func (r *Renderer) Section(sec linkpage.Section, th theme.Theme, cd CountdownLookup) *Node {
	switch s := sec.(type) {
	case *linkpage.ExclusiveContent:
		return r.exclusive(s, th, cd)
	case *linkpage.CustomSection:
		return r.custom(s, th, cd)
	case *linkpage.TextSection:
		return r.text(s)
	default:
		if r.debug {
			log.Printf("[Render] Unknown section variant %T, skipping", sec)
		}
		return nil
	}
}

// exclusive renders the unlock section: a full-width list of purchase cards
// with price, discount, and a live countdown where one is active.
func (r *Renderer) exclusive(s *linkpage.ExclusiveContent, th theme.Theme, cd CountdownLookup) *Node {
	if len(s.Items) == 0 {
		return nil
	}
	node := &Node{Kind: KindSection, ID: linkpage.ExclusiveContentID}
	for i := range s.Items {
		node.Children = append(node.Children, r.unlockCard(&s.Items[i], th, cd))
	}
	return node
}

func (r *Renderer) unlockCard(it *linkpage.ContentItem, th theme.Theme, cd CountdownLookup) *Node {
	card := &Node{
		Kind:   KindCard,
		ID:     it.ID,
		Action: clickAction(it),
		Children: []*Node{
			r.thumbnail(it, th),
			{Kind: KindTitle, Text: it.Title},
		},
	}
	if it.Price != "" {
		card.Children = append(card.Children, &Node{Kind: KindText, Text: it.Price})
	}
	if it.Discount != "" {
		card.Children = append(card.Children, &Node{Kind: KindText, Text: it.Discount})
	}
	if it.HasCountdown() {
		card.Children = append(card.Children, r.countdownNode(it, cd))
	}
	return card
}

// countdownNode renders the five independent MM:SS glyph slots.
func (r *Renderer) countdownNode(it *linkpage.ContentItem, cd CountdownLookup) *Node {
	snap, ok := countdown.Snapshot{}, false
	if cd != nil {
		snap, ok = cd(it.ID)
	}
	if !ok {
		snap = countdown.Snapshot{ItemID: it.ID, Remaining: it.CountdownTotal()}
	}

	node := &Node{Kind: KindCountdown, ID: it.ID, Text: snap.Display()}
	for _, glyph := range snap.Slots() {
		node.Children = append(node.Children, &Node{Kind: KindCountdownSlot, Text: glyph})
	}
	return node
}

// custom dispatches a creator-defined section by kind, then layout.
func (r *Renderer) custom(s *linkpage.CustomSection, th theme.Theme, cd CountdownLookup) *Node {
	switch s.Kind {
	case linkpage.KindEmbeds:
		return r.embeds(s)
	case linkpage.KindLinks, linkpage.KindUnlockContent:
		return r.links(s, th, cd)
	default:
		// Unknown kinds are filtered at parse; anything else reaching here
		// came from an unvalidated caller and renders nothing.
		if r.debug {
			log.Printf("[Render] Section %s has unrenderable kind %q", s.ID, s.Kind)
		}
		return nil
	}
}

// embeds renders a section of platform embeds. Items without a URL or whose
// URL does not classify are silently excluded; if nothing classifies the
// whole section renders nothing rather than an empty block.
func (r *Renderer) embeds(s *linkpage.CustomSection) *Node {
	var frames []*Node
	for i := range s.Items {
		it := &s.Items[i]
		if it.URL == "" {
			continue
		}
		platform, ok := embedx.Classify(it.URL)
		if !ok {
			continue
		}
		frames = append(frames, &Node{
			Kind: KindEmbed,
			ID:   it.ID,
			Text: it.Title,
			Src:  embedx.EmbedSrc(platform, it.URL),
			Icon: Icon(platform),
		})
	}
	if len(frames) == 0 {
		return nil
	}

	node := &Node{Kind: KindSection, ID: s.ID, Text: s.Name}
	if s.Layout == linkpage.LayoutRow {
		// Horizontal slider with one-step controls on either side.
		slider := &Node{
			Kind:     KindSlider,
			Step:     sliderStep,
			Children: frames,
		}
		node.Children = []*Node{
			{Kind: KindSliderControl, Text: "prev", Step: -sliderStep},
			slider,
			{Kind: KindSliderControl, Text: "next", Step: sliderStep},
		}
		return node
	}

	// list and parallel-row render as stacked embeds.
	node.Children = frames
	return node
}

// links renders a link section in its selected layout.
func (r *Renderer) links(s *linkpage.CustomSection, th theme.Theme, cd CountdownLookup) *Node {
	if len(s.Items) == 0 {
		return nil
	}

	node := &Node{Kind: KindSection, ID: s.ID, Text: s.Name}
	switch s.Layout {
	case linkpage.LayoutList:
		for i := range s.Items {
			node.Children = append(node.Children, r.listItem(&s.Items[i], th))
		}
	case linkpage.LayoutRow:
		node.Columns = 2
		if r.compact {
			node.Columns = 3
		}
		for i := range s.Items {
			node.Children = append(node.Children, r.tile(&s.Items[i], th))
		}
	case linkpage.LayoutParallelRow:
		node.Columns = 2
		for i := range s.Items {
			node.Children = append(node.Children, r.parallelCard(&s.Items[i], th))
		}
	default:
		return nil
	}

	if s.Kind == linkpage.KindUnlockContent {
		// Children map 1:1 to items here, so the countdown rides inside the
		// tile or card it unlocks.
		for i := range s.Items {
			if s.Items[i].HasCountdown() {
				node.Children[i].Children = append(node.Children[i].Children, r.countdownNode(&s.Items[i], cd))
			}
		}
	}
	return node
}

// listItem renders a full-width row: thumbnail (or placeholder) plus title.
func (r *Renderer) listItem(it *linkpage.ContentItem, th theme.Theme) *Node {
	return &Node{
		Kind:   KindListItem,
		ID:     it.ID,
		Action: clickAction(it),
		Children: []*Node{
			r.thumbnail(it, th),
			{Kind: KindTitle, Text: it.Title},
		},
	}
}

// tile renders an aspect-ratio-locked cell with the title overlaid at the
// bottom in a text-shadowed label.
func (r *Renderer) tile(it *linkpage.ContentItem, th theme.Theme) *Node {
	return &Node{
		Kind:   KindTile,
		ID:     it.ID,
		Action: clickAction(it),
		Children: []*Node{
			r.thumbnail(it, th),
			{Kind: KindTitle, Text: it.Title},
		},
	}
}

// parallelCard renders a compact horizontal card. Card text is clamped to
// two lines, so the full details ride along in a hover tooltip.
func (r *Renderer) parallelCard(it *linkpage.ContentItem, th theme.Theme) *Node {
	card := &Node{
		Kind:   KindCard,
		ID:     it.ID,
		Action: clickAction(it),
		Tooltip: &Tooltip{
			Title: it.Title,
			URL:   it.URL,
			Price: it.Price,
		},
		Children: []*Node{
			r.thumbnail(it, th),
			{Kind: KindTitle, Text: it.Title},
		},
	}
	if it.Price != "" {
		card.Children = append(card.Children, &Node{Kind: KindText, Text: it.Price})
	}
	return card
}

// thumbnail renders the item image, or the no-thumbnail placeholder: a block
// colored with the matched platform's brand color (neutral gray otherwise)
// with the item's icon centered on it.
func (r *Renderer) thumbnail(it *linkpage.ContentItem, th theme.Theme) *Node {
	if it.ImageURL != "" {
		return &Node{
			Kind: KindThumbnail,
			Src:  it.ImageURL,
			Children: []*Node{
				{Kind: KindIcon, Icon: iconFor(it), Color: th.IconCircle()},
			},
		}
	}
	return &Node{
		Kind:  KindPlaceholder,
		Color: embedx.BrandColorForURL(it.URL),
		Children: []*Node{
			{Kind: KindIcon, Icon: iconFor(it), Color: th.IconCircle()},
		},
	}
}

// iconFor selects the affordance glyph: email flag wins, then a platform
// match, then the generic link icon.
func iconFor(it *linkpage.ContentItem) Icon {
	if it.IsEmail {
		return IconEmail
	}
	if platform, ok := embedx.Classify(it.URL); ok {
		return Icon(platform)
	}
	return IconLink
}

// clickAction maps an item to its click behavior. Dispatch is driven by the
// IsEmail flag alone: an email item always produces a mailto action, even
// when its URL value is not URL-shaped.
func clickAction(it *linkpage.ContentItem) *Action {
	if it.IsEmail {
		return &Action{Type: ActionMailto, URL: "mailto:" + it.URL}
	}
	if it.URL == "" {
		return nil
	}
	return &Action{
		Type:   ActionOpenURL,
		URL:    it.URL,
		Target: "_blank",
		Rel:    linkRel,
	}
}

// text renders a text section: a static title/content pair, or an inline
// email-capture field whose submit navigates to a mailto link.
func (r *Renderer) text(s *linkpage.TextSection) *Node {
	if s.Kind == linkpage.TextEmail {
		return &Node{
			Kind: KindEmailCapture,
			ID:   s.ID,
			Text: s.Title,
			Action: &Action{
				Type: ActionMailto,
				URL:  "mailto:" + s.Content,
			},
		}
	}

	node := &Node{Kind: KindSection, ID: s.ID, Text: s.Title}
	if s.Content != "" {
		node.Children = append(node.Children, &Node{
			Kind: KindHTML,
			HTML: r.markdown(s.Content),
		})
	}
	return node
}

// brandKit renders the agency block after all ordered sections.
func (r *Renderer) brandKit(bk linkpage.BrandKit, th theme.Theme) *Node {
	if bk.IsEmpty() {
		return nil
	}

	node := &Node{Kind: KindBrandKit}
	for i := range bk.Items {
		node.Children = append(node.Children, r.listItem(&bk.Items[i], th))
	}
	for _, e := range bk.Engagements {
		eng := &Node{Kind: KindEngagement, ID: e.ID, Text: e.Brand}
		if e.Title != "" {
			eng.Children = append(eng.Children, &Node{Kind: KindText, Text: e.Title})
		}
		if e.URL != "" {
			eng.Action = &Action{Type: ActionOpenURL, URL: e.URL, Target: "_blank", Rel: linkRel}
		}
		node.Children = append(node.Children, eng)
	}
	for _, p := range bk.Pricing {
		tier := &Node{Kind: KindPriceTier, ID: p.ID, Text: p.Name}
		if p.Price != "" {
			tier.Children = append(tier.Children, &Node{Kind: KindText, Text: p.Price})
		}
		if p.Description != "" {
			tier.Children = append(tier.Children, &Node{Kind: KindText, Text: p.Description})
		}
		node.Children = append(node.Children, tier)
	}
	return node
}

// NormalizeCaptureInput validates an email-capture submission: the value is
// trimmed and must be non-empty. The boolean is false for rejected input.
func NormalizeCaptureInput(in string) (string, bool) {
	trimmed := strings.TrimSpace(in)
	return trimmed, trimmed != ""
}

// markdown converts text-section content to HTML.
func (r *Renderer) markdown(content string) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(content), &buf); err != nil {
		if r.debug {
			log.Printf("[Render] Markdown conversion failed: %v", err)
		}
		return content
	}
	return buf.String()
}
