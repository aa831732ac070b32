package render

// Kind discriminates render-tree node types.
type Kind string

const (
	KindPage          Kind = "page"
	KindSection       Kind = "section"
	KindListItem      Kind = "list-item"
	KindTile          Kind = "tile"
	KindCard          Kind = "card"
	KindThumbnail     Kind = "thumbnail"
	KindPlaceholder   Kind = "placeholder"
	KindIcon          Kind = "icon"
	KindTitle         Kind = "title"
	KindText          Kind = "text"
	KindHTML          Kind = "html"
	KindEmbed         Kind = "embed"
	KindSlider        Kind = "slider"
	KindSliderControl Kind = "slider-control"
	KindCountdown     Kind = "countdown"
	KindCountdownSlot Kind = "countdown-slot"
	KindEmailCapture  Kind = "email-capture"
	KindBrandKit      Kind = "brand-kit"
	KindEngagement    Kind = "engagement"
	KindPriceTier     Kind = "price-tier"
)

// Icon names the glyph drawn on an item affordance. Platform icons reuse the
// platform tag; the two fallbacks are email and the generic link.
type Icon string

const (
	IconEmail Icon = "email"
	IconLink  Icon = "link"
)

// ActionType distinguishes the two click behaviors.
type ActionType string

const (
	// ActionOpenURL opens the URL in a new tab.
	ActionOpenURL ActionType = "open-url"
	// ActionMailto navigates to a mailto: link.
	ActionMailto ActionType = "mailto"
)

// Action describes what clicking a node does.
type Action struct {
	Type   ActionType `json:"type"`
	URL    string     `json:"url"`
	Target string     `json:"target,omitempty"`
	Rel    string     `json:"rel,omitempty"`
}

// Tooltip surfaces the full item details when card text is clamped.
type Tooltip struct {
	Title string `json:"title,omitempty"`
	URL   string `json:"url,omitempty"`
	Price string `json:"price,omitempty"`
}

// Node is one element of the rendered preview tree. The tree is serialized
// to JSON and pushed to preview clients as-is.
type Node struct {
	Kind     Kind     `json:"kind"`
	ID       string   `json:"id,omitempty"`
	Text     string   `json:"text,omitempty"`
	HTML     string   `json:"html,omitempty"`
	Src      string   `json:"src,omitempty"`
	Color    string   `json:"color,omitempty"`
	Icon     Icon     `json:"icon,omitempty"`
	Columns  int      `json:"columns,omitempty"`
	Step     int      `json:"step,omitempty"`
	Dark     bool     `json:"dark,omitempty"`
	Action   *Action  `json:"action,omitempty"`
	Tooltip  *Tooltip `json:"tooltip,omitempty"`
	Children []*Node  `json:"children,omitempty"`
}

// Find returns the first descendant (including n) with the given kind.
func (n *Node) Find(kind Kind) *Node {
	if n == nil {
		return nil
	}
	if n.Kind == kind {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(kind); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every descendant (including n) with the given kind.
func (n *Node) FindAll(kind Kind) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	if n.Kind == kind {
		out = append(out, n)
	}
	for _, c := range n.Children {
		out = append(out, c.FindAll(kind)...)
	}
	return out
}
