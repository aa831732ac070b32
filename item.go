package linkpage

// ContentItem is a single entry inside a section: a link, an embed, or an
// exclusive-content unlock.
type ContentItem struct {
	ID       string
	Title    string
	Price    string
	ImageURL string
	Discount string

	// CountdownMinutes and CountdownSeconds describe a discount countdown.
	// Both are clamped to [0,59] at parse time; a zero total means no
	// active countdown.
	CountdownMinutes int
	CountdownSeconds int

	URL string

	// IsEmail marks the item as a mailto target. Click dispatch is driven by
	// this flag alone, never by sniffing the URL string.
	IsEmail bool
}

// CountdownTotal returns the countdown duration in seconds.
func (it ContentItem) CountdownTotal() int {
	return it.CountdownMinutes*60 + it.CountdownSeconds
}

// HasCountdown reports whether the item carries an active countdown.
func (it ContentItem) HasCountdown() bool {
	return it.CountdownTotal() > 0
}
