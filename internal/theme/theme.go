// Package theme derives legible foreground treatment from an arbitrary
// creator-supplied page background.
package theme

import (
	"regexp"
	"strings"
)

// Theme is the resolved foreground treatment for a background.
type Theme struct {
	IsDark bool
}

// Foreground returns the text color for the resolved background.
func (t Theme) Foreground() string {
	if t.IsDark {
		return "#ffffff"
	}
	return "#000000"
}

// IconCircle returns the fill color for social icon circles.
func (t Theme) IconCircle() string {
	if t.IsDark {
		return "#ffffff"
	}
	return "#000000"
}

// IconGlyph returns the glyph color drawn inside an icon circle.
func (t Theme) IconGlyph() string {
	if t.IsDark {
		return "#000000"
	}
	return "#ffffff"
}

var hexColor = regexp.MustCompile(`#([0-9a-fA-F]{6})`)

// darkFragments are hex fragments of stock palette colors known to be dark.
var darkFragments = []string{"#1a1a", "#111", "#222", "#333"}

// Resolve classifies a background specification as light or dark.
//
// Precedence: CSS variable references, "white", "#fff", and the transparent
// token resolve light; "black", "#000", known dark fragments, and "dark"
// resolve dark; otherwise a 6-digit hex literal is classified by perceptual
// luminance; anything else defaults to light.
func Resolve(background string) Theme {
	bg := strings.ToLower(strings.TrimSpace(background))

	switch {
	case strings.HasPrefix(bg, "var("),
		strings.Contains(bg, "white"),
		strings.Contains(bg, "#fff"),
		bg == "transparent":
		return Theme{IsDark: false}
	}

	if strings.Contains(bg, "black") || strings.Contains(bg, "#000") || strings.Contains(bg, "dark") {
		return Theme{IsDark: true}
	}
	for _, frag := range darkFragments {
		if strings.Contains(bg, frag) {
			return Theme{IsDark: true}
		}
	}

	if m := hexColor.FindStringSubmatch(bg); m != nil {
		return Theme{IsDark: luminance(m[1]) < 0.5}
	}

	return Theme{IsDark: false}
}

// luminance computes perceptual luminance of a 6-digit hex color,
// normalized to [0,1].
func luminance(hex6 string) float64 {
	r := float64(parseHexByte(hex6[0:2]))
	g := float64(parseHexByte(hex6[2:4]))
	b := float64(parseHexByte(hex6[4:6]))
	return (0.299*r + 0.587*g + 0.114*b) / 255
}

func parseHexByte(s string) int {
	v := 0
	for i := 0; i < len(s); i++ {
		v <<= 4
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			v |= int(c - '0')
		case c >= 'a' && c <= 'f':
			v |= int(c-'a') + 10
		case c >= 'A' && c <= 'F':
			v |= int(c-'A') + 10
		}
	}
	return v
}
