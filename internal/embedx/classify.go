// Package embedx maps link URLs onto the closed set of platforms the page
// can render as first-class embeds.
package embedx

import (
	"net/url"
	"strings"
)

// Platform identifies a recognized embed platform.
type Platform string

const (
	YouTube    Platform = "youtube"
	Vimeo      Platform = "vimeo"
	Spotify    Platform = "spotify"
	SoundCloud Platform = "soundcloud"
	Twitch     Platform = "twitch"
	TikTok     Platform = "tiktok"
	Instagram  Platform = "instagram"
	Twitter    Platform = "twitter"
	AppleMusic Platform = "apple-music"
	Facebook   Platform = "facebook"
)

// platformInfo describes how a platform is recognized and branded.
type platformInfo struct {
	platform   Platform
	hosts      []string // matched against the hostname and its parent domains
	brandColor string
}

// registry is the closed platform set. Host matching is suffix-based so
// subdomains like music.youtube.com or m.twitch.tv classify correctly.
var registry = []platformInfo{
	{YouTube, []string{"youtube.com", "youtu.be"}, "#ff0000"},
	{Vimeo, []string{"vimeo.com"}, "#1ab7ea"},
	{Spotify, []string{"spotify.com", "open.spotify.com"}, "#1db954"},
	{SoundCloud, []string{"soundcloud.com"}, "#ff5500"},
	{Twitch, []string{"twitch.tv"}, "#9146ff"},
	{TikTok, []string{"tiktok.com"}, "#010101"},
	{Instagram, []string{"instagram.com"}, "#e4405f"},
	{Twitter, []string{"twitter.com", "x.com"}, "#1da1f2"},
	{AppleMusic, []string{"music.apple.com"}, "#fa243c"},
	{Facebook, []string{"facebook.com", "fb.watch"}, "#1877f2"},
}

// Classify maps a URL to a known platform. An empty URL or one whose host is
// not in the registry returns ("", false): the caller must treat the item as
// a generic link.
func Classify(rawURL string) (Platform, bool) {
	host := hostOf(rawURL)
	if host == "" {
		return "", false
	}
	for _, info := range registry {
		for _, h := range info.hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return info.platform, true
			}
		}
	}
	return "", false
}

// BrandColor returns the platform's brand color for placeholder backgrounds.
// NeutralColor is returned for unrecognized platforms.
func BrandColor(p Platform) string {
	for _, info := range registry {
		if info.platform == p {
			return info.brandColor
		}
	}
	return NeutralColor
}

// NeutralColor is the placeholder background when no platform matches.
const NeutralColor = "#9ca3af"

// BrandColorForURL resolves the placeholder background for an arbitrary URL.
func BrandColorForURL(rawURL string) string {
	if p, ok := Classify(rawURL); ok {
		return BrandColor(p)
	}
	return NeutralColor
}

// hostOf extracts the lowercased hostname from a URL, tolerating scheme-less
// values the way creators paste them ("youtube.com/watch?v=...").
func hostOf(rawURL string) string {
	raw := strings.TrimSpace(rawURL)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := strings.ToLower(parsed.Hostname())
	return strings.TrimPrefix(host, "www.")
}

// EmbedSrc rewrites a platform URL into its embeddable player form where the
// platform has one; other platforms embed the original URL directly.
func EmbedSrc(p Platform, rawURL string) string {
	raw := strings.TrimSpace(rawURL)
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return rawURL
	}

	switch p {
	case YouTube:
		if id := youtubeID(parsed); id != "" {
			return "https://www.youtube.com/embed/" + id
		}
	case Vimeo:
		if id := strings.Trim(parsed.Path, "/"); id != "" && !strings.Contains(id, "/") {
			return "https://player.vimeo.com/video/" + id
		}
	case Spotify:
		path := strings.Trim(parsed.Path, "/")
		if path != "" && !strings.HasPrefix(path, "embed/") {
			return "https://open.spotify.com/embed/" + path
		}
	}
	return raw
}

func youtubeID(u *url.URL) string {
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if host == "youtu.be" {
		return strings.Trim(u.Path, "/")
	}
	if id := u.Query().Get("v"); id != "" {
		return id
	}
	// Shorts and already-embedded forms carry the ID as the last path element.
	path := strings.Trim(u.Path, "/")
	if strings.HasPrefix(path, "shorts/") || strings.HasPrefix(path, "embed/") {
		parts := strings.Split(path, "/")
		return parts[len(parts)-1]
	}
	return ""
}
