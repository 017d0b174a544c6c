package reconcile

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"livestream-sync/core/event"
)

// ThumbnailRule selects a thumbnail for broadcasts whose event title
// contains Match (case-insensitive).
type ThumbnailRule struct {
	Match string `mapstructure:"match" json:"match"`
	URI   string `mapstructure:"uri" json:"uri"`
}

// ThumbnailRules picks the desired thumbnail of an event.
type ThumbnailRules struct {
	Default string          `mapstructure:"default" json:"default"`
	Rules   []ThumbnailRule `mapstructure:"rules" json:"rules"`
}

// Select returns the event's override, else the first matching rule, else
// the default. An empty result means no thumbnail is managed.
func (r ThumbnailRules) Select(ev *event.Event) string {
	if ev.ThumbnailOverride != nil && ev.ThumbnailOverride.URL != "" {
		return ev.ThumbnailOverride.URL
	}
	title := fold(ev.Title)
	for _, rule := range r.Rules {
		if rule.Match != "" && strings.Contains(title, fold(rule.Match)) {
			return rule.URI
		}
	}
	return r.Default
}

// fold makes composed and decomposed umlauts compare equal.
func fold(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}
