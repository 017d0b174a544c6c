package homepage

import (
	"encoding/base64"
	"errors"
	"net/url"
	"regexp"
	"strings"
)

var (
	// ErrNoRegion is returned when a page has no generated region.
	ErrNoRegion = errors.New("no generated region found")
	// ErrUnclosedRegion is returned when a region has no closing marker.
	ErrUnclosedRegion = errors.New("generated region is not closed")
)

// Merger replaces the generated region of a page body.
type Merger interface {
	Merge(body, content string) (string, error)
}

// TagMerger delimits the region with HTML comments.
type TagMerger struct {
	Tag string
}

// Markers returns the opening and closing markers.
func (m TagMerger) Markers() (string, string) {
	return "<!-- " + m.Tag + " -->", "<!-- /" + m.Tag + " -->"
}

// Merge replaces every region in body with content. A missing closing
// marker fails the merge; nothing is guessed.
func (m TagMerger) Merge(body, content string) (string, error) {
	open, closing := m.Markers()

	var sb strings.Builder
	found := false
	rest := body
	for {
		before, after, ok := strings.Cut(rest, open)
		sb.WriteString(before)
		if !ok {
			break
		}
		_, tail, ok := strings.Cut(after, closing)
		if !ok {
			return "", ErrUnclosedRegion
		}
		sb.WriteString(open)
		sb.WriteString(content)
		sb.WriteString(closing)
		found = true
		rest = tail
	}
	if !found {
		return "", ErrNoRegion
	}
	return sb.String(), nil
}

// BakeryMerger stores the region in WPBakery raw HTML blocks.
type BakeryMerger struct {
	pattern *regexp.Regexp
}

// NewBakeryMerger matches raw HTML blocks with the element class tag.
func NewBakeryMerger(tag string) *BakeryMerger {
	return &BakeryMerger{
		pattern: regexp.MustCompile(`(\[vc_raw_html el_class="` + regexp.QuoteMeta(tag) + `"\])[a-zA-Z0-9+=/]*(\[/vc_raw_html\])`),
	}
}

// Merge replaces the payload of every matching block with content.
func (m *BakeryMerger) Merge(body, content string) (string, error) {
	if !m.pattern.MatchString(body) {
		return "", ErrNoRegion
	}
	payload := EncodeBakery(content)
	return m.pattern.ReplaceAllString(body, "${1}"+payload+"${2}"), nil
}

// EncodeBakery encodes content the way WPBakery stores raw HTML: base64 of
// the percent-encoded text.
func EncodeBakery(content string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(content), "+", "%20")
	return base64.StdEncoding.EncodeToString([]byte(escaped))
}
