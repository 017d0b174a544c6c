package event

import (
	"net/url"
	"strings"
)

const shortLinkHost = "youtu.be"

// StreamURL returns the short watch URL for a video id.
func StreamURL(videoID string) string {
	return "https://" + shortLinkHost + "/" + videoID
}

// VideoID extracts a video id from a watch URL. Short links carry the id as
// the path, canonical links as the "v" query parameter. Embed URLs and other
// hosts are not recognised.
func VideoID(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}

	host := strings.ToLower(u.Hostname())
	var id string
	switch {
	case host == shortLinkHost:
		id = strings.Trim(u.Path, "/")
	case strings.HasSuffix(host, "youtube.com"):
		id = u.Query().Get("v")
	default:
		return "", false
	}

	if !isVideoID(id) {
		return "", false
	}
	return id, true
}

func isVideoID(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}
