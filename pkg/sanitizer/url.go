package sanitizer

import (
	"net/url"
	"strings"
)

// NormalizeImageURL trims an image reference and drops anything that is not
// an absolute http(s) URL, a protocol-relative URL or a rooted path.
func NormalizeImageURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		if u.Host == "" {
			return ""
		}
		return raw
	case "":
		if strings.HasPrefix(raw, "/") {
			return raw
		}
		return ""
	default:
		return ""
	}
}
