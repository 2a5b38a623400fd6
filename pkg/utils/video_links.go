package utils

import (
	"net/url"
	"strings"
)

const embedBaseURL = "https://www.youtube.com/embed/"

// ToEmbedURL rewrites a YouTube link (short link, watch page, shorts or an
// existing embed) to the canonical embeddable form. URLs that cannot be
// parsed or carry no video identifier are returned unchanged, so callers
// always end up with a usable link.
func ToEmbedURL(rawURL string) string {
	id := extractVideoID(rawURL)
	if id == "" {
		return rawURL
	}
	return embedBaseURL + id
}

func extractVideoID(rawURL string) string {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return ""
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return ""
	}

	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")

	switch host {
	case "youtu.be":
		return firstPathSegment(parsed.Path)
	case "youtube.com", "youtube-nocookie.com":
		if id := parsed.Query().Get("v"); id != "" {
			return id
		}
		for _, prefix := range []string{"/shorts/", "/embed/"} {
			if strings.HasPrefix(parsed.Path, prefix) {
				return firstPathSegment(strings.TrimPrefix(parsed.Path, prefix))
			}
		}
	}

	return ""
}

func firstPathSegment(path string) string {
	segment := strings.Trim(path, "/")
	if idx := strings.Index(segment, "/"); idx >= 0 {
		segment = segment[:idx]
	}
	return segment
}
