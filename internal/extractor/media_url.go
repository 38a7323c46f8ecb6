package extractor

import (
	"net/url"
	"path"
	"strings"
)

var mediaExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true, ".heic": true,
	".mp4": true, ".mov": true,
}

// resolveMediaURL turns protocol-relative and relative media references into absolute URLs.
func resolveMediaURL(raw string, base *url.URL) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	if !ref.IsAbs() {
		if base == nil {
			return "", false
		}
		ref = base.ResolveReference(ref)
	}
	if ref.Scheme != "http" && ref.Scheme != "https" {
		return "", false
	}
	return ref.String(), true
}

// mediaExtension picks the file extension for a media URL
func mediaExtension(rawURL string, video bool) string {
	if u, err := url.Parse(rawURL); err == nil {
		ext := strings.ToLower(path.Ext(u.Path))
		if mediaExtensions[ext] {
			return ext
		}
		if strings.Contains(strings.ToLower(u.Path), "webp") {
			return ".webp"
		}
	}
	if video {
		return ".mp4"
	}
	return ".jpg"
}
