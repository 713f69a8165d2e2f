package identity

import (
	"net/url"
	"strings"
)

// CanonicalImportURL reduces a listing URL to the stable key used for
// duplicate-import detection. The same advert reached through tracking
// parameters, http vs https or a www prefix must map to one key.
func CanonicalImportURL(rawURL string) string {
	trimmed := strings.TrimSpace(rawURL)
	u, err := url.Parse(trimmed)
	if err != nil || u.Host == "" {
		return trimmed
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")

	path := strings.TrimRight(u.EscapedPath(), "/")

	return "https://" + host + path
}
