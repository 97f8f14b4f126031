// Package identity derives the stable keys that join catalog models to
// observed listings: a normalized model key and a canonical listing link.
package identity

import (
	"net/url"
	"strings"
)

// marketplaceHosts are domains where the listing identity lives in the URL
// path and query parameters only carry per-click tracking state. Links from
// these hosts are safe to strip down to scheme+host+path.
var marketplaceHosts = []string{
	"mercadolivre.com.br",
	"mercadolibre.com",
}

// NormalizeKey canonicalizes a free-text model name into the comparison key
// used for all product-to-listing joins: surrounding whitespace trimmed,
// ASCII letters uppercased, everything that is not a letter or digit
// stripped. "Roland FP-30X" and " roland fp-30x " collide on purpose.
func NormalizeKey(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - ('a' - 'A'))
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CanonicalizeLink strips query parameters and the fragment from links on
// recognized marketplace hosts, so tracking parameters appended per
// click-through do not masquerade as new listings. Links from other domains
// and unparsable URLs are returned unchanged.
func CanonicalizeLink(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}

	if !isMarketplaceHost(u.Hostname()) {
		return raw
	}

	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

func isMarketplaceHost(host string) bool {
	host = strings.ToLower(host)
	for _, known := range marketplaceHosts {
		if host == known || strings.HasSuffix(host, "."+known) {
			return true
		}
	}
	return false
}
