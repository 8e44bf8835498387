package cookies

import (
	"net/url"
	"strings"
)

// MatchDomain reports whether c applies to host under the shared store's
// suffix rule. A cookie matches when its domain equals host, or when the
// domain, with a leading dot added if missing, is a suffix of host.
// A cookie without a domain always passes: it is host-only, and the store
// already selected it by exact host before asking.
func MatchDomain(c Cookie, host string) bool {
	host = canonicalHost(host)
	if c.Domain == "" {
		return true
	}
	domain := strings.ToLower(c.Domain)
	if domain == host {
		return true
	}
	dotDomain := domain
	if !strings.HasPrefix(dotDomain, ".") {
		dotDomain = "." + dotDomain
	}
	if dotDomain == "."+host {
		return true
	}
	return strings.HasSuffix(host, dotDomain)
}

// MatchHostOrDotPrefix reports whether c applies to host under the
// per-webview store's rule: the domain equals host, or starts with "."+host.
// This is not the same relation as MatchDomain: "example.com" does not
// match "a.example.com" here, while ".a.example.com.evil" would.
func MatchHostOrDotPrefix(c Cookie, host string) bool {
	return c.Domain == host || strings.HasPrefix(c.Domain, "."+host)
}

// PathMatch implements the RFC 6265 §5.1.4 path-match relation.
func PathMatch(cookiePath, requestPath string) bool {
	if requestPath == "" {
		requestPath = DefaultPath
	}
	if cookiePath == "" {
		cookiePath = DefaultPath
	}
	if cookiePath == requestPath {
		return true
	}
	if !strings.HasPrefix(requestPath, cookiePath) {
		return false
	}
	return strings.HasSuffix(cookiePath, "/") || requestPath[len(cookiePath)] == '/'
}

// Matcher decides which cookies apply to a request URL. Only the domain is
// checked unless MatchPath is set.
type Matcher struct {
	MatchPath bool
}

// Match reports whether c applies to u.
func (m Matcher) Match(c Cookie, u *url.URL) bool {
	if !MatchDomain(c, u.Hostname()) {
		return false
	}
	if m.MatchPath && !PathMatch(c.Path, u.EscapedPath()) {
		return false
	}
	return true
}

func canonicalHost(host string) string {
	return strings.TrimSuffix(strings.ToLower(host), ".")
}
