package cookies

import (
	"net/http"
	"strings"
	"time"
)

// ignoredAttributes are Set-Cookie attributes the record has no field for.
// They are dropped instead of being mistaken for a new name=value pair.
var ignoredAttributes = map[string]struct{}{
	"max-age":     {},
	"samesite":    {},
	"priority":    {},
	"partitioned": {},
	"comment":     {},
	"commenturl":  {},
	"discard":     {},
	"port":        {},
}

// extra expiry layouts seen in the wild on top of what http.ParseTime takes.
var expiresLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"Mon, 02-Jan-2006 15:04:05 MST",
	time.RFC1123Z,
}

// Parse splits a Set-Cookie value, or a combined Cookie read-back string,
// into cookies. Attributes apply to the most recently started cookie;
// unknown attributes and bare unknown tokens are ignored. Parse never fails:
// an unparsable Expires only drops the expiry of that one cookie.
func Parse(s string) []Cookie {
	var (
		cookies []Cookie
		current = -1
	)
	for _, segment := range strings.Split(s, ";") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		key, value, hasValue := strings.Cut(segment, "=")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if applyAttribute(cookies, current, key, value, hasValue) {
			continue
		}
		if !hasValue || key == "" {
			// Bare token that is not Secure or HttpOnly.
			continue
		}

		cookies = append(cookies, New(key, value))
		current = len(cookies) - 1
	}
	return cookies
}

// applyAttribute applies key to cookies[current] when key names an
// attribute and reports whether the segment was an attribute keyword.
func applyAttribute(cookies []Cookie, current int, key, value string, hasValue bool) bool {
	lower := strings.ToLower(key)
	switch lower {
	case "domain", "path", "expires", "version":
		if !hasValue {
			// "Path" on its own is no attribute and no pair either.
			return true
		}
	case "secure", "httponly":
		if hasValue {
			// "secure=1" is an ordinary cookie named secure.
			return false
		}
	default:
		_, ignored := ignoredAttributes[lower]
		return ignored
	}

	if current < 0 {
		return true
	}
	c := &cookies[current]
	switch lower {
	case "domain":
		c.Domain = value
	case "path":
		if value == "" {
			value = DefaultPath
		}
		c.Path = value
	case "expires":
		if t, ok := ParseTime(value); ok {
			c.Expires = t
		} else {
			c.Expires = time.Time{}
		}
	case "version":
		c.Version = value
	case "secure":
		c.Secure = true
	case "httponly":
		c.HttpOnly = true
	}
	return true
}

// ParseTime parses an expiry timestamp. It accepts ISO-8601 / RFC 3339 (the
// form produced by the platform attribute setter) and every HTTP date form,
// including the RFC 1123 GMT form Serialize emits. The result is in UTC.
func ParseTime(value string) (time.Time, bool) {
	value = strings.Trim(strings.TrimSpace(value), `"`)
	if value == "" {
		return time.Time{}, false
	}
	if t, err := http.ParseTime(value); err == nil {
		return t.UTC(), true
	}
	for _, layout := range expiresLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
