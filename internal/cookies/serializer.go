package cookies

import (
	"strings"
	"time"
)

// ExpiresLayout is the RFC 1123 GMT form legacy cookie stores require for
// the Expires attribute. Anything else is silently rejected or misread.
const ExpiresLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

// Epoch is the expiry used to delete a cookie by overwriting it.
var Epoch = time.Unix(0, 0).UTC()

// Serialize renders c as a Set-Cookie value in the fixed attribute order
// name=value; Domain; Path; Expires; Secure; HttpOnly. Path is always
// present. Serialize has no error path; an empty name still serializes.
func Serialize(c Cookie) string {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteByte('=')
	b.WriteString(c.Value)

	if c.Domain != "" {
		b.WriteString("; Domain=")
		b.WriteString(c.Domain)
	}

	path := c.Path
	if path == "" {
		path = DefaultPath
	}
	b.WriteString("; Path=")
	b.WriteString(path)

	if !c.Expires.IsZero() {
		b.WriteString("; Expires=")
		b.WriteString(FormatExpires(c.Expires))
	}
	if c.Secure {
		b.WriteString("; Secure")
	}
	if c.HttpOnly {
		b.WriteString("; HttpOnly")
	}
	return b.String()
}

// FormatExpires normalizes t to GMT and formats it with ExpiresLayout.
func FormatExpires(t time.Time) string {
	return t.UTC().Format(ExpiresLayout)
}

// Expire returns the record that deletes the cookie called name when
// written: empty value, root path, and an expiry at the Unix epoch.
func Expire(name string) Cookie {
	c := New(name, "")
	c.Expires = Epoch
	return c
}

// BuildCookieHeader builds an HTTP Cookie header value from a slice of cookies.
// Format: "name1=val1; name2=val2"
func BuildCookieHeader(cookies []Cookie) string {
	if len(cookies) == 0 {
		return ""
	}

	parts := make([]string, len(cookies))
	for i, c := range cookies {
		parts[i] = c.Name + "=" + c.Value
	}
	return strings.Join(parts, "; ")
}
