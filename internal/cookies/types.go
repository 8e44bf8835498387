package cookies

import (
	"errors"
	"strings"
	"time"
)

// DefaultPath is the path a cookie gets when none is given.
const DefaultPath = "/"

var (
	ErrEmptyName        = errors.New("cookie name is empty")
	ErrInvalidName      = errors.New("cookie name contains '=' or ';'")
	ErrInvalidValue     = errors.New("cookie value contains ';'")
	ErrInvalidAttribute = errors.New("cookie attribute contains ';'")
)

// Cookie represents a single HTTP cookie as read from or written to a store.
// IMPORTANT: Value is SENSITIVE and must never be logged or formatted into
// error messages.
type Cookie struct {
	// Name is the cookie name, unique per (Name, Domain, Path) in a store.
	Name string
	// Value is the cookie value. Never logged.
	Value string
	// Domain is the cookie domain. Empty means host-only: the cookie binds
	// to the host of the request URL it was set for.
	Domain string
	// Path is the cookie path scope.
	Path string
	// Expires is the absolute expiry. The zero value marks a session cookie.
	Expires time.Time
	// Secure indicates the cookie should only be sent over HTTPS.
	Secure bool
	// HttpOnly indicates the cookie is not accessible via JavaScript.
	HttpOnly bool
	// Version is the legacy Version attribute, passed through untouched.
	Version string
}

// New returns a cookie with the given name and value and default attributes.
func New(name, value string) Cookie {
	return Cookie{Name: name, Value: value, Path: DefaultPath}
}

// IsSession reports whether c has no expiry.
func (c Cookie) IsSession() bool {
	return c.Expires.IsZero()
}

// Expired reports whether c has an expiry that is not after now.
func (c Cookie) Expired(now time.Time) bool {
	return !c.Expires.IsZero() && !c.Expires.After(now)
}

// HostOnly reports whether c carries no Domain attribute.
func (c Cookie) HostOnly() bool {
	return c.Domain == ""
}

// WithDomain returns a copy of c bound to domain.
func (c Cookie) WithDomain(domain string) Cookie {
	c.Domain = domain
	return c
}

// Validate checks the record invariants a store relies on.
func (c Cookie) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if strings.ContainsAny(c.Name, "=;") {
		return ErrInvalidName
	}
	if strings.Contains(c.Value, ";") {
		return ErrInvalidValue
	}
	if strings.Contains(c.Domain, ";") || strings.Contains(c.Path, ";") {
		return ErrInvalidAttribute
	}
	return nil
}

// Jar maps cookie names to cookies. Names are the only key: two cookies
// sharing a name on different domains or paths collapse, last one wins.
type Jar map[string]Cookie

// NewJar builds a jar from cookies in order.
func NewJar(cookies []Cookie) Jar {
	jar := make(Jar, len(cookies))
	for _, c := range cookies {
		jar[c.Name] = c
	}
	return jar
}

// Attributes converts every cookie in the jar to its boundary form.
func (j Jar) Attributes() map[string]Attributes {
	out := make(map[string]Attributes, len(j))
	for name, c := range j {
		out[name] = c.Attributes()
	}
	return out
}

// Attributes is the plain, serializable cookie mapping exchanged at the
// bridge boundary. Expires is an ISO-8601 timestamp.
type Attributes struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   *string `json:"domain,omitempty"`
	Path     *string `json:"path,omitempty"`
	Expires  *string `json:"expires,omitempty"`
	Secure   *bool   `json:"secure,omitempty"`
	HttpOnly *bool   `json:"httpOnly,omitempty"`
	Version  *string `json:"version,omitempty"`
}

// Cookie validates a and fills every missing field with its default.
// An expires value that is not a valid timestamp is dropped, it never
// fails the conversion.
func (a Attributes) Cookie() (Cookie, error) {
	c := New(a.Name, a.Value)
	if a.Domain != nil {
		c.Domain = strings.TrimSpace(*a.Domain)
	}
	if a.Path != nil && *a.Path != "" {
		c.Path = *a.Path
	}
	if a.Expires != nil {
		if t, ok := ParseTime(*a.Expires); ok {
			c.Expires = t
		}
	}
	if a.Secure != nil {
		c.Secure = *a.Secure
	}
	if a.HttpOnly != nil {
		c.HttpOnly = *a.HttpOnly
	}
	if a.Version != nil {
		c.Version = *a.Version
	}
	if err := c.Validate(); err != nil {
		return Cookie{}, err
	}
	return c, nil
}

// Attributes converts c to its boundary form. Domain and Version are only
// present when set; Secure and HttpOnly are always reported.
func (c Cookie) Attributes() Attributes {
	path := c.Path
	if path == "" {
		path = DefaultPath
	}
	secure, httpOnly := c.Secure, c.HttpOnly
	a := Attributes{
		Name:     c.Name,
		Value:    c.Value,
		Path:     &path,
		Secure:   &secure,
		HttpOnly: &httpOnly,
	}
	if c.Domain != "" {
		domain := c.Domain
		a.Domain = &domain
	}
	if !c.Expires.IsZero() {
		expires := c.Expires.UTC().Format(time.RFC3339)
		a.Expires = &expires
	}
	if c.Version != "" {
		version := c.Version
		a.Version = &version
	}
	return a
}
