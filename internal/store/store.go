// Package store adapts the two native cookie stores to one capability-tagged
// interface. Each adapter implements every method of Adapter; methods for
// primitives its backing store lacks return ErrUnsupported, and the
// capability set is reported up front so callers can tell defaulted
// answers from real ones.
package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/warpdl/nativecookies/internal/cookies"
)

var (
	// ErrUnsupported is returned for a capability the backing store lacks.
	ErrUnsupported = errors.New("operation not supported by this cookie store")
	// ErrNoHost is returned for a URL without a host.
	ErrNoHost = errors.New("url has no host")
)

// Adapter is the capability-tagged view of one native cookie store.
// Every method blocks until the store has completed the operation.
type Adapter interface {
	Variant() Variant
	Capabilities() Capabilities

	// ReadURL returns the cookies the store sends to u.
	ReadURL(ctx context.Context, u *url.URL) ([]cookies.Cookie, error)
	// ReadAll enumerates the store.
	ReadAll(ctx context.Context) ([]cookies.Cookie, error)
	// Write stores c for u.
	Write(ctx context.Context, u *url.URL, c cookies.Cookie) error
	// WriteHeader applies a raw Set-Cookie value for u.
	WriteHeader(ctx context.Context, u *url.URL, header string) error
	// DeleteName removes the cookie called name for u and reports whether
	// one was found.
	DeleteName(ctx context.Context, u *url.URL, name string) (bool, error)
	// DeleteAll removes every cookie.
	DeleteAll(ctx context.Context) (bool, error)
	// DeleteSession removes every session cookie.
	DeleteSession(ctx context.Context) (bool, error)
	// Flush persists the store.
	Flush(ctx context.Context) error
}

// SharedBackend is the process-wide native store. It offers no enumeration:
// reads return the combined "a=1; b=2" string the store would send to a URL.
type SharedBackend interface {
	// SetCookie applies one Set-Cookie value for rawURL.
	SetCookie(rawURL, header string) error
	// CookieString returns the combined Cookie string for rawURL, or "".
	CookieString(rawURL string) (string, error)
	// RemoveAllCookies removes every cookie and reports the store's verdict.
	RemoveAllCookies(ctx context.Context) (bool, error)
	// RemoveSessionCookies removes every session cookie and reports the
	// store's verdict.
	RemoveSessionCookies(ctx context.Context) (bool, error)
	// Flush writes the store to disk.
	Flush() error
}

// WebviewBackend is the per-webview native store. It enumerates fully and
// deletes by cookie identity; it persists on its own and tells session
// cookies apart without help.
type WebviewBackend interface {
	AllCookies(ctx context.Context) ([]cookies.Cookie, error)
	SetCookie(ctx context.Context, c cookies.Cookie) error
	DeleteCookie(ctx context.Context, c cookies.Cookie) error
}

// ParseURL parses rawURL and requires a host.
func ParseURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	if u.Hostname() == "" {
		return nil, ErrNoHost
	}
	return u, nil
}
