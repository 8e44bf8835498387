package store

import (
	"context"
	"net/url"

	"github.com/warpdl/nativecookies/internal/cookies"
)

var legacyCapabilities = CapabilitySet(
	CapReadURL,
	CapWrite,
	CapDeleteName,
	CapDeleteAll,
	CapDeleteSession,
	CapFlush,
)

// Legacy fronts the process-wide shared store. It cannot enumerate, and it
// has no removal primitive for a single cookie: DeleteName overwrites the
// cookie with an already expired one.
type Legacy struct {
	backend SharedBackend
}

// NewLegacy creates an adapter over backend.
func NewLegacy(backend SharedBackend) *Legacy {
	return &Legacy{backend: backend}
}

func (l *Legacy) Variant() Variant { return LegacyShared }

func (l *Legacy) Capabilities() Capabilities { return legacyCapabilities }

// ReadURL parses the combined cookie string the store returns for u.
// The records carry name and value only; the store does not report
// attributes on read.
func (l *Legacy) ReadURL(_ context.Context, u *url.URL) ([]cookies.Cookie, error) {
	raw, err := l.backend.CookieString(u.String())
	if err != nil {
		return nil, err
	}
	return cookies.Parse(raw), nil
}

// ReadAll is not available on the shared store.
func (l *Legacy) ReadAll(context.Context) ([]cookies.Cookie, error) {
	return nil, ErrUnsupported
}

// Write serializes c and applies it for u.
func (l *Legacy) Write(_ context.Context, u *url.URL, c cookies.Cookie) error {
	return l.backend.SetCookie(u.String(), cookies.Serialize(c))
}

// WriteHeader hands header to the store untouched.
func (l *Legacy) WriteHeader(_ context.Context, u *url.URL, header string) error {
	return l.backend.SetCookie(u.String(), header)
}

// DeleteName looks for name among the cookies the store sends to u and,
// when present, overwrites it with an empty value expiring at the epoch.
// A cookie the store does not return for u cannot be deleted this way.
func (l *Legacy) DeleteName(ctx context.Context, u *url.URL, name string) (bool, error) {
	visible, err := l.ReadURL(ctx, u)
	if err != nil {
		return false, err
	}
	for _, c := range visible {
		if c.Name != name {
			continue
		}
		if err := l.backend.SetCookie(u.String(), cookies.Serialize(cookies.Expire(name))); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

func (l *Legacy) DeleteAll(ctx context.Context) (bool, error) {
	return l.backend.RemoveAllCookies(ctx)
}

func (l *Legacy) DeleteSession(ctx context.Context) (bool, error) {
	return l.backend.RemoveSessionCookies(ctx)
}

func (l *Legacy) Flush(context.Context) error {
	return l.backend.Flush()
}

var _ Adapter = (*Legacy)(nil)
