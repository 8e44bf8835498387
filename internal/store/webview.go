package store

import (
	"context"
	"net/url"

	"github.com/warpdl/nativecookies/internal/cookies"
	"golang.org/x/sync/errgroup"
)

var webviewCapabilities = CapabilitySet(
	CapReadURL,
	CapReadAll,
	CapWrite,
	CapDeleteName,
	CapDeleteAll,
)

// Webview fronts the per-webview store. It enumerates, so reads for a URL
// filter the full list with cookies.MatchHostOrDotPrefix. Flush and session
// deletion are handled by the platform and report ErrUnsupported here.
type Webview struct {
	backend WebviewBackend
}

// NewWebview creates an adapter over backend.
func NewWebview(backend WebviewBackend) *Webview {
	return &Webview{backend: backend}
}

func (w *Webview) Variant() Variant { return PerWebview }

func (w *Webview) Capabilities() Capabilities { return webviewCapabilities }

func (w *Webview) ReadURL(ctx context.Context, u *url.URL) ([]cookies.Cookie, error) {
	all, err := w.backend.AllCookies(ctx)
	if err != nil {
		return nil, err
	}
	host := u.Hostname()
	matched := all[:0:0]
	for _, c := range all {
		if cookies.MatchHostOrDotPrefix(c, host) {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

func (w *Webview) ReadAll(ctx context.Context) ([]cookies.Cookie, error) {
	return w.backend.AllCookies(ctx)
}

// Write stores c. A cookie without a domain is bound to the host of u, the
// webview store has no notion of an implicit host.
func (w *Webview) Write(ctx context.Context, u *url.URL, c cookies.Cookie) error {
	if c.HostOnly() {
		c = c.WithDomain(u.Hostname())
	}
	return w.backend.SetCookie(ctx, c)
}

// WriteHeader parses header and writes every cookie in it.
func (w *Webview) WriteHeader(ctx context.Context, u *url.URL, header string) error {
	for _, c := range cookies.Parse(header) {
		if err := c.Validate(); err != nil {
			continue
		}
		if err := w.Write(ctx, u, c); err != nil {
			return err
		}
	}
	return nil
}

// DeleteName deletes the first enumerated cookie called name that applies
// to the host of u.
func (w *Webview) DeleteName(ctx context.Context, u *url.URL, name string) (bool, error) {
	all, err := w.backend.AllCookies(ctx)
	if err != nil {
		return false, err
	}
	host := u.Hostname()
	for _, c := range all {
		if c.Name == name && cookies.MatchHostOrDotPrefix(c, host) {
			if err := w.backend.DeleteCookie(ctx, c); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// DeleteAll enumerates the store and deletes every cookie concurrently. It
// returns only after every deletion has completed, and reports success only
// if all of them succeeded.
func (w *Webview) DeleteAll(ctx context.Context) (bool, error) {
	all, err := w.backend.AllCookies(ctx)
	if err != nil {
		return false, err
	}
	var g errgroup.Group
	for _, c := range all {
		c := c
		g.Go(func() error {
			return w.backend.DeleteCookie(ctx, c)
		})
	}
	if err := g.Wait(); err != nil {
		return false, err
	}
	return true, nil
}

func (w *Webview) DeleteSession(context.Context) (bool, error) {
	return false, ErrUnsupported
}

func (w *Webview) Flush(context.Context) error {
	return ErrUnsupported
}

var _ Adapter = (*Webview)(nil)
