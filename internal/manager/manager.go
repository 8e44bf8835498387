// Package manager is the single entry point for cookie operations. It
// routes each call to the shared or the per-webview store, validates input,
// and turns every outcome into the flat result the bridge reports: a
// boolean, a name-keyed jar, or one of the two coded rejections.
package manager

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/warpdl/nativecookies/internal/cookies"
	"github.com/warpdl/nativecookies/internal/store"
	"github.com/warpdl/nativecookies/pkg/logger"
)

// Options configures a Manager.
type Options struct {
	// Logger receives routing and failure diagnostics. Defaults to a NopLogger.
	Logger logger.Logger
}

// Manager reconciles the two cookie stores behind one API.
type Manager struct {
	shared  store.Adapter
	webview store.Adapter
	log     logger.Logger
}

// New creates a manager. webview may be nil on hosts without a per-webview
// store; calls asking for it then use shared.
func New(shared store.Adapter, webview store.Adapter, opts *Options) *Manager {
	if opts == nil {
		opts = &Options{}
	}
	l := opts.Logger
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &Manager{
		shared:  shared,
		webview: webview,
		log:     l,
	}
}

// Store returns the adapter a call with useWebKit would use.
func (m *Manager) Store(useWebKit bool) store.Adapter {
	return m.pick("store", useWebKit)
}

func (m *Manager) pick(op string, useWebKit bool) store.Adapter {
	if !useWebKit {
		return m.shared
	}
	if m.webview == nil {
		m.log.Warning("%s: no per-webview store on this host, using the shared store", op)
		return m.shared
	}
	return m.webview
}

// Set writes one cookie for rawURL.
func (m *Manager) Set(ctx context.Context, rawURL string, attrs cookies.Attributes, useWebKit bool) bool {
	ok, err := safely(func() (bool, error) {
		u, err := parseURL(rawURL)
		if err != nil {
			return false, err
		}
		c, err := attrs.Cookie()
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrInvalidCookie, err)
		}
		if err := m.pick("set", useWebKit).Write(ctx, u, c); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		m.log.Error("set %q for %s: %v", attrs.Name, hostOf(rawURL), err)
		return false
	}
	return ok
}

// SetFromResponse applies a raw Set-Cookie header value for rawURL.
func (m *Manager) SetFromResponse(ctx context.Context, rawURL, header string, useWebKit bool) bool {
	ok, err := safely(func() (bool, error) {
		u, err := parseURL(rawURL)
		if err != nil {
			return false, err
		}
		if strings.TrimSpace(header) == "" {
			return false, fmt.Errorf("%w: empty header", ErrInvalidCookie)
		}
		if err := m.pick("setFromResponse", useWebKit).WriteHeader(ctx, u, header); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		m.log.Error("setFromResponse for %s: %v", hostOf(rawURL), err)
		return false
	}
	return ok
}

// Get returns the cookies that apply to rawURL.
func (m *Manager) Get(ctx context.Context, rawURL string, useWebKit bool) cookies.Jar {
	jar, err := safely(func() (cookies.Jar, error) {
		u, err := parseURL(rawURL)
		if err != nil {
			return nil, err
		}
		records, err := m.pick("get", useWebKit).ReadURL(ctx, u)
		if err != nil {
			return nil, err
		}
		return cookies.NewJar(records), nil
	})
	if err != nil {
		m.log.Error("get for %s: %v", hostOf(rawURL), err)
		return cookies.Jar{}
	}
	return jar
}

// GetAll enumerates the store. Stores that cannot enumerate yield an empty jar.
func (m *Manager) GetAll(ctx context.Context, useWebKit bool) cookies.Jar {
	jar, err := safely(func() (cookies.Jar, error) {
		records, err := m.pick("getAll", useWebKit).ReadAll(ctx)
		if err != nil {
			return nil, err
		}
		return cookies.NewJar(records), nil
	})
	switch {
	case errors.Is(err, store.ErrUnsupported):
		m.log.Debug("getAll: store cannot enumerate, returning an empty jar")
		return cookies.Jar{}
	case err != nil:
		m.log.Error("getAll: %v", err)
		return cookies.Jar{}
	}
	return jar
}

// ClearAll removes every cookie from the store. A failure of the shared
// store is returned as an *Error with CodeClearAllCookies.
func (m *Manager) ClearAll(ctx context.Context, useWebKit bool) (bool, error) {
	s := m.pick("clearAll", useWebKit)
	ok, err := safely(func() (bool, error) {
		return s.DeleteAll(ctx)
	})
	if err == nil {
		return ok, nil
	}
	m.log.Error("clearAll on %s store: %v", s.Variant(), err)
	if s.Variant() == store.LegacyShared {
		return false, reject(CodeClearAllCookies, "failed to clear cookies", err)
	}
	return false, nil
}

// ClearByName removes the cookie called name for rawURL and reports whether
// one was found.
func (m *Manager) ClearByName(ctx context.Context, rawURL, name string, useWebKit bool) bool {
	found, err := safely(func() (bool, error) {
		u, err := parseURL(rawURL)
		if err != nil {
			return false, err
		}
		if err := cookies.New(name, "").Validate(); err != nil {
			return false, fmt.Errorf("%w: %v", ErrInvalidCookie, err)
		}
		return m.pick("clearByName", useWebKit).DeleteName(ctx, u, name)
	})
	if err != nil {
		m.log.Error("clearByName %q for %s: %v", name, hostOf(rawURL), err)
		return false
	}
	return found
}

// Flush persists the store. Stores that persist on their own report true.
func (m *Manager) Flush(ctx context.Context, useWebKit bool) bool {
	_, err := safely(func() (struct{}, error) {
		return struct{}{}, m.pick("flush", useWebKit).Flush(ctx)
	})
	switch {
	case err == nil, errors.Is(err, store.ErrUnsupported):
		return true
	default:
		m.log.Error("flush: %v", err)
		return false
	}
}

// RemoveSessionCookies drops every session cookie. Stores that expire
// session cookies on their own report true. A failure of the shared store
// is returned as an *Error with CodeRemoveSessionCookies.
func (m *Manager) RemoveSessionCookies(ctx context.Context, useWebKit bool) (bool, error) {
	s := m.pick("removeSessionCookies", useWebKit)
	ok, err := safely(func() (bool, error) {
		return s.DeleteSession(ctx)
	})
	switch {
	case err == nil:
		return ok, nil
	case errors.Is(err, store.ErrUnsupported):
		return true, nil
	}
	m.log.Error("removeSessionCookies on %s store: %v", s.Variant(), err)
	if s.Variant() == store.LegacyShared {
		return false, reject(CodeRemoveSessionCookies, "failed to remove session cookies", err)
	}
	return false, nil
}

// safely runs fn and converts a panic into ErrPanic.
func safely[T any](fn func() (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			v, err = zero, fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return fn()
}

func parseURL(rawURL string) (*url.URL, error) {
	u, err := store.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	return u, nil
}

// hostOf names a URL in logs without its path or query.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "<invalid url>"
	}
	return u.Host
}
