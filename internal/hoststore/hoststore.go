// Package hoststore provides in-process stand-ins for the native cookie
// stores: a shared jar that only answers per-URL queries and a webview jar
// that enumerates. The CLI and the RPC daemon run against them when no
// platform store is attached, and both can persist through SQLite.
package hoststore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/warpdl/nativecookies/internal/cookies"
	"github.com/warpdl/nativecookies/pkg/logger"
)

var (
	ErrNoDomain = errors.New("cookie has no domain")
)

// Scope separates the two stores inside one persistence file.
type Scope string

const (
	ScopeShared  Scope = "shared"
	ScopeWebview Scope = "webview"
)

// Record is a stored cookie. Cookie.Domain holds the effective domain; for
// host-only cookies that is the host they were set for.
type Record struct {
	Cookie   cookies.Cookie
	HostOnly bool
}

// Persister saves and restores the records of one scope.
type Persister interface {
	Save(ctx context.Context, scope Scope, records []Record) error
	Load(ctx context.Context, scope Scope) ([]Record, error)
}

// Options configures a jar.
type Options struct {
	// Persister receives flushed state. Nil keeps the jar in memory only.
	Persister Persister
	// Logger receives rejected-cookie diagnostics. Defaults to a NopLogger.
	Logger logger.Logger
	// Now overrides the clock used for expiry.
	Now func() time.Time
	// MatchPath makes SharedJar reads also apply the RFC 6265 path-match.
	// Off, a read returns every cookie for the host whatever its path.
	MatchPath bool
}

func (o *Options) withDefaults() Options {
	var out Options
	if o != nil {
		out = *o
	}
	if out.Logger == nil {
		out.Logger = logger.NewNopLogger()
	}
	if out.Now == nil {
		out.Now = time.Now
	}
	return out
}

type key struct {
	name, domain, path string
}

func keyOf(c cookies.Cookie) key {
	return key{name: c.Name, domain: strings.ToLower(c.Domain), path: c.Path}
}

type entry struct {
	Record
	seq uint64
}

// persistable returns the records that survive a restart.
func persistable(entries []*entry, now time.Time) []Record {
	out := make([]Record, 0, len(entries))
	for _, e := range entries {
		if e.Cookie.IsSession() || e.Cookie.Expired(now) {
			continue
		}
		out = append(out, e.Record)
	}
	return out
}
