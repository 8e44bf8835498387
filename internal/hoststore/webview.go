package hoststore

import (
	"context"
	"sort"
	"sync"

	"github.com/warpdl/nativecookies/internal/cookies"
	"github.com/warpdl/nativecookies/internal/store"
)

// WebviewJar emulates the per-webview store: full enumeration, deletion by
// cookie identity, and persistence on every change instead of on flush.
// Domains are kept exactly as written, leading dot included.
type WebviewJar struct {
	mu      sync.Mutex
	entries map[key]*entry
	seq     uint64
	opts    Options
}

// NewWebviewJar creates an empty jar.
func NewWebviewJar(opts *Options) *WebviewJar {
	return &WebviewJar{
		entries: make(map[key]*entry),
		opts:    opts.withDefaults(),
	}
}

// Load replaces the jar contents with what the persister holds.
func (j *WebviewJar) Load(ctx context.Context) error {
	if j.opts.Persister == nil {
		return nil
	}
	records, err := j.opts.Persister.Load(ctx, ScopeWebview)
	if err != nil {
		return err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = make(map[key]*entry, len(records))
	for _, r := range records {
		j.seq++
		j.entries[keyOf(r.Cookie)] = &entry{Record: r, seq: j.seq}
	}
	return nil
}

// AllCookies returns every live cookie in insertion order.
func (j *WebviewJar) AllCookies(ctx context.Context) ([]cookies.Cookie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := j.opts.Now()
	j.mu.Lock()
	defer j.mu.Unlock()
	all := make([]*entry, 0, len(j.entries))
	for k, e := range j.entries {
		if e.Cookie.Expired(now) {
			delete(j.entries, k)
			continue
		}
		all = append(all, e)
	}
	sort.Slice(all, func(a, b int) bool { return all[a].seq < all[b].seq })
	out := make([]cookies.Cookie, len(all))
	for i, e := range all {
		out[i] = e.Cookie
	}
	return out, nil
}

// SetCookie stores c, replacing any cookie with the same name, domain and
// path. An already expired cookie removes its match instead.
func (j *WebviewJar) SetCookie(ctx context.Context, c cookies.Cookie) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Domain == "" {
		return ErrNoDomain
	}
	if c.Path == "" {
		c.Path = cookies.DefaultPath
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	k := keyOf(c)
	if c.Expired(j.opts.Now()) {
		delete(j.entries, k)
		return j.persistLocked(ctx)
	}
	if prev, ok := j.entries[k]; ok {
		prev.Cookie = c
	} else {
		j.seq++
		j.entries[k] = &entry{Record: Record{Cookie: c}, seq: j.seq}
	}
	return j.persistLocked(ctx)
}

// DeleteCookie removes the cookie with the identity of c. Deleting a cookie
// that is not stored succeeds.
func (j *WebviewJar) DeleteCookie(ctx context.Context, c cookies.Cookie) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	k := keyOf(c)
	if _, ok := j.entries[k]; !ok {
		return nil
	}
	delete(j.entries, k)
	return j.persistLocked(ctx)
}

func (j *WebviewJar) persistLocked(ctx context.Context) error {
	if j.opts.Persister == nil {
		return nil
	}
	all := make([]*entry, 0, len(j.entries))
	for _, e := range j.entries {
		all = append(all, e)
	}
	sort.Slice(all, func(a, b int) bool { return all[a].seq < all[b].seq })
	return j.opts.Persister.Save(ctx, ScopeWebview, persistable(all, j.opts.Now()))
}

var _ store.WebviewBackend = (*WebviewJar)(nil)
