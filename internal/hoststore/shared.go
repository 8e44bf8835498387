package hoststore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/warpdl/nativecookies/internal/cookies"
	"github.com/warpdl/nativecookies/internal/store"
	"golang.org/x/net/publicsuffix"
)

// SharedJar emulates the process-wide shared store. It stores one record
// per (name, domain, path), answers reads with the combined Cookie string
// for a URL, and exposes no enumeration.
type SharedJar struct {
	mu      sync.Mutex
	entries map[key]*entry
	seq     uint64
	opts    Options
	matcher cookies.Matcher
}

// NewSharedJar creates an empty jar.
func NewSharedJar(opts *Options) *SharedJar {
	o := opts.withDefaults()
	return &SharedJar{
		entries: make(map[key]*entry),
		opts:    o,
		matcher: cookies.Matcher{MatchPath: o.MatchPath},
	}
}

// Load replaces the jar contents with what the persister holds.
func (j *SharedJar) Load(ctx context.Context) error {
	if j.opts.Persister == nil {
		return nil
	}
	records, err := j.opts.Persister.Load(ctx, ScopeShared)
	if err != nil {
		return err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = make(map[key]*entry, len(records))
	for _, r := range records {
		j.put(r)
	}
	return nil
}

// SetCookie applies each cookie in header for rawURL. Cookies the store
// would refuse (bad domain, public suffix, invalid name) are dropped
// silently, as a native store does.
func (j *SharedJar) SetCookie(rawURL, header string) error {
	u, err := store.ParseURL(rawURL)
	if err != nil {
		return err
	}
	host := strings.ToLower(u.Hostname())
	now := j.opts.Now()

	j.mu.Lock()
	defer j.mu.Unlock()
	for _, c := range cookies.Parse(header) {
		if err := c.Validate(); err != nil {
			j.opts.Logger.Debug("shared jar: dropping cookie %q: %v", c.Name, err)
			continue
		}
		r, err := bindDomain(c, host)
		if err != nil {
			j.opts.Logger.Debug("shared jar: dropping cookie %q for %s: %v", c.Name, host, err)
			continue
		}
		if r.Cookie.Expired(now) {
			delete(j.entries, keyOf(r.Cookie))
			continue
		}
		j.put(r)
	}
	return nil
}

func (j *SharedJar) put(r Record) {
	k := keyOf(r.Cookie)
	if prev, ok := j.entries[k]; ok {
		prev.Record = r
		return
	}
	j.seq++
	j.entries[k] = &entry{Record: r, seq: j.seq}
}

// bindDomain resolves the effective domain of c set from host.
func bindDomain(c cookies.Cookie, host string) (Record, error) {
	if c.HostOnly() {
		return Record{Cookie: c.WithDomain(host), HostOnly: true}, nil
	}
	domain := strings.TrimPrefix(strings.ToLower(c.Domain), ".")
	if domain == "" {
		return Record{Cookie: c.WithDomain(host), HostOnly: true}, nil
	}
	if domain != host {
		if ps, _ := publicsuffix.PublicSuffix(domain); ps == domain {
			return Record{}, fmt.Errorf("domain %s is a public suffix", domain)
		}
	}
	if !cookies.MatchDomain(c.WithDomain(domain), host) {
		return Record{}, fmt.Errorf("domain %s does not match host", domain)
	}
	return Record{Cookie: c.WithDomain(domain)}, nil
}

// CookieString returns "name=value; ..." for every live cookie that applies
// to rawURL, longest path first. The path only filters when MatchPath is set.
func (j *SharedJar) CookieString(rawURL string) (string, error) {
	u, err := store.ParseURL(rawURL)
	if err != nil {
		return "", err
	}
	host := strings.ToLower(u.Hostname())
	now := j.opts.Now()

	j.mu.Lock()
	var matched []*entry
	for k, e := range j.entries {
		if e.Cookie.Expired(now) {
			delete(j.entries, k)
			continue
		}
		if e.HostOnly && e.Cookie.Domain != host {
			continue
		}
		if !j.matcher.Match(e.Cookie, u) {
			continue
		}
		if e.Cookie.Secure && u.Scheme != "https" {
			continue
		}
		matched = append(matched, e)
	}
	j.mu.Unlock()

	sort.Slice(matched, func(a, b int) bool {
		if len(matched[a].Cookie.Path) != len(matched[b].Cookie.Path) {
			return len(matched[a].Cookie.Path) > len(matched[b].Cookie.Path)
		}
		return matched[a].seq < matched[b].seq
	})
	out := make([]cookies.Cookie, len(matched))
	for i, e := range matched {
		out[i] = e.Cookie
	}
	return cookies.BuildCookieHeader(out), nil
}

// RemoveAllCookies empties the jar and reports whether anything was removed.
func (j *SharedJar) RemoveAllCookies(context.Context) (bool, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	removed := len(j.entries) > 0
	j.entries = make(map[key]*entry)
	return removed, nil
}

// RemoveSessionCookies drops every cookie without an expiry and reports
// whether anything was removed.
func (j *SharedJar) RemoveSessionCookies(context.Context) (bool, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	removed := false
	for k, e := range j.entries {
		if e.Cookie.IsSession() {
			delete(j.entries, k)
			removed = true
		}
	}
	return removed, nil
}

// Flush hands every persistent cookie to the persister.
func (j *SharedJar) Flush() error {
	if j.opts.Persister == nil {
		return nil
	}
	j.mu.Lock()
	records := persistable(j.sorted(), j.opts.Now())
	j.mu.Unlock()
	return j.opts.Persister.Save(context.Background(), ScopeShared, records)
}

// Len returns the number of stored cookies, expired ones included.
func (j *SharedJar) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.entries)
}

func (j *SharedJar) sorted() []*entry {
	out := make([]*entry, 0, len(j.entries))
	for _, e := range j.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].seq < out[b].seq })
	return out
}

var _ store.SharedBackend = (*SharedJar)(nil)
