package store

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/warpdl/nativecookies/internal/cookies"
)

var errBackend = errors.New("backend failure")

// fakeShared records every header applied and answers reads with a
// name=value string built from the latest value per name. Expired headers
// remove the name, like the real store does.
type fakeShared struct {
	mu        sync.Mutex
	headers   []string
	values    map[string]string
	order     []string
	readErr   error
	setErr    error
	removeAll bool
	removeErr error
	flushed   int
}

func newFakeShared() *fakeShared {
	return &fakeShared{values: make(map[string]string)}
}

func (f *fakeShared) SetCookie(_ string, header string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.headers = append(f.headers, header)
	for _, c := range cookies.Parse(header) {
		if c.Expired(cookies.Epoch.AddDate(1, 0, 0)) {
			delete(f.values, c.Name)
			continue
		}
		if _, ok := f.values[c.Name]; !ok {
			f.order = append(f.order, c.Name)
		}
		f.values[c.Name] = c.Value
	}
	return nil
}

func (f *fakeShared) CookieString(string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return "", f.readErr
	}
	var parts []string
	for _, name := range f.order {
		if v, ok := f.values[name]; ok {
			parts = append(parts, name+"="+v)
		}
	}
	return strings.Join(parts, "; "), nil
}

func (f *fakeShared) RemoveAllCookies(context.Context) (bool, error) {
	return f.removeAll, f.removeErr
}

func (f *fakeShared) RemoveSessionCookies(context.Context) (bool, error) {
	return f.removeAll, f.removeErr
}

func (f *fakeShared) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushed++
	return nil
}

// fakeWebview is an enumerable store whose DeleteCookie can be gated.
type fakeWebview struct {
	mu        sync.Mutex
	cookies   []cookies.Cookie
	deleted   []cookies.Cookie
	listErr   error
	deleteErr map[string]error
	// gate, when set, is received from before each deletion completes.
	gate    map[string]chan struct{}
	started chan string
}

func (f *fakeWebview) AllCookies(context.Context) ([]cookies.Cookie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]cookies.Cookie(nil), f.cookies...), nil
}

func (f *fakeWebview) SetCookie(_ context.Context, c cookies.Cookie) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cookies = append(f.cookies, c)
	return nil
}

func (f *fakeWebview) DeleteCookie(_ context.Context, c cookies.Cookie) error {
	if f.started != nil {
		f.started <- c.Name
	}
	if ch, ok := f.gate[c.Name]; ok {
		<-ch
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.deleteErr[c.Name]; err != nil {
		return err
	}
	f.deleted = append(f.deleted, c)
	return nil
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := ParseURL(raw)
	if err != nil {
		t.Fatalf("ParseURL(%q): %v", raw, err)
	}
	return u
}
