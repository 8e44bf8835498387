package hoststore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/warpdl/nativecookies/internal/cookies"
)

func TestWebviewJar_SetAndEnumerate(t *testing.T) {
	j := NewWebviewJar(testOptions(nil))
	ctx := context.Background()
	for _, name := range []string{"b", "a", "c"} {
		if err := j.SetCookie(ctx, cookies.New(name, "v").WithDomain("example.com")); err != nil {
			t.Fatalf("SetCookie(%s): %v", name, err)
		}
	}
	all, err := j.AllCookies(ctx)
	if err != nil {
		t.Fatalf("AllCookies: %v", err)
	}
	if len(all) != 3 || all[0].Name != "b" || all[1].Name != "a" || all[2].Name != "c" {
		t.Errorf("expected insertion order b,a,c, got %+v", all)
	}
}

func TestWebviewJar_RequiresDomain(t *testing.T) {
	j := NewWebviewJar(testOptions(nil))
	if err := j.SetCookie(context.Background(), cookies.New("a", "1")); !errors.Is(err, ErrNoDomain) {
		t.Errorf("expected ErrNoDomain, got %v", err)
	}
	if err := j.SetCookie(context.Background(), cookies.New("", "1").WithDomain("example.com")); !errors.Is(err, cookies.ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
}

func TestWebviewJar_DotDomainIsDistinct(t *testing.T) {
	j := NewWebviewJar(testOptions(nil))
	ctx := context.Background()
	_ = j.SetCookie(ctx, cookies.New("a", "1").WithDomain("example.com"))
	_ = j.SetCookie(ctx, cookies.New("a", "2").WithDomain(".example.com"))
	all, _ := j.AllCookies(ctx)
	if len(all) != 2 {
		t.Errorf("dot and bare domains are separate identities, got %+v", all)
	}
}

func TestWebviewJar_DeleteCookie(t *testing.T) {
	j := NewWebviewJar(testOptions(nil))
	ctx := context.Background()
	c := cookies.New("a", "1").WithDomain("example.com")
	_ = j.SetCookie(ctx, c)

	if err := j.DeleteCookie(ctx, c); err != nil {
		t.Fatalf("DeleteCookie: %v", err)
	}
	if all, _ := j.AllCookies(ctx); len(all) != 0 {
		t.Errorf("cookie not deleted: %+v", all)
	}
	if err := j.DeleteCookie(ctx, c); err != nil {
		t.Errorf("deleting a missing cookie must succeed, got %v", err)
	}
}

func TestWebviewJar_ExpiryHandling(t *testing.T) {
	j := NewWebviewJar(testOptions(nil))
	ctx := context.Background()
	c := cookies.New("a", "1").WithDomain("example.com")
	_ = j.SetCookie(ctx, c)

	c.Expires = fixedNow.Add(-time.Hour)
	if err := j.SetCookie(ctx, c); err != nil {
		t.Fatalf("SetCookie: %v", err)
	}
	if all, _ := j.AllCookies(ctx); len(all) != 0 {
		t.Errorf("expired write must delete, got %+v", all)
	}
}

func TestWebviewJar_PersistsOnEveryChange(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "cookies.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer db.Close()
	ctx := context.Background()

	j := NewWebviewJar(testOptions(db))
	keep := cookies.New("keep", "1").WithDomain(".example.com")
	keep.Expires = fixedNow.Add(24 * time.Hour)
	_ = j.SetCookie(ctx, keep)
	_ = j.SetCookie(ctx, cookies.New("session", "2").WithDomain("example.com"))

	restored := NewWebviewJar(testOptions(db))
	if err := restored.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	all, _ := restored.AllCookies(ctx)
	if len(all) != 1 || all[0].Name != "keep" || all[0].Domain != ".example.com" {
		t.Fatalf("expected only the persistent cookie, got %+v", all)
	}
	if !all[0].Expires.Equal(keep.Expires) {
		t.Errorf("expiry lost: %v", all[0].Expires)
	}

	_ = restored.DeleteCookie(ctx, keep)
	again := NewWebviewJar(testOptions(db))
	_ = again.Load(ctx)
	if all, _ := again.AllCookies(ctx); len(all) != 0 {
		t.Errorf("deletion not persisted: %+v", all)
	}
}
