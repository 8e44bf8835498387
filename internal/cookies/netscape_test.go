package cookies

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/warpdl/nativecookies/pkg/logger"
)

func parseNetscapeString(t *testing.T, content, domain string) []Cookie {
	t.Helper()
	cookies, err := ParseNetscape(strings.NewReader(content), domain, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return cookies
}

func TestParseNetscape_StandardLines(t *testing.T) {
	futureExpiry := time.Now().Add(24 * time.Hour).Unix()
	content := fmt.Sprintf("# Netscape HTTP Cookie File\n.example.com\tTRUE\t/\tTRUE\t%d\tsid\tabc123\n.example.com\tTRUE\t/\tFALSE\t%d\tlang\ten\n", futureExpiry, futureExpiry)

	cookies := parseNetscapeString(t, content, "example.com")
	if len(cookies) != 2 {
		t.Fatalf("expected 2 cookies, got %d", len(cookies))
	}
	if cookies[0].Secure != true {
		t.Error("expected first cookie Secure=true")
	}
	if cookies[1].Secure != false {
		t.Error("expected second cookie Secure=false")
	}
	if cookies[0].Expires.Unix() != futureExpiry {
		t.Errorf("expected expiry %d, got %d", futureExpiry, cookies[0].Expires.Unix())
	}
}

func TestParseNetscape_HttpOnlyPrefix(t *testing.T) {
	futureExpiry := time.Now().Add(24 * time.Hour).Unix()
	content := fmt.Sprintf("# Netscape HTTP Cookie File\n#HttpOnly_.example.com\tTRUE\t/\tTRUE\t%d\tsid\tabc123\n# comment\n", futureExpiry)

	cookies := parseNetscapeString(t, content, "example.com")
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	if !cookies[0].HttpOnly {
		t.Error("expected HttpOnly=true for #HttpOnly_ prefix")
	}
	if cookies[0].Domain != ".example.com" {
		t.Errorf("expected domain '.example.com', got '%s'", cookies[0].Domain)
	}
}

func TestParseNetscape_CRLFAndBlankLines(t *testing.T) {
	futureExpiry := time.Now().Add(24 * time.Hour).Unix()
	content := fmt.Sprintf("# Netscape HTTP Cookie File\r\n\r\n.example.com\tTRUE\t/\tFALSE\t%d\tsid\tabc123\r\n\r\n", futureExpiry)

	cookies := parseNetscapeString(t, content, "")
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie with CRLF, got %d", len(cookies))
	}
	if cookies[0].Value != "abc123" {
		t.Errorf("expected value without CR, got %q", cookies[0].Value)
	}
}

func TestParseNetscape_SkipMalformedLinesWithWarning(t *testing.T) {
	futureExpiry := time.Now().Add(24 * time.Hour).Unix()
	content := fmt.Sprintf("# Netscape HTTP Cookie File\n.example.com\tTRUE\t/\n.example.com\tTRUE\t/\tFALSE\t%d\tsid\tabc123\n.example.com\tTRUE\t/\tFALSE\tsoon\tbad\tx\n", futureExpiry)
	ml := logger.NewMockLogger()

	cookies, err := ParseNetscape(strings.NewReader(content), "example.com", ml)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie (skip malformed), got %d", len(cookies))
	}
	if len(ml.WarningCalls) != 2 {
		t.Fatalf("expected 2 warnings, got %v", ml.WarningCalls)
	}
	for _, w := range ml.WarningCalls {
		if strings.Contains(w, "abc123") {
			t.Errorf("warning leaked a cookie value: %q", w)
		}
	}
}

func TestParseNetscape_SessionAndExpired(t *testing.T) {
	pastExpiry := time.Now().Add(-24 * time.Hour).Unix()
	content := fmt.Sprintf("# Netscape HTTP Cookie File\n.example.com\tTRUE\t/\tFALSE\t%d\texpired\told\n.example.com\tTRUE\t/\tFALSE\t0\tsession\tval\n", pastExpiry)

	cookies := parseNetscapeString(t, content, "example.com")
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	if cookies[0].Name != "session" || !cookies[0].IsSession() {
		t.Errorf("expected session cookie, got %+v", cookies[0].Name)
	}
}

func TestParseNetscape_DomainFiltering(t *testing.T) {
	futureExpiry := time.Now().Add(24 * time.Hour).Unix()
	content := fmt.Sprintf("# Netscape HTTP Cookie File\n.example.com\tTRUE\t/\tFALSE\t%d\tmatched\tval1\nexample.com\tFALSE\t/\tFALSE\t%d\texact\tval2\nsub.example.com\tFALSE\t/\tFALSE\t%d\tsub\tval3\n.other.com\tTRUE\t/\tFALSE\t%d\tunmatched\tval4\n", futureExpiry, futureExpiry, futureExpiry, futureExpiry)

	if got := len(parseNetscapeString(t, content, "example.com")); got != 3 {
		t.Fatalf("expected 3 cookies (dot-prefix, exact, subdomain), got %d", got)
	}
	if got := len(parseNetscapeString(t, content, "")); got != 4 {
		t.Fatalf("expected all 4 cookies without a domain filter, got %d", got)
	}
}

func TestParseNetscape_InvalidNameSkipped(t *testing.T) {
	ml := logger.NewMockLogger()
	content := ".example.com\tTRUE\t\tFALSE\t0\tbad=name\tv\n.example.com\tTRUE\t\tFALSE\t0\tok\tv\n"

	cookies, err := ParseNetscape(strings.NewReader(content), "", ml)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cookies) != 1 || cookies[0].Name != "ok" {
		t.Fatalf("expected only the valid cookie, got %+v", cookies)
	}
	if cookies[0].Path != DefaultPath {
		t.Errorf("expected empty path to default to %q, got %q", DefaultPath, cookies[0].Path)
	}
	if len(ml.WarningCalls) != 1 {
		t.Errorf("expected one warning, got %v", ml.WarningCalls)
	}
}
