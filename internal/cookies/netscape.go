package cookies

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/warpdl/nativecookies/pkg/logger"
)

// NetscapeHeader is the first line curl and browser extensions write.
const NetscapeHeader = "# Netscape HTTP Cookie File"

// ParseNetscape reads cookies from Netscape-format cookie text.
// Lines starting with # are skipped, except #HttpOnly_ which sets the HttpOnly flag.
// An expiry of 0 is a session cookie; expired cookies are skipped.
// When domain is non-empty only cookies for domain or its subdomains are kept.
// Malformed lines are skipped with a warning.
func ParseNetscape(r io.Reader, domain string, l logger.Logger) ([]Cookie, error) {
	if l == nil {
		l = logger.NewNopLogger()
	}
	now := time.Now()
	domain = canonicalHost(domain)
	var cookies []Cookie

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")

		if line == "" {
			continue
		}

		httpOnly := false
		if strings.HasPrefix(line, "#HttpOnly_") {
			httpOnly = true
			line = line[len("#HttpOnly_"):]
		} else if strings.HasPrefix(line, "#") {
			continue
		}

		// domain, subdomain flag, path, secure, expiry, name, value
		fields := strings.Split(line, "\t")
		if len(fields) != 7 {
			l.Warning("skipping malformed Netscape cookie line %d", lineNo)
			continue
		}

		cookieDomain := fields[0]
		expiry, err := strconv.ParseInt(fields[4], 10, 64)
		if err != nil {
			l.Warning("skipping cookie with invalid expiry on line %d", lineNo)
			continue
		}

		if domain != "" && !belongsTo(cookieDomain, domain) {
			continue
		}

		c := Cookie{
			Name:     fields[5],
			Value:    fields[6],
			Domain:   cookieDomain,
			Path:     fields[2],
			Secure:   strings.EqualFold(fields[3], "TRUE"),
			HttpOnly: httpOnly,
		}
		if c.Path == "" {
			c.Path = DefaultPath
		}
		if expiry > 0 {
			c.Expires = time.Unix(expiry, 0).UTC()
			if c.Expired(now) {
				continue
			}
		}
		if err := c.Validate(); err != nil {
			l.Warning("skipping cookie on line %d: %v", lineNo, err)
			continue
		}
		cookies = append(cookies, c)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error: failed to read Netscape cookie file: %w", err)
	}

	return cookies, nil
}

// belongsTo reports whether cookieDomain is domain, .domain, or a subdomain of it.
func belongsTo(cookieDomain, domain string) bool {
	cookieDomain = strings.ToLower(cookieDomain)
	dotDomain := "." + domain
	if cookieDomain == domain || cookieDomain == dotDomain {
		return true
	}
	return strings.HasSuffix(cookieDomain, dotDomain)
}
