package cmd

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/urfave/cli"
	"github.com/warpdl/nativecookies/internal/cookies"
)

var (
	importDomain string

	importFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "domain",
			Usage:       "only import cookies for this domain and its subdomains",
			Destination: &importDomain,
		},
	}
)

// ImportResult is printed by the import command.
type ImportResult struct {
	Imported int `json:"imported"`
	Rejected int `json:"rejected"`
}

func importCookies(ctx *cli.Context) error {
	args, ok := requireArgs(ctx, "file")
	if !ok {
		return nil
	}
	return withSession(ctx, "import", func(c context.Context, s *session) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("error: cannot open cookie file: %w", err)
		}
		defer f.Close()

		parsed, err := cookies.ParseNetscape(f, importDomain, newLogger().Named("import"))
		if err != nil {
			return err
		}
		var res ImportResult
		for _, ck := range parsed {
			if s.manager.Set(c, originOf(ck), ck.Attributes(), useWebKit) {
				res.Imported++
			} else {
				res.Rejected++
			}
		}
		return printJSON(res)
	})
}

// originOf builds the url a cookie would have been set from.
func originOf(c cookies.Cookie) string {
	u := url.URL{
		Scheme: "http",
		Host:   strings.TrimPrefix(c.Domain, "."),
		Path:   c.Path,
	}
	if c.Secure {
		u.Scheme = "https"
	}
	return u.String()
}
