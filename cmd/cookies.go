package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli"
	"github.com/warpdl/nativecookies/cmd/common"
	"github.com/warpdl/nativecookies/internal/cookies"
)

var (
	setDomain   string
	setPath     string
	setExpires  string
	setVersion  string
	setSecure   bool
	setHttpOnly bool

	setFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "domain",
			Usage:       "cookie domain (default: host-only)",
			Destination: &setDomain,
		},
		cli.StringFlag{
			Name:        "path",
			Usage:       "cookie path (default: /)",
			Destination: &setPath,
		},
		cli.StringFlag{
			Name:        "expires, e",
			Usage:       "ISO-8601 expiry (default: session cookie)",
			Destination: &setExpires,
		},
		cli.StringFlag{
			Name:        "version-attr",
			Usage:       "legacy Version attribute",
			Destination: &setVersion,
		},
		cli.BoolFlag{
			Name:        "secure",
			Usage:       "only send the cookie over https",
			Destination: &setSecure,
		},
		cli.BoolFlag{
			Name:        "http-only",
			Usage:       "hide the cookie from scripts",
			Destination: &setHttpOnly,
		},
	}

	forceClear bool

	clearFlags = []cli.Flag{
		cli.BoolFlag{
			Name:        "force, f",
			Usage:       "use this flag to clear without confirmation (default: false)",
			Destination: &forceClear,
		},
	}
)

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// withSession opens the store for cmd, runs fn and writes the store back.
// Failures are printed in the runtime error format and not returned.
func withSession(ctx *cli.Context, cmd string, fn func(context.Context, *session) error) error {
	bg := context.Background()
	s, err := openSession(bg)
	if err != nil {
		common.PrintRuntimeErr(ctx, cmd, "open_store", err)
		return nil
	}
	if err := fn(bg, s); err != nil {
		common.PrintRuntimeErr(ctx, cmd, strings.ReplaceAll(cmd, "-", "_"), err)
	}
	if err := s.Close(); err != nil {
		common.PrintRuntimeErr(ctx, cmd, "close_store", err)
	}
	return nil
}

// requireArgs returns the first n arguments, or prints the command help
// naming what is missing.
func requireArgs(ctx *cli.Context, names ...string) ([]string, bool) {
	args := make([]string, len(names))
	for i, name := range names {
		args[i] = ctx.Args().Get(i)
		if args[i] == "" {
			_ = common.PrintErrWithCmdHelp(ctx, fmt.Errorf("no %s provided", name))
			return nil, false
		}
	}
	return args, true
}

func set(ctx *cli.Context) error {
	args, ok := requireArgs(ctx, "url", "NAME=VALUE")
	if !ok {
		return nil
	}
	name, value, found := strings.Cut(args[1], "=")
	if !found {
		return common.PrintErrWithCmdHelp(ctx, errors.New("cookie must be given as NAME=VALUE"))
	}
	secure, httpOnly := setSecure, setHttpOnly
	attrs := cookies.Attributes{
		Name:     name,
		Value:    value,
		Secure:   &secure,
		HttpOnly: &httpOnly,
	}
	if setDomain != "" {
		domain := setDomain
		attrs.Domain = &domain
	}
	if setPath != "" {
		path := setPath
		attrs.Path = &path
	}
	if setExpires != "" {
		expires := setExpires
		attrs.Expires = &expires
	}
	if setVersion != "" {
		version := setVersion
		attrs.Version = &version
	}
	return withSession(ctx, "set", func(c context.Context, s *session) error {
		return printJSON(s.manager.Set(c, args[0], attrs, useWebKit))
	})
}

func setFromResponse(ctx *cli.Context) error {
	args, ok := requireArgs(ctx, "url", "header")
	if !ok {
		return nil
	}
	return withSession(ctx, "set-from-response", func(c context.Context, s *session) error {
		return printJSON(s.manager.SetFromResponse(c, args[0], args[1], useWebKit))
	})
}

func get(ctx *cli.Context) error {
	args, ok := requireArgs(ctx, "url")
	if !ok {
		return nil
	}
	return withSession(ctx, "get", func(c context.Context, s *session) error {
		return printJSON(s.manager.Get(c, args[0], useWebKit).Attributes())
	})
}

func getAll(ctx *cli.Context) error {
	return withSession(ctx, "get-all", func(c context.Context, s *session) error {
		return printJSON(s.manager.GetAll(c, useWebKit).Attributes())
	})
}

func clearAll(ctx *cli.Context) error {
	question := fmt.Sprintf("Remove every cookie from the %s store?", storeName(useWebKit))
	if !confirm(question, forceClear) {
		return nil
	}
	return withSession(ctx, "clear", func(c context.Context, s *session) error {
		ok, err := s.manager.ClearAll(c, useWebKit)
		if err != nil {
			return err
		}
		return printJSON(ok)
	})
}

func clearName(ctx *cli.Context) error {
	args, ok := requireArgs(ctx, "url", "name")
	if !ok {
		return nil
	}
	return withSession(ctx, "clear-name", func(c context.Context, s *session) error {
		return printJSON(s.manager.ClearByName(c, args[0], args[1], useWebKit))
	})
}

func flush(ctx *cli.Context) error {
	return withSession(ctx, "flush", func(c context.Context, s *session) error {
		return printJSON(s.manager.Flush(c, useWebKit))
	})
}

func removeSession(ctx *cli.Context) error {
	return withSession(ctx, "remove-session", func(c context.Context, s *session) error {
		ok, err := s.manager.RemoveSessionCookies(c, useWebKit)
		if err != nil {
			return err
		}
		return printJSON(ok)
	})
}
