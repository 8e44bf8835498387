package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/urfave/cli"
	"github.com/warpdl/nativecookies/common"
	"github.com/warpdl/nativecookies/internal/hoststore"
	"github.com/warpdl/nativecookies/internal/manager"
	"github.com/warpdl/nativecookies/internal/store"
	"github.com/warpdl/nativecookies/pkg/logger"
)

var (
	storePath string
	useWebKit bool
	matchPath bool
	debugLog  bool

	globalFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "store, s",
			Usage:       "path of the SQLite cookie store",
			EnvVar:      common.StoreEnv,
			Destination: &storePath,
		},
		cli.BoolFlag{
			Name:        "webkit, w",
			Usage:       "use the per-webview store instead of the shared store",
			Destination: &useWebKit,
		},
		cli.BoolFlag{
			Name:        "match-path",
			Usage:       "also check the cookie path when reading the shared store",
			EnvVar:      common.MatchPathEnv,
			Destination: &matchPath,
		},
		cli.BoolFlag{
			Name:        "debug, d",
			Usage:       "print debug logs to stderr",
			EnvVar:      common.DebugEnv,
			Destination: &debugLog,
		},
	}
)

// defaultStorePath returns <user config dir>/nativecookies/cookies.db, or a
// path in the working directory when no config dir is known.
func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return common.StoreFileName
	}
	return filepath.Join(dir, common.StoreDirName, common.StoreFileName)
}

// session is one opened cookie store: both emulated jars restored from
// SQLite and the manager over them.
type session struct {
	db      *hoststore.SQLite
	shared  *hoststore.SharedJar
	manager *manager.Manager
	log     logger.Logger
}

func newLogger() *logger.StandardLogger {
	return logger.NewStandardLogger(log.New(os.Stderr, "", log.LstdFlags), debugLog)
}

func openSession(ctx context.Context) (*session, error) {
	path := storePath
	if path == "" {
		path = defaultStorePath()
	}
	db, err := hoststore.OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	base := newLogger()
	l := base.Named("manager")
	opts := &hoststore.Options{
		Persister: db,
		Logger:    base.Named("hoststore"),
		MatchPath: matchPath,
	}
	shared := hoststore.NewSharedJar(opts)
	webview := hoststore.NewWebviewJar(opts)
	if err := shared.Load(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error: cannot load shared cookies: %w", err)
	}
	if err := webview.Load(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error: cannot load webview cookies: %w", err)
	}
	m := manager.New(store.NewLegacy(shared), store.NewWebview(webview), &manager.Options{Logger: l})
	return &session{db: db, shared: shared, manager: m, log: l}, nil
}

// Close writes the shared jar back, standing in for the flush a native
// store performs when the process exits, and closes the database.
func (s *session) Close() error {
	return errors.Join(s.shared.Flush(), s.db.Close())
}
