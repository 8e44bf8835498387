package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli"
	cmdcommon "github.com/warpdl/nativecookies/cmd/common"
	"github.com/warpdl/nativecookies/common"
	"github.com/warpdl/nativecookies/internal/server"
	"github.com/warpdl/nativecookies/pkg/logger"
)

var (
	rpcPort       int
	rpcSecret     string
	rpcListenAll  bool
	flushInterval time.Duration
	rpcLogFile    string

	serveFlags = []cli.Flag{
		cli.IntFlag{
			Name:        "port, p",
			Usage:       "port to listen on",
			Value:       server.DefaultPort,
			EnvVar:      common.RPCPortEnv,
			Destination: &rpcPort,
		},
		cli.StringFlag{
			Name:        "secret",
			Usage:       "bearer token clients must present (required)",
			EnvVar:      common.RPCSecretEnv,
			Destination: &rpcSecret,
		},
		cli.BoolFlag{
			Name:        "listen-all",
			Usage:       "listen on every interface instead of 127.0.0.1",
			Destination: &rpcListenAll,
		},
		cli.DurationFlag{
			Name:        "flush-interval",
			Usage:       "how often the shared store is written to disk (0 disables)",
			Value:       30 * time.Second,
			Destination: &flushInterval,
		},
		cli.StringFlag{
			Name:        "log-file",
			Usage:       "also append daemon logs to this file",
			Destination: &rpcLogFile,
		},
	}
)

var errNoSecret = errors.New("an RPC secret is required (--secret or " + common.RPCSecretEnv + ")")

type fileLogger struct {
	*logger.StandardLogger
	f *os.File
}

func (l *fileLogger) Close() error { return l.f.Close() }

// serveLogger writes to stderr and, with --log-file, to the named file too.
func serveLogger() (logger.Logger, error) {
	console := newLogger().Named("rpc")
	if rpcLogFile == "" {
		return console, nil
	}
	f, err := os.OpenFile(rpcLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("error: cannot open log file: %w", err)
	}
	fl := &fileLogger{
		StandardLogger: logger.NewStandardLogger(log.New(f, "", log.LstdFlags), debugLog).Named("rpc"),
		f:              f,
	}
	return logger.NewMultiLogger(console, fl), nil
}

// setupShutdownHandler returns a context canceled on SIGINT or SIGTERM.
func setupShutdownHandler() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func serve(ctx *cli.Context) error {
	if rpcSecret == "" {
		cmdcommon.PrintRuntimeErr(ctx, "serve", "config", errNoSecret)
		return nil
	}
	sigCtx, cancel := setupShutdownHandler()
	defer cancel()

	s, err := openSession(sigCtx)
	if err != nil {
		cmdcommon.PrintRuntimeErr(ctx, "serve", "open_store", err)
		return nil
	}
	defer func() {
		if err := s.Close(); err != nil {
			cmdcommon.PrintRuntimeErr(ctx, "serve", "close_store", err)
		}
	}()

	l, err := serveLogger()
	if err != nil {
		cmdcommon.PrintRuntimeErr(ctx, "serve", "log_file", err)
		return nil
	}
	defer l.Close()

	rs := server.NewRPCServer(&server.RPCConfig{
		Secret:    rpcSecret,
		ListenAll: rpcListenAll,
		Version:   ctx.App.Version,
		Commit:    buildCommit,
		BuildType: buildType,
	}, s.manager, l)
	ws := server.NewWebServer(l, rs, rpcPort, rpcListenAll)

	errCh := make(chan error, 1)
	go func() { errCh <- ws.Start() }()

	var tick <-chan time.Time
	if flushInterval > 0 {
		t := time.NewTicker(flushInterval)
		defer t.Stop()
		tick = t.C
	}

	for {
		select {
		case err := <-errCh:
			if err != nil {
				cmdcommon.PrintRuntimeErr(ctx, "serve", "listen", err)
			}
			rs.Close()
			return nil
		case <-tick:
			if !s.manager.Flush(sigCtx, false) {
				l.Warning("periodic flush of the shared store failed")
			}
		case <-sigCtx.Done():
			l.Info("shutting down")
			shutdownCtx, done := context.WithTimeout(context.Background(), DEF_SHUTDOWN_TIMEOUT)
			err := ws.Shutdown(shutdownCtx)
			done()
			if err != nil {
				cmdcommon.PrintRuntimeErr(ctx, "serve", "shutdown", err)
			}
			<-errCh
			return nil
		}
	}
}
