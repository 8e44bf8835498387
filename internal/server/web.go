// Package server exposes the cookie manager as a JSON-RPC 2.0 service over
// HTTP POST and WebSocket.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/warpdl/nativecookies/pkg/logger"
)

// DefaultPort is the port the RPC daemon listens on unless configured.
const DefaultPort = 6807

// WebServer owns the HTTP listener in front of an RPCServer.
type WebServer struct {
	port      int
	listenAll bool
	l         logger.Logger
	rpc       *RPCServer
	server    *http.Server
	closed    bool
	mu        sync.Mutex
}

// NewWebServer creates a web server for rpc. A port of 0 picks DefaultPort.
func NewWebServer(l logger.Logger, rpc *RPCServer, port int, listenAll bool) *WebServer {
	if port == 0 {
		port = DefaultPort
	}
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &WebServer{port: port, listenAll: listenAll, l: l, rpc: rpc}
}

func (s *WebServer) addr() string {
	host := "127.0.0.1"
	if s.listenAll {
		host = "0.0.0.0"
	}
	return net.JoinHostPort(host, fmt.Sprint(s.port))
}

func (s *WebServer) handler() http.Handler {
	return s.rpc.Handler()
}

// Start listens and serves until Shutdown.
func (s *WebServer) Start() error {
	ln, err := net.Listen("tcp", s.addr())
	if err != nil {
		return fmt.Errorf("error: cannot listen on %s: %w", s.addr(), err)
	}
	return s.Serve(ln)
}

// Serve serves on ln until Shutdown. After Shutdown it closes ln and
// returns nil at once.
func (s *WebServer) Serve(ln net.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ln.Close()
	}
	s.server = &http.Server{
		Handler:           s.handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.server
	s.mu.Unlock()

	s.l.Info("RPC listening on %s", ln.Addr())
	err := srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting requests, waits for in-flight ones and closes
// every WebSocket session.
func (s *WebServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	var err error
	if s.server != nil {
		err = s.server.Shutdown(ctx)
	}
	s.rpc.Close()
	return err
}
