package server

import (
	"encoding/json"
	"io"
	"sync"
	"testing"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"
	"github.com/creachadair/jrpc2/handler"
	"github.com/warpdl/nativecookies/pkg/logger"
)

// newTestServer starts a push-enabled jrpc2 server over an in-memory pipe.
// The returned client channel must be drained or closed, or pushes block.
func newTestServer(t *testing.T) (channel.Channel, *jrpc2.Server, func()) {
	t.Helper()
	cr, sw := io.Pipe()
	sr, cw := io.Pipe()
	cli := channel.Line(cr, cw)
	srvCh := channel.Line(sr, sw)

	srv := jrpc2.NewServer(handler.Map{}, &jrpc2.ServerOptions{AllowPush: true})
	srv.Start(srvCh)

	cleanup := func() {
		cli.Close()
		_ = srv.Wait()
	}
	return cli, srv, cleanup
}

func TestRPCNotifier_RegisterUnregister(t *testing.T) {
	n := NewRPCNotifier(nil)
	_, srv, cleanup := newTestServer(t)
	defer cleanup()

	n.Register(srv)
	n.Register(srv)
	if n.Count() != 1 {
		t.Fatalf("expected 1 server, got %d", n.Count())
	}
	n.Unregister(srv)
	n.Unregister(srv)
	if n.Count() != 0 {
		t.Fatalf("expected 0 servers, got %d", n.Count())
	}
}

func TestRPCNotifier_BroadcastCookiesChanged(t *testing.T) {
	n := NewRPCNotifier(nil)
	cli, srv, cleanup := newTestServer(t)
	defer cleanup()
	n.Register(srv)

	done := make(chan []byte, 1)
	go func() {
		data, _ := cli.Recv()
		done <- data
	}()

	n.Broadcast(MethodCookiesChanged, &CookiesChangedNotification{
		Op:   "clearByName",
		URL:  "https://example.com/",
		Name: "sid",
	})

	var msg struct {
		Method string                     `json:"method"`
		Params CookiesChangedNotification `json:"params"`
	}
	if err := json.Unmarshal(<-done, &msg); err != nil {
		t.Fatalf("unmarshal push: %v", err)
	}
	if msg.Method != MethodCookiesChanged {
		t.Errorf("expected %s, got %q", MethodCookiesChanged, msg.Method)
	}
	if msg.Params.Op != "clearByName" || msg.Params.Name != "sid" || msg.Params.UseWebKit {
		t.Errorf("unexpected params %+v", msg.Params)
	}
	if n.Count() != 1 {
		t.Fatalf("expected server to stay registered, got %d", n.Count())
	}
}

func TestRPCNotifier_DropsDisconnectedServers(t *testing.T) {
	l := logger.NewMockLogger()
	n := NewRPCNotifier(l)

	cli1, srv1, cleanup1 := newTestServer(t)
	defer cleanup1()
	cli2, srv2, _ := newTestServer(t)
	n.Register(srv1)
	n.Register(srv2)

	cli2.Close()
	_ = srv2.Wait()

	done := make(chan struct{}, 1)
	go func() { _, _ = cli1.Recv(); done <- struct{}{} }()

	n.Broadcast(MethodCookiesChanged, &CookiesChangedNotification{Op: "clearAll"})
	<-done

	if n.Count() != 1 {
		t.Fatalf("expected 1 server after partial failure, got %d", n.Count())
	}
	if len(l.WarningCalls) != 1 {
		t.Errorf("expected one push warning, got %v", l.WarningCalls)
	}
}

func TestRPCNotifier_StopAll(t *testing.T) {
	n := NewRPCNotifier(nil)
	var servers []*jrpc2.Server
	for i := 0; i < 3; i++ {
		cli, srv, _ := newTestServer(t)
		defer cli.Close()
		servers = append(servers, srv)
		n.Register(srv)
	}

	n.StopAll()
	if n.Count() != 0 {
		t.Fatalf("expected 0 servers after StopAll, got %d", n.Count())
	}
	for _, srv := range servers {
		_ = srv.Wait()
	}
}

func TestRPCNotifier_ConcurrentRegisterUnregister(t *testing.T) {
	n := NewRPCNotifier(nil)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cli, srv, _ := newTestServer(t)
			n.Register(srv)
			_ = n.Count()
			n.Unregister(srv)
			cli.Close()
			_ = srv.Wait()
		}()
	}
	wg.Wait()
	if n.Count() != 0 {
		t.Fatalf("expected 0 servers, got %d", n.Count())
	}
}
