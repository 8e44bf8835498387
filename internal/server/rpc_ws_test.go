package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	cws "github.com/coder/websocket"
)

func newTestWSServer(t *testing.T) (*RPCServer, string) {
	t.Helper()
	rs, h := newTestRPCServer(t, newTestManager())
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return rs, "ws" + strings.TrimPrefix(srv.URL, "http") + "/jsonrpc/ws"
}

func dialWS(t *testing.T, ctx context.Context, wsURL string) *cws.Conn {
	t.Helper()
	conn, _, err := cws.Dial(ctx, wsURL, &cws.DialOptions{
		HTTPHeader: http.Header{"Authorization": []string{"Bearer " + testSecret}},
	})
	if err != nil {
		t.Fatalf("WebSocket dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close(cws.StatusNormalClosure, "") })
	return conn
}

func wsCall(t *testing.T, ctx context.Context, conn *cws.Conn, id int, method string, params any) map[string]any {
	t.Helper()
	req := map[string]any{"jsonrpc": "2.0", "method": method, "id": id}
	if params != nil {
		req["params"] = params
	}
	data, _ := json.Marshal(req)
	if err := conn.Write(ctx, cws.MessageText, data); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	_, respData, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	var resp map[string]any
	if err := json.Unmarshal(respData, &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return resp
}

func waitForCount(t *testing.T, n *RPCNotifier, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if n.Count() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %d registered servers, got %d", want, n.Count())
}

func TestWebSocketEndpoint_AuthRequired(t *testing.T) {
	_, wsURL := newTestWSServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, resp, err := cws.Dial(ctx, wsURL, nil)
	if err == nil {
		t.Fatal("expected error for unauthorized WebSocket connection")
	}
	if resp != nil && resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestWebSocketEndpoint_QueryToken(t *testing.T) {
	_, wsURL := newTestWSServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	conn, _, err := cws.Dial(ctx, wsURL+"?token="+testSecret, nil)
	if err != nil {
		t.Fatalf("dial with query token failed: %v", err)
	}
	conn.Close(cws.StatusNormalClosure, "")
}

func TestWebSocketEndpoint_Calls(t *testing.T) {
	_, wsURL := newTestWSServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn := dialWS(t, ctx, wsURL)

	resp := wsCall(t, ctx, conn, 1, "system.getVersion", nil)
	if result, ok := resp["result"].(map[string]any); !ok || result["version"] != "1.0.0" {
		t.Fatalf("unexpected getVersion response %v", resp)
	}

	resp = wsCall(t, ctx, conn, 2, "nonexistent.method", nil)
	errObj, ok := resp["error"].(map[string]any)
	if !ok || errObj["code"].(float64) != -32601 {
		t.Fatalf("expected method not found, got %v", resp)
	}
}

func TestWebSocketEndpoint_NotifierRegistration(t *testing.T) {
	rs, wsURL := newTestWSServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := cws.Dial(ctx, wsURL, &cws.DialOptions{
		HTTPHeader: http.Header{"Authorization": []string{"Bearer " + testSecret}},
	})
	if err != nil {
		t.Fatalf("WebSocket dial failed: %v", err)
	}
	waitForCount(t, rs.Notifier(), 1)

	conn.Close(cws.StatusNormalClosure, "")
	waitForCount(t, rs.Notifier(), 0)
}

func TestWebSocketEndpoint_CookiesChangedPush(t *testing.T) {
	rs, wsURL := newTestWSServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	listener := dialWS(t, ctx, wsURL)
	waitForCount(t, rs.Notifier(), 1)

	_, resp := rpcCall(t, rs.Handler(), "cookies.set", map[string]any{
		"url":       "https://example.com/",
		"cookie":    map[string]any{"name": "sid", "value": "secret-value"},
		"useWebKit": true,
	}, testSecret)
	if resultOf(t, resp) != true {
		t.Fatalf("set returned %v", resp["result"])
	}

	_, msgData, err := listener.Read(ctx)
	if err != nil {
		t.Fatalf("read notification failed: %v", err)
	}
	var msg map[string]any
	if err := json.Unmarshal(msgData, &msg); err != nil {
		t.Fatalf("unmarshal notification: %v", err)
	}
	if msg["method"] != MethodCookiesChanged || msg["id"] != nil {
		t.Fatalf("expected %s notification, got %v", MethodCookiesChanged, msg)
	}
	params := msg["params"].(map[string]any)
	if params["op"] != "set" || params["name"] != "sid" || params["useWebKit"] != true {
		t.Errorf("unexpected params %v", params)
	}
	if strings.Contains(string(msgData), "secret-value") {
		t.Error("notification must not carry the cookie value")
	}
}

func TestWebSocketEndpoint_NoPushOnFailure(t *testing.T) {
	rs, wsURL := newTestWSServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	listener := dialWS(t, ctx, wsURL)
	waitForCount(t, rs.Notifier(), 1)

	_, resp := rpcCall(t, rs.Handler(), "cookies.clearByName", map[string]any{
		"url":  "https://example.com/",
		"name": "missing",
	}, testSecret)
	if resultOf(t, resp) != false {
		t.Fatalf("clearByName returned %v", resp["result"])
	}

	readCtx, readCancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer readCancel()
	if _, data, err := listener.Read(readCtx); err == nil {
		t.Errorf("unexpected push %s", data)
	}
}
