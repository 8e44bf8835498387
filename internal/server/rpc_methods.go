package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"
	"github.com/warpdl/nativecookies/internal/cookies"
	"github.com/warpdl/nativecookies/internal/manager"
	"github.com/warpdl/nativecookies/pkg/logger"
)

// Custom JSON-RPC error codes for rejected cookie operations.
const (
	codeClearAllCookies      = jrpc2.Code(-32010)
	codeRemoveSessionCookies = jrpc2.Code(-32011)
	codeInvalidParams        = jrpc2.Code(-32602)
)

// Cookies is the operation set the bridge exposes. *manager.Manager
// implements it.
type Cookies interface {
	Set(ctx context.Context, rawURL string, attrs cookies.Attributes, useWebKit bool) bool
	SetFromResponse(ctx context.Context, rawURL, header string, useWebKit bool) bool
	Get(ctx context.Context, rawURL string, useWebKit bool) cookies.Jar
	GetAll(ctx context.Context, useWebKit bool) cookies.Jar
	ClearAll(ctx context.Context, useWebKit bool) (bool, error)
	ClearByName(ctx context.Context, rawURL, name string, useWebKit bool) bool
	Flush(ctx context.Context, useWebKit bool) bool
	RemoveSessionCookies(ctx context.Context, useWebKit bool) (bool, error)
}

// RPCConfig holds configuration for the JSON-RPC endpoints.
type RPCConfig struct {
	Secret    string // Auth token (required, empty disables RPC)
	ListenAll bool   // Bind to 0.0.0.0 instead of 127.0.0.1
	Version   string
	Commit    string
	BuildType string
	// OriginPatterns lists extra hosts allowed to open the WebSocket
	// endpoint from a browser page.
	OriginPatterns []string
}

// RPCServer serves the cookie operations over JSON-RPC 2.0.
type RPCServer struct {
	bridge         jhttp.Bridge
	methods        handler.Map
	secret         string
	version        string
	commit         string
	buildType      string
	originPatterns []string
	cookies        Cookies
	notifier       *RPCNotifier
	log            logger.Logger
}

// VersionResult is the response for system.getVersion.
type VersionResult struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildType string `json:"buildType,omitempty"`
}

// StoreParams selects the store for operations without a URL.
type StoreParams struct {
	UseWebKit bool `json:"useWebKit,omitempty"`
}

// URLParams is the input for cookies.get.
type URLParams struct {
	URL       string `json:"url"`
	UseWebKit bool   `json:"useWebKit,omitempty"`
}

// SetParams is the input for cookies.set.
type SetParams struct {
	URL       string             `json:"url"`
	Cookie    cookies.Attributes `json:"cookie"`
	UseWebKit bool               `json:"useWebKit,omitempty"`
}

// SetFromResponseParams is the input for cookies.setFromResponse.
type SetFromResponseParams struct {
	URL          string `json:"url"`
	CookieHeader string `json:"cookieHeader"`
	UseWebKit    bool   `json:"useWebKit,omitempty"`
}

// ClearByNameParams is the input for cookies.clearByName.
type ClearByNameParams struct {
	URL       string `json:"url"`
	Name      string `json:"name"`
	UseWebKit bool   `json:"useWebKit,omitempty"`
}

// RejectionData is the data member of a rejected clearAll or
// removeSessionCookies call.
type RejectionData struct {
	Code  string `json:"code"`
	Cause string `json:"cause"`
}

// NewRPCServer creates the method table and HTTP bridge over c.
func NewRPCServer(cfg *RPCConfig, c Cookies, l logger.Logger) *RPCServer {
	if l == nil {
		l = logger.NewNopLogger()
	}
	rs := &RPCServer{
		secret:         cfg.Secret,
		version:        cfg.Version,
		commit:         cfg.Commit,
		buildType:      cfg.BuildType,
		originPatterns: cfg.OriginPatterns,
		cookies:        c,
		notifier:       NewRPCNotifier(l),
		log:            l,
	}

	rs.methods = handler.Map{
		"system.getVersion":            handler.New(rs.systemGetVersion),
		"cookies.set":                  handler.New(rs.cookiesSet),
		"cookies.setFromResponse":      handler.New(rs.cookiesSetFromResponse),
		"cookies.get":                  handler.New(rs.cookiesGet),
		"cookies.getAll":               handler.New(rs.cookiesGetAll),
		"cookies.clearAll":             handler.New(rs.cookiesClearAll),
		"cookies.clearByName":          handler.New(rs.cookiesClearByName),
		"cookies.flush":                handler.New(rs.cookiesFlush),
		"cookies.removeSessionCookies": handler.New(rs.cookiesRemoveSessionCookies),
	}

	rs.bridge = jhttp.NewBridge(rs.methods, nil)
	return rs
}

// Handler returns the authenticated HTTP and WebSocket endpoints.
func (rs *RPCServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/jsonrpc", requireToken(rs.secret, rs.bridge))
	mux.Handle("/jsonrpc/ws", requireToken(rs.secret, http.HandlerFunc(rs.serveWS)))
	return mux
}

// Notifier returns the broadcaster for WebSocket clients.
func (rs *RPCServer) Notifier() *RPCNotifier {
	return rs.notifier
}

func (rs *RPCServer) systemGetVersion(_ context.Context) (*VersionResult, error) {
	return &VersionResult{
		Version:   rs.version,
		Commit:    rs.commit,
		BuildType: rs.buildType,
	}, nil
}

func (rs *RPCServer) cookiesSet(ctx context.Context, p *SetParams) (bool, error) {
	if p.URL == "" {
		return false, missingParam("url")
	}
	ok := rs.cookies.Set(ctx, p.URL, p.Cookie, p.UseWebKit)
	if ok {
		rs.changed(&CookiesChangedNotification{Op: "set", URL: p.URL, Name: p.Cookie.Name, UseWebKit: p.UseWebKit})
	}
	return ok, nil
}

func (rs *RPCServer) cookiesSetFromResponse(ctx context.Context, p *SetFromResponseParams) (bool, error) {
	if p.URL == "" {
		return false, missingParam("url")
	}
	ok := rs.cookies.SetFromResponse(ctx, p.URL, p.CookieHeader, p.UseWebKit)
	if ok {
		rs.changed(&CookiesChangedNotification{Op: "setFromResponse", URL: p.URL, UseWebKit: p.UseWebKit})
	}
	return ok, nil
}

func (rs *RPCServer) cookiesGet(ctx context.Context, p *URLParams) (map[string]cookies.Attributes, error) {
	if p.URL == "" {
		return nil, missingParam("url")
	}
	return rs.cookies.Get(ctx, p.URL, p.UseWebKit).Attributes(), nil
}

func (rs *RPCServer) cookiesGetAll(ctx context.Context, p *StoreParams) (map[string]cookies.Attributes, error) {
	return rs.cookies.GetAll(ctx, p.UseWebKit).Attributes(), nil
}

func (rs *RPCServer) cookiesClearAll(ctx context.Context, p *StoreParams) (bool, error) {
	ok, err := rs.cookies.ClearAll(ctx, p.UseWebKit)
	if err != nil {
		return false, rejection(codeClearAllCookies, err)
	}
	if ok {
		rs.changed(&CookiesChangedNotification{Op: "clearAll", UseWebKit: p.UseWebKit})
	}
	return ok, nil
}

func (rs *RPCServer) cookiesClearByName(ctx context.Context, p *ClearByNameParams) (bool, error) {
	if p.URL == "" {
		return false, missingParam("url")
	}
	ok := rs.cookies.ClearByName(ctx, p.URL, p.Name, p.UseWebKit)
	if ok {
		rs.changed(&CookiesChangedNotification{Op: "clearByName", URL: p.URL, Name: p.Name, UseWebKit: p.UseWebKit})
	}
	return ok, nil
}

func (rs *RPCServer) cookiesFlush(ctx context.Context, p *StoreParams) (bool, error) {
	return rs.cookies.Flush(ctx, p.UseWebKit), nil
}

func (rs *RPCServer) cookiesRemoveSessionCookies(ctx context.Context, p *StoreParams) (bool, error) {
	ok, err := rs.cookies.RemoveSessionCookies(ctx, p.UseWebKit)
	if err != nil {
		return false, rejection(codeRemoveSessionCookies, err)
	}
	if ok {
		rs.changed(&CookiesChangedNotification{Op: "removeSessionCookies", UseWebKit: p.UseWebKit})
	}
	return ok, nil
}

func (rs *RPCServer) changed(n *CookiesChangedNotification) {
	rs.notifier.Broadcast(MethodCookiesChanged, n)
}

func missingParam(name string) error {
	return &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: " + name}
}

// rejection converts a manager rejection into a JSON-RPC error whose data
// carries the fixed code and the cause.
func rejection(code jrpc2.Code, err error) error {
	data := RejectionData{Cause: err.Error()}
	msg := err.Error()
	var me *manager.Error
	if errors.As(err, &me) {
		data.Code = me.Code
		msg = me.Message
		if me.Err != nil {
			data.Cause = me.Err.Error()
		}
	}
	raw, _ := json.Marshal(data)
	return &jrpc2.Error{Code: code, Message: msg, Data: raw}
}

// Close shuts down the bridge and every WebSocket session.
func (rs *RPCServer) Close() {
	rs.bridge.Close()
	rs.notifier.StopAll()
}
