package bridge

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"quillgo/logging"
)

// Caller dispatches a bridge method. *API implements it.
type Caller interface {
	Call(method string, params json.RawMessage) (any, error)
}

// WSHandler upgrades page connections and serves bridge calls over them.
// Only loopback origins presenting the launch token are accepted.
type WSHandler struct {
	caller   Caller
	token    string
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[string]*websocket.Conn
}

// NewWSHandler creates a handler that requires ?token=<token> on upgrade.
func NewWSHandler(caller Caller, token string, logger *slog.Logger) *WSHandler {
	if logger == nil {
		logger = logging.Discard()
	}
	h := &WSHandler{
		caller: caller,
		token:  token,
		logger: logger,
		conns:  make(map[string]*websocket.Conn),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checkLoopbackOrigin,
	}
	return h
}

// NewToken returns a fresh per-launch bridge token.
func NewToken() string {
	return uuid.NewString()
}

func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	got := r.URL.Query().Get("token")
	if subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) != 1 {
		h.logger.Warn("bridge connection rejected", slog.String("remote", r.RemoteAddr))
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("bridge upgrade failed", slog.Any("error", err))
		return
	}

	id := uuid.NewString()
	h.track(id, conn)
	defer h.untrack(id)

	h.logger.Debug("bridge connected", slog.String("conn", id))
	h.serve(id, conn)
}

// Close drops every open page connection.
func (h *WSHandler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, conn := range h.conns {
		_ = conn.Close()
		delete(h.conns, id)
	}
}

func (h *WSHandler) serve(id string, conn *websocket.Conn) {
	defer conn.Close()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug("bridge read ended", slog.String("conn", id), slog.Any("error", err))
			}
			return
		}
		resp := h.handle(data)
		if err := conn.WriteJSON(resp); err != nil {
			h.logger.Debug("bridge write failed", slog.String("conn", id), slog.Any("error", err))
			return
		}
	}
}

func (h *WSHandler) handle(data []byte) Response {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return Response{Error: &Error{Code: CodeParseError, Message: "parse error: " + err.Error()}}
	}

	result, err := h.caller.Call(req.Method, req.Params)
	if err != nil {
		var bridgeErr *Error
		if !errors.As(err, &bridgeErr) {
			bridgeErr = &Error{Code: CodeInternalError, Message: err.Error()}
		}
		if bridgeErr.Code == CodeMethodNotFound {
			h.logger.Warn("unknown bridge method", slog.String("method", req.Method))
		}
		return Response{ID: req.ID, Error: bridgeErr}
	}
	return Response{ID: req.ID, Result: result}
}

func (h *WSHandler) track(id string, conn *websocket.Conn) {
	h.mu.Lock()
	h.conns[id] = conn
	h.mu.Unlock()
}

func (h *WSHandler) untrack(id string) {
	h.mu.Lock()
	delete(h.conns, id)
	h.mu.Unlock()
}

// checkLoopbackOrigin accepts requests without an Origin header and those
// whose origin host is a loopback address.
func checkLoopbackOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := u.Hostname()
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
