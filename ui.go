package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"quillgo/bridge"
)

//go:embed ui
var uiFiles embed.FS

// uiServer serves the editor page and the bridge endpoint on loopback.
type uiServer struct {
	srv      *http.Server
	listener net.Listener
	ws       *bridge.WSHandler
	token    string
}

func newUIServer(caller bridge.Caller, logger *slog.Logger) (*uiServer, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("listening for ui: %w", err)
	}
	token := bridge.NewToken()
	s := &uiServer{
		listener: ln,
		ws:       bridge.NewWSHandler(caller, token, logger),
		token:    token,
	}
	handler, err := s.routes()
	if err != nil {
		_ = ln.Close()
		return nil, err
	}
	s.srv = &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s, nil
}

func (s *uiServer) routes() (http.Handler, error) {
	static, err := fs.Sub(uiFiles, "ui")
	if err != nil {
		return nil, err
	}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)
	r.Get("/bridge", s.ws.ServeHTTP)
	r.Handle("/*", http.FileServer(http.FS(static)))
	return r, nil
}

// URL is the page address handed to the window, token included.
func (s *uiServer) URL() string {
	u := url.URL{
		Scheme:   "http",
		Host:     s.listener.Addr().String(),
		Path:     "/",
		RawQuery: url.Values{"token": {s.token}}.Encode(),
	}
	return u.String()
}

// Serve blocks until Shutdown.
func (s *uiServer) Serve() error {
	err := s.srv.Serve(s.listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *uiServer) Shutdown(ctx context.Context) error {
	s.ws.Close()
	return s.srv.Shutdown(ctx)
}
