// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package web serves the CV terminal to browsers: an embedded xterm.js page,
// a websocket per visitor running the session, and a small JSON API.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"cv-terminal/internal/config"
	"cv-terminal/internal/logger"
	"cv-terminal/internal/metrics"

	"github.com/gorilla/mux"
)

// ShutdownTimeout bounds how long ListenAndServe waits for open requests.
const ShutdownTimeout = 5 * time.Second

// Options tune a Server. The zero value is usable.
type Options struct {
	FrameInterval time.Duration
	MaxSessions   int // 0 means unlimited
	Metrics       *metrics.Metrics
	Logger        *slog.Logger
}

// Server is the HTTP side of the CV terminal.
type Server struct {
	cfg   *config.CV
	opts  Options
	log   *slog.Logger
	slots chan struct{}
}

// NewServer creates a server for cfg.
func NewServer(cfg *config.CV, opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = logger.With("host", "web")
	}
	s := &Server{cfg: cfg, opts: opts, log: log}
	if opts.MaxSessions > 0 {
		s.slots = make(chan struct{}, opts.MaxSessions)
	}
	return s
}

// Router builds the route table. Static files are registered last so they do
// not shadow the API.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()

	RegisterAPIRoutes(router, s.cfg)
	router.HandleFunc("/ws", s.handleWebsocket)
	if s.opts.Metrics != nil {
		router.Handle("/metrics", s.opts.Metrics.Handler()).Methods("GET")
	}

	router.PathPrefix("/").Handler(http.FileServer(GetFileSystem()))
	return router
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener. Request contexts derive
// from ctx, so open websocket sessions end when it is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Web server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("web server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down web server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) acquire() bool {
	if s.slots == nil {
		return true
	}
	select {
	case s.slots <- struct{}{}:
		return true
	default:
		return false
	}
}

func (s *Server) release() {
	if s.slots != nil {
		<-s.slots
	}
}
