// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conlang Studio Contributors

// Package web exposes the auth and project services as a JSON API.
//
// Every request passes through session resolution: a token from the session
// cookie or an Authorization bearer header is resolved to an auth.Identity
// and stored in the request context. Handlers for protected routes read the
// caller only from there; request bodies never carry a user id.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/samber/oops"

	"github.com/conlang-studio/studio/internal/auth"
	"github.com/conlang-studio/studio/internal/project"
)

// RequestObserver records finished requests. *observability.Metrics
// implements it.
type RequestObserver interface {
	ObserveRequest(route string, status int, elapsed time.Duration)
}

// Options configures a Server.
type Options struct {
	Auth         *auth.Service
	Projects     *project.Service
	Observer     RequestObserver // optional
	CookieName   string
	CookieSecure bool
	Logger       *slog.Logger // slog.Default when nil
}

// Server is the HTTP API.
type Server struct {
	auth     *auth.Service
	projects *project.Service
	observer RequestObserver
	cookie   cookieConfig
	logger   *slog.Logger
	router   *mux.Router
}

// shutdownTimeout bounds how long Run waits for in-flight requests.
const shutdownTimeout = 10 * time.Second

// NewServer creates a Server and builds its routes.
func NewServer(opts Options) (*Server, error) {
	switch {
	case opts.Auth == nil:
		return nil, oops.Code("WEB_INVALID_CONFIG").Errorf("auth service is required")
	case opts.Projects == nil:
		return nil, oops.Code("WEB_INVALID_CONFIG").Errorf("project service is required")
	case opts.CookieName == "":
		return nil, oops.Code("WEB_INVALID_CONFIG").Errorf("cookie name is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Server{
		auth:     opts.Auth,
		projects: opts.Projects,
		observer: opts.Observer,
		cookie: cookieConfig{
			name:   opts.CookieName,
			secure: opts.CookieSecure,
			maxAge: opts.Auth.Sessions().IdleTimeout(),
		},
		logger: opts.Logger,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.instrument, s.resolveSession)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(s.requireIdentity)
	protected.HandleFunc("/me", s.handleMe).Methods(http.MethodGet)
	protected.HandleFunc("/projects", s.handleListProjects).Methods(http.MethodGet)
	protected.HandleFunc("/projects", s.handleCreateProject).Methods(http.MethodPost)
	protected.HandleFunc("/projects/{id:[0-9]+}", s.handleGetProject).Methods(http.MethodGet)
	protected.HandleFunc("/projects/{id:[0-9]+}", s.handleUpdateProject).Methods(http.MethodPut)
	protected.HandleFunc("/projects/{id:[0-9]+}", s.handleDeleteProject).Methods(http.MethodDelete)
	protected.HandleFunc("/projects/{id:[0-9]+}/languages", s.handleListLanguages).Methods(http.MethodGet)
	protected.HandleFunc("/projects/{id:[0-9]+}/languages", s.handleCreateLanguage).Methods(http.MethodPost)

	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return oops.Code("WEB_LISTEN_FAILED").With("addr", addr).Wrap(err)
	}
	return s.Serve(ctx, listener)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if serveErr := srv.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errCh <- serveErr
		}
	}()
	s.logger.Info("http server started", "addr", listener.Addr().String())

	select {
	case serveErr := <-errCh:
		if serveErr != nil {
			return oops.Code("WEB_SERVE_FAILED").Wrap(serveErr)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return oops.Code("WEB_SHUTDOWN_FAILED").Wrap(err)
	}
	s.logger.Info("http server stopped")
	return nil
}
