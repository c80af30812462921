// Package core provides the API chassis for the notification service. It
// creates a chi router compatible with both standard HTTP (for local dev)
// and AWS Lambda Proxy Integration, and enforces cross-cutting concerns
// (panic recovery, request correlation, logging, CORS) before requests
// reach the notification handlers.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kudosnotify/internal/config"
)

// RouteRegistrar mounts a handler group onto the router. The application
// entry point populates Server.RouteRegistrars before MountRoutes; this
// indirection avoids import cycles between core and handler packages.
type RouteRegistrar func(r chi.Router)

// Server encapsulates the router and cross-cutting dependencies,
// allowing for easy injection during testing.
type Server struct {
	Config    *config.Config
	Logger    *slog.Logger
	Validator *Validator

	RouteRegistrars []RouteRegistrar
	HealthProbes    []HealthProbe

	router *chi.Mux
}

// NewServer initializes dependencies and prepares the server for route
// mounting. The caller is responsible for appending RouteRegistrars and
// calling MountRoutes afterward; the separation lets tests customize
// route registration.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}

	return &Server{
		Config:    cfg,
		Logger:    logger,
		Validator: NewValidator(),
		router:    chi.NewRouter(),
	}, nil
}

// MountRoutes registers the global middleware chain, the health check,
// and every registered handler group.
//
// Middleware order matters:
//  1. Recoverer     - outermost, catches all panics.
//  2. RequestID     - correlation ID for logs and provider calls.
//  3. RequestLogger - structured logging with redacted auth headers.
//  4. CORS          - permissive browser headers + OPTIONS preflight.
func (s *Server) MountRoutes() {
	s.router.Use(s.Recoverer)
	s.router.Use(RequestIDMiddleware)
	s.router.Use(RequestLogger(s.Logger, defaultRedactedHeaders))
	s.router.Use(CORSMiddleware)

	s.router.Get("/health", s.HandleHealth)

	for _, registrar := range s.RouteRegistrars {
		registrar(s.router)
	}
}

// Handler returns the http.Handler for the router. Used by
// http.ListenAndServe locally and by the Lambda proxy adapter.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Shutdown performs a graceful termination of server resources.
func (s *Server) Shutdown(ctx context.Context) error {
	s.Logger.Info("server shutdown complete")
	return nil
}

// defaultRedactedHeaders lists header names whose values are masked in
// request logs to prevent accidental leakage of credentials.
var defaultRedactedHeaders = []string{
	"Authorization",
	"Apikey",
	"Cookie",
}
