// Package server provides the eventgate HTTP server: the session cookie
// filter, the event ingress endpoints and the SSE event stream.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/eventgate/eventgate/internal/config"
	"github.com/eventgate/eventgate/internal/engine"
	"github.com/eventgate/eventgate/internal/event"
	"github.com/eventgate/eventgate/internal/session"
)

// Config holds server configuration.
type Config struct {
	Hostname     string
	Port         int
	CookieName   string
	EnableCORS   bool
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// Events are extra ingress routes bound to fixed event names.
	Events []config.EventRoute
}

// DefaultConfig returns default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Hostname:     "127.0.0.1",
		Port:         8080,
		CookieName:   "eventgate-session",
		EnableCORS:   true,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // No write timeout for SSE
	}
}

// Server is the HTTP server.
type Server struct {
	config     *Config
	router     *chi.Mux
	httpSrv    *http.Server
	registry   *session.Registry
	dispatcher *engine.Dispatcher
	bus        *event.Bus
}

// New creates a new Server instance.
func New(cfg *Config) *Server {
	bus := event.NewBus()
	dispatcher := engine.NewDispatcher()

	s := &Server{
		config:     cfg,
		router:     chi.NewRouter(),
		registry:   session.NewRegistry(cfg.CookieName, dispatcher, bus),
		dispatcher: dispatcher,
		bus:        bus,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures middleware for the server.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RealIP)

	if s.config.EnableCORS {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Session filter runs last so every routed request has an active
	// context before its handler does.
	s.router.Use(s.sessionCookie)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.Hostname, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	return s.httpSrv.ListenAndServe()
}

// Shutdown gracefully shuts down the server and closes the event bus.
func (s *Server) Shutdown(ctx context.Context) error {
	defer s.bus.Close()
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Registry returns the session registry.
func (s *Server) Registry() *session.Registry {
	return s.registry
}

// Bus returns the event bus.
func (s *Server) Bus() *event.Bus {
	return s.bus
}
