package server

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	r := s.router

	// Event ingress and streaming
	r.Get("/event", s.streamEvents)
	r.Post("/event/{eventName}", s.ingestNamed)

	// Configured ingress routes, each bound to a fixed event name
	for _, route := range s.config.Events {
		r.Post(route.Path, s.eventHandler(route.Event))
	}

	// Session observability
	r.Route("/session", func(r chi.Router) {
		r.Get("/", s.listSessions)
		r.Get("/current", s.currentSession)
	})
}
