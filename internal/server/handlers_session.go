package server

import (
	"net/http"
)

// currentContextResponse is the body of GET /session/current.
type currentContextResponse struct {
	ID string `json:"id"`
}

// listSessions handles GET /session: every registry entry with its
// last-seen time. The registry never evicts, so this also shows growth.
func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.List())
}

// currentSession handles GET /session/current: the identifier of the
// process-wide current context.
func (s *Server) currentSession(w http.ResponseWriter, r *http.Request) {
	ctx := s.dispatcher.Current()
	if ctx == nil {
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "no context activated yet")
		return
	}
	writeJSON(w, http.StatusOK, currentContextResponse{ID: ctx.ID()})
}
