package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eventgate/eventgate/internal/engine"
	"github.com/eventgate/eventgate/internal/logging"
)

// eventHandler returns an ingress handler bound to a fixed event name.
// Configured routes use this factory directly.
func (s *Server) eventHandler(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.ingest(w, r, name)
	}
}

// ingestNamed handles POST /event/{eventName}.
func (s *Server) ingestNamed(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "eventName")
	if name == "" {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "event name required")
		return
	}
	s.ingest(w, r, name)
}

// ingest reads exactly Content-Length bytes of JSON, requires an object at
// the root, and dispatches it to the current context.
//
// Responses: 202 empty on success, 400 on malformed JSON or a non-object
// root, 411 when the request carries no Content-Length, 500 when no context
// has ever been activated.
func (s *Server) ingest(w http.ResponseWriter, r *http.Request, name string) {
	if r.ContentLength < 0 || (r.ContentLength == 0 && r.Header.Get("Content-Length") == "") {
		writeError(w, http.StatusLengthRequired, ErrCodeLengthRequired, "content-length header required")
		return
	}

	body := make([]byte, r.ContentLength)
	if _, err := io.ReadFull(r.Body, body); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "bad request: "+err.Error())
		return
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "bad request: "+err.Error())
		return
	}

	payload, ok := decoded.(map[string]any)
	if !ok {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "bad request: expect a JSON object")
		return
	}

	env, err := s.dispatcher.Dispatch(name, payload)
	if err != nil {
		if errors.Is(err, engine.ErrNoContext) {
			// Deployment/ordering error: an event arrived before any
			// session was ever activated.
			writeError(w, http.StatusInternalServerError, ErrCodeNoContext, "no current context available")
			return
		}
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}

	logging.Debug().
		Str("event", name).
		Str("id", env.ID).
		Msg("event accepted")

	w.Header().Set("Content-Length", "0")
	w.WriteHeader(http.StatusAccepted)
}
