package server

import (
	"net/http"

	"github.com/eventgate/eventgate/internal/logging"
)

// sessionCookie is the session filter. It runs on every request: it reads
// the configured cookie, mints a fresh name when none is present, and
// activates the session before the next handler runs, so an event posted on
// the same request targets this request's context.
//
// Client-supplied values are accepted as-is; an unseen value creates a new
// session. Identifiers are not signed, so a client can forge or share them.
func (s *Server) sessionCookie(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var value string
		if c, err := r.Cookie(s.config.CookieName); err == nil && c.Value != "" {
			value = c.Value
		} else {
			value = s.registry.GenerateName()
			http.SetCookie(w, &http.Cookie{
				Name:  s.config.CookieName,
				Value: value,
				Path:  "/",
			})
			logging.Debug().Str("session", value).Msg("issued session cookie")
		}

		s.registry.Activate(value)

		next.ServeHTTP(w, r)
	})
}
