// Package session binds client-presented identifiers to engine contexts and
// tracks when each identity was last seen.
package session

import (
	"sync"
	"time"

	"github.com/eventgate/eventgate/internal/engine"
)

// Session pairs a context, exclusively owned by this session, with the time
// the owning client was last seen. Sessions are created on first activation
// of an identifier and never destroyed.
type Session struct {
	ctx *engine.Context

	mu       sync.Mutex
	lastSeen time.Time
}

func newSession(ctx *engine.Context, now time.Time) *Session {
	return &Session{ctx: ctx, lastSeen: now}
}

// Context returns the session's context.
func (s *Session) Context() *engine.Context {
	return s.ctx
}

// LastSeen returns the time of the most recent activation.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// activate refreshes the last-seen time and makes the session's context the
// process-wide current one.
func (s *Session) activate(d *engine.Dispatcher, now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()

	d.Activate(s.ctx)
}
