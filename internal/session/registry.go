package session

import (
	"sort"
	"sync"
	"time"

	"github.com/eventgate/eventgate/internal/engine"
	"github.com/eventgate/eventgate/internal/event"
	"github.com/eventgate/eventgate/internal/logging"
	"github.com/eventgate/eventgate/internal/names"
)

// Info is the wire representation of one registry entry.
type Info struct {
	ID       string    `json:"id"`
	LastSeen time.Time `json:"lastSeen"`
}

// Registry maps session identifiers to sessions and owns identifier
// allocation. The map only grows; there is no eviction.
//
// One mutex spans name generation, the existence check, insertion and
// activation, so two concurrent requests can neither draw the same fresh
// name nor race to create two sessions for one identifier.
type Registry struct {
	cookieName string
	dispatcher *engine.Dispatcher
	bus        *event.Bus

	mu        sync.Mutex
	sessions  map[string]*Session
	generator *names.Generator
	now       func() time.Time
}

// NewRegistry creates a registry. cookieName is the HTTP cookie the session
// filter reads and writes. The bus may be nil.
func NewRegistry(cookieName string, dispatcher *engine.Dispatcher, bus *event.Bus) *Registry {
	return &Registry{
		cookieName: cookieName,
		dispatcher: dispatcher,
		bus:        bus,
		sessions:   make(map[string]*Session),
		generator:  names.New(),
		now:        time.Now,
	}
}

// CookieName returns the configured session cookie name.
func (r *Registry) CookieName() string {
	return r.cookieName
}

// GenerateName draws candidate names until one is not an existing key and
// returns it. The name is NOT inserted; the caller decides whether it ends
// up used (the filter hands it back through Activate on the same request).
func (r *Registry) GenerateName() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := r.generator.Next()
	for {
		if _, taken := r.sessions[name]; !taken {
			return name
		}
		name = r.generator.Next()
	}
}

// Activate looks up the session for id, creating and starting a new context
// for it on first sight, then refreshes the session and makes its context
// current. Arbitrary identifiers are accepted; an unseen client-supplied
// value mints a session just like a generated one.
func (r *Registry) Activate(id string) *Session {
	r.mu.Lock()

	s, ok := r.sessions[id]
	if !ok {
		ctx := engine.NewContext(id, r.bus)
		ctx.Start()
		s = newSession(ctx, r.now())
		r.sessions[id] = s
	}
	s.activate(r.dispatcher, r.now())
	lastSeen := s.LastSeen()

	r.mu.Unlock()

	if !ok {
		logging.Debug().Str("session", id).Msg("session created")
		if r.bus != nil {
			r.bus.Publish(event.Event{
				Type: event.SessionCreated,
				Data: event.SessionCreatedData{ID: id, CreatedAt: lastSeen},
			})
		}
	}
	if r.bus != nil {
		r.bus.Publish(event.Event{
			Type: event.SessionActivated,
			Data: event.SessionActivatedData{ID: id, LastSeen: lastSeen},
		})
	}

	return s
}

// Get returns the session for id, if any.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Len reports the number of sessions ever created.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// List returns a snapshot of all sessions, ordered by identifier.
func (r *Registry) List() []Info {
	r.mu.Lock()
	infos := make([]Info, 0, len(r.sessions))
	for id, s := range r.sessions {
		infos = append(infos, Info{ID: id, LastSeen: s.LastSeen()})
	}
	r.mu.Unlock()

	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}
