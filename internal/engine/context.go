// Package engine hosts the per-session contexts that inbound events are
// routed to, and the process-wide current-context cell.
package engine

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/eventgate/eventgate/internal/event"
	"github.com/eventgate/eventgate/internal/logging"
)

// inboxSize bounds a context's pending-event queue so a slow handler cannot
// grow memory without limit or block the HTTP path.
const inboxSize = 256

// Envelope wraps one inbound event for processing inside a context.
type Envelope struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Payload    map[string]any `json:"payload"`
	ReceivedAt time.Time      `json:"receivedAt"`
}

// NewEnvelope stamps an inbound event with a ULID and arrival time.
func NewEnvelope(name string, payload map[string]any) *Envelope {
	return &Envelope{
		ID:         ulid.Make().String(),
		Name:       name,
		Payload:    payload,
		ReceivedAt: time.Now(),
	}
}

// HandlerFunc processes one envelope inside a context's worker goroutine.
type HandlerFunc func(ctx *Context, env *Envelope)

// Context is one unit of application state, keyed by the session identifier
// it was created for. Events submitted to it are consumed by a dedicated
// worker goroutine started by Start.
type Context struct {
	id  string
	bus *event.Bus

	inbox chan *Envelope
	done  chan struct{}

	startOnce sync.Once
	stopOnce  sync.Once

	mu       sync.RWMutex
	handlers []HandlerFunc
}

// NewContext creates a context for the given identifier. The bus may be nil;
// dispatch notifications are then skipped.
func NewContext(id string, bus *event.Bus) *Context {
	return &Context{
		id:    id,
		bus:   bus,
		inbox: make(chan *Envelope, inboxSize),
		done:  make(chan struct{}),
	}
}

// ID returns the identifier the context was created for.
func (c *Context) ID() string {
	return c.id
}

// OnEvent registers a handler invoked for every envelope the worker consumes.
func (c *Context) OnEvent(fn HandlerFunc) {
	c.mu.Lock()
	c.handlers = append(c.handlers, fn)
	c.mu.Unlock()
}

// Start launches the worker goroutine. Subsequent calls are no-ops.
func (c *Context) Start() {
	c.startOnce.Do(func() {
		go c.run()
	})
}

// Stop terminates the worker. Envelopes still queued are discarded.
func (c *Context) Stop() {
	c.stopOnce.Do(func() {
		close(c.done)
	})
}

// Submit enqueues an envelope without blocking. It reports false when the
// inbox is full; the envelope is then dropped with a warning.
func (c *Context) Submit(env *Envelope) bool {
	select {
	case c.inbox <- env:
		return true
	default:
		logging.Warn().
			Str("context", c.id).
			Str("event", env.Name).
			Str("id", env.ID).
			Msg("context inbox full, dropping event")
		if c.bus != nil {
			c.bus.Publish(event.Event{
				Type: event.EventDropped,
				Data: event.EventDroppedData{
					ContextID: c.id,
					EventID:   env.ID,
					Name:      env.Name,
				},
			})
		}
		return false
	}
}

func (c *Context) run() {
	for {
		select {
		case env := <-c.inbox:
			c.process(env)
		case <-c.done:
			return
		}
	}
}

func (c *Context) process(env *Envelope) {
	c.mu.RLock()
	handlers := make([]HandlerFunc, len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.RUnlock()

	for _, fn := range handlers {
		fn(c, env)
	}

	if c.bus != nil {
		c.bus.Publish(event.Event{
			Type: event.EventDispatched,
			Data: event.EventDispatchedData{
				ContextID:  c.id,
				EventID:    env.ID,
				Name:       env.Name,
				Payload:    env.Payload,
				ReceivedAt: env.ReceivedAt,
			},
		})
	}
}
