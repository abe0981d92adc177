package engine

import (
	"errors"
	"sync"
)

// ErrNoContext is returned by Dispatch when no context has ever been
// activated in the process.
var ErrNoContext = errors.New("no current context available")

// Dispatcher owns the process-wide current-context pointer. The pointer is
// undefined until the first activation and is reassigned on every later one,
// last writer wins. Across concurrent sessions a dispatch racing with an
// activation from another session may observe that session's context; this
// mirrors the single-current-context model and is intentionally not fixed.
type Dispatcher struct {
	mu      sync.RWMutex
	current *Context
}

// NewDispatcher returns a dispatcher with no current context.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Activate makes ctx the current context.
func (d *Dispatcher) Activate(ctx *Context) {
	d.mu.Lock()
	d.current = ctx
	d.mu.Unlock()
}

// Current returns the current context, or nil before the first activation.
func (d *Dispatcher) Current() *Context {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.current
}

// Dispatch wraps the named event in an envelope and submits it to the
// current context. It returns ErrNoContext before any activation.
func (d *Dispatcher) Dispatch(name string, payload map[string]any) (*Envelope, error) {
	ctx := d.Current()
	if ctx == nil {
		return nil, ErrNoContext
	}

	env := NewEnvelope(name, payload)
	ctx.Submit(env)
	return env, nil
}
