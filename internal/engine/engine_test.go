package engine

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatch_NoContext(t *testing.T) {
	d := NewDispatcher()

	env, err := d.Dispatch("greet", map[string]any{"who": "world"})
	assert.Nil(t, env)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoContext))
}

func TestDispatch_DeliversToCurrentContext(t *testing.T) {
	d := NewDispatcher()

	received := make(chan *Envelope, 1)
	ctx := NewContext("alpha-red", nil)
	ctx.OnEvent(func(_ *Context, env *Envelope) {
		received <- env
	})
	ctx.Start()
	defer ctx.Stop()

	d.Activate(ctx)

	env, err := d.Dispatch("greet", map[string]any{"who": "world"})
	require.NoError(t, err)
	require.NotEmpty(t, env.ID)

	select {
	case got := <-received:
		assert.Equal(t, env.ID, got.ID)
		assert.Equal(t, "greet", got.Name)
		assert.Equal(t, "world", got.Payload["who"])
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for envelope")
	}
}

func TestDispatch_LastActivationWins(t *testing.T) {
	d := NewDispatcher()

	first := NewContext("alpha-red", nil)
	second := NewContext("beta-blue", nil)

	received := make(chan string, 1)
	second.OnEvent(func(c *Context, _ *Envelope) {
		received <- c.ID()
	})
	first.Start()
	second.Start()
	defer first.Stop()
	defer second.Stop()

	d.Activate(first)
	d.Activate(second)

	_, err := d.Dispatch("ping", map[string]any{})
	require.NoError(t, err)

	select {
	case id := <-received:
		assert.Equal(t, "beta-blue", id)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for envelope")
	}
}

func TestSubmit_InboxOverflow(t *testing.T) {
	// Never started, so nothing drains the inbox.
	ctx := NewContext("gamma-green", nil)

	for i := 0; i < inboxSize; i++ {
		require.True(t, ctx.Submit(NewEnvelope("fill", nil)))
	}
	assert.False(t, ctx.Submit(NewEnvelope("overflow", nil)))
}

func TestContext_StartIdempotent(t *testing.T) {
	ctx := NewContext("delta-violet", nil)

	var mu sync.Mutex
	count := 0
	done := make(chan struct{})
	ctx.OnEvent(func(_ *Context, _ *Envelope) {
		mu.Lock()
		count++
		mu.Unlock()
		close(done)
	})

	ctx.Start()
	ctx.Start()
	defer ctx.Stop()

	ctx.Submit(NewEnvelope("once", nil))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for handler")
	}

	// A second worker would have raced on the inbox; give it a moment to
	// prove it does not exist.
	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, count)
}
