package core

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLogSink struct {
	mu      sync.Mutex
	entries [][2]string // command, param
}

func (f *fakeLogSink) LogCommand(_ JID, _ JID, _, command, param string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, [2]string{command, param})
	return nil
}

func testContext(chat *Chat, sender *User) *Context {
	return &Context{
		Ctx:    context.Background(),
		Chat:   chat,
		Sender: sender,
		Body:   "some args",
	}
}

func TestWithRecoverTurnsPanicIntoError(t *testing.T) {
	cmd := newTestCommand("boom")
	cmd.runFn = func(*Context) error { panic("kaput") }

	wrapped := ApplyMiddlewares(cmd, WithRecover())
	err := wrapped.Run(testContext(groupChat("g1"), user("u1", TierUser)))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	// The wrapper stays a full Command with the inner policy visible.
	assert.Equal(t, cmd.Policy(), wrapped.Policy())
	assert.Equal(t, "boom", wrapped.Name())
}

func TestWithRecoverPassesThrough(t *testing.T) {
	cmd := newTestCommand("fine")
	wrapped := ApplyMiddlewares(cmd, WithRecover())

	require.NoError(t, wrapped.Run(testContext(groupChat("g1"), user("u1", TierUser))))
	assert.Equal(t, 1, cmd.runCount())

	failing := newTestCommand("fails")
	failing.runFn = func(*Context) error { return errors.New("nope") }
	wrapped = ApplyMiddlewares(failing, WithRecover())
	assert.EqualError(t, wrapped.Run(testContext(groupChat("g1"), user("u1", TierUser))), "nope")
}

func TestWithCommandLogRecordsRuns(t *testing.T) {
	sink := &fakeLogSink{}
	cmd := newTestCommand("roll")

	wrapped := ApplyMiddlewares(cmd, WithCommandLog(sink))
	require.NoError(t, wrapped.Run(testContext(groupChat("g1"), user("u1", TierUser))))

	require.Len(t, sink.entries, 1)
	assert.Equal(t, [2]string{"roll", "some args"}, sink.entries[0])
}

func TestApplyMiddlewaresOrder(t *testing.T) {
	cmd := newTestCommand("x")
	var order []string

	tag := func(name string) Middleware {
		return func(inner Command) Command {
			return &wrappedCommand{Command: inner, wrap: func(ctx *Context) error {
				order = append(order, name)
				return inner.Run(ctx)
			}}
		}
	}

	wrapped := ApplyMiddlewares(cmd, tag("inner"), tag("outer"))
	require.NoError(t, wrapped.Run(testContext(groupChat("g1"), user("u1", TierUser))))
	assert.Equal(t, []string{"outer", "inner"}, order)
	assert.Equal(t, 1, cmd.runCount())
}
