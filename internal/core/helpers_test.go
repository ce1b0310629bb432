package core

import (
	"context"
	"sync"
	"time"
)

// testCommand is a minimal Command for pipeline tests.
type testCommand struct {
	name     string
	triggers []Trigger
	policy   BlockPolicy

	mu      sync.Mutex
	runs    int
	blocked []BlockedReason
	runFn   func(*Context) error
}

func newTestCommand(name string, triggers ...Trigger) *testCommand {
	if len(triggers) == 0 {
		triggers = []Trigger{Trigger(name)}
	}
	return &testCommand{name: name, triggers: triggers}
}

func (c *testCommand) Name() string        { return c.name }
func (c *testCommand) Description() string { return c.name + " test command" }
func (c *testCommand) Usage() string       { return c.name }
func (c *testCommand) Category() string    { return "test" }
func (c *testCommand) Triggers() []Trigger { return c.triggers }
func (c *testCommand) Policy() BlockPolicy { return c.policy }

func (c *testCommand) OnBlocked(_ *Context, reason BlockedReason) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blocked = append(c.blocked, reason)
}

func (c *testCommand) Run(ctx *Context) error {
	c.mu.Lock()
	c.runs++
	fn := c.runFn
	c.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	return nil
}

func (c *testCommand) runCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runs
}

func (c *testCommand) blockedReasons() []BlockedReason {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]BlockedReason(nil), c.blocked...)
}

// fakeResponder records outbound sends.
type fakeResponder struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeResponder) SendText(_ context.Context, _ JID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeResponder) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

// fakeRoles returns a fixed role or error.
type fakeRoles struct {
	role GroupRole
	err  error
}

func (f *fakeRoles) GroupRole(context.Context, JID, JID) (GroupRole, error) {
	return f.role, f.err
}

// fakeRenderer produces deterministic notices.
type fakeRenderer struct{}

func (fakeRenderer) RenderBlocked(_ *Chat, cmd Command, reason BlockedReason) string {
	return "blocked:" + cmd.Name() + ":" + reason.String()
}

func (fakeRenderer) RenderCooldown(_ *Chat, cmd Command, remaining time.Duration) string {
	return "cooldown:" + cmd.Name()
}

func (fakeRenderer) RenderTimeout(*Chat) string { return "timeout" }

// fakeRecorder counts recorder calls.
type fakeRecorder struct {
	mu      sync.Mutex
	seen    int
	ran     []string
	blocked map[string][]BlockedReason
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{blocked: make(map[string][]BlockedReason)}
}

func (f *fakeRecorder) MessageSeen() {
	f.mu.Lock()
	f.seen++
	f.mu.Unlock()
}

func (f *fakeRecorder) CommandRan(name string, _ time.Duration) {
	f.mu.Lock()
	f.ran = append(f.ran, name)
	f.mu.Unlock()
}

func (f *fakeRecorder) CommandBlocked(name string, reason BlockedReason) {
	f.mu.Lock()
	f.blocked[name] = append(f.blocked[name], reason)
	f.mu.Unlock()
}

func groupChat(jid JID) *Chat {
	return &Chat{JID: jid, Kind: ChatGroup, Prefix: "!", Language: "en"}
}

func dmChat(jid JID) *Chat {
	return &Chat{JID: jid, Kind: ChatDM, Prefix: "!", Language: "en"}
}

func user(jid JID, tier AccountTier) *User {
	return &User{JID: jid, Name: string(jid), Tier: tier}
}

func inbound(chat *Chat, sender JID, text string) *Message {
	return &Message{
		ID:        "m-" + string(sender),
		Chat:      chat.JID,
		Sender:    sender,
		Text:      text,
		Timestamp: time.Now(),
	}
}
