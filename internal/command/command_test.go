package command

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"gatebot/internal/core"
	"gatebot/internal/lang"
	"gatebot/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureResponder struct {
	mu   sync.Mutex
	sent []string
}

func (c *captureResponder) SendText(_ context.Context, _ core.JID, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, text)
	return nil
}

func (c *captureResponder) last() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.sent) == 0 {
		return ""
	}
	return c.sent[len(c.sent)-1]
}

func newTestStorage(t *testing.T) *storage.Storage {
	t.Helper()
	s, err := storage.New(filepath.Join(t.TempDir(), "data.json"), storage.Defaults{Prefix: "!", Language: "en"})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func invocation(reply *captureResponder, body string) *core.Context {
	chat := &core.Chat{JID: "g1", Kind: core.ChatGroup, Prefix: "!", Language: "en"}
	return &core.Context{
		Ctx:     context.Background(),
		Message: &core.Message{ID: "m1", Chat: chat.JID, Sender: "u1", Text: body, Timestamp: time.Now()},
		Sender:  &core.User{JID: "u1", Name: "alice", Tier: core.TierUser},
		Chat:    chat,
		Body:    body,
		Args:    strings.Fields(body),
		Reply:   reply,
		Render:  lang.Renderer{},
	}
}

func TestPingReplies(t *testing.T) {
	reply := &captureResponder{}
	require.NoError(t, NewPing().Run(invocation(reply, "")))
	assert.Contains(t, reply.last(), "pong")
}

func TestEvalFormula(t *testing.T) {
	total, detail, err := evalFormula("2+3-1")
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Equal(t, "2 + 3 - 1", detail)

	total, detail, err = evalFormula("3d6")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, total, 3)
	assert.LessOrEqual(t, total, 18)
	assert.True(t, strings.HasPrefix(detail, "3d6["))

	total, _, err = evalFormula("2d4+5")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, total, 7)
	assert.LessOrEqual(t, total, 13)

	for _, bad := range []string{"", "x", "2d", "d0", "2d6+", "+2", "2d6**3", "101d6", "2d1001"} {
		_, _, err := evalFormula(bad)
		assert.Error(t, err, "formula %q", bad)
	}
}

func TestRollCountsUnlessOptedOut(t *testing.T) {
	store := newTestStorage(t)
	roll := NewRoll(store)
	reply := &captureResponder{}

	ctx := invocation(reply, "2d6")
	require.NoError(t, roll.Run(ctx))
	assert.Equal(t, 1, store.Rolls("u1"))

	store.SetOptOut("u1", "roll", true)
	require.NoError(t, roll.Run(ctx))
	assert.Equal(t, 1, store.Rolls("u1"))
}

func TestRollBadFormulaReplies(t *testing.T) {
	store := newTestStorage(t)
	reply := &captureResponder{}

	require.NoError(t, NewRoll(store).Run(invocation(reply, "what")))
	assert.Equal(t, lang.T("en", "roll.bad_formula", nil), reply.last())
	assert.Zero(t, store.Rolls("u1"))
}

func TestParseTier(t *testing.T) {
	tier, ok := parseTier("donor")
	require.True(t, ok)
	assert.Equal(t, core.TierDonor, tier)

	_, ok = parseTier("sultan")
	assert.False(t, ok)
}

func TestGrantSetsTier(t *testing.T) {
	store := newTestStorage(t)
	reply := &captureResponder{}

	ctx := invocation(reply, "u2 admin")
	require.NoError(t, NewGrant(store).Run(ctx))
	assert.Equal(t, core.TierAdmin, store.GetOrCreateUser("u2").Tier)
	assert.Contains(t, reply.last(), "admin")

	ctx = invocation(reply, "u2 sultan")
	require.NoError(t, NewGrant(store).Run(ctx))
	assert.Equal(t, core.TierAdmin, store.GetOrCreateUser("u2").Tier)
	assert.Contains(t, reply.last(), "sultan")
}

func TestPrefixUpdatesChat(t *testing.T) {
	store := newTestStorage(t)
	reply := &captureResponder{}

	require.NoError(t, NewPrefix(store).Run(invocation(reply, "?")))
	assert.Equal(t, "?", store.GetOrCreateChat("g1", core.ChatGroup).Prefix)
}

func TestOptOutTogglesAndClearsCooldown(t *testing.T) {
	store := newTestStorage(t)
	ledger := core.NewLedger()
	ledger.RecordUse("u1", "roll", time.Minute)

	cmd := NewOptOut(store, ledger)
	reply := &captureResponder{}

	require.NoError(t, cmd.Run(invocation(reply, "")))
	assert.True(t, store.OptedOut("u1", "roll"))
	// Leaving the game resets the related cooldown.
	assert.Zero(t, ledger.Remaining("u1", "roll"))

	require.NoError(t, cmd.Run(invocation(reply, "")))
	assert.False(t, store.OptedOut("u1", "roll"))
}

func TestProfileShowsTierAndCooldowns(t *testing.T) {
	store := newTestStorage(t)
	ledger := core.NewLedger()
	ledger.RecordUse("u1", "roll", 30*time.Second)

	reply := &captureResponder{}
	require.NoError(t, NewProfile(store, ledger).Run(invocation(reply, "")))

	out := reply.last()
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "user")
	assert.Contains(t, out, "roll")
}

func TestHelpListsOnlyAllowedCommands(t *testing.T) {
	store := newTestStorage(t)
	ledger := core.NewLedger()
	evaluator := &core.Evaluator{Roles: roleStub{core.RoleMember}, Cooldowns: ledger}
	reg := core.NewRegistry()

	help := NewHelp(reg, evaluator)
	reg.Register("en", NewPing(), help, NewRoll(store), NewGrant(store), NewAnnounce())

	reply := &captureResponder{}
	require.NoError(t, help.Run(invocation(reply, "")))

	out := reply.last()
	assert.Contains(t, out, "!ping")
	assert.Contains(t, out, "!help")
	// roll wants arguments but is still the sender's to use.
	assert.Contains(t, out, "!roll")
	// grant needs dev tier, announce needs group admin; both hidden.
	assert.NotContains(t, out, "!grant")
	assert.NotContains(t, out, "!announce")
}

func TestHelpDetail(t *testing.T) {
	store := newTestStorage(t)
	evaluator := &core.Evaluator{Roles: roleStub{core.RoleMember}, Cooldowns: core.NewLedger()}
	reg := core.NewRegistry()

	help := NewHelp(reg, evaluator)
	reg.Register("en", help, NewRoll(store))

	reply := &captureResponder{}
	require.NoError(t, help.Run(invocation(reply, "roll")))
	assert.Contains(t, reply.last(), "roll <formula>")
	assert.Contains(t, reply.last(), "dice")

	require.NoError(t, help.Run(invocation(reply, "nosuch")))
	assert.Equal(t, lang.T("en", "help.not_found", lang.P("trigger", "nosuch")), reply.last())
}

func TestSetNameConfirmation(t *testing.T) {
	store := newTestStorage(t)
	reg := core.NewRegistry()
	pool := core.NewWaitPool(reg)

	run := func(answer string) string {
		reply := &captureResponder{}
		ctx := invocation(reply, "Morgana")
		ctx.Wait = pool

		done := make(chan error, 1)
		go func() { done <- NewSetName(store).Run(ctx) }()

		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) && pool.Armed() == 0 {
			time.Sleep(time.Millisecond)
		}
		require.Equal(t, 1, pool.Armed())

		pool.Offer(&core.Message{ID: "m2", Chat: "g1", Sender: "u1", Text: answer, Timestamp: time.Now()})
		require.NoError(t, <-done)
		return reply.last()
	}

	out := run("yes")
	assert.Contains(t, out, "Morgana")
	assert.Equal(t, "Morgana", store.GetOrCreateUser("u1").Name)

	store.SetUserName("u1", "alice")
	out = run("no thanks")
	assert.Equal(t, lang.T("en", "setname.cancelled", nil), out)
	assert.Equal(t, "alice", store.GetOrCreateUser("u1").Name)
}

type roleStub struct{ role core.GroupRole }

func (r roleStub) GroupRole(context.Context, core.JID, core.JID) (core.GroupRole, error) {
	return r.role, nil
}
