package command

import (
	"strings"
	"time"

	"gatebot/internal/core"
	"gatebot/internal/lang"
	"gatebot/internal/storage"
)

const setNameTimeout = 30 * time.Second

// SetName changes the sender's display name after a yes/no confirmation
// collected through a wait session.
type SetName struct {
	Base
	store *storage.Storage
}

func NewSetName(store *storage.Storage) *SetName {
	return &SetName{
		Base: Base{
			CmdName:        "setname",
			CmdDescription: "Change your display name",
			CmdUsage:       "setname <name>",
			CmdCategory:    "profile",
			CmdTriggers:    []core.Trigger{"setname"},
			CmdPolicy:      core.BlockPolicy{MinArgs: 1},
		},
		store: store,
	}
}

func (c *SetName) Run(ctx *core.Context) error {
	name := strings.TrimSpace(ctx.Body)

	if err := reply(ctx, "setname.prompt", lang.P("name", name)); err != nil {
		return err
	}

	req := core.WaitRequest{
		Chat:    ctx.Chat,
		Sender:  ctx.Sender.JID,
		Timeout: setNameTimeout,
		OnFail: func(*core.Message) {
			_ = reply(ctx, "wait.confirm", lang.P("options", "yes / no"))
		},
		OnTimeout: func() {
			_ = ctx.Reply.SendText(ctx.Ctx, ctx.Chat.JID, ctx.Render.RenderTimeout(ctx.Chat))
		},
	}

	answer, state := ctx.Wait.ValidatedWaitFor(ctx.Ctx, req, "yes", "no")
	if state != core.WaitSatisfied {
		return nil
	}

	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer.Text)), "no") {
		return reply(ctx, "setname.cancelled", nil)
	}

	c.store.SetUserName(ctx.Sender.JID, name)
	return reply(ctx, "setname.done", lang.P("name", name))
}
