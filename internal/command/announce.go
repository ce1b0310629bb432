package command

import (
	"strings"

	"gatebot/internal/core"
)

// Announce reposts the given text as a bot announcement. Group admins only,
// and never in a DM.
type Announce struct {
	Base
}

func NewAnnounce() *Announce {
	return &Announce{Base: Base{
		CmdName:        "announce",
		CmdDescription: "Post an announcement in this chat",
		CmdUsage:       "announce <text>",
		CmdCategory:    "admin",
		CmdTriggers:    []core.Trigger{"announce"},
		CmdPolicy: core.BlockPolicy{
			GroupRole:    core.RoleAdmin,
			BlockedChats: []core.ChatKind{core.ChatDM},
			MinArgs:      1,
		},
	}}
}

func (c *Announce) Run(ctx *core.Context) error {
	return ctx.Reply.SendText(ctx.Ctx, ctx.Chat.JID, "📢 "+strings.TrimSpace(ctx.Body))
}
