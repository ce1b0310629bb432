package command

import (
	"gatebot/internal/core"
	"gatebot/internal/lang"
	"gatebot/internal/storage"
)

// Prefix changes the command prefix for the current chat. Group admins only.
type Prefix struct {
	Base
	store *storage.Storage
}

func NewPrefix(store *storage.Storage) *Prefix {
	return &Prefix{
		Base: Base{
			CmdName:        "prefix",
			CmdDescription: "Change this chat's command prefix",
			CmdUsage:       "prefix <new-prefix>",
			CmdCategory:    "settings",
			CmdTriggers:    []core.Trigger{"prefix"},
			CmdPolicy: core.BlockPolicy{
				GroupRole:    core.RoleAdmin,
				BlockedChats: []core.ChatKind{core.ChatDM},
				MinArgs:      1,
			},
		},
		store: store,
	}
}

func (c *Prefix) Run(ctx *core.Context) error {
	newPrefix := ctx.Args[0]
	c.store.SetChatPrefix(ctx.Chat.JID, newPrefix)
	return reply(ctx, "prefix.done", lang.P("prefix", newPrefix))
}
