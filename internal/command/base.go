// Package command holds the bot's command set: one file per command, all
// built on a shared Base that carries metadata and the gating policy. The
// commands know nothing about Discord; they talk through the invocation
// Context and the language tables.
package command

import (
	"log/slog"

	"gatebot/internal/core"
	"gatebot/internal/lang"
)

// Base carries the descriptive metadata and block policy shared by every
// command, and provides the default blocked-notice behavior. Concrete
// commands embed it and implement Run.
type Base struct {
	CmdName        string
	CmdDescription string
	CmdUsage       string
	CmdCategory    string
	CmdTriggers    []core.Trigger
	CmdPolicy      core.BlockPolicy
}

func (b *Base) Name() string             { return b.CmdName }
func (b *Base) Description() string      { return b.CmdDescription }
func (b *Base) Usage() string            { return b.CmdUsage }
func (b *Base) Category() string         { return b.CmdCategory }
func (b *Base) Triggers() []core.Trigger { return b.CmdTriggers }
func (b *Base) Policy() core.BlockPolicy { return b.CmdPolicy }

// OnBlocked sends the rendered blocked notice to the chat.
func (b *Base) OnBlocked(ctx *core.Context, reason core.BlockedReason) {
	if ctx.Reply == nil {
		return
	}
	text := lang.T(ctx.Chat.Language, "blocked."+reason.String(), lang.P(
		"command", b.CmdName,
		"usage", b.CmdUsage,
		"tier", b.CmdPolicy.AccountTier.String(),
		"role", b.CmdPolicy.GroupRole.String(),
	))
	if err := ctx.Reply.SendText(ctx.Ctx, ctx.Chat.JID, text); err != nil {
		slog.Warn("blocked notice failed", "command", b.CmdName, "chat", ctx.Chat.JID, "error", err)
	}
}

// reply renders a language key and sends it to the invocation's chat.
func reply(ctx *core.Context, key string, ph lang.Placeholders) error {
	return ctx.Reply.SendText(ctx.Ctx, ctx.Chat.JID, lang.T(ctx.Chat.Language, key, ph))
}
