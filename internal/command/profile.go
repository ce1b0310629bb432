package command

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"gatebot/internal/core"
	"gatebot/internal/lang"
	"gatebot/internal/storage"
)

// Profile shows the sender's stored identity, roll count, and any cooldowns
// still ticking for them.
type Profile struct {
	Base
	store  *storage.Storage
	ledger *core.Ledger
}

func NewProfile(store *storage.Storage, ledger *core.Ledger) *Profile {
	return &Profile{
		Base: Base{
			CmdName:        "profile",
			CmdDescription: "Show your profile and active cooldowns",
			CmdUsage:       "profile",
			CmdCategory:    "profile",
			CmdTriggers:    []core.Trigger{"profile", "me"},
		},
		store:  store,
		ledger: ledger,
	}
}

func (c *Profile) Run(ctx *core.Context) error {
	name := ctx.Sender.Name
	if name == "" {
		name = string(ctx.Sender.JID)
	}

	var b strings.Builder
	b.WriteString(lang.T(ctx.Chat.Language, "profile.summary", lang.P(
		"name", name,
		"tier", ctx.Sender.Tier.String(),
	)))

	if rolls := c.store.Rolls(ctx.Sender.JID); rolls > 0 {
		b.WriteString("\n" + lang.T(ctx.Chat.Language, "profile.rolls", lang.P(
			"count", strconv.Itoa(rolls),
		)))
	}

	active := c.ledger.Active(ctx.Sender.JID)
	if len(active) == 0 {
		b.WriteString("\n" + lang.T(ctx.Chat.Language, "profile.no_cooldowns", nil))
		return ctx.Reply.SendText(ctx.Ctx, ctx.Chat.JID, b.String())
	}

	triggers := make([]string, 0, len(active))
	for t := range active {
		triggers = append(triggers, string(t))
	}
	sort.Strings(triggers)
	for _, t := range triggers {
		seconds := int(active[core.Trigger(t)].Round(time.Second) / time.Second)
		if seconds < 1 {
			seconds = 1
		}
		b.WriteString("\n" + lang.T(ctx.Chat.Language, "profile.cooldown_line", lang.P(
			"command", t,
			"seconds", strconv.Itoa(seconds),
		)))
	}
	return ctx.Reply.SendText(ctx.Ctx, ctx.Chat.JID, b.String())
}
