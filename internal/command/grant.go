package command

import (
	"gatebot/internal/core"
	"gatebot/internal/lang"
	"gatebot/internal/storage"
)

// Grant sets a user's account tier. Developer only; the group-granted
// override is disabled so no chat plan can unlock it.
type Grant struct {
	Base
	store *storage.Storage
}

func NewGrant(store *storage.Storage) *Grant {
	return &Grant{
		Base: Base{
			CmdName:        "grant",
			CmdDescription: "Set a user's account tier",
			CmdUsage:       "grant <user-id> <user|donor|admin|dev>",
			CmdCategory:    "admin",
			CmdTriggers:    []core.Trigger{"grant"},
			CmdPolicy: core.BlockPolicy{
				AccountTier:      core.TierDev,
				GroupAccountTier: core.GroupTierBlocked,
				MinArgs:          2,
			},
		},
		store: store,
	}
}

func (c *Grant) Run(ctx *core.Context) error {
	target := core.JID(ctx.Args[0])
	tier, ok := parseTier(ctx.Args[1])
	if !ok {
		return reply(ctx, "grant.unknown_tier", lang.P("tier", ctx.Args[1]))
	}

	c.store.SetUserTier(target, tier)
	return reply(ctx, "grant.done", lang.P(
		"user", string(target),
		"tier", tier.String(),
	))
}

func parseTier(s string) (core.AccountTier, bool) {
	switch s {
	case "user":
		return core.TierUser, true
	case "donor":
		return core.TierDonor, true
	case "admin":
		return core.TierAdmin, true
	case "dev":
		return core.TierDev, true
	}
	return core.TierUser, false
}
