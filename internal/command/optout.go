package command

import (
	"gatebot/internal/core"
	"gatebot/internal/storage"
)

// OptOut toggles the sender's participation in roll counting. Opting out
// also clears any cooldown left on the roll trigger: a user leaving the
// game should not keep serving its waiting period.
type OptOut struct {
	Base
	store  *storage.Storage
	ledger *core.Ledger
}

func NewOptOut(store *storage.Storage, ledger *core.Ledger) *OptOut {
	return &OptOut{
		Base: Base{
			CmdName:        "optout",
			CmdDescription: "Toggle roll counting for your account",
			CmdUsage:       "optout",
			CmdCategory:    "settings",
			CmdTriggers:    []core.Trigger{"optout"},
		},
		store:  store,
		ledger: ledger,
	}
}

func (c *OptOut) Run(ctx *core.Context) error {
	if c.store.OptedOut(ctx.Sender.JID, "roll") {
		c.store.SetOptOut(ctx.Sender.JID, "roll", false)
		return reply(ctx, "optout.off", nil)
	}

	c.store.SetOptOut(ctx.Sender.JID, "roll", true)
	c.ledger.Clear(ctx.Sender.JID, "roll")
	return reply(ctx, "optout.on", nil)
}
