package command

import (
	"context"
	"strconv"

	"gatebot/internal/core"
	"gatebot/internal/lang"
	"gatebot/internal/stats"
)

// TotalsReader supplies lifetime dispatch totals for the stats command.
type TotalsReader interface {
	ReadTotals(ctx context.Context) (stats.Totals, error)
}

// Stats reports lifetime message and command totals. Admin accounts only.
type Stats struct {
	Base
	totals TotalsReader
}

func NewStats(totals TotalsReader) *Stats {
	return &Stats{
		Base: Base{
			CmdName:        "stats",
			CmdDescription: "Show lifetime dispatch totals",
			CmdUsage:       "stats",
			CmdCategory:    "admin",
			CmdTriggers:    []core.Trigger{"stats"},
			CmdPolicy: core.BlockPolicy{
				AccountTier:      core.TierAdmin,
				GroupAccountTier: core.GroupTierBlocked,
			},
		},
		totals: totals,
	}
}

func (c *Stats) Run(ctx *core.Context) error {
	t, err := c.totals.ReadTotals(ctx.Ctx)
	if err != nil {
		return err
	}
	return reply(ctx, "stats.summary", lang.P(
		"messages", strconv.FormatInt(t.Messages, 10),
		"commands", strconv.FormatInt(t.Runs, 10),
		"blocked", strconv.FormatInt(t.Blocked, 10),
	))
}
