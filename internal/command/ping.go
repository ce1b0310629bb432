package command

import (
	"time"

	"gatebot/internal/core"
	"gatebot/internal/lang"
)

// Ping answers with the gateway-to-dispatch latency.
type Ping struct {
	Base
}

func NewPing() *Ping {
	return &Ping{Base: Base{
		CmdName:        "ping",
		CmdDescription: "Check that the bot is alive",
		CmdUsage:       "ping",
		CmdCategory:    "core",
		CmdTriggers:    []core.Trigger{"ping"},
	}}
}

func (c *Ping) Run(ctx *core.Context) error {
	latency := time.Since(ctx.Message.Timestamp).Round(time.Millisecond)
	if latency < 0 {
		latency = 0
	}
	return reply(ctx, "ping.pong", lang.P("latency", latency.String()))
}
