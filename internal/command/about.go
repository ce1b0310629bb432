package command

import (
	"fmt"

	"gatebot/internal/core"
	"gatebot/internal/version"
)

// About prints the build identity.
type About struct {
	Base
}

func NewAbout() *About {
	return &About{Base: Base{
		CmdName:        "about",
		CmdDescription: "Show bot version and build info",
		CmdUsage:       "about",
		CmdCategory:    "core",
		CmdTriggers:    []core.Trigger{"about", "version"},
	}}
}

func (c *About) Run(ctx *core.Context) error {
	text := fmt.Sprintf("%s\nbuilt %s with %s", version.AppName, version.BuildDate, version.GoVersion)
	return ctx.Reply.SendText(ctx.Ctx, ctx.Chat.JID, text)
}
