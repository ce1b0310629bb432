package command

import (
	"fmt"
	"sort"
	"strings"

	"gatebot/internal/core"
	"gatebot/internal/lang"
)

// Help lists the commands the sender is currently allowed to use, or shows
// one command's details when given a trigger. Listing evaluates each command
// without the cooldown stage: a command on cooldown is still yours.
type Help struct {
	Base
	registry  *core.Registry
	evaluator *core.Evaluator
}

func NewHelp(registry *core.Registry, evaluator *core.Evaluator) *Help {
	return &Help{
		Base: Base{
			CmdName:        "help",
			CmdDescription: "List available commands",
			CmdUsage:       "help [command]",
			CmdCategory:    "core",
			CmdTriggers:    []core.Trigger{"help", "commands"},
		},
		registry:  registry,
		evaluator: evaluator,
	}
}

func (c *Help) Run(ctx *core.Context) error {
	if ctx.Body != "" {
		return c.runDetail(ctx)
	}

	byCategory := make(map[string][]core.Command)
	for _, cmd := range c.registry.Commands(ctx.Chat.Language) {
		// Listing evaluates with an empty body, so a missing-arguments
		// outcome means the command is available, just not invoked yet.
		reason, ok := c.evaluator.Evaluate(ctx.Ctx, cmd, ctx.Sender, ctx.Chat, "", core.EvalOptions{})
		if !ok && reason != core.InsufficientArgs {
			continue
		}
		byCategory[cmd.Category()] = append(byCategory[cmd.Category()], cmd)
	}

	categories := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	var b strings.Builder
	b.WriteString(lang.T(ctx.Chat.Language, "help.header", lang.P("prefix", ctx.Chat.Prefix)))
	for _, cat := range categories {
		b.WriteString("\n\n" + cat + ":")
		for _, cmd := range byCategory[cat] {
			b.WriteString(fmt.Sprintf("\n  %s%s — %s", ctx.Chat.Prefix, core.MainTrigger(cmd), cmd.Description()))
		}
	}
	return ctx.Reply.SendText(ctx.Ctx, ctx.Chat.JID, b.String())
}

// runDetail resolves the argument as if it were a prefixed invocation and
// prints that command's usage.
func (c *Help) runDetail(ctx *core.Context) error {
	target := strings.Fields(ctx.Body)[0]
	cmd, trigger, found := c.registry.FindByTrigger(ctx.Chat.Language, ctx.Chat.Prefix+target, ctx.Chat.Prefix)
	if !found {
		return reply(ctx, "help.not_found", lang.P("trigger", target))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s%s — %s", ctx.Chat.Prefix, trigger, cmd.Description())
	if cmd.Usage() != "" {
		fmt.Fprintf(&b, "\n%s%s", ctx.Chat.Prefix, cmd.Usage())
	}
	if len(cmd.Triggers()) > 1 {
		alts := make([]string, 0, len(cmd.Triggers())-1)
		for _, t := range cmd.Triggers()[1:] {
			alts = append(alts, string(t))
		}
		fmt.Fprintf(&b, "\naliases: %s", strings.Join(alts, ", "))
	}
	return ctx.Reply.SendText(ctx.Ctx, ctx.Chat.JID, b.String())
}
