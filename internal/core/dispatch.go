package core

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Dispatcher orchestrates match, block evaluation, cooldown update, and
// execution for a single inbound message. All collaborators are injected at
// startup; the dispatcher itself holds no mutable state.
type Dispatcher struct {
	Registry  *Registry
	Evaluator *Evaluator
	Cooldowns *Ledger
	Waiters   *WaitPool
	Stats     Recorder
	Reply     Responder
	Render    ReasonRenderer
}

// Handle processes one inbound message. It never panics and never returns
// an error: execution failures are logged here, blocked invocations are
// reported through OnBlocked or the cooldown notice.
func (d *Dispatcher) Handle(ctx context.Context, msg *Message, sender *User, chat *Chat) {
	if msg.FromMe {
		return // no self-triggering
	}

	if d.Stats != nil {
		d.Stats.MessageSeen()
	}

	// Armed wait sessions see the message first; a consumed message never
	// re-enters dispatch.
	if d.Waiters != nil && d.Waiters.Offer(msg) {
		return
	}

	matches := MatchCommands(msg.Text, chat.Prefix, d.Registry.Commands(chat.Language))
	for _, m := range matches {
		body := CommandBody(msg.Text, chat.Prefix, m.Trigger)
		cctx := &Context{
			Ctx:     ctx,
			Message: msg,
			Sender:  sender,
			Chat:    chat,
			Trigger: m.Trigger,
			Body:    body,
			Args:    strings.Fields(body),
			Reply:   d.Reply,
			Wait:    d.Waiters,
			Render:  d.Render,
		}

		reason, ok := d.Evaluator.Evaluate(ctx, m.Command, sender, chat, body, EvalOptions{})
		if !ok {
			d.blocked(m.Command, cctx, reason)
			return // a blocked top candidate ends handling for this message
		}

		// Cooldown is checked last, atomically with recording the use.
		dur := ResolveCooldown(m.Command.Policy(), sender.Tier)
		remaining, ok := d.Cooldowns.TryUse(sender.JID, MainTrigger(m.Command), dur)
		if !ok {
			if d.Stats != nil {
				d.Stats.CommandBlocked(m.Command.Name(), Cooldown)
			}
			if d.Reply != nil && d.Render != nil {
				notice := d.Render.RenderCooldown(chat, m.Command, remaining)
				if err := d.Reply.SendText(ctx, chat.JID, notice); err != nil {
					slog.Warn("cooldown notice failed", "chat", chat.JID, "error", err)
				}
			}
			continue // still blocked; lower-ranked candidates stay eligible
		}

		start := time.Now()
		err := m.Command.Run(cctx)
		if d.Stats != nil {
			d.Stats.CommandRan(m.Command.Name(), time.Since(start))
		}
		if err != nil {
			slog.Error("command failed",
				"command", m.Command.Name(),
				"chat", chat.JID,
				"sender", sender.JID,
				"error", err)
		}
		return
	}
}

func (d *Dispatcher) blocked(cmd Command, cctx *Context, reason BlockedReason) {
	if d.Stats != nil {
		d.Stats.CommandBlocked(cmd.Name(), reason)
	}
	cmd.OnBlocked(cctx, reason)
}
