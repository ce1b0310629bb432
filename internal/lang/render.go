package lang

import (
	"fmt"
	"time"

	"gatebot/internal/core"
)

// Renderer implements core.ReasonRenderer over the string tables.
type Renderer struct{}

func (Renderer) RenderBlocked(chat *core.Chat, cmd core.Command, reason core.BlockedReason) string {
	return T(chat.Language, "blocked."+reason.String(), P(
		"command", cmd.Name(),
		"usage", cmd.Usage(),
		"tier", cmd.Policy().AccountTier.String(),
		"role", cmd.Policy().GroupRole.String(),
	))
}

func (Renderer) RenderCooldown(chat *core.Chat, cmd core.Command, remaining time.Duration) string {
	seconds := int(remaining.Round(time.Second) / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	return T(chat.Language, "cooldown.wait", P(
		"command", cmd.Name(),
		"seconds", fmt.Sprintf("%d", seconds),
	))
}

func (Renderer) RenderTimeout(chat *core.Chat) string {
	return T(chat.Language, "wait.timeout", nil)
}
