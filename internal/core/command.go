package core

import (
	"context"
	"time"
)

// BlockPolicy declares every constraint the Block Evaluator checks for a
// blockable. The zero value is a fully open policy.
type BlockPolicy struct {
	// AccountTier is the minimum global tier of the sender.
	AccountTier AccountTier
	// GroupAccountTier is the minimum tier a chat's granted tier must meet
	// for the group-level override to apply. GroupTierBlocked disables the
	// override entirely.
	GroupAccountTier AccountTier
	// GroupRole is the minimum per-chat role; RoleMember means no gate.
	GroupRole GroupRole
	// BlockedChats lists chat kinds the command refuses to run in.
	BlockedChats []ChatKind
	// Blacklist denies the listed sender or chat JIDs.
	Blacklist []JID
	// Whitelist, when non-empty, allows only the listed sender JIDs.
	Whitelist []JID
	// MinArgs is the minimum number of whitespace tokens in the body.
	MinArgs int
	// Cooldowns maps account tiers to the enforced delay between runs.
	// A missing tier falls back to the next defined tier below it.
	Cooldowns map[AccountTier]time.Duration
}

// Blockable is anything the Block Evaluator can judge. In this bot that is
// exclusively commands, but the evaluator depends only on this capability
// set, not on the Command interface.
type Blockable interface {
	Triggers() []Trigger
	Policy() BlockPolicy
	OnBlocked(ctx *Context, reason BlockedReason)
}

// Command is a named unit of behavior selected by one of its triggers.
// The first trigger is the main one and keys cooldown entries.
type Command interface {
	Blockable
	Name() string
	Description() string
	Usage() string
	Category() string
	Run(ctx *Context) error
}

// MainTrigger returns the command's first trigger, or "" for a command
// with no triggers (which can never match).
func MainTrigger(cmd Command) Trigger {
	trigs := cmd.Triggers()
	if len(trigs) == 0 {
		return ""
	}
	return trigs[0]
}

// Context carries everything a command run (or its OnBlocked callback)
// needs about the invocation.
type Context struct {
	Ctx     context.Context
	Message *Message
	Sender  *User
	Chat    *Chat
	Trigger Trigger
	Body    string   // text after prefix and trigger
	Args    []string // Body split on whitespace

	Reply  Responder
	Wait   *WaitPool
	Render ReasonRenderer
}

// ReasonRenderer turns structured outcomes into user-facing text. The core
// algorithms never hardcode strings; rendering belongs to the caller's
// language layer.
type ReasonRenderer interface {
	RenderBlocked(chat *Chat, cmd Command, reason BlockedReason) string
	RenderCooldown(chat *Chat, cmd Command, remaining time.Duration) string
	RenderTimeout(chat *Chat) string
}
