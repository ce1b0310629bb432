package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// BlockedReason is the closed set of outcomes for a denied invocation.
// Exactly one value (or none, meaning allowed) results from an evaluation.
type BlockedReason int

const (
	BlockedChat BlockedReason = iota + 1
	BadAccountType
	BadGroupAccountType
	Blacklisted
	NotWhitelisted
	MissingArguments
	InsufficientGroupLevel
	InvalidUser
	InsufficientArgs
	Cooldown
)

func (r BlockedReason) String() string {
	switch r {
	case BlockedChat:
		return "blocked_chat"
	case BadAccountType:
		return "bad_account_type"
	case BadGroupAccountType:
		return "bad_group_account_type"
	case Blacklisted:
		return "blacklisted"
	case NotWhitelisted:
		return "not_whitelisted"
	case MissingArguments:
		return "missing_arguments"
	case InsufficientGroupLevel:
		return "insufficient_group_level"
	case InvalidUser:
		return "invalid_user"
	case InsufficientArgs:
		return "insufficient_args"
	case Cooldown:
		return "cooldown"
	}
	return "unknown"
}

// ErrNotBlockable signals that a value offered for evaluation is not a
// recognized blockable type. This is a registry corruption bug, not user
// input, so it surfaces as an error instead of a reason.
var ErrNotBlockable = errors.New("value is not a recognized blockable")

// AsCommand narrows a Blockable to a Command. Unknown variants yield
// ErrNotBlockable; callers must surface it, never swallow it.
func AsCommand(b Blockable) (Command, error) {
	if cmd, ok := b.(Command); ok {
		return cmd, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrNotBlockable, b)
}

// Evaluator decides whether a matched command may run. Checks are ordered
// cheapest first: identity and membership before the role resolution that
// may need a network round-trip, the cooldown lookup last.
type Evaluator struct {
	Roles     RoleResolver
	Cooldowns *Ledger
}

// EvalOptions control optional stages of an evaluation.
type EvalOptions struct {
	// CheckCooldown enables the final cooldown stage. Help and preview
	// flows evaluate with it off.
	CheckCooldown bool
}

// Evaluate returns the blocking reason for running b as sender in chat with
// the given body text, or ok=true when the invocation is allowed.
func (e *Evaluator) Evaluate(ctx context.Context, b Blockable, sender *User, chat *Chat, body string, opts EvalOptions) (BlockedReason, bool) {
	if sender == nil || sender.JID == "" {
		return InvalidUser, false
	}

	pol := b.Policy()

	// 1. Chat kind.
	if slices.Contains(pol.BlockedChats, chat.Kind) {
		return BlockedChat, false
	}

	// 2. Blacklist: the sender, or the group chat itself.
	if len(pol.Blacklist) > 0 {
		if slices.Contains(pol.Blacklist, sender.JID) {
			return Blacklisted, false
		}
		if chat.Kind == ChatGroup && slices.Contains(pol.Blacklist, chat.JID) {
			return Blacklisted, false
		}
	}

	// 3. Whitelist.
	if len(pol.Whitelist) > 0 && !slices.Contains(pol.Whitelist, sender.JID) {
		return NotWhitelisted, false
	}

	// 4. Group role gate. Resolution failure defaults to insufficient
	// privilege: an unreachable directory must never grant access.
	if chat.Kind == ChatGroup && pol.GroupRole > RoleMember {
		role, err := e.Roles.GroupRole(ctx, chat.JID, sender.JID)
		if err != nil || role < pol.GroupRole {
			return InsufficientGroupLevel, false
		}
	}

	// 5. Account tier, with the group-granted override: a sender below the
	// individual requirement still passes when the chat carries a granted
	// tier meeting the command's group tier requirement, unless the command
	// blocks the group path outright.
	if sender.Tier < pol.AccountTier {
		switch {
		case pol.GroupAccountTier == GroupTierBlocked:
			return BadAccountType, false
		case chat.GrantedTier > TierUser:
			if chat.GrantedTier < pol.GroupAccountTier {
				return BadGroupAccountType, false
			}
		default:
			return BadAccountType, false
		}
	}

	// 6. Argument count.
	if pol.MinArgs > 0 && len(strings.Fields(body)) < pol.MinArgs {
		return InsufficientArgs, false
	}

	// 7. Cooldown, on request only. Cooldowns key on a command's main
	// trigger, so a blockable that is not a command is a corruption bug.
	if opts.CheckCooldown && e.Cooldowns != nil {
		cmd, err := AsCommand(b)
		if err != nil {
			slog.Error("cooldown check skipped", "error", err)
		} else if e.Cooldowns.Remaining(sender.JID, MainTrigger(cmd)) > 0 {
			return Cooldown, false
		}
	}

	return 0, true
}
