// Package core implements the transport-agnostic command pipeline: trigger
// matching, block evaluation, cooldown bookkeeping, dispatch, and the
// wait-for-reply primitive. It knows nothing about Discord or storage
// formats; adapters feed it normalized messages and collaborator interfaces.
package core

import (
	"context"
	"time"
)

// JID is the canonical string identifier for a user or a chat.
type JID string

// ChatKind distinguishes group chats from direct messages.
type ChatKind int

const (
	ChatGroup ChatKind = iota
	ChatDM
)

func (k ChatKind) String() string {
	if k == ChatDM {
		return "dm"
	}
	return "group"
}

// AccountTier is the global ordinal privilege rank of a user, independent of
// any chat. Higher values rank higher.
type AccountTier int

const (
	TierUser AccountTier = iota
	TierDonor
	TierAdmin
	TierDev
)

// GroupTierBlocked is the sentinel "blocked" group tier: a command carrying
// it can never be unlocked through a chat's granted tier.
const GroupTierBlocked AccountTier = -1

func (t AccountTier) String() string {
	switch t {
	case TierUser:
		return "user"
	case TierDonor:
		return "donor"
	case TierAdmin:
		return "admin"
	case TierDev:
		return "dev"
	case GroupTierBlocked:
		return "blocked"
	}
	return "unknown"
}

// GroupRole is the per-chat ordinal rank of a member. RoleMember is the
// zero value and means "no role requirement" when used in a policy.
type GroupRole int

const (
	RoleMember GroupRole = iota
	RoleAdmin
	RoleOwner
)

func (r GroupRole) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleOwner:
		return "owner"
	}
	return "member"
}

// Message is a normalized inbound message handed over by the transport.
type Message struct {
	ID        string
	Chat      JID
	Sender    JID
	Text      string
	Timestamp time.Time
	ReplyTo   string
	FromMe    bool
}

// User is the stored identity of a sender.
type User struct {
	JID  JID
	Name string
	Tier AccountTier
}

// Chat is the stored state of a conversation.
type Chat struct {
	JID         JID
	Kind        ChatKind
	Prefix      string
	Language    string
	GrantedTier AccountTier // tier attached to the chat by a sponsor; TierUser = none
}

// Responder sends outbound text. Sends are fire-and-forget from the core's
// perspective; delivery failures are logged by the transport.
type Responder interface {
	SendText(ctx context.Context, chat JID, text string) error
}

// RoleResolver resolves a member's role within a group chat. Implementations
// may hit the network; failures must be treated by callers as
// insufficient privilege, never as permission.
type RoleResolver interface {
	GroupRole(ctx context.Context, chat JID, user JID) (GroupRole, error)
}
