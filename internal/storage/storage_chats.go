package storage

import (
	"gatebot/internal/core"
)

// ChatRecord is the persisted shape of a chat.
type ChatRecord struct {
	Kind        string                 `json:"kind"`
	Prefix      string                 `json:"prefix,omitempty"`
	Language    string                 `json:"language,omitempty"`
	GrantedTier int                    `json:"granted_tier,omitempty"`
	History     []CommandHistoryRecord `json:"cmd_history,omitempty"`
}

// GetOrCreateChat returns the stored chat, seeding defaults for an unknown
// JID. Kind is taken from the transport on every call since a JID never
// changes kind.
func (s *Storage) GetOrCreateChat(jid core.JID, kind core.ChatKind) *core.Chat {
	var rec ChatRecord
	if data, exists := s.ds.Get(chatKey(jid)); exists {
		_ = decode(data, &rec)
	}

	chat := &core.Chat{
		JID:         jid,
		Kind:        kind,
		Prefix:      rec.Prefix,
		Language:    rec.Language,
		GrantedTier: core.AccountTier(rec.GrantedTier),
	}
	if chat.Prefix == "" {
		chat.Prefix = s.defaults.Prefix
	}
	if chat.Language == "" {
		chat.Language = s.defaults.Language
	}
	return chat
}

// SetChatPrefix stores a per-chat command prefix.
func (s *Storage) SetChatPrefix(jid core.JID, prefix string) {
	s.updateChat(jid, func(rec *ChatRecord) {
		rec.Prefix = prefix
	})
}

// SetChatLanguage stores a per-chat language code.
func (s *Storage) SetChatLanguage(jid core.JID, language string) {
	s.updateChat(jid, func(rec *ChatRecord) {
		rec.Language = language
	})
}

// SetChatGrantedTier stores the sponsor-granted tier attached to a chat.
func (s *Storage) SetChatGrantedTier(jid core.JID, tier core.AccountTier) {
	s.updateChat(jid, func(rec *ChatRecord) {
		rec.GrantedTier = int(tier)
	})
}

func (s *Storage) updateChat(jid core.JID, fn func(*ChatRecord)) {
	s.ds.Update(chatKey(jid), func(current any, exists bool) any {
		var rec ChatRecord
		if exists {
			_ = decode(current, &rec)
		}
		fn(&rec)
		return rec
	})
}
