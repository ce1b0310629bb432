package storage

import (
	"gatebot/internal/core"
)

// UserRecord is the persisted shape of a user.
type UserRecord struct {
	Name    string          `json:"name,omitempty"`
	Tier    int             `json:"tier"`
	Rolls   int             `json:"rolls,omitempty"`
	OptOuts map[string]bool `json:"opt_outs,omitempty"`
}

// GetOrCreateUser returns the stored user, creating a default record for an
// unknown JID. A failed decode degrades to the default record rather than
// propagating: an unreadable user is an unknown user.
func (s *Storage) GetOrCreateUser(jid core.JID) *core.User {
	rec := s.userRecord(jid)
	return &core.User{
		JID:  jid,
		Name: rec.Name,
		Tier: core.AccountTier(rec.Tier),
	}
}

// SetUserTier stores a user's account tier.
func (s *Storage) SetUserTier(jid core.JID, tier core.AccountTier) {
	s.updateUser(jid, func(rec *UserRecord) {
		rec.Tier = int(tier)
	})
}

// SetUserName stores a user's display name.
func (s *Storage) SetUserName(jid core.JID, name string) {
	s.updateUser(jid, func(rec *UserRecord) {
		rec.Name = name
	})
}

// IncrementRolls bumps the user's lifetime roll counter.
func (s *Storage) IncrementRolls(jid core.JID) {
	s.updateUser(jid, func(rec *UserRecord) {
		rec.Rolls++
	})
}

// Rolls returns the user's lifetime roll count.
func (s *Storage) Rolls(jid core.JID) int {
	return s.userRecord(jid).Rolls
}

// SetOptOut toggles a named opt-out flag for a user.
func (s *Storage) SetOptOut(jid core.JID, key string, on bool) {
	s.updateUser(jid, func(rec *UserRecord) {
		if rec.OptOuts == nil {
			rec.OptOuts = map[string]bool{}
		}
		if on {
			rec.OptOuts[key] = true
		} else {
			delete(rec.OptOuts, key)
		}
	})
}

// OptedOut reports whether a user carries the named opt-out flag.
func (s *Storage) OptedOut(jid core.JID, key string) bool {
	return s.userRecord(jid).OptOuts[key]
}

func (s *Storage) userRecord(jid core.JID) UserRecord {
	var rec UserRecord
	if data, exists := s.ds.Get(userKey(jid)); exists {
		_ = decode(data, &rec)
	}
	return rec
}

func (s *Storage) updateUser(jid core.JID, fn func(*UserRecord)) {
	s.ds.Update(userKey(jid), func(current any, exists bool) any {
		var rec UserRecord
		if exists {
			_ = decode(current, &rec)
		}
		fn(&rec)
		return rec
	})
}
