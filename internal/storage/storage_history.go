package storage

import (
	"time"

	"gatebot/internal/core"
)

const commandHistoryLimit = 20

// CommandHistoryRecord is one executed command in a chat's bounded history.
type CommandHistoryRecord struct {
	UserID   string    `json:"user_id"`
	Username string    `json:"username,omitempty"`
	Command  string    `json:"command"`
	Param    string    `json:"param,omitempty"`
	Datetime time.Time `json:"datetime"`
}

// LogCommand appends an executed command to the chat's history, trimming it
// to the most recent entries. Implements core.CommandLogSink.
func (s *Storage) LogCommand(chat core.JID, user core.JID, username, command, param string) error {
	s.updateChat(chat, func(rec *ChatRecord) {
		rec.History = append(rec.History, CommandHistoryRecord{
			UserID:   string(user),
			Username: username,
			Command:  command,
			Param:    param,
			Datetime: time.Now(),
		})
		if len(rec.History) > commandHistoryLimit {
			rec.History = rec.History[len(rec.History)-commandHistoryLimit:]
		}
	})
	return nil
}

// CommandHistory returns the chat's recorded command history.
func (s *Storage) CommandHistory(chat core.JID) []CommandHistoryRecord {
	var rec ChatRecord
	if data, exists := s.ds.Get(chatKey(chat)); exists {
		_ = decode(data, &rec)
	}
	return rec.History
}
