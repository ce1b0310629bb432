// Package storage persists user and chat records on top of the datastore.
// Each record is one key ("user:<jid>", "chat:<jid>"); every mutation is a
// single atomic read-modify-write, no cross-record transactions.
package storage

import (
	"encoding/json"
	"fmt"

	"gatebot/datastore"
	"gatebot/internal/core"
)

// Storage wraps the datastore with typed accessors.
type Storage struct {
	ds       *datastore.DataStore
	defaults Defaults
}

// Defaults seed newly created chat records.
type Defaults struct {
	Prefix   string
	Language string
}

// New opens (or creates) the backing file.
func New(filePath string, defaults Defaults) (*Storage, error) {
	ds, err := datastore.New(filePath)
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds, defaults: defaults}, nil
}

// Close flushes and closes the backing store.
func (s *Storage) Close() error {
	return s.ds.Close()
}

func userKey(jid core.JID) string { return "user:" + string(jid) }
func chatKey(jid core.JID) string { return "chat:" + string(jid) }

// decode converts a datastore value (decoded JSON, map[string]any) into a
// typed record via a JSON round-trip.
func decode(data any, out any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("unmarshal record: %w", err)
	}
	return nil
}
