package core

import "time"

// Recorder receives dispatch statistics. Implementations must be safe for
// concurrent use and must not block dispatch.
type Recorder interface {
	MessageSeen()
	CommandRan(name string, elapsed time.Duration)
	CommandBlocked(name string, reason BlockedReason)
}

// NopRecorder discards all statistics.
type NopRecorder struct{}

func (NopRecorder) MessageSeen()                         {}
func (NopRecorder) CommandRan(string, time.Duration)     {}
func (NopRecorder) CommandBlocked(string, BlockedReason) {}
