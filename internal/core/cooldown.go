package core

import (
	"sync"
	"time"
)

type cooldownKey struct {
	user    JID
	trigger Trigger
}

// Ledger tracks per-(user, trigger) cooldown expiries in memory. Entries are
// superseded by newer ones and expire lazily; nothing sweeps them on a
// timer. The check-then-record sequence in dispatch holds no await between
// the two calls, and each call locks the ledger, so two near-simultaneous
// invocations cannot both pass the cooldown check.
type Ledger struct {
	mu      sync.Mutex
	entries map[cooldownKey]time.Time
	now     func() time.Time
}

// NewLedger returns an empty cooldown ledger.
func NewLedger() *Ledger {
	return &Ledger{
		entries: make(map[cooldownKey]time.Time),
		now:     time.Now,
	}
}

// RecordUse sets the active cooldown entry for (user, trigger), replacing
// any previous one. A non-positive duration records nothing.
func (l *Ledger) RecordUse(user JID, trigger Trigger, d time.Duration) {
	if d <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[cooldownKey{user, trigger}] = l.now().Add(d)
}

// Remaining returns the time left on the cooldown for (user, trigger), or
// zero when no entry exists or it has expired.
func (l *Ledger) Remaining(user JID, trigger Trigger) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	expires, ok := l.entries[cooldownKey{user, trigger}]
	if !ok {
		return 0
	}
	left := expires.Sub(l.now())
	if left < 0 {
		return 0
	}
	return left
}

// TryUse atomically checks the cooldown for (user, trigger) and, when none
// is active, records a new entry of duration d. It returns the remaining
// time and false when an active cooldown blocked the use. Holding the lock
// across check and record keeps two near-simultaneous invocations from both
// passing.
func (l *Ledger) TryUse(user JID, trigger Trigger, d time.Duration) (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := cooldownKey{user, trigger}
	if expires, ok := l.entries[key]; ok {
		if left := expires.Sub(l.now()); left > 0 {
			return left, false
		}
	}
	if d > 0 {
		l.entries[key] = l.now().Add(d)
	}
	return 0, true
}

// Active returns the user's unexpired cooldowns by trigger.
func (l *Ledger) Active(user JID) map[Trigger]time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	active := make(map[Trigger]time.Duration)
	for key, expires := range l.entries {
		if key.user != user {
			continue
		}
		if left := expires.Sub(l.now()); left > 0 {
			active[key.trigger] = left
		}
	}
	return active
}

// Clear removes the cooldown entry for (user, trigger) immediately. Used
// when a state change should reset a related command's cooldown.
func (l *Ledger) Clear(user JID, trigger Trigger) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, cooldownKey{user, trigger})
}

// ResolveCooldown looks up the cooldown duration for a tier in a policy's
// map, walking downward through tiers until a defined value is found.
// No defined value, or a defined zero, means no cooldown for that tier.
func ResolveCooldown(pol BlockPolicy, tier AccountTier) time.Duration {
	if len(pol.Cooldowns) == 0 {
		return 0
	}
	for t := tier; t >= TierUser; t-- {
		if d, ok := pol.Cooldowns[t]; ok {
			return d
		}
	}
	return 0
}
