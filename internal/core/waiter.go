package core

import (
	"context"
	"strings"
	"sync"
	"time"
)

// WaitState is the terminal state of a wait session.
type WaitState int

const (
	// WaitSatisfied means a matching reply arrived.
	WaitSatisfied WaitState = iota
	// WaitTimedOut means the deadline elapsed first.
	WaitTimedOut
	// WaitCancelled means the wait was abandoned: the user issued a new
	// command, or the caller's context ended.
	WaitCancelled
)

// WaitRequest describes one wait-for-reply registration.
type WaitRequest struct {
	// Chat and Sender bind the session: only messages from this sender in
	// this chat are considered.
	Chat   *Chat
	Sender JID
	// Timeout bounds the wait; zero means no deadline.
	Timeout time.Duration
	// Validate, when set, must accept the reply. A rejected reply runs
	// OnFail and leaves the session armed.
	Validate func(*Message) bool
	// OnFail runs on each rejected reply (e.g. to re-prompt).
	OnFail func(*Message)
	// OnTimeout runs when the deadline elapses.
	OnTimeout func()
}

type waitResult struct {
	msg   *Message
	state WaitState
}

type waitSession struct {
	req      WaitRequest
	done     chan waitResult
	resolved bool // guarded by pool mutex; first transition wins
}

// WaitPool is the registry of armed wait sessions. Every inbound message is
// offered to the pool before normal dispatch; a consumed message never
// re-enters dispatch, and vice versa.
type WaitPool struct {
	mu       sync.Mutex
	sessions []*waitSession
	registry *Registry
}

// NewWaitPool returns a pool that detects command interruptions against the
// given registry.
func NewWaitPool(registry *Registry) *WaitPool {
	return &WaitPool{registry: registry}
}

// WaitFor arms a session and blocks until it resolves. It returns the
// satisfying reply, or nil with the terminal state for timeouts and
// cancellations — "no answer" is an ordinary outcome, not an error.
func (p *WaitPool) WaitFor(ctx context.Context, req WaitRequest) (*Message, WaitState) {
	s := &waitSession{req: req, done: make(chan waitResult, 1)}

	p.mu.Lock()
	p.sessions = append(p.sessions, s)
	p.mu.Unlock()

	var timer *time.Timer
	if req.Timeout > 0 {
		timer = time.AfterFunc(req.Timeout, func() {
			p.resolve(s, nil, WaitTimedOut)
		})
		defer timer.Stop()
	}

	select {
	case res := <-s.done:
		if res.state == WaitTimedOut && req.OnTimeout != nil {
			req.OnTimeout()
		}
		return res.msg, res.state
	case <-ctx.Done():
		p.resolve(s, nil, WaitCancelled)
		res := <-s.done
		return res.msg, res.state
	}
}

// ValidatedWaitFor waits for a reply matching one of the accepted strings
// (case-insensitive prefix match). Any other reply runs req.OnFail and the
// session stays armed.
func (p *WaitPool) ValidatedWaitFor(ctx context.Context, req WaitRequest, accepted ...string) (*Message, WaitState) {
	req.Validate = func(m *Message) bool {
		reply := strings.ToLower(strings.TrimSpace(m.Text))
		for _, want := range accepted {
			if strings.HasPrefix(reply, strings.ToLower(strings.TrimSpace(want))) {
				return true
			}
		}
		return false
	}
	return p.WaitFor(ctx, req)
}

// Offer presents an inbound message to all armed sessions in arm order and
// reports whether the message was consumed. A message whose text resolves to
// a registered command cancels every session it was bound to and is NOT
// consumed: issuing a new command takes priority over answering a prompt,
// so the message falls through to normal dispatch.
func (p *WaitPool) Offer(msg *Message) bool {
	if strings.TrimSpace(msg.Text) == "" {
		return false
	}

	var failed *waitSession
	consumed := false

	p.mu.Lock()
	for _, s := range p.sessions {
		if s.resolved || s.req.Chat == nil {
			continue
		}
		if s.req.Chat.JID != msg.Chat || s.req.Sender != msg.Sender {
			continue
		}

		if p.isCommand(msg.Text, s.req.Chat) {
			p.resolveLocked(s, nil, WaitCancelled)
			continue // silently cancel; message goes on to dispatch
		}

		if s.req.Validate != nil && !s.req.Validate(msg) {
			failed = s
			consumed = true
			break // session stays armed
		}

		p.resolveLocked(s, msg, WaitSatisfied)
		consumed = true
		break // first satisfied session wins
	}
	p.compactLocked()
	p.mu.Unlock()

	if failed != nil && failed.req.OnFail != nil {
		failed.req.OnFail(msg)
	}
	return consumed
}

// Armed returns the number of unresolved sessions.
func (p *WaitPool) Armed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, s := range p.sessions {
		if !s.resolved {
			n++
		}
	}
	return n
}

func (p *WaitPool) isCommand(text string, chat *Chat) bool {
	if p.registry == nil {
		return false
	}
	_, _, found := p.registry.FindByTrigger(chat.Language, text, chat.Prefix)
	return found
}

// resolve transitions a session exactly once; later calls are no-ops.
func (p *WaitPool) resolve(s *waitSession, msg *Message, state WaitState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resolveLocked(s, msg, state)
	p.compactLocked()
}

func (p *WaitPool) resolveLocked(s *waitSession, msg *Message, state WaitState) {
	if s.resolved {
		return
	}
	s.resolved = true
	s.done <- waitResult{msg: msg, state: state}
}

// compactLocked drops resolved sessions from the arm list.
func (p *WaitPool) compactLocked() {
	live := p.sessions[:0]
	for _, s := range p.sessions {
		if !s.resolved {
			live = append(live, s)
		}
	}
	p.sessions = live
}
