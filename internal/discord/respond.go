package discord

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gatebot/internal/core"
	"gatebot/pkg/retrylimit"

	"github.com/bwmarrin/discordgo"
)

// Sender implements core.Responder on top of a Discord session. Sends pass
// through an adaptive rate limiter and a short retry loop; channels that
// keep rejecting deliveries are muted until their tracker entry expires.
type Sender struct {
	dg      *discordgo.Session
	limiter *retrylimit.AdaptiveLimiter
	tracker *retrylimit.Tracker
}

// NewSender creates a rate-limited responder.
func NewSender(dg *discordgo.Session) *Sender {
	return &Sender{
		dg:      dg,
		limiter: retrylimit.NewAdaptiveLimiter(5, 1, 25, 1, 0.5),
		tracker: retrylimit.NewTracker(5, 10*time.Minute),
	}
}

// Tracker exposes the failure tracker so its purge loop can be run as a
// background job.
func (s *Sender) Tracker() *retrylimit.Tracker {
	return s.tracker
}

// SendText sends a plain text message to a channel.
func (s *Sender) SendText(ctx context.Context, chat core.JID, text string) error {
	dest := string(chat)
	if s.tracker.Muted(dest) {
		return fmt.Errorf("channel %s is muted after repeated delivery failures", dest)
	}

	cfg := retrylimit.DefaultRetryConfig()
	cfg.MaxAttempts = 3
	cfg.OnRetry = func(attempt int, err error) {
		slog.Warn("send retry", "chat", dest, "attempt", attempt, "error", err)
	}

	err := retrylimit.WithRetryConfig(ctx, func() error {
		_, sendErr := s.dg.ChannelMessageSend(dest, text)
		if restErr, ok := sendErr.(*discordgo.RESTError); ok && restErr.Response != nil {
			// 4xx other than 429 will not improve on retry.
			code := restErr.Response.StatusCode
			if code >= 400 && code < 500 && code != 429 {
				return &retrylimit.FatalError{Err: sendErr}
			}
		}
		return sendErr
	}, s.limiter, cfg)

	if err != nil {
		s.tracker.Failure(dest)
		return fmt.Errorf("send to %s: %w", dest, err)
	}
	s.tracker.Success(dest)
	return nil
}
