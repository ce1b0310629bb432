// Package discord adapts the transport-agnostic core pipeline to Discord:
// it normalizes inbound messages, resolves guild roles, and sends replies
// through a rate-limited responder. Guild channels map to group chats,
// direct messages to DM chats.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gatebot/internal/config"
	"gatebot/internal/core"
	"gatebot/internal/storage"
	"gatebot/pkg/jobmgr"

	"github.com/bwmarrin/discordgo"
)

// Deps are the collaborators the bot wires into the dispatcher. Everything
// here is built by the caller; the bot adds the session-bound pieces
// (responder, role resolver) once the session exists.
type Deps struct {
	Config    *config.Config
	Store     *storage.Storage
	Registry  *core.Registry
	Evaluator *core.Evaluator
	Cooldowns *core.Ledger
	Waiters   *core.WaitPool
	Stats     core.Recorder
	Render    core.ReasonRenderer
	Jobs      *jobmgr.Manager
}

// Bot owns the Discord session and feeds inbound messages to the dispatcher.
type Bot struct {
	dg    *discordgo.Session
	cfg   *config.Config
	store *storage.Storage
	disp  *core.Dispatcher
}

// Run connects to Discord and blocks until ctx is done.
func Run(ctx context.Context, deps Deps) error {
	dg, err := discordgo.New("Bot " + deps.Config.DiscordToken)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	b := &Bot{
		dg:    dg,
		cfg:   deps.Config,
		store: deps.Store,
	}

	// The evaluator is built by main so commands (help) can share it; the
	// role resolver is the one piece only the session can provide.
	deps.Evaluator.Roles = &roleResolver{dg: dg}

	sender := NewSender(dg)
	b.disp = &core.Dispatcher{
		Registry:  deps.Registry,
		Evaluator: deps.Evaluator,
		Cooldowns: deps.Cooldowns,
		Waiters:   deps.Waiters,
		Stats:     deps.Stats,
		Reply:     sender,
		Render:    deps.Render,
	}

	if deps.Jobs != nil {
		_ = deps.Jobs.Start("retry-tracker-purge", func(jctx context.Context) error {
			sender.Tracker().RunPurger(jctx, 10*time.Minute)
			return nil
		})
	}

	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onMessageCreate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer dg.Close()

	<-ctx.Done()
	slog.Info("shutdown signal received, closing session")
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	slog.Info("bot is running",
		"username", r.User.Username,
		"guilds", len(r.Guilds))
}

// onMessageCreate normalizes the event and hands it to the dispatcher.
// discordgo invokes handlers on their own goroutines, so a command that
// blocks in a wait session does not stall other chats.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil {
		return
	}

	msg := normalizeMessage(s, m)
	sender := b.resolveSender(m.Author)
	chat := b.store.GetOrCreateChat(msg.Chat, chatKind(m))

	b.disp.Handle(context.Background(), msg, sender, chat)
}

// resolveSender loads the stored user and overlays transport facts: the
// current username when no name is stored, and the developer tier for
// configured developer IDs.
func (b *Bot) resolveSender(author *discordgo.User) *core.User {
	sender := b.store.GetOrCreateUser(core.JID(author.ID))
	if sender.Name == "" {
		sender.Name = author.Username
	}
	if sender.Tier < core.TierDev && config.IsDeveloper(b.cfg, author.ID) {
		sender.Tier = core.TierDev
	}
	return sender
}

func normalizeMessage(s *discordgo.Session, m *discordgo.MessageCreate) *core.Message {
	msg := &core.Message{
		ID:        m.ID,
		Chat:      core.JID(m.ChannelID),
		Sender:    core.JID(m.Author.ID),
		Text:      m.Content,
		Timestamp: m.Timestamp,
		FromMe:    s.State.User != nil && m.Author.ID == s.State.User.ID,
	}
	if m.MessageReference != nil {
		msg.ReplyTo = m.MessageReference.MessageID
	}
	return msg
}

func chatKind(m *discordgo.MessageCreate) core.ChatKind {
	if m.GuildID == "" {
		return core.ChatDM
	}
	return core.ChatGroup
}
