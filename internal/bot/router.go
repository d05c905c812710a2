package bot

import (
	"context"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"tigon-bot-backend/internal/common/logger"
	"tigon-bot-backend/internal/service/orchestrator"
)

// TokenMenuEntry is one fast-buy menu item.
type TokenMenuEntry struct {
	Address string
	Symbol  string
}

// ParseTokenMenu parses "address:symbol" config pairs, skipping malformed
// ones.
func ParseTokenMenu(raw []string) []TokenMenuEntry {
	var menu []TokenMenuEntry
	for _, item := range raw {
		parts := strings.SplitN(item, ":", 2)
		if len(parts) != 2 || !common.IsHexAddress(parts[0]) {
			continue
		}
		menu = append(menu, TokenMenuEntry{Address: parts[0], Symbol: parts[1]})
	}
	return menu
}

type Options struct {
	MinBuyAmount float64
	ReplyTTL     time.Duration
	TokenMenu    []TokenMenuEntry
}

// Bot is the conversation router. It correlates inbound events to pending
// prompts and button actions and dispatches each to exactly one handler; it
// supplies correlation only — idempotency lives in the stores behind the
// orchestrator.
type Bot struct {
	transport Transport
	orch      *orchestrator.Service
	pending   *PendingReplies
	opts      Options
}

func New(transport Transport, orch *orchestrator.Service, opts Options) *Bot {
	return &Bot{
		transport: transport,
		orch:      orch,
		pending:   NewPendingReplies(opts.ReplyTTL),
		opts:      opts,
	}
}

// Start launches the pending-reply sweeper.
func (b *Bot) Start(ctx context.Context) {
	b.pending.StartSweeper(ctx, time.Minute)
}

// Commands is the command-name-keyed handler table this bot exposes.
func (b *Bot) Commands() map[string]func(context.Context, CommandEvent) {
	return map[string]func(context.Context, CommandEvent){
		"start":  b.cmdStart,
		"wallet": b.cmdWallet,
		"tokens": b.cmdTokens,
		"watch":  b.cmdWatch,
	}
}

// HandleCommand dispatches a slash command on its own goroutine, so one
// user's slow handler never blocks another's.
func (b *Bot) HandleCommand(ctx context.Context, ev CommandEvent) {
	handler, ok := b.Commands()[strings.TrimPrefix(ev.Command, "/")]
	if !ok {
		b.send(ctx, ev.ChatID, msgUnknownCommand, nil)
		return
	}
	go b.run(ctx, func(ctx context.Context) { handler(ctx, ev) })
}

// HandleCallback dispatches a button click:
//  1. an action shaped like a wallet address goes to the token-detail handler
//  2. "<verb> <argument>" against the closed verb set is split and dispatched
//  3. anything else is a bare menu token, exact-matched; unknown tokens get a
//     non-fatal "unknown command" reply
func (b *Bot) HandleCallback(ctx context.Context, ev CallbackEvent) {
	go b.run(ctx, func(ctx context.Context) { b.dispatchCallback(ctx, ev) })
}

func (b *Bot) dispatchCallback(ctx context.Context, ev CallbackEvent) {
	action := strings.TrimSpace(ev.Action)

	if common.IsHexAddress(action) {
		b.showTokenDetail(ctx, ev, action)
		return
	}

	if parts := strings.SplitN(action, " ", 2); len(parts) == 2 && verbs[parts[0]] {
		b.dispatchVerb(ctx, ev, parts[0], parts[1])
		return
	}

	b.dispatchMenu(ctx, ev, action)
}

// HandleReply resumes the continuation registered for the replied-to
// message. Replies that match no live PendingReply are dropped silently.
func (b *Bot) HandleReply(ctx context.Context, ev ReplyEvent) {
	fn, ok := b.pending.Resolve(ev)
	if !ok {
		logger.Debug().
			Int64("chat_id", ev.ChatID).
			Int64("prompt_message_id", ev.PromptMessageID).
			Msg("Dropping reply with no pending prompt")
		return
	}
	go b.run(ctx, func(ctx context.Context) { fn(ctx, ev) })
}

// run wraps a handler goroutine so a panic in one conversation never takes
// down the others.
func (b *Bot) run(ctx context.Context, fn func(context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("Handler panicked")
		}
	}()
	fn(ctx)
}

// send delivers a message, logging transport failures. There is no user
// channel to surface them through.
func (b *Bot) send(ctx context.Context, chatID int64, text string, opts *SendOptions) int64 {
	id, err := b.transport.SendMessage(ctx, chatID, text, opts)
	if err != nil {
		logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
		return 0
	}
	return id
}

func (b *Bot) edit(ctx context.Context, chatID, messageID int64, text string, opts *SendOptions) {
	if err := b.transport.EditMessage(ctx, chatID, messageID, text, opts); err != nil {
		logger.Error().Err(err).Int64("chat_id", chatID).Int64("message_id", messageID).Msg("Failed to edit message")
	}
}

// prompt sends a force-reply question and registers the continuation under
// the sent message's id. A rejected registration (live prompt on the same
// key) is logged and the prompt deleted, per the reject-not-queue policy.
func (b *Bot) prompt(ctx context.Context, chatID int64, text string, fn Continuation) {
	msgID, err := b.transport.SendMessage(ctx, chatID, text, &SendOptions{ForceReply: true})
	if err != nil {
		logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send prompt")
		return
	}
	if err := b.pending.Register(chatID, msgID, fn); err != nil {
		logger.Warn().Err(err).
			Int64("chat_id", chatID).
			Int64("message_id", msgID).
			Msg("Rejected overlapping prompt")
		_ = b.transport.DeleteMessage(ctx, chatID, msgID)
	}
}
