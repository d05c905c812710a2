package telegram

import (
	"context"
	"strings"
	"time"

	"tigon-bot-backend/internal/bot"
	"tigon-bot-backend/internal/common/logger"
)

// Poll runs the getUpdates long-poll loop until the context is done, mapping
// each update to a router event. Telegram delivers at least once and the
// router's handlers run on their own goroutines, so a slow conversation
// never stalls the loop.
func (c *Client) Poll(ctx context.Context, b *bot.Bot) {
	var offset int64

	logger.Info().Msg("Telegram poller started")
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Telegram poller stopped")
			return
		default:
		}

		updates, err := c.getUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			logger.Error().Err(err).Msg("Failed to fetch updates")
			time.Sleep(time.Second)
			continue
		}

		for _, u := range updates {
			if u.UpdateID >= offset {
				offset = u.UpdateID + 1
			}
			c.route(ctx, b, u)
		}
	}
}

func (c *Client) route(ctx context.Context, b *bot.Bot, u update) {
	switch {
	case u.CallbackQuery != nil:
		q := u.CallbackQuery
		if q.Message == nil || q.Data == "" {
			return
		}
		// Ack first so the client's spinner stops even for slow handlers.
		if err := c.answerCallback(ctx, q.ID); err != nil {
			logger.Debug().Err(err).Msg("Failed to ack callback query")
		}
		b.HandleCallback(ctx, bot.CallbackEvent{
			ChatID:    q.Message.Chat.ID,
			MessageID: q.Message.MessageID,
			UserID:    q.From.ID,
			Action:    q.Data,
		})

	case u.Message != nil && u.Message.From != nil:
		m := u.Message
		if m.ReplyTo != nil {
			b.HandleReply(ctx, bot.ReplyEvent{
				ChatID:          m.Chat.ID,
				PromptMessageID: m.ReplyTo.MessageID,
				UserID:          m.From.ID,
				Text:            m.Text,
			})
			return
		}
		if strings.HasPrefix(m.Text, "/") {
			command := strings.Fields(m.Text)[0]
			// strip the @botname suffix used in group chats
			if i := strings.Index(command, "@"); i > 0 {
				command = command[:i]
			}
			b.HandleCommand(ctx, bot.CommandEvent{
				Command:  command,
				ChatID:   m.Chat.ID,
				UserID:   m.From.ID,
				UserName: strings.TrimSpace(m.From.FirstName + " " + m.From.LastName),
				Text:     m.Text,
			})
		}
	}
}
