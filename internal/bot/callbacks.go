package bot

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	apperrors "tigon-bot-backend/internal/common/errors"
	"tigon-bot-backend/internal/common/logger"
)

var numberRe = regexp.MustCompile(`\d+`)

func (b *Bot) dispatchVerb(ctx context.Context, ev CallbackEvent, verb, arg string) {
	switch verb {
	case VerbDetailWallet:
		b.showWalletDetail(ctx, ev, arg)
	case VerbRemoveWallet:
		b.promptRemoveWallet(ctx, ev, arg)
	case VerbBuyCustom:
		b.promptBuyCustom(ctx, ev, arg)
	case VerbConfirmSwap:
		b.confirmSwap(ctx, ev, arg)
	case VerbWatchWallet:
		b.showWatchedWallet(ctx, ev, arg)
	case VerbWatchRemove:
		if err := b.orch.RemoveWatchWallet(ctx, ev.UserID, ev.ChatID, arg); err != nil {
			b.send(ctx, ev.ChatID, errorText(err), nil)
			return
		}
		b.send(ctx, ev.ChatID, "Removed wallet from watch list", nil)
	}
}

func (b *Bot) dispatchMenu(ctx context.Context, ev CallbackEvent, action string) {
	switch action {
	case ActionWalletMenu:
		p, err := b.orch.Profile(ctx, ev.UserID)
		if err != nil {
			b.send(ctx, ev.ChatID, errorText(err), nil)
			return
		}
		b.send(ctx, ev.ChatID, walletOverviewText(p), &SendOptions{
			ParseMode: "Markdown",
			Keyboard:  walletMenuKeyboard(),
		})

	case ActionImportWallet:
		b.prompt(ctx, ev.ChatID, promptImportWallet, func(ctx context.Context, reply ReplyEvent) {
			address, err := b.orch.ImportWallet(ctx, reply.UserID, strings.TrimSpace(reply.Text))
			if err != nil {
				b.send(ctx, reply.ChatID, errorText(err), nil)
				return
			}
			b.send(ctx, reply.ChatID, fmt.Sprintf("Imported successfully: `%s`", address),
				&SendOptions{ParseMode: "Markdown"})
		})

	case ActionCreateWallet:
		w, err := b.orch.CreateWallet(ctx, ev.UserID)
		if err != nil {
			b.send(ctx, ev.ChatID, errorText(err), nil)
			return
		}
		b.send(ctx, ev.ChatID, walletCreatedText(w), &SendOptions{
			ParseMode:         "Markdown",
			DisableWebPreview: true,
		})

	case ActionListWallets:
		p, err := b.orch.Profile(ctx, ev.UserID)
		if err != nil {
			b.send(ctx, ev.ChatID, errorText(err), nil)
			return
		}
		b.send(ctx, ev.ChatID, "Account list", &SendOptions{Keyboard: walletListKeyboard(p)})

	case ActionWatchList:
		p, err := b.orch.Profile(ctx, ev.UserID)
		if err != nil {
			b.send(ctx, ev.ChatID, errorText(err), nil)
			return
		}
		b.send(ctx, ev.ChatID, watchListText(p), &SendOptions{Keyboard: watchListKeyboard(p)})

	case ActionWatchAdd:
		b.promptWatchAdd(ctx, ev)

	case ActionSetMaxGas:
		b.promptNumber(ctx, ev, promptMaxGas, func(ctx context.Context, reply ReplyEvent, n int) {
			if err := b.orch.SetMaxGas(ctx, reply.UserID, n); err != nil {
				b.send(ctx, reply.ChatID, errorText(err), nil)
				return
			}
			b.send(ctx, reply.ChatID, fmt.Sprintf("Set max gas to %d gwei successfully", n), nil)
		})

	case ActionSetSlippage:
		b.promptNumber(ctx, ev, promptSlippage, func(ctx context.Context, reply ReplyEvent, n int) {
			if err := b.orch.SetSlippage(ctx, reply.UserID, n); err != nil {
				b.send(ctx, reply.ChatID, errorText(err), nil)
				return
			}
			b.send(ctx, reply.ChatID, fmt.Sprintf("Set slippage to %d bps successfully", n), nil)
		})

	case ActionClose:
		if err := b.transport.DeleteMessage(ctx, ev.ChatID, ev.MessageID); err != nil {
			logger.Error().Err(err).Int64("chat_id", ev.ChatID).Msg("Failed to delete message")
		}

	case ActionNoop:

	default:
		b.send(ctx, ev.ChatID, msgUnknownCommand, nil)
	}
}

func (b *Bot) showTokenDetail(ctx context.Context, ev CallbackEvent, token string) {
	info, err := b.orch.TokenDetail(ctx, ev.UserID, token)
	if err != nil {
		b.send(ctx, ev.ChatID, errorText(err), &SendOptions{Keyboard: closeKeyboard()})
		return
	}
	b.send(ctx, ev.ChatID, tokenDetailText(info), &SendOptions{
		ParseMode: "Markdown",
		Keyboard:  tokenKeyboard(token),
	})
}

func (b *Bot) showWalletDetail(ctx context.Context, ev CallbackEvent, address string) {
	msgID := b.send(ctx, ev.ChatID, "Processing...", nil)

	detail, err := b.orch.SelectWallet(ctx, ev.UserID, address)
	if err != nil {
		b.edit(ctx, ev.ChatID, msgID, errorText(err), nil)
		return
	}
	text := fmt.Sprintf("⭐ Now trading on `%s`\nBalance: %g", detail.Address, detail.Balance)
	b.edit(ctx, ev.ChatID, msgID, text, &SendOptions{ParseMode: "Markdown", Keyboard: closeKeyboard()})
}

func (b *Bot) showWatchedWallet(ctx context.Context, ev CallbackEvent, address string) {
	balance, err := b.orch.AddressBalance(ctx, address)
	if err != nil {
		b.send(ctx, ev.ChatID, errorText(err), nil)
		return
	}
	text := fmt.Sprintf("👀 `%s`\nBalance: %g", address, balance)
	b.send(ctx, ev.ChatID, text, &SendOptions{ParseMode: "Markdown", Keyboard: closeKeyboard()})
}

func (b *Bot) promptRemoveWallet(ctx context.Context, ev CallbackEvent, address string) {
	b.prompt(ctx, ev.ChatID, promptRemoveWallet, func(ctx context.Context, reply ReplyEvent) {
		if strings.TrimSpace(reply.Text) != "yes" {
			return
		}
		if err := b.orch.DeleteWallet(ctx, reply.UserID, address); err != nil {
			b.send(ctx, reply.ChatID, errorText(err), nil)
			return
		}
		b.send(ctx, reply.ChatID, "Deleted successfully", nil)
	})
}

func (b *Bot) promptBuyCustom(ctx context.Context, ev CallbackEvent, token string) {
	text := fmt.Sprintf(promptBuyAmount, b.opts.MinBuyAmount)
	b.prompt(ctx, ev.ChatID, text, func(ctx context.Context, reply ReplyEvent) {
		amount, err := strconv.ParseFloat(strings.TrimSpace(reply.Text), 64)
		if err != nil {
			b.send(ctx, reply.ChatID, msgInvalidAmount, nil)
			return
		}

		msgID := b.send(ctx, reply.ChatID, "Estimating your price...", nil)
		quote, err := b.orch.QuoteBuy(ctx, reply.UserID, token, amount)
		if err != nil {
			if apperrors.HasCode(err, apperrors.ErrCodeInvalidAmount) {
				b.edit(ctx, reply.ChatID, msgID, msgInvalidAmount, nil)
				return
			}
			b.edit(ctx, reply.ChatID, msgID, errorText(err), nil)
			return
		}
		b.edit(ctx, reply.ChatID, msgID, quoteText(quote), &SendOptions{
			ParseMode: "Markdown",
			Keyboard:  confirmKeyboard(quote.OrderID, quote.Sufficient),
		})
	})
}

// confirmSwap is the execution path. The order store's atomic take makes a
// redelivered click of the same button land on "already used" instead of a
// second submission.
func (b *Bot) confirmSwap(ctx context.Context, ev CallbackEvent, orderID string) {
	b.edit(ctx, ev.ChatID, ev.MessageID, "Processing...", nil)

	result, err := b.orch.ConfirmOrder(ctx, ev.UserID, orderID)
	if err != nil {
		b.edit(ctx, ev.ChatID, ev.MessageID, errorText(err), nil)
		return
	}

	b.edit(ctx, ev.ChatID, ev.MessageID, fmt.Sprintf("Transaction is pending: %s", result.Hash.Hex()), nil)

	// The only long-lived suspension point: inclusion wait, no locks held.
	if err := result.Await(ctx); err != nil {
		b.edit(ctx, ev.ChatID, ev.MessageID, errorText(err), nil)
		return
	}
	b.edit(ctx, ev.ChatID, ev.MessageID, fmt.Sprintf("Transaction successful! %s", result.Hash.Hex()), nil)
}

func (b *Bot) promptWatchAdd(ctx context.Context, ev CallbackEvent) {
	b.prompt(ctx, ev.ChatID, promptWatchAddress, func(ctx context.Context, reply ReplyEvent) {
		fields := strings.Fields(reply.Text)
		if len(fields) == 0 || !common.IsHexAddress(fields[0]) {
			b.send(ctx, reply.ChatID, "That doesn't look like a wallet address", nil)
			return
		}
		address := fields[0]
		name := shortenAddress(address, 4)
		if len(fields) > 1 {
			name = strings.Join(fields[1:], " ")
		}

		if err := b.orch.AddWatchWallet(ctx, reply.UserID, reply.ChatID, address, name); err != nil {
			b.send(ctx, reply.ChatID, errorText(err), nil)
			return
		}
		b.send(ctx, reply.ChatID, "Added wallet to watch list", nil)
	})
}

// promptNumber asks for a numeric setting. A reply without a number in it is
// dropped silently, without re-prompting.
func (b *Bot) promptNumber(ctx context.Context, ev CallbackEvent, text string, fn func(context.Context, ReplyEvent, int)) {
	b.prompt(ctx, ev.ChatID, text, func(ctx context.Context, reply ReplyEvent) {
		raw := numberRe.FindString(reply.Text)
		if raw == "" {
			return
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return
		}
		fn(ctx, reply, n)
	})
}
