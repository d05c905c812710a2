package bot

import (
	"context"
	"fmt"
)

func (b *Bot) cmdStart(ctx context.Context, ev CommandEvent) {
	if _, err := b.orch.Start(ctx, ev.UserID, ev.UserName); err != nil {
		b.send(ctx, ev.ChatID, errorText(err), nil)
		return
	}
	b.send(ctx, ev.ChatID, msgStart, &SendOptions{Keyboard: startKeyboard()})
}

func (b *Bot) cmdWallet(ctx context.Context, ev CommandEvent) {
	msgID := b.send(ctx, ev.ChatID, "Processing...", nil)

	p, err := b.orch.Profile(ctx, ev.UserID)
	if err != nil {
		b.edit(ctx, ev.ChatID, msgID, errorText(err), nil)
		return
	}
	b.edit(ctx, ev.ChatID, msgID, walletOverviewText(p), &SendOptions{
		ParseMode:         "Markdown",
		DisableWebPreview: true,
		Keyboard:          walletMenuKeyboard(),
	})
}

func (b *Bot) cmdTokens(ctx context.Context, ev CommandEvent) {
	text := "💰 Fast buy menu\nPurchase tokens with a single click."
	if p, err := b.orch.Profile(ctx, ev.UserID); err == nil {
		if acc, _, ok := p.ActiveAccount(); ok {
			text += fmt.Sprintf("\n\n📈 Trading on account: `%s`", shortenAddress(acc.Address, 6))
		}
	}
	b.send(ctx, ev.ChatID, text, &SendOptions{
		ParseMode: "Markdown",
		Keyboard:  tokensMenuKeyboard(b.opts.TokenMenu),
	})
}

func (b *Bot) cmdWatch(ctx context.Context, ev CommandEvent) {
	p, err := b.orch.Profile(ctx, ev.UserID)
	if err != nil {
		b.send(ctx, ev.ChatID, errorText(err), nil)
		return
	}
	b.send(ctx, ev.ChatID, watchListText(p), &SendOptions{Keyboard: watchListKeyboard(p)})
}
