package bot

import (
	"fmt"
	"strings"

	apperrors "tigon-bot-backend/internal/common/errors"
	profilemodels "tigon-bot-backend/internal/features/profile/models"
	"tigon-bot-backend/internal/service/orchestrator"
	"tigon-bot-backend/internal/trading"
)

const (
	msgUnknownCommand = "Unknown command"
	msgInvalidAmount  = "Invalid custom amount"
	msgGenericFailure = "Something went wrong, please try again later"

	msgStart = "🤖 Welcome to Tigon!\n" +
		"Trade tokens and track whale wallets straight from this chat.\n" +
		"Pick an option below to get going."

	promptRemoveWallet = "⚠️  Are you sure? Type 'yes' to confirm ⚠️"
	promptBuyAmount    = "✏️  Enter a custom buy amount. Greater or equal to %g"
	promptImportWallet = "Enter your secret key or mnemonic phrase:"
	promptMaxGas       = "✏️  Reply to this message with your desired maximum gas price (in gwei)"
	promptSlippage     = "✏️  Reply to this message with your desired slippage (in basis points)"
	promptWatchAddress = "✏️  Reply with the wallet address to watch, optionally followed by a name"
)

// shortenAddress renders 0x1234…abcd style addresses for buttons and lists.
func shortenAddress(address string, keep int) string {
	if len(address) <= 2*keep+2 {
		return address
	}
	return address[:keep+2] + "…" + address[len(address)-keep:]
}

// errorText maps an orchestrator error to the text shown to the user.
// Internal failures never leak details.
func errorText(err error) string {
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.IsInternal() {
		return msgGenericFailure
	}
	switch appErr.Code {
	case apperrors.ErrCodeAccountNotFound:
		return "No wallet found. Create or import one first"
	case apperrors.ErrCodeOrderNotFound, apperrors.ErrCodeOrderConsumed:
		return "This quote has expired or was already used. Please request a new one"
	case apperrors.ErrCodeQuoteUnavailable:
		return "Token is not supported"
	case apperrors.ErrCodeInsufficientBalance:
		return "Not enough balance for that amount"
	case apperrors.ErrCodeExecutionFailed:
		return "Transaction failed. Your quote was used; request a new one to retry"
	default:
		return appErr.Message
	}
}

func walletOverviewText(p *profilemodels.UserProfile) string {
	if len(p.Accounts) == 0 {
		return "👛 You have no wallets yet.\nImport one or create a fresh wallet below."
	}

	var b strings.Builder
	b.WriteString("👛 Your wallets:\n")
	for _, acc := range p.Accounts {
		marker := "  "
		if p.MainAccount != nil && strings.EqualFold(*p.MainAccount, acc.Address) {
			marker = "⭐"
		}
		fmt.Fprintf(&b, "%s `%s`\n", marker, acc.Address)
	}
	fmt.Fprintf(&b, "\nSlippage: %d bps · Max gas: %d gwei", p.SlippageBps, p.MaxGasGwei)
	return b.String()
}

func walletCreatedText(w trading.Wallet) string {
	return fmt.Sprintf(
		"💠 Created successfully:\n*%s*\n\n💠 Store your mnemonic phrase in a safe place:\n*%s*",
		w.Address, w.Mnemonic,
	)
}

func tokenDetailText(info *trading.TokenInfo) string {
	return fmt.Sprintf(
		"🪙 *%s* (%s)\n`%s`\n\nPrice: $%.4f\nYour balance: %.4f",
		info.Name, info.Symbol, info.Address, info.PriceUSD, info.Balance,
	)
}

func quoteText(q *orchestrator.BuyQuote) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Quote\nIn: %g\nOut: %g\n", q.AmountIn, q.QuoteOut)
	if q.GasUSD > 0 {
		fmt.Fprintf(&b, "Gas: $%.2f\n", q.GasUSD)
	} else if q.GasNative > 0 {
		fmt.Fprintf(&b, "Gas: %g\n", q.GasNative)
	}
	fmt.Fprintf(&b, "Balance: %g", q.Balance)
	return b.String()
}

func watchListText(p *profilemodels.UserProfile) string {
	if len(p.WatchList) == 0 {
		return "📺 Your watch list is empty"
	}
	return "📺 Your watch list:"
}
