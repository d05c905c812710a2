package bot

import (
	"fmt"

	profilemodels "tigon-bot-backend/internal/features/profile/models"
)

func startKeyboard() [][]Button {
	return [][]Button{
		{
			{Text: "👛 Wallets", Data: ActionWalletMenu},
			{Text: "📺 Watch List", Data: ActionWatchList},
		},
		{
			{Text: "⛽ Max Gas", Data: ActionSetMaxGas},
			{Text: "📉 Slippage", Data: ActionSetSlippage},
		},
		{
			{Text: "❎ Close", Data: ActionClose},
		},
	}
}

func walletMenuKeyboard() [][]Button {
	return [][]Button{
		{
			{Text: "Import Wallet", Data: ActionImportWallet},
			{Text: "Create Wallet", Data: ActionCreateWallet},
		},
		{
			{Text: "Pick a wallet to trade", Data: ActionListWallets},
		},
	}
}

func walletListKeyboard(p *profilemodels.UserProfile) [][]Button {
	var rows [][]Button
	for _, acc := range p.Accounts {
		rows = append(rows, []Button{
			{Text: shortenAddress(acc.Address, 8), Data: fmt.Sprintf("%s %s", VerbDetailWallet, acc.Address)},
			{Text: "❌ Delete", Data: fmt.Sprintf("%s %s", VerbRemoveWallet, acc.Address)},
		})
	}
	return rows
}

func tokenKeyboard(tokenAddress string) [][]Button {
	return [][]Button{
		{
			{Text: "💸 Buy custom amount", Data: fmt.Sprintf("%s %s", VerbBuyCustom, tokenAddress)},
		},
		{
			{Text: "❎ Close", Data: ActionClose},
		},
	}
}

func confirmKeyboard(orderID string, sufficient bool) [][]Button {
	confirm := Button{Text: "👌 Confirm", Data: fmt.Sprintf("%s %s", VerbConfirmSwap, orderID)}
	if !sufficient {
		confirm = Button{Text: "💔 Not enough balance", Data: ActionClose}
	}
	return [][]Button{
		{{Text: "⭕ No", Data: ActionClose}, confirm},
	}
}

func watchListKeyboard(p *profilemodels.UserProfile) [][]Button {
	var rows [][]Button
	for _, w := range p.WatchList {
		rows = append(rows, []Button{
			{Text: w.Name, Data: fmt.Sprintf("%s %s", VerbWatchWallet, w.Address)},
			{Text: shortenAddress(w.Address, 8), Data: fmt.Sprintf("%s %s", VerbWatchWallet, w.Address)},
			{Text: "❌ Remove", Data: fmt.Sprintf("%s %s", VerbWatchRemove, w.Address)},
		})
	}
	rows = append(rows, []Button{{Text: "➕ Add Wallet", Data: ActionWatchAdd}})
	return rows
}

func tokensMenuKeyboard(menu []TokenMenuEntry) [][]Button {
	var rows [][]Button
	for _, entry := range menu {
		rows = append(rows, []Button{{Text: entry.Symbol, Data: entry.Address}})
	}
	rows = append(rows, []Button{{Text: "❎ Close", Data: ActionClose}})
	return rows
}

func closeKeyboard() [][]Button {
	return [][]Button{{{Text: "❎ Close", Data: ActionClose}}}
}
