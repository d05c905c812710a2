package bot

// Bare menu actions, the closed set of step-3 dispatch.
const (
	ActionWalletMenu   = "features_wallet"
	ActionImportWallet = "import_wallet"
	ActionCreateWallet = "create_wallet"
	ActionListWallets  = "list_wallet"
	ActionWatchList    = "watch_list"
	ActionWatchAdd     = "watch_wallet_add"
	ActionSetMaxGas    = "set_max_gas"
	ActionSetSlippage  = "set_slippage"
	ActionClose        = "close"
	ActionNoop         = "noop"
)

// Parameterized verbs, matched as "<verb> <argument>".
const (
	VerbDetailWallet = "detail_wallet"
	VerbRemoveWallet = "remove_wallet"
	VerbBuyCustom    = "buy_custom"
	VerbConfirmSwap  = "confirm_swap"
	VerbWatchWallet  = "watch_wallet"
	VerbWatchRemove  = "watch_wallet_remove"
)

var verbs = map[string]bool{
	VerbDetailWallet: true,
	VerbRemoveWallet: true,
	VerbBuyCustom:    true,
	VerbConfirmSwap:  true,
	VerbWatchWallet:  true,
	VerbWatchRemove:  true,
}
