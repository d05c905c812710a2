package trading

import "context"

// Engine is the external trade/blockchain collaborator. Route and price
// computation, gas estimation, signing and broadcast all live behind it; the
// orchestrator only correlates quotes with confirmations.
//
// Quote methods return (nil, nil) when no viable route exists.
type Engine interface {
	QuoteTrade(ctx context.Context, tokenIn, tokenOut string, amount float64, wallet Wallet) (*Trade, error)
	QuoteRoute(ctx context.Context, tokenIn, tokenOut string, amount float64, wallet Wallet) (*SwapRoute, error)

	ExecuteTrade(ctx context.Context, trade *Trade, wallet Wallet) (TxResult, error)
	ExecuteRoute(ctx context.Context, route *SwapRoute, wallet Wallet) (TxResult, error)
	WrapNative(ctx context.Context, amount float64, wallet Wallet) (TxResult, error)

	EstimateWrapGas(ctx context.Context, amount float64) (float64, error)
	NativeBalance(ctx context.Context, address string) (float64, error)
	TokenInfo(ctx context.Context, token, holder string) (*TokenInfo, error)
}

// WalletProvider is the external wallet collaborator.
type WalletProvider interface {
	Create(ctx context.Context) (Wallet, error)
	Import(ctx context.Context, secretOrPhrase string) (Wallet, error)
}
