package trading

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// Wallet is the key material the execution engine signs with.
type Wallet struct {
	Address    string `json:"address"`
	PrivateKey string `json:"private_key"`
	Mnemonic   string `json:"mnemonic,omitempty"`
}

// Trade is a direct pool trade quoted by the engine. The fields are opaque to
// the orchestrator; they round-trip through the order store unchanged.
type Trade struct {
	TokenIn      string  `json:"token_in"`
	TokenOut     string  `json:"token_out"`
	AmountIn     float64 `json:"amount_in"`
	AmountOutMin float64 `json:"amount_out_min"`
	PoolFee      int     `json:"pool_fee"`
	Calldata     string  `json:"calldata"`
}

// SwapRoute is a multi-hop route quoted by the smart-order router.
type SwapRoute struct {
	TokenIn     string   `json:"token_in"`
	TokenOut    string   `json:"token_out"`
	AmountIn    float64  `json:"amount_in"`
	QuoteOut    float64  `json:"quote_out"`
	Path        []string `json:"path"`
	GasPriceWei string   `json:"gas_price_wei"`
	GasUSD      float64  `json:"gas_usd"`
	Calldata    string   `json:"calldata"`
}

// TokenInfo describes an ERC-20 token plus the holder's balance of it.
type TokenInfo struct {
	Address  string  `json:"address"`
	Name     string  `json:"name"`
	Symbol   string  `json:"symbol"`
	Decimals int     `json:"decimals"`
	Balance  float64 `json:"balance"`
	PriceUSD float64 `json:"price_usd"`
}

// Receipt reports the final fate of a broadcast transaction.
type Receipt struct {
	TxHash      common.Hash `json:"tx_hash"`
	BlockNumber uint64      `json:"block_number"`
	Success     bool        `json:"success"`
}

// TxResult is a broadcast transaction. Wait blocks until inclusion; it may be
// suspended for as long as the chain takes and must not be called while
// holding any store-level lock.
type TxResult interface {
	Hash() common.Hash
	Wait(ctx context.Context) (*Receipt, error)
}
