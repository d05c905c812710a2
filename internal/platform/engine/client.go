package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"tigon-bot-backend/internal/trading"
)

// Client talks to the execution-engine service that owns route computation,
// gas estimation, signing and broadcast. It implements trading.Engine and
// trading.WalletProvider; the bot itself never touches chain RPC.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

type quoteRequest struct {
	TokenIn  string  `json:"token_in"`
	TokenOut string  `json:"token_out"`
	Amount   float64 `json:"amount"`
	Wallet   string  `json:"wallet"`
}

type executeRequest struct {
	Trade  *trading.Trade     `json:"trade,omitempty"`
	Route  *trading.SwapRoute `json:"route,omitempty"`
	Amount float64            `json:"amount,omitempty"`
	Wallet trading.Wallet     `json:"wallet"`
}

type executeResponse struct {
	TxHash string `json:"tx_hash"`
}

type txStatusResponse struct {
	Status      string `json:"status"` // pending | success | failed
	BlockNumber uint64 `json:"block_number"`
}

func (c *Client) QuoteTrade(ctx context.Context, tokenIn, tokenOut string, amount float64, wallet trading.Wallet) (*trading.Trade, error) {
	var out *trading.Trade
	err := c.postQuote(ctx, "/v1/quote/trade", quoteRequest{
		TokenIn:  tokenIn,
		TokenOut: tokenOut,
		Amount:   amount,
		Wallet:   wallet.Address,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) QuoteRoute(ctx context.Context, tokenIn, tokenOut string, amount float64, wallet trading.Wallet) (*trading.SwapRoute, error) {
	var out *trading.SwapRoute
	err := c.postQuote(ctx, "/v1/quote/route", quoteRequest{
		TokenIn:  tokenIn,
		TokenOut: tokenOut,
		Amount:   amount,
		Wallet:   wallet.Address,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ExecuteTrade(ctx context.Context, trade *trading.Trade, wallet trading.Wallet) (trading.TxResult, error) {
	return c.execute(ctx, "/v1/execute/trade", executeRequest{Trade: trade, Wallet: wallet})
}

func (c *Client) ExecuteRoute(ctx context.Context, route *trading.SwapRoute, wallet trading.Wallet) (trading.TxResult, error) {
	return c.execute(ctx, "/v1/execute/route", executeRequest{Route: route, Wallet: wallet})
}

func (c *Client) WrapNative(ctx context.Context, amount float64, wallet trading.Wallet) (trading.TxResult, error) {
	return c.execute(ctx, "/v1/execute/wrap", executeRequest{Amount: amount, Wallet: wallet})
}

func (c *Client) execute(ctx context.Context, path string, req executeRequest) (trading.TxResult, error) {
	var out executeResponse
	if err := c.post(ctx, path, req, &out); err != nil {
		return nil, err
	}
	if out.TxHash == "" {
		return nil, fmt.Errorf("engine returned no tx hash")
	}
	return &txResult{client: c, hash: common.HexToHash(out.TxHash)}, nil
}

func (c *Client) EstimateWrapGas(ctx context.Context, amount float64) (float64, error) {
	var out struct {
		Gas float64 `json:"gas"`
	}
	q := url.Values{"amount": {fmt.Sprintf("%g", amount)}}
	if err := c.get(ctx, "/v1/wrap/gas", q, &out); err != nil {
		return 0, err
	}
	return out.Gas, nil
}

func (c *Client) NativeBalance(ctx context.Context, address string) (float64, error) {
	var out struct {
		Balance float64 `json:"balance"`
	}
	if err := c.get(ctx, "/v1/balance/"+address, nil, &out); err != nil {
		return 0, err
	}
	return out.Balance, nil
}

func (c *Client) TokenInfo(ctx context.Context, token, holder string) (*trading.TokenInfo, error) {
	var out trading.TokenInfo
	q := url.Values{"holder": {holder}}
	if err := c.get(ctx, "/v1/token/"+token, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Create(ctx context.Context) (trading.Wallet, error) {
	var out trading.Wallet
	if err := c.post(ctx, "/v1/wallets", struct{}{}, &out); err != nil {
		return trading.Wallet{}, err
	}
	return out, nil
}

func (c *Client) Import(ctx context.Context, secretOrPhrase string) (trading.Wallet, error) {
	var out trading.Wallet
	req := struct {
		Secret string `json:"secret"`
	}{Secret: secretOrPhrase}
	if err := c.post(ctx, "/v1/wallets/import", req, &out); err != nil {
		return trading.Wallet{}, err
	}
	return out, nil
}

type coverageRequest struct {
	Address   string `json:"address"`
	ChannelID int64  `json:"channel_id"`
}

// Cover asks the engine's chain watcher to start tracking activity on the
// address for the channel.
func (c *Client) Cover(ctx context.Context, address string, channelID int64) error {
	return c.post(ctx, "/v1/watch/cover", coverageRequest{Address: address, ChannelID: channelID}, &struct{}{})
}

// Drop stops tracking the address for the channel.
func (c *Client) Drop(ctx context.Context, address string, channelID int64) error {
	return c.post(ctx, "/v1/watch/drop", coverageRequest{Address: address, ChannelID: channelID}, &struct{}{})
}

// txResult polls the engine for inclusion. Wait returns once the transaction
// is mined or the context ends.
type txResult struct {
	client *Client
	hash   common.Hash
}

func (t *txResult) Hash() common.Hash {
	return t.hash
}

func (t *txResult) Wait(ctx context.Context) (*trading.Receipt, error) {
	ticker := time.NewTicker(3 * time.Second)
	defer ticker.Stop()

	for {
		var status txStatusResponse
		if err := t.client.get(ctx, "/v1/tx/"+t.hash.Hex(), nil, &status); err != nil {
			return nil, err
		}
		switch status.Status {
		case "success":
			return &trading.Receipt{TxHash: t.hash, BlockNumber: status.BlockNumber, Success: true}, nil
		case "failed":
			return &trading.Receipt{TxHash: t.hash, BlockNumber: status.BlockNumber, Success: false}, nil
		case "pending":
		default:
			// Only "pending" keeps the poll alive; an unrecognized status
			// must not spin until the context dies.
			return nil, fmt.Errorf("engine reported unknown tx status %q for %s", status.Status, t.hash.Hex())
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	req, err := c.postRequest(ctx, path, body)
	if err != nil {
		return err
	}
	return c.do(req, out, false)
}

// postQuote is the quote-endpoint variant: there a 404 means "no viable
// route" and the caller gets a nil result. Every other endpoint treats 404 as
// the failure it is; a missing balance or tx must never decode to a zero value.
func (c *Client) postQuote(ctx context.Context, path string, body, out any) error {
	req, err := c.postRequest(ctx, path, body)
	if err != nil {
		return err
	}
	return c.do(req, out, true)
}

func (c *Client) postRequest(ctx context.Context, path string, body any) (*http.Request, error) {
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	return c.do(req, out, false)
}

func (c *Client) do(req *http.Request, out any, routeMiss404 bool) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound && routeMiss404 {
		return nil
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("engine returned status %d for %s", resp.StatusCode, req.URL.Path)
	}
	dec := json.NewDecoder(resp.Body)
	return dec.Decode(out)
}
