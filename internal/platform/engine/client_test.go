package engine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tigon-bot-backend/internal/trading"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL)
}

func notFoundEverywhere() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
}

func TestQuote_NotFoundMeansNoRoute(t *testing.T) {
	c := newTestClient(t, notFoundEverywhere())
	ctx := context.Background()

	route, err := c.QuoteRoute(ctx, "0xIn", "0xOut", 1, trading.Wallet{Address: "0xW"})
	require.NoError(t, err)
	assert.Nil(t, route)

	trade, err := c.QuoteTrade(ctx, "0xIn", "0xOut", 1, trading.Wallet{Address: "0xW"})
	require.NoError(t, err)
	assert.Nil(t, trade)
}

func TestNativeBalance_NotFoundIsError(t *testing.T) {
	c := newTestClient(t, notFoundEverywhere())

	balance, err := c.NativeBalance(context.Background(), "0xW")
	require.Error(t, err)
	assert.Zero(t, balance)
	assert.Contains(t, err.Error(), "404")
}

func TestTokenInfo_NotFoundIsError(t *testing.T) {
	c := newTestClient(t, notFoundEverywhere())

	_, err := c.TokenInfo(context.Background(), "0xT", "0xW")
	require.Error(t, err)
}

func TestWait_UnknownTxIsErrorNotSpin(t *testing.T) {
	c := newTestClient(t, notFoundEverywhere())
	tx := &txResult{client: c, hash: common.HexToHash("0x11")}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	_, err := tx.Wait(ctx)
	require.Error(t, err)
	assert.NoError(t, ctx.Err())
	assert.Less(t, time.Since(start), time.Second)
}

func TestWait_UnknownStatusIsError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"wedged"}`))
	}))
	tx := &txResult{client: c, hash: common.HexToHash("0x22")}

	_, err := tx.Wait(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wedged")
}

func TestWait_PollsUntilTerminalStatus(t *testing.T) {
	calls := 0
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Write([]byte(`{"status":"pending"}`))
			return
		}
		w.Write([]byte(`{"status":"failed","block_number":7}`))
	}))
	tx := &txResult{client: c, hash: common.HexToHash("0x33")}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	receipt, err := tx.Wait(ctx)
	require.NoError(t, err)
	assert.False(t, receipt.Success)
	assert.Equal(t, uint64(7), receipt.BlockNumber)
	assert.Equal(t, 2, calls)
}
