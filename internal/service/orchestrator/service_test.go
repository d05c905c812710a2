package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "tigon-bot-backend/internal/common/errors"
	ordermodels "tigon-bot-backend/internal/features/order/models"
	orderrepo "tigon-bot-backend/internal/features/order/repository"
	ordermemory "tigon-bot-backend/internal/features/order/repository/memory"
	profilemodels "tigon-bot-backend/internal/features/profile/models"
	profilerepo "tigon-bot-backend/internal/features/profile/repository"
	profilememory "tigon-bot-backend/internal/features/profile/repository/memory"
	profilesvc "tigon-bot-backend/internal/features/profile/service"
	"tigon-bot-backend/internal/features/watch/bus"
	watchmemory "tigon-bot-backend/internal/features/watch/repository/memory"
	watchsvc "tigon-bot-backend/internal/features/watch/service"
	"tigon-bot-backend/internal/trading"
)

const wrappedNative = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"

// stubEngine answers from function fields, with sane defaults for the calls a
// test does not care about.
type stubEngine struct {
	balance      float64
	quoteRoute   func(tokenIn, tokenOut string, amount float64) (*trading.SwapRoute, error)
	executeRoute func(route *trading.SwapRoute) (trading.TxResult, error)
	wrapNative   func(amount float64) (trading.TxResult, error)
}

func (e *stubEngine) QuoteTrade(ctx context.Context, tokenIn, tokenOut string, amount float64, wallet trading.Wallet) (*trading.Trade, error) {
	return nil, nil
}

func (e *stubEngine) QuoteRoute(ctx context.Context, tokenIn, tokenOut string, amount float64, wallet trading.Wallet) (*trading.SwapRoute, error) {
	if e.quoteRoute != nil {
		return e.quoteRoute(tokenIn, tokenOut, amount)
	}
	return &trading.SwapRoute{
		TokenIn:  tokenIn,
		TokenOut: tokenOut,
		AmountIn: amount,
		QuoteOut: amount * 100,
		GasUSD:   1.5,
	}, nil
}

func (e *stubEngine) ExecuteTrade(ctx context.Context, trade *trading.Trade, wallet trading.Wallet) (trading.TxResult, error) {
	return &stubTx{}, nil
}

func (e *stubEngine) ExecuteRoute(ctx context.Context, route *trading.SwapRoute, wallet trading.Wallet) (trading.TxResult, error) {
	if e.executeRoute != nil {
		return e.executeRoute(route)
	}
	return &stubTx{}, nil
}

func (e *stubEngine) WrapNative(ctx context.Context, amount float64, wallet trading.Wallet) (trading.TxResult, error) {
	if e.wrapNative != nil {
		return e.wrapNative(amount)
	}
	return &stubTx{}, nil
}

func (e *stubEngine) EstimateWrapGas(ctx context.Context, amount float64) (float64, error) {
	return 0.001, nil
}

func (e *stubEngine) NativeBalance(ctx context.Context, address string) (float64, error) {
	return e.balance, nil
}

func (e *stubEngine) TokenInfo(ctx context.Context, token, holder string) (*trading.TokenInfo, error) {
	return &trading.TokenInfo{Address: token, Symbol: "TKN", Decimals: 18}, nil
}

type stubTx struct {
	success bool
	err     error
}

func (t *stubTx) Hash() common.Hash {
	return common.HexToHash("0x1111")
}

func (t *stubTx) Wait(ctx context.Context) (*trading.Receipt, error) {
	if t.err != nil {
		return nil, t.err
	}
	return &trading.Receipt{TxHash: t.Hash(), Success: t.success}, nil
}

type stubWallets struct{}

func (stubWallets) Create(ctx context.Context) (trading.Wallet, error) {
	return trading.Wallet{Address: "0xNew", PrivateKey: "pk", Mnemonic: "seed words"}, nil
}

func (stubWallets) Import(ctx context.Context, secretOrPhrase string) (trading.Wallet, error) {
	return trading.Wallet{Address: "0xImported", PrivateKey: secretOrPhrase}, nil
}

type fixture struct {
	svc    *Service
	feed   *bus.Recorder
	orders orderrepo.OrderStore
}

func newFixture(t *testing.T, engine *stubEngine) *fixture {
	t.Helper()

	profiles := profilesvc.New(profilememory.NewProfileRepository(profilerepo.Defaults{SlippageBps: 10, MaxGasGwei: 10}))
	orders := ordermemory.NewOrderStore(5 * time.Minute)
	feed := bus.NewRecorder()
	watch := watchsvc.New(watchmemory.NewWatchRegistry(), feed)

	svc := New(profiles, orders, watch, engine, stubWallets{}, Options{
		MinBuyAmount:  0.01,
		WrappedNative: wrappedNative,
	})

	ctx := context.Background()
	_, err := svc.Start(ctx, 1, "alice")
	require.NoError(t, err)
	require.NoError(t, profiles.AddAccount(ctx, 1, profilemodels.Account{Address: "0xMain", PrivateKey: "pk"}))

	return &fixture{svc: svc, feed: feed, orders: orders}
}

func TestQuoteBuy_BelowMinimumRejectedWithoutOrder(t *testing.T) {
	quoted := false
	engine := &stubEngine{balance: 1, quoteRoute: func(_, _ string, _ float64) (*trading.SwapRoute, error) {
		quoted = true
		return nil, nil
	}}
	f := newFixture(t, engine)

	_, err := f.svc.QuoteBuy(context.Background(), 1, "0xToken", 0.005)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidAmount))
	assert.False(t, quoted)
}

func TestQuoteBuy_RoutePath(t *testing.T) {
	f := newFixture(t, &stubEngine{balance: 1})

	quote, err := f.svc.QuoteBuy(context.Background(), 1, "0xToken", 0.02)
	require.NoError(t, err)
	assert.Equal(t, ordermodels.KindRoute, quote.Kind)
	assert.NotEmpty(t, quote.OrderID)
	assert.Equal(t, 0.02, quote.AmountIn)
	assert.Equal(t, 2.0, quote.QuoteOut)
	assert.True(t, quote.Sufficient)
}

func TestQuoteBuy_WrappedNativeQuotesWrap(t *testing.T) {
	f := newFixture(t, &stubEngine{balance: 1})

	quote, err := f.svc.QuoteBuy(context.Background(), 1, wrappedNative, 0.5)
	require.NoError(t, err)
	assert.Equal(t, ordermodels.KindWrap, quote.Kind)
	assert.Equal(t, 0.5, quote.QuoteOut)
	assert.Equal(t, 0.001, quote.GasNative)
}

func TestQuoteBuy_NoRouteReportsQuoteUnavailable(t *testing.T) {
	engine := &stubEngine{balance: 1, quoteRoute: func(_, _ string, _ float64) (*trading.SwapRoute, error) {
		return nil, nil
	}}
	f := newFixture(t, engine)

	_, err := f.svc.QuoteBuy(context.Background(), 1, "0xIlliquid", 0.02)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeQuoteUnavailable))
}

func TestQuoteBuy_LowBalanceMarkedInsufficient(t *testing.T) {
	f := newFixture(t, &stubEngine{balance: 0.01})

	quote, err := f.svc.QuoteBuy(context.Background(), 1, "0xToken", 0.5)
	require.NoError(t, err)
	assert.False(t, quote.Sufficient)
}

func TestConfirmOrder_SecondConfirmSeesConsumed(t *testing.T) {
	f := newFixture(t, &stubEngine{balance: 1, executeRoute: func(route *trading.SwapRoute) (trading.TxResult, error) {
		return &stubTx{success: true}, nil
	}})
	ctx := context.Background()

	quote, err := f.svc.QuoteBuy(ctx, 1, "0xToken", 0.02)
	require.NoError(t, err)

	res, err := f.svc.ConfirmOrder(ctx, 1, quote.OrderID)
	require.NoError(t, err)
	assert.Equal(t, common.HexToHash("0x1111"), res.Hash)
	assert.NoError(t, res.Await(ctx))

	_, err = f.svc.ConfirmOrder(ctx, 1, quote.OrderID)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeOrderConsumed))
}

func TestConfirmOrder_UnknownOrder(t *testing.T) {
	f := newFixture(t, &stubEngine{balance: 1})

	_, err := f.svc.ConfirmOrder(context.Background(), 1, "no-such-order")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeOrderNotFound))
}

func TestConfirmOrder_InsufficientBalanceSkipsExecution(t *testing.T) {
	executed := false
	engine := &stubEngine{balance: 1, executeRoute: func(route *trading.SwapRoute) (trading.TxResult, error) {
		executed = true
		return &stubTx{success: true}, nil
	}}
	f := newFixture(t, engine)
	ctx := context.Background()

	quote, err := f.svc.QuoteBuy(ctx, 1, "0xToken", 0.5)
	require.NoError(t, err)

	engine.balance = 0.1
	_, err = f.svc.ConfirmOrder(ctx, 1, quote.OrderID)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInsufficientBalance))
	assert.False(t, executed)

	// the order was consumed by the attempt; the user must re-quote
	_, err = f.svc.ConfirmOrder(ctx, 1, quote.OrderID)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeOrderConsumed))
}

func TestConfirmOrder_ExecutionFailureDoesNotRestore(t *testing.T) {
	engine := &stubEngine{balance: 1, executeRoute: func(route *trading.SwapRoute) (trading.TxResult, error) {
		return nil, errors.New("nonce too low")
	}}
	f := newFixture(t, engine)
	ctx := context.Background()

	quote, err := f.svc.QuoteBuy(ctx, 1, "0xToken", 0.02)
	require.NoError(t, err)

	_, err = f.svc.ConfirmOrder(ctx, 1, quote.OrderID)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeExecutionFailed))

	_, err = f.svc.ConfirmOrder(ctx, 1, quote.OrderID)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeOrderConsumed))
}

func TestConfirmOrder_StoredTradePayloadExecutes(t *testing.T) {
	f := newFixture(t, &stubEngine{balance: 1})
	ctx := context.Background()

	id, err := f.orders.Put(ctx, ordermodels.TradePayload(&trading.Trade{
		TokenIn:  "0xIn",
		TokenOut: "0xOut",
		AmountIn: 0.02,
	}))
	require.NoError(t, err)

	res, err := f.svc.ConfirmOrder(ctx, 1, id)
	require.NoError(t, err)
	assert.Equal(t, common.HexToHash("0x1111"), res.Hash)
}

func TestConfirmOrder_RevertedTransactionSurfacesOnAwait(t *testing.T) {
	engine := &stubEngine{balance: 1, executeRoute: func(route *trading.SwapRoute) (trading.TxResult, error) {
		return &stubTx{success: false}, nil
	}}
	f := newFixture(t, engine)
	ctx := context.Background()

	quote, err := f.svc.QuoteBuy(ctx, 1, "0xToken", 0.02)
	require.NoError(t, err)

	res, err := f.svc.ConfirmOrder(ctx, 1, quote.OrderID)
	require.NoError(t, err)

	err = res.Await(ctx)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeExecutionFailed))
}

func TestQuoteBuy_NoWalletRejected(t *testing.T) {
	f := newFixture(t, &stubEngine{balance: 1})
	ctx := context.Background()

	_, err := f.svc.Start(ctx, 2, "bob")
	require.NoError(t, err)

	_, err = f.svc.QuoteBuy(ctx, 2, "0xToken", 0.02)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeAccountNotFound))
}

func TestAddWatchWallet_DuplicateNeverReachesRegistry(t *testing.T) {
	f := newFixture(t, &stubEngine{balance: 1})
	ctx := context.Background()

	require.NoError(t, f.svc.AddWatchWallet(ctx, 1, 77, "0xWhale", "whale"))

	err := f.svc.AddWatchWallet(ctx, 1, 77, "0xWhale", "whale again")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeWatchExists))

	events := f.feed.Events()
	require.Len(t, events, 1)
	assert.Equal(t, bus.ChangeAdd, events[0].Type)
}

func TestRemoveWatchWallet_PublishesRemove(t *testing.T) {
	f := newFixture(t, &stubEngine{balance: 1})
	ctx := context.Background()

	require.NoError(t, f.svc.AddWatchWallet(ctx, 1, 77, "0xWhale", "whale"))
	require.NoError(t, f.svc.RemoveWatchWallet(ctx, 1, 77, "0xWhale"))

	events := f.feed.Events()
	require.Len(t, events, 2)
	assert.Equal(t, bus.ChangeRemove, events[1].Type)
}

func TestCreateWallet_AttachesAccountWithMnemonic(t *testing.T) {
	f := newFixture(t, &stubEngine{balance: 1})
	ctx := context.Background()

	w, err := f.svc.CreateWallet(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "0xNew", w.Address)
	assert.Equal(t, "seed words", w.Mnemonic)

	p, err := f.svc.Profile(ctx, 1)
	require.NoError(t, err)
	_, ok := p.Account("0xNew")
	assert.True(t, ok)
}

func TestImportWallet_DuplicateAddressRejected(t *testing.T) {
	f := newFixture(t, &stubEngine{balance: 1})
	ctx := context.Background()

	addr, err := f.svc.ImportWallet(ctx, 1, "secret")
	require.NoError(t, err)
	assert.Equal(t, "0xImported", addr)

	_, err = f.svc.ImportWallet(ctx, 1, "secret")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeAccountExists))
}
