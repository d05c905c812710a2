package orchestrator

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	apperrors "tigon-bot-backend/internal/common/errors"
	"tigon-bot-backend/internal/common/logger"
	ordermodels "tigon-bot-backend/internal/features/order/models"
	orderrepo "tigon-bot-backend/internal/features/order/repository"
	"tigon-bot-backend/internal/trading"
)

// BuyQuote is a priced prospective buy, held in the order store until the
// user confirms or it expires.
type BuyQuote struct {
	OrderID    string
	Kind       ordermodels.PayloadKind
	AmountIn   float64
	QuoteOut   float64
	GasNative  float64
	GasUSD     float64
	Balance    float64
	Sufficient bool
}

// ConfirmResult is a broadcast confirmation. Await blocks until inclusion;
// call it from the conversation goroutine only, never under a store lock.
type ConfirmResult struct {
	Hash  common.Hash
	Await func(ctx context.Context) error
}

// TokenDetail looks up token metadata plus the active account's balance.
func (s *Service) TokenDetail(ctx context.Context, userID int64, token string) (*trading.TokenInfo, error) {
	wallet, err := s.activeWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	info, err := s.engine.TokenInfo(ctx, token, wallet.Address)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to fetch token info")
	}
	return info, nil
}

// QuoteBuy prices a custom buy. Below-minimum amounts are rejected before any
// quoting happens, so no order is created for them.
func (s *Service) QuoteBuy(ctx context.Context, userID int64, token string, amount float64) (*BuyQuote, error) {
	if amount < s.opts.MinBuyAmount {
		return nil, apperrors.Newf(apperrors.ErrCodeInvalidAmount,
			"Invalid custom amount: minimum is %g", s.opts.MinBuyAmount)
	}

	wallet, err := s.activeWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	balance, err := s.engine.NativeBalance(ctx, wallet.Address)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to fetch balance")
	}

	if s.isWrappedNative(token) {
		gas, err := s.engine.EstimateWrapGas(ctx, amount)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to estimate gas")
		}

		id, err := s.orders.Put(ctx, ordermodels.WrapPayload(ordermodels.WrapRequest{
			Amount:       amount,
			TokenAddress: token,
		}))
		if err != nil {
			return nil, apperrors.NewCacheError("store order", err)
		}

		return &BuyQuote{
			OrderID:    id,
			Kind:       ordermodels.KindWrap,
			AmountIn:   amount,
			QuoteOut:   amount,
			GasNative:  gas,
			Balance:    balance,
			Sufficient: balance >= amount,
		}, nil
	}

	route, err := s.engine.QuoteRoute(ctx, s.opts.WrappedNative, token, amount, wallet)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to quote route")
	}
	if route == nil {
		return nil, apperrors.NewQuoteUnavailableError(token)
	}

	id, err := s.orders.Put(ctx, ordermodels.RoutePayload(route))
	if err != nil {
		return nil, apperrors.NewCacheError("store order", err)
	}

	return &BuyQuote{
		OrderID:    id,
		Kind:       ordermodels.KindRoute,
		AmountIn:   amount,
		QuoteOut:   route.QuoteOut,
		GasUSD:     route.GasUSD,
		Balance:    balance,
		Sufficient: balance >= amount,
	}, nil
}

// ConfirmOrder consumes the order and hands its payload to the matching
// executor. The take is atomic: a redelivered confirmation callback gets
// "already used", never a second execution. An executor failure after the
// take does NOT restore the order — the user re-quotes rather than risking a
// duplicate submission against stale pricing.
func (s *Service) ConfirmOrder(ctx context.Context, userID int64, orderID string) (*ConfirmResult, error) {
	wallet, err := s.activeWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	payload, err := s.orders.Take(ctx, orderID)
	switch err {
	case nil:
	case orderrepo.ErrNotFound:
		return nil, apperrors.NewOrderNotFoundError(orderID)
	case orderrepo.ErrConsumed:
		return nil, apperrors.NewOrderConsumedError(orderID)
	default:
		return nil, apperrors.NewCacheError("take order", err)
	}

	if err := s.checkBalance(ctx, wallet.Address, payload); err != nil {
		return nil, err
	}

	var tx trading.TxResult
	switch payload.Kind {
	case ordermodels.KindWrap:
		tx, err = s.engine.WrapNative(ctx, payload.Wrap.Amount, wallet)
	case ordermodels.KindRoute:
		tx, err = s.engine.ExecuteRoute(ctx, payload.Route, wallet)
	case ordermodels.KindTrade:
		tx, err = s.engine.ExecuteTrade(ctx, payload.Trade, wallet)
	default:
		return nil, apperrors.Newf(apperrors.ErrCodeInternal, "unknown order payload kind %q", payload.Kind)
	}
	if err != nil {
		logger.Error().Err(err).
			Int64("user_id", userID).
			Str("order_id", orderID).
			Str("kind", string(payload.Kind)).
			Msg("Order execution failed")
		return nil, apperrors.NewExecutionFailedError(err)
	}

	return &ConfirmResult{
		Hash: tx.Hash(),
		Await: func(ctx context.Context) error {
			receipt, err := tx.Wait(ctx)
			if err != nil {
				return apperrors.NewExecutionFailedError(err)
			}
			if !receipt.Success {
				return apperrors.New(apperrors.ErrCodeExecutionFailed, "Transaction reverted")
			}
			return nil
		},
	}, nil
}

// checkBalance is the pre-execution balance gate. The order is already
// consumed at this point; a failed check skips execution and the user
// re-quotes, consistent with the no-restore policy.
func (s *Service) checkBalance(ctx context.Context, address string, payload ordermodels.Payload) error {
	var need float64
	switch payload.Kind {
	case ordermodels.KindWrap:
		need = payload.Wrap.Amount
	case ordermodels.KindRoute:
		need = payload.Route.AmountIn
	case ordermodels.KindTrade:
		need = payload.Trade.AmountIn
	default:
		return nil
	}

	have, err := s.engine.NativeBalance(ctx, address)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to fetch balance")
	}
	if have < need {
		return apperrors.NewInsufficientBalanceError(need, have)
	}
	return nil
}

func (s *Service) isWrappedNative(token string) bool {
	return strings.EqualFold(token, s.opts.WrappedNative)
}
