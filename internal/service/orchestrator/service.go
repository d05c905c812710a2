package orchestrator

import (
	"context"

	apperrors "tigon-bot-backend/internal/common/errors"
	orderrepo "tigon-bot-backend/internal/features/order/repository"
	profilemodels "tigon-bot-backend/internal/features/profile/models"
	profilesvc "tigon-bot-backend/internal/features/profile/service"
	watchsvc "tigon-bot-backend/internal/features/watch/service"
	"tigon-bot-backend/internal/trading"
)

// Options carry the trading knobs the orchestrator enforces locally.
type Options struct {
	// MinBuyAmount is the smallest custom buy accepted; below it no order is
	// ever created.
	MinBuyAmount float64
	// WrappedNative is the wrap-token address. Buying it wraps the native
	// coin instead of routing a swap.
	WrappedNative string
}

// Service composes the stores with the external trade/blockchain and wallet
// collaborators into the user-visible operations. Every collaborator failure
// is converted to an AppError before it leaves this package; the router
// never sees a raw low-level error.
type Service struct {
	profiles *profilesvc.Service
	orders   orderrepo.OrderStore
	watch    *watchsvc.Service
	engine   trading.Engine
	wallets  trading.WalletProvider
	opts     Options
}

func New(
	profiles *profilesvc.Service,
	orders orderrepo.OrderStore,
	watch *watchsvc.Service,
	engine trading.Engine,
	wallets trading.WalletProvider,
	opts Options,
) *Service {
	return &Service{
		profiles: profiles,
		orders:   orders,
		watch:    watch,
		engine:   engine,
		wallets:  wallets,
		opts:     opts,
	}
}

// Start is first contact: it creates the default profile when none exists.
func (s *Service) Start(ctx context.Context, userID int64, name string) (*profilemodels.UserProfile, error) {
	p, err := s.profiles.Ensure(ctx, userID, name)
	if err != nil {
		return nil, apperrors.NewCacheError("ensure profile", err)
	}
	return p, nil
}

func (s *Service) Profile(ctx context.Context, userID int64) (*profilemodels.UserProfile, error) {
	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, apperrors.NewCacheError("get profile", err)
	}
	return p, nil
}

func (s *Service) activeWallet(ctx context.Context, userID int64) (trading.Wallet, error) {
	acc, err := s.profiles.ActiveAccount(ctx, userID)
	if err != nil {
		return trading.Wallet{}, err
	}
	return trading.Wallet{
		Address:    acc.Address,
		PrivateKey: acc.PrivateKey,
		Mnemonic:   acc.Mnemonic,
	}, nil
}
