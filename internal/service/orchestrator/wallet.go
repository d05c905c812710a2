package orchestrator

import (
	"context"

	apperrors "tigon-bot-backend/internal/common/errors"
	profilemodels "tigon-bot-backend/internal/features/profile/models"
	"tigon-bot-backend/internal/trading"
)

// CreateWallet generates a fresh account and attaches it to the profile. The
// returned wallet carries the mnemonic for the one-time reveal message.
func (s *Service) CreateWallet(ctx context.Context, userID int64) (trading.Wallet, error) {
	w, err := s.wallets.Create(ctx)
	if err != nil {
		return trading.Wallet{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to create wallet")
	}

	err = s.profiles.AddAccount(ctx, userID, profilemodels.Account{
		Address:    w.Address,
		PrivateKey: w.PrivateKey,
		Mnemonic:   w.Mnemonic,
	})
	if err != nil {
		return trading.Wallet{}, err
	}
	return w, nil
}

// ImportWallet derives an account from a secret key or mnemonic phrase.
func (s *Service) ImportWallet(ctx context.Context, userID int64, secretOrPhrase string) (string, error) {
	w, err := s.wallets.Import(ctx, secretOrPhrase)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to import wallet")
	}

	err = s.profiles.AddAccount(ctx, userID, profilemodels.Account{
		Address:    w.Address,
		PrivateKey: w.PrivateKey,
	})
	if err != nil {
		return "", err
	}
	return w.Address, nil
}

// DeleteWallet removes the account. The profile store handles the
// main-account fallback atomically.
func (s *Service) DeleteWallet(ctx context.Context, userID int64, address string) error {
	return s.profiles.RemoveAccount(ctx, userID, address)
}

// WalletDetail selects the wallet as the trading default and returns its
// native balance, mirroring the original list→detail flow.
type WalletDetail struct {
	Address string
	Balance float64
}

func (s *Service) SelectWallet(ctx context.Context, userID int64, address string) (*WalletDetail, error) {
	if _, err := s.profiles.SelectAccount(ctx, userID, address); err != nil {
		return nil, err
	}

	balance, err := s.engine.NativeBalance(ctx, address)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to fetch balance")
	}
	return &WalletDetail{Address: address, Balance: balance}, nil
}

func (s *Service) SetSlippage(ctx context.Context, userID int64, bps int) error {
	return s.profiles.SetSlippage(ctx, userID, bps)
}

func (s *Service) SetMaxGas(ctx context.Context, userID int64, gwei int) error {
	return s.profiles.SetMaxGas(ctx, userID, gwei)
}
