package orchestrator

import (
	"context"

	apperrors "tigon-bot-backend/internal/common/errors"
	profilemodels "tigon-bot-backend/internal/features/profile/models"
)

// AddWatchWallet puts the address on the user's watch list and subscribes the
// chat channel in the registry. The duplicate check runs first: an address
// already on the list neither touches the registry nor publishes.
func (s *Service) AddWatchWallet(ctx context.Context, userID, channelID int64, address, name string) error {
	err := s.profiles.AddWatchTarget(ctx, userID, profilemodels.WatchTarget{
		Address: address,
		Name:    name,
	})
	if err != nil {
		return err
	}

	if err := s.watch.Subscribe(ctx, address, channelID); err != nil {
		return apperrors.NewCacheError("subscribe watch", err)
	}
	return nil
}

// AddressBalance looks up the native balance of any address, used by the
// watched-wallet detail view.
func (s *Service) AddressBalance(ctx context.Context, address string) (float64, error) {
	balance, err := s.engine.NativeBalance(ctx, address)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to fetch balance")
	}
	return balance, nil
}

// RemoveWatchWallet drops the watch entry and unsubscribes the channel. The
// registry keeps the address entry itself even when no subscriber remains.
func (s *Service) RemoveWatchWallet(ctx context.Context, userID, channelID int64, address string) error {
	if err := s.profiles.RemoveWatchTarget(ctx, userID, address); err != nil {
		return err
	}

	if err := s.watch.Unsubscribe(ctx, address, channelID); err != nil {
		return apperrors.NewCacheError("unsubscribe watch", err)
	}
	return nil
}
