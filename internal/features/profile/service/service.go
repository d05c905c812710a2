package service

import (
	"context"

	apperrors "tigon-bot-backend/internal/common/errors"
	"tigon-bot-backend/internal/features/profile/models"
	"tigon-bot-backend/internal/features/profile/repository"
)

// Service enforces the profile-level invariants on top of the repository's
// atomic update primitive: main-account fallback, duplicate account and
// watch-list rejection, lazy main-account promotion.
type Service struct {
	repo repository.ProfileRepository
}

func New(repo repository.ProfileRepository) *Service {
	return &Service{repo: repo}
}

// Ensure returns the profile, creating it on first contact and recording the
// display name when it is still empty.
func (s *Service) Ensure(ctx context.Context, userID int64, name string) (*models.UserProfile, error) {
	return s.repo.Update(ctx, userID, func(p *models.UserProfile) error {
		if p.Name == "" {
			p.Name = name
		}
		return nil
	})
}

func (s *Service) Get(ctx context.Context, userID int64) (*models.UserProfile, error) {
	return s.repo.Get(ctx, userID)
}

func (s *Service) AddAccount(ctx context.Context, userID int64, acc models.Account) error {
	_, err := s.repo.Update(ctx, userID, func(p *models.UserProfile) error {
		if !p.AddAccount(acc) {
			return apperrors.New(apperrors.ErrCodeAccountExists, "Wallet already exists")
		}
		return nil
	})
	return err
}

func (s *Service) RemoveAccount(ctx context.Context, userID int64, address string) error {
	_, err := s.repo.Update(ctx, userID, func(p *models.UserProfile) error {
		if !p.RemoveAccount(address) {
			return apperrors.NewAccountNotFoundError(address)
		}
		return nil
	})
	return err
}

// SelectAccount makes the address the trading default.
func (s *Service) SelectAccount(ctx context.Context, userID int64, address string) (*models.UserProfile, error) {
	return s.repo.Update(ctx, userID, func(p *models.UserProfile) error {
		if !p.SetMainAccount(address) {
			return apperrors.NewAccountNotFoundError(address)
		}
		return nil
	})
}

// ActiveAccount resolves the account trades run on. When no main account is
// set the first account is promoted and the promotion persisted, so later
// reads agree.
func (s *Service) ActiveAccount(ctx context.Context, userID int64) (models.Account, error) {
	p, err := s.repo.Get(ctx, userID)
	if err != nil {
		return models.Account{}, err
	}

	acc, promoted, ok := p.ActiveAccount()
	if !ok {
		return models.Account{}, apperrors.New(apperrors.ErrCodeAccountNotFound, "No wallet found")
	}
	if promoted {
		if _, err := s.repo.Update(ctx, userID, func(p *models.UserProfile) error {
			if p.MainAccount == nil && len(p.Accounts) > 0 {
				p.SetMainAccount(p.Accounts[0].Address)
			}
			return nil
		}); err != nil {
			return models.Account{}, err
		}
	}
	return acc, nil
}

func (s *Service) SetSlippage(ctx context.Context, userID int64, bps int) error {
	_, err := s.repo.Update(ctx, userID, func(p *models.UserProfile) error {
		p.SlippageBps = bps
		return nil
	})
	return err
}

func (s *Service) SetMaxGas(ctx context.Context, userID int64, gwei int) error {
	_, err := s.repo.Update(ctx, userID, func(p *models.UserProfile) error {
		p.MaxGasGwei = gwei
		return nil
	})
	return err
}

func (s *Service) AddWatchTarget(ctx context.Context, userID int64, target models.WatchTarget) error {
	_, err := s.repo.Update(ctx, userID, func(p *models.UserProfile) error {
		if !p.AddWatchTarget(target) {
			return apperrors.New(apperrors.ErrCodeWatchExists, "Watch wallet already exists")
		}
		return nil
	})
	return err
}

func (s *Service) RemoveWatchTarget(ctx context.Context, userID int64, address string) error {
	_, err := s.repo.Update(ctx, userID, func(p *models.UserProfile) error {
		if !p.RemoveWatchTarget(address) {
			return apperrors.New(apperrors.ErrCodeWatchNotFound, "Watch wallet not found")
		}
		return nil
	})
	return err
}
