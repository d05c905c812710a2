package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"tigon-bot-backend/internal/features/profile/models"
	"tigon-bot-backend/internal/features/profile/repository"
)

const keyPrefix = "profile:"

// maxUpdateRetries bounds optimistic-lock retries under write contention on
// one user's profile.
const maxUpdateRetries = 16

type profileRepository struct {
	client   *redis.Client
	defaults repository.Defaults
}

func NewProfileRepository(client *redis.Client, defaults repository.Defaults) repository.ProfileRepository {
	return &profileRepository{client: client, defaults: defaults}
}

func key(userID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, userID)
}

func (r *profileRepository) defaultProfile(userID int64) *models.UserProfile {
	return &models.UserProfile{
		ID:          userID,
		Accounts:    []models.Account{},
		WatchList:   []models.WatchTarget{},
		SlippageBps: r.defaults.SlippageBps,
		MaxGasGwei:  r.defaults.MaxGasGwei,
	}
}

func (r *profileRepository) Get(ctx context.Context, userID int64) (*models.UserProfile, error) {
	data, err := r.client.Get(ctx, key(userID)).Bytes()
	if err == redis.Nil {
		profile := r.defaultProfile(userID)
		buf, merr := json.Marshal(profile)
		if merr != nil {
			return nil, fmt.Errorf("failed to marshal default profile: %w", merr)
		}
		// SetNX so a concurrent first contact for the same user wins once.
		if err := r.client.SetNX(ctx, key(userID), buf, 0).Err(); err != nil {
			return nil, fmt.Errorf("failed to create default profile: %w", err)
		}
		return r.Get(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	var profile models.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

// Update runs a WATCH-guarded read-modify-write so concurrent updates to the
// same user never lose writes. The transaction is retried when another writer
// touches the key between read and EXEC.
func (r *profileRepository) Update(ctx context.Context, userID int64, mutate repository.Mutator) (*models.UserProfile, error) {
	k := key(userID)
	var updated *models.UserProfile

	txn := func(tx *redis.Tx) error {
		profile := r.defaultProfile(userID)
		data, err := tx.Get(ctx, k).Bytes()
		switch {
		case err == redis.Nil:
			// first contact, seed defaults
		case err != nil:
			return fmt.Errorf("failed to get profile: %w", err)
		default:
			profile = &models.UserProfile{}
			if err := json.Unmarshal(data, profile); err != nil {
				return fmt.Errorf("failed to unmarshal profile: %w", err)
			}
		}

		if err := mutate(profile); err != nil {
			return err
		}

		buf, err := json.Marshal(profile)
		if err != nil {
			return fmt.Errorf("failed to marshal profile: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, buf, 0)
			return nil
		})
		if err != nil {
			return err
		}
		updated = profile
		return nil
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := r.client.Watch(ctx, txn, k)
		if err == redis.TxFailedErr {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, fmt.Errorf("profile update for user %d aborted after %d retries", userID, maxUpdateRetries)
}

func (r *profileRepository) List(ctx context.Context) ([]*models.UserProfile, error) {
	var profiles []*models.UserProfile
	iter := r.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()

	for iter.Next(ctx) {
		data, err := r.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			continue
		}

		var profile models.UserProfile
		if err := json.Unmarshal(data, &profile); err != nil {
			continue
		}
		profiles = append(profiles, &profile)
	}

	return profiles, iter.Err()
}
