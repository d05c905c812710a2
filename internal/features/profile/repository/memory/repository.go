package memory

import (
	"context"
	"encoding/json"
	"sync"

	"tigon-bot-backend/internal/features/profile/models"
	"tigon-bot-backend/internal/features/profile/repository"
)

// profileRepository is the in-memory backing used in tests and single-node
// setups. One mutex serializes updates, which gives the same per-key
// read-modify-write guarantee as the Redis WATCH transaction.
type profileRepository struct {
	mu       sync.Mutex
	profiles map[int64]*models.UserProfile
	defaults repository.Defaults
}

func NewProfileRepository(defaults repository.Defaults) repository.ProfileRepository {
	return &profileRepository{
		profiles: make(map[int64]*models.UserProfile),
		defaults: defaults,
	}
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

// clone guards callers from mutating the stored value outside Update.
func clone(p *models.UserProfile) *models.UserProfile {
	buf, _ := json.Marshal(p)
	out := &models.UserProfile{}
	_ = json.Unmarshal(buf, out)
	return out
}

func (r *profileRepository) Get(ctx context.Context, userID int64) (*models.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[userID]
	if !ok {
		p = r.defaultProfile(userID)
		r.profiles[userID] = p
	}
	return clone(p), nil
}

func (r *profileRepository) Update(ctx context.Context, userID int64, mutate repository.Mutator) (*models.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[userID]
	if !ok {
		p = r.defaultProfile(userID)
	}

	next := clone(p)
	if err := mutate(next); err != nil {
		return nil, err
	}
	r.profiles[userID] = next
	return clone(next), nil
}

func (r *profileRepository) List(ctx context.Context) ([]*models.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*models.UserProfile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, clone(p))
	}
	return out, nil
}
