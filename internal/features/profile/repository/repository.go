package repository

import (
	"context"

	"tigon-bot-backend/internal/features/profile/models"
)

// Defaults seed a profile created on first contact.
type Defaults struct {
	SlippageBps int
	MaxGasGwei  int
}

// Mutator transforms the current profile in place. Returning an error aborts
// the update without writing.
type Mutator func(*models.UserProfile) error

// ProfileRepository stores one UserProfile per user with per-key atomic
// updates: Update applies the mutator against the latest stored value, never
// a stale snapshot.
type ProfileRepository interface {
	// Get returns the stored profile, creating and persisting a default one
	// on first access.
	Get(ctx context.Context, userID int64) (*models.UserProfile, error)

	// Update atomically applies mutate to the current profile and persists
	// the result. A missing profile is seeded with the defaults first.
	Update(ctx context.Context, userID int64, mutate Mutator) (*models.UserProfile, error)

	// List scans all stored profiles.
	List(ctx context.Context) ([]*models.UserProfile, error)
}
