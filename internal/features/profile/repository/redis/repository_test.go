package redis

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tigon-bot-backend/internal/features/profile/models"
	"tigon-bot-backend/internal/features/profile/repository"
)

func newTestRepo(t *testing.T) repository.ProfileRepository {
	t.Helper()
	srv := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewProfileRepository(client, repository.Defaults{SlippageBps: 10, MaxGasGwei: 10})
}

func TestGet_CreatesDefaultOnFirstAccess(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	p, err := repo.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), p.ID)
	assert.Empty(t, p.Accounts)
	assert.Empty(t, p.WatchList)
	assert.Nil(t, p.MainAccount)
	assert.Equal(t, 10, p.SlippageBps)
	assert.Equal(t, 10, p.MaxGasGwei)

	// second access reads the persisted default
	again, err := repo.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, p, again)
}

func TestUpdate_SequentialUpdatesAllApplied(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		addr := fmt.Sprintf("0x%02d", i)
		_, err := repo.Update(ctx, 7, func(p *models.UserProfile) error {
			p.Accounts = append(p.Accounts, models.Account{Address: addr})
			return nil
		})
		require.NoError(t, err)
	}

	p, err := repo.Get(ctx, 7)
	require.NoError(t, err)
	require.Len(t, p.Accounts, 5)
	for i, acc := range p.Accounts {
		assert.Equal(t, fmt.Sprintf("0x%02d", i), acc.Address)
	}
}

func TestUpdate_ConcurrentUpdatesLoseNoWrites(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	const workers = 4
	const perWorker = 5

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				addr := fmt.Sprintf("0x%d-%d", w, i)
				_, err := repo.Update(ctx, 9, func(p *models.UserProfile) error {
					p.Accounts = append(p.Accounts, models.Account{Address: addr})
					return nil
				})
				assert.NoError(t, err)
			}
		}(w)
	}
	wg.Wait()

	p, err := repo.Get(ctx, 9)
	require.NoError(t, err)
	assert.Len(t, p.Accounts, workers*perWorker)
}

func TestUpdate_MutatorErrorAbortsWrite(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Update(ctx, 3, func(p *models.UserProfile) error {
		p.Accounts = append(p.Accounts, models.Account{Address: "0xA"})
		return nil
	})
	require.NoError(t, err)

	_, err = repo.Update(ctx, 3, func(p *models.UserProfile) error {
		p.Accounts = nil
		return fmt.Errorf("nope")
	})
	require.Error(t, err)

	p, err := repo.Get(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, p.Accounts, 1)
}

func TestList_ScansAllProfiles(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for id := int64(1); id <= 3; id++ {
		_, err := repo.Get(ctx, id)
		require.NoError(t, err)
	}

	profiles, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, profiles, 3)
}
