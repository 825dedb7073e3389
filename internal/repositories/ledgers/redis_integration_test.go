//go:build integration

package ledgers_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/ability-engine/internal/domain/ledger"
	dnderr "github.com/KirkDiggler/ability-engine/internal/errors"
	"github.com/KirkDiggler/ability-engine/internal/repositories/ledgers"
	"github.com/KirkDiggler/ability-engine/internal/testutils"
)

func TestRedisRepository_Integration(t *testing.T) {
	repo := ledgers.NewRedis(testutils.RedisClient(t))
	ctx := context.Background()

	expires := time.Date(2024, 5, 4, 12, 0, 30, 125*int(time.Millisecond), time.UTC)
	entry := &ledger.Entry{
		Key:               testutils.CreateTestKey("char-1", "light"),
		CooldownExpiresAt: &expires,
		LastUsedAt:        expires.Add(-30 * time.Second),
		TimesUsed:         4,
	}
	pool := &ledger.Entry{
		Key:              testutils.CreateTestKey("char-1", "recall"),
		RemainingCharges: testutils.IntPtr(0),
		LastUsedAt:       expires,
		TimesUsed:        1,
	}

	require.NoError(t, repo.Save(ctx, entry))
	require.NoError(t, repo.Save(ctx, pool))

	got, err := repo.Get(ctx, entry.Key)
	require.NoError(t, err)
	assert.Equal(t, entry, got)

	listed, err := repo.ListByOwner(ctx, entry.Key.Owner())
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "light", listed[0].Key.AbilityID)
	assert.Equal(t, 0, *listed[1].RemainingCharges)

	owners, err := repo.ListOwners(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ledger.Owner{entry.Key.Owner()}, owners)
}

func TestRedisRepository_ConcurrentWritersAtOneRevision(t *testing.T) {
	client := testutils.RedisClient(t)
	ctx := context.Background()
	key := testutils.CreateTestKey("char-2", "light")

	seed := &ledger.Entry{Key: key, RemainingCharges: testutils.IntPtr(1)}
	require.NoError(t, ledgers.NewRedis(client).Save(ctx, seed))

	const writers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		saved     int
		conflicts int
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// each writer is its own repository, as in separate processes
			repo := ledgers.NewRedis(client)
			entry := seed.Clone()
			entry.RemainingCharges = testutils.IntPtr(0)
			entry.TimesUsed = 1

			err := repo.Save(ctx, entry)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				saved++
			case dnderr.IsConflict(err):
				conflicts++
			default:
				t.Errorf("unexpected save error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, saved)
	assert.Equal(t, writers-1, conflicts)

	got, err := ledgers.NewRedis(client).Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Revision)
	assert.Equal(t, 1, got.TimesUsed)
}
