package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/ability-engine/internal/clock"
	"github.com/KirkDiggler/ability-engine/internal/config"
	"github.com/KirkDiggler/ability-engine/internal/domain/cast"
	"github.com/KirkDiggler/ability-engine/internal/domain/ledger"
	"github.com/KirkDiggler/ability-engine/internal/events"
	"github.com/KirkDiggler/ability-engine/internal/repositories/actors"
	"github.com/KirkDiggler/ability-engine/internal/repositories/content"
	"github.com/KirkDiggler/ability-engine/internal/repositories/ledgers"
	"github.com/KirkDiggler/ability-engine/internal/repositories/locations"
	castService "github.com/KirkDiggler/ability-engine/internal/services/cast"
	"github.com/KirkDiggler/ability-engine/internal/testutils"
)

func newTestProvider(t *testing.T, rules *config.RulesConfig, now *clock.Fixed) (*Provider, actors.Repository) {
	t.Helper()

	catalog, err := content.DefaultCatalog()
	require.NoError(t, err)

	world, secrets := locations.NewDemoWorld()
	actorRepo := actors.NewInMemoryRepository()

	mage := testutils.CreateTestActor("mage-1", "mage", 5, locations.DemoMarket)
	mage.ItemIDs = []string{"ring-of-recall"}
	require.NoError(t, actorRepo.Save(context.Background(), mage))

	return NewProvider(&ProviderConfig{
		Content:            content.NewInMemoryRepository(catalog),
		ActorRepository:    actorRepo,
		LedgerRepository:   ledgers.NewInMemoryRepository(),
		LocationRepository: world,
		Secrets:            secrets,
		Rules:              rules,
		Clock:              now,
	}), actorRepo
}

func TestNewProvider_RecallAndDailyReset(t *testing.T) {
	ctx := context.Background()
	now := &clock.Fixed{At: time.Date(2024, 5, 4, 12, 0, 0, 0, time.UTC)}
	provider, actorRepo := newTestProvider(t, nil, now)

	var moves int
	provider.EventBus.Subscribe(cast.MutationLocationChanged, &events.FuncListener{
		Name: "counter",
		Fn: func(context.Context, cast.Mutation) error {
			moves++
			return nil
		},
	})

	recall := &castService.CastInput{ActorID: "mage-1", AbilityID: "recall"}

	outcome, err := provider.CastService.Cast(ctx, recall)
	require.NoError(t, err)
	require.True(t, outcome.Success)
	assert.Equal(t, 1, moves)

	mage, err := actorRepo.Get(ctx, "mage-1")
	require.NoError(t, err)
	assert.Equal(t, locations.DemoTownSquare, mage.CurrentLocationID)

	outcome, err = provider.CastService.Cast(ctx, recall)
	require.NoError(t, err)
	assert.Equal(t, cast.ReasonNoChargesRemaining, outcome.Reason())

	report, err := provider.ResetScheduler.ResetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Reset)

	outcome, err = provider.CastService.Cast(ctx, recall)
	require.NoError(t, err)
	assert.True(t, outcome.Success)
}

func TestNewProvider_RulesReachLedger(t *testing.T) {
	now := &clock.Fixed{At: time.Date(2024, 5, 4, 12, 0, 0, 0, time.UTC)}
	provider, _ := newTestProvider(t, &config.RulesConfig{
		RoundDuration: 6 * time.Second,
		HomeArea:      "overworld",
		DayLength:     24 * time.Hour,
	}, now)

	outcome, err := provider.CastService.Cast(context.Background(), &castService.CastInput{
		ActorID:   "mage-1",
		AbilityID: "magic-missile",
		InCombat:  true,
	})
	require.NoError(t, err)
	require.True(t, outcome.Success)
	require.NotNil(t, outcome.Ledger.CooldownExpiresAt)
	assert.Equal(t, now.Now().Add(12*time.Second), *outcome.Ledger.CooldownExpiresAt)
}

func TestNewProvider_PanicsWithoutContent(t *testing.T) {
	assert.Panics(t, func() { NewProvider(&ProviderConfig{}) })
	assert.Panics(t, func() { NewProvider(nil) })
}

func TestOpenStorage_Memory(t *testing.T) {
	store, err := OpenStorage(context.Background(), &config.Config{Ledger: config.LedgerConfig{Backend: config.BackendMemory}})
	require.NoError(t, err)

	assert.NotNil(t, store.Ledgers)
	assert.NotNil(t, store.Actors)
	assert.NoError(t, store.Close())
}

func TestOpenStorage_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		Ledger: config.LedgerConfig{Backend: config.BackendSQLite},
		SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "ledger.db")},
	}

	store, err := OpenStorage(ctx, cfg)
	require.NoError(t, err)

	key := testutils.CreateTestKey("mage-1", "recall")
	require.NoError(t, store.Ledgers.Save(ctx, ledgerEntry(key, 0)))
	require.NoError(t, store.Close())

	reopened, err := OpenStorage(ctx, cfg)
	require.NoError(t, err)
	defer func() { assert.NoError(t, reopened.Close()) }()

	got, err := reopened.Ledgers.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Charges(1))
}

func TestOpenStorage_RedisErrors(t *testing.T) {
	tests := []struct {
		name  string
		redis config.RedisConfig
	}{
		{name: "malformed url", redis: config.RedisConfig{URL: "mysql://nope"}},
		{name: "unreachable", redis: config.RedisConfig{Addr: "127.0.0.1:1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := OpenStorage(context.Background(), &config.Config{
				Ledger: config.LedgerConfig{Backend: config.BackendRedis},
				Redis:  tt.redis,
			})
			assert.Error(t, err)
		})
	}
}

func TestOpenStorage_NilConfig(t *testing.T) {
	_, err := OpenStorage(context.Background(), nil)
	assert.Error(t, err)
}

func ledgerEntry(key ledger.Key, charges int) *ledger.Entry {
	return &ledger.Entry{
		Key:              key,
		RemainingCharges: testutils.IntPtr(charges),
		LastUsedAt:       time.Date(2024, 5, 4, 12, 0, 0, 0, time.UTC),
		TimesUsed:        1,
	}
}
