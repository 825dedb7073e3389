package ledgers

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/KirkDiggler/ability-engine/internal/domain/actor"
	"github.com/KirkDiggler/ability-engine/internal/domain/ledger"
	dnderr "github.com/KirkDiggler/ability-engine/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := OpenSQLite(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestSQLiteStore_Contract(t *testing.T) {
	runRepositoryContract(t, openTestSQLite(t))
}

func TestOpenSQLite_RequiresPath(t *testing.T) {
	_, err := OpenSQLite("  ")
	assert.True(t, dnderr.IsInvalidArgument(err))
}

func TestSQLiteStore_ClosedStoreIsUnavailable(t *testing.T) {
	ctx := t.Context()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	key := ledger.Key{OwnerID: "char-1", OwnerType: actor.OwnerCharacter, AbilityID: "light"}

	_, err = store.Get(ctx, key)
	assert.Equal(t, dnderr.CodeUnavailable, dnderr.GetCode(err))

	err = store.Save(ctx, &ledger.Entry{Key: key, RemainingCharges: intPtr(1)})
	assert.Equal(t, dnderr.CodeUnavailable, dnderr.GetCode(err))

	_, err = store.ListByOwner(ctx, key.Owner())
	assert.Equal(t, dnderr.CodeUnavailable, dnderr.GetCode(err))

	_, err = store.ListOwners(ctx)
	assert.Equal(t, dnderr.CodeUnavailable, dnderr.GetCode(err))
}

func TestOpenSQLite_AddsRevisionToOldTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	old, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = old.Exec(`CREATE TABLE ledger_entries (
		owner_type TEXT NOT NULL, owner_id TEXT NOT NULL, ability_id TEXT NOT NULL,
		cooldown_expires_at INTEGER NULL, remaining_charges INTEGER NULL,
		last_used_at INTEGER NOT NULL DEFAULT 0, times_used INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (owner_type, owner_id, ability_id))`)
	require.NoError(t, err)
	_, err = old.Exec(`INSERT INTO ledger_entries (owner_type, owner_id, ability_id, remaining_charges, times_used)
		VALUES ('character', 'char-1', 'light', 1, 2)`)
	require.NoError(t, err)
	require.NoError(t, old.Close())

	store, err := OpenSQLite(path)
	require.NoError(t, err)
	defer store.Close()

	key := ledger.Key{OwnerID: "char-1", OwnerType: actor.OwnerCharacter, AbilityID: "light"}
	entry, err := store.Get(t.Context(), key)
	require.NoError(t, err)
	assert.Equal(t, int64(1), entry.Revision)
	assert.Equal(t, 2, entry.TimesUsed)

	entry.RemainingCharges = intPtr(0)
	require.NoError(t, store.Save(t.Context(), entry))
	assert.Equal(t, int64(2), entry.Revision)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	first, err := OpenSQLite(path)
	require.NoError(t, err)
	runRepositoryContract(t, first)
	require.NoError(t, first.Close())

	second, err := OpenSQLite(path)
	require.NoError(t, err)
	defer second.Close()

	owners, err := second.ListOwners(t.Context())
	require.NoError(t, err)
	assert.Len(t, owners, 2)
}
