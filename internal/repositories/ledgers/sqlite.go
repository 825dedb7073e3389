package ledgers

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"

	"github.com/KirkDiggler/ability-engine/internal/domain/actor"
	"github.com/KirkDiggler/ability-engine/internal/domain/ledger"
	dnderr "github.com/KirkDiggler/ability-engine/internal/errors"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS ledger_entries (
	owner_type          TEXT    NOT NULL,
	owner_id            TEXT    NOT NULL,
	ability_id          TEXT    NOT NULL,
	cooldown_expires_at INTEGER NULL,
	remaining_charges   INTEGER NULL,
	last_used_at        INTEGER NOT NULL DEFAULT 0,
	times_used          INTEGER NOT NULL DEFAULT 0,
	revision            INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (owner_type, owner_id, ability_id)
)`

// SQLiteStore persists ledger entries in a single SQLite table.
type SQLiteStore struct {
	sqlDB *sql.DB
}

// OpenSQLite opens (creating if needed) a SQLite ledger store
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, dnderr.InvalidArgument("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeUnavailable, "failed to open SQLite db")
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, dnderr.WrapWithCode(err, dnderr.CodeUnavailable, "failed to ping SQLite db")
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, dnderr.WrapWithCode(err, dnderr.CodeUnavailable, "failed to create ledger schema")
	}
	if err := addRevisionColumn(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return &SQLiteStore{sqlDB: sqlDB}, nil
}

// addRevisionColumn upgrades tables created before entries carried a revision
func addRevisionColumn(sqlDB *sql.DB) error {
	rows, err := sqlDB.Query(`SELECT name FROM pragma_table_info('ledger_entries')`)
	if err != nil {
		return dnderr.WrapWithCode(err, dnderr.CodeUnavailable, "failed to inspect ledger schema")
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return dnderr.WrapWithCode(err, dnderr.CodeUnavailable, "failed to inspect ledger schema")
		}
		if name == "revision" {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return dnderr.WrapWithCode(err, dnderr.CodeUnavailable, "failed to inspect ledger schema")
	}

	if _, err := sqlDB.Exec(`ALTER TABLE ledger_entries ADD COLUMN revision INTEGER NOT NULL DEFAULT 0`); err != nil {
		return dnderr.WrapWithCode(err, dnderr.CodeUnavailable, "failed to add revision column")
	}
	// Revision zero means "not stored", so existing rows start at one
	if _, err := sqlDB.Exec(`UPDATE ledger_entries SET revision = 1`); err != nil {
		return dnderr.WrapWithCode(err, dnderr.CodeUnavailable, "failed to add revision column")
	}
	return nil
}

// Close closes the SQLite handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, key ledger.Key) (*ledger.Entry, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT owner_type, owner_id, ability_id, cooldown_expires_at, remaining_charges, last_used_at, times_used, revision
		   FROM ledger_entries
		  WHERE owner_type = ? AND owner_id = ? AND ability_id = ?`,
		string(key.OwnerType), key.OwnerID, key.AbilityID,
	)
	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dnderr.NotFoundf("ledger entry %s not found", key)
		}
		return nil, dnderr.WrapWithCode(err, dnderr.CodeUnavailable, "failed to get ledger entry from SQLite")
	}
	return entry, nil
}

func (s *SQLiteStore) Save(ctx context.Context, entry *ledger.Entry) error {
	if entry == nil {
		return dnderr.InvalidArgument("ledger entry cannot be nil")
	}
	if err := validateKey(entry.Key); err != nil {
		return err
	}

	data := toData(entry)
	var (
		result sql.Result
		err    error
	)
	if entry.Revision == 0 {
		result, err = s.sqlDB.ExecContext(ctx,
			`INSERT INTO ledger_entries (
			   owner_type, owner_id, ability_id, cooldown_expires_at, remaining_charges, last_used_at, times_used, revision
			 ) VALUES (?, ?, ?, ?, ?, ?, ?, 1)
			 ON CONFLICT(owner_type, owner_id, ability_id) DO NOTHING`,
			data.OwnerType, data.OwnerID, data.AbilityID,
			nullableInt64(data.CooldownExpiresAt), nullableInt(data.RemainingCharges),
			data.LastUsedAt, data.TimesUsed,
		)
	} else {
		result, err = s.sqlDB.ExecContext(ctx,
			`UPDATE ledger_entries
			    SET cooldown_expires_at = ?, remaining_charges = ?, last_used_at = ?, times_used = ?, revision = revision + 1
			  WHERE owner_type = ? AND owner_id = ? AND ability_id = ? AND revision = ?`,
			nullableInt64(data.CooldownExpiresAt), nullableInt(data.RemainingCharges),
			data.LastUsedAt, data.TimesUsed,
			data.OwnerType, data.OwnerID, data.AbilityID, entry.Revision,
		)
	}
	if err != nil {
		return dnderr.WrapWithCode(err, dnderr.CodeUnavailable, "failed to save ledger entry to SQLite")
	}

	if err := s.requireOneRow(ctx, result, entry.Key, entry.Revision); err != nil {
		return err
	}
	entry.Revision++
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key ledger.Key, revision int64) error {
	if err := validateKey(key); err != nil {
		return err
	}

	result, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM ledger_entries
		  WHERE owner_type = ? AND owner_id = ? AND ability_id = ? AND revision = ?`,
		string(key.OwnerType), key.OwnerID, key.AbilityID, revision,
	)
	if err != nil {
		return dnderr.WrapWithCode(err, dnderr.CodeUnavailable, "failed to delete ledger entry from SQLite")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return dnderr.WrapWithCode(err, dnderr.CodeUnavailable, "failed to delete ledger entry from SQLite")
	}
	if affected == 1 {
		return nil
	}

	// Nothing matched: either the entry is gone or it moved on
	current, err := s.Get(ctx, key)
	if dnderr.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return conflict(key, revision, current.Revision)
}

// requireOneRow turns a write that matched no row into a conflict
func (s *SQLiteStore) requireOneRow(ctx context.Context, result sql.Result, key ledger.Key, expected int64) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return dnderr.WrapWithCode(err, dnderr.CodeUnavailable, "failed to save ledger entry to SQLite")
	}
	if affected == 1 {
		return nil
	}

	var stored int64
	current, err := s.Get(ctx, key)
	switch {
	case err == nil:
		stored = current.Revision
	case !dnderr.IsNotFound(err):
		return err
	}
	return conflict(key, expected, stored)
}

func (s *SQLiteStore) ListByOwner(ctx context.Context, owner ledger.Owner) ([]*ledger.Entry, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT owner_type, owner_id, ability_id, cooldown_expires_at, remaining_charges, last_used_at, times_used, revision
		   FROM ledger_entries
		  WHERE owner_type = ? AND owner_id = ?
		  ORDER BY ability_id`,
		string(owner.Type), owner.ID,
	)
	if err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeUnavailable, "failed to list ledger entries from SQLite")
	}
	defer rows.Close()

	var entries []*ledger.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, dnderr.WrapWithCode(err, dnderr.CodeUnavailable, "failed to scan ledger entry")
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeUnavailable, "failed to iterate ledger entries")
	}
	return entries, nil
}

func (s *SQLiteStore) ListOwners(ctx context.Context) ([]ledger.Owner, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT DISTINCT owner_type, owner_id FROM ledger_entries ORDER BY owner_type, owner_id`,
	)
	if err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeUnavailable, "failed to list ledger owners from SQLite")
	}
	defer rows.Close()

	var owners []ledger.Owner
	for rows.Next() {
		var ownerType, ownerID string
		if err := rows.Scan(&ownerType, &ownerID); err != nil {
			return nil, dnderr.WrapWithCode(err, dnderr.CodeUnavailable, "failed to scan ledger owner")
		}
		owners = append(owners, ledger.Owner{ID: ownerID, Type: actor.OwnerType(ownerType)})
	}
	if err := rows.Err(); err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeUnavailable, "failed to iterate ledger owners")
	}
	return owners, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*ledger.Entry, error) {
	var (
		data      Data
		expiresAt sql.NullInt64
		charges   sql.NullInt64
	)
	if err := row.Scan(&data.OwnerType, &data.OwnerID, &data.AbilityID, &expiresAt, &charges, &data.LastUsedAt, &data.TimesUsed, &data.Revision); err != nil {
		return nil, err
	}
	if expiresAt.Valid {
		data.CooldownExpiresAt = &expiresAt.Int64
	}
	if charges.Valid {
		n := int(charges.Int64)
		data.RemainingCharges = &n
	}
	return fromData(&data), nil
}

func nullableInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
