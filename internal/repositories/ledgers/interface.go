package ledgers

//go:generate mockgen -destination=mock/mock.go -package=mockledgers -source=interface.go

import (
	"context"

	"github.com/KirkDiggler/ability-engine/internal/domain/ledger"
)

// Repository persists ledger entries. Entries must survive restarts because
// cooldowns span real time.
//
// Writes are compare-and-swap on Entry.Revision so that several processes
// sharing one store (casters and the reset daemon) never overwrite each other.
type Repository interface {
	// Get returns the entry for key, or a dnderr not found error when none exists
	Get(ctx context.Context, key ledger.Key) (*ledger.Entry, error)

	// Save writes the entry only if the stored revision still equals
	// entry.Revision (zero: no entry stored yet). On success entry.Revision
	// holds the new revision; otherwise a dnderr conflict error is returned.
	Save(ctx context.Context, entry *ledger.Entry) error

	// Delete removes the entry if its stored revision equals revision.
	// Deleting an absent entry is a no-op.
	Delete(ctx context.Context, key ledger.Key, revision int64) error

	// ListByOwner returns every entry of one owner, ordered by ability id
	ListByOwner(ctx context.Context, owner ledger.Owner) ([]*ledger.Entry, error)

	// ListOwners returns every owner that has at least one entry
	ListOwners(ctx context.Context) ([]ledger.Owner, error)
}
