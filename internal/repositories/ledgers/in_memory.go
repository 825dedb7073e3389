package ledgers

import (
	"context"
	"sort"
	"sync"

	"github.com/KirkDiggler/ability-engine/internal/domain/ledger"
	dnderr "github.com/KirkDiggler/ability-engine/internal/errors"
)

type inMemoryRepository struct {
	mu      sync.RWMutex
	entries map[ledger.Key]*ledger.Entry
}

// NewInMemoryRepository creates a ledger repository that lives for the process lifetime
func NewInMemoryRepository() Repository {
	return &inMemoryRepository{
		entries: make(map[ledger.Key]*ledger.Entry),
	}
}

func (r *inMemoryRepository) Get(ctx context.Context, key ledger.Key) (*ledger.Entry, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.entries[key]
	if !exists {
		return nil, dnderr.NotFoundf("ledger entry %s not found", key)
	}
	return entry.Clone(), nil
}

func (r *inMemoryRepository) Save(ctx context.Context, entry *ledger.Entry) error {
	if entry == nil {
		return dnderr.InvalidArgument("ledger entry cannot be nil")
	}
	if err := validateKey(entry.Key); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var stored int64
	if current, exists := r.entries[entry.Key]; exists {
		stored = current.Revision
	}
	if stored != entry.Revision {
		return conflict(entry.Key, entry.Revision, stored)
	}

	entry.Revision = stored + 1
	r.entries[entry.Key] = entry.Clone()
	return nil
}

func (r *inMemoryRepository) Delete(ctx context.Context, key ledger.Key, revision int64) error {
	if err := validateKey(key); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.entries[key]
	if !exists {
		return nil
	}
	if current.Revision != revision {
		return conflict(key, revision, current.Revision)
	}
	delete(r.entries, key)
	return nil
}

func (r *inMemoryRepository) ListByOwner(ctx context.Context, owner ledger.Owner) ([]*ledger.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*ledger.Entry
	for key, entry := range r.entries {
		if key.Owner() == owner {
			out = append(out, entry.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key.AbilityID < out[j].Key.AbilityID
	})
	return out, nil
}

func (r *inMemoryRepository) ListOwners(ctx context.Context) ([]ledger.Owner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[ledger.Owner]struct{})
	for key := range r.entries {
		seen[key.Owner()] = struct{}{}
	}

	owners := make([]ledger.Owner, 0, len(seen))
	for owner := range seen {
		owners = append(owners, owner)
	}
	sort.Slice(owners, func(i, j int) bool {
		return owners[i].String() < owners[j].String()
	})
	return owners, nil
}
