package ledgers

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/KirkDiggler/ability-engine/internal/domain/actor"
	"github.com/KirkDiggler/ability-engine/internal/domain/ledger"
	dnderr "github.com/KirkDiggler/ability-engine/internal/errors"
	"github.com/redis/go-redis/v9"
)

// redisRepo stores one JSON document per entry plus owner index sets
type redisRepo struct {
	client redis.UniversalClient
}

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client redis.UniversalClient
}

// NewRedisRepository creates a new Redis-backed ledger repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil {
		panic("RedisRepoConfig cannot be nil")
	}
	if cfg.Client == nil {
		panic("Redis client cannot be nil")
	}

	return &redisRepo{client: cfg.Client}
}

// NewRedis creates a new Redis-backed ledger repository
func NewRedis(client redis.UniversalClient) Repository {
	return NewRedisRepository(&RedisRepoConfig{Client: client})
}

// key generates the Redis key for an entry
func (r *redisRepo) key(key ledger.Key) string {
	return fmt.Sprintf("ledger:%s:%s:%s", key.OwnerType, key.OwnerID, key.AbilityID)
}

// ownerAbilitiesKey generates the Redis key for an owner's ability index.
// It lives outside the ledger: prefix so no ability id can collide with it.
func (r *redisRepo) ownerAbilitiesKey(owner ledger.Owner) string {
	return fmt.Sprintf("ledger_index:%s:%s", owner.Type, owner.ID)
}

// ownersKey is the set of every owner with entries
func (r *redisRepo) ownersKey() string {
	return "ledger:owners"
}

func (r *redisRepo) Get(ctx context.Context, key ledger.Key) (*ledger.Entry, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	b, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, dnderr.NotFoundf("ledger entry %s not found", key)
		}
		return nil, dnderr.WrapWithCode(err, dnderr.CodeUnavailable, "failed to get ledger entry from Redis")
	}

	return Decode(b)
}

func (r *redisRepo) Save(ctx context.Context, entry *ledger.Entry) error {
	if entry == nil {
		return dnderr.InvalidArgument("ledger entry cannot be nil")
	}
	if err := validateKey(entry.Key); err != nil {
		return err
	}

	next := entry.Clone()
	next.Revision = entry.Revision + 1
	b, err := Encode(next)
	if err != nil {
		return err
	}

	entryKey := r.key(entry.Key)
	owner := entry.Key.Owner()
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		stored, err := r.storedRevision(ctx, tx, entryKey)
		if err != nil {
			return err
		}
		if stored != entry.Revision {
			return conflict(entry.Key, entry.Revision, stored)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, entryKey, string(b), 0)
			pipe.SAdd(ctx, r.ownerAbilitiesKey(owner), entry.Key.AbilityID)
			pipe.SAdd(ctx, r.ownersKey(), owner.String())
			return nil
		})
		return err
	}, entryKey)
	if err != nil {
		return r.writeError(err, entry.Key, "failed to save ledger entry to Redis")
	}

	entry.Revision = next.Revision
	return nil
}

func (r *redisRepo) Delete(ctx context.Context, key ledger.Key, revision int64) error {
	if err := validateKey(key); err != nil {
		return err
	}

	entryKey := r.key(key)
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		b, err := tx.Get(ctx, entryKey).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}
		current, err := Decode(b)
		if err != nil {
			return err
		}
		if current.Revision != revision {
			return conflict(key, revision, current.Revision)
		}

		// The owner stays in the owners set; an owner without entries resets nothing.
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, entryKey)
			pipe.SRem(ctx, r.ownerAbilitiesKey(key.Owner()), key.AbilityID)
			return nil
		})
		return err
	}, entryKey)
	if err != nil {
		return r.writeError(err, key, "failed to delete ledger entry from Redis")
	}
	return nil
}

// storedRevision reads the revision of the watched entry, zero when absent
func (r *redisRepo) storedRevision(ctx context.Context, tx *redis.Tx, entryKey string) (int64, error) {
	b, err := tx.Get(ctx, entryKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	current, err := Decode(b)
	if err != nil {
		return 0, err
	}
	return current.Revision, nil
}

// writeError maps a failed optimistic transaction onto a coded error
func (r *redisRepo) writeError(err error, key ledger.Key, message string) error {
	switch {
	case errors.Is(err, redis.TxFailedErr):
		return dnderr.Conflictf("ledger entry %s changed during write", key).WithMeta("key", key.String())
	case dnderr.IsConflict(err), dnderr.IsDecode(err):
		return err
	default:
		return dnderr.WrapWithCode(err, dnderr.CodeUnavailable, message)
	}
}

func (r *redisRepo) ListByOwner(ctx context.Context, owner ledger.Owner) ([]*ledger.Entry, error) {
	abilityIDs, err := r.client.SMembers(ctx, r.ownerAbilitiesKey(owner)).Result()
	if err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeUnavailable, "failed to get owner abilities from Redis")
	}
	if len(abilityIDs) == 0 {
		return nil, nil
	}
	sort.Strings(abilityIDs)

	keys := make([]string, len(abilityIDs))
	for i, abilityID := range abilityIDs {
		keys[i] = r.key(ledger.Key{OwnerID: owner.ID, OwnerType: owner.Type, AbilityID: abilityID})
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeUnavailable, "failed to get ledger entries from Redis")
	}

	entries := make([]*ledger.Entry, 0, len(values))
	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			// index points at an entry that no longer exists
			continue
		}
		entry, err := Decode([]byte(raw))
		if err != nil {
			return nil, dnderr.Wrapf(err, "failed to decode %s", keys[i])
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *redisRepo) ListOwners(ctx context.Context) ([]ledger.Owner, error) {
	members, err := r.client.SMembers(ctx, r.ownersKey()).Result()
	if err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeUnavailable, "failed to get ledger owners from Redis")
	}
	sort.Strings(members)

	owners := make([]ledger.Owner, 0, len(members))
	for _, member := range members {
		ownerType, ownerID, found := strings.Cut(member, ":")
		if !found || ownerID == "" {
			continue
		}
		owners = append(owners, ledger.Owner{ID: ownerID, Type: actor.OwnerType(ownerType)})
	}
	return owners, nil
}
