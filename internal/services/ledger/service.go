// Package ledger decides whether an ability is off cooldown and charges it
// after a successful cast. Reads and writes for one key run under a per-key
// lock inside this process; across processes every write is a compare-and-swap
// on the entry revision and is retried against the fresh entry.
package ledger

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/KirkDiggler/ability-engine/internal/domain/ability"
	"github.com/KirkDiggler/ability-engine/internal/domain/cast"
	"github.com/KirkDiggler/ability-engine/internal/domain/ledger"
	dnderr "github.com/KirkDiggler/ability-engine/internal/errors"
	"github.com/KirkDiggler/ability-engine/internal/repositories/ledgers"
)

// DefaultRoundDuration is the wall-clock length of one combat round
const DefaultRoundDuration = 3 * time.Second

// maxWriteAttempts bounds the read-modify-write retries on revision conflicts
const maxWriteAttempts = 8

// Action is the effect run once the use has been charged.
// Returning false or an error refunds the charge.
type Action func(ctx context.Context) (bool, error)

// Service is the cooldown and charge ledger
type Service interface {
	// CheckAvailable is read-only; a nil failure means the ability may be used at now
	CheckAvailable(ctx context.Context, key ledger.Key, policy ability.CooldownPolicy, now time.Time) (*cast.Failure, error)

	// Consume charges one use. It is the only mutator used by casts.
	Consume(ctx context.Context, key ledger.Key, policy ability.CooldownPolicy, now time.Time) (*ledger.Entry, error)

	// Guard charges one use, runs fn and refunds the use when fn fails.
	// An unavailable ability never reaches fn.
	Guard(ctx context.Context, key ledger.Key, policy ability.CooldownPolicy, now time.Time, fn Action) (*cast.Failure, *ledger.Entry, error)

	// ResetCharges refills a charge pool entry. It reports false when there was nothing to refill.
	ResetCharges(ctx context.Context, key ledger.Key, maxCharges int) (bool, error)
}

type service struct {
	repo          ledgers.Repository
	roundDuration time.Duration
	locks         *keyedLock
}

// ServiceConfig holds configuration for the ledger service
type ServiceConfig struct {
	Repository ledgers.Repository

	// RoundDuration converts CombatRounds policies; defaults to DefaultRoundDuration.
	RoundDuration time.Duration
}

// NewService creates a ledger service
func NewService(cfg *ServiceConfig) Service {
	if cfg == nil || cfg.Repository == nil {
		panic("ledger repository is required")
	}

	svc := &service{
		repo:          cfg.Repository,
		roundDuration: cfg.RoundDuration,
		locks:         newKeyedLock(),
	}

	if svc.roundDuration <= 0 {
		svc.roundDuration = DefaultRoundDuration
	}

	return svc
}

func (s *service) CheckAvailable(ctx context.Context, key ledger.Key, policy ability.CooldownPolicy, now time.Time) (*cast.Failure, error) {
	unlock, err := s.lock(ctx, key)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return s.check(ctx, key, policy.Normalized(), truncate(now))
}

func (s *service) Consume(ctx context.Context, key ledger.Key, policy ability.CooldownPolicy, now time.Time) (*ledger.Entry, error) {
	unlock, err := s.lock(ctx, key)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return s.consume(ctx, key, policy.Normalized(), truncate(now))
}

func (s *service) Guard(ctx context.Context, key ledger.Key, policy ability.CooldownPolicy, now time.Time, fn Action) (*cast.Failure, *ledger.Entry, error) {
	if fn == nil {
		return nil, nil, dnderr.InvalidArgument("guarded action cannot be nil")
	}

	unlock, err := s.lock(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	defer unlock()

	policy = policy.Normalized()
	now = truncate(now)

	failure, prior, reserved, err := s.reserve(ctx, key, policy, now)
	if err != nil || failure != nil {
		return failure, nil, err
	}

	ok, err := fn(ctx)
	if err == nil && ok {
		return nil, reserved, nil
	}

	if reserved != nil {
		// the effect may have failed on a cancelled context; the refund must still land
		if refundErr := s.refund(context.WithoutCancel(ctx), key, policy, prior, reserved); refundErr != nil {
			log.Printf("Ledger: failed to refund %s: %v", key, refundErr)
			if err == nil {
				err = refundErr
			}
		}
	}
	return nil, nil, err
}

func (s *service) ResetCharges(ctx context.Context, key ledger.Key, maxCharges int) (bool, error) {
	if maxCharges <= 0 {
		return false, dnderr.InvalidArgumentf("max charges must be positive, got %d", maxCharges)
	}

	unlock, err := s.lock(ctx, key)
	if err != nil {
		return false, err
	}
	defer unlock()

	for range maxWriteAttempts {
		entry, err := s.get(ctx, key)
		if err != nil {
			return false, err
		}
		if entry == nil {
			return false, nil
		}
		if entry.RemainingCharges != nil && *entry.RemainingCharges == maxCharges {
			return false, nil
		}

		full := maxCharges
		entry.RemainingCharges = &full
		err = s.repo.Save(ctx, entry)
		if dnderr.IsConflict(err) {
			continue
		}
		if err != nil {
			return false, dnderr.Wrapf(err, "failed to save ledger entry %s", key)
		}

		log.Printf("Ledger: refilled %s to %d charges", key, maxCharges)
		return true, nil
	}
	return false, exhausted(key)
}

func (s *service) lock(ctx context.Context, key ledger.Key) (func(), error) {
	if key.OwnerID == "" || key.OwnerType == "" || key.AbilityID == "" {
		return nil, dnderr.InvalidArgumentf("incomplete ledger key %s", key)
	}

	unlock, err := s.locks.acquire(ctx, key.String())
	if err != nil {
		return nil, dnderr.Wrapf(err, "failed to lock ledger entry %s", key)
	}
	return unlock, nil
}

// get returns nil without error when the key has no entry
func (s *service) get(ctx context.Context, key ledger.Key) (*ledger.Entry, error) {
	entry, err := s.repo.Get(ctx, key)
	if dnderr.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, dnderr.Wrapf(err, "failed to get ledger entry %s", key)
	}
	return entry, nil
}

func (s *service) check(ctx context.Context, key ledger.Key, policy ability.CooldownPolicy, now time.Time) (*cast.Failure, error) {
	if err := policy.Validate(); err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeInvalidArgument, "invalid cooldown policy")
	}
	if policy.Kind == ability.CooldownNone {
		return nil, nil
	}

	entry, err := s.get(ctx, key)
	if err != nil {
		return nil, err
	}
	return availability(entry, policy, now)
}

func (s *service) consume(ctx context.Context, key ledger.Key, policy ability.CooldownPolicy, now time.Time) (*ledger.Entry, error) {
	if err := policy.Validate(); err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeInvalidArgument, "invalid cooldown policy")
	}
	if policy.Kind == ability.CooldownNone {
		return nil, nil
	}

	for range maxWriteAttempts {
		prior, err := s.get(ctx, key)
		if err != nil {
			return nil, err
		}

		next := s.charge(key, prior, policy, now)
		err = s.repo.Save(ctx, next)
		if dnderr.IsConflict(err) {
			continue
		}
		if err != nil {
			return nil, dnderr.Wrapf(err, "failed to save ledger entry %s", key)
		}
		return next.Clone(), nil
	}
	return nil, exhausted(key)
}

// reserve checks availability and charges one use in a single
// compare-and-swap, so no other writer can spend the same charge.
// It returns the entry as it was before the charge and the charged entry.
func (s *service) reserve(ctx context.Context, key ledger.Key, policy ability.CooldownPolicy, now time.Time) (*cast.Failure, *ledger.Entry, *ledger.Entry, error) {
	if err := policy.Validate(); err != nil {
		return nil, nil, nil, dnderr.WrapWithCode(err, dnderr.CodeInvalidArgument, "invalid cooldown policy")
	}
	if policy.Kind == ability.CooldownNone {
		return nil, nil, nil, nil
	}

	for range maxWriteAttempts {
		prior, err := s.get(ctx, key)
		if err != nil {
			return nil, nil, nil, err
		}
		failure, err := availability(prior, policy, now)
		if err != nil || failure != nil {
			return failure, nil, nil, err
		}

		next := s.charge(key, prior, policy, now)
		err = s.repo.Save(ctx, next)
		if dnderr.IsConflict(err) {
			continue
		}
		if err != nil {
			return nil, nil, nil, dnderr.Wrapf(err, "failed to save ledger entry %s", key)
		}
		return nil, prior, next.Clone(), nil
	}
	return nil, nil, nil, exhausted(key)
}

// refund gives back a reserved use. If nothing wrote the entry since the
// reservation the prior state is restored outright; otherwise the use is
// backed out of whatever is stored now.
func (s *service) refund(ctx context.Context, key ledger.Key, policy ability.CooldownPolicy, prior, reserved *ledger.Entry) error {
	for range maxWriteAttempts {
		current, err := s.get(ctx, key)
		if err != nil {
			return err
		}
		if current == nil {
			return nil
		}

		if current.Revision == reserved.Revision {
			if prior == nil {
				err = s.repo.Delete(ctx, key, current.Revision)
			} else {
				restored := prior.Clone()
				restored.Revision = current.Revision
				err = s.repo.Save(ctx, restored)
			}
		} else {
			err = s.repo.Save(ctx, uncharge(current, prior, reserved, policy))
		}
		if dnderr.IsConflict(err) {
			continue
		}
		if err != nil {
			return dnderr.Wrapf(err, "failed to refund ledger entry %s", key)
		}

		log.Printf("Ledger: refunded %s", key)
		return nil
	}
	return exhausted(key)
}

// charge returns a copy of prior with one use applied
func (s *service) charge(key ledger.Key, prior *ledger.Entry, policy ability.CooldownPolicy, now time.Time) *ledger.Entry {
	next := prior.Clone()
	if next == nil {
		next = &ledger.Entry{Key: key}
	}

	switch policy.Kind {
	case ability.CooldownFixed, ability.CooldownCombatRounds:
		expires := now.Add(policy.Duration(s.roundDuration))
		next.CooldownExpiresAt = &expires
	case ability.CooldownChargePool:
		remaining := max(0, next.Charges(policy.MaxCharges)-1)
		next.RemainingCharges = &remaining
	}
	next.LastUsedAt = now
	next.TimesUsed++
	return next
}

// uncharge backs one reserved use out of an entry another writer has since changed
func uncharge(current, prior, reserved *ledger.Entry, policy ability.CooldownPolicy) *ledger.Entry {
	out := current.Clone()

	switch policy.Kind {
	case ability.CooldownFixed, ability.CooldownCombatRounds:
		// a later cast owns the cooldown now
		if sameInstant(out.CooldownExpiresAt, reserved.CooldownExpiresAt) {
			out.CooldownExpiresAt = nil
			if prior != nil && prior.CooldownExpiresAt != nil {
				at := *prior.CooldownExpiresAt
				out.CooldownExpiresAt = &at
			}
		}
	case ability.CooldownChargePool:
		charges := min(policy.MaxCharges, out.Charges(policy.MaxCharges)+1)
		out.RemainingCharges = &charges
	}

	if out.LastUsedAt.Equal(reserved.LastUsedAt) && prior != nil {
		out.LastUsedAt = prior.LastUsedAt
	}
	out.TimesUsed = max(0, out.TimesUsed-1)
	return out
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// availability decides from a stored entry whether one more use is allowed
func availability(entry *ledger.Entry, policy ability.CooldownPolicy, now time.Time) (*cast.Failure, error) {
	switch policy.Kind {
	case ability.CooldownNone:
		return nil, nil

	case ability.CooldownFixed, ability.CooldownCombatRounds:
		remaining := entry.CooldownRemaining(now)
		if remaining <= 0 {
			return nil, nil
		}
		seconds := remainingSeconds(remaining)
		return &cast.Failure{
			Reason:           cast.ReasonOnCooldown,
			Message:          fmt.Sprintf("ability is on cooldown for %ds", seconds),
			RemainingSeconds: seconds,
		}, nil

	case ability.CooldownChargePool:
		if entry.Charges(policy.MaxCharges) > 0 {
			return nil, nil
		}
		return &cast.Failure{
			Reason:  cast.ReasonNoChargesRemaining,
			Message: "no charges remaining until the next daily reset",
		}, nil
	}

	return nil, dnderr.InvalidArgumentf("unknown cooldown kind %q", policy.Kind)
}

func exhausted(key ledger.Key) error {
	return dnderr.Conflictf("ledger entry %s kept changing; gave up after %d attempts", key, maxWriteAttempts)
}

// truncate drops sub-millisecond precision so persisted instants round-trip exactly
func truncate(now time.Time) time.Time {
	return now.UTC().Truncate(time.Millisecond)
}

func remainingSeconds(d time.Duration) int {
	seconds := int(math.Ceil(d.Seconds()))
	if seconds < 1 {
		return 1
	}
	return seconds
}
