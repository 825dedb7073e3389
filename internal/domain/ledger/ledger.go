// Package ledger holds the persisted per-owner, per-ability cooldown bookkeeping.
package ledger

import (
	"fmt"
	"time"

	"github.com/KirkDiggler/ability-engine/internal/domain/actor"
)

// Key identifies one ledger entry
type Key struct {
	OwnerID   string          `json:"owner_id"`
	OwnerType actor.OwnerType `json:"owner_type"`
	AbilityID string          `json:"ability_id"`
}

// Owner returns the owner half of the key
func (k Key) Owner() Owner {
	return Owner{ID: k.OwnerID, Type: k.OwnerType}
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%s:%s", k.OwnerType, k.OwnerID, k.AbilityID)
}

// Owner identifies whose entries these are
type Owner struct {
	ID   string          `json:"id"`
	Type actor.OwnerType `json:"type"`
}

func (o Owner) String() string {
	return fmt.Sprintf("%s:%s", o.Type, o.ID)
}

// Entry is the cooldown and charge state of one (owner, ability) pair.
// A missing entry means the ability is fully available.
type Entry struct {
	Key               Key        `json:"key"`
	CooldownExpiresAt *time.Time `json:"cooldown_expires_at,omitempty"`
	// RemainingCharges is only set for charge pool abilities.
	RemainingCharges *int      `json:"remaining_charges,omitempty"`
	LastUsedAt       time.Time `json:"last_used_at"`
	TimesUsed        int       `json:"times_used"`

	// Revision is the stored version this entry was read at; zero means
	// it has never been saved. Repositories bump it on every write.
	Revision int64 `json:"revision"`
}

// Clone returns a copy that shares no pointers with the receiver
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	out := *e
	if e.CooldownExpiresAt != nil {
		at := *e.CooldownExpiresAt
		out.CooldownExpiresAt = &at
	}
	if e.RemainingCharges != nil {
		n := *e.RemainingCharges
		out.RemainingCharges = &n
	}
	return &out
}

// Charges returns the remaining charges, treating an unset pool as full
// and clamping malformed persisted counts into [0, maxCharges].
func (e *Entry) Charges(maxCharges int) int {
	if e == nil || e.RemainingCharges == nil {
		return maxCharges
	}
	n := *e.RemainingCharges
	if n < 0 {
		return 0
	}
	if n > maxCharges {
		return maxCharges
	}
	return n
}

// CooldownRemaining returns how long the entry stays locked after now
func (e *Entry) CooldownRemaining(now time.Time) time.Duration {
	if e == nil || e.CooldownExpiresAt == nil {
		return 0
	}
	if !now.Before(*e.CooldownExpiresAt) {
		return 0
	}
	return e.CooldownExpiresAt.Sub(now)
}
