package ability

import (
	"fmt"
	"time"
)

// CooldownKind is the tag of a CooldownPolicy
type CooldownKind string

const (
	CooldownNone         CooldownKind = "none"
	CooldownFixed        CooldownKind = "fixed_duration"
	CooldownChargePool   CooldownKind = "charge_pool"
	CooldownCombatRounds CooldownKind = "combat_rounds"
)

// CooldownPolicy is a tagged variant; only the field matching Kind is meaningful.
type CooldownPolicy struct {
	Kind       CooldownKind `json:"kind"`
	Seconds    int          `json:"seconds,omitempty"`
	MaxCharges int          `json:"max_charges,omitempty"`
	Rounds     int          `json:"rounds,omitempty"`
}

// NoCooldown is a policy that never records a use
func NoCooldown() CooldownPolicy {
	return CooldownPolicy{Kind: CooldownNone}
}

// FixedDuration locks the ability for seconds of wall-clock time after each use
func FixedDuration(seconds int) CooldownPolicy {
	return CooldownPolicy{Kind: CooldownFixed, Seconds: seconds}
}

// ChargePool allows maxCharges uses between daily resets
func ChargePool(maxCharges int) CooldownPolicy {
	return CooldownPolicy{Kind: CooldownChargePool, MaxCharges: maxCharges}
}

// CombatRounds locks the ability for a number of combat rounds after each use
func CombatRounds(rounds int) CooldownPolicy {
	return CooldownPolicy{Kind: CooldownCombatRounds, Rounds: rounds}
}

// Normalized maps the zero value to None so records without a policy stay castable
func (p CooldownPolicy) Normalized() CooldownPolicy {
	if p.Kind == "" {
		return NoCooldown()
	}
	return p
}

// IsTimed reports whether the policy is tracked by an expiry instant
func (p CooldownPolicy) IsTimed() bool {
	return p.Kind == CooldownFixed || p.Kind == CooldownCombatRounds
}

// Duration is the lockout window for timed policies, zero otherwise.
func (p CooldownPolicy) Duration(roundDuration time.Duration) time.Duration {
	switch p.Kind {
	case CooldownFixed:
		return time.Duration(p.Seconds) * time.Second
	case CooldownCombatRounds:
		return time.Duration(p.Rounds) * roundDuration
	default:
		return 0
	}
}

// Validate rejects negative or zero-sized parameters for the active modality
func (p CooldownPolicy) Validate() error {
	switch p.Normalized().Kind {
	case CooldownNone:
		return nil
	case CooldownFixed:
		if p.Seconds <= 0 {
			return fmt.Errorf("fixed_duration cooldown needs positive seconds, got %d", p.Seconds)
		}
	case CooldownChargePool:
		if p.MaxCharges <= 0 {
			return fmt.Errorf("charge_pool cooldown needs positive max charges, got %d", p.MaxCharges)
		}
	case CooldownCombatRounds:
		if p.Rounds <= 0 {
			return fmt.Errorf("combat_rounds cooldown needs positive rounds, got %d", p.Rounds)
		}
	default:
		return fmt.Errorf("unknown cooldown kind %q", p.Kind)
	}
	return nil
}

func (p CooldownPolicy) String() string {
	switch p.Kind {
	case CooldownFixed:
		return fmt.Sprintf("%ds cooldown", p.Seconds)
	case CooldownChargePool:
		return fmt.Sprintf("%d charges per day", p.MaxCharges)
	case CooldownCombatRounds:
		return fmt.Sprintf("%d round cooldown", p.Rounds)
	default:
		return "no cooldown"
	}
}
