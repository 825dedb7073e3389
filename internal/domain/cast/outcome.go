// Package cast holds the result types of a cast attempt.
package cast

import (
	"fmt"
	"time"

	"github.com/KirkDiggler/ability-engine/internal/domain/ledger"
	"github.com/KirkDiggler/ability-engine/internal/domain/world"
)

// LocationChange describes a move performed by a utility ability
type LocationChange struct {
	FromLocationID string `json:"from_location_id,omitempty"`
	ToLocationID   string `json:"to_location_id"`
	ToName         string `json:"to_name"`
}

// RevealedInfo is what detection magic uncovered; all empty is still a success
type RevealedInfo struct {
	HiddenExits        []world.HiddenExit `json:"hidden_exits"`
	Traps              []world.Trap       `json:"traps"`
	InvisibleCreatures []world.Creature   `json:"invisible_creatures"`
}

// Empty reports whether nothing was revealed
func (r *RevealedInfo) Empty() bool {
	return r == nil || (len(r.HiddenExits) == 0 && len(r.Traps) == 0 && len(r.InvisibleCreatures) == 0)
}

// StatusEffect is handed to the status subsystem to apply
type StatusEffect struct {
	Name            string `json:"name"`
	DurationSeconds int    `json:"duration_seconds"`
}

// MutationKind names a world-state change produced by a cast
type MutationKind string

const (
	MutationLocationChanged  MutationKind = "location_changed"
	MutationLocationVisited  MutationKind = "location_visited"
	MutationStatusApplied    MutationKind = "status_applied"
	MutationSecretsRevealed  MutationKind = "secrets_revealed"
	MutationUnlockRequested  MutationKind = "unlock_requested"
	MutationAbilityActivated MutationKind = "ability_activated"
)

// Mutation is one observable side effect of a successful cast
type Mutation struct {
	ID         string         `json:"id"`
	Kind       MutationKind   `json:"kind"`
	ActorID    string         `json:"actor_id"`
	AbilityID  string         `json:"ability_id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Data       map[string]any `json:"data,omitempty"`
}

// Outcome is either a success or a failure, never both: Failure is nil on success.
type Outcome struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`

	LocationChange *LocationChange `json:"location_change,omitempty"`
	RevealedInfo   *RevealedInfo   `json:"revealed_info,omitempty"`
	StatusEffect   *StatusEffect   `json:"status_effect,omitempty"`
	TargetID       string          `json:"target_id,omitempty"`
	Mutations      []Mutation      `json:"mutations,omitempty"`
	Ledger         *ledger.Entry   `json:"ledger,omitempty"`

	Failure *Failure `json:"failure,omitempty"`
}

// Succeeded builds a success outcome
func Succeeded(message string) *Outcome {
	return &Outcome{Success: true, Message: message}
}

// Failed builds a failure outcome
func Failed(reason Reason, message string) *Outcome {
	return FromFailure(&Failure{Reason: reason, Message: message})
}

// Failedf builds a failure outcome with a formatted message
func Failedf(reason Reason, format string, args ...any) *Outcome {
	return Failed(reason, fmt.Sprintf(format, args...))
}

// FromFailure wraps an existing failure
func FromFailure(f *Failure) *Outcome {
	return &Outcome{Success: false, Message: f.Message, Failure: f}
}

// Reason returns the failure reason, or "" on success
func (o *Outcome) Reason() Reason {
	if o == nil || o.Failure == nil {
		return ""
	}
	return o.Failure.Reason
}
