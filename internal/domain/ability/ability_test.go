package ability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCooldownPolicy_Duration(t *testing.T) {
	round := 3 * time.Second

	assert.Equal(t, 30*time.Second, FixedDuration(30).Duration(round))
	assert.Equal(t, 9*time.Second, CombatRounds(3).Duration(round))
	assert.Equal(t, 18*time.Second, CombatRounds(3).Duration(6*time.Second))
	assert.Zero(t, ChargePool(2).Duration(round))
	assert.Zero(t, NoCooldown().Duration(round))
}

func TestCooldownPolicy_Validate(t *testing.T) {
	assert.NoError(t, CooldownPolicy{}.Validate())
	assert.NoError(t, ChargePool(3).Validate())
	assert.Error(t, FixedDuration(0).Validate())
	assert.Error(t, ChargePool(-1).Validate())
	assert.Error(t, CombatRounds(0).Validate())
	assert.Error(t, CooldownPolicy{Kind: "hourly"}.Validate())
}

func TestCooldownPolicy_Normalized(t *testing.T) {
	assert.Equal(t, CooldownNone, CooldownPolicy{}.Normalized().Kind)
	assert.Equal(t, CooldownFixed, FixedDuration(5).Normalized().Kind)
}

func TestAbility_CloneIsDeep(t *testing.T) {
	orig := &Ability{
		ID:           "phase-walk",
		Cost:         map[string]int{"mana": 5},
		Requirements: Requirements{MinLevel: 3, ClassIDs: []string{"mage"}},
		Effects:      []Effect{{Type: "move", Params: map[string]any{"distance": 1}}},
		Provenance:   []Provenance{{Kind: ProvenanceInnate, SourceID: "mage"}},
	}

	clone := orig.Clone()
	clone.Cost["mana"] = 99
	clone.Requirements.ClassIDs[0] = "rogue"
	clone.Effects[0].Params["distance"] = 4
	clone.Provenance[0].SourceID = "rogue"

	assert.Equal(t, 5, orig.Cost["mana"])
	assert.Equal(t, "mage", orig.Requirements.ClassIDs[0])
	assert.Equal(t, 1, orig.Effects[0].Params["distance"])
	assert.Equal(t, "mage", orig.Provenance[0].SourceID)
}

func TestAbility_WithProvenance(t *testing.T) {
	orig := &Ability{ID: "light", Provenance: []Provenance{{Kind: ProvenanceInnate, SourceID: "cleric"}}}
	item := Provenance{Kind: ProvenanceItem, SourceID: "torch-ring"}

	merged := orig.WithProvenance(item)
	again := merged.WithProvenance(item)

	require.Len(t, orig.Provenance, 1)
	assert.Len(t, merged.Provenance, 2)
	assert.Len(t, again.Provenance, 2)
	assert.True(t, merged.HasProvenance(item))
}

func TestAbility_IsHealing(t *testing.T) {
	assert.True(t, (&Ability{BaseDamage: -8}).IsHealing())
	assert.True(t, (&Ability{BaseHealing: 4}).IsHealing())
	assert.False(t, (&Ability{BaseDamage: 6}).IsHealing())
}
