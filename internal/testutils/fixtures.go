package testutils

import (
	"github.com/KirkDiggler/ability-engine/internal/domain/actor"
	"github.com/KirkDiggler/ability-engine/internal/domain/ledger"
)

// CreateTestActor creates an actor standing at locationID
func CreateTestActor(id, classID string, level int, locationID string) *actor.Actor {
	a := &actor.Actor{
		ID:      id,
		Name:    "Test " + id,
		Level:   level,
		ClassID: classID,
	}
	if locationID != "" {
		a.MoveTo(locationID)
	}
	return a
}

// CreateTestKey creates a character ledger key
func CreateTestKey(ownerID, abilityID string) ledger.Key {
	return ledger.Key{OwnerID: ownerID, OwnerType: actor.OwnerCharacter, AbilityID: abilityID}
}

// IntPtr returns a pointer to n
func IntPtr(n int) *int {
	return &n
}
