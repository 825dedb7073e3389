package aggregator

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/ability-engine/internal/domain/ability"
	"github.com/KirkDiggler/ability-engine/internal/domain/actor"
)

// Service turns a character's class, items and features into one ability list
type Service interface {
	// Aggregate returns every ability reachable from source, deduplicated by id
	Aggregate(ctx context.Context, source *Source) (*Result, error)

	// Lookup resolves a single ability by id from the legacy table or a feature payload
	Lookup(ctx context.Context, abilityID string) (*ability.Ability, error)
}

// Source lists the grant points of one character
type Source struct {
	ClassID    string
	ItemIDs    []string
	FeatureIDs []string
}

// SourceFor builds the source of an actor snapshot
func SourceFor(a *actor.Actor) *Source {
	return &Source{
		ClassID:    a.ClassID,
		ItemIDs:    a.ItemIDs,
		FeatureIDs: a.FeatureIDs,
	}
}

// Result is the ordered ability list plus every source that had to be skipped
type Result struct {
	Abilities []*ability.Ability
	Errors    []*SourceError
}

// Find returns the reachable ability with the given id
func (r *Result) Find(abilityID string) (*ability.Ability, bool) {
	for _, a := range r.Abilities {
		if a.ID == abilityID {
			return a, true
		}
	}
	return nil, false
}

// SourceError records a source that was skipped during a walk
type SourceError struct {
	Kind     ability.ProvenanceKind
	SourceID string
	Err      error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Kind, e.SourceID, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
