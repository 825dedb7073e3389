// Package requirements checks whether a character may use an ability at all.
// Cooldowns and costs are the ledger's concern and are not looked at here.
package requirements

import (
	"fmt"
	"slices"

	"github.com/KirkDiggler/ability-engine/internal/domain/ability"
	"github.com/KirkDiggler/ability-engine/internal/domain/actor"
	"github.com/KirkDiggler/ability-engine/internal/domain/cast"
)

// Profile is the part of a character the prerequisites look at
type Profile struct {
	Level      int
	ClassID    string
	FeatureIDs []string
}

// ProfileOf builds a profile from an actor snapshot
func ProfileOf(a *actor.Actor) Profile {
	return Profile{
		Level:      a.Level,
		ClassID:    a.ClassID,
		FeatureIDs: a.FeatureIDs,
	}
}

// Validate returns the first unmet requirement, checking level, then class,
// then features. A nil result means the profile qualifies.
func Validate(p Profile, req ability.Requirements) *cast.Failure {
	if p.Level < req.MinLevel {
		return &cast.Failure{
			Reason:      cast.ReasonRequirementNotMet,
			Requirement: cast.RequirementLevel,
			Message:     fmt.Sprintf("requires level %d (current level %d)", req.MinLevel, p.Level),
		}
	}

	if len(req.ClassIDs) > 0 && !slices.Contains(req.ClassIDs, p.ClassID) {
		return &cast.Failure{
			Reason:      cast.ReasonRequirementNotMet,
			Requirement: cast.RequirementClass,
			Message:     fmt.Sprintf("class %q cannot use this ability", p.ClassID),
		}
	}

	for _, featureID := range req.FeatureIDs {
		if !slices.Contains(p.FeatureIDs, featureID) {
			return &cast.Failure{
				Reason:      cast.ReasonRequirementNotMet,
				Requirement: cast.RequirementFeature,
				Message:     fmt.Sprintf("requires feature %s", featureID),
			}
		}
	}

	return nil
}
