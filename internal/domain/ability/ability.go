// Package ability defines the source-independent ability value every other
// component works with. Class tables, item grants and feature blobs are all
// translated into Ability by the aggregator; nothing downstream sees the source shape.
package ability

import "slices"

// Requirements gate who may cast an ability
type Requirements struct {
	MinLevel   int      `json:"min_level,omitempty"`
	ClassIDs   []string `json:"class_ids,omitempty"`
	FeatureIDs []string `json:"feature_ids,omitempty"`
}

// Effect is one ordered effect descriptor
type Effect struct {
	Type   string         `json:"type"`
	Params map[string]any `json:"params,omitempty"`
}

// Ability is a source-tagged description of one usable ability
type Ability struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Type        Type       `json:"type"`
	Target      TargetType `json:"target"`
	Range       int        `json:"range,omitempty"`

	// BaseDamage is negative for healing abilities.
	BaseDamage  int `json:"base_damage,omitempty"`
	BaseHealing int `json:"base_healing,omitempty"`

	Cooldown     CooldownPolicy `json:"cooldown"`
	Cost         map[string]int `json:"cost,omitempty"`
	Requirements Requirements   `json:"requirements"`
	Effects      []Effect       `json:"effects,omitempty"`

	// Action is the dispatcher key for utility abilities.
	Action string `json:"action,omitempty"`
	// Duration is in seconds for status-style utility effects.
	Duration         int  `json:"duration,omitempty"`
	CombatRestricted bool `json:"combat_restricted,omitempty"`

	Provenance []Provenance `json:"provenance"`
}

// IsHealing reports whether the ability restores rather than removes hit points
func (a *Ability) IsHealing() bool {
	return a.BaseDamage < 0 || a.BaseHealing > 0
}

// HasProvenance reports whether the given source already granted this ability
func (a *Ability) HasProvenance(p Provenance) bool {
	return slices.Contains(a.Provenance, p)
}

// Clone returns a deep copy so callers never share slices or maps with the catalog
func (a *Ability) Clone() *Ability {
	if a == nil {
		return nil
	}

	out := *a
	if a.Cost != nil {
		out.Cost = make(map[string]int, len(a.Cost))
		for k, v := range a.Cost {
			out.Cost[k] = v
		}
	}
	out.Requirements = Requirements{
		MinLevel:   a.Requirements.MinLevel,
		ClassIDs:   slices.Clone(a.Requirements.ClassIDs),
		FeatureIDs: slices.Clone(a.Requirements.FeatureIDs),
	}
	if a.Effects != nil {
		out.Effects = make([]Effect, len(a.Effects))
		for i, e := range a.Effects {
			out.Effects[i] = Effect{Type: e.Type, Params: cloneParams(e.Params)}
		}
	}
	out.Provenance = slices.Clone(a.Provenance)
	return &out
}

// WithProvenance returns a copy carrying one more source, leaving the receiver untouched
func (a *Ability) WithProvenance(p Provenance) *Ability {
	out := a.Clone()
	if !out.HasProvenance(p) {
		out.Provenance = append(out.Provenance, p)
	}
	return out
}

func cloneParams(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
