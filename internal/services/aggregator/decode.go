package aggregator

import (
	"encoding/json"

	"github.com/KirkDiggler/ability-engine/internal/domain/ability"
	dnderr "github.com/KirkDiggler/ability-engine/internal/errors"
	"github.com/KirkDiggler/ability-engine/internal/repositories/content"
	"github.com/tidwall/gjson"
)

// Feature payload shapes that grant an ability
const (
	combatShape  = "combatAbility"
	utilityShape = "utilityAbility"
)

type cooldownData struct {
	Type    string `json:"type"`
	Seconds int    `json:"seconds"`
	Charges int    `json:"charges"`
	Rounds  int    `json:"rounds"`
}

type combatAbilityData struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Description      string           `json:"description"`
	Spell            bool             `json:"spell"`
	TargetType       string           `json:"targetType"`
	Range            int              `json:"range"`
	BaseDamage       int              `json:"baseDamage"`
	BaseHealing      int              `json:"baseHealing"`
	ManaCost         int              `json:"manaCost"`
	Cooldown         *cooldownData    `json:"cooldown"`
	MinLevel         int              `json:"minLevel"`
	Classes          []string         `json:"classes"`
	RequiredFeatures []string         `json:"requiredFeatures"`
	Effects          []ability.Effect `json:"effects"`
	CombatRestricted bool             `json:"combatRestricted"`
}

type utilityAbilityData struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Action           string   `json:"action"`
	Range            int      `json:"range"`
	Duration         int      `json:"duration"`
	CooldownSeconds  int      `json:"cooldownSeconds"`
	CooldownRounds   int      `json:"cooldownRounds"`
	Charges          int      `json:"charges"`
	ManaCost         int      `json:"manaCost"`
	MinLevel         int      `json:"minLevel"`
	Classes          []string `json:"classes"`
	RequiredFeatures []string `json:"requiredFeatures"`
	CombatRestricted bool     `json:"combatRestricted"`
}

// decodeFeature returns the ability encoded in a feature payload, or nil when
// the feature does not grant one.
func decodeFeature(rec *content.FeatureRecord) (*ability.Ability, error) {
	if len(rec.Data) == 0 {
		return nil, nil
	}
	if !gjson.ValidBytes(rec.Data) {
		return nil, dnderr.Decodef("feature %s payload is not valid JSON", rec.ID)
	}

	if doc := gjson.GetBytes(rec.Data, combatShape); doc.Exists() {
		var data combatAbilityData
		if err := json.Unmarshal([]byte(doc.Raw), &data); err != nil {
			return nil, dnderr.WrapWithCode(err, dnderr.CodeDecode, "failed to decode combat ability")
		}
		return data.toAbility()
	}

	if doc := gjson.GetBytes(rec.Data, utilityShape); doc.Exists() {
		var data utilityAbilityData
		if err := json.Unmarshal([]byte(doc.Raw), &data); err != nil {
			return nil, dnderr.WrapWithCode(err, dnderr.CodeDecode, "failed to decode utility ability")
		}
		return data.toAbility()
	}

	return nil, nil
}

func (d *combatAbilityData) toAbility() (*ability.Ability, error) {
	if d.ID == "" {
		return nil, dnderr.Decodef("combat ability is missing an id")
	}

	abilityType := ability.TypeCombat
	if d.Spell {
		abilityType = ability.TypeSpell
	}

	target := ability.TargetType(d.TargetType)
	if target == "" {
		target = ability.TargetSingleEnemy
	}
	if !target.Valid() {
		return nil, dnderr.Decodef("combat ability %s has unknown target type %q", d.ID, d.TargetType)
	}

	policy := ability.NoCooldown()
	if d.Cooldown != nil {
		switch d.Cooldown.Type {
		case "", "none":
		case "fixed":
			policy = ability.FixedDuration(d.Cooldown.Seconds)
		case "charges":
			policy = ability.ChargePool(d.Cooldown.Charges)
		case "rounds":
			policy = ability.CombatRounds(d.Cooldown.Rounds)
		default:
			return nil, dnderr.Decodef("combat ability %s has unknown cooldown type %q", d.ID, d.Cooldown.Type)
		}
	}
	if err := policy.Validate(); err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeDecode, "invalid cooldown for "+d.ID)
	}

	return &ability.Ability{
		ID:          d.ID,
		Name:        nameOr(d.Name, d.ID),
		Description: d.Description,
		Type:        abilityType,
		Target:      target,
		Range:       d.Range,
		BaseDamage:  d.BaseDamage,
		BaseHealing: d.BaseHealing,
		Cooldown:    policy,
		Cost:        manaCost(d.ManaCost),
		Requirements: ability.Requirements{
			MinLevel:   d.MinLevel,
			ClassIDs:   d.Classes,
			FeatureIDs: d.RequiredFeatures,
		},
		Effects:          d.Effects,
		CombatRestricted: d.CombatRestricted,
	}, nil
}

func (d *utilityAbilityData) toAbility() (*ability.Ability, error) {
	if d.ID == "" {
		return nil, dnderr.Decodef("utility ability is missing an id")
	}
	if d.Action == "" {
		return nil, dnderr.Decodef("utility ability %s is missing an action", d.ID)
	}

	policy := policyFrom(d.CooldownSeconds, d.CooldownRounds, d.Charges)
	if err := policy.Validate(); err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeDecode, "invalid cooldown for "+d.ID)
	}

	return &ability.Ability{
		ID:          d.ID,
		Name:        nameOr(d.Name, d.ID),
		Description: d.Description,
		Type:        ability.TypeUtility,
		Target:      ability.TargetSelf,
		Range:       d.Range,
		Cooldown:    policy,
		Cost:        manaCost(d.ManaCost),
		Requirements: ability.Requirements{
			MinLevel:   d.MinLevel,
			ClassIDs:   d.Classes,
			FeatureIDs: d.RequiredFeatures,
		},
		Action:           d.Action,
		Duration:         d.Duration,
		CombatRestricted: d.CombatRestricted,
	}, nil
}

// fromRecord translates a legacy ability row
func fromRecord(rec *content.AbilityRecord) (*ability.Ability, error) {
	abilityType := ability.Type(rec.AbilityType)
	switch abilityType {
	case ability.TypePassive, ability.TypeCombat, ability.TypeUtility, ability.TypeSpell:
	default:
		return nil, dnderr.Decodef("ability %s has unknown type %q", rec.ID, rec.AbilityType)
	}

	target := ability.TargetType(rec.TargetType)
	if target == "" {
		target = ability.TargetSelf
	}
	if !target.Valid() {
		return nil, dnderr.Decodef("ability %s has unknown target type %q", rec.ID, rec.TargetType)
	}
	if abilityType == ability.TypeUtility && rec.Action == "" {
		return nil, dnderr.Decodef("utility ability %s is missing an action", rec.ID)
	}

	policy := policyFrom(rec.CooldownSeconds, rec.CooldownRounds, rec.MaxCharges)
	if err := policy.Validate(); err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeDecode, "invalid cooldown for "+rec.ID)
	}

	return &ability.Ability{
		ID:          rec.ID,
		Name:        nameOr(rec.Name, rec.ID),
		Description: rec.Description,
		Type:        abilityType,
		Target:      target,
		Range:       rec.Range,
		BaseDamage:  rec.BaseDamage,
		BaseHealing: rec.BaseHealing,
		Cooldown:    policy,
		Cost:        manaCost(rec.ManaCost),
		Requirements: ability.Requirements{
			MinLevel:   rec.MinLevel,
			ClassIDs:   rec.ClassIDs,
			FeatureIDs: rec.RequiredFeatureIDs,
		},
		Action:           rec.Action,
		Duration:         rec.Duration,
		CombatRestricted: rec.CombatRestricted,
	}, nil
}

// policyFrom picks one modality; a charge pool wins over rounds, rounds over seconds.
func policyFrom(seconds, rounds, charges int) ability.CooldownPolicy {
	switch {
	case charges > 0:
		return ability.ChargePool(charges)
	case rounds > 0:
		return ability.CombatRounds(rounds)
	case seconds > 0:
		return ability.FixedDuration(seconds)
	case charges < 0 || rounds < 0 || seconds < 0:
		return ability.CooldownPolicy{Kind: ability.CooldownFixed, Seconds: seconds}
	default:
		return ability.NoCooldown()
	}
}

func manaCost(n int) map[string]int {
	if n <= 0 {
		return nil
	}
	return map[string]int{"mana": n}
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
