package content

//go:generate mockgen -destination=mock/mock.go -package=mockcontent -source=interface.go

import (
	"context"
	"encoding/json"
)

// ClassRecord is one row of the innate class ability table
type ClassRecord struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	AbilityIDs []string `json:"ability_ids"`
}

// AbilityRecord is a legacy structured ability row
type AbilityRecord struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Description        string   `json:"description,omitempty"`
	AbilityType        string   `json:"ability_type"`
	TargetType         string   `json:"target_type"`
	Range              int      `json:"range,omitempty"`
	BaseDamage         int      `json:"base_damage,omitempty"`
	BaseHealing        int      `json:"base_healing,omitempty"`
	ManaCost           int      `json:"mana_cost,omitempty"`
	CooldownSeconds    int      `json:"cooldown_seconds,omitempty"`
	CooldownRounds     int      `json:"cooldown_rounds,omitempty"`
	MaxCharges         int      `json:"max_charges,omitempty"`
	MinLevel           int      `json:"min_level,omitempty"`
	ClassIDs           []string `json:"class_ids,omitempty"`
	RequiredFeatureIDs []string `json:"required_feature_ids,omitempty"`
	Action             string   `json:"action,omitempty"`
	Duration           int      `json:"duration,omitempty"`
	CombatRestricted   bool     `json:"combat_restricted,omitempty"`
}

// ItemRecord grants abilities two ways: legacy ability ids and feature ids
type ItemRecord struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	AbilityIDs []string `json:"ability_ids,omitempty"`
	FeatureIDs []string `json:"feature_ids,omitempty"`
}

// FeatureRecord carries an opaque JSON payload that may encode an ability
type FeatureRecord struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Data json.RawMessage `json:"data,omitempty"`
}

// ClassRepository reads the innate class table
type ClassRepository interface {
	GetClass(ctx context.Context, id string) (*ClassRecord, error)
}

// AbilityRepository reads legacy ability rows
type AbilityRepository interface {
	GetAbility(ctx context.Context, id string) (*AbilityRecord, error)
}

// ItemRepository reads item grants
type ItemRepository interface {
	GetItem(ctx context.Context, id string) (*ItemRecord, error)
}

// FeatureRepository reads feature records
type FeatureRepository interface {
	GetFeature(ctx context.Context, id string) (*FeatureRecord, error)
	ListFeatures(ctx context.Context) ([]*FeatureRecord, error)
}

// Repository is every content lookup the aggregator needs
type Repository interface {
	ClassRepository
	AbilityRepository
	ItemRepository
	FeatureRepository
}
