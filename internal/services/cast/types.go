package cast

import (
	"context"

	"github.com/KirkDiggler/ability-engine/internal/domain/ability"
	"github.com/KirkDiggler/ability-engine/internal/domain/actor"
	"github.com/KirkDiggler/ability-engine/internal/domain/cast"
)

// Service resolves cast attempts end to end
type Service interface {
	// Cast validates, checks, executes and charges one ability use.
	// Recoverable problems come back as failure outcomes; errors mean a collaborator failed.
	Cast(ctx context.Context, input *CastInput) (*cast.Outcome, error)

	// ListAbilities returns every reachable ability with whether it could be cast right now
	ListAbilities(ctx context.Context, input *ListAbilitiesInput) ([]*AbilityStatus, error)
}

// CastInput is one cast request
type CastInput struct {
	ActorID   string
	OwnerType actor.OwnerType
	AbilityID string
	Params    map[string]any
	InCombat  bool
}

// ListAbilitiesInput selects whose abilities to list
type ListAbilitiesInput struct {
	ActorID   string
	OwnerType actor.OwnerType
	InCombat  bool
}

// AbilityStatus pairs an ability with its current availability
type AbilityStatus struct {
	Ability   *ability.Ability `json:"ability"`
	Available bool             `json:"available"`
	Failure   *cast.Failure    `json:"failure,omitempty"`
}
