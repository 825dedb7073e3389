package actors

//go:generate mockgen -destination=mock/mock.go -package=mockactors -source=interface.go

import (
	"context"

	"github.com/KirkDiggler/ability-engine/internal/domain/actor"
)

// LocationWriter is the outbound half the dispatcher uses to move actors
type LocationWriter interface {
	// SetCurrentLocation replaces the actor's current-location pointer
	SetCurrentLocation(ctx context.Context, actorID, locationID string) error

	// AddVisitedLocation records a location in the actor's visited set; re-adding is a no-op
	AddVisitedLocation(ctx context.Context, actorID, locationID string) error
}

// Repository reads actor snapshots and persists location changes
type Repository interface {
	LocationWriter

	// Get returns the actor snapshot or a dnderr not found error
	Get(ctx context.Context, id string) (*actor.Actor, error)

	// Save stores the full snapshot
	Save(ctx context.Context, a *actor.Actor) error
}
