package locations

//go:generate mockgen -destination=mock/mock.go -package=mocklocations -source=interface.go

import (
	"context"

	"github.com/KirkDiggler/ability-engine/internal/domain/world"
)

// Repository looks up locations of the location graph
type Repository interface {
	// Get returns the location or a dnderr not found error
	Get(ctx context.Context, id string) (*world.Location, error)

	// GetByCoordinates returns the location at (x, y) in an area or a dnderr not found error
	GetByCoordinates(ctx context.Context, x, y int, areaID string) (*world.Location, error)
}

// SecretRepository answers what detection magic can uncover at a location
type SecretRepository interface {
	HiddenExits(ctx context.Context, locationID string) ([]world.HiddenExit, error)
	Traps(ctx context.Context, locationID string) ([]world.Trap, error)
	InvisibleCreatures(ctx context.Context, locationID string) ([]world.Creature, error)
}
