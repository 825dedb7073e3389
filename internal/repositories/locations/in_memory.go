package locations

import (
	"context"
	"fmt"
	"sync"

	"github.com/KirkDiggler/ability-engine/internal/domain/world"
	dnderr "github.com/KirkDiggler/ability-engine/internal/errors"
)

// InMemoryRepository indexes locations by id and grid position
type InMemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*world.Location
	byCoord map[string]*world.Location
}

// NewInMemoryRepository creates a location repository seeded with locs
func NewInMemoryRepository(locs ...*world.Location) *InMemoryRepository {
	r := &InMemoryRepository{
		byID:    make(map[string]*world.Location),
		byCoord: make(map[string]*world.Location),
	}
	for _, loc := range locs {
		r.Add(loc)
	}
	return r
}

func coordKey(x, y int, areaID string) string {
	return fmt.Sprintf("%s:%d:%d", areaID, x, y)
}

// Add indexes a location by id and, when it has grid coordinates, by position
func (r *InMemoryRepository) Add(loc *world.Location) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[loc.ID] = loc
	if x, y, ok := loc.Coordinates(); ok {
		r.byCoord[coordKey(x, y, loc.AreaID)] = loc
	}
}

func (r *InMemoryRepository) Get(ctx context.Context, id string) (*world.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	loc, ok := r.byID[id]
	if !ok {
		return nil, dnderr.NotFoundf("location %s not found", id).WithMeta("location_id", id)
	}
	return loc, nil
}

func (r *InMemoryRepository) GetByCoordinates(ctx context.Context, x, y int, areaID string) (*world.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	loc, ok := r.byCoord[coordKey(x, y, areaID)]
	if !ok {
		return nil, dnderr.NotFoundf("no location at (%d, %d) in %s", x, y, areaID)
	}
	return loc, nil
}

// InMemorySecrets keeps detectable secrets per location
type InMemorySecrets struct {
	mu        sync.RWMutex
	exits     map[string][]world.HiddenExit
	traps     map[string][]world.Trap
	creatures map[string][]world.Creature
}

// NewInMemorySecrets creates an empty secret repository
func NewInMemorySecrets() *InMemorySecrets {
	return &InMemorySecrets{
		exits:     make(map[string][]world.HiddenExit),
		traps:     make(map[string][]world.Trap),
		creatures: make(map[string][]world.Creature),
	}
}

func (s *InMemorySecrets) AddHiddenExit(locationID string, exit world.HiddenExit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exits[locationID] = append(s.exits[locationID], exit)
}

func (s *InMemorySecrets) AddTrap(locationID string, trap world.Trap) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.traps[locationID] = append(s.traps[locationID], trap)
}

func (s *InMemorySecrets) AddInvisibleCreature(locationID string, creature world.Creature) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creatures[locationID] = append(s.creatures[locationID], creature)
}

func (s *InMemorySecrets) HiddenExits(ctx context.Context, locationID string) ([]world.HiddenExit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]world.HiddenExit(nil), s.exits[locationID]...), nil
}

func (s *InMemorySecrets) Traps(ctx context.Context, locationID string) ([]world.Trap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]world.Trap(nil), s.traps[locationID]...), nil
}

func (s *InMemorySecrets) InvisibleCreatures(ctx context.Context, locationID string) ([]world.Creature, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]world.Creature(nil), s.creatures[locationID]...), nil
}
