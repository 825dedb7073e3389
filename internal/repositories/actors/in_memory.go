package actors

import (
	"context"
	"sync"

	"github.com/KirkDiggler/ability-engine/internal/domain/actor"
	dnderr "github.com/KirkDiggler/ability-engine/internal/errors"
)

type inMemoryRepository struct {
	mu     sync.RWMutex
	actors map[string]*actor.Actor
}

// NewInMemoryRepository creates a new in-memory actor repository
func NewInMemoryRepository() Repository {
	return &inMemoryRepository{
		actors: make(map[string]*actor.Actor),
	}
}

func (r *inMemoryRepository) Get(ctx context.Context, id string) (*actor.Actor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.actors[id]
	if !ok {
		return nil, dnderr.NotFoundf("actor %s not found", id).WithMeta("actor_id", id)
	}
	return a.Clone(), nil
}

func (r *inMemoryRepository) Save(ctx context.Context, a *actor.Actor) error {
	if a == nil {
		return dnderr.InvalidArgument("actor cannot be nil")
	}
	if a.ID == "" {
		return dnderr.InvalidArgument("actor ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.actors[a.ID] = a.Clone()
	return nil
}

func (r *inMemoryRepository) SetCurrentLocation(ctx context.Context, actorID, locationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.actors[actorID]
	if !ok {
		return dnderr.NotFoundf("actor %s not found", actorID)
	}
	a.CurrentLocationID = locationID
	return nil
}

func (r *inMemoryRepository) AddVisitedLocation(ctx context.Context, actorID, locationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.actors[actorID]
	if !ok {
		return dnderr.NotFoundf("actor %s not found", actorID)
	}
	if !a.HasVisited(locationID) {
		a.VisitedLocationIDs = append(a.VisitedLocationIDs, locationID)
	}
	return nil
}
