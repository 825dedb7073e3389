// Package dispatcher runs the named effect of a utility ability. The set of
// effects is closed; an unknown name is a failure, never a crash.
package dispatcher

import (
	"context"
	"log"

	"github.com/KirkDiggler/ability-engine/internal/domain/cast"
	dnderr "github.com/KirkDiggler/ability-engine/internal/errors"
	"github.com/KirkDiggler/ability-engine/internal/repositories/actors"
	"github.com/KirkDiggler/ability-engine/internal/repositories/locations"
	"github.com/KirkDiggler/ability-engine/internal/uuid"
)

// DefaultHomeArea is the area whose origin recall returns to
const DefaultHomeArea = "overworld"

// Service executes utility effects
type Service interface {
	// Dispatch runs the handler named by the ability's action
	Dispatch(ctx context.Context, req *Request) (*cast.Outcome, error)

	// Actions lists the supported action names
	Actions() []string
}

type service struct {
	registry    *HandlerRegistry
	idGenerator uuid.Generator
}

// ServiceConfig holds configuration for the dispatcher
type ServiceConfig struct {
	Locations locations.Repository
	Movement  actors.LocationWriter

	// Secrets is optional; without it detection always comes back empty.
	Secrets locations.SecretRepository

	IDGenerator uuid.Generator
	HomeArea    string
}

// NewService creates a dispatcher with every built-in effect registered
func NewService(cfg *ServiceConfig) Service {
	if cfg == nil || cfg.Locations == nil {
		panic("location repository is required")
	}
	if cfg.Movement == nil {
		panic("location writer is required")
	}

	homeArea := cfg.HomeArea
	if homeArea == "" {
		homeArea = DefaultHomeArea
	}

	m := &mover{locations: cfg.Locations, writer: cfg.Movement}
	handlers := []Handler{
		&phaseWalkHandler{mover: m},
		&teleportHandler{mover: m},
		&recallHandler{mover: m, homeArea: homeArea},
		&detectSecretHandler{locations: cfg.Locations, secrets: cfg.Secrets},
		&unlockHandler{},
	}
	handlers = append(handlers, statusHandlers()...)

	svc := &service{
		registry:    NewHandlerRegistry(handlers...),
		idGenerator: cfg.IDGenerator,
	}
	if svc.idGenerator == nil {
		svc.idGenerator = uuid.NewTimeOrderedGenerator()
	}

	return svc
}

func (s *service) Actions() []string {
	return s.registry.List()
}

func (s *service) Dispatch(ctx context.Context, req *Request) (*cast.Outcome, error) {
	if req == nil || req.Actor == nil || req.Ability == nil {
		return nil, dnderr.InvalidArgument("dispatch request needs an actor and an ability")
	}

	handler, ok := s.registry.Get(req.Ability.Action)
	if !ok {
		return cast.Failedf(cast.ReasonUnknownAction, "%s has no usable effect %q", req.Ability.Name, req.Ability.Action), nil
	}

	outcome, err := handler.Execute(ctx, req)
	if err != nil {
		log.Printf("Dispatcher: %s failed for actor %s: %v", handler.Key(), req.Actor.ID, err)
		return nil, err
	}
	if !outcome.Success {
		return outcome, nil
	}

	for i := range outcome.Mutations {
		m := &outcome.Mutations[i]
		m.ID = s.idGenerator.New()
		m.ActorID = req.Actor.ID
		m.AbilityID = req.Ability.ID
		m.OccurredAt = req.Now
	}
	return outcome, nil
}
