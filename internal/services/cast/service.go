// Package cast orchestrates a cast: resolve the ability from the actor's
// sources, check restrictions and requirements, then run the effect under
// the ledger guard so the ledger is only charged when the effect succeeds.
package cast

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/KirkDiggler/ability-engine/internal/clock"
	"github.com/KirkDiggler/ability-engine/internal/domain/ability"
	"github.com/KirkDiggler/ability-engine/internal/domain/actor"
	"github.com/KirkDiggler/ability-engine/internal/domain/cast"
	"github.com/KirkDiggler/ability-engine/internal/domain/ledger"
	dnderr "github.com/KirkDiggler/ability-engine/internal/errors"
	"github.com/KirkDiggler/ability-engine/internal/events"
	"github.com/KirkDiggler/ability-engine/internal/repositories/actors"
	"github.com/KirkDiggler/ability-engine/internal/services/aggregator"
	"github.com/KirkDiggler/ability-engine/internal/services/dispatcher"
	ledgerService "github.com/KirkDiggler/ability-engine/internal/services/ledger"
	"github.com/KirkDiggler/ability-engine/internal/services/requirements"
	"github.com/KirkDiggler/ability-engine/internal/uuid"
)

type service struct {
	actors      actors.Repository
	aggregator  aggregator.Service
	ledger      ledgerService.Service
	dispatcher  dispatcher.Service
	bus         *events.Bus
	clock       clock.TimeProvider
	idGenerator uuid.Generator
	tracer      trace.Tracer
}

// ServiceConfig holds configuration for the cast service
type ServiceConfig struct {
	Actors     actors.Repository
	Aggregator aggregator.Service
	Ledger     ledgerService.Service
	Dispatcher dispatcher.Service

	// EventBus is optional; mutations are still returned on the outcome.
	EventBus    *events.Bus
	Clock       clock.TimeProvider
	IDGenerator uuid.Generator
}

// NewService creates a cast service
func NewService(cfg *ServiceConfig) Service {
	if cfg == nil || cfg.Actors == nil {
		panic("actor repository is required")
	}
	if cfg.Aggregator == nil {
		panic("aggregator is required")
	}
	if cfg.Ledger == nil {
		panic("ledger service is required")
	}
	if cfg.Dispatcher == nil {
		panic("dispatcher is required")
	}

	svc := &service{
		actors:      cfg.Actors,
		aggregator:  cfg.Aggregator,
		ledger:      cfg.Ledger,
		dispatcher:  cfg.Dispatcher,
		bus:         cfg.EventBus,
		clock:       cfg.Clock,
		idGenerator: cfg.IDGenerator,
		tracer:      otel.Tracer("github.com/KirkDiggler/ability-engine/internal/services/cast"),
	}

	if svc.clock == nil {
		svc.clock = clock.System{}
	}
	if svc.idGenerator == nil {
		svc.idGenerator = uuid.NewTimeOrderedGenerator()
	}

	return svc
}

func (s *service) Cast(ctx context.Context, input *CastInput) (*cast.Outcome, error) {
	if input == nil {
		return nil, dnderr.InvalidArgument("input cannot be nil")
	}
	if input.ActorID == "" || input.AbilityID == "" {
		return nil, dnderr.InvalidArgument("actor id and ability id are required")
	}

	ctx, span := s.tracer.Start(ctx, "cast.Cast", trace.WithAttributes(
		attribute.String("actor.id", input.ActorID),
		attribute.String("ability.id", input.AbilityID),
		attribute.Bool("cast.in_combat", input.InCombat),
	))
	defer span.End()

	outcome, err := s.cast(ctx, input)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "cast failed")
		log.Printf("CastService: %s casting %s: %v", input.ActorID, input.AbilityID, err)
		return nil, err
	}

	span.SetAttributes(attribute.Bool("cast.success", outcome.Success))
	if !outcome.Success {
		span.SetAttributes(attribute.String("cast.reason", string(outcome.Reason())))
		log.Printf("CastService: %s could not cast %s: %s", input.ActorID, input.AbilityID, outcome.Failure)
	}
	return outcome, nil
}

func (s *service) cast(ctx context.Context, input *CastInput) (*cast.Outcome, error) {
	a, err := s.actors.Get(ctx, input.ActorID)
	if dnderr.IsNotFound(err) {
		return cast.Failedf(cast.ReasonNotFound, "actor %s not found", input.ActorID), nil
	}
	if err != nil {
		return nil, dnderr.Wrapf(err, "failed to get actor %s", input.ActorID)
	}

	reachable, err := s.aggregator.Aggregate(ctx, aggregator.SourceFor(a))
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to aggregate abilities")
	}

	ab, ok := reachable.Find(input.AbilityID)
	if !ok {
		return cast.Failedf(cast.ReasonNotFound, "you do not have the ability %s", input.AbilityID), nil
	}

	if failure := precheck(a, ab, input.InCombat); failure != nil {
		return cast.FromFailure(failure), nil
	}

	now := s.clock.Now()
	key := ledger.Key{OwnerID: a.ID, OwnerType: ownerType(input.OwnerType), AbilityID: ab.ID}

	var outcome *cast.Outcome
	failure, entry, err := s.ledger.Guard(ctx, key, ab.Cooldown, now, func(ctx context.Context) (bool, error) {
		var err error
		outcome, err = s.execute(ctx, a, ab, input.Params, now)
		if err != nil {
			return false, err
		}
		return outcome.Success, nil
	})
	if err != nil {
		return nil, err
	}
	if failure != nil {
		return cast.FromFailure(failure), nil
	}
	if !outcome.Success {
		return outcome, nil
	}

	outcome.Ledger = entry
	s.publish(ctx, outcome.Mutations)
	return outcome, nil
}

// precheck holds every rule that needs no I/O
func precheck(a *actor.Actor, ab *ability.Ability, inCombat bool) *cast.Failure {
	if ab.Type == ability.TypePassive {
		return &cast.Failure{
			Reason:  cast.ReasonUnknownAction,
			Message: fmt.Sprintf("%s is passive and cannot be activated", ab.Name),
		}
	}
	if inCombat && ab.CombatRestricted {
		return &cast.Failure{
			Reason:  cast.ReasonInCombatRestricted,
			Message: fmt.Sprintf("%s cannot be used during combat", ab.Name),
		}
	}
	return requirements.Validate(requirements.ProfileOf(a), ab.Requirements)
}

func (s *service) execute(ctx context.Context, a *actor.Actor, ab *ability.Ability, params map[string]any, now time.Time) (*cast.Outcome, error) {
	if ab.Type == ability.TypeUtility {
		return s.dispatcher.Dispatch(ctx, &dispatcher.Request{
			Actor:   a,
			Ability: ab,
			Params:  dispatcher.Params(params),
			Now:     now,
		})
	}

	// Combat and spell abilities are resolved by the combat simulator.
	targetID, _ := dispatcher.Params(params).String(dispatcher.ParamTargetID)
	outcome := cast.Succeeded(fmt.Sprintf("%s is ready to resolve.", ab.Name))
	outcome.TargetID = targetID
	outcome.Mutations = []cast.Mutation{{
		ID:         s.idGenerator.New(),
		Kind:       cast.MutationAbilityActivated,
		ActorID:    a.ID,
		AbilityID:  ab.ID,
		OccurredAt: now,
		Data: map[string]any{
			"ability_type": string(ab.Type),
			"target_type":  string(ab.Target),
			"target_id":    targetID,
		},
	}}
	return outcome, nil
}

func (s *service) publish(ctx context.Context, mutations []cast.Mutation) {
	if s.bus == nil {
		return
	}
	if err := s.bus.EmitAll(ctx, mutations); err != nil {
		log.Printf("CastService: failed to publish mutations: %v", err)
	}
}

func (s *service) ListAbilities(ctx context.Context, input *ListAbilitiesInput) ([]*AbilityStatus, error) {
	if input == nil || input.ActorID == "" {
		return nil, dnderr.InvalidArgument("actor id is required")
	}

	a, err := s.actors.Get(ctx, input.ActorID)
	if err != nil {
		return nil, dnderr.Wrapf(err, "failed to get actor %s", input.ActorID)
	}

	reachable, err := s.aggregator.Aggregate(ctx, aggregator.SourceFor(a))
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to aggregate abilities")
	}

	now := s.clock.Now()
	statuses := make([]*AbilityStatus, 0, len(reachable.Abilities))
	for _, ab := range reachable.Abilities {
		status := &AbilityStatus{Ability: ab}

		status.Failure = precheck(a, ab, input.InCombat)
		if status.Failure == nil {
			key := ledger.Key{OwnerID: a.ID, OwnerType: ownerType(input.OwnerType), AbilityID: ab.ID}
			status.Failure, err = s.ledger.CheckAvailable(ctx, key, ab.Cooldown, now)
			if err != nil {
				return nil, err
			}
		}

		status.Available = status.Failure == nil
		statuses = append(statuses, status)
	}

	return statuses, nil
}

func ownerType(t actor.OwnerType) actor.OwnerType {
	if t == "" {
		return actor.OwnerCharacter
	}
	return t
}
