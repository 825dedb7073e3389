package services

import (
	"github.com/KirkDiggler/ability-engine/internal/clock"
	"github.com/KirkDiggler/ability-engine/internal/config"
	"github.com/KirkDiggler/ability-engine/internal/events"
	"github.com/KirkDiggler/ability-engine/internal/repositories/actors"
	"github.com/KirkDiggler/ability-engine/internal/repositories/content"
	"github.com/KirkDiggler/ability-engine/internal/repositories/ledgers"
	"github.com/KirkDiggler/ability-engine/internal/repositories/locations"
	aggregatorService "github.com/KirkDiggler/ability-engine/internal/services/aggregator"
	castService "github.com/KirkDiggler/ability-engine/internal/services/cast"
	dispatcherService "github.com/KirkDiggler/ability-engine/internal/services/dispatcher"
	ledgerService "github.com/KirkDiggler/ability-engine/internal/services/ledger"
	"github.com/KirkDiggler/ability-engine/internal/services/reset"
	"github.com/KirkDiggler/ability-engine/internal/uuid"
)

// Provider holds all service instances
type Provider struct {
	AggregatorService aggregatorService.Service
	LedgerService     ledgerService.Service
	DispatcherService dispatcherService.Service
	CastService       castService.Service
	ResetScheduler    *reset.Scheduler
	EventBus          *events.Bus
}

// ProviderConfig holds configuration for creating services
type ProviderConfig struct {
	Content            content.Repository
	ActorRepository    actors.Repository
	LedgerRepository   ledgers.Repository
	LocationRepository locations.Repository
	Secrets            locations.SecretRepository

	// Rules defaults to the values config.Load would produce with an empty environment.
	Rules       *config.RulesConfig
	EventBus    *events.Bus
	Clock       clock.TimeProvider
	IDGenerator uuid.Generator
}

// NewProvider creates a new service provider with all services initialized
func NewProvider(cfg *ProviderConfig) *Provider {
	if cfg == nil || cfg.Content == nil {
		panic("content repository is required")
	}

	// Use in-memory repositories if none provided
	actorRepo := cfg.ActorRepository
	if actorRepo == nil {
		actorRepo = actors.NewInMemoryRepository()
	}

	ledgerRepo := cfg.LedgerRepository
	if ledgerRepo == nil {
		ledgerRepo = ledgers.NewInMemoryRepository()
	}

	locationRepo := cfg.LocationRepository
	if locationRepo == nil {
		locationRepo = locations.NewInMemoryRepository()
	}

	rules := cfg.Rules
	if rules == nil {
		rules = &config.RulesConfig{
			RoundDuration: ledgerService.DefaultRoundDuration,
			HomeArea:      dispatcherService.DefaultHomeArea,
		}
	}

	bus := cfg.EventBus
	if bus == nil {
		bus = events.NewBus()
	}

	aggSvc := aggregatorService.NewService(&aggregatorService.ServiceConfig{
		Content: cfg.Content,
	})

	ledgerSvc := ledgerService.NewService(&ledgerService.ServiceConfig{
		Repository:    ledgerRepo,
		RoundDuration: rules.RoundDuration,
	})

	dispatcherSvc := dispatcherService.NewService(&dispatcherService.ServiceConfig{
		Locations:   locationRepo,
		Movement:    actorRepo,
		Secrets:     cfg.Secrets,
		IDGenerator: cfg.IDGenerator,
		HomeArea:    rules.HomeArea,
	})

	castSvc := castService.NewService(&castService.ServiceConfig{
		Actors:      actorRepo,
		Aggregator:  aggSvc,
		Ledger:      ledgerSvc,
		Dispatcher:  dispatcherSvc,
		EventBus:    bus,
		Clock:       cfg.Clock,
		IDGenerator: cfg.IDGenerator,
	})

	scheduler := reset.NewScheduler(&reset.SchedulerConfig{
		Ledger:    ledgerSvc,
		Entries:   ledgerRepo,
		Abilities: aggSvc,
		Clock:     cfg.Clock,
		DayLength: rules.DayLength,
		Offset:    rules.DayBoundaryOffset,
	})

	return &Provider{
		AggregatorService: aggSvc,
		LedgerService:     ledgerSvc,
		DispatcherService: dispatcherSvc,
		CastService:       castSvc,
		ResetScheduler:    scheduler,
		EventBus:          bus,
	}
}
