// Package reset refills charge pools once per in-game day.
package reset

import (
	"context"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/ability-engine/internal/clock"
	"github.com/KirkDiggler/ability-engine/internal/domain/ability"
	"github.com/KirkDiggler/ability-engine/internal/domain/ledger"
	dnderr "github.com/KirkDiggler/ability-engine/internal/errors"
	"github.com/KirkDiggler/ability-engine/internal/repositories/ledgers"
	ledgerService "github.com/KirkDiggler/ability-engine/internal/services/ledger"
)

// DefaultConcurrency bounds how many owners ResetAll works on at once
const DefaultConcurrency = 8

// AbilityLookup resolves the current definition of an ability
type AbilityLookup interface {
	Lookup(ctx context.Context, abilityID string) (*ability.Ability, error)
}

// Report summarizes one reset pass
type Report struct {
	Owners int `json:"owners"`
	// Scanned counts every entry looked at, of any policy.
	Scanned int `json:"scanned"`
	Reset   int `json:"reset"`
	// Skipped counts entries whose ability no longer resolves.
	Skipped int `json:"skipped"`
}

func (r *Report) add(other *Report) {
	r.Owners += other.Owners
	r.Scanned += other.Scanned
	r.Reset += other.Reset
	r.Skipped += other.Skipped
}

// Scheduler refills charge pool entries at every day boundary
type Scheduler struct {
	ledger      ledgerService.Service
	entries     ledgers.Repository
	abilities   AbilityLookup
	clock       clock.TimeProvider
	dayLength   time.Duration
	offset      time.Duration
	concurrency int
	tracer      trace.Tracer
}

// SchedulerConfig holds the scheduler's collaborators
type SchedulerConfig struct {
	Ledger    ledgerService.Service
	Entries   ledgers.Repository
	Abilities AbilityLookup
	Clock     clock.TimeProvider

	DayLength   time.Duration
	Offset      time.Duration
	Concurrency int
}

// NewScheduler creates a scheduler
func NewScheduler(cfg *SchedulerConfig) *Scheduler {
	if cfg == nil || cfg.Ledger == nil {
		panic("ledger service is required")
	}
	if cfg.Entries == nil {
		panic("ledger repository is required")
	}
	if cfg.Abilities == nil {
		panic("ability lookup is required")
	}

	s := &Scheduler{
		ledger:      cfg.Ledger,
		entries:     cfg.Entries,
		abilities:   cfg.Abilities,
		clock:       cfg.Clock,
		dayLength:   cfg.DayLength,
		offset:      cfg.Offset,
		concurrency: cfg.Concurrency,
		tracer:      otel.Tracer("github.com/KirkDiggler/ability-engine/internal/services/reset"),
	}

	if s.clock == nil {
		s.clock = clock.System{}
	}
	if s.dayLength <= 0 {
		s.dayLength = 24 * time.Hour
	}
	if s.concurrency <= 0 {
		s.concurrency = DefaultConcurrency
	}

	return s
}

// NextBoundary returns the first day boundary strictly after now.
// Boundaries sit at the unix epoch plus the offset plus whole day lengths.
func (s *Scheduler) NextBoundary(now time.Time) time.Time {
	elapsed := now.Sub(time.Unix(0, 0).Add(s.offset)) % s.dayLength
	if elapsed < 0 {
		elapsed += s.dayLength
	}
	return now.Add(s.dayLength - elapsed)
}

// Run resets every owner at each boundary until ctx is cancelled
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		now := s.clock.Now()
		next := s.NextBoundary(now)
		log.Printf("ResetScheduler: next reset at %s", next.Format(time.RFC3339))

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Printf("ResetScheduler: stopping")
			return nil
		case <-timer.C:
		}

		report, err := s.ResetAll(ctx)
		if err != nil {
			// One failed pass should not stop tomorrow's.
			log.Printf("ResetScheduler: reset failed: %v", err)
			continue
		}
		log.Printf("ResetScheduler: reset %d of %d entries across %d owners (%d skipped)",
			report.Reset, report.Scanned, report.Owners, report.Skipped)
	}
}

// ResetAll refills every owner's charge pools
func (s *Scheduler) ResetAll(ctx context.Context) (*Report, error) {
	ctx, span := s.tracer.Start(ctx, "reset.ResetAll")
	defer span.End()

	owners, err := s.entries.ListOwners(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list owners")
		return nil, dnderr.Wrap(err, "failed to list ledger owners")
	}

	var (
		mu    sync.Mutex
		total = &Report{}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, owner := range owners {
		g.Go(func() error {
			report, err := s.resetOwner(gctx, owner)
			if err != nil {
				return err
			}
			mu.Lock()
			total.add(report)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reset owner")
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("reset.owners", total.Owners),
		attribute.Int("reset.entries", total.Reset),
	)
	return total, nil
}

// ResetActor refills one owner's charge pools on demand
func (s *Scheduler) ResetActor(ctx context.Context, owner ledger.Owner) (*Report, error) {
	if owner.ID == "" || owner.Type == "" {
		return nil, dnderr.InvalidArgument("owner id and type are required")
	}

	ctx, span := s.tracer.Start(ctx, "reset.ResetActor", trace.WithAttributes(
		attribute.String("owner", owner.String()),
	))
	defer span.End()

	report, err := s.resetOwner(ctx, owner)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reset owner")
		return nil, err
	}
	return report, nil
}

func (s *Scheduler) resetOwner(ctx context.Context, owner ledger.Owner) (*Report, error) {
	entries, err := s.entries.ListByOwner(ctx, owner)
	if err != nil {
		return nil, dnderr.Wrapf(err, "failed to list ledger entries of %s", owner)
	}

	report := &Report{Owners: 1}
	for _, entry := range entries {
		report.Scanned++

		a, err := s.abilities.Lookup(ctx, entry.Key.AbilityID)
		if dnderr.IsNotFound(err) {
			report.Skipped++
			continue
		}
		if err != nil {
			return nil, dnderr.Wrapf(err, "failed to look up ability %s", entry.Key.AbilityID)
		}

		policy := a.Cooldown.Normalized()
		if policy.Kind != ability.CooldownChargePool {
			continue
		}

		reset, err := s.ledger.ResetCharges(ctx, entry.Key, policy.MaxCharges)
		if err != nil {
			return nil, err
		}
		if reset {
			report.Reset++
		}
	}

	return report, nil
}
