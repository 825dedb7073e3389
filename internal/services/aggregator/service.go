package aggregator

import (
	"context"
	"log"

	"github.com/KirkDiggler/ability-engine/internal/domain/ability"
	dnderr "github.com/KirkDiggler/ability-engine/internal/errors"
	"github.com/KirkDiggler/ability-engine/internal/repositories/content"
)

type service struct {
	content content.Repository
}

// ServiceConfig holds the dependencies of the aggregator
type ServiceConfig struct {
	Content content.Repository
}

// NewService creates an aggregator over the given content tables
func NewService(cfg *ServiceConfig) Service {
	if cfg == nil || cfg.Content == nil {
		panic("content repository is required")
	}

	return &service{content: cfg.Content}
}

// walk accumulates abilities in first-seen order
type walk struct {
	result *Result
	index  map[string]int
}

func (w *walk) add(a *ability.Ability, p ability.Provenance) {
	if i, ok := w.index[a.ID]; ok {
		w.result.Abilities[i] = w.result.Abilities[i].WithProvenance(p)
		return
	}

	w.index[a.ID] = len(w.result.Abilities)
	w.result.Abilities = append(w.result.Abilities, a.WithProvenance(p))
}

func (w *walk) skip(p ability.Provenance, err error) {
	log.Printf("Aggregator: skipping %s %s: %v", p.Kind, p.SourceID, err)
	w.result.Errors = append(w.result.Errors, &SourceError{Kind: p.Kind, SourceID: p.SourceID, Err: err})
}

// Aggregate walks class, then items, then features
func (s *service) Aggregate(ctx context.Context, source *Source) (*Result, error) {
	if source == nil {
		return nil, dnderr.InvalidArgument("source cannot be nil")
	}

	w := &walk{result: &Result{}, index: make(map[string]int)}

	if source.ClassID != "" {
		innate := ability.Provenance{Kind: ability.ProvenanceInnate, SourceID: source.ClassID}
		class, err := s.content.GetClass(ctx, source.ClassID)
		switch {
		case dnderr.IsNotFound(err):
			w.skip(innate, err)
		case err != nil:
			return nil, dnderr.Wrapf(err, "failed to get class %s", source.ClassID)
		default:
			for _, id := range class.AbilityIDs {
				if err := s.addLegacy(ctx, w, id, innate); err != nil {
					return nil, err
				}
			}
		}
	}

	for _, itemID := range source.ItemIDs {
		granted := ability.Provenance{Kind: ability.ProvenanceItem, SourceID: itemID}
		item, err := s.content.GetItem(ctx, itemID)
		if dnderr.IsNotFound(err) {
			w.skip(granted, err)
			continue
		}
		if err != nil {
			return nil, dnderr.Wrapf(err, "failed to get item %s", itemID)
		}

		for _, id := range item.AbilityIDs {
			if err := s.addLegacy(ctx, w, id, granted); err != nil {
				return nil, err
			}
		}
		for _, featureID := range item.FeatureIDs {
			if err := s.addFeature(ctx, w, featureID, granted); err != nil {
				return nil, err
			}
		}
	}

	for _, featureID := range source.FeatureIDs {
		p := ability.Provenance{Kind: ability.ProvenanceFeature, SourceID: featureID}
		if err := s.addFeature(ctx, w, featureID, p); err != nil {
			return nil, err
		}
	}

	return w.result, nil
}

// addLegacy only returns an error when the content store itself failed
func (s *service) addLegacy(ctx context.Context, w *walk, abilityID string, p ability.Provenance) error {
	rec, err := s.content.GetAbility(ctx, abilityID)
	if dnderr.IsNotFound(err) {
		w.skip(p, err)
		return nil
	}
	if err != nil {
		return dnderr.Wrapf(err, "failed to get ability %s", abilityID)
	}

	a, err := fromRecord(rec)
	if err != nil {
		w.skip(p, err)
		return nil
	}

	w.add(a, p)
	return nil
}

func (s *service) addFeature(ctx context.Context, w *walk, featureID string, p ability.Provenance) error {
	rec, err := s.content.GetFeature(ctx, featureID)
	if dnderr.IsNotFound(err) {
		w.skip(p, err)
		return nil
	}
	if err != nil {
		return dnderr.Wrapf(err, "failed to get feature %s", featureID)
	}

	a, err := decodeFeature(rec)
	if err != nil {
		w.skip(p, err)
		return nil
	}
	if a == nil {
		return nil
	}

	w.add(a, p)
	return nil
}

// Lookup checks the legacy table first, then scans feature payloads
func (s *service) Lookup(ctx context.Context, abilityID string) (*ability.Ability, error) {
	if abilityID == "" {
		return nil, dnderr.InvalidArgument("ability id is required")
	}

	rec, err := s.content.GetAbility(ctx, abilityID)
	switch {
	case err == nil:
		return fromRecord(rec)
	case !dnderr.IsNotFound(err):
		return nil, dnderr.Wrapf(err, "failed to get ability %s", abilityID)
	}

	features, err := s.content.ListFeatures(ctx)
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to list features")
	}

	for _, f := range features {
		a, err := decodeFeature(f)
		if err != nil || a == nil {
			continue
		}
		if a.ID == abilityID {
			return a, nil
		}
	}

	return nil, dnderr.NotFoundf("ability %s not found", abilityID).WithMeta("ability_id", abilityID)
}
