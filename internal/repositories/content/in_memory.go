package content

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"sync"

	dnderr "github.com/KirkDiggler/ability-engine/internal/errors"
)

//go:embed data/default.json
var defaultCatalog []byte

// Catalog is the on-disk shape of a content bundle
type Catalog struct {
	Classes   []*ClassRecord   `json:"classes"`
	Abilities []*AbilityRecord `json:"abilities"`
	Items     []*ItemRecord    `json:"items"`
	Features  []*FeatureRecord `json:"features"`
}

type inMemoryRepository struct {
	mu        sync.RWMutex
	classes   map[string]*ClassRecord
	abilities map[string]*AbilityRecord
	items     map[string]*ItemRecord
	features  map[string]*FeatureRecord
}

// NewInMemoryRepository creates a content repository from a catalog
func NewInMemoryRepository(catalog *Catalog) Repository {
	r := &inMemoryRepository{
		classes:   make(map[string]*ClassRecord),
		abilities: make(map[string]*AbilityRecord),
		items:     make(map[string]*ItemRecord),
		features:  make(map[string]*FeatureRecord),
	}
	if catalog == nil {
		return r
	}
	for _, c := range catalog.Classes {
		r.classes[c.ID] = c
	}
	for _, a := range catalog.Abilities {
		r.abilities[a.ID] = a
	}
	for _, i := range catalog.Items {
		r.items[i.ID] = i
	}
	for _, f := range catalog.Features {
		r.features[f.ID] = f
	}
	return r
}

// LoadCatalog decodes a JSON content bundle
func LoadCatalog(reader io.Reader) (*Catalog, error) {
	var catalog Catalog
	if err := json.NewDecoder(reader).Decode(&catalog); err != nil {
		return nil, fmt.Errorf("failed to decode content catalog: %w", err)
	}
	return &catalog, nil
}

// DefaultCatalog returns the embedded demo content bundle
func DefaultCatalog() (*Catalog, error) {
	var catalog Catalog
	if err := json.Unmarshal(defaultCatalog, &catalog); err != nil {
		return nil, fmt.Errorf("failed to decode embedded catalog: %w", err)
	}
	return &catalog, nil
}

func (r *inMemoryRepository) GetClass(ctx context.Context, id string) (*ClassRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.classes[id]
	if !ok {
		return nil, dnderr.NotFoundf("class %s not found", id).WithMeta("class_id", id)
	}
	return c, nil
}

func (r *inMemoryRepository) GetAbility(ctx context.Context, id string) (*AbilityRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.abilities[id]
	if !ok {
		return nil, dnderr.NotFoundf("ability %s not found", id).WithMeta("ability_id", id)
	}
	return a, nil
}

func (r *inMemoryRepository) GetItem(ctx context.Context, id string) (*ItemRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.items[id]
	if !ok {
		return nil, dnderr.NotFoundf("item %s not found", id).WithMeta("item_id", id)
	}
	return i, nil
}

func (r *inMemoryRepository) GetFeature(ctx context.Context, id string) (*FeatureRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.features[id]
	if !ok {
		return nil, dnderr.NotFoundf("feature %s not found", id).WithMeta("feature_id", id)
	}
	return f, nil
}

func (r *inMemoryRepository) ListFeatures(ctx context.Context) ([]*FeatureRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*FeatureRecord, 0, len(r.features))
	for _, f := range r.features {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out, nil
}
