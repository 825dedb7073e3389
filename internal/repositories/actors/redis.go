package actors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/KirkDiggler/ability-engine/internal/domain/actor"
	dnderr "github.com/KirkDiggler/ability-engine/internal/errors"
	"github.com/redis/go-redis/v9"
)

// Data is the serialized actor document. Location pointer and visited set live
// under their own keys so moves are single small writes.
type Data struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Level      int      `json:"level"`
	ClassID    string   `json:"class_id,omitempty"`
	ItemIDs    []string `json:"item_ids,omitempty"`
	FeatureIDs []string `json:"feature_ids,omitempty"`
}

type redisRepo struct {
	client redis.UniversalClient
}

// NewRedis creates a new Redis-backed actor repository
func NewRedis(client redis.UniversalClient) Repository {
	if client == nil {
		panic("Redis client cannot be nil")
	}
	return &redisRepo{client: client}
}

func (r *redisRepo) key(id string) string {
	return fmt.Sprintf("actor:%s", id)
}

func (r *redisRepo) locationKey(id string) string {
	return fmt.Sprintf("actor:%s:location", id)
}

func (r *redisRepo) visitedKey(id string) string {
	return fmt.Sprintf("actor:%s:visited", id)
}

func (r *redisRepo) Get(ctx context.Context, id string) (*actor.Actor, error) {
	if id == "" {
		return nil, dnderr.InvalidArgument("actor ID is required")
	}

	raw, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, dnderr.NotFoundf("actor %s not found", id).WithMeta("actor_id", id)
		}
		return nil, dnderr.WrapWithCode(err, dnderr.CodeUnavailable, "failed to get actor from Redis")
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeDecode, "failed to unmarshal actor")
	}

	a := &actor.Actor{
		ID:         data.ID,
		Name:       data.Name,
		Level:      data.Level,
		ClassID:    data.ClassID,
		ItemIDs:    data.ItemIDs,
		FeatureIDs: data.FeatureIDs,
	}

	location, err := r.client.Get(ctx, r.locationKey(id)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeUnavailable, "failed to get actor location from Redis")
	}
	a.CurrentLocationID = location

	visited, err := r.client.SMembers(ctx, r.visitedKey(id)).Result()
	if err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeUnavailable, "failed to get visited locations from Redis")
	}
	sort.Strings(visited)
	if len(visited) > 0 {
		a.VisitedLocationIDs = visited
	}

	return a, nil
}

func (r *redisRepo) Save(ctx context.Context, a *actor.Actor) error {
	if a == nil {
		return dnderr.InvalidArgument("actor cannot be nil")
	}
	if a.ID == "" {
		return dnderr.InvalidArgument("actor ID is required")
	}

	jsonData, err := json.Marshal(Data{
		ID:         a.ID,
		Name:       a.Name,
		Level:      a.Level,
		ClassID:    a.ClassID,
		ItemIDs:    a.ItemIDs,
		FeatureIDs: a.FeatureIDs,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal actor: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.key(a.ID), string(jsonData), 0)
	if a.CurrentLocationID != "" {
		pipe.Set(ctx, r.locationKey(a.ID), a.CurrentLocationID, 0)
	}
	if len(a.VisitedLocationIDs) > 0 {
		members := make([]interface{}, len(a.VisitedLocationIDs))
		for i, id := range a.VisitedLocationIDs {
			members[i] = id
		}
		pipe.SAdd(ctx, r.visitedKey(a.ID), members...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return dnderr.WrapWithCode(err, dnderr.CodeUnavailable, "failed to save actor to Redis")
	}
	return nil
}

func (r *redisRepo) SetCurrentLocation(ctx context.Context, actorID, locationID string) error {
	if err := r.client.Set(ctx, r.locationKey(actorID), locationID, 0).Err(); err != nil {
		return dnderr.WrapWithCode(err, dnderr.CodeUnavailable, "failed to set actor location")
	}
	return nil
}

func (r *redisRepo) AddVisitedLocation(ctx context.Context, actorID, locationID string) error {
	if err := r.client.SAdd(ctx, r.visitedKey(actorID), locationID).Err(); err != nil {
		return dnderr.WrapWithCode(err, dnderr.CodeUnavailable, "failed to add visited location")
	}
	return nil
}
