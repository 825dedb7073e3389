package dispatcher

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/ability-engine/internal/domain/ability"
	"github.com/KirkDiggler/ability-engine/internal/domain/actor"
	"github.com/KirkDiggler/ability-engine/internal/domain/cast"
	"github.com/KirkDiggler/ability-engine/internal/domain/world"
	dnderr "github.com/KirkDiggler/ability-engine/internal/errors"
	"github.com/KirkDiggler/ability-engine/internal/repositories/actors"
	"github.com/KirkDiggler/ability-engine/internal/repositories/locations"
)

// mover performs the location change shared by every movement effect
type mover struct {
	locations locations.Repository
	writer    actors.LocationWriter
}

func (m *mover) moveTo(ctx context.Context, a *actor.Actor, dest *world.Location) (*cast.Outcome, error) {
	from := a.CurrentLocationID

	// Record the visit before moving; re-adding a visit is a no-op.
	if err := m.writer.AddVisitedLocation(ctx, a.ID, dest.ID); err != nil {
		return nil, dnderr.Wrapf(err, "failed to record visit of %s", dest.ID)
	}
	if err := m.writer.SetCurrentLocation(ctx, a.ID, dest.ID); err != nil {
		return nil, dnderr.Wrapf(err, "failed to move actor %s", a.ID)
	}
	a.MoveTo(dest.ID)

	outcome := cast.Succeeded(fmt.Sprintf("You arrive at %s.", dest.Name))
	outcome.LocationChange = &cast.LocationChange{
		FromLocationID: from,
		ToLocationID:   dest.ID,
		ToName:         dest.Name,
	}
	outcome.Mutations = []cast.Mutation{
		{Kind: cast.MutationLocationChanged, Data: map[string]any{"from": from, "to": dest.ID}},
		{Kind: cast.MutationLocationVisited, Data: map[string]any{"location_id": dest.ID}},
	}
	return outcome, nil
}

// location resolves a location id, reporting an unknown id as a failure
func (m *mover) location(ctx context.Context, id string) (*world.Location, *cast.Outcome, error) {
	loc, err := m.locations.Get(ctx, id)
	if dnderr.IsNotFound(err) {
		return nil, cast.Failedf(cast.ReasonNotFound, "location %s does not exist", id), nil
	}
	if err != nil {
		return nil, nil, dnderr.Wrapf(err, "failed to get location %s", id)
	}
	return loc, nil, nil
}

type phaseWalkHandler struct {
	*mover
}

func (h *phaseWalkHandler) Key() string { return ability.ActionPhaseWalk }

func (h *phaseWalkHandler) Execute(ctx context.Context, req *Request) (*cast.Outcome, error) {
	raw, _ := req.Params.String(ParamDirection)
	direction := world.ParseDirection(raw)
	offset, ok := world.CompassOffset(direction)
	if !ok {
		return cast.Failedf(cast.ReasonInvalidDirection, "cannot phase walk %s", direction), nil
	}

	distance := 1
	if n, present, valid := req.Params.Int(ParamDistance); present {
		if !valid || n < 1 {
			return cast.Failedf(cast.ReasonOutOfRange, "distance must be a positive whole number"), nil
		}
		distance = n
	}
	maxRange := max(req.Ability.Range, 1)
	if distance > maxRange {
		return cast.Failedf(cast.ReasonOutOfRange, "%s reaches at most %d, %d requested", req.Ability.Name, maxRange, distance), nil
	}

	if req.Actor.CurrentLocationID == "" {
		return cast.Failed(cast.ReasonNotFound, "you are not anywhere to phase walk from"), nil
	}
	current, failure, err := h.location(ctx, req.Actor.CurrentLocationID)
	if err != nil || failure != nil {
		return failure, err
	}

	x, y, ok := current.Coordinates()
	if !ok {
		return cast.Failedf(cast.ReasonNoDestination, "%s has no grid position to phase walk from", current.Name), nil
	}

	tx, ty := x+offset.DX*distance, y+offset.DY*distance
	dest, err := h.locations.GetByCoordinates(ctx, tx, ty, current.AreaID)
	if dnderr.IsNotFound(err) {
		return cast.Failedf(cast.ReasonNoDestination, "there is nothing %s of here to step into", direction), nil
	}
	if err != nil {
		return nil, dnderr.Wrapf(err, "failed to look up (%d,%d) in %s", tx, ty, current.AreaID)
	}

	return h.moveTo(ctx, req.Actor, dest)
}

type teleportHandler struct {
	*mover
}

func (h *teleportHandler) Key() string { return ability.ActionTeleport }

func (h *teleportHandler) Execute(ctx context.Context, req *Request) (*cast.Outcome, error) {
	id, ok := req.Params.String(ParamLocationID)
	if !ok {
		return cast.Failed(cast.ReasonNotFound, "teleport needs a destination"), nil
	}

	dest, failure, err := h.location(ctx, id)
	if err != nil || failure != nil {
		return failure, err
	}

	return h.moveTo(ctx, req.Actor, dest)
}

type recallHandler struct {
	*mover
	homeArea string
}

func (h *recallHandler) Key() string { return ability.ActionRecall }

func (h *recallHandler) Execute(ctx context.Context, req *Request) (*cast.Outcome, error) {
	home, err := h.locations.GetByCoordinates(ctx, 0, 0, h.homeArea)
	if dnderr.IsNotFound(err) {
		return cast.Failedf(cast.ReasonNoDestination, "%s has no home location", h.homeArea), nil
	}
	if err != nil {
		return nil, dnderr.Wrapf(err, "failed to look up home of %s", h.homeArea)
	}

	return h.moveTo(ctx, req.Actor, home)
}
