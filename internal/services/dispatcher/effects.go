package dispatcher

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/ability-engine/internal/domain/ability"
	"github.com/KirkDiggler/ability-engine/internal/domain/cast"
	"github.com/KirkDiggler/ability-engine/internal/domain/world"
	dnderr "github.com/KirkDiggler/ability-engine/internal/errors"
	"github.com/KirkDiggler/ability-engine/internal/repositories/locations"
)

// statusHandler hands a timed status to the status subsystem
type statusHandler struct {
	action  string
	message string
}

func (h *statusHandler) Key() string { return h.action }

func (h *statusHandler) Execute(_ context.Context, req *Request) (*cast.Outcome, error) {
	duration := req.Ability.Duration

	outcome := cast.Succeeded(fmt.Sprintf(h.message, duration))
	outcome.StatusEffect = &cast.StatusEffect{Name: h.action, DurationSeconds: duration}
	outcome.Mutations = []cast.Mutation{{
		Kind: cast.MutationStatusApplied,
		Data: map[string]any{"status": h.action, "duration_seconds": duration},
	}}
	return outcome, nil
}

func statusHandlers() []Handler {
	return []Handler{
		&statusHandler{action: ability.ActionLevitate, message: "You rise gently off the ground for %d seconds."},
		&statusHandler{action: ability.ActionInvisibility, message: "You fade from sight for %d seconds."},
		&statusHandler{action: ability.ActionLight, message: "A steady light surrounds you for %d seconds."},
	}
}

type detectSecretHandler struct {
	locations locations.Repository
	secrets   locations.SecretRepository
}

func (h *detectSecretHandler) Key() string { return ability.ActionDetectSecret }

func (h *detectSecretHandler) Execute(ctx context.Context, req *Request) (*cast.Outcome, error) {
	if req.Actor.CurrentLocationID == "" {
		return cast.Failed(cast.ReasonNotFound, "you are not anywhere to search"), nil
	}

	loc, err := h.locations.Get(ctx, req.Actor.CurrentLocationID)
	if dnderr.IsNotFound(err) {
		return cast.Failedf(cast.ReasonNotFound, "location %s does not exist", req.Actor.CurrentLocationID), nil
	}
	if err != nil {
		return nil, dnderr.Wrapf(err, "failed to get location %s", req.Actor.CurrentLocationID)
	}

	revealed, err := h.reveal(ctx, loc.ID)
	if err != nil {
		return nil, err
	}

	outcome := cast.Succeeded(describe(revealed))
	outcome.RevealedInfo = revealed
	outcome.Mutations = []cast.Mutation{{
		Kind: cast.MutationSecretsRevealed,
		Data: map[string]any{
			"location_id":         loc.ID,
			"hidden_exits":        len(revealed.HiddenExits),
			"traps":               len(revealed.Traps),
			"invisible_creatures": len(revealed.InvisibleCreatures),
		},
	}}
	return outcome, nil
}

func (h *detectSecretHandler) reveal(ctx context.Context, locationID string) (*cast.RevealedInfo, error) {
	revealed := &cast.RevealedInfo{
		HiddenExits:        []world.HiddenExit{},
		Traps:              []world.Trap{},
		InvisibleCreatures: []world.Creature{},
	}
	if h.secrets == nil {
		return revealed, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		exits, err := h.secrets.HiddenExits(gctx, locationID)
		if err != nil {
			return dnderr.Wrap(err, "failed to get hidden exits")
		}
		revealed.HiddenExits = append(revealed.HiddenExits, exits...)
		return nil
	})
	g.Go(func() error {
		traps, err := h.secrets.Traps(gctx, locationID)
		if err != nil {
			return dnderr.Wrap(err, "failed to get traps")
		}
		revealed.Traps = append(revealed.Traps, traps...)
		return nil
	})
	g.Go(func() error {
		creatures, err := h.secrets.InvisibleCreatures(gctx, locationID)
		if err != nil {
			return dnderr.Wrap(err, "failed to get invisible creatures")
		}
		revealed.InvisibleCreatures = append(revealed.InvisibleCreatures, creatures...)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return revealed, nil
}

func describe(r *cast.RevealedInfo) string {
	if r.Empty() {
		return "You sense nothing hidden here."
	}

	var found []string
	if n := len(r.HiddenExits); n > 0 {
		found = append(found, plural(n, "hidden exit"))
	}
	if n := len(r.Traps); n > 0 {
		found = append(found, plural(n, "trap"))
	}
	if n := len(r.InvisibleCreatures); n > 0 {
		found = append(found, plural(n, "unseen creature"))
	}
	return "You sense " + strings.Join(found, " and ") + "."
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

type unlockHandler struct{}

func (h *unlockHandler) Key() string { return ability.ActionUnlock }

func (h *unlockHandler) Execute(_ context.Context, req *Request) (*cast.Outcome, error) {
	targetID, ok := req.Params.String(ParamTargetID)
	if !ok {
		return cast.Failed(cast.ReasonNotFound, "unlock needs a target"), nil
	}

	outcome := cast.Succeeded(fmt.Sprintf("You work your magic on %s.", targetID))
	outcome.TargetID = targetID
	outcome.Mutations = []cast.Mutation{{
		Kind: cast.MutationUnlockRequested,
		Data: map[string]any{"target_id": targetID},
	}}
	return outcome, nil
}
