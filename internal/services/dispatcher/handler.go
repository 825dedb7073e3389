package dispatcher

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/KirkDiggler/ability-engine/internal/domain/ability"
	"github.com/KirkDiggler/ability-engine/internal/domain/actor"
	"github.com/KirkDiggler/ability-engine/internal/domain/cast"
)

// Handler executes one named utility effect
type Handler interface {
	// Key returns the action name the handler serves (e.g. "phase_walk")
	Key() string

	// Execute performs the effect. Failures the caller can recover from are
	// returned as failure outcomes; errors are reserved for collaborator faults.
	Execute(ctx context.Context, req *Request) (*cast.Outcome, error)
}

// Request is one validated, available utility cast
type Request struct {
	Actor   *actor.Actor
	Ability *ability.Ability
	Params  Params
	Now     time.Time
}

// Target parameter names
const (
	ParamDirection  = "direction"
	ParamDistance   = "distance"
	ParamLocationID = "locationId"
	ParamTargetID   = "targetId"
)

// Params is the caller-supplied target map
type Params map[string]any

// String returns a non-empty string parameter
func (p Params) String(key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Int returns an integral parameter. JSON numbers arrive as float64 and
// query strings as text; both are accepted when they hold a whole number.
func (p Params) Int(key string) (value int, present bool, valid bool) {
	v, ok := p[key]
	if !ok || v == nil {
		return 0, false, false
	}

	switch n := v.(type) {
	case int:
		return n, true, true
	case int64:
		return int(n), true, true
	case float64:
		if n != math.Trunc(n) {
			return 0, true, false
		}
		return int(n), true, true
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, true, false
		}
		return i, true, true
	}
	return 0, true, false
}
