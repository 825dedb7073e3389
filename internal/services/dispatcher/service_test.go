package dispatcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/ability-engine/internal/domain/ability"
	"github.com/KirkDiggler/ability-engine/internal/domain/actor"
	"github.com/KirkDiggler/ability-engine/internal/domain/cast"
	"github.com/KirkDiggler/ability-engine/internal/repositories/actors"
	mockactors "github.com/KirkDiggler/ability-engine/internal/repositories/actors/mock"
	"github.com/KirkDiggler/ability-engine/internal/repositories/locations"
	"github.com/KirkDiggler/ability-engine/internal/uuid"
)

var (
	phaseWalk = &ability.Ability{ID: "phase-walk", Name: "Phase Walk", Type: ability.TypeUtility, Action: ability.ActionPhaseWalk, Range: 2}
	teleport  = &ability.Ability{ID: "teleport", Name: "Teleport", Type: ability.TypeUtility, Action: ability.ActionTeleport}
	recall    = &ability.Ability{ID: "recall", Name: "Recall", Type: ability.TypeUtility, Action: ability.ActionRecall}
	levitate  = &ability.Ability{ID: "levitate", Name: "Levitate", Type: ability.TypeUtility, Action: ability.ActionLevitate, Duration: 120}
	detect    = &ability.Ability{ID: "detect-secret", Name: "Detect Secrets", Type: ability.TypeUtility, Action: ability.ActionDetectSecret}
	unlock    = &ability.Ability{ID: "unlock", Name: "Knock", Type: ability.TypeUtility, Action: ability.ActionUnlock}
)

type DispatcherSuite struct {
	suite.Suite
	ctx    context.Context
	now    time.Time
	actors actors.Repository
	svc    Service
	hero   *actor.Actor
}

func (s *DispatcherSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2024, 5, 4, 12, 0, 0, 0, time.UTC)
	s.actors = actors.NewInMemoryRepository()

	world, secrets := locations.NewDemoWorld()
	s.svc = NewService(&ServiceConfig{
		Locations:   world,
		Movement:    s.actors,
		Secrets:     secrets,
		IDGenerator: uuid.NewSequenceGenerator("mut"),
	})

	s.hero = &actor.Actor{
		ID:                 "char-1",
		Name:               "Ilsa",
		Level:              5,
		ClassID:            "mage",
		CurrentLocationID:  locations.DemoTownSquare,
		VisitedLocationIDs: []string{locations.DemoTownSquare},
	}
	s.Require().NoError(s.actors.Save(s.ctx, s.hero))
}

func (s *DispatcherSuite) dispatch(a *ability.Ability, params Params) *cast.Outcome {
	outcome, err := s.svc.Dispatch(s.ctx, &Request{Actor: s.hero, Ability: a, Params: params, Now: s.now})
	s.Require().NoError(err)
	s.Require().NotNil(outcome)
	return outcome
}

func (s *DispatcherSuite) stored() *actor.Actor {
	a, err := s.actors.Get(s.ctx, s.hero.ID)
	s.Require().NoError(err)
	return a
}

func (s *DispatcherSuite) assertFailure(outcome *cast.Outcome, reason cast.Reason) {
	s.False(outcome.Success)
	s.Require().NotNil(outcome.Failure)
	s.Equal(reason, outcome.Failure.Reason)
	s.Empty(outcome.Mutations)
}

func (s *DispatcherSuite) TestPhaseWalkNorth() {
	outcome := s.dispatch(phaseWalk, Params{ParamDirection: "NORTH"})

	s.True(outcome.Success)
	s.Nil(outcome.Failure)
	s.Equal(&cast.LocationChange{
		FromLocationID: locations.DemoTownSquare,
		ToLocationID:   locations.DemoNorthGate,
		ToName:         "North Gate",
	}, outcome.LocationChange)

	stored := s.stored()
	s.Equal(locations.DemoNorthGate, stored.CurrentLocationID)
	s.Equal([]string{locations.DemoTownSquare, locations.DemoNorthGate}, stored.VisitedLocationIDs)
	s.Equal(locations.DemoNorthGate, s.hero.CurrentLocationID, "snapshot follows the move")

	s.Require().Len(outcome.Mutations, 2)
	s.Equal(cast.Mutation{
		ID:         "mut-1",
		Kind:       cast.MutationLocationChanged,
		ActorID:    "char-1",
		AbilityID:  "phase-walk",
		OccurredAt: s.now,
		Data:       map[string]any{"from": locations.DemoTownSquare, "to": locations.DemoNorthGate},
	}, outcome.Mutations[0])
	s.Equal(cast.MutationLocationVisited, outcome.Mutations[1].Kind)
	s.Equal("mut-2", outcome.Mutations[1].ID)
}

func (s *DispatcherSuite) TestPhaseWalkDistance() {
	outcome := s.dispatch(phaseWalk, Params{ParamDirection: "north", ParamDistance: float64(2)})
	s.True(outcome.Success)
	s.Equal(locations.DemoWatchtower, s.stored().CurrentLocationID)
}

func (s *DispatcherSuite) TestPhaseWalkRejections() {
	tests := []struct {
		name   string
		params Params
		reason cast.Reason
	}{
		{name: "beyond range", params: Params{ParamDirection: "NORTH", ParamDistance: 3}, reason: cast.ReasonOutOfRange},
		{name: "zero distance", params: Params{ParamDirection: "NORTH", ParamDistance: "0"}, reason: cast.ReasonOutOfRange},
		{name: "fractional distance", params: Params{ParamDirection: "NORTH", ParamDistance: 1.5}, reason: cast.ReasonOutOfRange},
		{name: "vertical direction", params: Params{ParamDirection: "UP"}, reason: cast.ReasonInvalidDirection},
		{name: "enter", params: Params{ParamDirection: "ENTER"}, reason: cast.ReasonInvalidDirection},
		{name: "missing direction", params: Params{}, reason: cast.ReasonInvalidDirection},
		{name: "nothing there", params: Params{ParamDirection: "WEST"}, reason: cast.ReasonNoDestination},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			outcome := s.dispatch(phaseWalk, tt.params)
			s.assertFailure(outcome, tt.reason)
			s.Equal(locations.DemoTownSquare, s.stored().CurrentLocationID)
		})
	}
}

func (s *DispatcherSuite) TestPhaseWalkWithoutGrid() {
	s.Require().NoError(s.actors.SetCurrentLocation(s.ctx, s.hero.ID, locations.DemoSanctum))
	s.hero.CurrentLocationID = locations.DemoSanctum

	s.assertFailure(s.dispatch(phaseWalk, Params{ParamDirection: "NORTH"}), cast.ReasonNoDestination)
}

func (s *DispatcherSuite) TestPhaseWalkWithoutLocation() {
	s.hero.CurrentLocationID = ""
	s.assertFailure(s.dispatch(phaseWalk, Params{ParamDirection: "NORTH"}), cast.ReasonNotFound)

	s.hero.CurrentLocationID = "loc-nowhere"
	s.assertFailure(s.dispatch(phaseWalk, Params{ParamDirection: "NORTH"}), cast.ReasonNotFound)
}

func (s *DispatcherSuite) TestTeleport() {
	outcome := s.dispatch(teleport, Params{ParamLocationID: locations.DemoCrypt})
	s.True(outcome.Success)
	s.Equal(locations.DemoCrypt, s.stored().CurrentLocationID)

	s.dispatch(teleport, Params{ParamLocationID: locations.DemoTownSquare})
	s.dispatch(teleport, Params{ParamLocationID: locations.DemoCrypt})
	s.Equal([]string{locations.DemoTownSquare, locations.DemoCrypt}, s.stored().VisitedLocationIDs, "visits are a set")
}

func (s *DispatcherSuite) TestTeleportUnknownDestination() {
	s.assertFailure(s.dispatch(teleport, Params{ParamLocationID: "loc-atlantis"}), cast.ReasonNotFound)
	s.assertFailure(s.dispatch(teleport, nil), cast.ReasonNotFound)
	s.Equal(locations.DemoTownSquare, s.stored().CurrentLocationID)
}

func (s *DispatcherSuite) TestRecall() {
	s.dispatch(teleport, Params{ParamLocationID: locations.DemoCrypt})

	outcome := s.dispatch(recall, Params{ParamLocationID: "ignored"})
	s.True(outcome.Success)
	s.Equal(locations.DemoCrypt, outcome.LocationChange.FromLocationID)
	s.Equal(locations.DemoTownSquare, s.stored().CurrentLocationID)
}

func (s *DispatcherSuite) TestStatusEffect() {
	outcome := s.dispatch(levitate, nil)

	s.True(outcome.Success)
	s.Equal(&cast.StatusEffect{Name: ability.ActionLevitate, DurationSeconds: 120}, outcome.StatusEffect)
	s.Contains(outcome.Message, "120 seconds")
	s.Require().Len(outcome.Mutations, 1)
	s.Equal(cast.MutationStatusApplied, outcome.Mutations[0].Kind)
	s.Equal(locations.DemoTownSquare, s.stored().CurrentLocationID)
}

func (s *DispatcherSuite) TestDetectSecrets() {
	s.dispatch(phaseWalk, Params{ParamDirection: "EAST"})

	outcome := s.dispatch(detect, nil)
	s.True(outcome.Success)
	s.Require().NotNil(outcome.RevealedInfo)
	s.Len(outcome.RevealedInfo.HiddenExits, 1)
	s.Len(outcome.RevealedInfo.Traps, 1)
	s.Empty(outcome.RevealedInfo.InvisibleCreatures)
	s.Equal("You sense 1 hidden exit and 1 trap.", outcome.Message)
}

func (s *DispatcherSuite) TestDetectNothing() {
	outcome := s.dispatch(detect, nil)

	s.True(outcome.Success)
	s.True(outcome.RevealedInfo.Empty())
	s.NotNil(outcome.RevealedInfo.Traps, "empty lists serialize as []")
	s.Equal("You sense nothing hidden here.", outcome.Message)
}

func (s *DispatcherSuite) TestUnlock() {
	outcome := s.dispatch(unlock, Params{ParamTargetID: "door-cellar"})
	s.True(outcome.Success)
	s.Equal("door-cellar", outcome.TargetID)
	s.Equal(cast.MutationUnlockRequested, outcome.Mutations[0].Kind)

	s.assertFailure(s.dispatch(unlock, Params{}), cast.ReasonNotFound)
}

func (s *DispatcherSuite) TestUnknownAction() {
	outcome := s.dispatch(&ability.Ability{ID: "dance", Name: "Dance", Action: "dance"}, nil)
	s.assertFailure(outcome, cast.ReasonUnknownAction)
}

func (s *DispatcherSuite) TestActions() {
	s.Equal([]string{
		"detect_secret", "invisibility", "levitate", "light",
		"phase_walk", "recall", "teleport", "unlock",
	}, s.svc.Actions())
}

func TestDispatcherSuite(t *testing.T) {
	suite.Run(t, new(DispatcherSuite))
}

func TestRecall_MissingHome(t *testing.T) {
	world, _ := locations.NewDemoWorld()
	svc := NewService(&ServiceConfig{Locations: world, Movement: actors.NewInMemoryRepository(), HomeArea: "moon"})

	outcome, err := svc.Dispatch(context.Background(), &Request{
		Actor:   &actor.Actor{ID: "char-1", CurrentLocationID: locations.DemoMarket},
		Ability: recall,
	})
	require.NoError(t, err)
	assert.Equal(t, cast.ReasonNoDestination, outcome.Reason())
}

func TestDetect_WithoutSecretsRepository(t *testing.T) {
	world, _ := locations.NewDemoWorld()
	svc := NewService(&ServiceConfig{Locations: world, Movement: actors.NewInMemoryRepository()})

	outcome, err := svc.Dispatch(context.Background(), &Request{
		Actor:   &actor.Actor{ID: "char-1", CurrentLocationID: locations.DemoMarket},
		Ability: detect,
	})
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.True(t, outcome.RevealedInfo.Empty())
}

func TestMove_WriterFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	writer := mockactors.NewMockLocationWriter(ctrl)
	world, _ := locations.NewDemoWorld()
	svc := NewService(&ServiceConfig{Locations: world, Movement: writer})

	gomock.InOrder(
		writer.EXPECT().
			AddVisitedLocation(gomock.Any(), "char-1", locations.DemoNorthGate).
			Return(nil),
		writer.EXPECT().
			SetCurrentLocation(gomock.Any(), "char-1", locations.DemoNorthGate).
			Return(errors.New("redis down")),
	)

	hero := &actor.Actor{ID: "char-1", CurrentLocationID: locations.DemoTownSquare}
	outcome, err := svc.Dispatch(context.Background(), &Request{
		Actor:   hero,
		Ability: phaseWalk,
		Params:  Params{ParamDirection: "NORTH"},
	})
	assert.Error(t, err)
	assert.Nil(t, outcome)
	assert.Equal(t, locations.DemoTownSquare, hero.CurrentLocationID)
}

func TestMove_VisitFailureLeavesActorInPlace(t *testing.T) {
	ctrl := gomock.NewController(t)
	writer := mockactors.NewMockLocationWriter(ctrl)
	world, _ := locations.NewDemoWorld()
	svc := NewService(&ServiceConfig{Locations: world, Movement: writer})

	// No SetCurrentLocation expectation: gomock fails the test if the pointer moves
	writer.EXPECT().
		AddVisitedLocation(gomock.Any(), "char-1", locations.DemoTownSquare).
		Return(errors.New("redis down")).
		Times(3)

	hero := &actor.Actor{ID: "char-1", CurrentLocationID: locations.DemoChapel}
	for range 3 {
		outcome, err := svc.Dispatch(context.Background(), &Request{Actor: hero, Ability: recall})
		assert.Error(t, err)
		assert.Nil(t, outcome)
		assert.Equal(t, locations.DemoChapel, hero.CurrentLocationID)
	}
}

func TestDispatch_InvalidRequest(t *testing.T) {
	world, _ := locations.NewDemoWorld()
	svc := NewService(&ServiceConfig{Locations: world, Movement: actors.NewInMemoryRepository()})

	_, err := svc.Dispatch(context.Background(), &Request{Ability: levitate})
	assert.Error(t, err)
}

func TestParams_Int(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    int
		present bool
		valid   bool
	}{
		{name: "int", value: 2, want: 2, present: true, valid: true},
		{name: "json number", value: float64(3), want: 3, present: true, valid: true},
		{name: "text", value: "4", want: 4, present: true, valid: true},
		{name: "fraction", value: 1.5, present: true},
		{name: "garbage", value: "far", present: true},
		{name: "bool", value: true, present: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, present, valid := Params{"n": tt.value}.Int("n")
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.present, present)
			assert.Equal(t, tt.valid, valid)
		})
	}

	_, present, _ := Params{}.Int("n")
	assert.False(t, present)
}

func TestHandlerRegistry(t *testing.T) {
	registry := NewHandlerRegistry(&unlockHandler{}, &teleportHandler{}, statusHandlers()[0])

	assert.Equal(t, []string{"levitate", "teleport", "unlock"}, registry.List())

	h, ok := registry.Get("teleport")
	require.True(t, ok)
	assert.Equal(t, "teleport", h.Key())

	_, ok = registry.Get("fireball")
	assert.False(t, ok)

	assert.Panics(t, func() { NewHandlerRegistry(&unlockHandler{}, &unlockHandler{}) })
}
