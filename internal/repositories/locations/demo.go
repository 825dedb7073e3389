package locations

import "github.com/KirkDiggler/ability-engine/internal/domain/world"

// Demo world location ids
const (
	DemoTownSquare = "loc-town-square"
	DemoNorthGate  = "loc-north-gate"
	DemoWatchtower = "loc-watchtower"
	DemoMarket     = "loc-market"
	DemoChapel     = "loc-chapel"
	DemoSanctum    = "loc-sanctum"
	DemoCrypt      = "loc-crypt"
)

func place(id, name, area string, x, y int) *world.Location {
	return &world.Location{ID: id, Name: name, GridX: &x, GridY: &y, AreaID: area}
}

// NewDemoWorld builds a small overworld around the town square plus a crypt
func NewDemoWorld() (*InMemoryRepository, *InMemorySecrets) {
	repo := NewInMemoryRepository(
		place(DemoTownSquare, "Town Square", "overworld", 0, 0),
		place(DemoNorthGate, "North Gate", "overworld", 0, -1),
		place(DemoWatchtower, "Watchtower", "overworld", 0, -2),
		place(DemoMarket, "Market", "overworld", 1, 0),
		place(DemoChapel, "Chapel", "overworld", -1, 1),
		&world.Location{ID: DemoSanctum, Name: "Hidden Sanctum", AreaID: "overworld"},
		place(DemoCrypt, "Crypt Entrance", "crypt", 0, 0),
	)

	secrets := NewInMemorySecrets()
	secrets.AddHiddenExit(DemoMarket, world.HiddenExit{
		Direction:   world.Down,
		Destination: DemoCrypt,
		Description: "A loose flagstone behind the fishmonger's stall.",
	})
	secrets.AddTrap(DemoMarket, world.Trap{ID: "trap-pit", Name: "Covered Pit", DC: 12})
	secrets.AddInvisibleCreature(DemoChapel, world.Creature{ID: "npc-poltergeist", Name: "Poltergeist"})

	return repo, secrets
}
