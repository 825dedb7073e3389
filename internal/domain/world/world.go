package world

import "strings"

// Location is the slice of location graph data the core needs
type Location struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	GridX  *int   `json:"grid_x,omitempty"`
	GridY  *int   `json:"grid_y,omitempty"`
	AreaID string `json:"area_id"`
}

// Coordinates returns the grid position when the location has one
func (l *Location) Coordinates() (x, y int, ok bool) {
	if l == nil || l.GridX == nil || l.GridY == nil {
		return 0, 0, false
	}
	return *l.GridX, *l.GridY, true
}

// Direction is a movement direction as sent by clients
type Direction string

const (
	North     Direction = "NORTH"
	South     Direction = "SOUTH"
	East      Direction = "EAST"
	West      Direction = "WEST"
	Northeast Direction = "NORTHEAST"
	Northwest Direction = "NORTHWEST"
	Southeast Direction = "SOUTHEAST"
	Southwest Direction = "SOUTHWEST"
	Up        Direction = "UP"
	Down      Direction = "DOWN"
	Enter     Direction = "ENTER"
	Unknown   Direction = "UNKNOWN"
)

// ParseDirection normalizes client input; unrecognized values become Unknown
func ParseDirection(raw string) Direction {
	d := Direction(strings.ToUpper(strings.TrimSpace(raw)))
	switch d {
	case North, South, East, West, Northeast, Northwest, Southeast, Southwest, Up, Down, Enter:
		return d
	}
	return Unknown
}

// Offset is a grid delta; y grows southward
type Offset struct {
	DX int
	DY int
}

var compass = map[Direction]Offset{
	North:     {DX: 0, DY: -1},
	South:     {DX: 0, DY: 1},
	East:      {DX: 1, DY: 0},
	West:      {DX: -1, DY: 0},
	Northeast: {DX: 1, DY: -1},
	Northwest: {DX: -1, DY: -1},
	Southeast: {DX: 1, DY: 1},
	Southwest: {DX: -1, DY: 1},
}

// CompassOffset returns the grid delta of one of the 8 planar directions.
// UP, DOWN, ENTER and UNKNOWN have no planar offset.
func CompassOffset(d Direction) (Offset, bool) {
	o, ok := compass[d]
	return o, ok
}

// HiddenExit is an exit only visible to detection magic
type HiddenExit struct {
	Direction   Direction `json:"direction"`
	Destination string    `json:"destination_id"`
	Description string    `json:"description,omitempty"`
}

// Trap is a trap placed at a location
type Trap struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	DC   int    `json:"dc,omitempty"`
}

// Creature is an invisible creature present at a location
type Creature struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
