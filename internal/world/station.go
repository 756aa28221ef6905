package world

import "github.com/hyperion/server/internal/core/ecs"

// Station is a fixed installation ships can dock with.
type Station struct {
	ID        ecs.EntityID
	Name      string
	FactionID string
	Position  Vec3
	Size      float64
	Type      string

	DockingCapacity int
	Docked          map[ecs.EntityID]bool
	Services        []string
}

// HasCapacity reports whether another ship may dock.
func (st *Station) HasCapacity() bool {
	return len(st.Docked) < st.DockingCapacity
}

// Team is a player grouping that owns blueprints and ships.
type Team struct {
	ID      string
	Name    string
	Members map[string]bool // player ids
}

// Player is a connected participant.
type Player struct {
	ID   string
	Name string
}
