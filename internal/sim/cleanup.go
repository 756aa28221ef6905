package sim

import (
	"github.com/hyperion/server/internal/core/ecs"
	"github.com/hyperion/server/internal/core/event"
	coresys "github.com/hyperion/server/internal/core/system"
	"github.com/hyperion/server/internal/world"
)

// CleanupSystem despawns flagged entities at tick end and closes the tick
// with SimulationTick. Destroyed ships emit their terminal ShipDestroyed
// event here, after every phase has seen their final state.
type CleanupSystem struct {
	e *Engine
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(dt float64) {
	ws := s.e.World

	ws.Ships.Each(func(id ecs.EntityID, ship *world.Ship) {
		if !ship.Destroyed {
			return
		}
		// Unhook from any station before the entity goes away.
		if st := ws.Station(ship.DockStationID); st != nil {
			delete(st.Docked, id)
		}
		s.e.emit(event.ShipDestroyed{ShipID: id, DestroyedBy: ship.DestroyedBy})
	})

	ws.FlushDespawns()

	s.e.emit(event.SimulationTick{TickNo: ws.Tick, Time: ws.Time + dt})
}
