package sim

import (
	"github.com/hyperion/server/internal/core/ecs"
	"github.com/hyperion/server/internal/core/event"
	coresys "github.com/hyperion/server/internal/core/system"
	"github.com/hyperion/server/internal/world"
)

// DockingSystem advances the per-ship docking state machines:
// Requested -> Approaching -> Docked -> Undocking -> Idle. Approval is
// capacity-based; approach completes when the ship closes inside the docking
// range.
type DockingSystem struct {
	e *Engine
}

func (s *DockingSystem) Phase() coresys.Phase { return coresys.PhaseDocking }

func (s *DockingSystem) Update(_ float64) {
	ws := s.e.World
	ws.Ships.Each(func(id ecs.EntityID, ship *world.Ship) {
		if ship.Destroyed || ship.DockState == world.DockIdle {
			return
		}
		st := ws.Station(ship.DockStationID)
		if st == nil {
			// Station gone; abort whatever phase we were in.
			ship.DockState = world.DockIdle
			ship.DockStationID = 0
			return
		}

		switch ship.DockState {
		case world.DockRequested:
			if !st.HasCapacity() {
				s.e.reject(id, "dock_request", event.RejectShipNotDocked)
				ship.DockState = world.DockIdle
				ship.DockStationID = 0
				return
			}
			ship.DockState = world.DockApproaching

		case world.DockApproaching:
			if ship.Position.Sub(st.Position).Len() <= s.e.Tun.DockingRange+st.Size {
				if !st.HasCapacity() {
					ship.DockState = world.DockIdle
					ship.DockStationID = 0
					return
				}
				ship.DockState = world.DockDocked
				ship.Velocity = world.Vec3{}
				st.Docked[id] = true
				s.e.emit(event.Docked{ShipID: id, StationID: st.ID})
			}

		case world.DockUndocking:
			delete(st.Docked, id)
			ship.DockState = world.DockIdle
			ship.DockStationID = 0
			s.e.emit(event.Undocked{ShipID: id, StationID: st.ID})
		}
	})
}
