package sim

import (
	"github.com/hyperion/server/internal/core/ecs"
	"github.com/hyperion/server/internal/core/event"
	coresys "github.com/hyperion/server/internal/core/system"
	"github.com/hyperion/server/internal/world"
)

// ShipSystemsSystem recomputes each ship's power budget and heat balance.
// Production comes from power cores scaled by health and allocation; when
// demand exceeds production, every non-core module's effective power scales
// by production/demand. Heat above capacity degrades modules and, sustained,
// damages them.
type ShipSystemsSystem struct {
	e *Engine
}

func (s *ShipSystemsSystem) Phase() coresys.Phase { return coresys.PhaseShipSystems }

func (s *ShipSystemsSystem) Update(dt float64) {
	s.e.World.Ships.Each(func(id ecs.EntityID, ship *world.Ship) {
		if ship.Destroyed {
			return
		}
		s.powerBudget(id, ship)
		s.heatBalance(id, ship, dt)
	})
}

func (s *ShipSystemsSystem) powerBudget(id ecs.EntityID, ship *world.Ship) {
	production := 0.0
	demand := 0.0
	for i := range ship.Modules {
		m := &ship.Modules[i]
		if !m.Operational {
			continue
		}
		if gen := m.Stat("energy_production"); gen > 0 {
			production += gen * m.HealthRatio() * m.PowerAlloc
		} else {
			demand += m.Demand * m.PowerAlloc
		}
	}

	scale := 1.0
	if demand > production && demand > 0 {
		scale = production / demand
	}
	for i := range ship.Modules {
		m := &ship.Modules[i]
		if !m.Operational {
			m.EffectivePower = 0
			continue
		}
		if m.Stat("energy_production") > 0 {
			m.EffectivePower = m.PowerAlloc
			continue
		}
		m.EffectivePower = m.PowerAlloc * scale
	}
}

func (s *ShipSystemsSystem) heatBalance(id ecs.EntityID, ship *world.Ship, dt float64) {
	generated := 0.0
	dissipation := 0.0
	for i := range ship.Modules {
		m := &ship.Modules[i]
		if !m.Operational {
			continue
		}
		generated += m.HeatOutput * m.EffectivePower
		if cool := m.Stat("cooling_capacity"); cool > 0 {
			dissipation += cool * m.HealthRatio() * m.CoolingAlloc
		}
	}

	ship.Heat += (generated - dissipation) * dt
	if ship.Heat < 0 {
		ship.Heat = 0
	}

	if ship.HeatCapacity <= 0 || ship.Heat <= ship.HeatCapacity {
		return
	}

	// Overheat: every heat-producing module takes scripted damage per
	// second until the ship cools back under capacity.
	ratio := ship.Heat / ship.HeatCapacity
	dmg := s.e.Scripts.OverheatDamage(ratio, s.e.Tun.OverheatDamagePerSecond) * dt
	if dmg <= 0 {
		return
	}
	for i := range ship.Modules {
		m := &ship.Modules[i]
		if !m.Operational || m.HeatOutput <= 0 {
			continue
		}
		m.Health -= dmg
		if m.Health <= 0 {
			m.Health = 0
			m.Operational = false
		}
		s.e.emit(event.ModuleStatusChanged{
			ShipID: id, ModuleIndex: i, SlotTypeID: m.SlotTypeID,
			HealthPct: m.HealthRatio(), Operational: m.Operational,
		})
	}
}
