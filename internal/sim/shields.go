package sim

import (
	"github.com/hyperion/server/internal/core/ecs"
	"github.com/hyperion/server/internal/core/event"
	coresys "github.com/hyperion/server/internal/core/system"
	"github.com/hyperion/server/internal/world"
)

// ShieldRegenSystem recharges raised shields once the regen delay has passed
// since the last damage. Recharge rate comes from shield-generator modules,
// scaled by health and effective power; the tunable rate is the floor when a
// ship has shields but no generator stat.
type ShieldRegenSystem struct {
	e *Engine
}

func (s *ShieldRegenSystem) Phase() coresys.Phase { return coresys.PhaseShieldRegen }

func (s *ShieldRegenSystem) Update(dt float64) {
	delayTicks := uint64(s.e.Tun.ShieldRegenDelay / s.e.dt)
	s.e.World.Ships.Each(func(_ ecs.EntityID, ship *world.Ship) {
		if ship.Destroyed || !ship.ShieldsRaised || ship.Shields >= ship.MaxShields {
			return
		}
		if ship.LastDamageTick > 0 && s.e.World.Tick-ship.LastDamageTick < delayTicks {
			return
		}

		rate := 0.0
		ship.ModulesOfSlot("shield-generator", func(_ int, m *world.ModuleInstance) {
			if !m.Operational {
				return
			}
			rate += m.Stat("shield_recharge_rate") * m.HealthRatio() * m.EffectivePower
		})
		if rate <= 0 {
			rate = s.e.Tun.ShieldRegenRate
		}

		before := ship.Shields
		ship.Shields += rate * dt
		if ship.Shields > ship.MaxShields {
			ship.Shields = ship.MaxShields
		}
		if ship.Shields != before {
			s.e.emit(event.ShieldChanged{
				ShipID: ship.ID, Raised: true,
				Current: ship.Shields, Max: ship.MaxShields,
			})
		}
	})
}
