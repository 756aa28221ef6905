package sim

import (
	"github.com/hyperion/server/internal/combat"
	"github.com/hyperion/server/internal/core/ecs"
	coresys "github.com/hyperion/server/internal/core/system"
	"github.com/hyperion/server/internal/world"
)

// BeamSystem applies continuous damage for active beam weapons: damage × dt
// per tick through the same tag-resolved damage path as projectile impacts.
// A beam drops when its target dies, leaves range, or the mount loses its
// lock.
type BeamSystem struct {
	e *Engine
}

func (s *BeamSystem) Phase() coresys.Phase { return coresys.PhaseBeams }

func (s *BeamSystem) Update(dt float64) {
	s.e.World.Ships.Each(func(id ecs.EntityID, ship *world.Ship) {
		if ship.Destroyed {
			return
		}
		for i := range ship.Modules {
			m := &ship.Modules[i]
			w := m.Weapon
			if w == nil || !w.Active || !m.Operational {
				continue
			}
			def := s.e.Catalog.Weapon(w.WeaponID)
			if def == nil || def.Tags.Pattern() != combat.PatternBeam {
				continue
			}
			target := s.e.World.Ship(w.TargetID)
			if target == nil || target.Destroyed {
				w.Active = false
				w.TargetID = 0
				continue
			}
			dist := target.Position.Sub(ship.Position).Len()
			if dist > def.MaxRange {
				w.Active = false
				continue
			}
			// Beam throughput scales with the mount's effective power.
			s.e.applyImpact(target, id, combat.Impact{
				BaseDamage: def.Damage * dt * m.EffectivePower,
				Tags:       def.Tags,
			})
		}
	})
}
