package sim

import (
	"github.com/hyperion/server/internal/core/ecs"
	"github.com/hyperion/server/internal/core/event"
	coresys "github.com/hyperion/server/internal/core/system"
	"github.com/hyperion/server/internal/world"
)

// EffectDecaySystem counts status effects down and removes expired ones.
// It runs before the FTL phase. FTL intents are checked against Tachyon at
// intent intake, so an effect that expires here stops blocking them from
// the next tick's intake on.
type EffectDecaySystem struct {
	e *Engine
}

func (s *EffectDecaySystem) Phase() coresys.Phase { return coresys.PhaseEffectDecay }

func (s *EffectDecaySystem) Update(dt float64) {
	s.e.World.Ships.Each(func(id ecs.EntityID, ship *world.Ship) {
		if len(ship.Effects) == 0 {
			return
		}
		kept := ship.Effects[:0]
		for _, eff := range ship.Effects {
			eff.Remaining -= dt
			if eff.Remaining <= 0 {
				s.e.emit(event.StatusEffectRemoved{
					ShipID: id, Effect: string(eff.Kind),
				})
				continue
			}
			kept = append(kept, eff)
		}
		ship.Effects = kept
	})
}
