package sim

import (
	"github.com/hyperion/server/internal/combat"
	"github.com/hyperion/server/internal/core/ecs"
	"github.com/hyperion/server/internal/core/event"
	coresys "github.com/hyperion/server/internal/core/system"
	"github.com/hyperion/server/internal/world"
)

// FTLSystem advances warp and jump drive state machines. Tachyon never
// cancels an already charging drive, but the intent intake refuses to start
// one while the effect is active.
//
// Warp: Idle -> Charging -> Cruising -> Cooldown -> Idle. Cruising holds the
// ship at warp-factor velocity along the chosen heading.
// Jump: Idle -> Charging -> (instant translation) -> Cooldown -> Idle.
type FTLSystem struct {
	e *Engine
}

func (s *FTLSystem) Phase() coresys.Phase { return coresys.PhaseFTL }

func (s *FTLSystem) Update(dt float64) {
	s.e.World.Ships.Each(func(id ecs.EntityID, ship *world.Ship) {
		if ship.Destroyed {
			return
		}
		s.warp(id, ship, dt)
		s.jump(id, ship, dt)
	})
}

func (s *FTLSystem) warp(id ecs.EntityID, ship *world.Ship, dt float64) {
	switch ship.WarpState {
	case world.FTLCharging:
		ship.WarpCharge -= dt
		if ship.WarpCharge <= 0 {
			ship.WarpState = world.FTLCruising
			ship.WarpCharge = 0
		}
	case world.FTLCruising:
		// Cruise overrides impulse velocity: high effective speed along
		// the warp heading, still clamped next integration.
		speed := s.e.Tun.WarpBaseSpeed * ship.WarpFactor
		ship.Velocity = ship.WarpHeading.Scale(speed)
	case world.FTLCooldown:
		ship.WarpCharge -= dt
		if ship.WarpCharge <= 0 {
			ship.WarpState = world.FTLIdle
			ship.WarpCharge = 0
		}
	}
}

func (s *FTLSystem) jump(id ecs.EntityID, ship *world.Ship, dt float64) {
	switch ship.JumpState {
	case world.FTLCharging:
		ship.JumpCharge -= dt
		if ship.JumpCharge > 0 {
			return
		}
		// Charge complete: translate instantaneously along the nose and
		// arrive stationary.
		offset := ship.Orientation.Forward().Scale(ship.JumpDistance)
		ship.Position = ship.Position.Add(offset).ClampLen(s.e.Tun.MaxPosition)
		ship.Velocity = world.Vec3{}
		ship.JumpState = world.FTLCooldown
		ship.JumpCharge = s.e.Tun.JumpCooldown
		s.e.emit(event.FtlDisengaged{ShipID: id, Drive: "jump"})
		s.e.emit(event.ShipMoved{
			ShipID:   id,
			Position: ship.Position.Array(),
			Velocity: ship.Velocity.Array(),
		})
	case world.FTLCooldown:
		ship.JumpCharge -= dt
		if ship.JumpCharge <= 0 {
			ship.JumpState = world.FTLIdle
			ship.JumpCharge = 0
		}
	}
}

// ftlBlocked reports whether a ship is barred from beginning an FTL
// transition. Kept beside
// the state machines so the rule reads in one place: Tachyon pins both
// drives to Idle.
func ftlBlocked(ship *world.Ship) bool {
	return ship.HasEffect(combat.EffectTachyon)
}
