package sim

import (
	"go.uber.org/zap"

	"github.com/hyperion/server/internal/core/ecs"
	"github.com/hyperion/server/internal/core/event"
	coresys "github.com/hyperion/server/internal/core/system"
	"github.com/hyperion/server/internal/world"
)

// EngineForceSystem adds impulse-engine thrust along the ship's orientation,
// scaled by power allocation, module health, and thrust efficiency.
type EngineForceSystem struct {
	e *Engine
}

func (s *EngineForceSystem) Phase() coresys.Phase { return coresys.PhaseEngineForces }

func (s *EngineForceSystem) Update(_ float64) {
	s.e.World.Ships.Each(func(id ecs.EntityID, ship *world.Ship) {
		if ship.Destroyed || ship.DockState == world.DockDocked {
			return
		}
		thrust := 0.0
		ship.ModulesOfSlot("impulse-engines", func(_ int, m *world.ModuleInstance) {
			if !m.Operational {
				return
			}
			maxThrust := m.Stat("max_thrust")
			thrust += maxThrust * m.EffectivePower * m.HealthRatio() * s.e.Tun.ThrustEfficiency
		})
		if thrust <= 0 || ship.Control.Thrust <= 0 {
			return
		}
		forward := ship.Orientation.Forward()
		s.e.shipForces[id] = s.e.shipForces[id].Add(forward.Scale(thrust * ship.Control.Thrust))
	})
}

// DragSystem subtracts a small velocity-proportional drag force. Space drag
// is a gameplay concession, not physics.
type DragSystem struct {
	e *Engine
}

func (s *DragSystem) Phase() coresys.Phase { return coresys.PhaseDrag }

func (s *DragSystem) Update(_ float64) {
	s.e.World.Ships.Each(func(id ecs.EntityID, ship *world.Ship) {
		if ship.Destroyed {
			return
		}
		speed := ship.Velocity.Len()
		if speed < 0.01 {
			return
		}
		dragMag := s.e.Tun.SpaceDrag * speed
		drag := ship.Velocity.Normalized().Scale(-dragMag)
		s.e.shipForces[id] = s.e.shipForces[id].Add(drag)
	})
}

// IntegrationSystem applies F=ma with graviton-adjusted mass, integrates
// velocity into position, applies angular control, and clamps everything to
// the tunable limits. Clamping is logged, never fatal.
type IntegrationSystem struct {
	e *Engine
}

func (s *IntegrationSystem) Phase() coresys.Phase { return coresys.PhaseIntegration }

func (s *IntegrationSystem) Update(dt float64) {
	tun := s.e.Tun
	s.e.World.Ships.Each(func(id ecs.EntityID, ship *world.Ship) {
		if ship.Destroyed || ship.DockState == world.DockDocked {
			return
		}
		mass := ship.EffectiveMass()
		if mass <= 0 {
			mass = 1
		}
		force := s.e.shipForces[id]
		accel := force.Scale(1 / mass)
		if a := accel.Len(); a > tun.MaxAcceleration {
			accel = accel.ClampLen(tun.MaxAcceleration)
			s.e.Log.Warn("acceleration clamped",
				zap.Uint64("ship", uint64(id)), zap.Float64("accel", a))
		}

		if ship.Control.FullStop {
			// Full stop bleeds velocity at the maximum deceleration the
			// drive could produce.
			decel := tun.MaxAcceleration * dt
			speed := ship.Velocity.Len()
			if speed <= decel {
				ship.Velocity = world.Vec3{}
			} else {
				ship.Velocity = ship.Velocity.Scale((speed - decel) / speed)
			}
		} else {
			ship.Velocity = ship.Velocity.Add(accel.Scale(dt))
		}
		ship.Velocity = ship.Velocity.ClampLen(tun.MaxVelocity)

		// Angular control: pitch/yaw/roll inputs command angular velocity
		// directly, clamped to the tunable rate.
		ctl := ship.Control
		ship.AngularVelocity = world.Vec3{
			X: ctl.Pitch * tun.MaxAngularVelocity,
			Y: ctl.Yaw * tun.MaxAngularVelocity,
			Z: ctl.Roll * tun.MaxAngularVelocity,
		}
		if ship.AngularVelocity.Len() > 1e-9 {
			delta := world.FromScaledAxis(ship.AngularVelocity.Scale(dt))
			ship.Orientation = delta.Mul(ship.Orientation).Normalized()
		}

		moved := ship.Velocity.Len() > 1e-9
		ship.Position = ship.Position.Add(ship.Velocity.Scale(dt))
		if ship.Position.Len() > tun.MaxPosition {
			ship.Position = ship.Position.ClampLen(tun.MaxPosition)
			s.e.Log.Warn("position clamped", zap.Uint64("ship", uint64(id)))
		}
		if moved {
			s.e.emit(event.ShipMoved{
				ShipID:   id,
				Position: ship.Position.Array(),
				Velocity: ship.Velocity.Array(),
			})
		}
	})

	// Forces are consumed; next tick accumulates fresh.
	for k := range s.e.shipForces {
		delete(s.e.shipForces, k)
	}
}
