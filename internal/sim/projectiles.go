package sim

import (
	"math"

	"github.com/hyperion/server/internal/core/ecs"
	"github.com/hyperion/server/internal/core/event"
	coresys "github.com/hyperion/server/internal/core/system"
	"github.com/hyperion/server/internal/world"
)

// ProjectileSystem advances projectiles: guided ordnance steers toward its
// target within its turn-rate limit, kinetics fly ballistic, lifetimes decay.
// Expired warheads emit Detonated; chaff clouds just disperse.
type ProjectileSystem struct {
	e *Engine
}

func (s *ProjectileSystem) Phase() coresys.Phase { return coresys.PhaseProjectiles }

func (s *ProjectileSystem) Update(dt float64) {
	s.e.World.Projectiles.Each(func(id ecs.EntityID, p *world.Projectile) {
		if p.Intercepted {
			return
		}
		p.LifetimeRemaining -= dt
		if p.LifetimeRemaining <= 0 {
			p.Expired = true
			if p.Payload.BlastRadius > 0 && (p.Kind == world.ProjMissile || p.Kind == world.ProjTorpedo) {
				s.e.emit(event.Detonated{
					ProjectileID: id,
					Position:     p.Position.Array(),
					BlastRadius:  p.Payload.BlastRadius,
				})
			}
			s.e.World.MarkForDespawn(id)
			return
		}

		if p.Guided && !p.TargetID.IsZero() {
			s.steer(p, dt)
		}

		p.Position = p.Position.Add(p.Velocity.Scale(dt))
	})
}

// steer turns a guided projectile toward its target, limited by MaxTurnRate.
// Chaff degradation halves the usable turn rate.
func (s *ProjectileSystem) steer(p *world.Projectile, dt float64) {
	target := s.e.World.Ship(p.TargetID)
	if target == nil {
		// Target gone; fly on ballistic.
		p.TargetID = 0
		return
	}
	toTarget := target.Position.Sub(p.Position)
	if toTarget.Len() < 1e-9 {
		return
	}
	want := toTarget.Normalized()
	cur := p.Velocity.Normalized()
	if cur.Len() < 1e-9 {
		p.Velocity = want.Scale(p.MaxSpeed)
		return
	}

	turnRate := p.MaxTurnRate
	if p.ChaffDegraded {
		turnRate *= 0.5
	}
	maxAngle := turnRate * dt

	dot := clamp(cur.Dot(want), -1, 1)
	angle := math.Acos(dot)
	if angle <= maxAngle || angle < 1e-9 {
		p.Velocity = want.Scale(p.MaxSpeed)
		return
	}
	// Rotate current heading toward the target by the turn limit.
	axis := cur.Cross(want)
	if axis.Len() < 1e-9 {
		// Directly behind; pick any perpendicular axis.
		axis = cur.Cross(world.Vec3{Y: 1})
		if axis.Len() < 1e-9 {
			axis = cur.Cross(world.Vec3{X: 1})
		}
	}
	rot := world.FromScaledAxis(axis.Normalized().Scale(maxAngle))
	p.Velocity = rot.Rotate(cur).Scale(p.MaxSpeed)
}
