package sim

import (
	"github.com/hyperion/server/internal/combat"
	"github.com/hyperion/server/internal/core/ecs"
	coresys "github.com/hyperion/server/internal/core/system"
	"github.com/hyperion/server/internal/world"
)

// CollisionSystem runs the broad phase over the spatial grid and resolves
// projectile-vs-ship impacts: tag-resolved damage, blast falloff, projectile
// despawn. Chaff clouds mark guided projectiles inside their volume instead
// of dealing damage.
type CollisionSystem struct {
	e *Engine
}

func (s *CollisionSystem) Phase() coresys.Phase { return coresys.PhaseCollision }

func (s *CollisionSystem) Update(_ float64) {
	ws := s.e.World
	grid := ws.Grid
	grid.Clear()
	ws.Ships.Each(func(id ecs.EntityID, ship *world.Ship) {
		if !ship.Destroyed {
			grid.Insert(id, ship.Position)
		}
	})

	hitRadius := s.e.Tun.MinCollisionDistance

	ws.Projectiles.Each(func(pid ecs.EntityID, p *world.Projectile) {
		if p.Intercepted || p.Expired {
			return
		}

		if p.Kind == world.ProjChaff {
			s.applyChaffCloud(p)
			return
		}

		for _, sid := range grid.Nearby(p.Position, hitRadius) {
			ship := ws.Ship(sid)
			if ship == nil || ship.Destroyed || sid == p.OwnerID {
				continue
			}
			if ship.Position.Sub(p.Position).Len() >= hitRadius {
				continue
			}
			s.impact(pid, p, ship)
			break
		}
	})
}

func (s *CollisionSystem) impact(pid ecs.EntityID, p *world.Projectile, ship *world.Ship) {
	s.e.applyImpact(ship, p.OwnerID, combat.Impact{
		BaseDamage: p.Payload.ImpactDamage,
		Tags:       p.Payload.Tags,
		ArmorPen:   p.Payload.ArmorPenetration,
		Kinetic:    p.Kind == world.ProjKinetic,
	})

	// Warhead projectiles deal area damage with linear falloff to zero at
	// the blast radius.
	if p.Payload.BlastRadius > 0 && p.Payload.BlastDamage > 0 {
		s.blast(p, ship.ID)
	}

	p.Expired = true
	s.e.World.MarkForDespawn(pid)
}

func (s *CollisionSystem) blast(p *world.Projectile, directHit ecs.EntityID) {
	for _, sid := range s.e.World.Grid.Nearby(p.Position, p.Payload.BlastRadius) {
		if sid == directHit || sid == p.OwnerID {
			continue
		}
		ship := s.e.World.Ship(sid)
		if ship == nil || ship.Destroyed {
			continue
		}
		dist := ship.Position.Sub(p.Position).Len()
		if dist >= p.Payload.BlastRadius {
			continue
		}
		falloff := 1 - dist/p.Payload.BlastRadius
		s.e.applyImpact(ship, p.OwnerID, combat.Impact{
			BaseDamage: p.Payload.BlastDamage * falloff,
			Tags:       p.Payload.Tags,
		})
	}
}

// applyChaffCloud marks hostile guided projectiles inside the cloud as
// degraded; ships inside the cloud are left untouched. Chaff does not
// detonate and never reduces hull.
func (s *CollisionSystem) applyChaffCloud(cloud *world.Projectile) {
	radius := cloud.Payload.BlastRadius
	if radius <= 0 {
		radius = s.e.Tun.MinCollisionDistance * 4
	}
	s.e.World.Projectiles.Each(func(_ ecs.EntityID, p *world.Projectile) {
		if !p.Guided || p.OwnerTeam == cloud.OwnerTeam || p.ChaffDegraded {
			return
		}
		if p.Position.Sub(cloud.Position).Len() < radius {
			p.ChaffDegraded = true
		}
	})
}
