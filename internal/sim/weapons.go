package sim

import (
	"github.com/hyperion/server/internal/catalog"
	"github.com/hyperion/server/internal/combat"
	"github.com/hyperion/server/internal/core/ecs"
	"github.com/hyperion/server/internal/core/event"
	coresys "github.com/hyperion/server/internal/core/system"
	"github.com/hyperion/server/internal/scripting"
	"github.com/hyperion/server/internal/world"
)

// CooldownSystem decays every weapon's cooldown by dt, floored at zero.
type CooldownSystem struct {
	e *Engine
}

func (s *CooldownSystem) Phase() coresys.Phase { return coresys.PhaseCooldown }

func (s *CooldownSystem) Update(dt float64) {
	s.e.World.Ships.Each(func(_ ecs.EntityID, ship *world.Ship) {
		for i := range ship.Modules {
			w := ship.Modules[i].Weapon
			if w == nil || w.CooldownRemaining <= 0 {
				continue
			}
			w.CooldownRemaining -= dt
			if w.CooldownRemaining < 0 {
				w.CooldownRemaining = 0
			}
		}
	})
}

// FiringSystem triggers ready weapons: manual trigger pulls requested this
// tick, and automatic weapons holding a target lock. The firing pattern from
// the weapon's tags decides projectile count; beam weapons emit none and are
// resolved by the beam phase.
type FiringSystem struct {
	e *Engine
}

func (s *FiringSystem) Phase() coresys.Phase { return coresys.PhaseFiring }

func (s *FiringSystem) Update(_ float64) {
	s.e.World.Ships.Each(func(id ecs.EntityID, ship *world.Ship) {
		if ship.Destroyed {
			return
		}
		for i := range ship.Modules {
			m := &ship.Modules[i]
			w := m.Weapon
			if w == nil {
				continue
			}
			def := s.e.Catalog.Weapon(w.WeaponID)
			if def == nil {
				continue
			}
			// Countermeasure and radial mounts fire in their own phase.
			if def.SlotType == catalog.WeaponSlotCountermeasure || def.SlotType == catalog.WeaponSlotRadial {
				continue
			}

			wantFire := w.FireRequested
			w.FireRequested = false
			if !wantFire && w.FireMode == world.FireAutomatic && w.Active && !w.TargetID.IsZero() {
				wantFire = true
			}
			if !wantFire || !m.Operational || w.CooldownRemaining > 0 {
				continue
			}

			if def.Tags.Pattern() == combat.PatternBeam {
				// Beams toggle on; damage accrues in the beam phase until
				// the target drops or the weapon deactivates.
				w.Active = true
				w.CooldownRemaining = cooldownScaled(def, m)
				s.e.emit(event.WeaponFired{
					ShipID: id, WeaponID: def.ID, TargetID: w.TargetID, Projectiles: 0,
				})
				continue
			}

			if def.UsesAmmo() && w.AmmoLoaded <= 0 {
				s.e.reject(id, "fire", event.RejectInsufficientAmmo)
				continue
			}

			s.fire(id, ship, m, def)
		}
	})
}

// cooldownScaled returns the weapon cooldown scaled inversely by the mount's
// effective power: a starved mount cycles slower.
func cooldownScaled(def *catalog.Weapon, m *world.ModuleInstance) float64 {
	cd := def.CooldownAfterFire()
	power := m.EffectivePower
	if power <= 0.05 {
		power = 0.05
	}
	return cd / power
}

func (s *FiringSystem) fire(id ecs.EntityID, ship *world.Ship, m *world.ModuleInstance, def *catalog.Weapon) {
	w := m.Weapon
	rounds := def.Tags.Pattern().Rounds()
	if def.NumProjectiles > 0 {
		rounds *= def.NumProjectiles
	}

	var ammo *catalog.Ammunition
	if def.UsesAmmo() {
		ammo = s.e.Catalog.Ammo(w.AmmoID)
		if rounds > w.AmmoLoaded {
			rounds = w.AmmoLoaded
		}
		w.AmmoLoaded -= rounds
	}

	target := s.e.World.Ship(w.TargetID)
	spawned := 0
	for r := 0; r < rounds; r++ {
		// Accuracy roll: a miss still consumes the round but spawns a
		// projectile with no target so it flies ballistic and expires.
		hit := true
		if target != nil {
			dist := target.Position.Sub(ship.Position).Len()
			if dist > def.MaxRange {
				s.e.reject(id, "fire", event.RejectTargetOutOfRange)
				continue
			}
			q := s.e.Scripts.AimQuality(scripting.AimContext{
				Distance:      dist,
				MaxRange:      def.MaxRange,
				TargetSpeed:   target.Velocity.Len(),
				Accuracy:      def.Accuracy,
				TargetChaffed: target.HasEffect(combat.EffectChaff),
			})
			hit = s.e.roll() < q
		}

		p := s.buildProjectile(ship, def, ammo)
		if hit && target != nil {
			p.TargetID = w.TargetID
			// Launch straight at the target; guided rounds refine course
			// in flight, ballistic rounds fly this line.
			speed := p.Velocity.Sub(ship.Velocity).Len()
			dir := target.Position.Sub(ship.Position).Normalized()
			p.Velocity = ship.Velocity.Add(dir.Scale(speed))
		}
		s.e.World.SpawnProjectile(p)
		spawned++
	}

	w.CooldownRemaining = cooldownScaled(def, m)
	s.e.emit(event.WeaponFired{
		ShipID: id, WeaponID: def.ID, TargetID: w.TargetID, Projectiles: spawned,
	})
}

func (s *FiringSystem) buildProjectile(ship *world.Ship, def *catalog.Weapon, ammo *catalog.Ammunition) *world.Projectile {
	forward := ship.Orientation.Forward()

	p := &world.Projectile{
		OwnerID:   ship.ID,
		OwnerTeam: ship.TeamID,
		Position:  ship.Position.Add(forward.Scale(s.e.Tun.MinCollisionDistance + 1)),
	}

	speed := def.ProjectileSpeed
	damage := def.Damage
	tags := def.Tags
	lifetime := 0.0

	switch def.SlotType {
	case catalog.WeaponSlotMissile:
		p.Kind = world.ProjMissile
		p.Guided = true
	case catalog.WeaponSlotTorpedo:
		p.Kind = world.ProjTorpedo
		p.Guided = true
	case catalog.WeaponSlotKinetic:
		p.Kind = world.ProjKinetic
	default:
		p.Kind = world.ProjKinetic
	}

	if ammo != nil {
		damage = ammo.ImpactDamage
		tags = tags | ammo.WeaponTags
		if ammo.Velocity > 0 {
			speed = ammo.Velocity
		}
		lifetime = ammo.Lifetime
		p.MaxSpeed = ammo.MaxSpeed
		p.MaxTurnRate = ammo.MaxTurnRate
		if ammo.Guidance != "" {
			p.Guided = ammo.Guidance != "ballistic"
		}
		p.Payload.BlastRadius = ammo.BlastRadius
		p.Payload.BlastDamage = ammo.BlastDamage
		p.Payload.ArmorPenetration = ammo.ArmorPenetration
	}
	if speed <= 0 {
		speed = 1000
	}
	if lifetime <= 0 {
		if def.MaxRange > 0 {
			lifetime = def.MaxRange / speed * 1.5
		} else {
			lifetime = 10
		}
	}
	if p.MaxSpeed <= 0 {
		p.MaxSpeed = speed
	}
	if p.Guided && p.MaxTurnRate <= 0 {
		p.MaxTurnRate = 1.0
	}

	p.Velocity = ship.Velocity.Add(forward.Scale(speed))
	p.LifetimeRemaining = lifetime
	p.Payload.ImpactDamage = damage
	p.Payload.Tags = tags
	return p
}
