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

// CountermeasureSystem runs point defense and radial pulse emitters. Point
// defense mounts engage incoming missiles and torpedos inside their
// engagement volume with a probability from the interception hook; radial
// weapons expand a status pulse front that tags every hostile ship it
// reaches once.
type CountermeasureSystem struct {
	e *Engine

	// pulses tracks in-flight radial pulse fronts.
	pulses []radialPulse
}

type radialPulse struct {
	origin   world.Vec3
	ownerID  ecs.EntityID
	team     string
	radius   float64
	maxRange float64
	speed    float64
	kind     combat.EffectKind
	duration float64
	hit      map[ecs.EntityID]bool
}

func (s *CountermeasureSystem) Phase() coresys.Phase { return coresys.PhaseCountermeasures }

func (s *CountermeasureSystem) Update(dt float64) {
	s.pointDefense(dt)
	s.firePulses()
	s.advancePulses(dt)
}

func (s *CountermeasureSystem) pointDefense(dt float64) {
	ws := s.e.World
	ws.Ships.Each(func(id ecs.EntityID, ship *world.Ship) {
		if ship.Destroyed || !ship.PointDefense {
			return
		}
		for i := range ship.Modules {
			m := &ship.Modules[i]
			w := m.Weapon
			if w == nil || !m.Operational || w.CooldownRemaining > 0 {
				continue
			}
			def := s.e.Catalog.Weapon(w.WeaponID)
			if def == nil || def.SlotType != catalog.WeaponSlotCountermeasure {
				continue
			}
			if !def.Tags.Has(combat.TagAntimissile) && !def.Tags.Has(combat.TagAntitorpedo) {
				continue
			}
			s.engage(id, ship, m, def)
		}
	})
}

// engage intercepts at most one projectile per mount per tick.
func (s *CountermeasureSystem) engage(id ecs.EntityID, ship *world.Ship, m *world.ModuleInstance, def *catalog.Weapon) {
	rangeLimit := def.MaxRange
	if v := m.Stat("intercept_range"); v > 0 {
		rangeLimit = v
	}
	if rangeLimit <= 0 {
		rangeLimit = s.e.Tun.InterceptRange
	}
	baseChance := s.e.Tun.InterceptChance
	if v := m.Stat("intercept_chance"); v > 0 {
		baseChance = v
	}

	ws := s.e.World
	var candidate *world.Projectile
	var candidateID ecs.EntityID
	ws.Projectiles.Each(func(pid ecs.EntityID, p *world.Projectile) {
		if candidate != nil || p.Intercepted || p.Expired {
			return
		}
		if p.OwnerTeam == ship.TeamID {
			return
		}
		isMissile := p.Kind == world.ProjMissile
		isTorpedo := p.Kind == world.ProjTorpedo
		if !isMissile && !isTorpedo {
			return
		}
		if combat.InterceptorMultiplier(s.e.Params, def.Tags, isMissile, isTorpedo) <= 0 {
			return
		}
		if p.Position.Sub(ship.Position).Len() > rangeLimit {
			return
		}
		candidate = p
		candidateID = pid
	})
	if candidate == nil {
		return
	}

	dist := candidate.Position.Sub(ship.Position).Len()
	chance := s.e.Scripts.InterceptChance(scripting.InterceptContext{
		Distance:    dist,
		Range:       rangeLimit,
		BaseChance:  baseChance,
		TargetSpeed: candidate.Velocity.Len(),
		Torpedo:     candidate.Kind == world.ProjTorpedo,
	})
	success := s.e.roll() < chance
	if success {
		candidate.Intercepted = true
		ws.MarkForDespawn(candidateID)
	}
	m.Weapon.CooldownRemaining = def.CooldownAfterFire()
	s.e.emit(event.PointDefenseEngaged{ShipID: id, TargetID: candidateID, Success: success})
}

// firePulses turns triggered radial mounts into expanding pulse fronts.
func (s *CountermeasureSystem) firePulses() {
	s.e.World.Ships.Each(func(id ecs.EntityID, ship *world.Ship) {
		if ship.Destroyed {
			return
		}
		for i := range ship.Modules {
			m := &ship.Modules[i]
			w := m.Weapon
			if w == nil || !m.Operational || !w.FireRequested && !w.Active {
				continue
			}
			def := s.e.Catalog.Weapon(w.WeaponID)
			if def == nil || def.SlotType != catalog.WeaponSlotRadial || w.CooldownRemaining > 0 {
				continue
			}
			w.FireRequested = false
			w.Active = false

			maxRange := m.Stat("max_pulse_range")
			if maxRange <= 0 {
				maxRange = def.MaxRange
			}
			speed := m.Stat("pulse_speed")
			if speed <= 0 {
				speed = def.ProjectileSpeed
			}
			if speed <= 0 || maxRange <= 0 {
				continue
			}
			kind := combat.EffectKind(def.StatusKind)
			if kind == "" {
				kind = combat.EffectIon
			}
			duration := s.effectDuration(kind)

			s.pulses = append(s.pulses, radialPulse{
				origin:   ship.Position,
				ownerID:  id,
				team:     ship.TeamID,
				maxRange: maxRange,
				speed:    speed,
				kind:     kind,
				duration: duration,
				hit:      make(map[ecs.EntityID]bool),
			})
			w.CooldownRemaining = def.CooldownAfterFire()
			s.e.emit(event.WeaponFired{ShipID: id, WeaponID: def.ID, Projectiles: 0})
		}
	})
}

func (s *CountermeasureSystem) effectDuration(kind combat.EffectKind) float64 {
	switch kind {
	case combat.EffectGraviton:
		return s.e.Params.GravitonDuration
	case combat.EffectTachyon:
		return s.e.Params.TachyonDuration
	case combat.EffectChaff:
		return s.e.Params.ChaffDuration
	default:
		return s.e.Params.IonDuration
	}
}

// advancePulses expands each front and applies the status effect once per
// ship crossed. Fronts past their maximum range are dropped.
func (s *CountermeasureSystem) advancePulses(dt float64) {
	kept := s.pulses[:0]
	for _, pulse := range s.pulses {
		pulse.radius += pulse.speed * dt
		reach := pulse.radius
		if reach > pulse.maxRange {
			reach = pulse.maxRange
		}
		s.e.World.Ships.Each(func(id ecs.EntityID, ship *world.Ship) {
			if ship.Destroyed || id == pulse.ownerID || pulse.hit[id] {
				return
			}
			if ship.TeamID == pulse.team {
				return
			}
			if ship.Position.Sub(pulse.origin).Len() > reach {
				return
			}
			pulse.hit[id] = true
			intensity := 1.0
			if pulse.kind == combat.EffectGraviton {
				intensity = s.e.Params.GravitonWeight
			}
			if ship.ApplyEffect(world.StatusEffect{
				Kind: pulse.kind, Remaining: pulse.duration, Intensity: intensity,
			}) {
				s.e.emit(event.StatusEffectApplied{
					ShipID: id, Effect: string(pulse.kind),
					Duration: pulse.duration, Intensity: intensity,
				})
			}
		})
		if pulse.radius < pulse.maxRange {
			kept = append(kept, pulse)
		}
	}
	s.pulses = kept
}
