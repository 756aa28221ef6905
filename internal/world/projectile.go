package world

import (
	"github.com/hyperion/server/internal/combat"
	"github.com/hyperion/server/internal/core/ecs"
)

// ProjectileKind distinguishes in-flight ordnance.
type ProjectileKind string

const (
	ProjBeam           ProjectileKind = "beam"
	ProjKinetic        ProjectileKind = "kinetic"
	ProjMissile        ProjectileKind = "missile"
	ProjTorpedo        ProjectileKind = "torpedo"
	ProjChaff          ProjectileKind = "chaff"
	ProjCountermeasure ProjectileKind = "countermeasure"
)

// Payload is the damage package a projectile delivers on impact.
type Payload struct {
	ImpactDamage     float64
	BlastRadius      float64
	BlastDamage      float64
	ArmorPenetration float64
	Tags             combat.Set
}

// Projectile is a live projectile entity. Beams are resolved instantly by
// the beam phase and never spawn projectiles; every other kind flies.
type Projectile struct {
	ID      ecs.EntityID
	Kind    ProjectileKind
	OwnerID ecs.EntityID
	// OwnerTeam lets point defense ignore friendly ordnance.
	OwnerTeam string

	Position Vec3
	Velocity Vec3

	TargetID ecs.EntityID
	// Guided projectiles steer toward their target, limited by MaxTurnRate
	// (rad/s) and MaxSpeed.
	Guided      bool
	MaxTurnRate float64
	MaxSpeed    float64

	LifetimeRemaining float64
	Payload           Payload

	// Intercepted marks the projectile destroyed by point defense; the
	// cleanup phase despawns it without an impact.
	Intercepted bool
	// ChaffDegraded weakens guidance after flying through a chaff cloud.
	ChaffDegraded bool

	Expired bool
}
