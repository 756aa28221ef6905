package world

import (
	"github.com/hyperion/server/internal/combat"
	"github.com/hyperion/server/internal/core/ecs"
)

// Role is a crew position on a ship's bridge.
type Role string

const (
	RoleCaptain         Role = "captain"
	RoleHelm            Role = "helm"
	RoleEngineering     Role = "engineering"
	RoleScience         Role = "science"
	RoleComms           Role = "comms"
	RoleCountermeasures Role = "countermeasures"
	RoleEnergyWeapons   Role = "energy-weapons"
	RoleKineticWeapons  Role = "kinetic-weapons"
	RoleMissileWeapons  Role = "missile-weapons"
)

// AllRoles is the fixed role set accepted by the blueprint compiler.
var AllRoles = []Role{
	RoleCaptain, RoleHelm, RoleEngineering, RoleScience, RoleComms,
	RoleCountermeasures, RoleEnergyWeapons, RoleKineticWeapons, RoleMissileWeapons,
}

// FireMode selects how a mounted weapon triggers.
type FireMode string

const (
	FireManual    FireMode = "manual"
	FireAutomatic FireMode = "automatic"
)

// WeaponState is the runtime side of a mounted weapon.
type WeaponState struct {
	WeaponID          string
	CooldownRemaining float64
	AmmoLoaded        int
	AmmoID            string
	FireMode          FireMode
	TargetID          ecs.EntityID
	Active            bool
	// FireRequested is set by a FireIntent and consumed by the firing
	// phase within the same tick.
	FireRequested bool
}

// ModuleInstance is one mounted module: slot reference, optional variant,
// and runtime health/allocation state.
type ModuleInstance struct {
	SlotTypeID  string
	VariantID   string
	Health      float64
	MaxHealth   float64
	PowerAlloc  float64
	CoolingAlloc float64
	Operational bool
	// EffectivePower is the post-budget power fraction, recomputed by the
	// ship-systems phase each tick.
	EffectivePower float64
	// Demand and HeatOutput are the module's static draw, resolved at
	// compile time from slot base plus variant additions.
	Demand     float64
	HeatOutput float64
	Weight     float64

	// Stats are the variant's type-specific stats with class bonuses baked
	// in at compile time.
	Stats map[string]float64

	Weapon *WeaponState // non-nil for weapon mounts
}

// Stat returns a compiled type-specific stat or 0 when absent.
func (m *ModuleInstance) Stat(name string) float64 {
	return m.Stats[name]
}

// HealthRatio is the module's health fraction, zero for destroyed modules.
func (m *ModuleInstance) HealthRatio() float64 {
	if m.MaxHealth <= 0 || m.Health <= 0 {
		return 0
	}
	return m.Health / m.MaxHealth
}

// StatusEffect is a time-decaying modifier attached to a ship. At most one
// effect of each kind is active; reapplication refreshes remaining and
// intensity to the maximum of incumbent and new.
type StatusEffect struct {
	Kind      combat.EffectKind
	Remaining float64
	Intensity float64
	SourceTag combat.Tag
}

// FTLState is a warp or jump drive phase.
type FTLState string

const (
	FTLIdle     FTLState = "idle"
	FTLCharging FTLState = "charging"
	FTLCruising FTLState = "cruising" // warp only
	FTLCooldown FTLState = "cooldown"
)

// DockState is a docking state machine phase.
type DockState string

const (
	DockIdle        DockState = "idle"
	DockRequested   DockState = "requested"
	DockApproaching DockState = "approaching"
	DockDocked      DockState = "docked"
	DockUndocking   DockState = "undocking"
)

// Control holds the helm inputs consumed each tick, written by the intent
// phase with last-writer-wins semantics.
type Control struct {
	Thrust   float64 // [0,1]
	Pitch    float64 // [-1,1]
	Yaw      float64
	Roll     float64
	FullStop bool
}

// Ship is a live ship entity. Mutated only by simulation systems inside the
// tick.
type Ship struct {
	ID       ecs.EntityID
	Name     string
	ClassID  string
	TeamID   string
	FactionID string

	Position        Vec3
	Orientation     Quat
	Velocity        Vec3
	AngularVelocity Vec3

	Hull          float64
	MaxHull       float64
	Shields       float64
	MaxShields    float64
	ShieldsRaised bool
	ArmorRating   float64

	// LastDamageTick gates shield regeneration.
	LastDamageTick uint64

	BaseMass     float64
	Heat         float64
	HeatCapacity float64

	Modules   []ModuleInstance
	Inventory map[string]int // ammo id -> count
	Effects   []StatusEffect
	Crew      map[string]Role // player id -> primary role

	WarpState      FTLState
	WarpCharge     float64
	WarpFactor     float64
	WarpHeading    Vec3
	JumpState      FTLState
	JumpCharge     float64
	JumpDistance   float64

	DockState     DockState
	DockStationID ecs.EntityID

	Control Control

	// Contacts is the sensor picture from the last sensing phase.
	Contacts map[ecs.EntityID]bool

	// PointDefense gates the countermeasure phase for this ship.
	PointDefense bool

	// Destroyed marks the ship for the cleanup phase.
	Destroyed   bool
	DestroyedBy ecs.EntityID
}

// Effect returns the active effect of a kind, or nil.
func (s *Ship) Effect(kind combat.EffectKind) *StatusEffect {
	for i := range s.Effects {
		if s.Effects[i].Kind == kind {
			return &s.Effects[i]
		}
	}
	return nil
}

// HasEffect reports whether an effect of the kind is active.
func (s *Ship) HasEffect(kind combat.EffectKind) bool {
	return s.Effect(kind) != nil
}

// ApplyEffect installs or refreshes an effect, non-stacking by kind.
// It returns true when the effect was newly applied (not a refresh).
func (s *Ship) ApplyEffect(e StatusEffect) bool {
	if cur := s.Effect(e.Kind); cur != nil {
		if e.Remaining > cur.Remaining {
			cur.Remaining = e.Remaining
		}
		if e.Intensity > cur.Intensity {
			cur.Intensity = e.Intensity
		}
		return false
	}
	s.Effects = append(s.Effects, e)
	return true
}

// EffectiveMass is the ship's mass with the graviton multiplier applied.
func (s *Ship) EffectiveMass() float64 {
	mass := s.BaseMass
	if g := s.Effect(combat.EffectGraviton); g != nil {
		mass *= 1 + g.Intensity
	}
	return mass
}

// ModulesOfSlot visits modules of a slot type in mount order.
func (s *Ship) ModulesOfSlot(slotID string, fn func(int, *ModuleInstance)) {
	for i := range s.Modules {
		if s.Modules[i].SlotTypeID == slotID {
			fn(i, &s.Modules[i])
		}
	}
}

// FirstModuleOfSlot returns the first module of a slot type, or nil.
func (s *Ship) FirstModuleOfSlot(slotID string) *ModuleInstance {
	for i := range s.Modules {
		if s.Modules[i].SlotTypeID == slotID {
			return &s.Modules[i]
		}
	}
	return nil
}

// WeaponModule returns the module mounting the given weapon id, or nil.
func (s *Ship) WeaponModule(weaponID string) *ModuleInstance {
	for i := range s.Modules {
		if w := s.Modules[i].Weapon; w != nil && w.WeaponID == weaponID {
			return &s.Modules[i]
		}
	}
	return nil
}

// CaptainAssigned reports whether any crew member holds the captain role.
func (s *Ship) CaptainAssigned() bool {
	for _, r := range s.Crew {
		if r == RoleCaptain {
			return true
		}
	}
	return false
}
