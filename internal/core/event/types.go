package event

import "github.com/hyperion/server/internal/core/ecs"

// Kind identifies an event variant in the outbound stream.
type Kind string

const (
	KindShipSpawned             Kind = "ship_spawned"
	KindShipMoved               Kind = "ship_moved"
	KindWeaponFired             Kind = "weapon_fired"
	KindDamageTaken             Kind = "damage_taken"
	KindShieldChanged           Kind = "shield_changed"
	KindStatusEffectApplied     Kind = "status_effect_applied"
	KindStatusEffectRemoved     Kind = "status_effect_removed"
	KindModuleStatusChanged     Kind = "module_status_changed"
	KindPowerAllocationChanged  Kind = "power_allocation_changed"
	KindCoolingAllocationChange Kind = "cooling_allocation_changed"
	KindContactDetected         Kind = "contact_detected"
	KindContactLost             Kind = "contact_lost"
	KindFtlEngaged              Kind = "ftl_engaged"
	KindFtlDisengaged           Kind = "ftl_disengaged"
	KindDocked                  Kind = "docked"
	KindUndocked                Kind = "undocked"
	KindShipDestroyed           Kind = "ship_destroyed"
	KindMessageSent             Kind = "message_sent"
	KindCountermeasure          Kind = "countermeasure_activated"
	KindPointDefenseEngaged     Kind = "point_defense_engaged"
	KindDetonated               Kind = "detonated"
	KindSimulationTick          Kind = "simulation_tick"
	KindIntentRejected          Kind = "intent_rejected"
)

// Event is the payload side of an outbound event. Envelope carries the tick.
type Event interface {
	Kind() Kind
}

// RejectReason classifies why a command intent was refused.
type RejectReason string

const (
	RejectTargetOutOfRange RejectReason = "target_out_of_range"
	RejectWeaponNotReady   RejectReason = "weapon_not_ready"
	RejectInsufficientPower RejectReason = "insufficient_power"
	RejectInsufficientAmmo RejectReason = "insufficient_ammo"
	RejectModuleDamaged    RejectReason = "module_damaged"
	RejectCommsJammed      RejectReason = "communications_jammed"
	RejectFTLBlocked       RejectReason = "ftl_blocked"
	RejectShipNotDocked    RejectReason = "ship_not_docked"
	RejectCrewNotAssigned  RejectReason = "crew_not_assigned"
	RejectInvalidAllocation RejectReason = "invalid_allocation"
	RejectUnknownShip      RejectReason = "unknown_ship"
	RejectUnknownModule    RejectReason = "unknown_module"
	RejectUnknownStation   RejectReason = "unknown_station"
)

type ShipSpawned struct {
	ShipID  ecs.EntityID `json:"ship_id"`
	ClassID string       `json:"class_id"`
	TeamID  string       `json:"team_id"`
}

type ShipMoved struct {
	ShipID   ecs.EntityID `json:"ship_id"`
	Position [3]float64   `json:"position"`
	Velocity [3]float64   `json:"velocity"`
}

type WeaponFired struct {
	ShipID      ecs.EntityID `json:"ship_id"`
	WeaponID    string       `json:"weapon_id"`
	TargetID    ecs.EntityID `json:"target_id,omitempty"`
	Projectiles int          `json:"projectiles"`
}

type DamageTaken struct {
	ShipID        ecs.EntityID `json:"ship_id"`
	SourceID      ecs.EntityID `json:"source_id,omitempty"`
	HullPortion   float64      `json:"hull_portion"`
	ShieldPortion float64      `json:"shield_portion"`
	Tags          []string     `json:"tags,omitempty"`
}

type ShieldChanged struct {
	ShipID  ecs.EntityID `json:"ship_id"`
	Raised  bool         `json:"raised"`
	Current float64      `json:"current"`
	Max     float64      `json:"max"`
}

type StatusEffectApplied struct {
	ShipID    ecs.EntityID `json:"ship_id"`
	Effect    string       `json:"effect"`
	Duration  float64      `json:"duration"`
	Intensity float64      `json:"intensity"`
}

type StatusEffectRemoved struct {
	ShipID ecs.EntityID `json:"ship_id"`
	Effect string       `json:"effect"`
}

type ModuleStatusChanged struct {
	ShipID      ecs.EntityID `json:"ship_id"`
	ModuleIndex int          `json:"module_index"`
	SlotTypeID  string       `json:"slot_type_id"`
	HealthPct   float64      `json:"health_pct"`
	Operational bool         `json:"operational"`
}

type PowerAllocationChanged struct {
	ShipID      ecs.EntityID       `json:"ship_id"`
	Allocations map[string]float64 `json:"allocations"`
}

type CoolingAllocationChanged struct {
	ShipID      ecs.EntityID       `json:"ship_id"`
	Allocations map[string]float64 `json:"allocations"`
}

type ContactDetected struct {
	ShipID    ecs.EntityID `json:"ship_id"`
	ContactID ecs.EntityID `json:"contact_id"`
	Type      string       `json:"type"`
}

type ContactLost struct {
	ShipID    ecs.EntityID `json:"ship_id"`
	ContactID ecs.EntityID `json:"contact_id"`
}

type FtlEngaged struct {
	ShipID ecs.EntityID `json:"ship_id"`
	Drive  string       `json:"drive"` // "warp" or "jump"
}

type FtlDisengaged struct {
	ShipID ecs.EntityID `json:"ship_id"`
	Drive  string       `json:"drive"`
}

type Docked struct {
	ShipID    ecs.EntityID `json:"ship_id"`
	StationID ecs.EntityID `json:"station_id"`
}

type Undocked struct {
	ShipID    ecs.EntityID `json:"ship_id"`
	StationID ecs.EntityID `json:"station_id"`
}

type ShipDestroyed struct {
	ShipID      ecs.EntityID `json:"ship_id"`
	DestroyedBy ecs.EntityID `json:"destroyed_by,omitempty"`
}

type MessageSent struct {
	FromShipID ecs.EntityID `json:"from_ship_id"`
	ToShipID   ecs.EntityID `json:"to_ship_id,omitempty"`
	Message    string       `json:"message"`
	Tone       string       `json:"tone,omitempty"`
}

type CountermeasureActivated struct {
	ShipID ecs.EntityID `json:"ship_id"`
	Type   string       `json:"type"`
}

type PointDefenseEngaged struct {
	ShipID   ecs.EntityID `json:"ship_id"`
	TargetID ecs.EntityID `json:"target_id"`
	Success  bool         `json:"success"`
}

type Detonated struct {
	ProjectileID ecs.EntityID `json:"projectile_id"`
	Position     [3]float64   `json:"position"`
	BlastRadius  float64      `json:"blast_radius"`
}

type SimulationTick struct {
	TickNo uint64  `json:"tick"`
	Time   float64 `json:"time"`
}

type IntentRejected struct {
	ShipID ecs.EntityID `json:"ship_id"`
	Intent string       `json:"intent"`
	Reason RejectReason `json:"reason"`
}

func (ShipSpawned) Kind() Kind              { return KindShipSpawned }
func (ShipMoved) Kind() Kind                { return KindShipMoved }
func (WeaponFired) Kind() Kind              { return KindWeaponFired }
func (DamageTaken) Kind() Kind              { return KindDamageTaken }
func (ShieldChanged) Kind() Kind            { return KindShieldChanged }
func (StatusEffectApplied) Kind() Kind      { return KindStatusEffectApplied }
func (StatusEffectRemoved) Kind() Kind      { return KindStatusEffectRemoved }
func (ModuleStatusChanged) Kind() Kind      { return KindModuleStatusChanged }
func (PowerAllocationChanged) Kind() Kind   { return KindPowerAllocationChanged }
func (CoolingAllocationChanged) Kind() Kind { return KindCoolingAllocationChange }
func (ContactDetected) Kind() Kind          { return KindContactDetected }
func (ContactLost) Kind() Kind              { return KindContactLost }
func (FtlEngaged) Kind() Kind               { return KindFtlEngaged }
func (FtlDisengaged) Kind() Kind            { return KindFtlDisengaged }
func (Docked) Kind() Kind                   { return KindDocked }
func (Undocked) Kind() Kind                 { return KindUndocked }
func (ShipDestroyed) Kind() Kind            { return KindShipDestroyed }
func (MessageSent) Kind() Kind              { return KindMessageSent }
func (CountermeasureActivated) Kind() Kind  { return KindCountermeasure }
func (PointDefenseEngaged) Kind() Kind      { return KindPointDefenseEngaged }
func (Detonated) Kind() Kind                { return KindDetonated }
func (SimulationTick) Kind() Kind           { return KindSimulationTick }
func (IntentRejected) Kind() Kind           { return KindIntentRejected }
