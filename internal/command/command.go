package command

import "github.com/hyperion/server/internal/core/ecs"

// Intent is a validated-shape command addressed to a ship. Intents are
// deposited by external handlers and consumed by the intent-intake phase;
// semantic validation (range, power, jamming) happens inside the tick.
type Intent interface {
	Name() string
}

type ThrustIntent struct {
	Thrust float64 // [0,1]
}

type RotateIntent struct {
	Pitch, Yaw, Roll float64 // [-1,1]
}

type FullStopIntent struct{}

type EngageWarpIntent struct {
	WarpFactor float64
	Heading    [3]float64
}

type EngageJumpIntent struct {
	Distance float64
}

type DisengageFtlIntent struct{}

type DockRequestIntent struct {
	StationID ecs.EntityID
}

type UndockIntent struct{}

type TargetIntent struct {
	WeaponClass string
	TargetID    ecs.EntityID
}

type FireIntent struct {
	WeaponID string
}

type AutoFireIntent struct {
	WeaponID string
	Enabled  bool
}

type ConfigureWeaponIntent struct {
	WeaponID string
	Kind     string
	AmmoType string
}

type LoadAmmoIntent struct {
	WeaponID string
	AmmoID   string
}

type ShieldIntent struct {
	Raise bool
}

type ActivateCountermeasureIntent struct {
	Type string
}

type PointDefenseIntent struct {
	Enabled bool
}

type AllocatePowerIntent struct {
	// Allocations maps slot type ids to power fractions.
	Allocations map[string]float64
}

type AllocateCoolingIntent struct {
	Allocations map[string]float64
}

type RepairIntent struct {
	ModuleIndex int
	Crew        int
}

type ScanIntent struct {
	TargetID ecs.EntityID
	ScanType string
}

type AnalyzeIntent struct {
	TargetID ecs.EntityID
	Type     string
}

type HailIntent struct {
	TargetID ecs.EntityID
	Message  string
	Tone     string
}

type JamIntent struct {
	TargetID ecs.EntityID
}

func (ThrustIntent) Name() string                 { return "thrust" }
func (RotateIntent) Name() string                 { return "rotate" }
func (FullStopIntent) Name() string               { return "full_stop" }
func (EngageWarpIntent) Name() string             { return "engage_warp" }
func (EngageJumpIntent) Name() string             { return "engage_jump" }
func (DisengageFtlIntent) Name() string           { return "disengage_ftl" }
func (DockRequestIntent) Name() string            { return "dock_request" }
func (UndockIntent) Name() string                 { return "undock" }
func (TargetIntent) Name() string                 { return "target" }
func (FireIntent) Name() string                   { return "fire" }
func (AutoFireIntent) Name() string               { return "auto_fire" }
func (ConfigureWeaponIntent) Name() string        { return "configure_weapon" }
func (LoadAmmoIntent) Name() string               { return "load_ammo" }
func (ShieldIntent) Name() string                 { return "shield" }
func (ActivateCountermeasureIntent) Name() string { return "activate_countermeasure" }
func (PointDefenseIntent) Name() string           { return "point_defense" }
func (AllocatePowerIntent) Name() string          { return "allocate_power" }
func (AllocateCoolingIntent) Name() string        { return "allocate_cooling" }
func (RepairIntent) Name() string                 { return "repair" }
func (ScanIntent) Name() string                   { return "scan" }
func (AnalyzeIntent) Name() string                { return "analyze" }
func (HailIntent) Name() string                   { return "hail" }
func (JamIntent) Name() string                    { return "jam" }
