package catalog

import (
	"github.com/hyperion/server/internal/combat"
)

// ShipSize buckets hull classes.
type ShipSize string

const (
	SizeSmall  ShipSize = "small"
	SizeMedium ShipSize = "medium"
	SizeLarge  ShipSize = "large"
)

// ShipClass is the static definition of a hull a blueprint builds on.
type ShipClass struct {
	ID          string             `yaml:"id"`
	Name        string             `yaml:"name"`
	Size        ShipSize           `yaml:"size"`
	Role        string             `yaml:"role"`
	MaxWeight   float64            `yaml:"max_weight"`
	MaxModules  int                `yaml:"max_modules"`
	BaseHull    float64            `yaml:"base_hull"`
	BaseShields float64            `yaml:"base_shields"`
	BuildPoints float64            `yaml:"build_points"`
	// Bonuses are multiplicative stat modifiers applied once at compile
	// time. A key of the form "group:stat" scopes the bonus to modules in
	// that group; a bare stat name applies ship-wide.
	Bonuses map[string]float64 `yaml:"bonuses"`
}

// ModuleSlot is a mounting point type: cost and constraint anchor for the
// modules that go into it.
type ModuleSlot struct {
	ID                   string   `yaml:"id"`
	Name                 string   `yaml:"name"`
	Groups               []string `yaml:"groups"`
	Required             bool     `yaml:"required"`
	HasVariants          bool     `yaml:"has_variants"`
	// LegacyHasVariants accepts the misspelling found in older catalog
	// files. Serialization always writes has_variants.
	LegacyHasVariants    *bool   `yaml:"has_varients,omitempty"`
	BaseCost             float64 `yaml:"base_cost"`
	MaxSlots             int     `yaml:"max_slots"`
	BaseHP               float64 `yaml:"base_hp"`
	BasePowerConsumption float64 `yaml:"base_power_consumption"`
	BaseHeatGeneration   float64 `yaml:"base_heat_generation"`
	BaseWeight           float64 `yaml:"base_weight"`
}

// VariantRequired reports whether instances of this slot must name a variant.
func (s *ModuleSlot) VariantRequired() bool {
	if s.LegacyHasVariants != nil {
		return s.HasVariants || *s.LegacyHasVariants
	}
	return s.HasVariants
}

// ModuleVariant is a stat package mounted into a slot.
type ModuleVariant struct {
	ID                         string             `yaml:"id"`
	SlotTypeID                 string             `yaml:"slot_type_id"`
	Name                       string             `yaml:"name"`
	Cost                       float64            `yaml:"cost"`
	AdditionalHP               float64            `yaml:"additional_hp"`
	AdditionalPowerConsumption float64            `yaml:"additional_power_consumption"`
	AdditionalHeatGeneration   float64            `yaml:"additional_heat_generation"`
	AdditionalWeight           float64            `yaml:"additional_weight"`
	// TypeSpecific carries the stats that give a variant its function:
	// max_thrust, energy_production, shield_recharge_rate, scan_range,
	// cooling_capacity, warp_charge_time, jump_distance, intercept_range,
	// intercept_chance, max_pulse_range, pulse_speed, ...
	TypeSpecific map[string]float64 `yaml:"type_specific"`
}

// Stat returns a type-specific stat or 0 when absent.
func (v *ModuleVariant) Stat(name string) float64 {
	return v.TypeSpecific[name]
}

// WeaponSlotType distinguishes the weapon mounting families.
type WeaponSlotType string

const (
	WeaponSlotDE             WeaponSlotType = "de"
	WeaponSlotKinetic        WeaponSlotType = "kinetic"
	WeaponSlotMissile        WeaponSlotType = "missile-launcher"
	WeaponSlotTorpedo        WeaponSlotType = "torpedo-tube"
	WeaponSlotRadial         WeaponSlotType = "radial"
	WeaponSlotCountermeasure WeaponSlotType = "countermeasure"
)

// Weapon is a static weapon definition.
type Weapon struct {
	ID              string         `yaml:"id"`
	Name            string         `yaml:"name"`
	SlotType        WeaponSlotType `yaml:"slot_type"`
	TagNames        []string       `yaml:"tags"`
	Cost            float64        `yaml:"cost"`
	Weight          float64        `yaml:"weight"`
	Damage          float64        `yaml:"damage"`
	RechargeTime    float64        `yaml:"recharge_time"`
	ReloadTime      float64        `yaml:"reload_time"`
	MaxRange        float64        `yaml:"max_range"`
	ProjectileSpeed float64        `yaml:"projectile_speed"`
	Accuracy        float64        `yaml:"accuracy"`
	NumProjectiles  int            `yaml:"num_projectiles"`
	AmmoType        string         `yaml:"ammo_type,omitempty"`
	AmmoSize        string         `yaml:"ammo_size,omitempty"`
	AmmoCapacity    int            `yaml:"ammo_capacity,omitempty"`

	// StatusKind names the status effect emitted by radial pulse weapons.
	StatusKind string `yaml:"status_kind,omitempty"`

	// Tags is the parsed tag set, populated by the loader.
	Tags combat.Set `yaml:"-"`
}

// UsesAmmo reports whether the weapon consumes ammunition per shot.
func (w *Weapon) UsesAmmo() bool {
	switch w.SlotType {
	case WeaponSlotKinetic, WeaponSlotMissile, WeaponSlotTorpedo:
		return true
	}
	return false
}

// CooldownAfterFire is the cooldown a trigger pull incurs: directed-energy
// weapons recharge, ammunition weapons reload.
func (w *Weapon) CooldownAfterFire() float64 {
	if w.UsesAmmo() {
		return w.ReloadTime
	}
	return w.RechargeTime
}

// AmmoCategory buckets ammunition definitions.
type AmmoCategory string

const (
	AmmoKinetic  AmmoCategory = "kinetic"
	AmmoMissiles AmmoCategory = "missiles"
	AmmoTorpedos AmmoCategory = "torpedos"
)

// Ammunition is a static munition definition.
type Ammunition struct {
	ID               string       `yaml:"id"`
	Name             string       `yaml:"name"`
	Category         AmmoCategory `yaml:"category"`
	Type             string       `yaml:"type"`
	Size             string       `yaml:"size"`
	Weight           float64      `yaml:"weight"`
	ImpactDamage     float64      `yaml:"impact_damage"`
	BlastRadius      float64      `yaml:"blast_radius"`
	BlastDamage      float64      `yaml:"blast_damage"`
	Velocity         float64      `yaml:"velocity"`
	ArmorPenetration float64      `yaml:"armor_penetration"`
	WeaponTagNames   []string     `yaml:"weapon_tags"`
	Guidance         string       `yaml:"guidance,omitempty"`
	Lifetime         float64      `yaml:"lifetime,omitempty"`
	MaxSpeed         float64      `yaml:"max_speed,omitempty"`
	MaxTurnRate      float64      `yaml:"max_turn_rate,omitempty"`

	WeaponTags combat.Set `yaml:"-"`
}

// WeightedEntry is one row of a probability table.
type WeightedEntry struct {
	Name   string  `yaml:"name"`
	Weight float64 `yaml:"weight"`
}

// GenParams are the procedural generation tunables.
type GenParams struct {
	GalaxyRadius     float64         `yaml:"galaxy_radius"`
	Flattening       float64         `yaml:"flattening"`
	SectorsPerAxis   int             `yaml:"sectors_per_axis"`
	StarTypeTable    []WeightedEntry `yaml:"star_type_table"`
	StationTypeTable []WeightedEntry `yaml:"station_type_table"`
	HistoryYears     int             `yaml:"history_years"`
	MaxStationsPerSystem int         `yaml:"max_stations_per_system"`
}

// Tunables are the numeric constants of the simulation.
type Tunables struct {
	Timestep             float64 `yaml:"timestep"`
	MaxVelocity          float64 `yaml:"max_velocity"`
	MaxAcceleration      float64 `yaml:"max_acceleration"`
	MaxAngularVelocity   float64 `yaml:"max_angular_velocity"`
	MaxPosition          float64 `yaml:"max_position"`
	MinCollisionDistance float64 `yaml:"min_collision_distance"`
	MaxCollisionDistance float64 `yaml:"max_collision_distance"`

	SpaceDrag        float64 `yaml:"space_drag"`
	ThrustEfficiency float64 `yaml:"thrust_efficiency"`

	PhotonShieldMult float64 `yaml:"photon_shield_mult"`
	PlasmaShieldMult float64 `yaml:"plasma_shield_mult"`
	PositronBypass   float64 `yaml:"positron_bypass"`
	GravitonWeight   float64 `yaml:"graviton_weight"`
	AntimissileMult  float64 `yaml:"antimissile_mult"`
	AntitorpedoMult  float64 `yaml:"antitorpedo_mult"`
	ArmorPenScale    float64 `yaml:"armor_pen_scale"`

	IonDuration      float64 `yaml:"ion_duration"`
	IonChance        float64 `yaml:"ion_chance"`
	GravitonDuration float64 `yaml:"graviton_duration"`
	GravitonChance   float64 `yaml:"graviton_chance"`
	TachyonDuration  float64 `yaml:"tachyon_duration"`
	TachyonChance    float64 `yaml:"tachyon_chance"`
	ChaffDuration    float64 `yaml:"chaff_duration"`

	ShieldRegenRate  float64 `yaml:"shield_regen_rate"`
	ShieldRegenDelay float64 `yaml:"shield_regen_delay"`

	OverheatDamagePerSecond float64 `yaml:"overheat_damage_per_second"`

	InterceptRange  float64 `yaml:"intercept_range"`
	InterceptChance float64 `yaml:"intercept_chance"`

	WarpChargeTime  float64 `yaml:"warp_charge_time"`
	WarpCooldown    float64 `yaml:"warp_cooldown"`
	WarpBaseSpeed   float64 `yaml:"warp_base_speed"`
	JumpChargeTime  float64 `yaml:"jump_charge_time"`
	JumpCooldown    float64 `yaml:"jump_cooldown"`

	DockingRange float64 `yaml:"docking_range"`

	Generation GenParams `yaml:"generation"`
}

// DefaultTunables returns the constants used when a field is absent from the
// tunables file.
func DefaultTunables() Tunables {
	return Tunables{
		Timestep:             1.0 / 60.0,
		MaxVelocity:          3000,
		MaxAcceleration:      500,
		MaxAngularVelocity:   3.14,
		MaxPosition:          1_000_000,
		MinCollisionDistance: 50,
		MaxCollisionDistance: 2000,
		SpaceDrag:            0.0001,
		ThrustEfficiency:     1.0,
		PhotonShieldMult:     0.5,
		PlasmaShieldMult:     2.0,
		PositronBypass:       0.25,
		GravitonWeight:       0.3,
		AntimissileMult:      0.3,
		AntitorpedoMult:      0.5,
		ArmorPenScale:        1.0,
		IonDuration:          10,
		IonChance:            0.8,
		GravitonDuration:     15,
		GravitonChance:       0.7,
		TachyonDuration:      20,
		TachyonChance:        0.9,
		ChaffDuration:        8,
		ShieldRegenRate:      5,
		ShieldRegenDelay:     4,
		OverheatDamagePerSecond: 2,
		InterceptRange:          1000,
		InterceptChance:         0.5,
		WarpChargeTime:          5,
		WarpCooldown:            10,
		WarpBaseSpeed:           100,
		JumpChargeTime:          10,
		JumpCooldown:            30,
		DockingRange:            500,
		Generation: GenParams{
			GalaxyRadius:   50_000,
			Flattening:     0.15,
			SectorsPerAxis: 10,
			StarTypeTable: []WeightedEntry{
				{Name: "blue_giant", Weight: 0.02},
				{Name: "white", Weight: 0.09},
				{Name: "yellow", Weight: 0.30},
				{Name: "orange", Weight: 0.30},
				{Name: "red_dwarf", Weight: 0.25},
				{Name: "neutron", Weight: 0.03},
				{Name: "black_hole", Weight: 0.01},
			},
			StationTypeTable: []WeightedEntry{
				{Name: "trade", Weight: 0.2},
				{Name: "military", Weight: 0.2},
				{Name: "research", Weight: 0.2},
				{Name: "mining", Weight: 0.2},
				{Name: "shipyard", Weight: 0.2},
			},
			HistoryYears:         200,
			MaxStationsPerSystem: 4,
		},
	}
}

// CombatParams builds the damage-resolver constants from the tunables.
func (t Tunables) CombatParams() combat.Params {
	return combat.Params{
		PhotonShieldMult:   t.PhotonShieldMult,
		PlasmaShieldMult:   t.PlasmaShieldMult,
		PositronBypass:     t.PositronBypass,
		AntimissileMult:    t.AntimissileMult,
		AntitorpedoMult:    t.AntitorpedoMult,
		ArmorPenScale:      t.ArmorPenScale,
		IonDamageMult:      0.6,
		GravitonDamageMult: 0.5,
		TachyonDamageMult:  0.4,
		IonDuration:        t.IonDuration,
		IonChance:          t.IonChance,
		GravitonDuration:   t.GravitonDuration,
		GravitonChance:     t.GravitonChance,
		GravitonWeight:     t.GravitonWeight,
		TachyonDuration:    t.TachyonDuration,
		TachyonChance:      t.TachyonChance,
		ChaffDuration:      t.ChaffDuration,
	}
}
