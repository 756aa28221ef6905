package blueprint

import (
	"math"
	"testing"

	"github.com/hyperion/server/internal/catalog"
	"github.com/hyperion/server/internal/combat"
	"github.com/hyperion/server/internal/core/rng"
	"github.com/hyperion/server/internal/world"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	return testCatalogMaxWeight(t, 3000)
}

func testCatalogMaxWeight(t *testing.T, maxWeight float64) *catalog.Catalog {
	t.Helper()
	classes := []catalog.ShipClass{
		{ID: "cruiser", Name: "Cruiser", Size: catalog.SizeMedium, Role: "multirole",
			MaxWeight: maxWeight, MaxModules: 6, BaseHull: 1000, BaseShields: 500, BuildPoints: 1000,
			Bonuses: map[string]float64{"hull": 1.1, "defense:shield_recharge_rate": 2.0}},
	}
	slots := []catalog.ModuleSlot{
		{ID: "power-core", Required: true, HasVariants: true, MaxSlots: 1,
			BaseHP: 150, BaseWeight: 400},
		{ID: "shield-generator", Groups: []string{"defense"}, Required: true, HasVariants: true,
			MaxSlots: 1, BaseHP: 100, BaseWeight: 250, BasePowerConsumption: 30},
		{ID: "weapon-mount", MaxSlots: 2, BaseHP: 100, BaseWeight: 120, BasePowerConsumption: 20},
	}
	variants := []catalog.ModuleVariant{
		{ID: "fusion-core", SlotTypeID: "power-core", AdditionalWeight: 100,
			TypeSpecific: map[string]float64{"energy_production": 200}},
		{ID: "deflector", SlotTypeID: "shield-generator", AdditionalWeight: 90,
			TypeSpecific: map[string]float64{"shield_recharge_rate": 8}},
	}
	weapons := []catalog.Weapon{
		{ID: "railgun", SlotType: catalog.WeaponSlotKinetic,
			Tags: combat.NewSet(combat.TagSingleFire), Weight: 300,
			Damage: 40, ReloadTime: 3, MaxRange: 4000, Accuracy: 0.75,
			AmmoType: "slug", AmmoSize: "medium", AmmoCapacity: 10},
	}
	ammo := []catalog.Ammunition{
		{ID: "slug-ap", Category: catalog.AmmoKinetic, Type: "slug", Size: "medium",
			ImpactDamage: 40, Velocity: 5000, ArmorPenetration: 15},
	}
	c := catalog.New(classes, slots, variants, weapons, ammo, catalog.DefaultTunables())
	if errs := c.Validate(); len(errs) != 0 {
		t.Fatalf("test catalog invalid: %v", errs)
	}
	return c
}

func testWorld() *world.State {
	ws := world.NewState(42, 2000)
	ws.Players["p1"] = &world.Player{ID: "p1", Name: "Alice"}
	ws.Players["p2"] = &world.Player{ID: "p2", Name: "Kim"}
	ws.Teams["blue"] = &world.Team{ID: "blue", Name: "Blue", Members: map[string]bool{"p1": true, "p2": true}}
	return ws
}

func validBlueprint() *ShipBlueprint {
	return &ShipBlueprint{
		Name:    "Resolute",
		ClassID: "cruiser",
		TeamID:  "blue",
		Players: map[string][]world.Role{
			"p1": {world.RoleCaptain, world.RoleHelm},
			"p2": {world.RoleEngineering},
		},
		Modules: []ModuleSpec{
			{SlotType: "power-core", VariantID: "fusion-core"},
			{SlotType: "shield-generator", VariantID: "deflector"},
			{SlotType: "weapon-mount", WeaponID: "railgun"},
		},
		Ammo:  map[string]int{"slug-ap": 40},
		Ready: map[string]bool{"p1": true, "p2": true},
	}
}

func newCompiler(t *testing.T) *Compiler {
	return NewCompiler(testCatalog(t), rng.NewStream(42, "spawn"))
}

func TestCompileValidBlueprint(t *testing.T) {
	c := newCompiler(t)
	ws := testWorld()

	ship, rep := c.Compile(validBlueprint(), ws)
	if !rep.OK() {
		t.Fatalf("compile failed: %v", rep.Errors)
	}
	if ship == nil {
		t.Fatal("no ship returned")
	}
	if math.Abs(ship.MaxHull-1100) > 1e-9 { // 1000 × 1.1 hull bonus
		t.Errorf("max hull = %v, want 1100", ship.MaxHull)
	}
	if ship.Hull != ship.MaxHull || ship.Shields != ship.MaxShields {
		t.Error("ship should spawn at full hull and shields")
	}
	if len(ship.Modules) != 3 {
		t.Fatalf("modules = %d, want 3", len(ship.Modules))
	}
	if ship.Crew["p1"] != world.RoleCaptain {
		t.Errorf("p1 role = %v, want captain", ship.Crew["p1"])
	}
}

func TestCompileGroupBonus(t *testing.T) {
	c := newCompiler(t)
	ship, rep := c.Compile(validBlueprint(), testWorld())
	if !rep.OK() {
		t.Fatalf("compile failed: %v", rep.Errors)
	}
	// defense group bonus doubles the deflector's recharge rate.
	var gen *world.ModuleInstance
	for i := range ship.Modules {
		if ship.Modules[i].SlotTypeID == "shield-generator" {
			gen = &ship.Modules[i]
		}
	}
	if gen == nil {
		t.Fatal("no shield generator compiled")
	}
	if got := gen.Stat("shield_recharge_rate"); got != 16 {
		t.Errorf("recharge rate = %v, want 16 (8 × 2.0 group bonus)", got)
	}
}

func TestCompileLoadsAmmo(t *testing.T) {
	c := newCompiler(t)
	ship, rep := c.Compile(validBlueprint(), testWorld())
	if !rep.OK() {
		t.Fatalf("compile failed: %v", rep.Errors)
	}
	m := ship.WeaponModule("railgun")
	if m == nil || m.Weapon == nil {
		t.Fatal("railgun not mounted")
	}
	if m.Weapon.AmmoLoaded != 10 || m.Weapon.AmmoID != "slug-ap" {
		t.Errorf("loaded %d of %q, want 10 of slug-ap", m.Weapon.AmmoLoaded, m.Weapon.AmmoID)
	}
	if ship.Inventory["slug-ap"] != 30 {
		t.Errorf("inventory = %d, want 30 after loading", ship.Inventory["slug-ap"])
	}
}

func TestCompileMissingRequiredSlot(t *testing.T) {
	c := newCompiler(t)
	bp := validBlueprint()
	bp.Modules = bp.Modules[:1] // drop shield generator and weapon

	ship, rep := c.Compile(bp, testWorld())
	if ship != nil {
		t.Fatal("no ship should be created on error")
	}
	if !rep.HasError(ErrMissingRequiredSlot) {
		t.Errorf("errors = %v, want missing_required_slot", rep.Errors)
	}
	for _, e := range rep.Errors {
		if e.Kind == ErrMissingRequiredSlot && e.Subject != "shield-generator" {
			t.Errorf("missing slot subject = %q, want shield-generator", e.Subject)
		}
	}
}

func TestCompileSlotCountExceeded(t *testing.T) {
	c := newCompiler(t)
	bp := validBlueprint()
	bp.Modules = append(bp.Modules, ModuleSpec{SlotType: "power-core", VariantID: "fusion-core"})

	_, rep := c.Compile(bp, testWorld())
	if !rep.HasError(ErrSlotCountExceeded) {
		t.Errorf("errors = %v, want slot_count_exceeded", rep.Errors)
	}
}

func TestCompileWeightExceeded(t *testing.T) {
	// The standard loadout weighs 1260; a 1000-point class refuses it.
	c := NewCompiler(testCatalogMaxWeight(t, 1000), rng.NewStream(42, "spawn"))
	_, rep := c.Compile(validBlueprint(), testWorld())
	if !rep.HasError(ErrWeightExceeded) {
		t.Errorf("errors = %v (weight %v), want weight_exceeded", rep.Errors, rep.TotalWeight)
	}
}

func TestCompileUnknownVariant(t *testing.T) {
	c := newCompiler(t)
	bp := validBlueprint()
	bp.Modules[0].VariantID = "no-such-core"

	_, rep := c.Compile(bp, testWorld())
	if !rep.HasError(ErrUnknownVariant) {
		t.Errorf("errors = %v, want unknown_variant", rep.Errors)
	}
}

func TestCompileVariantNotConfigured(t *testing.T) {
	c := newCompiler(t)
	bp := validBlueprint()
	bp.Modules[0].VariantID = ""

	_, rep := c.Compile(bp, testWorld())
	if !rep.HasError(ErrVariantNotConfigured) {
		t.Errorf("errors = %v, want variant_not_configured", rep.Errors)
	}
}

func TestCompileNotReady(t *testing.T) {
	c := newCompiler(t)
	bp := validBlueprint()
	bp.Ready["p2"] = false

	_, rep := c.Compile(bp, testWorld())
	if !rep.HasError(ErrNotAllPlayersReady) {
		t.Errorf("errors = %v, want not_all_players_ready", rep.Errors)
	}
}

func TestCompileNoCaptain(t *testing.T) {
	c := newCompiler(t)
	bp := validBlueprint()
	bp.Players["p1"] = []world.Role{world.RoleHelm}

	_, rep := c.Compile(bp, testWorld())
	if !rep.HasError(ErrNoCaptain) {
		t.Errorf("errors = %v, want no_captain", rep.Errors)
	}
}

func TestCompileUnknownClassAndTeam(t *testing.T) {
	c := newCompiler(t)
	bp := validBlueprint()
	bp.ClassID = "no-such-class"
	bp.TeamID = "no-such-team"

	_, rep := c.Compile(bp, testWorld())
	if !rep.HasError(ErrUnknownClass) || !rep.HasError(ErrUnknownTeam) {
		t.Errorf("errors = %v, want unknown_class and unknown_team", rep.Errors)
	}
}

func TestCompileAggregatesErrors(t *testing.T) {
	c := newCompiler(t)
	bp := validBlueprint()
	bp.Modules[0].VariantID = ""     // variant not configured
	bp.Ready["p1"] = false            // not ready
	bp.Players["p2"] = []world.Role{} // fine, but captain still present via p1

	_, rep := c.Compile(bp, testWorld())
	if len(rep.Errors) < 2 {
		t.Errorf("expected aggregated errors, got %v", rep.Errors)
	}
}

func TestCompileSpawnPositionIsFree(t *testing.T) {
	c := newCompiler(t)
	ws := testWorld()

	first, rep := c.Compile(validBlueprint(), ws)
	if !rep.OK() {
		t.Fatalf("compile failed: %v", rep.Errors)
	}
	ws.SpawnShip(first)

	second, rep := c.Compile(validBlueprint(), ws)
	if !rep.OK() {
		t.Fatalf("second compile failed: %v", rep.Errors)
	}
	minDist := c.catalog.Tunables.MinCollisionDistance * 4
	if second.Position.Sub(first.Position).Len() < minDist {
		t.Errorf("second spawn %v too close to first %v", second.Position, first.Position)
	}
}
