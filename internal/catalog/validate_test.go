package catalog

import (
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/hyperion/server/internal/combat"
)

func testClasses() []ShipClass {
	return []ShipClass{
		{ID: "cruiser", Name: "Cruiser", Size: SizeMedium, Role: "multirole",
			MaxWeight: 5000, MaxModules: 12, BaseHull: 1000, BaseShields: 500, BuildPoints: 1000},
	}
}

func testSlots() []ModuleSlot {
	return []ModuleSlot{
		{ID: "power-core", Name: "Power Core", Required: true, HasVariants: true,
			MaxSlots: 2, BaseHP: 150, BaseWeight: 400},
		{ID: "weapon-mount", Name: "Weapon Mount", MaxSlots: 6, BaseHP: 100, BaseWeight: 120},
	}
}

func testVariants() []ModuleVariant {
	return []ModuleVariant{
		{ID: "fusion-core", SlotTypeID: "power-core",
			TypeSpecific: map[string]float64{"energy_production": 200}},
	}
}

func testWeapons() []Weapon {
	return []Weapon{
		{ID: "railgun", SlotType: WeaponSlotKinetic, Tags: combat.NewSet(combat.TagSingleFire),
			Damage: 40, ReloadTime: 3, MaxRange: 4000, Accuracy: 0.75,
			AmmoType: "slug", AmmoSize: "medium"},
	}
}

func testAmmo() []Ammunition {
	return []Ammunition{
		{ID: "slug-ap", Category: AmmoKinetic, Type: "slug", Size: "medium",
			ImpactDamage: 40, Velocity: 5000},
	}
}

func newTestCatalog(t *testing.T, mutate func(c *testTables)) *Catalog {
	t.Helper()
	tables := &testTables{
		Classes:  testClasses(),
		Slots:    testSlots(),
		Variants: testVariants(),
		Weapons:  testWeapons(),
		Ammo:     testAmmo(),
		Tun:      DefaultTunables(),
	}
	if mutate != nil {
		mutate(tables)
	}
	return New(tables.Classes, tables.Slots, tables.Variants, tables.Weapons, tables.Ammo, tables.Tun)
}

type testTables struct {
	Classes  []ShipClass
	Slots    []ModuleSlot
	Variants []ModuleVariant
	Weapons  []Weapon
	Ammo     []Ammunition
	Tun      Tunables
}

func errorKinds(errs []Error) map[ErrorKind]int {
	out := make(map[ErrorKind]int)
	for _, e := range errs {
		out[e.Kind]++
	}
	return out
}

func TestValidateCleanCatalog(t *testing.T) {
	c := newTestCatalog(t, nil)
	if errs := c.Validate(); len(errs) != 0 {
		t.Fatalf("clean catalog failed validation: %v", errs)
	}
}

func TestValidateVariantUnknownSlot(t *testing.T) {
	c := newTestCatalog(t, func(tb *testTables) {
		tb.Variants = append(tb.Variants, ModuleVariant{ID: "ghost", SlotTypeID: "no-such-slot"})
	})
	kinds := errorKinds(c.Validate())
	if kinds[ErrUnknownSlotType] == 0 {
		t.Error("expected unknown_slot_type error")
	}
}

func TestValidateConflictingWeaponTags(t *testing.T) {
	c := newTestCatalog(t, func(tb *testTables) {
		tb.Weapons = append(tb.Weapons, Weapon{
			ID: "confused", SlotType: WeaponSlotDE,
			Tags: combat.NewSet(combat.TagBeam, combat.TagBurst), Accuracy: 0.5,
		})
	})
	kinds := errorKinds(c.Validate())
	if kinds[ErrConflictingTags] == 0 {
		t.Error("expected conflicting_tags error")
	}
}

func TestValidateWeaponWithoutAmmo(t *testing.T) {
	c := newTestCatalog(t, func(tb *testTables) {
		tb.Ammo = nil
	})
	kinds := errorKinds(c.Validate())
	if kinds[ErrMissingID] == 0 {
		t.Error("kinetic weapon with no matching ammunition should fail")
	}
}

func TestValidateProbabilityTable(t *testing.T) {
	c := newTestCatalog(t, func(tb *testTables) {
		tb.Tun.Generation.StarTypeTable = []WeightedEntry{
			{Name: "yellow", Weight: 0.5},
			{Name: "orange", Weight: 0.4},
		}
	})
	kinds := errorKinds(c.Validate())
	if kinds[ErrInvalidProbabilityTable] == 0 {
		t.Error("table summing to 0.9 should fail")
	}

	c = newTestCatalog(t, func(tb *testTables) {
		tb.Tun.Generation.StarTypeTable = []WeightedEntry{
			{Name: "yellow", Weight: 0.5},
			{Name: "yellow", Weight: 0.5},
		}
	})
	kinds = errorKinds(c.Validate())
	if kinds[ErrDuplicateID] == 0 {
		t.Error("duplicate table entry should fail")
	}
}

func TestValidateNumericRanges(t *testing.T) {
	c := newTestCatalog(t, func(tb *testTables) {
		tb.Classes[0].MaxWeight = -1
		tb.Weapons[0].Accuracy = 1.5
	})
	kinds := errorKinds(c.Validate())
	if kinds[ErrNumericOutOfRange] < 2 {
		t.Errorf("expected at least 2 numeric range errors, got %d", kinds[ErrNumericOutOfRange])
	}
}

func TestLegacyHasVarientsSpelling(t *testing.T) {
	raw := `
id: sensor-array
name: Sensor Array
has_varients: true
max_slots: 1
base_hp: 80
`
	var slot ModuleSlot
	if err := yaml.Unmarshal([]byte(raw), &slot); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !slot.VariantRequired() {
		t.Error("legacy has_varients spelling should mark the slot as variant-bearing")
	}

	canonical := `
id: sensor-array
has_variants: true
max_slots: 1
`
	var slot2 ModuleSlot
	if err := yaml.Unmarshal([]byte(canonical), &slot2); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !slot2.VariantRequired() {
		t.Error("canonical spelling should mark the slot as variant-bearing")
	}
}

func TestCompatibleAmmo(t *testing.T) {
	c := newTestCatalog(t, func(tb *testTables) {
		tb.Ammo = append(tb.Ammo, Ammunition{
			ID: "slug-large", Category: AmmoKinetic, Type: "slug", Size: "large",
		})
	})
	w := c.Weapon("railgun")
	ammo := c.CompatibleAmmo(w)
	if len(ammo) != 1 || ammo[0].ID != "slug-ap" {
		t.Errorf("CompatibleAmmo = %v, want only slug-ap", ammo)
	}
}

func TestGroupedLookups(t *testing.T) {
	c := newTestCatalog(t, nil)
	if got := len(c.VariantsForSlot("power-core")); got != 1 {
		t.Errorf("variants for power-core = %d, want 1", got)
	}
	if got := len(c.WeaponsForSlot(WeaponSlotKinetic)); got != 1 {
		t.Errorf("kinetic weapons = %d, want 1", got)
	}
	if got := len(c.AmmoForCategory(AmmoKinetic)); got != 1 {
		t.Errorf("kinetic ammo = %d, want 1", got)
	}
}
