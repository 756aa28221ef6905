package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type shipClassFile struct {
	Classes []ShipClass `yaml:"ship_classes"`
}

type moduleSlotFile struct {
	Slots []ModuleSlot `yaml:"module_slots"`
}

type moduleVariantFile struct {
	Variants []ModuleVariant `yaml:"module_variants"`
}

type weaponFile struct {
	Weapons []Weapon `yaml:"weapons"`
}

type ammunitionFile struct {
	Ammunition []Ammunition `yaml:"ammunition"`
}

func loadYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Load reads the catalog tables from a directory. Expected files:
// ship_classes.yaml, module_slots.yaml, module_variants.yaml, weapons.yaml,
// ammunition.yaml, tunables.yaml. Missing tunables fields keep their
// defaults. The returned catalog is validated; any validation error aborts
// the load.
func Load(dir string) (*Catalog, error) {
	var (
		classes  shipClassFile
		slots    moduleSlotFile
		variants moduleVariantFile
		weapons  weaponFile
		ammo     ammunitionFile
	)
	if err := loadYAML(filepath.Join(dir, "ship_classes.yaml"), &classes); err != nil {
		return nil, err
	}
	if err := loadYAML(filepath.Join(dir, "module_slots.yaml"), &slots); err != nil {
		return nil, err
	}
	if err := loadYAML(filepath.Join(dir, "module_variants.yaml"), &variants); err != nil {
		return nil, err
	}
	if err := loadYAML(filepath.Join(dir, "weapons.yaml"), &weapons); err != nil {
		return nil, err
	}
	if err := loadYAML(filepath.Join(dir, "ammunition.yaml"), &ammo); err != nil {
		return nil, err
	}

	tun := DefaultTunables()
	tunPath := filepath.Join(dir, "tunables.yaml")
	if data, err := os.ReadFile(tunPath); err == nil {
		if err := yaml.Unmarshal(data, &tun); err != nil {
			return nil, fmt.Errorf("parse tunables.yaml: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read tunables.yaml: %w", err)
	}

	if err := parseWeaponTags(weapons.Weapons, ammo.Ammunition); err != nil {
		return nil, err
	}

	// Canonicalize the legacy has_varients spelling.
	for i := range slots.Slots {
		s := &slots.Slots[i]
		if s.LegacyHasVariants != nil {
			s.HasVariants = s.HasVariants || *s.LegacyHasVariants
			s.LegacyHasVariants = nil
		}
	}

	c := New(classes.Classes, slots.Slots, variants.Variants, weapons.Weapons, ammo.Ammunition, tun)
	if errs := c.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("catalog validation failed: %v (%d errors)", errs[0], len(errs))
	}
	return c, nil
}
