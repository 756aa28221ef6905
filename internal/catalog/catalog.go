package catalog

import "sort"

// Catalog is the immutable game data bundle. It is built once at startup,
// validated, and then shared read-only across the server.
type Catalog struct {
	classes  map[string]*ShipClass
	slots    map[string]*ModuleSlot
	variants map[string]*ModuleVariant
	weapons  map[string]*Weapon
	ammo     map[string]*Ammunition

	variantsBySlot map[string][]*ModuleVariant
	weaponsBySlot  map[WeaponSlotType][]*Weapon
	ammoByCategory map[AmmoCategory][]*Ammunition

	Tunables Tunables
}

// New assembles a catalog from loaded tables. Call Validate before use.
func New(classes []ShipClass, slots []ModuleSlot, variants []ModuleVariant,
	weapons []Weapon, ammo []Ammunition, tun Tunables) *Catalog {

	c := &Catalog{
		classes:        make(map[string]*ShipClass, len(classes)),
		slots:          make(map[string]*ModuleSlot, len(slots)),
		variants:       make(map[string]*ModuleVariant, len(variants)),
		weapons:        make(map[string]*Weapon, len(weapons)),
		ammo:           make(map[string]*Ammunition, len(ammo)),
		variantsBySlot: make(map[string][]*ModuleVariant),
		weaponsBySlot:  make(map[WeaponSlotType][]*Weapon),
		ammoByCategory: make(map[AmmoCategory][]*Ammunition),
		Tunables:       tun,
	}
	for i := range classes {
		c.classes[classes[i].ID] = &classes[i]
	}
	for i := range slots {
		c.slots[slots[i].ID] = &slots[i]
	}
	for i := range variants {
		v := &variants[i]
		c.variants[v.ID] = v
		c.variantsBySlot[v.SlotTypeID] = append(c.variantsBySlot[v.SlotTypeID], v)
	}
	for i := range weapons {
		w := &weapons[i]
		c.weapons[w.ID] = w
		c.weaponsBySlot[w.SlotType] = append(c.weaponsBySlot[w.SlotType], w)
	}
	for i := range ammo {
		a := &ammo[i]
		c.ammo[a.ID] = a
		c.ammoByCategory[a.Category] = append(c.ammoByCategory[a.Category], a)
	}

	// Group listings stay sorted by id so catalog-driven iteration is
	// reproducible.
	for _, vs := range c.variantsBySlot {
		sort.Slice(vs, func(i, j int) bool { return vs[i].ID < vs[j].ID })
	}
	for _, ws := range c.weaponsBySlot {
		sort.Slice(ws, func(i, j int) bool { return ws[i].ID < ws[j].ID })
	}
	for _, as := range c.ammoByCategory {
		sort.Slice(as, func(i, j int) bool { return as[i].ID < as[j].ID })
	}
	return c
}

func (c *Catalog) Class(id string) *ShipClass         { return c.classes[id] }
func (c *Catalog) Slot(id string) *ModuleSlot         { return c.slots[id] }
func (c *Catalog) Variant(id string) *ModuleVariant   { return c.variants[id] }
func (c *Catalog) Weapon(id string) *Weapon           { return c.weapons[id] }
func (c *Catalog) Ammo(id string) *Ammunition         { return c.ammo[id] }

// VariantsForSlot lists the variants mountable in a slot, sorted by id.
func (c *Catalog) VariantsForSlot(slotID string) []*ModuleVariant {
	return c.variantsBySlot[slotID]
}

// WeaponsForSlot lists the weapons of a slot type, sorted by id.
func (c *Catalog) WeaponsForSlot(t WeaponSlotType) []*Weapon {
	return c.weaponsBySlot[t]
}

// AmmoForCategory lists the ammunition of a category, sorted by id.
func (c *Catalog) AmmoForCategory(cat AmmoCategory) []*Ammunition {
	return c.ammoByCategory[cat]
}

// CompatibleAmmo lists ammunition matching a weapon's ammo type and size.
func (c *Catalog) CompatibleAmmo(w *Weapon) []*Ammunition {
	var out []*Ammunition
	for _, cat := range []AmmoCategory{AmmoKinetic, AmmoMissiles, AmmoTorpedos} {
		for _, a := range c.ammoByCategory[cat] {
			if a.Type == w.AmmoType && (w.AmmoSize == "" || a.Size == w.AmmoSize) {
				out = append(out, a)
			}
		}
	}
	return out
}

// Slots lists every module slot sorted by id.
func (c *Catalog) Slots() []*ModuleSlot {
	out := make([]*ModuleSlot, 0, len(c.slots))
	for _, s := range c.slots {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Counts reports table sizes for startup logging.
func (c *Catalog) Counts() (classes, slots, variants, weapons, ammo int) {
	return len(c.classes), len(c.slots), len(c.variants), len(c.weapons), len(c.ammo)
}
