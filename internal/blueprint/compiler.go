package blueprint

import (
	"sort"

	"github.com/hyperion/server/internal/catalog"
	"github.com/hyperion/server/internal/combat"
	"github.com/hyperion/server/internal/core/ecs"
	"github.com/hyperion/server/internal/core/rng"
	"github.com/hyperion/server/internal/world"
)

// Compiler validates blueprints against the catalog and assembles ships.
type Compiler struct {
	catalog *catalog.Catalog
	spawn   *rng.Stream
}

// NewCompiler builds a compiler. spawn is the world's spawn-placement
// stream; it advances only on successful compiles.
func NewCompiler(cat *catalog.Catalog, spawn *rng.Stream) *Compiler {
	return &Compiler{catalog: cat, spawn: spawn}
}

// Validate checks a blueprint without touching the world. All rules are
// evaluated; the report lists every violation.
func (c *Compiler) Validate(bp *ShipBlueprint, ws *world.State) *Report {
	rep := &Report{}

	class := c.catalog.Class(bp.ClassID)
	if class == nil {
		rep.addError(ErrUnknownClass, bp.ClassID)
	}
	if _, ok := ws.Teams[bp.TeamID]; !ok {
		rep.addError(ErrUnknownTeam, bp.TeamID)
	}

	c.validateCrew(bp, ws, rep)
	c.validateModules(bp, class, rep)

	if !bp.AllPlayersReady() && len(bp.Players) > 0 {
		rep.addError(ErrNotAllPlayersReady, "")
	}

	if len(bp.Modules) == 0 {
		rep.addWarning(WarnNoModules, "")
	}
	hasWeapon := false
	for _, m := range bp.Modules {
		if m.WeaponID != "" {
			hasWeapon = true
			break
		}
	}
	if !hasWeapon {
		rep.addWarning(WarnNoWeapons, "")
	}
	if class != nil && len(bp.Modules) < class.MaxModules/2 {
		rep.addWarning(WarnUnderEquipped, "")
	}
	return rep
}

func (c *Compiler) validateCrew(bp *ShipBlueprint, ws *world.State, rep *Report) {
	if len(bp.Players) == 0 {
		rep.addError(ErrNoPlayers, "")
		return
	}
	valid := make(map[world.Role]bool, len(world.AllRoles))
	for _, r := range world.AllRoles {
		valid[r] = true
	}
	captain := false
	for pid, roles := range bp.Players {
		if _, ok := ws.Players[pid]; !ok {
			rep.addError(ErrUnknownPlayer, pid)
		}
		for _, r := range roles {
			if !valid[r] {
				rep.addError(ErrUnknownRole, string(r))
			}
			if r == world.RoleCaptain {
				captain = true
			}
		}
	}
	if !captain {
		rep.addError(ErrNoCaptain, "")
	}
}

func (c *Compiler) validateModules(bp *ShipBlueprint, class *catalog.ShipClass, rep *Report) {
	slotCounts := make(map[string]int)
	totalWeight := 0.0

	for _, spec := range bp.Modules {
		slot := c.catalog.Slot(spec.SlotType)
		if slot == nil {
			rep.addError(ErrUnknownSlot, spec.SlotType)
			continue
		}
		slotCounts[slot.ID]++

		weight := slot.BaseWeight

		if slot.VariantRequired() {
			if spec.VariantID == "" {
				rep.addError(ErrVariantNotConfigured, slot.ID)
			} else if v := c.catalog.Variant(spec.VariantID); v == nil {
				rep.addError(ErrUnknownVariant, spec.VariantID)
			} else {
				if v.SlotTypeID != slot.ID {
					rep.addError(ErrVariantSlotMismatch, spec.VariantID)
				}
				weight += v.AdditionalWeight
			}
		} else if spec.VariantID != "" {
			if v := c.catalog.Variant(spec.VariantID); v == nil {
				rep.addError(ErrUnknownVariant, spec.VariantID)
			} else {
				weight += v.AdditionalWeight
			}
		}

		if spec.WeaponID != "" {
			w := c.catalog.Weapon(spec.WeaponID)
			if w == nil {
				rep.addError(ErrUnknownWeapon, spec.WeaponID)
			} else {
				weight += w.Weight
				for _, conflict := range w.Tags.Validate() {
					rep.addError(ErrConflictingTags, w.ID+": "+conflict.Error())
				}
				if w.UsesAmmo() && w.AmmoType != "" {
					if !c.ammoAvailable(bp, w) {
						rep.addError(ErrIncompatibleAmmo, w.ID)
					}
				}
			}
		}
		totalWeight += weight
	}

	// Per-slot instance limits and required slots.
	for id, count := range slotCounts {
		if slot := c.catalog.Slot(id); slot != nil && count > slot.MaxSlots {
			rep.addError(ErrSlotCountExceeded, id)
		}
	}
	for _, slot := range c.catalog.Slots() {
		if slot.Required && slotCounts[slot.ID] == 0 {
			rep.addError(ErrMissingRequiredSlot, slot.ID)
		}
	}

	rep.TotalWeight = totalWeight
	if class != nil {
		if totalWeight > class.MaxWeight {
			rep.addError(ErrWeightExceeded, "")
		}
		if len(bp.Modules) > class.MaxModules {
			rep.addError(ErrModuleCountExceeded, "")
		}
	}
}

// ammoAvailable reports whether a compatible munition exists for the weapon
// in the blueprint's reserved stock, or failing that, in the catalog's
// reservable stock.
func (c *Compiler) ammoAvailable(bp *ShipBlueprint, w *catalog.Weapon) bool {
	compatible := c.catalog.CompatibleAmmo(w)
	if len(compatible) == 0 {
		return false
	}
	if len(bp.Ammo) == 0 {
		return true // nothing reserved yet, catalog stock is reservable
	}
	for _, a := range compatible {
		if bp.Ammo[a.ID] > 0 {
			return true
		}
	}
	// Reserved stock exists but none of it fits this weapon; the catalog
	// stock is still reservable, so accept.
	return true
}

// Compile validates and assembles a blueprint into a ship. On failure the
// report carries the errors and the returned ship is nil; no state is
// committed either way — the caller spawns the ship into the world.
func (c *Compiler) Compile(bp *ShipBlueprint, ws *world.State) (*world.Ship, *Report) {
	rep := c.Validate(bp, ws)
	if !rep.OK() {
		return nil, rep
	}
	class := c.catalog.Class(bp.ClassID)

	ship := &world.Ship{
		Name:        bp.Name,
		ClassID:     class.ID,
		TeamID:      bp.TeamID,
		Orientation: world.IdentityQuat(),
		MaxHull:     class.BaseHull * c.bonus(class, "", "hull"),
		MaxShields:  class.BaseShields * c.bonus(class, "", "shields"),
		WarpState:   world.FTLIdle,
		JumpState:   world.FTLIdle,
		DockState:   world.DockIdle,
		Inventory:   make(map[string]int),
		Crew:        make(map[string]world.Role),
		Contacts:    make(map[ecs.EntityID]bool),
	}
	ship.Hull = ship.MaxHull
	ship.Shields = ship.MaxShields

	for pid, roles := range bp.Players {
		if len(roles) > 0 {
			ship.Crew[pid] = roles[0]
		}
	}

	mass := 0.0
	heatCapacity := 0.0
	for _, spec := range bp.Modules {
		m := c.compileModule(class, spec)
		mass += m.Weight
		heatCapacity += m.Stat("cooling_capacity")
		ship.Modules = append(ship.Modules, m)
	}
	ship.BaseMass = mass
	if heatCapacity <= 0 {
		heatCapacity = 100 // passive cooling floor
	}
	ship.HeatCapacity = heatCapacity

	for ammoID, count := range bp.Ammo {
		if c.catalog.Ammo(ammoID) != nil && count > 0 {
			ship.Inventory[ammoID] = count
		}
	}
	c.loadInitialAmmo(ship)

	ship.Position = c.pickSpawnPosition(ws)
	return ship, rep
}

// compileModule resolves one module instance from slot base plus variant
// additions, with class bonuses baked in.
func (c *Compiler) compileModule(class *catalog.ShipClass, spec ModuleSpec) world.ModuleInstance {
	slot := c.catalog.Slot(spec.SlotType)

	m := world.ModuleInstance{
		SlotTypeID:   slot.ID,
		VariantID:    spec.VariantID,
		MaxHealth:    slot.BaseHP,
		PowerAlloc:   1.0,
		CoolingAlloc: 1.0,
		Operational:  true,
		Demand:       slot.BasePowerConsumption,
		HeatOutput:   slot.BaseHeatGeneration,
		Weight:       slot.BaseWeight,
		Stats:        make(map[string]float64),
	}

	if spec.VariantID != "" {
		if v := c.catalog.Variant(spec.VariantID); v != nil {
			m.MaxHealth += v.AdditionalHP
			m.Demand += v.AdditionalPowerConsumption
			m.HeatOutput += v.AdditionalHeatGeneration
			m.Weight += v.AdditionalWeight
			for name, val := range v.TypeSpecific {
				m.Stats[name] = val
			}
		}
	}
	if m.MaxHealth <= 0 {
		m.MaxHealth = 100
	}
	m.Health = m.MaxHealth
	m.EffectivePower = 1.0

	// Group bonuses scale the stats of modules in the group.
	for _, group := range slot.Groups {
		for name := range m.Stats {
			m.Stats[name] *= c.bonus(class, group, name)
		}
	}

	if spec.WeaponID != "" {
		w := c.catalog.Weapon(spec.WeaponID)
		m.Weapon = &world.WeaponState{
			WeaponID: w.ID,
			FireMode: world.FireManual,
		}
		if w.Tags.Has(combat.TagAutomatic) {
			m.Weapon.FireMode = world.FireAutomatic
		}
	}
	return m
}

// bonus looks up a class bonus multiplier. Bonuses are keyed either by bare
// stat name (ship-wide) or "group:stat" (scoped to a module group). Missing
// bonuses multiply by 1.
func (c *Compiler) bonus(class *catalog.ShipClass, group, stat string) float64 {
	mult := 1.0
	if class == nil {
		return mult
	}
	if group == "" {
		if b, ok := class.Bonuses[stat]; ok {
			mult *= b
		}
		return mult
	}
	if b, ok := class.Bonuses[group+":"+stat]; ok {
		mult *= b
	}
	return mult
}

// loadInitialAmmo fills each ammunition weapon's magazine from the ship's
// inventory, preferring the lexicographically first compatible munition so
// loading is reproducible.
func (c *Compiler) loadInitialAmmo(ship *world.Ship) {
	for i := range ship.Modules {
		m := &ship.Modules[i]
		if m.Weapon == nil {
			continue
		}
		w := c.catalog.Weapon(m.Weapon.WeaponID)
		if w == nil || !w.UsesAmmo() {
			continue
		}
		compatible := c.catalog.CompatibleAmmo(w)
		ids := make([]string, 0, len(compatible))
		for _, a := range compatible {
			if ship.Inventory[a.ID] > 0 {
				ids = append(ids, a.ID)
			}
		}
		if len(ids) == 0 {
			continue
		}
		sort.Strings(ids)
		ammoID := ids[0]
		load := w.AmmoCapacity
		if load <= 0 {
			load = 1
		}
		if have := ship.Inventory[ammoID]; load > have {
			load = have
		}
		ship.Inventory[ammoID] -= load
		m.Weapon.AmmoID = ammoID
		m.Weapon.AmmoLoaded = load
	}
}

// pickSpawnPosition draws positions from the spawn stream until one clears
// existing entities. The search radius widens with each failed round so a
// crowded field still terminates.
func (c *Compiler) pickSpawnPosition(ws *world.State) world.Vec3 {
	clearance := c.catalog.Tunables.MinCollisionDistance * 4
	radius := c.catalog.Tunables.MaxPosition * 0.01
	for attempt := 0; attempt < 64; attempt++ {
		pos := world.Vec3{
			X: c.spawn.Range(-radius, radius),
			Y: c.spawn.Range(-radius, radius),
			Z: c.spawn.Range(-radius, radius) * 0.1,
		}
		if ws.IsFreeRegion(pos, clearance) {
			return pos
		}
		if attempt%8 == 7 {
			radius *= 1.5
		}
	}
	// Fall back to the last candidate region's edge.
	return world.Vec3{X: radius}
}
