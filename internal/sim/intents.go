package sim

import (
	"math"

	"github.com/hyperion/server/internal/catalog"
	"github.com/hyperion/server/internal/combat"
	"github.com/hyperion/server/internal/command"
	"github.com/hyperion/server/internal/core/event"
	coresys "github.com/hyperion/server/internal/core/system"
	"github.com/hyperion/server/internal/world"
)

// IntentSystem drains the command mailbox into entity state. Invalid intents
// emit IntentRejected and are discarded; the tick never aborts on them.
type IntentSystem struct {
	e *Engine
}

func (s *IntentSystem) Phase() coresys.Phase { return coresys.PhaseIntentIntake }

// readOnlyIntent reports whether an intent may drain while paused.
func readOnlyIntent(in command.Intent) bool {
	switch in.(type) {
	case command.ScanIntent, command.AnalyzeIntent, command.HailIntent:
		return true
	}
	return false
}

func (s *IntentSystem) Update(_ float64) {
	var batches []command.ShipIntents
	if s.e.pausedNow {
		batches = s.e.Mailbox.DrainMatching(readOnlyIntent)
	} else {
		batches = s.e.Mailbox.Drain()
	}
	for _, batch := range batches {
		ship := s.e.World.Ship(batch.ShipID)
		if ship == nil {
			for _, in := range batch.Intents {
				s.e.reject(batch.ShipID, in.Name(), event.RejectUnknownShip)
			}
			for range batch.Fires {
				s.e.reject(batch.ShipID, "fire", event.RejectUnknownShip)
			}
			continue
		}
		for _, in := range batch.Intents {
			s.apply(ship, in)
		}
		for _, fire := range batch.Fires {
			s.applyFire(ship, fire)
		}
	}
}

func (s *IntentSystem) apply(ship *world.Ship, in command.Intent) {
	switch v := in.(type) {
	case command.ThrustIntent:
		ship.Control.Thrust = clamp(v.Thrust, 0, 1)
		ship.Control.FullStop = false

	case command.RotateIntent:
		ship.Control.Pitch = clamp(v.Pitch, -1, 1)
		ship.Control.Yaw = clamp(v.Yaw, -1, 1)
		ship.Control.Roll = clamp(v.Roll, -1, 1)

	case command.FullStopIntent:
		ship.Control.Thrust = 0
		ship.Control.Pitch, ship.Control.Yaw, ship.Control.Roll = 0, 0, 0
		ship.Control.FullStop = true

	case command.EngageWarpIntent:
		s.engageWarp(ship, v)

	case command.EngageJumpIntent:
		s.engageJump(ship, v)

	case command.DisengageFtlIntent:
		if ship.WarpState == world.FTLCharging || ship.WarpState == world.FTLCruising {
			ship.WarpState = world.FTLCooldown
			ship.WarpCharge = s.e.Tun.WarpCooldown
			s.e.emit(event.FtlDisengaged{ShipID: ship.ID, Drive: "warp"})
		}
		if ship.JumpState == world.FTLCharging {
			ship.JumpState = world.FTLIdle
			ship.JumpCharge = 0
			s.e.emit(event.FtlDisengaged{ShipID: ship.ID, Drive: "jump"})
		}

	case command.DockRequestIntent:
		st := s.e.World.Station(v.StationID)
		if st == nil {
			s.e.reject(ship.ID, in.Name(), event.RejectUnknownStation)
			return
		}
		if ship.DockState != world.DockIdle {
			return
		}
		ship.DockState = world.DockRequested
		ship.DockStationID = v.StationID

	case command.UndockIntent:
		if ship.DockState != world.DockDocked {
			s.e.reject(ship.ID, in.Name(), event.RejectShipNotDocked)
			return
		}
		ship.DockState = world.DockUndocking

	case command.TargetIntent:
		s.applyTarget(ship, v)

	case command.AutoFireIntent:
		m := ship.WeaponModule(v.WeaponID)
		if m == nil || m.Weapon == nil {
			s.e.reject(ship.ID, in.Name(), event.RejectUnknownModule)
			return
		}
		if v.Enabled {
			m.Weapon.FireMode = world.FireAutomatic
		} else {
			m.Weapon.FireMode = world.FireManual
		}
		m.Weapon.Active = v.Enabled

	case command.ConfigureWeaponIntent:
		m := ship.WeaponModule(v.WeaponID)
		if m == nil || m.Weapon == nil {
			s.e.reject(ship.ID, in.Name(), event.RejectUnknownModule)
			return
		}
		// Changing the configured munition drops the loaded magazine back
		// into inventory.
		if m.Weapon.AmmoID != "" && m.Weapon.AmmoLoaded > 0 {
			ship.Inventory[m.Weapon.AmmoID] += m.Weapon.AmmoLoaded
			m.Weapon.AmmoLoaded = 0
			m.Weapon.AmmoID = ""
		}

	case command.LoadAmmoIntent:
		s.loadAmmo(ship, v)

	case command.ShieldIntent:
		if ship.ShieldsRaised != v.Raise {
			ship.ShieldsRaised = v.Raise
			s.e.emit(event.ShieldChanged{
				ShipID: ship.ID, Raised: v.Raise,
				Current: ship.Shields, Max: ship.MaxShields,
			})
		}

	case command.ActivateCountermeasureIntent:
		s.activateCountermeasure(ship, v)

	case command.PointDefenseIntent:
		ship.PointDefense = v.Enabled

	case command.AllocatePowerIntent:
		s.allocate(ship, v.Allocations, in.Name(), true)

	case command.AllocateCoolingIntent:
		s.allocate(ship, v.Allocations, in.Name(), false)

	case command.RepairIntent:
		if v.ModuleIndex < 0 || v.ModuleIndex >= len(ship.Modules) {
			s.e.reject(ship.ID, in.Name(), event.RejectUnknownModule)
			return
		}
		m := &ship.Modules[v.ModuleIndex]
		crew := float64(v.Crew)
		if crew < 1 {
			crew = 1
		}
		m.Health = math.Min(m.MaxHealth, m.Health+crew*5)
		if !m.Operational && m.Health > m.MaxHealth*0.25 {
			m.Operational = true
		}
		s.e.emit(event.ModuleStatusChanged{
			ShipID: ship.ID, ModuleIndex: v.ModuleIndex, SlotTypeID: m.SlotTypeID,
			HealthPct: m.HealthRatio(), Operational: m.Operational,
		})

	case command.ScanIntent:
		if ship.HasEffect(combat.EffectIon) {
			s.e.reject(ship.ID, in.Name(), event.RejectCommsJammed)
			return
		}
		// Scan results surface through the sensing phase contact refresh.

	case command.AnalyzeIntent:
		if ship.HasEffect(combat.EffectIon) {
			s.e.reject(ship.ID, in.Name(), event.RejectCommsJammed)
			return
		}

	case command.HailIntent:
		if ship.HasEffect(combat.EffectIon) {
			s.e.reject(ship.ID, in.Name(), event.RejectCommsJammed)
			return
		}
		s.e.emit(event.MessageSent{
			FromShipID: ship.ID, ToShipID: v.TargetID,
			Message: v.Message, Tone: v.Tone,
		})

	case command.JamIntent:
		if ship.HasEffect(combat.EffectIon) {
			s.e.reject(ship.ID, in.Name(), event.RejectCommsJammed)
			return
		}
		// Jamming applies an Ion effect to the target if it is in comms
		// range of this ship's sensors.
		target := s.e.World.Ship(v.TargetID)
		if target == nil || !ship.Contacts[v.TargetID] {
			s.e.reject(ship.ID, in.Name(), event.RejectTargetOutOfRange)
			return
		}
		if target.ApplyEffect(world.StatusEffect{
			Kind: combat.EffectIon, Remaining: s.e.Params.IonDuration, Intensity: 1,
		}) {
			s.e.emit(event.StatusEffectApplied{
				ShipID: target.ID, Effect: string(combat.EffectIon),
				Duration: s.e.Params.IonDuration, Intensity: 1,
			})
		}
	}
}

// allocate distributes power or cooling fractions across module slots. The
// fractions must sum to 1 within tolerance; anything else is rejected whole.
func (s *IntentSystem) allocate(ship *world.Ship, allocs map[string]float64, intentName string, power bool) {
	sum := 0.0
	for _, f := range allocs {
		if f < 0 || f > 1 {
			s.e.reject(ship.ID, intentName, event.RejectInvalidAllocation)
			return
		}
		sum += f
	}
	if math.Abs(sum-1.0) > 1e-6 {
		s.e.reject(ship.ID, intentName, event.RejectInvalidAllocation)
		return
	}

	applied := false
	for i := range ship.Modules {
		m := &ship.Modules[i]
		f, ok := allocs[m.SlotTypeID]
		if !ok {
			continue
		}
		if power {
			m.PowerAlloc = f
		} else {
			m.CoolingAlloc = f
		}
		applied = true
	}
	if !applied {
		s.e.reject(ship.ID, intentName, event.RejectUnknownModule)
		return
	}
	if power {
		s.e.emit(event.PowerAllocationChanged{ShipID: ship.ID, Allocations: allocs})
	} else {
		s.e.emit(event.CoolingAllocationChanged{ShipID: ship.ID, Allocations: allocs})
	}
}

func (s *IntentSystem) engageWarp(ship *world.Ship, v command.EngageWarpIntent) {
	if ftlBlocked(ship) {
		s.e.reject(ship.ID, v.Name(), event.RejectFTLBlocked)
		return
	}
	if ship.WarpState != world.FTLIdle {
		return
	}
	drive := ship.FirstModuleOfSlot("warp-drive")
	if drive == nil || !drive.Operational {
		s.e.reject(ship.ID, v.Name(), event.RejectModuleDamaged)
		return
	}
	charge := drive.Stat("warp_charge_time")
	if charge <= 0 {
		charge = s.e.Tun.WarpChargeTime
	}
	ship.WarpState = world.FTLCharging
	ship.WarpCharge = charge
	ship.WarpFactor = math.Max(1, v.WarpFactor)
	heading := world.Vec3{X: v.Heading[0], Y: v.Heading[1], Z: v.Heading[2]}
	if heading.Len() < 1e-9 {
		heading = ship.Orientation.Forward()
	}
	ship.WarpHeading = heading.Normalized()
	s.e.emit(event.FtlEngaged{ShipID: ship.ID, Drive: "warp"})
}

func (s *IntentSystem) engageJump(ship *world.Ship, v command.EngageJumpIntent) {
	if ftlBlocked(ship) {
		s.e.reject(ship.ID, v.Name(), event.RejectFTLBlocked)
		return
	}
	if ship.JumpState != world.FTLIdle {
		return
	}
	drive := ship.FirstModuleOfSlot("jump-drive")
	if drive == nil || !drive.Operational {
		s.e.reject(ship.ID, v.Name(), event.RejectModuleDamaged)
		return
	}
	charge := drive.Stat("jump_charge_time")
	if charge <= 0 {
		charge = s.e.Tun.JumpChargeTime
	}
	maxDist := drive.Stat("jump_distance")
	if maxDist <= 0 {
		maxDist = 10_000
	}
	ship.JumpState = world.FTLCharging
	ship.JumpCharge = charge
	ship.JumpDistance = math.Min(v.Distance, maxDist)
	if ship.JumpDistance <= 0 {
		ship.JumpDistance = maxDist
	}
	s.e.emit(event.FtlEngaged{ShipID: ship.ID, Drive: "jump"})
}

func (s *IntentSystem) applyTarget(ship *world.Ship, v command.TargetIntent) {
	if ship.HasEffect(combat.EffectIon) {
		s.e.reject(ship.ID, v.Name(), event.RejectCommsJammed)
		return
	}
	target := s.e.World.Ship(v.TargetID)
	if target == nil {
		s.e.reject(ship.ID, v.Name(), event.RejectTargetOutOfRange)
		return
	}
	assigned := false
	for i := range ship.Modules {
		m := &ship.Modules[i]
		if m.Weapon == nil {
			continue
		}
		w := s.e.Catalog.Weapon(m.Weapon.WeaponID)
		if w == nil {
			continue
		}
		if v.WeaponClass != "" && string(w.SlotType) != v.WeaponClass {
			continue
		}
		m.Weapon.TargetID = v.TargetID
		assigned = true
	}
	if !assigned {
		s.e.reject(ship.ID, v.Name(), event.RejectUnknownModule)
	}
}

func (s *IntentSystem) applyFire(ship *world.Ship, v command.FireIntent) {
	m := ship.WeaponModule(v.WeaponID)
	if m == nil || m.Weapon == nil {
		s.e.reject(ship.ID, v.Name(), event.RejectUnknownModule)
		return
	}
	if !m.Operational {
		s.e.reject(ship.ID, v.Name(), event.RejectModuleDamaged)
		return
	}
	if m.Weapon.CooldownRemaining > 0 {
		s.e.reject(ship.ID, v.Name(), event.RejectWeaponNotReady)
		return
	}
	w := s.e.Catalog.Weapon(m.Weapon.WeaponID)
	if w != nil && w.UsesAmmo() && m.Weapon.AmmoLoaded <= 0 {
		s.e.reject(ship.ID, v.Name(), event.RejectInsufficientAmmo)
		return
	}
	m.Weapon.FireRequested = true
}

func (s *IntentSystem) loadAmmo(ship *world.Ship, v command.LoadAmmoIntent) {
	m := ship.WeaponModule(v.WeaponID)
	if m == nil || m.Weapon == nil {
		s.e.reject(ship.ID, v.Name(), event.RejectUnknownModule)
		return
	}
	w := s.e.Catalog.Weapon(m.Weapon.WeaponID)
	ammo := s.e.Catalog.Ammo(v.AmmoID)
	if w == nil || ammo == nil || !w.UsesAmmo() ||
		ammo.Type != w.AmmoType || (w.AmmoSize != "" && ammo.Size != w.AmmoSize) {
		s.e.reject(ship.ID, v.Name(), event.RejectInsufficientAmmo)
		return
	}
	if ship.Inventory[v.AmmoID] <= 0 {
		s.e.reject(ship.ID, v.Name(), event.RejectInsufficientAmmo)
		return
	}
	// Swap the loaded munition back to stores first.
	if m.Weapon.AmmoID != "" && m.Weapon.AmmoLoaded > 0 {
		ship.Inventory[m.Weapon.AmmoID] += m.Weapon.AmmoLoaded
		m.Weapon.AmmoLoaded = 0
	}
	load := w.AmmoCapacity
	if load <= 0 {
		load = 1
	}
	if have := ship.Inventory[v.AmmoID]; load > have {
		load = have
	}
	ship.Inventory[v.AmmoID] -= load
	m.Weapon.AmmoID = v.AmmoID
	m.Weapon.AmmoLoaded = load
}

func (s *IntentSystem) activateCountermeasure(ship *world.Ship, v command.ActivateCountermeasureIntent) {
	// Find a countermeasure weapon mount matching the requested type.
	for i := range ship.Modules {
		m := &ship.Modules[i]
		if m.Weapon == nil || !m.Operational {
			continue
		}
		w := s.e.Catalog.Weapon(m.Weapon.WeaponID)
		if w == nil || w.SlotType != catalog.WeaponSlotCountermeasure {
			continue
		}
		if v.Type != "" && w.ID != v.Type && !w.Tags.Has(tagForCountermeasure(v.Type)) {
			continue
		}
		if m.Weapon.CooldownRemaining > 0 {
			s.e.reject(ship.ID, v.Name(), event.RejectWeaponNotReady)
			return
		}
		m.Weapon.Active = true
		m.Weapon.CooldownRemaining = w.CooldownAfterFire()
		s.e.emit(event.CountermeasureActivated{ShipID: ship.ID, Type: w.ID})
		if w.Tags.Has(combat.TagChaff) {
			s.deployChaff(ship, w)
		}
		return
	}
	s.e.reject(ship.ID, v.Name(), event.RejectUnknownModule)
}

// deployChaff spawns a chaff cloud that degrades guidance locks in its
// volume. Chaff never detonates and never damages hulls.
func (s *IntentSystem) deployChaff(ship *world.Ship, w *catalog.Weapon) {
	lifetime := s.e.Params.ChaffDuration
	cloud := &world.Projectile{
		Kind:              world.ProjChaff,
		OwnerID:           ship.ID,
		OwnerTeam:         ship.TeamID,
		Position:          ship.Position,
		Velocity:          ship.Velocity,
		LifetimeRemaining: lifetime,
		Payload: world.Payload{
			BlastRadius: w.MaxRange,
			Tags:        w.Tags,
		},
	}
	s.e.World.SpawnProjectile(cloud)
}

func tagForCountermeasure(name string) combat.Tag {
	switch name {
	case "chaff":
		return combat.TagChaff
	case "decoy":
		return combat.TagDecoy
	case "antimissile":
		return combat.TagAntimissile
	case "antitorpedo":
		return combat.TagAntitorpedo
	}
	return 0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
