package sim

import (
	"sort"

	"github.com/hyperion/server/internal/combat"
	"github.com/hyperion/server/internal/core/ecs"
	"github.com/hyperion/server/internal/core/event"
	coresys "github.com/hyperion/server/internal/core/system"
	"github.com/hyperion/server/internal/world"
)

// SensorSystem refreshes each ship's contact picture from its sensor arrays.
// Effective range is scan_range × power × health ratio. Ion suppression
// blinds the scanner: the contact list empties and every contact is reported
// lost.
type SensorSystem struct {
	e *Engine
}

func (s *SensorSystem) Phase() coresys.Phase { return coresys.PhaseSensing }

func (s *SensorSystem) Update(_ float64) {
	ws := s.e.World
	ws.Ships.Each(func(id ecs.EntityID, ship *world.Ship) {
		if ship.Destroyed {
			return
		}

		scanRange := 0.0
		if !ship.HasEffect(combat.EffectIon) {
			ship.ModulesOfSlot("sensor-array", func(_ int, m *world.ModuleInstance) {
				if !m.Operational {
					return
				}
				r := m.Stat("scan_range") * m.EffectivePower * m.HealthRatio()
				if r > scanRange {
					scanRange = r
				}
			})
		}

		fresh := make(map[ecs.EntityID]bool)
		if scanRange > 0 {
			for _, cid := range ws.Nearest(ship.Position, scanRange, func(cid ecs.EntityID) bool {
				return cid != id
			}) {
				fresh[cid] = true
			}
		}

		// Diff against the previous picture, in id order so the event
		// stream is reproducible.
		for _, cid := range sortedIDs(fresh) {
			if !ship.Contacts[cid] {
				s.e.emit(event.ContactDetected{
					ShipID: id, ContactID: cid, Type: s.contactType(cid),
				})
			}
		}
		for _, cid := range sortedIDs(ship.Contacts) {
			if !fresh[cid] {
				s.e.emit(event.ContactLost{ShipID: id, ContactID: cid})
			}
		}
		ship.Contacts = fresh
	})
}

func sortedIDs(set map[ecs.EntityID]bool) []ecs.EntityID {
	out := make([]ecs.EntityID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s *SensorSystem) contactType(id ecs.EntityID) string {
	ws := s.e.World
	if ws.Ship(id) != nil {
		return "ship"
	}
	if ws.Station(id) != nil {
		return "station"
	}
	if p := ws.Projectile(id); p != nil {
		return string(p.Kind)
	}
	return "unknown"
}
