package command

import (
	"sort"
	"sync"

	"github.com/hyperion/server/internal/core/ecs"
)

// Mailbox is the thread-safe handoff between external handlers and the
// simulation. Intents are kept in per-ship slots keyed by intent name:
// repeated same-kind intents within one tick overwrite each other and the
// latest wins, which keeps command application O(ships) per tick and removes
// cross-entity interleaving ambiguity.
//
// Fire intents are the exception: each trigger pull matters, so they
// accumulate per ship, in arrival order, rather than overwrite.
type Mailbox struct {
	mu    sync.Mutex
	slots map[ecs.EntityID]map[string]Intent
	fires map[ecs.EntityID][]FireIntent
}

func NewMailbox() *Mailbox {
	return &Mailbox{
		slots: make(map[ecs.EntityID]map[string]Intent),
		fires: make(map[ecs.EntityID][]FireIntent),
	}
}

// Deposit stores an intent for a ship, last writer wins per intent kind.
func (m *Mailbox) Deposit(ship ecs.EntityID, in Intent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if fire, ok := in.(FireIntent); ok {
		m.fires[ship] = append(m.fires[ship], fire)
		return
	}
	slot := m.slots[ship]
	if slot == nil {
		slot = make(map[string]Intent, 4)
		m.slots[ship] = slot
	}
	slot[in.Name()] = in
}

// ShipIntents is the drained command set for one ship.
type ShipIntents struct {
	ShipID  ecs.EntityID
	Intents []Intent
	Fires   []FireIntent
}

// Drain removes and returns all pending intents, grouped per ship and
// ordered by ship id; within a ship, intents are ordered by intent name so a
// tick processes commands in a reproducible sequence.
func (m *Mailbox) Drain() []ShipIntents {
	return m.DrainMatching(nil)
}

// DrainMatching removes and returns intents accepted by pred (nil accepts
// everything). Intents that fail the predicate stay queued. The paused loop
// uses this to keep draining read-only commands while simulation phases are
// skipped.
func (m *Mailbox) DrainMatching(pred func(Intent) bool) []ShipIntents {
	m.mu.Lock()
	defer m.mu.Unlock()

	takeFires := pred == nil || pred(FireIntent{})

	ids := make([]ecs.EntityID, 0, len(m.slots)+len(m.fires))
	seen := make(map[ecs.EntityID]bool, len(m.slots))
	for id := range m.slots {
		ids = append(ids, id)
		seen[id] = true
	}
	for id := range m.fires {
		if !seen[id] {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]ShipIntents, 0, len(ids))
	for _, id := range ids {
		si := ShipIntents{ShipID: id}
		if takeFires {
			si.Fires = m.fires[id]
			delete(m.fires, id)
		}
		if slot := m.slots[id]; slot != nil {
			names := make([]string, 0, len(slot))
			for n := range slot {
				names = append(names, n)
			}
			sort.Strings(names)
			for _, n := range names {
				in := slot[n]
				if pred == nil || pred(in) {
					si.Intents = append(si.Intents, in)
					delete(slot, n)
				}
			}
			if len(slot) == 0 {
				delete(m.slots, id)
			}
		}
		if len(si.Intents) > 0 || len(si.Fires) > 0 {
			out = append(out, si)
		}
	}
	return out
}
