package command

import (
	"testing"

	"github.com/hyperion/server/internal/core/ecs"
)

func TestMailboxLastWriterWins(t *testing.T) {
	m := NewMailbox()
	ship := ecs.EntityID(7)

	m.Deposit(ship, ThrustIntent{Thrust: 0.2})
	m.Deposit(ship, ThrustIntent{Thrust: 0.9})

	batches := m.Drain()
	if len(batches) != 1 {
		t.Fatalf("batches = %d, want 1", len(batches))
	}
	if len(batches[0].Intents) != 1 {
		t.Fatalf("intents = %d, want 1 (latest wins)", len(batches[0].Intents))
	}
	thrust, ok := batches[0].Intents[0].(ThrustIntent)
	if !ok || thrust.Thrust != 0.9 {
		t.Errorf("drained %v, want the later thrust 0.9", batches[0].Intents[0])
	}
}

func TestMailboxFireIntentsAccumulate(t *testing.T) {
	m := NewMailbox()
	ship := ecs.EntityID(7)

	m.Deposit(ship, FireIntent{WeaponID: "railgun"})
	m.Deposit(ship, FireIntent{WeaponID: "railgun"})
	m.Deposit(ship, FireIntent{WeaponID: "beam"})

	batches := m.Drain()
	if len(batches) != 1 || len(batches[0].Fires) != 3 {
		t.Fatalf("fires = %v, want 3 accumulated trigger pulls", batches)
	}
}

func TestMailboxDrainOrdering(t *testing.T) {
	m := NewMailbox()
	m.Deposit(ecs.EntityID(9), ThrustIntent{Thrust: 1})
	m.Deposit(ecs.EntityID(3), ThrustIntent{Thrust: 1})
	m.Deposit(ecs.EntityID(5), ThrustIntent{Thrust: 1})

	batches := m.Drain()
	if len(batches) != 3 {
		t.Fatalf("batches = %d", len(batches))
	}
	for i := 1; i < len(batches); i++ {
		if batches[i-1].ShipID >= batches[i].ShipID {
			t.Errorf("batches out of id order: %v then %v", batches[i-1].ShipID, batches[i].ShipID)
		}
	}
}

func TestMailboxDrainClears(t *testing.T) {
	m := NewMailbox()
	m.Deposit(ecs.EntityID(1), ShieldIntent{Raise: true})
	if got := len(m.Drain()); got != 1 {
		t.Fatalf("first drain = %d", got)
	}
	if got := len(m.Drain()); got != 0 {
		t.Errorf("second drain = %d, want 0", got)
	}
}

func TestMailboxDrainMatching(t *testing.T) {
	m := NewMailbox()
	ship := ecs.EntityID(4)
	m.Deposit(ship, ThrustIntent{Thrust: 1})
	m.Deposit(ship, ScanIntent{ScanType: "active"})

	readOnly := func(in Intent) bool {
		_, ok := in.(ScanIntent)
		return ok
	}
	batches := m.DrainMatching(readOnly)
	if len(batches) != 1 || len(batches[0].Intents) != 1 {
		t.Fatalf("filtered drain = %v, want only the scan", batches)
	}
	if _, ok := batches[0].Intents[0].(ScanIntent); !ok {
		t.Errorf("drained %T, want ScanIntent", batches[0].Intents[0])
	}

	// The thrust intent is still queued for the next full drain.
	rest := m.Drain()
	if len(rest) != 1 || len(rest[0].Intents) != 1 {
		t.Fatalf("remaining drain = %v, want the thrust", rest)
	}
	if _, ok := rest[0].Intents[0].(ThrustIntent); !ok {
		t.Errorf("remaining %T, want ThrustIntent", rest[0].Intents[0])
	}
}
