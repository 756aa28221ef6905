package world

import (
	"testing"

	"github.com/hyperion/server/internal/combat"
	"github.com/hyperion/server/internal/core/ecs"
)

func buildSnapshotWorld() *State {
	ws := NewState(42, 2000)
	ws.Players["p1"] = &Player{ID: "p1", Name: "Alice"}
	ws.Teams["blue"] = &Team{ID: "blue", Name: "Blue", Members: map[string]bool{"p1": true}}

	ship := &Ship{
		Name:        "Resolute",
		ClassID:     "cruiser",
		TeamID:      "blue",
		Position:    Vec3{X: 100, Y: -50, Z: 3},
		Orientation: IdentityQuat(),
		Velocity:    Vec3{X: 10},
		Hull:        900, MaxHull: 1000,
		Shields: 400, MaxShields: 500, ShieldsRaised: true,
		BaseMass:     1500,
		HeatCapacity: 100,
		Inventory:    map[string]int{"slug-ap": 30},
		Crew:         map[string]Role{"p1": RoleCaptain},
		WarpState:    FTLIdle, JumpState: FTLIdle, DockState: DockIdle,
		Contacts: map[ecs.EntityID]bool{},
		Modules: []ModuleInstance{
			{SlotTypeID: "power-core", VariantID: "fusion-core",
				Health: 150, MaxHealth: 150, PowerAlloc: 1, CoolingAlloc: 1,
				Operational: true, EffectivePower: 1,
				Stats: map[string]float64{"energy_production": 200}},
		},
		Effects: []StatusEffect{
			{Kind: combat.EffectGraviton, Remaining: 12.5, Intensity: 0.3},
		},
	}
	ws.SpawnShip(ship)

	ws.SpawnProjectile(&Projectile{
		Kind: ProjMissile, OwnerTeam: "red",
		Position: Vec3{X: 500}, Velocity: Vec3{X: -100},
		Guided: true, MaxTurnRate: 1.5, MaxSpeed: 1500,
		LifetimeRemaining: 12,
		Payload:           Payload{ImpactDamage: 100, Tags: combat.NewSet(combat.TagMissile)},
	})

	ws.SpawnStation(&Station{
		Name: "Outpost", Position: Vec3{Y: 9000}, Size: 200,
		DockingCapacity: 4, Services: []string{"repair"},
	})

	ws.Tick = 77
	ws.Time = 77.0 / 60.0
	return ws
}

func TestSnapshotRoundTrip(t *testing.T) {
	ws := buildSnapshotWorld()

	data, err := ws.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	restored, err := Restore(data, 2000)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}

	if restored.Tick != ws.Tick || restored.Seed != ws.Seed {
		t.Errorf("tick/seed = %d/%d, want %d/%d",
			restored.Tick, restored.Seed, ws.Tick, ws.Seed)
	}
	if restored.Ships.Len() != 1 || restored.Projectiles.Len() != 1 || restored.Stations.Len() != 1 {
		t.Fatalf("entity counts = %d/%d/%d",
			restored.Ships.Len(), restored.Projectiles.Len(), restored.Stations.Len())
	}

	var orig, back *Ship
	ws.Ships.Each(func(_ ecs.EntityID, s *Ship) { orig = s })
	restored.Ships.Each(func(_ ecs.EntityID, s *Ship) { back = s })

	if back.ID != orig.ID {
		t.Errorf("ship id = %v, want %v", back.ID, orig.ID)
	}
	if back.Position != orig.Position || back.Velocity != orig.Velocity {
		t.Error("transform did not round trip")
	}
	if back.Hull != orig.Hull || back.Shields != orig.Shields {
		t.Error("hull/shields did not round trip")
	}
	if len(back.Modules) != 1 || back.Modules[0].Stats["energy_production"] != 200 {
		t.Error("modules did not round trip")
	}
	if len(back.Effects) != 1 || back.Effects[0].Remaining != 12.5 {
		t.Error("status effects did not round trip")
	}
	if back.Inventory["slug-ap"] != 30 {
		t.Error("inventory did not round trip")
	}

	// The restored allocator must keep handing out fresh ids.
	newID := restored.SpawnShip(&Ship{})
	if restored.Ship(newID) == nil {
		t.Error("restored world cannot spawn")
	}
	if newID == orig.ID {
		t.Error("restored allocator reused a live id")
	}
}

func TestSnapshotChecksum(t *testing.T) {
	ws := buildSnapshotWorld()
	data, err := ws.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	data[len(data)-1] ^= 0xFF
	if _, err := Restore(data, 2000); err == nil {
		t.Error("corrupted snapshot should fail checksum")
	}

	if _, err := Restore(data[:10], 2000); err == nil {
		t.Error("truncated snapshot should fail")
	}
}

func TestSnapshotStableAcrossCalls(t *testing.T) {
	ws := buildSnapshotWorld()
	a, err := ws.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	b, err := ws.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(a) != len(b) {
		t.Errorf("snapshot sizes differ: %d vs %d", len(a), len(b))
	}
}
