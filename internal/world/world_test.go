package world

import (
	"testing"

	"github.com/hyperion/server/internal/combat"
	"github.com/hyperion/server/internal/core/ecs"
)

func TestVec3Basics(t *testing.T) {
	v := Vec3{3, 4, 0}
	if v.Len() != 5 {
		t.Errorf("Len = %v, want 5", v.Len())
	}
	c := v.ClampLen(2.5)
	if got := c.Len(); got < 2.49 || got > 2.51 {
		t.Errorf("clamped length = %v, want 2.5", got)
	}
	if n := (Vec3{}).Normalized(); n != (Vec3{}) {
		t.Errorf("zero vector normalizes to %v", n)
	}
}

func TestQuatForward(t *testing.T) {
	f := IdentityQuat().Forward()
	if f.Sub(Vec3{Z: 1}).Len() > 1e-9 {
		t.Errorf("identity forward = %v, want +Z", f)
	}

	// Quarter turn around Y sends +Z to +X.
	q := FromScaledAxis(Vec3{Y: 3.14159265358979 / 2})
	f = q.Forward()
	if f.Sub(Vec3{X: 1}).Len() > 1e-6 {
		t.Errorf("rotated forward = %v, want +X", f)
	}
}

func TestApplyEffectNonStacking(t *testing.T) {
	s := &Ship{}
	applied := s.ApplyEffect(StatusEffect{Kind: combat.EffectGraviton, Remaining: 15, Intensity: 0.3})
	if !applied {
		t.Fatal("first application should report new")
	}
	// Reapplying refreshes but never stacks.
	applied = s.ApplyEffect(StatusEffect{Kind: combat.EffectGraviton, Remaining: 10, Intensity: 0.3})
	if applied {
		t.Error("second application should refresh, not apply")
	}
	if len(s.Effects) != 1 {
		t.Fatalf("effects = %d, want 1", len(s.Effects))
	}
	if s.Effects[0].Remaining != 15 {
		t.Errorf("remaining = %v, want max(15, 10) = 15", s.Effects[0].Remaining)
	}

	s.ApplyEffect(StatusEffect{Kind: combat.EffectGraviton, Remaining: 20, Intensity: 0.3})
	if s.Effects[0].Remaining != 20 {
		t.Errorf("remaining = %v, want refreshed to 20", s.Effects[0].Remaining)
	}
}

func TestEffectiveMassGraviton(t *testing.T) {
	s := &Ship{BaseMass: 100}
	if s.EffectiveMass() != 100 {
		t.Errorf("base mass = %v", s.EffectiveMass())
	}
	s.ApplyEffect(StatusEffect{Kind: combat.EffectGraviton, Remaining: 15, Intensity: 0.3})
	if got := s.EffectiveMass(); got != 130 {
		t.Errorf("graviton mass = %v, want 130", got)
	}
	// Non-stacking: a second hit refreshes duration, mass stays 130.
	s.ApplyEffect(StatusEffect{Kind: combat.EffectGraviton, Remaining: 15, Intensity: 0.3})
	if got := s.EffectiveMass(); got != 130 {
		t.Errorf("mass after refresh = %v, want 130", got)
	}
}

func TestGridNearby(t *testing.T) {
	ws := NewState(1, 1000)
	near := ws.SpawnShip(&Ship{Position: Vec3{X: 10}})
	far := ws.SpawnShip(&Ship{Position: Vec3{X: 90000}})

	ws.Grid.Clear()
	ws.Ships.Each(func(id ecs.EntityID, s *Ship) {
		ws.Grid.Insert(id, s.Position)
	})

	found := ws.Grid.Nearby(Vec3{}, 500)
	hasNear, hasFar := false, false
	for _, id := range found {
		if id == near {
			hasNear = true
		}
		if id == far {
			hasFar = true
		}
	}
	if !hasNear {
		t.Error("nearby ship not returned")
	}
	if hasFar {
		t.Error("distant ship returned by small-radius query")
	}
}

func TestNearestOrdering(t *testing.T) {
	ws := NewState(1, 1000)
	b := ws.SpawnShip(&Ship{Position: Vec3{X: 200}})
	a := ws.SpawnShip(&Ship{Position: Vec3{X: 100}})

	got := ws.Nearest(Vec3{}, 1000, nil)
	if len(got) != 2 {
		t.Fatalf("nearest = %d entities, want 2", len(got))
	}
	if got[0] != a || got[1] != b {
		t.Errorf("nearest order = %v, want closest first", got)
	}
}

func TestDespawnReleasesID(t *testing.T) {
	ws := NewState(1, 1000)
	id := ws.SpawnShip(&Ship{})
	if ws.Ship(id) == nil {
		t.Fatal("ship should be live after spawn")
	}
	ws.MarkForDespawn(id)
	ws.FlushDespawns()
	if ws.Ship(id) != nil {
		t.Error("ship should be gone after flush")
	}
	// The reused slot gets a new generation, so the stale id stays dead.
	id2 := ws.SpawnShip(&Ship{})
	if id2 == id {
		t.Error("reused slot should carry a fresh generation")
	}
	if ws.Ship(id) != nil {
		t.Error("stale id resolved after slot reuse")
	}
}
