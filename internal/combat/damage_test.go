package combat

import (
	"math"
	"testing"
)

func never() float64  { return 1.0 } // roll that never applies effects
func always() float64 { return 0.0 } // roll that always applies effects

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestResolvePlainDamage(t *testing.T) {
	p := DefaultParams()

	res := Resolve(p, Impact{BaseDamage: 100}, TargetState{Shields: 0}, never)
	if !approx(res.HullPortion, 100) || !approx(res.ShieldPortion, 0) {
		t.Errorf("unshielded hit: hull=%v shield=%v", res.HullPortion, res.ShieldPortion)
	}

	res = Resolve(p, Impact{BaseDamage: 100}, TargetState{Shields: 250}, never)
	if !approx(res.HullPortion, 0) || !approx(res.ShieldPortion, 100) {
		t.Errorf("shielded hit: hull=%v shield=%v", res.HullPortion, res.ShieldPortion)
	}
}

func TestResolveShieldSpillover(t *testing.T) {
	p := DefaultParams()
	res := Resolve(p, Impact{BaseDamage: 100}, TargetState{Shields: 30}, never)
	if !approx(res.ShieldPortion, 30) {
		t.Errorf("shield portion = %v, want 30", res.ShieldPortion)
	}
	if !approx(res.HullPortion, 70) {
		t.Errorf("hull spillover = %v, want 70", res.HullPortion)
	}
}

func TestResolvePhotonHalvesShieldDamage(t *testing.T) {
	p := DefaultParams()
	// One tick of a 10 dps photon beam at dt = 1/60.
	dt := 1.0 / 60.0
	res := Resolve(p, Impact{BaseDamage: 10 * dt, Tags: NewSet(TagBeam, TagPhoton)},
		TargetState{Shields: 100}, never)

	want := 10 * dt * 0.5
	if math.Abs(res.ShieldPortion-want) > 1e-9 {
		t.Errorf("photon beam tick: shield portion = %v, want %v", res.ShieldPortion, want)
	}
	if res.HullPortion != 0 {
		t.Errorf("photon beam tick: hull portion = %v, want 0", res.HullPortion)
	}
}

func TestResolvePlasmaDoublesShieldDamage(t *testing.T) {
	p := DefaultParams()
	res := Resolve(p, Impact{BaseDamage: 50, Tags: NewSet(TagPlasma)},
		TargetState{Shields: 500}, never)
	if !approx(res.ShieldPortion, 100) {
		t.Errorf("plasma shield portion = %v, want 100", res.ShieldPortion)
	}
}

func TestResolvePositronBypass(t *testing.T) {
	p := DefaultParams()
	// Missile impact damage 100 vs shields 200: 25 bypasses to hull, the
	// remaining 75 is absorbed by shields.
	res := Resolve(p, Impact{BaseDamage: 100, Tags: NewSet(TagMissile, TagPositron)},
		TargetState{Shields: 200}, never)
	if !approx(res.HullPortion, 25) {
		t.Errorf("positron hull portion = %v, want 25", res.HullPortion)
	}
	if !approx(res.ShieldPortion, 75) {
		t.Errorf("positron shield portion = %v, want 75", res.ShieldPortion)
	}
}

func TestResolveArmorPenetration(t *testing.T) {
	p := DefaultParams()
	tests := []struct {
		name     string
		armor    float64
		pen      float64
		wantHull float64
	}{
		{"armor fully defeated", 10, 15, 100},
		{"partial block", 20, 5, 85},
		{"hull damage floors at zero", 500, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(p,
				Impact{BaseDamage: 100, ArmorPen: tt.pen, Kinetic: true},
				TargetState{Shields: 0, ArmorRating: tt.armor}, never)
			if !approx(res.HullPortion, tt.wantHull) {
				t.Errorf("hull = %v, want %v", res.HullPortion, tt.wantHull)
			}
		})
	}
}

func TestResolveStatusCarriers(t *testing.T) {
	p := DefaultParams()
	tests := []struct {
		name     string
		tag      Tag
		kind     EffectKind
		wantDmg  float64
		duration float64
	}{
		{"ion", TagIon, EffectIon, 60, 10},
		{"graviton", TagGraviton, EffectGraviton, 50, 15},
		{"tachyon", TagTachyon, EffectTachyon, 40, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(p, Impact{BaseDamage: 100, Tags: NewSet(tt.tag)},
				TargetState{Shields: 0}, always)
			if !approx(res.HullPortion, tt.wantDmg) {
				t.Errorf("carrier damage = %v, want %v", res.HullPortion, tt.wantDmg)
			}
			if len(res.Effects) != 1 {
				t.Fatalf("effects = %d, want 1", len(res.Effects))
			}
			eff := res.Effects[0]
			if eff.Kind != tt.kind || !approx(eff.Duration, tt.duration) {
				t.Errorf("effect %v dur %v, want %v dur %v", eff.Kind, eff.Duration, tt.kind, tt.duration)
			}
		})
	}
}

func TestResolveEffectChanceGate(t *testing.T) {
	p := DefaultParams()
	res := Resolve(p, Impact{BaseDamage: 100, Tags: NewSet(TagIon)},
		TargetState{Shields: 0}, never)
	if len(res.Effects) != 0 {
		t.Errorf("failed roll should apply no effects, got %d", len(res.Effects))
	}
}

func TestResolveNoDamageCarriers(t *testing.T) {
	p := DefaultParams()
	for _, tag := range []Tag{TagDecoy, TagChaff} {
		res := Resolve(p, Impact{BaseDamage: 100, Tags: NewSet(tag)},
			TargetState{Shields: 50}, never)
		if res.HullPortion != 0 || res.ShieldPortion != 0 {
			t.Errorf("%v should carry no impact damage, got hull=%v shield=%v",
				tag, res.HullPortion, res.ShieldPortion)
		}
	}
}

func TestInterceptorMultiplier(t *testing.T) {
	p := DefaultParams()
	tests := []struct {
		name    string
		tags    Set
		missile bool
		torpedo bool
		want    float64
	}{
		{"antimissile vs missile", NewSet(TagAntimissile), true, false, 0.3},
		{"antitorpedo vs torpedo", NewSet(TagAntitorpedo), false, true, 0.5},
		{"antimissile vs torpedo", NewSet(TagAntimissile), false, true, 0},
		{"plain weapon vs missile", NewSet(TagSingleFire), true, false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InterceptorMultiplier(p, tt.tags, tt.missile, tt.torpedo)
			if !approx(got, tt.want) {
				t.Errorf("multiplier = %v, want %v", got, tt.want)
			}
		})
	}
}
