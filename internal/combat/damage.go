package combat

import "math"

// EffectKind identifies a time-decaying status effect on a ship.
type EffectKind string

const (
	EffectIon      EffectKind = "ion"      // suppresses comms, scans, target locks
	EffectGraviton EffectKind = "graviton" // multiplies effective mass
	EffectTachyon  EffectKind = "tachyon"  // blocks FTL initiation
	EffectChaff    EffectKind = "chaff"    // degrades incoming guidance locks
)

// Params holds the tunable constants of the damage resolver. All values come
// from the catalog; DefaultParams mirrors its shipped defaults.
type Params struct {
	PhotonShieldMult  float64 // shield-portion multiplier for Photon
	PlasmaShieldMult  float64 // shield-portion multiplier for Plasma
	PositronBypass    float64 // fraction of damage that ignores shields
	AntimissileMult   float64 // damage multiplier vs missiles
	AntitorpedoMult   float64 // damage multiplier vs torpedos
	ArmorPenScale     float64 // k in max(0, armor - pen*k)
	IonDamageMult     float64 // direct-damage reduction for Ion carriers
	GravitonDamageMult float64
	TachyonDamageMult  float64

	IonDuration      float64
	IonChance        float64
	GravitonDuration float64
	GravitonChance   float64
	GravitonWeight   float64 // added mass fraction while active
	TachyonDuration  float64
	TachyonChance    float64
	ChaffDuration    float64
}

// DefaultParams returns the resolver constants of the shipped catalog.
func DefaultParams() Params {
	return Params{
		PhotonShieldMult:   0.5,
		PlasmaShieldMult:   2.0,
		PositronBypass:     0.25,
		AntimissileMult:    0.3,
		AntitorpedoMult:    0.5,
		ArmorPenScale:      1.0,
		IonDamageMult:      0.6,
		GravitonDamageMult: 0.5,
		TachyonDamageMult:  0.4,
		IonDuration:        10.0,
		IonChance:          0.8,
		GravitonDuration:   15.0,
		GravitonChance:     0.7,
		GravitonWeight:     0.3,
		TachyonDuration:    20.0,
		TachyonChance:      0.9,
		ChaffDuration:      8.0,
	}
}

// Impact describes one damage application against a ship.
type Impact struct {
	BaseDamage float64
	Tags       Set
	// ArmorPen is the armor penetration rating of kinetic ammunition;
	// zero for energy weapons.
	ArmorPen float64
	Kinetic  bool
}

// TargetState is the defender snapshot the resolver reads.
type TargetState struct {
	Shields     float64
	ArmorRating float64
}

// AppliedEffect is a status effect produced by a resolved impact.
type AppliedEffect struct {
	Kind      EffectKind
	Duration  float64
	Intensity float64
	SourceTag Tag
}

// Result is the outcome of resolving one impact.
type Result struct {
	// HullPortion and ShieldPortion are the amounts actually subtracted
	// from hull and shields.
	HullPortion   float64
	ShieldPortion float64
	Effects       []AppliedEffect
}

// Resolve applies the tag algebra to one impact. roll draws from the
// seeded combat stream; it is only consulted for status-effect application
// chances, so impacts without status tags resolve without advancing the
// stream.
//
// Order of operations: carrier damage reduction, shield bypass split, shield
// modifiers and absorption, armor penetration on the hull portion, status
// effect rolls.
func Resolve(p Params, imp Impact, tgt TargetState, roll func() float64) Result {
	d := imp.BaseDamage

	// Status-effect carriers trade direct damage for their effect.
	if imp.Tags.Has(TagIon) {
		d *= p.IonDamageMult
	}
	if imp.Tags.Has(TagGraviton) {
		d *= p.GravitonDamageMult
	}
	if imp.Tags.Has(TagTachyon) {
		d *= p.TachyonDamageMult
	}
	// Decoys and chaff carry no impact damage.
	if imp.Tags.Has(TagDecoy) || imp.Tags.Has(TagChaff) {
		d = 0
	}

	var hull, shield float64

	bypass := 0.0
	if imp.Tags.Has(TagPositron) {
		bypass = p.PositronBypass
	}
	hull = d * bypass
	shieldPortion := d - hull

	if tgt.Shields > 0 {
		if imp.Tags.Has(TagPhoton) {
			shieldPortion *= p.PhotonShieldMult
		}
		if imp.Tags.Has(TagPlasma) {
			shieldPortion *= p.PlasmaShieldMult
		}
		absorbed := math.Min(tgt.Shields, shieldPortion)
		shield = absorbed
		hull += shieldPortion - absorbed
	} else {
		hull += shieldPortion
	}

	// Kinetic rounds lose damage to armor not defeated by penetration.
	if imp.Kinetic && hull > 0 {
		blocked := math.Max(0, tgt.ArmorRating-imp.ArmorPen*p.ArmorPenScale)
		hull = math.Max(0, hull-blocked)
	}

	res := Result{HullPortion: hull, ShieldPortion: shield}

	if imp.Tags.Has(TagIon) && roll() < p.IonChance {
		res.Effects = append(res.Effects, AppliedEffect{
			Kind: EffectIon, Duration: p.IonDuration, Intensity: 1.0, SourceTag: TagIon,
		})
	}
	if imp.Tags.Has(TagGraviton) && roll() < p.GravitonChance {
		res.Effects = append(res.Effects, AppliedEffect{
			Kind: EffectGraviton, Duration: p.GravitonDuration, Intensity: p.GravitonWeight, SourceTag: TagGraviton,
		})
	}
	if imp.Tags.Has(TagTachyon) && roll() < p.TachyonChance {
		res.Effects = append(res.Effects, AppliedEffect{
			Kind: EffectTachyon, Duration: p.TachyonDuration, Intensity: 1.0, SourceTag: TagTachyon,
		})
	}

	return res
}

// InterceptorMultiplier returns the damage multiplier an Antimissile or
// Antitorpedo weapon applies against a projectile of the given kind. Weapons
// carrying either tag deal nothing to non-matching kinds.
func InterceptorMultiplier(p Params, tags Set, targetIsMissile, targetIsTorpedo bool) float64 {
	switch {
	case tags.Has(TagAntimissile) && targetIsMissile:
		return p.AntimissileMult
	case tags.Has(TagAntitorpedo) && targetIsTorpedo:
		return p.AntitorpedoMult
	case tags.Has(TagAntimissile) || tags.Has(TagAntitorpedo):
		return 0
	default:
		return 1
	}
}
