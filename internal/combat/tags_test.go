package combat

import "testing"

func TestParseSet(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  Set
		err   bool
	}{
		{"empty", nil, 0, false},
		{"single", []string{"Beam"}, NewSet(TagBeam), false},
		{"case insensitive", []string{"photon", "PLASMA"}, NewSet(TagPhoton, TagPlasma), false},
		{"single-fire alias", []string{"Single-Fire"}, NewSet(TagSingleFire), false},
		{"underscore alias", []string{"single_fire"}, NewSet(TagSingleFire), false},
		{"unknown", []string{"Disco"}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSet(tt.input)
			if tt.err {
				if err == nil {
					t.Fatalf("expected error for %v", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseSet(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFirePattern(t *testing.T) {
	tests := []struct {
		name   string
		set    Set
		want   FirePattern
		rounds int
	}{
		{"untagged defaults to single", 0, PatternSingle, 1},
		{"single fire", NewSet(TagSingleFire), PatternSingle, 1},
		{"pulse fires two", NewSet(TagPulse), PatternPulse, 2},
		{"burst fires three", NewSet(TagBurst, TagPhoton), PatternBurst, 3},
		{"beam emits none", NewSet(TagBeam, TagPhoton), PatternBeam, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.set.Pattern(); got != tt.want {
				t.Errorf("Pattern() = %v, want %v", got, tt.want)
			}
			if got := tt.set.Pattern().Rounds(); got != tt.rounds {
				t.Errorf("Rounds() = %d, want %d", got, tt.rounds)
			}
		})
	}
}

func TestValidateConflicts(t *testing.T) {
	tests := []struct {
		name      string
		set       Set
		conflicts int
	}{
		{"clean weapon", NewSet(TagBurst, TagPhoton, TagManual), 0},
		{"two fire patterns", NewSet(TagBeam, TagBurst), 1},
		{"missile and torpedo", NewSet(TagMissile, TagTorpedo), 1},
		{"manual and automatic", NewSet(TagManual, TagAutomatic), 1},
		{"stacked conflicts", NewSet(TagBeam, TagBurst, TagPulse), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(tt.set.Validate()); got != tt.conflicts {
				t.Errorf("Validate() found %d conflicts, want %d", got, tt.conflicts)
			}
		})
	}
}

func TestSetClassifiers(t *testing.T) {
	if !NewSet(TagChaff).IsCountermeasure() {
		t.Error("chaff should be a countermeasure")
	}
	if NewSet(TagBeam).IsCountermeasure() {
		t.Error("beam is not a countermeasure")
	}
	if !NewSet(TagIon).HasStatusEffect() {
		t.Error("ion carries a status effect")
	}
	if NewSet(TagPlasma).HasStatusEffect() {
		t.Error("plasma carries no status effect")
	}
}

func TestNamesRoundTrip(t *testing.T) {
	set := NewSet(TagBurst, TagPhoton, TagAutomatic)
	names := set.Names()
	back, err := ParseSet(names)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if back != set {
		t.Errorf("round trip %v -> %v -> %v", set, names, back)
	}
}
