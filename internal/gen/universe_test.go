package gen

import (
	"reflect"
	"testing"

	"github.com/hyperion/server/internal/catalog"
)

func genParams() catalog.GenParams {
	return catalog.DefaultTunables().Generation
}

func TestGenerateDeterministic(t *testing.T) {
	p := Params{Name: "Test Reach", Stars: 100, Factions: 5}

	a := Generate(42, p, genParams())
	b := Generate(42, p, genParams())

	if len(a.Galaxy.Stars) != len(b.Galaxy.Stars) {
		t.Fatalf("star counts differ: %d vs %d", len(a.Galaxy.Stars), len(b.Galaxy.Stars))
	}
	for i := range a.Galaxy.Stars {
		if a.Galaxy.Stars[i].ID != b.Galaxy.Stars[i].ID ||
			a.Galaxy.Stars[i].Position != b.Galaxy.Stars[i].Position ||
			a.Galaxy.Stars[i].Type != b.Galaxy.Stars[i].Type {
			t.Fatalf("star %d differs between runs", i)
		}
	}
	if !reflect.DeepEqual(a.Factions, b.Factions) {
		t.Error("factions differ between runs")
	}
	if !reflect.DeepEqual(a.History, b.History) {
		t.Error("history timelines differ between runs")
	}
	if !reflect.DeepEqual(a.Languages, b.Languages) {
		t.Error("languages differ between runs")
	}
}

func TestGenerateSeedSensitivity(t *testing.T) {
	p := Params{Name: "Test", Stars: 50, Factions: 3}
	a := Generate(1, p, genParams())
	b := Generate(2, p, genParams())

	same := 0
	for i := range a.Galaxy.Stars {
		if a.Galaxy.Stars[i].Position == b.Galaxy.Stars[i].Position {
			same++
		}
	}
	if same == len(a.Galaxy.Stars) {
		t.Error("different seeds produced identical star fields")
	}
}

func TestGalaxyStructure(t *testing.T) {
	p := genParams()
	u := Generate(42, Params{Name: "Test", Stars: 200, Factions: 3}, p)

	wantSectors := p.SectorsPerAxis * p.SectorsPerAxis * p.SectorsPerAxis
	if len(u.Galaxy.Sectors) != wantSectors {
		t.Errorf("sectors = %d, want %d", len(u.Galaxy.Sectors), wantSectors)
	}
	if len(u.Galaxy.Stars) != 200 {
		t.Errorf("stars = %d, want 200", len(u.Galaxy.Stars))
	}

	// Core sectors exist and carry high density.
	core := 0
	for _, s := range u.Galaxy.Sectors {
		if s.Type == SectorCore {
			core++
			if s.StarDensity < 0.7 {
				t.Errorf("core sector density %v too low", s.StarDensity)
			}
		}
	}
	if core == 0 {
		t.Error("no core sectors generated")
	}

	// The galaxy is flattened: z spread well below x/y spread.
	var maxZ float64
	for _, s := range u.Galaxy.Stars {
		if z := abs(s.Position[2]); z > maxZ {
			maxZ = z
		}
	}
	if maxZ > p.GalaxyRadius*p.Flattening*1.5 {
		t.Errorf("max |z| = %v exceeds flattening envelope", maxZ)
	}
}

func TestSystemsFollowStarType(t *testing.T) {
	u := Generate(42, Params{Name: "Test", Stars: 150, Factions: 2}, genParams())
	if len(u.Systems) != len(u.Galaxy.Stars) {
		t.Fatalf("systems = %d, want one per star", len(u.Systems))
	}
	for _, sys := range u.Systems {
		if sys.Star.Type == StarNeutron || sys.Star.Type == StarBlackHole {
			if len(sys.Planets) != 0 {
				t.Errorf("%s around a %s has planets", sys.ID, sys.Star.Type)
			}
		}
		for _, planet := range sys.Planets {
			if planet.Inhabited && !planet.InHabitableZone {
				t.Errorf("%s: inhabited planet outside habitable zone", sys.ID)
			}
		}
	}
}

func TestFactionTraitConflicts(t *testing.T) {
	u := Generate(7, Params{Name: "Test", Stars: 100, Factions: 10}, genParams())
	for _, f := range u.Factions {
		if len(f.Traits) == 0 {
			t.Errorf("%s has no traits", f.ID)
		}
		for i, a := range f.Traits {
			for _, b := range f.Traits[i+1:] {
				if TraitsConflict(a, b) {
					t.Errorf("%s holds conflicting traits %s and %s", f.ID, a, b)
				}
			}
		}
	}
}

func TestFactionRelationshipsSymmetric(t *testing.T) {
	u := Generate(7, Params{Name: "Test", Stars: 100, Factions: 6}, genParams())
	for i, a := range u.Factions {
		if len(a.Relationships) != len(u.Factions)-1 {
			t.Errorf("%s has %d relationships, want %d", a.ID, len(a.Relationships), len(u.Factions)-1)
		}
		for j, b := range u.Factions {
			if i == j {
				continue
			}
			if a.Relationships[b.ID] != b.Relationships[a.ID] {
				t.Errorf("asymmetric relationship between %s and %s", a.ID, b.ID)
			}
		}
	}
}

func TestHistoryFirstContacts(t *testing.T) {
	u := Generate(11, Params{Name: "Test", Stars: 50, Factions: 4}, genParams())

	contacts := 0
	for _, ev := range u.History {
		if ev.Type == EventFirstContact {
			contacts++
		}
	}
	if want := 4 * 3 / 2; contacts != want {
		t.Errorf("first contacts = %d, want %d (every pair)", contacts, want)
	}

	// Timeline is chronological.
	for i := 1; i < len(u.History); i++ {
		if u.History[i].Year < u.History[i-1].Year {
			t.Fatal("history not sorted by year")
		}
	}
}

func TestLanguageVocabulary(t *testing.T) {
	u := Generate(13, Params{Name: "Test", Stars: 50, Factions: 3}, genParams())
	if len(u.Languages) != 3 {
		t.Fatalf("languages = %d, want 3", len(u.Languages))
	}
	for id, lang := range u.Languages {
		if len(lang.Vocabulary) != 25 {
			t.Errorf("%s vocabulary = %d entries, want 25", id, len(lang.Vocabulary))
		}
		if lang.Vocabulary["ship"] == "" {
			t.Errorf("%s has no word for ship", id)
		}
		if len(lang.Phonology.Consonants) < 1 || len(lang.Phonology.Vowels) < 1 {
			t.Errorf("%s phonology empty", id)
		}
	}
}

func TestTranslateDeterministic(t *testing.T) {
	u := Generate(13, Params{Name: "Test", Stars: 50, Factions: 1}, genParams())
	var lang Language
	for _, l := range u.Languages {
		lang = l
	}

	if lang.Translate("ship") != lang.Vocabulary["ship"] {
		t.Error("core vocabulary translation should use the dictionary")
	}
	a := lang.Translate("starlight")
	b := lang.Translate("starlight")
	if a == "" || a != b {
		t.Errorf("out-of-vocabulary translation not deterministic: %q vs %q", a, b)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
