package gen

import (
	"github.com/hyperion/server/internal/catalog"
	"github.com/hyperion/server/internal/core/rng"
)

// Params sizes a universe.
type Params struct {
	Name     string
	Stars    int
	Factions int
}

// Universe is the full output of the generation pipeline.
type Universe struct {
	Seed      uint64
	Galaxy    *Galaxy
	Systems   []StarSystem
	Factions  []Faction
	Languages map[string]Language // faction id -> language
	History   []HistoricalEvent
}

// Generate runs the full pipeline: galaxy, systems, factions, languages,
// history. Each stage draws from its own sub-stream of the seed in a fixed
// order, so generating twice with the same inputs yields identical output.
func Generate(seed uint64, p Params, tun catalog.GenParams) *Universe {
	u := &Universe{
		Seed:      seed,
		Languages: make(map[string]Language),
	}

	galaxyStream := rng.NewStream(seed, "galaxy")
	u.Galaxy = GenerateGalaxy(p.Name, seed, tun, p.Stars, galaxyStream)

	systemStream := rng.NewStream(seed, "systems")
	for _, star := range u.Galaxy.Stars {
		u.Systems = append(u.Systems, GenerateSystem(star, tun, systemStream))
	}

	// Faction territories come from the inhabited systems, in galaxy order.
	var inhabited []string
	for _, sys := range u.Systems {
		if sys.Inhabited {
			inhabited = append(inhabited, sys.ID)
		}
	}

	factionStream := rng.NewStream(seed, "factions")
	u.Factions = GenerateFactions(p.Factions, inhabited, factionStream)

	langStream := rng.NewStream(seed, "languages")
	for _, f := range u.Factions {
		u.Languages[f.ID] = GenerateLanguage(langStream)
	}

	historyStream := rng.NewStream(seed, "history")
	u.History = GenerateHistory(u.Factions, tun.HistoryYears, historyStream)

	return u
}
