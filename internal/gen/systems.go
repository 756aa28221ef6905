package gen

import (
	"fmt"
	"math"

	"github.com/hyperion/server/internal/catalog"
	"github.com/hyperion/server/internal/core/rng"
)

// PlanetType classifies a planet.
type PlanetType string

const (
	PlanetTerrestrial PlanetType = "terrestrial"
	PlanetGasGiant    PlanetType = "gas_giant"
	PlanetIceGiant    PlanetType = "ice_giant"
	PlanetIce         PlanetType = "ice"
	PlanetVolcanic    PlanetType = "volcanic"
	PlanetOcean       PlanetType = "ocean"
)

// Moon orbits a planet.
type Moon struct {
	Name   string
	Mass   float64
	Radius float64
}

// Planet is a generated planet.
type Planet struct {
	Name            string
	OrbitalRadius   float64
	Type            PlanetType
	Mass            float64
	Radius          float64
	Atmosphere      bool
	InHabitableZone bool
	Inhabited       bool
	Moons           []Moon
}

// AsteroidBelt is a generated belt.
type AsteroidBelt struct {
	Name        string
	InnerRadius float64
	OuterRadius float64
	Density     float64
}

// StationSeed describes a station the generator wants placed in the world.
type StationSeed struct {
	Name     string
	Orbiting string
	Type     string
}

// StarSystem is a generated planetary system.
type StarSystem struct {
	ID            string
	Name          string
	Star          Star
	StarMass      float64
	Luminosity    float64
	Planets       []Planet
	AsteroidBelts []AsteroidBelt
	Stations      []StationSeed
	Inhabited     bool
}

// GenerateSystem expands one star into a planetary system.
func GenerateSystem(star Star, p catalog.GenParams, r *rng.Stream) StarSystem {
	sys := StarSystem{
		ID:        star.ID,
		Name:      star.Name,
		Star:      star,
		Inhabited: star.Inhabited,
	}
	sys.StarMass, sys.Luminosity = starProperties(r, star.Type)

	numPlanets := planetCount(r, star.Type)
	for i := 0; i < numPlanets; i++ {
		sys.Planets = append(sys.Planets, generatePlanet(r, i, star.Type, sys.Luminosity, sys.Inhabited))
	}

	if r.Bool(0.4) {
		inner := 2.0 + float64(numPlanets)*0.5
		sys.AsteroidBelts = append(sys.AsteroidBelts, AsteroidBelt{
			Name:        "Asteroid Belt",
			InnerRadius: inner,
			OuterRadius: inner + r.Range(0.5, 2.0),
			Density:     r.Range(0.1, 1.0),
		})
	}

	if sys.Inhabited || r.Bool(0.3) {
		n := r.IntRange(0, 1)
		if sys.Inhabited {
			n = r.IntRange(1, p.MaxStationsPerSystem-1)
		}
		for i := 0; i < n; i++ {
			sys.Stations = append(sys.Stations, generateStation(r, p, sys.Planets))
		}
	}
	return sys
}

func starProperties(r *rng.Stream, t StarType) (mass, lum float64) {
	switch t {
	case StarBlueGiant:
		return r.Range(10, 50), r.Range(1000, 10000)
	case StarWhite:
		return r.Range(1.4, 2.5), r.Range(5, 25)
	case StarYellow:
		return r.Range(0.8, 1.2), r.Range(0.6, 1.5)
	case StarOrange:
		return r.Range(0.5, 0.8), r.Range(0.1, 0.6)
	case StarRedDwarf:
		return r.Range(0.1, 0.5), r.Range(0.001, 0.1)
	case StarNeutron:
		return r.Range(1.4, 2.0), r.Range(0.0001, 0.001)
	default: // black hole
		return r.Range(3, 20), 0
	}
}

func planetCount(r *rng.Stream, t StarType) int {
	switch t {
	case StarBlueGiant:
		return r.IntRange(0, 2)
	case StarWhite:
		return r.IntRange(2, 5)
	case StarYellow:
		return r.IntRange(3, 8)
	case StarOrange:
		return r.IntRange(2, 6)
	case StarRedDwarf:
		return r.IntRange(1, 4)
	default:
		return 0
	}
}

func generatePlanet(r *rng.Stream, index int, star StarType, luminosity float64, systemInhabited bool) Planet {
	baseRadius := map[StarType]float64{
		StarBlueGiant: 5.0,
		StarWhite:     2.0,
		StarYellow:    0.4,
		StarOrange:    0.3,
		StarRedDwarf:  0.1,
	}[star]
	if baseRadius == 0 {
		baseRadius = 1.0
	}

	orbit := baseRadius * math.Pow(1.5, float64(index)) * r.Range(0.8, 1.2)

	habInner := math.Sqrt(luminosity) * 0.95
	habOuter := math.Sqrt(luminosity) * 1.37
	inHab := orbit >= habInner && orbit <= habOuter

	var typ PlanetType
	switch {
	case orbit < habInner*0.5:
		if r.Bool(0.7) {
			typ = PlanetVolcanic
		} else {
			typ = PlanetTerrestrial
		}
	case inHab:
		if r.Bool(0.4) {
			typ = PlanetTerrestrial
		} else if r.Bool(0.3) {
			typ = PlanetOcean
		} else {
			typ = PlanetIce
		}
	case orbit < habOuter*2.0:
		if r.Bool(0.6) {
			typ = PlanetGasGiant
		} else {
			typ = PlanetTerrestrial
		}
	default:
		if r.Bool(0.5) {
			typ = PlanetIceGiant
		} else {
			typ = PlanetIce
		}
	}

	var mass, radius float64
	switch typ {
	case PlanetTerrestrial:
		mass, radius = r.Range(0.1, 3.0), r.Range(0.5, 1.8)
	case PlanetGasGiant:
		mass, radius = r.Range(50, 500), r.Range(5, 15)
	case PlanetIceGiant:
		mass, radius = r.Range(10, 50), r.Range(3, 6)
	case PlanetIce:
		mass, radius = r.Range(0.1, 2.0), r.Range(0.4, 1.5)
	case PlanetVolcanic:
		mass, radius = r.Range(0.5, 2.0), r.Range(0.6, 1.2)
	case PlanetOcean:
		mass, radius = r.Range(0.8, 1.5), r.Range(0.9, 1.3)
	}

	atmosphere := typ != PlanetIce
	inhabited := systemInhabited && inHab &&
		(typ == PlanetTerrestrial || typ == PlanetOcean) && r.Bool(0.5)

	numMoons := 0
	switch typ {
	case PlanetGasGiant:
		numMoons = r.IntRange(2, 19)
	case PlanetIceGiant:
		numMoons = r.IntRange(1, 9)
	case PlanetTerrestrial:
		if r.Bool(0.3) {
			numMoons = r.IntRange(1, 2)
		}
	}
	var moons []Moon
	for i := 0; i < numMoons; i++ {
		moons = append(moons, Moon{
			Name:   fmt.Sprintf("Moon %d", i+1),
			Mass:   r.Range(0.01, 2.0),
			Radius: r.Range(0.1, 1.5),
		})
	}

	return Planet{
		Name:            fmt.Sprintf("Planet %d", index+1),
		OrbitalRadius:   orbit,
		Type:            typ,
		Mass:            mass,
		Radius:          radius,
		Atmosphere:      atmosphere,
		InHabitableZone: inHab,
		Inhabited:       inhabited,
		Moons:           moons,
	}
}

func generateStation(r *rng.Stream, p catalog.GenParams, planets []Planet) StationSeed {
	typ := drawWeighted(r, p.StationTypeTable)

	orbiting := "Star"
	if len(planets) > 0 && r.Bool(0.7) {
		orbiting = planets[r.Intn(len(planets))].Name
	}
	return StationSeed{
		Name:     typ + " station",
		Orbiting: orbiting,
		Type:     typ,
	}
}

func drawWeighted(r *rng.Stream, table []catalog.WeightedEntry) string {
	roll := r.Float64()
	for _, e := range table {
		roll -= e.Weight
		if roll <= 0 {
			return e.Name
		}
	}
	return table[len(table)-1].Name
}
