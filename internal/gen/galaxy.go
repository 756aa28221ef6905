package gen

import (
	"fmt"
	"math"

	"github.com/hyperion/server/internal/catalog"
	"github.com/hyperion/server/internal/core/rng"
)

// SectorType classifies a galaxy sector by position.
type SectorType string

const (
	SectorCore     SectorType = "core"
	SectorArm      SectorType = "arm"
	SectorInterArm SectorType = "inter_arm"
	SectorRim      SectorType = "rim"
	SectorVoid     SectorType = "void"
)

// StarType classifies a star.
type StarType string

const (
	StarBlueGiant StarType = "blue_giant"
	StarWhite     StarType = "white"
	StarYellow    StarType = "yellow"
	StarOrange    StarType = "orange"
	StarRedDwarf  StarType = "red_dwarf"
	StarNeutron   StarType = "neutron"
	StarBlackHole StarType = "black_hole"
)

// Sector is one cell of the galaxy grid.
type Sector struct {
	Coords      [3]int
	Type        SectorType
	StarDensity float64
	Features    []string
}

// Star is a generated star.
type Star struct {
	ID        string
	Name      string
	Position  [3]float64
	Type      StarType
	Sector    [3]int
	Inhabited bool
}

// Galaxy is the sector grid plus its stars.
type Galaxy struct {
	Name    string
	Seed    uint64
	Radius  float64
	Sectors []Sector
	Stars   []Star
}

// GenerateGalaxy builds the sector grid and places stars by density. All
// draws come from the provided stream in a fixed order, so a seed fully
// determines the output.
func GenerateGalaxy(name string, seed uint64, p catalog.GenParams, numStars int, r *rng.Stream) *Galaxy {
	g := &Galaxy{
		Name:   name,
		Seed:   seed,
		Radius: p.GalaxyRadius,
	}

	half := p.SectorsPerAxis / 2
	for x := -half; x < half; x++ {
		for y := -half; y < half; y++ {
			for z := -half; z < half; z++ {
				g.Sectors = append(g.Sectors, generateSector(r, [3]int{x, y, z}, half))
			}
		}
	}

	for i := 0; i < numStars; i++ {
		g.Stars = append(g.Stars, generateStar(r, i, g.Sectors, p))
	}
	return g
}

func generateSector(r *rng.Stream, coords [3]int, half int) Sector {
	x, y, z := coords[0], coords[1], coords[2]
	dist := math.Sqrt(float64(x*x + y*y + z*z))
	normalized := dist / (float64(half) * 1.4)

	var typ SectorType
	switch {
	case normalized < 0.2:
		typ = SectorCore
	case normalized < 0.6:
		// Spiral arms versus inter-arm space by angle.
		angle := math.Atan2(float64(y), float64(x))
		if math.Abs(math.Sin(angle/math.Pi*2)) > 0.5 {
			typ = SectorArm
		} else {
			typ = SectorInterArm
		}
	case normalized < 0.9:
		typ = SectorRim
	default:
		typ = SectorVoid
	}

	base := map[SectorType]float64{
		SectorCore:     0.9,
		SectorArm:      0.7,
		SectorInterArm: 0.3,
		SectorRim:      0.2,
		SectorVoid:     0.05,
	}[typ]

	s := Sector{
		Coords:      coords,
		Type:        typ,
		StarDensity: base * r.Range(0.8, 1.2),
	}
	if r.Bool(0.1) {
		s.Features = append(s.Features, "nebula")
	}
	if r.Bool(0.05) {
		s.Features = append(s.Features, "black_hole")
	}
	if r.Bool(0.03) {
		s.Features = append(s.Features, "asteroid_field")
	}
	return s
}

func generateStar(r *rng.Stream, index int, sectors []Sector, p catalog.GenParams) Star {
	// Draw a sector weighted by density.
	total := 0.0
	for _, s := range sectors {
		total += s.StarDensity
	}
	roll := r.Range(0, total)
	chosen := &sectors[0]
	for i := range sectors {
		roll -= sectors[i].StarDensity
		if roll <= 0 {
			chosen = &sectors[i]
			break
		}
	}

	sectorSize := p.GalaxyRadius / float64(p.SectorsPerAxis/2)
	pos := [3]float64{
		(float64(chosen.Coords[0]) + r.Range(-0.5, 0.5)) * sectorSize,
		(float64(chosen.Coords[1]) + r.Range(-0.5, 0.5)) * sectorSize,
		(float64(chosen.Coords[2]) + r.Range(-0.5, 0.5)) * sectorSize * p.Flattening,
	}

	typ := drawStarType(r, p.StarTypeTable)

	inhabitedChance := map[StarType]float64{
		StarYellow: 0.3,
		StarOrange: 0.2,
		StarWhite:  0.1,
	}[typ]
	if inhabitedChance == 0 {
		inhabitedChance = 0.01
	}

	return Star{
		ID:        fmt.Sprintf("STAR-%06d", index),
		Name:      starName(r, index),
		Position:  pos,
		Type:      typ,
		Sector:    chosen.Coords,
		Inhabited: r.Bool(inhabitedChance),
	}
}

// drawStarType draws from the catalog probability table; the table is
// validated to sum to one.
func drawStarType(r *rng.Stream, table []catalog.WeightedEntry) StarType {
	roll := r.Float64()
	for _, e := range table {
		roll -= e.Weight
		if roll <= 0 {
			return StarType(e.Name)
		}
	}
	return StarType(table[len(table)-1].Name)
}

var (
	starPrefixes = []string{"Alpha", "Beta", "Gamma", "Delta", "Epsilon", "Zeta", "Eta", "Theta"}
	starSuffixes = []string{"Centauri", "Draconis", "Orionis", "Cygni", "Lyrae", "Aquilae"}
)

func starName(r *rng.Stream, index int) string {
	if r.Bool(0.3) {
		return fmt.Sprintf("HD %d", 100000+index)
	}
	prefix := starPrefixes[r.Intn(len(starPrefixes))]
	suffix := starSuffixes[r.Intn(len(starSuffixes))]
	return prefix + " " + suffix
}

// StarsInSector lists stars in a sector.
func (g *Galaxy) StarsInSector(sector [3]int) []*Star {
	var out []*Star
	for i := range g.Stars {
		if g.Stars[i].Sector == sector {
			out = append(out, &g.Stars[i])
		}
	}
	return out
}

// NearbyStars lists stars within radius of a position.
func (g *Galaxy) NearbyStars(pos [3]float64, radius float64) []*Star {
	var out []*Star
	for i := range g.Stars {
		s := &g.Stars[i]
		dx := s.Position[0] - pos[0]
		dy := s.Position[1] - pos[1]
		dz := s.Position[2] - pos[2]
		if math.Sqrt(dx*dx+dy*dy+dz*dz) <= radius {
			out = append(out, s)
		}
	}
	return out
}
