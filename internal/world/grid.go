package world

import (
	"math"
	"sort"

	"github.com/hyperion/server/internal/core/ecs"
)

// Grid is a uniform spatial hash over 3-D space used by the collision
// broad-phase and the blast-radius queries. Cell size is chosen so a one-cell
// neighbourhood covers the largest query radius in common use; larger radii
// widen the scanned neighbourhood.
//
// Accessed only from the simulation goroutine, no locks.
type Grid struct {
	cellSize float64
	cells    map[gridKey][]ecs.EntityID
}

type gridKey struct {
	x, y, z int32
}

func NewGrid(cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = 1000
	}
	return &Grid{
		cellSize: cellSize,
		cells:    make(map[gridKey][]ecs.EntityID),
	}
}

func (g *Grid) key(p Vec3) gridKey {
	return gridKey{
		x: int32(math.Floor(p.X / g.cellSize)),
		y: int32(math.Floor(p.Y / g.cellSize)),
		z: int32(math.Floor(p.Z / g.cellSize)),
	}
}

// Clear empties the grid. The collision phase rebuilds it each tick, which
// keeps moves trivially correct for fast entities.
func (g *Grid) Clear() {
	for k := range g.cells {
		delete(g.cells, k)
	}
}

// Insert places an entity at a position.
func (g *Grid) Insert(id ecs.EntityID, p Vec3) {
	k := g.key(p)
	g.cells[k] = append(g.cells[k], id)
}

// Nearby returns every entity within the cells overlapping a sphere of the
// given radius, sorted by id. Callers do the fine-grained distance check.
func (g *Grid) Nearby(p Vec3, radius float64) []ecs.EntityID {
	span := int32(math.Ceil(radius/g.cellSize)) + 1
	center := g.key(p)
	var out []ecs.EntityID
	for dx := -span; dx <= span; dx++ {
		for dy := -span; dy <= span; dy++ {
			for dz := -span; dz <= span; dz++ {
				k := gridKey{center.x + dx, center.y + dy, center.z + dz}
				out = append(out, g.cells[k]...)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
