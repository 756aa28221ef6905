package ecs

// EntityID packs a 32-bit slot index in the low bits and a 32-bit generation
// in the high bits. The generation bumps when a slot is reused so stale ids
// held across ticks (projectile targets, contact lists) resolve to nothing
// instead of to a different entity.
type EntityID uint64

func MakeEntityID(index, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

func (id EntityID) Index() uint32      { return uint32(id) }
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }
func (id EntityID) IsZero() bool       { return id == 0 }

// Allocator hands out entity ids with generational reuse. The simulation
// owns exactly one allocator; ships, stations, and projectiles all draw from
// the same id space so spatial queries can return mixed entity kinds.
//
// Index 0 is burned at construction so no live entity ever carries the zero
// id: EntityID(0) is the "no entity" sentinel throughout the simulation
// (empty target locks, absent owners).
type Allocator struct {
	Generations []uint32
	FreeList    []uint32
	NextIndex   uint32
}

func NewAllocator() *Allocator {
	return &Allocator{
		Generations: append(make([]uint32, 0, 1024), 1),
		NextIndex:   1,
		FreeList:    make([]uint32, 0, 256),
	}
}

func (a *Allocator) Allocate() EntityID {
	if n := len(a.FreeList); n > 0 {
		idx := a.FreeList[n-1]
		a.FreeList = a.FreeList[:n-1]
		return MakeEntityID(idx, a.Generations[idx])
	}
	idx := a.NextIndex
	a.NextIndex++
	if int(idx) >= len(a.Generations) {
		a.Generations = append(a.Generations, 0)
	}
	return MakeEntityID(idx, a.Generations[idx])
}

// Alive reports whether id refers to a currently allocated entity.
func (a *Allocator) Alive(id EntityID) bool {
	idx := id.Index()
	if idx >= a.NextIndex {
		return false
	}
	return a.Generations[idx] == id.Generation()
}

// Release returns an id's slot to the free list. Releasing a stale id is a
// no-op.
func (a *Allocator) Release(id EntityID) {
	idx := id.Index()
	if idx >= a.NextIndex || a.Generations[idx] != id.Generation() {
		return
	}
	a.Generations[idx]++
	a.FreeList = append(a.FreeList, idx)
}
