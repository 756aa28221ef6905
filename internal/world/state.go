package world

import (
	"sort"

	"github.com/hyperion/server/internal/core/ecs"
	"github.com/hyperion/server/internal/core/event"
)

// State is the registry of live entities. It is exclusively owned by the
// simulation goroutine during a tick; external handlers reach it only through
// the intent mailbox and the event queue.
type State struct {
	alloc *ecs.Allocator

	Ships       *ecs.Store[Ship]
	Projectiles *ecs.Store[Projectile]
	Stations    *ecs.Store[Station]

	Teams   map[string]*Team
	Players map[string]*Player

	Events *event.Queue
	Grid   *Grid

	// Seed is the world seed; spawn placement and combat streams derive
	// from it.
	Seed uint64

	Tick uint64
	Time float64

	destroyQueue []ecs.EntityID
}

func NewState(seed uint64, gridCellSize float64) *State {
	return &State{
		alloc:       ecs.NewAllocator(),
		Ships:       ecs.NewStore[Ship](),
		Projectiles: ecs.NewStore[Projectile](),
		Stations:    ecs.NewStore[Station](),
		Teams:       make(map[string]*Team),
		Players:     make(map[string]*Player),
		Events:      event.NewQueue(),
		Grid:        NewGrid(gridCellSize),
		Seed:        seed,
	}
}

// SpawnShip registers a compiled ship and returns its id.
func (s *State) SpawnShip(ship *Ship) ecs.EntityID {
	id := s.alloc.Allocate()
	ship.ID = id
	s.Ships.Set(id, ship)
	return id
}

// SpawnProjectile registers a projectile and returns its id.
func (s *State) SpawnProjectile(p *Projectile) ecs.EntityID {
	id := s.alloc.Allocate()
	p.ID = id
	s.Projectiles.Set(id, p)
	return id
}

// SpawnStation registers a station and returns its id.
func (s *State) SpawnStation(st *Station) ecs.EntityID {
	id := s.alloc.Allocate()
	st.ID = id
	if st.Docked == nil {
		st.Docked = make(map[ecs.EntityID]bool)
	}
	s.Stations.Set(id, st)
	return id
}

// Ship returns a live ship or nil for stale/unknown ids.
func (s *State) Ship(id ecs.EntityID) *Ship {
	if !s.alloc.Alive(id) {
		return nil
	}
	ship, _ := s.Ships.Get(id)
	return ship
}

// Projectile returns a live projectile or nil.
func (s *State) Projectile(id ecs.EntityID) *Projectile {
	if !s.alloc.Alive(id) {
		return nil
	}
	p, _ := s.Projectiles.Get(id)
	return p
}

// Station returns a live station or nil.
func (s *State) Station(id ecs.EntityID) *Station {
	if !s.alloc.Alive(id) {
		return nil
	}
	st, _ := s.Stations.Get(id)
	return st
}

// MarkForDespawn queues an entity for removal at the cleanup phase. Safe to
// call multiple times per entity.
func (s *State) MarkForDespawn(id ecs.EntityID) {
	s.destroyQueue = append(s.destroyQueue, id)
}

// FlushDespawns removes every queued entity. Called once per tick by the
// cleanup phase.
func (s *State) FlushDespawns() {
	for _, id := range s.destroyQueue {
		if !s.alloc.Alive(id) {
			continue
		}
		s.Ships.Remove(id)
		s.Projectiles.Remove(id)
		s.Stations.Remove(id)
		s.alloc.Release(id)
	}
	s.destroyQueue = s.destroyQueue[:0]
}

// PushEvent queues an event for the broadcaster.
func (s *State) PushEvent(ev event.Event) {
	s.Events.Push(ev)
}

// EntityFilter selects entities for a spatial query.
type EntityFilter func(id ecs.EntityID) bool

// Nearest returns entity ids within radius of pos that pass the filter,
// ordered by ascending distance, ties broken by id. Used by sensors; spawn
// placement uses IsFreeRegion and the collision broad-phase queries the grid
// directly.
func (s *State) Nearest(pos Vec3, radius float64, filter EntityFilter) []ecs.EntityID {
	type hit struct {
		id   ecs.EntityID
		dist float64
	}
	var hits []hit
	consider := func(id ecs.EntityID, p Vec3) {
		d := p.Sub(pos).Len()
		if d <= radius && (filter == nil || filter(id)) {
			hits = append(hits, hit{id: id, dist: d})
		}
	}
	s.Ships.Each(func(id ecs.EntityID, sh *Ship) { consider(id, sh.Position) })
	s.Stations.Each(func(id ecs.EntityID, st *Station) { consider(id, st.Position) })
	s.Projectiles.Each(func(id ecs.EntityID, p *Projectile) { consider(id, p.Position) })

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].dist != hits[j].dist {
			return hits[i].dist < hits[j].dist
		}
		return hits[i].id < hits[j].id
	})
	out := make([]ecs.EntityID, len(hits))
	for i, h := range hits {
		out[i] = h.id
	}
	return out
}

// IsFreeRegion reports whether a sphere around pos holds no ship or station.
func (s *State) IsFreeRegion(pos Vec3, radius float64) bool {
	free := true
	s.Ships.Each(func(_ ecs.EntityID, sh *Ship) {
		if sh.Position.Sub(pos).Len() < radius {
			free = false
		}
	})
	s.Stations.Each(func(_ ecs.EntityID, st *Station) {
		if st.Position.Sub(pos).Len() < radius+st.Size {
			free = false
		}
	})
	return free
}
