package world

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/hyperion/server/internal/core/ecs"
)

// snapshotV1 is the wire form of a world snapshot. The encoding is
// implementation-defined but stable within a build; a checksum over the
// payload catches truncated or corrupted blobs before restore touches state.
type snapshotV1 struct {
	Seed uint64
	Tick uint64
	Time float64

	Allocator ecs.Allocator

	ShipIDs  []ecs.EntityID
	Ships    []Ship
	ProjIDs  []ecs.EntityID
	Projs    []Projectile
	StatIDs  []ecs.EntityID
	Stations []Station

	Teams   map[string]*Team
	Players map[string]*Player
}

// Snapshot serializes the complete observable world state.
func (s *State) Snapshot() ([]byte, error) {
	snap := snapshotV1{
		Seed:      s.Seed,
		Tick:      s.Tick,
		Time:      s.Time,
		Allocator: *s.alloc,
		Teams:     s.Teams,
		Players:   s.Players,
	}
	s.Ships.Each(func(id ecs.EntityID, sh *Ship) {
		snap.ShipIDs = append(snap.ShipIDs, id)
		snap.Ships = append(snap.Ships, *sh)
	})
	s.Projectiles.Each(func(id ecs.EntityID, p *Projectile) {
		snap.ProjIDs = append(snap.ProjIDs, id)
		snap.Projs = append(snap.Projs, *p)
	})
	s.Stations.Each(func(id ecs.EntityID, st *Station) {
		snap.StatIDs = append(snap.StatIDs, id)
		snap.Stations = append(snap.Stations, *st)
	})

	var payload bytes.Buffer
	if err := gob.NewEncoder(&payload).Encode(&snap); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	sum := blake2b.Sum256(payload.Bytes())
	out := make([]byte, 0, len(sum)+payload.Len())
	out = append(out, sum[:]...)
	out = append(out, payload.Bytes()...)
	return out, nil
}

// Restore rebuilds a world from a snapshot blob. gridCellSize must match the
// catalog the snapshot was taken under.
func Restore(data []byte, gridCellSize float64) (*State, error) {
	if len(data) < blake2b.Size256 {
		return nil, fmt.Errorf("snapshot too short: %d bytes", len(data))
	}
	var want [blake2b.Size256]byte
	copy(want[:], data[:blake2b.Size256])
	payload := data[blake2b.Size256:]
	if blake2b.Sum256(payload) != want {
		return nil, fmt.Errorf("snapshot checksum mismatch")
	}

	var snap snapshotV1
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	s := NewState(snap.Seed, gridCellSize)
	s.Tick = snap.Tick
	s.Time = snap.Time
	*s.alloc = snap.Allocator
	if snap.Teams != nil {
		s.Teams = snap.Teams
	}
	if snap.Players != nil {
		s.Players = snap.Players
	}
	for i, id := range snap.ShipIDs {
		ship := snap.Ships[i]
		s.Ships.Set(id, &ship)
	}
	for i, id := range snap.ProjIDs {
		p := snap.Projs[i]
		s.Projectiles.Set(id, &p)
	}
	for i, id := range snap.StatIDs {
		st := snap.Stations[i]
		s.Stations.Set(id, &st)
	}
	return s, nil
}
