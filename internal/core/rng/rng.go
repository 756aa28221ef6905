package rng

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// Stream is a counter-based deterministic random stream. Each world seed
// fans out into independent sub-streams keyed by label, so procedural
// generation and per-tick combat rolls never perturb each other.
//
// Every draw is a pure function of (seed, label, counter), which makes the
// stream trivially snapshotable: persisting the counter is enough to resume
// the sequence exactly.
type Stream struct {
	Key [32]byte
	Ctr uint64
}

// NewStream derives a sub-stream from a world seed and a stream label.
func NewStream(seed uint64, label string) *Stream {
	var seedBytes [8]byte
	binary.LittleEndian.PutUint64(seedBytes[:], seed)
	h, _ := blake2b.New256(nil)
	h.Write(seedBytes[:])
	h.Write([]byte(label))
	s := &Stream{}
	copy(s.Key[:], h.Sum(nil))
	return s
}

// Uint64 returns the next 64 random bits.
func (s *Stream) Uint64() uint64 {
	var ctr [8]byte
	binary.LittleEndian.PutUint64(ctr[:], s.Ctr)
	s.Ctr++
	h, _ := blake2b.New256(nil)
	h.Write(s.Key[:])
	h.Write(ctr[:])
	return binary.LittleEndian.Uint64(h.Sum(nil))
}

// Float64 returns a uniform value in [0, 1).
func (s *Stream) Float64() float64 {
	return float64(s.Uint64()>>11) / (1 << 53)
}

// Intn returns a uniform value in [0, n). n must be > 0.
func (s *Stream) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn with non-positive n")
	}
	return int(s.Uint64() % uint64(n))
}

// IntRange returns a uniform value in [lo, hi].
func (s *Stream) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.Intn(hi-lo+1)
}

// Range returns a uniform value in [lo, hi).
func (s *Stream) Range(lo, hi float64) float64 {
	return lo + s.Float64()*(hi-lo)
}

// Bool returns true with probability p.
func (s *Stream) Bool(p float64) bool {
	return s.Float64() < p
}

// Pos reports the draw counter for snapshots.
func (s *Stream) Pos() uint64 {
	return s.Ctr
}

// Resume restores a stream to a previously snapshotted counter position.
func (s *Stream) Resume(ctr uint64) {
	s.Ctr = ctr
}
