package system

import "sort"

// Runner executes registered systems in phase order each tick. Registration
// order breaks ties within a phase, so two systems sharing a phase run in the
// order they were wired.
type Runner struct {
	systems []entry
	sorted  bool
}

type entry struct {
	sys System
	seq int
}

func NewRunner() *Runner {
	return &Runner{
		systems: make([]entry, 0, 24),
	}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, entry{sys: s, seq: len(r.systems)})
	r.sorted = false
}

// Tick runs every system once, in phase order.
func (r *Runner) Tick(dt float64) {
	r.ensureSorted()
	for _, e := range r.systems {
		e.sys.Update(dt)
	}
}

// TickPhases runs only the systems whose phase satisfies keep. Used by the
// paused loop, which still drains read-only intents.
func (r *Runner) TickPhases(dt float64, keep func(Phase) bool) {
	r.ensureSorted()
	for _, e := range r.systems {
		if keep(e.sys.Phase()) {
			e.sys.Update(dt)
		}
	}
}

func (r *Runner) ensureSorted() {
	if r.sorted {
		return
	}
	sort.SliceStable(r.systems, func(i, j int) bool {
		if r.systems[i].sys.Phase() != r.systems[j].sys.Phase() {
			return r.systems[i].sys.Phase() < r.systems[j].sys.Phase()
		}
		return r.systems[i].seq < r.systems[j].seq
	})
	r.sorted = true
}
