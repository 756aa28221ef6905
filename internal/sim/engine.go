package sim

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/hyperion/server/internal/catalog"
	"github.com/hyperion/server/internal/combat"
	"github.com/hyperion/server/internal/command"
	"github.com/hyperion/server/internal/core/ecs"
	"github.com/hyperion/server/internal/core/event"
	"github.com/hyperion/server/internal/core/rng"
	coresys "github.com/hyperion/server/internal/core/system"
	"github.com/hyperion/server/internal/scripting"
	"github.com/hyperion/server/internal/world"
)

// Engine owns the world and advances it in fixed timesteps. A tick is a pure
// state transition (state, intents) -> (state', events); wall-clock pacing is
// the caller's concern.
type Engine struct {
	World   *world.State
	Catalog *catalog.Catalog
	Mailbox *command.Mailbox
	Scripts *scripting.Engine
	Log     *zap.Logger

	Params combat.Params
	Tun    catalog.Tunables

	// combatRNG feeds accuracy and interception rolls. It is a separate
	// sub-stream of the world seed so per-tick randomness never perturbs
	// procedural generation.
	combatRNG *rng.Stream

	runner *coresys.Runner
	dt     float64

	// shipForces accumulates forces across the force phases of one tick;
	// the integration phase consumes and clears it.
	shipForces map[ecs.EntityID]world.Vec3

	// pausedNow tells the intent intake to drain only read-only commands.
	pausedNow bool
}

// NewEngine wires all simulation systems in phase order.
func NewEngine(ws *world.State, cat *catalog.Catalog, mailbox *command.Mailbox,
	scripts *scripting.Engine, log *zap.Logger) *Engine {

	e := &Engine{
		World:      ws,
		Catalog:    cat,
		Mailbox:    mailbox,
		Scripts:    scripts,
		Log:        log,
		Params:     cat.Tunables.CombatParams(),
		Tun:        cat.Tunables,
		combatRNG:  rng.NewStream(ws.Seed, "combat"),
		runner:     coresys.NewRunner(),
		dt:         cat.Tunables.Timestep,
		shipForces: make(map[ecs.EntityID]world.Vec3),
	}

	e.runner.Register(&IntentSystem{e: e})
	e.runner.Register(&EngineForceSystem{e: e})
	e.runner.Register(&DragSystem{e: e})
	e.runner.Register(&IntegrationSystem{e: e})
	e.runner.Register(&CooldownSystem{e: e})
	e.runner.Register(&FiringSystem{e: e})
	e.runner.Register(&ProjectileSystem{e: e})
	e.runner.Register(&CollisionSystem{e: e})
	e.runner.Register(&BeamSystem{e: e})
	e.runner.Register(&CountermeasureSystem{e: e})
	e.runner.Register(&ShipSystemsSystem{e: e})
	e.runner.Register(&ShieldRegenSystem{e: e})
	e.runner.Register(&EffectDecaySystem{e: e})
	e.runner.Register(&FTLSystem{e: e})
	e.runner.Register(&SensorSystem{e: e})
	e.runner.Register(&DockingSystem{e: e})
	e.runner.Register(&CleanupSystem{e: e})
	return e
}

// Dt returns the fixed timestep in seconds.
func (e *Engine) Dt() float64 { return e.dt }

// RunTick advances the simulation by exactly one tick.
func (e *Engine) RunTick() {
	e.World.Tick++
	e.World.Events.BeginTick(e.World.Tick)
	e.runner.Tick(e.dt)
	e.World.Time += e.dt
}

// Run loops RunTick until stop closes. Stop is honored at tick boundaries,
// never mid-phase. While paused, only the intent intake runs so read-only
// commands keep draining; simulation time does not advance.
func (e *Engine) Run(stop <-chan struct{}, paused *atomic.Bool) {
	for {
		select {
		case <-stop:
			return
		default:
		}
		if paused != nil && paused.Load() {
			e.pausedNow = true
			e.runner.TickPhases(e.dt, func(p coresys.Phase) bool {
				return p == coresys.PhaseIntentIntake
			})
			e.pausedNow = false
			time.Sleep(16 * time.Millisecond)
			continue
		}
		e.RunTick()
	}
}

func (e *Engine) emit(ev event.Event) {
	e.World.PushEvent(ev)
}

func (e *Engine) reject(ship ecs.EntityID, intentName string, reason event.RejectReason) {
	e.emit(event.IntentRejected{ShipID: ship, Intent: intentName, Reason: reason})
}

// roll draws from the combat stream.
func (e *Engine) roll() float64 {
	return e.combatRNG.Float64()
}

// CombatStreamPos exposes the combat stream position for snapshots.
func (e *Engine) CombatStreamPos() uint64 { return e.combatRNG.Pos() }

// ResumeCombatStream restores the combat stream after a snapshot restore.
func (e *Engine) ResumeCombatStream(pos uint64) { e.combatRNG.Resume(pos) }

// applyImpact resolves one damage application against a ship: tag algebra,
// shield absorption, hull subtraction, status effects, and the DamageTaken
// event. Ships whose hull reaches zero are flagged; the cleanup phase
// despawns them and emits ShipDestroyed.
func (e *Engine) applyImpact(target *world.Ship, source ecs.EntityID, imp combat.Impact) combat.Result {
	res := combat.Resolve(e.Params, imp, combat.TargetState{
		Shields:     target.Shields,
		ArmorRating: target.ArmorRating,
	}, e.roll)

	if res.ShieldPortion > 0 {
		target.Shields -= res.ShieldPortion
		if target.Shields < 0 {
			target.Shields = 0
		}
		e.emit(event.ShieldChanged{
			ShipID: target.ID, Raised: target.ShieldsRaised,
			Current: target.Shields, Max: target.MaxShields,
		})
	}
	if res.HullPortion > 0 {
		target.Hull -= res.HullPortion
		if target.Hull < 0 {
			target.Hull = 0
		}
	}
	if res.HullPortion > 0 || res.ShieldPortion > 0 {
		target.LastDamageTick = e.World.Tick
	}

	for _, eff := range res.Effects {
		applied := target.ApplyEffect(world.StatusEffect{
			Kind:      eff.Kind,
			Remaining: eff.Duration,
			Intensity: eff.Intensity,
			SourceTag: eff.SourceTag,
		})
		if applied {
			e.emit(event.StatusEffectApplied{
				ShipID: target.ID, Effect: string(eff.Kind),
				Duration: eff.Duration, Intensity: eff.Intensity,
			})
		}
		// Ion suppression clears existing target locks.
		if eff.Kind == combat.EffectIon {
			for i := range target.Modules {
				if w := target.Modules[i].Weapon; w != nil {
					w.TargetID = 0
				}
			}
		}
	}

	e.emit(event.DamageTaken{
		ShipID:        target.ID,
		SourceID:      source,
		HullPortion:   res.HullPortion,
		ShieldPortion: res.ShieldPortion,
		Tags:          imp.Tags.Names(),
	})

	if target.Hull <= 0 && !target.Destroyed {
		target.Destroyed = true
		target.DestroyedBy = source
		e.World.MarkForDespawn(target.ID)
	}
	return res
}
