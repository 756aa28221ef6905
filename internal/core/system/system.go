package system

// Phase fixes the execution order of the simulation systems within a tick.
// No phase observes mutations of a later phase in the same tick.
type Phase int

const (
	PhaseIntentIntake Phase = iota // drain command intents into entity state
	PhaseEngineForces              // impulse engine thrust
	PhaseDrag                      // velocity-proportional drag
	PhaseIntegration               // F=ma, position update, clamps
	PhaseCooldown                  // weapon cooldown decay
	PhaseFiring                    // weapon firing, projectile spawn
	PhaseProjectiles               // projectile advance, guidance, lifetime
	PhaseCollision                 // impacts, blast damage
	PhaseBeams                     // continuous beam damage
	PhaseCountermeasures           // point defense, chaff, radial pulses
	PhaseShipSystems               // power budget, heat, overheat damage
	PhaseShieldRegen               // shield recharge
	PhaseEffectDecay               // status effect expiry
	PhaseFTL                       // warp/jump state machines
	PhaseSensing                   // contact refresh
	PhaseDocking                   // docking state machines
	PhaseCleanup                   // deferred despawn, tick event
)

// System is implemented by every simulation system. dt is the fixed timestep
// in seconds.
type System interface {
	Phase() Phase
	Update(dt float64)
}
