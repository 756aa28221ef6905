package net

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/hyperion/server/internal/blueprint"
	"github.com/hyperion/server/internal/command"
	"github.com/hyperion/server/internal/config"
	"github.com/hyperion/server/internal/core/ecs"
	"github.com/hyperion/server/internal/core/event"
)

// Gateway is the websocket edge of the server. It deposits decoded command
// intents into the engine mailbox and fans drained events out to every
// connected session. The simulation never blocks on it.
type Gateway struct {
	mailbox *command.Mailbox
	cfg     config.NetworkConfig
	log     *zap.Logger

	upgrader websocket.Upgrader
	nextID   atomic.Uint64

	// blueprints carries submitted ship blueprints to the game loop, which
	// compiles them between ticks.
	blueprints chan blueprint.ShipBlueprint

	mu       sync.Mutex
	sessions map[uint64]*Session
}

func NewGateway(mailbox *command.Mailbox, cfg config.NetworkConfig, log *zap.Logger) *Gateway {
	return &Gateway{
		mailbox:    mailbox,
		cfg:        cfg,
		log:        log,
		upgrader:   websocket.Upgrader{ReadBufferSize: 4096, WriteBufferSize: 4096},
		blueprints: make(chan blueprint.ShipBlueprint, 16),
		sessions:   make(map[uint64]*Session),
	}
}

// Blueprints is the stream of submitted blueprints awaiting compilation.
func (g *Gateway) Blueprints() <-chan blueprint.ShipBlueprint {
	return g.blueprints
}

// ServeHTTP upgrades a client connection and runs its read loop.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	id := g.nextID.Add(1)
	sess := newSession(id, conn, g.cfg.OutQueueSize, g.cfg.IntentsPerSecond, g.cfg.IntentBurst, g.log)

	g.mu.Lock()
	g.sessions[id] = sess
	g.mu.Unlock()
	g.log.Info("client connected", zap.Uint64("session", id))

	go sess.writePump()
	g.readPump(sess)
}

func (g *Gateway) readPump(sess *Session) {
	defer g.drop(sess)
	for {
		_, data, err := sess.conn.ReadMessage()
		if err != nil {
			return
		}
		if !sess.limiter.Allow() {
			continue // over rate, drop the command
		}
		if err := g.decodeIntent(data); err != nil {
			g.log.Debug("bad intent", zap.Uint64("session", sess.ID), zap.Error(err))
		}
	}
}

func (g *Gateway) drop(sess *Session) {
	sess.close()
	g.mu.Lock()
	delete(g.sessions, sess.ID)
	g.mu.Unlock()
	g.log.Info("client disconnected", zap.Uint64("session", sess.ID))
}

// wireIntent is the JSON shape of an inbound command.
type wireIntent struct {
	Type   string          `json:"type"`
	ShipID uint64          `json:"ship_id"`
	Data   json.RawMessage `json:"data"`
}

func (g *Gateway) decodeIntent(raw []byte) error {
	var w wireIntent
	if err := json.Unmarshal(raw, &w); err != nil {
		return err
	}
	if w.Type == "compile_blueprint" {
		var bp blueprint.ShipBlueprint
		if err := json.Unmarshal(w.Data, &bp); err != nil {
			return err
		}
		select {
		case g.blueprints <- bp:
		default:
			return fmt.Errorf("blueprint queue full")
		}
		return nil
	}
	in, err := unmarshalIntent(w.Type, w.Data)
	if err != nil {
		return err
	}
	g.mailbox.Deposit(ecs.EntityID(w.ShipID), in)
	return nil
}

// decodeAs unmarshals the data payload into a value intent. An absent
// payload yields the zero intent, which is valid for flag-like commands.
func decodeAs[T command.Intent](data json.RawMessage) (command.Intent, error) {
	var v T
	if len(data) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func unmarshalIntent(typ string, data json.RawMessage) (command.Intent, error) {
	switch typ {
	case "thrust":
		return decodeAs[command.ThrustIntent](data)
	case "rotate":
		return decodeAs[command.RotateIntent](data)
	case "full_stop":
		return command.FullStopIntent{}, nil
	case "engage_warp":
		return decodeAs[command.EngageWarpIntent](data)
	case "engage_jump":
		return decodeAs[command.EngageJumpIntent](data)
	case "disengage_ftl":
		return command.DisengageFtlIntent{}, nil
	case "dock_request":
		return decodeAs[command.DockRequestIntent](data)
	case "undock":
		return command.UndockIntent{}, nil
	case "target":
		return decodeAs[command.TargetIntent](data)
	case "fire":
		return decodeAs[command.FireIntent](data)
	case "auto_fire":
		return decodeAs[command.AutoFireIntent](data)
	case "configure_weapon":
		return decodeAs[command.ConfigureWeaponIntent](data)
	case "load_ammo":
		return decodeAs[command.LoadAmmoIntent](data)
	case "shield":
		return decodeAs[command.ShieldIntent](data)
	case "activate_countermeasure":
		return decodeAs[command.ActivateCountermeasureIntent](data)
	case "point_defense":
		return decodeAs[command.PointDefenseIntent](data)
	case "allocate_power":
		return decodeAs[command.AllocatePowerIntent](data)
	case "allocate_cooling":
		return decodeAs[command.AllocateCoolingIntent](data)
	case "repair":
		return decodeAs[command.RepairIntent](data)
	case "scan":
		return decodeAs[command.ScanIntent](data)
	case "analyze":
		return decodeAs[command.AnalyzeIntent](data)
	case "hail":
		return decodeAs[command.HailIntent](data)
	case "jam":
		return decodeAs[command.JamIntent](data)
	}
	return nil, fmt.Errorf("unknown intent type %q", typ)
}

// Broadcast fans a batch of drained events out to every session. Sessions
// whose buffers are full get dropped rather than stalling the loop.
func (g *Gateway) Broadcast(events []event.Envelope) {
	if len(events) == 0 {
		return
	}
	payload, err := json.Marshal(wireEvents(events))
	if err != nil {
		g.log.Error("marshal events", zap.Error(err))
		return
	}

	g.mu.Lock()
	var stale []*Session
	for _, sess := range g.sessions {
		if !sess.trySend(payload) {
			stale = append(stale, sess)
		}
	}
	for _, sess := range stale {
		delete(g.sessions, sess.ID)
	}
	g.mu.Unlock()

	for _, sess := range stale {
		g.log.Warn("dropping slow client", zap.Uint64("session", sess.ID))
		sess.close()
	}
}

// SessionCount reports connected clients.
func (g *Gateway) SessionCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.sessions)
}

type wireEvent struct {
	Tick  uint64      `json:"tick"`
	Kind  event.Kind  `json:"kind"`
	Event event.Event `json:"event"`
}

func wireEvents(events []event.Envelope) []wireEvent {
	out := make([]wireEvent, len(events))
	for i, env := range events {
		out[i] = wireEvent{Tick: env.Tick, Kind: env.Event.Kind(), Event: env.Event}
	}
	return out
}
