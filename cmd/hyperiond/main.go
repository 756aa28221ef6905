package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hyperion/server/internal/blueprint"
	"github.com/hyperion/server/internal/catalog"
	"github.com/hyperion/server/internal/command"
	"github.com/hyperion/server/internal/config"
	"github.com/hyperion/server/internal/core/event"
	"github.com/hyperion/server/internal/core/rng"
	"github.com/hyperion/server/internal/gen"
	gonet "github.com/hyperion/server/internal/net"
	"github.com/hyperion/server/internal/persist"
	"github.com/hyperion/server/internal/scripting"
	"github.com/hyperion/server/internal/sim"
	"github.com/hyperion/server/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func printBanner(name string, id int) {
	fmt.Println()
	fmt.Println("  ┌───────────────────────────────────────────┐")
	fmt.Println("  │           HYPERION  v0.1.0                │")
	fmt.Println("  │      bridge simulation server             │")
	fmt.Println("  └───────────────────────────────────────────┘")
	fmt.Println()
	fmt.Printf("  server: %s (id: %d)\n\n", name, id)
}

func printStat(label string, count int) {
	fmt.Printf("  %-24s %d\n", label, count)
}

func printOK(msg string) {
	fmt.Printf("  ✓ %s\n", msg)
}

func run() error {
	// 1. Load config
	cfgPath := "config/server.toml"
	if p := os.Getenv("HYPERION_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name, cfg.Server.ID)

	// 3. Load and validate the catalog
	cat, err := catalog.Load(cfg.Paths.CatalogDir)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	classes, slots, variants, weapons, ammo := cat.Counts()
	printStat("ship classes", classes)
	printStat("module slots", slots)
	printStat("module variants", variants)
	printStat("weapons", weapons)
	printStat("ammunition", ammo)

	// 4. Lua balance scripts
	scripts, err := scripting.NewEngine(cfg.Paths.ScriptsDir, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer scripts.Close()
	printOK("balance scripts loaded")

	// 5. Optional snapshot store
	var snapRepo *persist.SnapshotRepo
	if cfg.Database.DSN != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			cancel()
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		if err := persist.RunMigrations(ctx, db.Pool); err != nil {
			cancel()
			return fmt.Errorf("migrations: %w", err)
		}
		cancel()
		snapRepo = persist.NewSnapshotRepo(db)
		printOK("snapshot store ready")
	}

	// 6. World state: restore from the latest snapshot, or generate fresh
	seed := cfg.Simulation.Seed
	var ws *world.State
	var restoredCombatPos uint64
	if snapRepo != nil && cfg.Simulation.RestoreOnBoot {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		snap, err := snapRepo.LoadLatest(ctx, seed)
		cancel()
		if err != nil {
			return fmt.Errorf("load snapshot: %w", err)
		}
		if snap != nil {
			ws, err = world.Restore(snap.Data, cat.Tunables.MaxCollisionDistance)
			if err != nil {
				return fmt.Errorf("restore snapshot: %w", err)
			}
			restoredCombatPos = snap.CombatPos
			printOK(fmt.Sprintf("world restored at tick %d", ws.Tick))
		}
	}
	if ws == nil {
		ws = world.NewState(seed, cat.Tunables.MaxCollisionDistance)
		universe := gen.Generate(seed, gen.Params{
			Name:     cfg.Simulation.UniverseName,
			Stars:    cfg.Simulation.Stars,
			Factions: cfg.Simulation.Factions,
		}, cat.Tunables.Generation)
		printStat("stars", len(universe.Galaxy.Stars))
		printStat("factions", len(universe.Factions))
		printStat("history events", len(universe.History))
		printStat("stations", spawnStations(ws, universe, cat))
	}

	// 7. Engine, mailbox, gateway
	mailbox := command.NewMailbox()
	engine := sim.NewEngine(ws, cat, mailbox, scripts, log)
	if restoredCombatPos > 0 {
		engine.ResumeCombatStream(restoredCombatPos)
	}
	compiler := blueprint.NewCompiler(cat, rng.NewStream(seed, "spawn"))
	gateway := gonet.NewGateway(mailbox, cfg.Network, log)
	httpServer := &http.Server{Addr: cfg.Network.BindAddress, Handler: gateway}
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("gateway stopped", zap.Error(err))
		}
	}()
	fmt.Println()
	printOK(fmt.Sprintf("listening on %s", cfg.Network.BindAddress))
	printOK(fmt.Sprintf("simulation loop started (dt: %.4fs)", engine.Dt()))
	fmt.Println()

	// 8. Game loop: fixed-rate ticks, event broadcast, periodic snapshots
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(time.Duration(float64(time.Second) * engine.Dt()))
	defer ticker.Stop()

	ticksSinceSnapshot := 0
	for {
		select {
		case bp := <-gateway.Blueprints():
			// Compile between ticks; the engine owns the world here.
			ship, report := compiler.Compile(&bp, ws)
			if !report.OK() {
				log.Info("blueprint rejected",
					zap.String("name", bp.Name), zap.Int("errors", len(report.Errors)))
				break
			}
			id := ws.SpawnShip(ship)
			ws.PushEvent(event.ShipSpawned{ShipID: id, ClassID: ship.ClassID, TeamID: ship.TeamID})
			log.Info("ship spawned",
				zap.String("name", ship.Name), zap.Uint64("id", uint64(id)))

		case <-ticker.C:
			engine.RunTick()
			gateway.Broadcast(ws.Events.Drain())

			ticksSinceSnapshot++
			if snapRepo != nil && cfg.Simulation.SnapshotInterval > 0 &&
				ticksSinceSnapshot >= cfg.Simulation.SnapshotInterval {
				ticksSinceSnapshot = 0
				saveSnapshot(ws, engine, snapRepo, log)
			}

		case sig := <-shutdownCh:
			log.Info("shutdown signal", zap.String("signal", sig.String()))
			if snapRepo != nil {
				saveSnapshot(ws, engine, snapRepo, log)
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			httpServer.Shutdown(ctx)
			cancel()
			log.Info("server stopped")
			return nil
		}
	}
}

// spawnStations places the generator's stations into the world near their
// home star.
func spawnStations(ws *world.State, u *gen.Universe, cat *catalog.Catalog) int {
	total := 0
	for _, sys := range u.Systems {
		for i, seedStation := range sys.Stations {
			// Offset stations around the star so they don't stack.
			offset := float64(i+1) * cat.Tunables.DockingRange * 4
			ws.SpawnStation(&world.Station{
				Name:            sys.Name + " " + seedStation.Name,
				Type:            seedStation.Type,
				Position:        world.Vec3{X: sys.Star.Position[0] + offset, Y: sys.Star.Position[1], Z: sys.Star.Position[2]},
				Size:            cat.Tunables.MinCollisionDistance * 4,
				DockingCapacity: 4,
				Services:        []string{"refuel", "repair"},
			})
			total++
		}
	}
	return total
}

func saveSnapshot(ws *world.State, engine *sim.Engine, repo *persist.SnapshotRepo, log *zap.Logger) {
	data, err := ws.Snapshot()
	if err != nil {
		log.Error("snapshot encode failed", zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := repo.Save(ctx, persist.Snapshot{
		Seed:      ws.Seed,
		Tick:      ws.Tick,
		CombatPos: engine.CombatStreamPos(),
		Data:      data,
	}); err != nil {
		log.Error("snapshot save failed", zap.Error(err))
		return
	}
	log.Info("snapshot saved", zap.Uint64("tick", ws.Tick), zap.Int("bytes", len(data)))
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zc := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
