package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/openspell/sim/internal/action"
	"github.com/openspell/sim/internal/boot"
	"github.com/openspell/sim/internal/catalog"
	"github.com/openspell/sim/internal/config"
	"github.com/openspell/sim/internal/core/event"
	coresys "github.com/openspell/sim/internal/core/system"
	"github.com/openspell/sim/internal/delay"
	"github.com/openspell/sim/internal/model"
	"github.com/openspell/sim/internal/movement"
	gonet "github.com/openspell/sim/internal/net"
	"github.com/openspell/sim/internal/persist"
	"github.com/openspell/sim/internal/scripting"
	"github.com/openspell/sim/internal/spatial"
	"github.com/openspell/sim/internal/targeting"
	"github.com/openspell/sim/internal/wilderness"
	"github.com/openspell/sim/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string, serverID int) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m           openspell sim  v0.1.0            \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m     tile-based MMO simulation core          \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mserver:\033[0m %s \033[90m(id: %d)\033[0m\n\n", serverName, serverID)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

// ── Main server logic ─────────────────────────────────────────────

func run() error {
	cfgPath := "config/server.toml"
	if p := os.Getenv("OPENSPELL_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name, cfg.Server.ID)

	printSection("database")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := persist.NewDB(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()
	printOK("postgres connected")

	if err := persist.RunMigrations(ctx, db.Pool); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	printOK("migrations applied")
	fmt.Println()

	playerStore := persist.NewCharacterRepo(db)

	// Content catalogs
	printSection("content catalogs")
	assets := cfg.Sim.StaticAssetsPath

	itemCatalog, err := catalog.LoadItemCatalog(filepath.Join(assets, "items.yaml"))
	if err != nil {
		return fmt.Errorf("load item catalog: %w", err)
	}
	printStat("items", itemCatalog.Count())

	npcCatalog, err := catalog.LoadNPCCatalog(filepath.Join(assets, "npcs.yaml"))
	if err != nil {
		return fmt.Errorf("load npc catalog: %w", err)
	}
	printStat("npc templates", npcCatalog.Count())

	worldEntityCatalog, err := catalog.LoadWorldEntityCatalog(filepath.Join(assets, "world_entities.yaml"))
	if err != nil {
		return fmt.Errorf("load world entity catalog: %w", err)
	}
	printStat("world entities", worldEntityCatalog.Count())

	lootTable, err := catalog.LoadLootTable(filepath.Join(assets, "loot.yaml"))
	if err != nil {
		return fmt.Errorf("load loot table: %w", err)
	}
	printStat("loot entries", lootTable.Count())

	spellCatalog, err := catalog.LoadSpellCatalog(filepath.Join(assets, "spells.yaml"))
	if err != nil {
		return fmt.Errorf("load spell catalog: %w", err)
	}
	printStat("spells", spellCatalog.Count())

	npcSkillCatalog, err := catalog.LoadNPCSkillCatalog(filepath.Join(assets, "mob_skills.yaml"))
	if err != nil {
		return fmt.Errorf("load npc skill catalog: %w", err)
	}
	printStat("npc skill sets", npcSkillCatalog.Count())

	mapCatalog, err := catalog.LoadMapCatalog([]catalog.MapLevelSource{
		{Level: model.Overworld, TileDir: filepath.Join(assets, "maps"), MapID: 0, Width: 1024, Height: 1024},
		{Level: model.Sky, TileDir: filepath.Join(assets, "maps"), MapID: 1, Width: 1024, Height: 1024},
		{Level: model.Underground, TileDir: filepath.Join(assets, "maps"), MapID: 2, Width: 1024, Height: 1024},
	})
	if err != nil {
		return fmt.Errorf("load map catalog: %w", err)
	}
	printOK("map grids loaded")

	bus := event.NewBus()
	state := world.NewState(bus)

	overrideActionCatalog, err := catalog.LoadOverrideActionCatalog(filepath.Join(assets, "override_actions.yaml"), state)
	if err != nil {
		return fmt.Errorf("load override action catalog: %w", err)
	}
	printStat("override actions", overrideActionCatalog.Count())
	fmt.Println()

	// Spatial index / visibility
	grid := spatial.NewGrid()
	viewers := spatial.NewViewerState()
	packetSink := boot.NewSessionSink(log)
	visibility := spatial.NewVisibilitySystem(grid, viewers, state, packetSink, bus, log)

	// Targeting / aggro / follow
	targetingSvc := targeting.NewService(state, bus)
	aggroSys := targeting.NewAggroSystem(state, targetingSvc, grid, npcCatalog, log)

	// Movement / pathfinding
	weights := boot.NewWeights(&boot.ItemWeightLookup{Weight: func(id int32) int32 {
		if def := itemCatalog.Get(id); def != nil {
			return def.Weight
		}
		return 0
	}})
	movementSys := movement.NewMovementSystem(state, bus, weights, log)
	pathfindingSys := movement.NewPathfindingSystem(state, mapCatalog, log)

	wildernessSvc := wilderness.NewService(nil, cfg.Sim.WildernessLevelAllowance)
	externalServices := boot.NewExternalServices(log)
	followSys := targeting.NewFollowSystem(state, targetingSvc, mapCatalog, wildernessSvc, externalServices, movementSys, log)

	// Delay / action dispatch
	delaySys := delay.NewSystem(state)
	inventories := boot.NewInventories(itemCatalog.Stackable)
	groundItemPolicy := boot.NewGroundItemPolicy()

	scriptEngine, err := scripting.NewEngine(filepath.Join(assets, "scripts"), log)
	if err != nil {
		return fmt.Errorf("load scripting engine: %w", err)
	}
	defer scriptEngine.Close()
	resourceResolver := action.NewResourceResolver(
		scriptEngine, lootTable, worldEntityCatalog,
		cfg.Sim.SearchDelayTicks, cfg.Sim.PicklockDelayTicks,
	)

	dispatcher := action.NewDispatcher(
		state, targetingSvc, delaySys, pathfindingSys, mapCatalog,
		externalServices, groundItemPolicy, inventories, wildernessSvc,
		overrideActionCatalog, resourceResolver, log,
	)
	pendingEnvSys := action.NewPendingEnvironmentSystem(dispatcher)

	dispatchSys := event.NewDispatchSystem(bus)

	runner := coresys.NewRunner()
	runner.Register(dispatcher)
	runner.Register(delaySys)
	runner.Register(aggroSys)
	runner.Register(pathfindingSys.PlayerPhase())
	runner.Register(movementSys.PlayerPhase())
	runner.Register(followSys)
	runner.Register(pathfindingSys.NPCPhase())
	runner.Register(movementSys.NPCPhase())
	runner.Register(pendingEnvSys)
	runner.Register(visibility)
	runner.Register(dispatchSys)

	// Networking
	netServer, err := gonet.NewServer(cfg.Network.BindAddress, cfg.Network.InQueueSize, cfg.Network.OutQueueSize, log)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	go netServer.AcceptLoop()

	conns := newConnectionRegistry()

	tickDur := time.Duration(cfg.Sim.TickMS) * time.Millisecond
	if tickDur <= 0 {
		tickDur = cfg.Network.TickRate
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(tickDur)
	defer ticker.Stop()

	printSection("ready")
	printReady(fmt.Sprintf("listening on %s", netServer.Addr().String()))
	printReady(fmt.Sprintf("tick rate %s", tickDur))
	fmt.Println()

	for {
		select {
		case sess := <-netServer.NewSessions():
			conns.track(sess)

		case sessID := <-netServer.DeadSessions():
			if ref, ok := conns.untrack(sessID); ok {
				packetSink.Unbind(ref)
				if p, ok := state.Player(ref); ok {
					saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					if err := playerStore.Save(saveCtx, p); err != nil {
						log.Warn("save on disconnect failed", zap.Error(err), zap.Int64("user_id", p.UserID))
					}
					cancel()
				}
				dispatcher.Submit(action.Intent{Kind: action.IntentLogout, Actor: ref})
			}

		case <-ticker.C:
			drainInbound(conns, state, playerStore, packetSink, dispatcher, log)
			runner.Tick(tickDur)
			state.FlushDestroyed()

		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			saveAllPlayers(state, playerStore, log)
			netServer.Shutdown()
			log.Info("server stopped")
			return nil
		}
	}
}

// ── Connection <-> player-ref bookkeeping ──────────────────────────

// connectionRegistry tracks the live net.Session for every connected
// socket and, once login completes, the player ref bound to it. Kept
// here rather than in internal/boot since it also owns session
// lifecycle (track/untrack), not just packet delivery.
type connectionRegistry struct {
	mu       sync.Mutex
	sessions map[uint64]*gonet.Session
	players  map[uint64]model.EntityRef
}

func newConnectionRegistry() *connectionRegistry {
	return &connectionRegistry{
		sessions: make(map[uint64]*gonet.Session),
		players:  make(map[uint64]model.EntityRef),
	}
}

func (c *connectionRegistry) track(sess *gonet.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[sess.ID] = sess
}

func (c *connectionRegistry) untrack(id uint64) (model.EntityRef, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ref, ok := c.players[id]
	delete(c.sessions, id)
	delete(c.players, id)
	return ref, ok
}

func (c *connectionRegistry) bind(id uint64, ref model.EntityRef) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.players[id] = ref
}

func (c *connectionRegistry) playerOf(id uint64) (model.EntityRef, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ref, ok := c.players[id]
	return ref, ok
}

func (c *connectionRegistry) each(fn func(id uint64, sess *gonet.Session)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, sess := range c.sessions {
		fn(id, sess)
	}
}

// wireIntent is the JSON-over-framing stand-in for spec §6's inbound
// ClientIntent decoding: the real wire codec is an out-of-scope
// collaborator (§1/§6), so this is just enough structure to drive the
// dispatcher's gate chain and exercise the tick loop end to end.
type wireIntent struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Kind     int    `json:"kind"`
	TargetX  int32  `json:"target_x"`
	TargetY  int32  `json:"target_y"`
	Level    int    `json:"level"`
	Message  string `json:"message"`
	ItemVerb string `json:"item_verb"`
}

// drainInbound pulls every buffered frame off every tracked session's
// InQueue and turns it into either a login (first frame: load-or-create
// the PlayerState, spawn it, bind the session) or a submitted Intent.
func drainInbound(conns *connectionRegistry, state *world.State, store *persist.CharacterRepo, sink *boot.SessionSink, dispatcher *action.Dispatcher, log *zap.Logger) {
	conns.each(func(id uint64, sess *gonet.Session) {
		for {
			select {
			case frame := <-sess.InQueue:
				handleFrame(id, sess, frame, conns, state, store, sink, dispatcher, log)
			default:
				return
			}
		}
	})
}

func handleFrame(sessID uint64, sess *gonet.Session, frame []byte, conns *connectionRegistry, state *world.State, store *persist.CharacterRepo, sink *boot.SessionSink, dispatcher *action.Dispatcher, log *zap.Logger) {
	var wi wireIntent
	if err := json.Unmarshal(frame, &wi); err != nil {
		log.Debug("dropping malformed inbound frame", zap.Uint64("session", sessID), zap.Error(err))
		return
	}

	ref, ok := conns.playerOf(sessID)
	if !ok {
		ref, ok = loginPlayer(sessID, sess, wi, conns, state, store, sink, log)
		if !ok {
			return
		}
	}

	i := action.Intent{Actor: ref, UserID: wi.UserID}
	switch wi.Kind {
	case 0:
		i.Kind = action.IntentSendMovementPath
		i.Path = []model.Position{{Level: model.MapLevel(wi.Level), X: wi.TargetX, Y: wi.TargetY}}
	case 1:
		i.Kind = action.IntentPerformActionOnEntity
	case 2:
		i.Kind = action.IntentInvokeInventoryItemAction
		i.ItemVerb = wi.ItemVerb
	case 3:
		i.Kind = action.IntentPublicMessage
		i.Message = wi.Message
	case 4:
		i.Kind = action.IntentLogout
	default:
		return
	}
	dispatcher.Submit(i)
}

func loginPlayer(sessID uint64, sess *gonet.Session, wi wireIntent, conns *connectionRegistry, state *world.State, store *persist.CharacterRepo, sink *boot.SessionSink, log *zap.Logger) (model.EntityRef, bool) {
	if wi.UserID == 0 {
		return model.EntityRef{}, false
	}
	loadCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	p, err := store.Load(loadCtx, wi.UserID)
	cancel()
	if err != nil {
		log.Warn("player load failed", zap.Error(err), zap.Int64("user_id", wi.UserID))
		return model.EntityRef{}, false
	}
	if p == nil {
		p = world.NewPlayerState(wi.UserID, wi.Username, 40)
	}

	ref := state.SpawnPlayer(p)
	conns.bind(sessID, ref)
	sink.Bind(ref, sess)
	return ref, true
}

func saveAllPlayers(state *world.State, store *persist.CharacterRepo, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	state.EachPlayer(func(ref model.EntityRef, p *world.PlayerState) {
		if err := store.Save(ctx, p); err != nil {
			log.Warn("save on shutdown failed", zap.Error(err), zap.Int64("user_id", p.UserID))
		}
	})
}
