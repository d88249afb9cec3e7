package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/l1jgo/objpool/internal/behavior"
	"github.com/l1jgo/objpool/internal/config"
	"github.com/l1jgo/objpool/internal/core/event"
	"github.com/l1jgo/objpool/internal/core/pool"
	coresys "github.com/l1jgo/objpool/internal/core/system"
	"github.com/l1jgo/objpool/internal/data"
	"github.com/l1jgo/objpool/internal/scripting"
	"github.com/l1jgo/objpool/internal/system"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

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

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main loop ─────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/objpool.toml"
	if p := os.Getenv("OBJPOOL_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Server.Name, cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	// 3. Pool, event bus, scripts
	printSection("Data")

	objects := pool.New(pool.WithCapacity(cfg.Pool.Capacity), pool.WithLogger(log.Named("pool")))
	bus := event.NewBus()

	spawns, err := data.LoadSpawnList(cfg.Data.SpawnList)
	if err != nil {
		return fmt.Errorf("load spawn list: %w", err)
	}
	printStat("spawn entries", len(spawns))

	luaEngine, err := scripting.NewEngine(cfg.Data.ScriptsDir, log.Named("lua"))
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer luaEngine.Close()
	luaEngine.BindPool(objects)

	event.Subscribe(bus, func(ev event.ObjectExpired) {
		log.Debug("object expired", zap.Uint64("id", uint64(ev.ID)), zap.String("kind", ev.Kind))
	})
	event.Subscribe(bus, func(ev event.PoolCompacted) {
		log.Info("pool compacted", zap.Int("live", ev.Live), zap.Int("reclaimed", ev.Reclaimed))
	})

	// 4. Systems
	factory := &behavior.Factory{Pool: objects, Bus: bus, Scripts: luaEngine}
	runner := coresys.NewRunner()
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(system.NewPoolUpdateSystem(objects))
	spawnSys, err := system.NewSpawnSystem(objects, bus, factory, spawns, log.Named("spawn"))
	if err != nil {
		return fmt.Errorf("spawn system: %w", err)
	}
	runner.Register(spawnSys)
	runner.Register(system.NewCompactSystem(objects, bus, cfg.Pool.CompactThreshold))
	printStat("systems", runner.Len())
	fmt.Println()

	// 5. Game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Loop.TickRate)
	defer ticker.Stop()

	printSection("Ready")
	printReady(fmt.Sprintf("%s loop started (tick: %s)", cfg.Server.Name, cfg.Loop.TickRate))
	fmt.Println()

	ticks := 0
	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Loop.TickRate)
			ticks++
			if ticks%25 == 0 {
				log.Info("pool status",
					zap.Int("tick", ticks),
					zap.Int("live", objects.Len()),
					zap.Int("slots", objects.Slots()))
			}
			if cfg.Loop.MaxTicks > 0 && ticks >= cfg.Loop.MaxTicks {
				log.Info("tick limit reached", zap.Int("ticks", ticks), zap.Int("live", objects.Len()))
				return nil
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			objects.Compact()
			log.Info("stopped", zap.Int("ticks", ticks), zap.Int("live", objects.Len()))
			return nil
		}
	}
}

// newLogger builds the process logger. Every entry carries the server name so
// logs from several pool daemons can share one sink.
func newLogger(server string, cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zapCfg := zap.NewDevelopmentConfig()
	switch cfg.Format {
	case "json":
		zapCfg = zap.NewProductionConfig()
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		zapCfg.Sampling = nil // keep every pool status line
	default:
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	if server != "" {
		zapCfg.InitialFields = map[string]any{"server": server}
	}

	return zapCfg.Build()
}
