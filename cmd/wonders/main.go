package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wondersgame/wonders-server-go/internal/config"
	"github.com/wondersgame/wonders-server-go/internal/game"
	"github.com/wondersgame/wonders-server-go/internal/game/catalog"
	"github.com/wondersgame/wonders-server-go/internal/repository"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	replayID   = flag.String("replay", "", "show the saved replay of a game ID and exit")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *replayID != "" {
		rr := game.NewReplayRecorder(logger, cfg.Replay.Directory)
		if err := showReplay(logger, rr, *replayID); err != nil {
			logger.Error("failed to show replay", zap.String("game_id", *replayID), zap.Error(err))
			logger.Sync()
			os.Exit(1)
		}
		return
	}

	logger.Info("starting wonders runner",
		zap.String("version", version),
		zap.String("config", *configPath),
		zap.Int("players", cfg.Game.Players),
		zap.Int("games", cfg.Game.Games),
		zap.String("policy", cfg.Game.Policy),
	)

	// Cancel the run on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := loadCatalog(cfg.Catalog)
	if err != nil {
		logger.Fatal("failed to load catalog", zap.Error(err))
	}
	logger.Info("catalog loaded",
		zap.Int("cards", len(cat.All())),
		zap.Int("wonders", len(cat.AllWonders())),
	)

	r := &runner{
		cfg:     cfg.Game,
		catalog: cat,
		logger:  logger,
	}

	if cfg.Replay.Enabled {
		r.recorder = game.NewReplayRecorder(logger, cfg.Replay.Directory)
		logger.Info("replay recording enabled", zap.String("directory", cfg.Replay.Directory))
	}

	if cfg.Database.Enabled() {
		db, err := repository.NewDB(ctx, cfg.Database, logger)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if err := db.Migrate(ctx); err != nil {
			logger.Fatal("failed to migrate database", zap.Error(err))
		}

		stats := db.Stats()
		logger.Info("database connection pool initialized",
			zap.Int32("total_conns", stats.TotalConns()),
			zap.Int32("idle_conns", stats.IdleConns()),
		)
		r.results = repository.NewResultRepository(db)
	}

	start := time.Now()
	if cfg.Tournament.Enabled {
		snap, err := r.playTournament(ctx, cfg.Tournament)
		logger.Info("tournament run complete",
			zap.String("tournament_id", snap.ID),
			zap.Int("rounds_played", snap.CurrentRound),
			zap.Duration("duration", time.Since(start)),
		)
		if err != nil {
			logger.Error("tournament stopped", zap.Error(err))
			logger.Sync()
			os.Exit(1)
		}
		return
	}

	summary, err := r.run(ctx)
	if err != nil {
		logger.Error("run stopped", zap.Int("games_played", summary.Games), zap.Error(err))
	}

	for name, wins := range summary.Wins {
		logger.Info("wins", zap.String("player", name), zap.Int("count", wins))
	}
	logger.Info("runner finished",
		zap.Int("games_played", summary.Games),
		zap.Duration("duration", time.Since(start)),
	)
	if err != nil {
		logger.Sync()
		os.Exit(1)
	}
}

func loadCatalog(cfg config.CatalogConfig) (*catalog.Catalog, error) {
	return catalog.LoadFiles(cfg.CardsPath, cfg.WondersPath)
}

func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapCfg.Development = cfg.Development

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
