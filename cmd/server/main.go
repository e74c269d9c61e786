package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbang/bang-server-go/internal/config"
	"github.com/kbang/bang-server-go/internal/game"
	"github.com/kbang/bang-server-go/internal/repository"
	"github.com/kbang/bang-server-go/internal/server"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting bang server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	opts := game.Options{
		MinPlayers: cfg.Rules.MinPlayers,
		MaxPlayers: cfg.Rules.MaxPlayers,
		BaseLife:   cfg.Rules.BaseLife,
	}
	manager := game.NewManager(cfg.Server.Name, version, opts, logger)
	manager.SetMaxGames(cfg.Server.MaxGames)
	logger.Info("game manager initialized",
		zap.Int("min_players", opts.MinPlayers),
		zap.Int("max_players", opts.MaxPlayers),
	)

	// The archive is optional: an empty DSN runs the server without
	// persistence.
	if cfg.Database.DSN != "" {
		db, dbErr := repository.NewDB(ctx, cfg.Database, logger)
		if dbErr != nil {
			logger.Fatal("failed to connect to database", zap.Error(dbErr))
		}
		defer db.Close()

		gameRepo := repository.NewGameRepository(db)
		if schemaErr := gameRepo.EnsureSchema(ctx); schemaErr != nil {
			logger.Fatal("failed to ensure schema", zap.Error(schemaErr))
		}
		manager.SetOnGameFinished(func(g *game.Game) {
			archiveGame(ctx, gameRepo, g, logger)
		})
		logger.Info("game archive initialized")
	}

	gateway := server.NewGateway(cfg.Server.Address, manager, logger)
	go func() {
		if serveErr := gateway.ListenAndServe(); serveErr != nil {
			logger.Error("gateway error", zap.Error(serveErr))
		}
	}()

	logger.Info("bang server initialized",
		zap.String("version", version),
		zap.String("address", cfg.Server.Address),
		zap.Int("max_games", cfg.Server.MaxGames),
	)

	sig := <-sigChan
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	logger.Info("shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := gateway.Shutdown(shutdownCtx); err != nil {
		logger.Error("gateway shutdown error", zap.Error(err))
	}

	logger.Info("bang server stopped")
}

func archiveGame(ctx context.Context, repo *repository.GameRepository, g *game.Game, logger *zap.Logger) {
	view := g.PublicView()
	rec := repository.GameRecord{
		GameID:     view.GameID,
		Name:       view.Name,
		Winners:    view.Winners,
		Players:    len(view.Players),
		Messages:   len(g.History(game.NoOwner)),
		StartedAt:  view.StartedAt,
		FinishedAt: view.FinishedAt,
	}
	if err := repo.RecordResult(ctx, rec); err != nil {
		logger.Error("failed to archive game",
			zap.String("game_id", rec.GameID),
			zap.Error(err),
		)
		return
	}
	logger.Info("game archived",
		zap.String("game_id", rec.GameID),
		zap.String("winners", rec.Winners),
	)
}

// initLogger initializes the zap logger based on configuration
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

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
