package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hearthsim/hearth-server-go/internal/auth"
	"github.com/hearthsim/hearth-server-go/internal/config"
	"github.com/hearthsim/hearth-server-go/internal/game"
	"github.com/hearthsim/hearth-server-go/internal/game/scripts"
	"github.com/hearthsim/hearth-server-go/internal/repository"
	"github.com/hearthsim/hearth-server-go/internal/server"
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

	logger.Info("starting hearth server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	registry, hooks, err := scripts.Load()
	if err != nil {
		logger.Fatal("failed to load built-in card set", zap.Error(err))
	}
	if cfg.Cards.SetDir != "" {
		if err := registry.LoadDir(cfg.Cards.SetDir); err != nil {
			logger.Fatal("failed to load card set dir",
				zap.String("dir", cfg.Cards.SetDir),
				zap.Error(err),
			)
		}
	}
	logger.Info("card catalogue loaded", zap.Int("cards", registry.Len()))

	var matches *repository.MatchStore
	if cfg.Database.URL != "" {
		db, err := repository.NewDB(ctx, cfg.Database.URL, cfg.Database.MaxConns, logger)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		stats := db.Stats()
		logger.Info("database connection pool initialized",
			zap.Int32("total_conns", stats.TotalConns()),
			zap.Int32("idle_conns", stats.IdleConns()),
		)

		matches = repository.NewMatchStore(db)
		if err := matches.Init(ctx); err != nil {
			logger.Fatal("failed to initialize match store", zap.Error(err))
		}
	} else {
		logger.Warn("database url not configured; match results will not be persisted")
	}

	engine := game.NewEngine(logger, registry, hooks)
	if matches != nil {
		engine.SetOnComplete(func(s game.Summary) {
			err := matches.RecordMatch(ctx, repository.MatchResult{
				GameID:     s.GameID,
				Player1:    s.Player1,
				Player2:    s.Player2,
				WinnerName: s.WinnerName,
				Turns:      s.Turns,
				Duration:   s.FinishedAt.Sub(s.StartedAt),
				FinishedAt: s.FinishedAt,
			})
			if err != nil {
				logger.Error("failed to record match", zap.String("game_id", s.GameID), zap.Error(err))
			}
		})
	}
	credentials := auth.NewStore()
	hub := server.NewHub(engine, credentials, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: mux,
	}

	go func() {
		logger.Info("listening", zap.String("addr", cfg.Server.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-sigChan
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}

func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}

	var zcfg zap.Config
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}
