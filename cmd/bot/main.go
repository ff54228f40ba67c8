package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fadedpez/blondie/internal/config"
	"github.com/fadedpez/blondie/internal/logging"
	"github.com/fadedpez/blondie/pkg/broadcast"
	"github.com/fadedpez/blondie/pkg/discord"
	"github.com/fadedpez/blondie/pkg/games"
	gamerepo "github.com/fadedpez/blondie/pkg/repositories/game"
	historyrepo "github.com/fadedpez/blondie/pkg/repositories/history"
	"github.com/fadedpez/blondie/pkg/scheduler"
	"github.com/fadedpez/blondie/pkg/services/statistics"
	"github.com/fadedpez/blondie/pkg/services/table"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("configuration error: " + err.Error() + "\n")
		os.Exit(1)
	}

	level := logging.INFO
	if cfg.IsDevelopment() {
		level = logging.DEBUG
	}
	logger := logging.NewLogger(level)

	gameRepo := openGameRepository(cfg, logger)
	defer gameRepo.Close()

	historyRepo := openHistoryRepository(cfg, logger)
	defer historyRepo.Close()

	relay := broadcast.NewRelay()

	opts := table.DefaultOptions()
	opts.BetweenHandsDelay = cfg.BetweenHandsDelay
	opts.IdleThreshold = cfg.IdleThreshold
	opts.ChipCheckPause = cfg.ChipCheckPause
	opts.TurnTimeout = cfg.TurnTimeout

	tables := table.NewService(gameRepo, historyRepo, games.DefaultRegistry(), relay, logger, opts)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tableScheduler := scheduler.NewTableScheduler(tables, logger, cfg.PollInterval)
	tableScheduler.Start(ctx)
	defer tableScheduler.Stop()

	if esRepo, ok := historyRepo.(*historyrepo.ElasticsearchRepository); ok {
		esScheduler := scheduler.NewElasticsearchMaintenanceScheduler(esRepo, logger)
		esScheduler.Start(ctx)
		defer esScheduler.Stop()
	}

	var bot *discord.Bot
	if cfg.DiscordEnabled() {
		stats := statistics.NewService(historyRepo)
		bot, err = discord.NewBot(cfg.Token, cfg.AppID, cfg.GuildID, tables, stats, logger)
		if err != nil {
			logger.Error("Failed to create Discord bot: %v", err)
			os.Exit(1)
		}
		relay.SetTarget(bot)
		if err := bot.Start(); err != nil {
			logger.Error("Failed to start Discord bot: %v", err)
			os.Exit(1)
		}
	} else {
		logger.Info("No DISCORD_TOKEN set, running headless")
	}

	logger.Info("Table engine running. Press Ctrl+C to exit")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down...")
	if bot != nil {
		if err := bot.Stop(); err != nil {
			logger.Warn("Error stopping Discord bot: %v", err)
		}
	}
}

// openGameRepository prefers SQLite and falls back to memory so a broken
// disk never keeps the engine from starting
func openGameRepository(cfg *config.Config, logger *logging.Logger) gamerepo.Repository {
	repo, err := gamerepo.NewSQLiteRepository(cfg.SQLitePath)
	if err != nil {
		logger.Warn("SQLite unavailable at %s, game state will not survive restarts: %v", cfg.SQLitePath, err)
		return gamerepo.NewMemoryRepository()
	}
	logger.Info("Game state stored at %s", cfg.SQLitePath)
	return repo
}

// openHistoryRepository layers the Elasticsearch archive over SQLite when
// configured; SQLite stays the source of truth either way
func openHistoryRepository(cfg *config.Config, logger *logging.Logger) historyrepo.Repository {
	var base historyrepo.Repository
	base, err := historyrepo.NewSQLiteRepository(cfg.SQLitePath)
	if err != nil {
		logger.Warn("SQLite unavailable for hand history, summaries will not survive restarts: %v", err)
		base = historyrepo.NewMemoryRepository()
	}

	if cfg.ElasticsearchURL == "" {
		return base
	}

	esCfg := historyrepo.DefaultElasticsearchConfig()
	esCfg.URL = cfg.ElasticsearchURL
	esCfg.Username = cfg.ElasticsearchUsername
	esCfg.Password = cfg.ElasticsearchPassword

	esRepo, err := historyrepo.NewElasticsearchRepository(base, esCfg)
	if err != nil {
		logger.Warn("Elasticsearch archive disabled: %v", err)
		return base
	}
	logger.Info("Hand histories archived to Elasticsearch at %s", cfg.ElasticsearchURL)
	return esRepo
}
