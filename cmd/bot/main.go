package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/StanGar30/freelance-bot-ai/internal/ai/gemini"
	"github.com/StanGar30/freelance-bot-ai/internal/browser"
	"github.com/StanGar30/freelance-bot-ai/internal/config"
	"github.com/StanGar30/freelance-bot-ai/internal/logger"
	"github.com/StanGar30/freelance-bot-ai/internal/relevance"
	"github.com/StanGar30/freelance-bot-ai/internal/scheduler"
	"github.com/StanGar30/freelance-bot-ai/internal/scraper"
	"github.com/StanGar30/freelance-bot-ai/internal/session"
	"github.com/StanGar30/freelance-bot-ai/internal/source"
	"github.com/StanGar30/freelance-bot-ai/internal/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting freelance bot",
		zap.String("log_level", cfg.LogLevel),
		zap.Int("allowed_users", len(cfg.AllowedUsers)),
	)

	registry := source.Default()
	if cfg.SourcesPath != "" {
		registry, err = source.LoadFile(cfg.SourcesPath)
		if err != nil {
			log.Fatal("failed to load sources catalog", zap.Error(err))
		}
	}
	log.Info("sources catalog ready", zap.Strings("sources", registry.Names()))

	runner, err := browser.NewRunner(log)
	if err != nil {
		log.Fatal("failed to start browser automation", zap.Error(err))
	}
	defer runner.Stop()

	oracle, err := gemini.New(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatal("failed to create gemini client", zap.Error(err))
	}
	log.Info("scoring oracle ready", zap.String("model", oracle.Model()))

	scorer := relevance.New(oracle, relevance.NewIntervalLimiter(relevance.ScoreInterval), log)
	manager := session.NewManager(registry, scraper.New(runner, log), scorer, log)

	sched := scheduler.New(manager.Start, log)
	sched.Run()
	defer sched.Stop()

	bot, err := telegram.New(cfg, manager, sched, oracle, registry, log)
	if err != nil {
		log.Fatal("failed to create telegram bot", zap.Error(err))
	}
	manager.SetNotifier(bot)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Info("received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	log.Info("bot is running")
	if err := bot.Run(ctx); err != nil {
		log.Error("bot stopped with error", zap.Error(err))
	}

	log.Info("bot stopped")
}
