package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gatebot/internal/command"
	"gatebot/internal/config"
	"gatebot/internal/core"
	"gatebot/internal/discord"
	"gatebot/internal/lang"
	"gatebot/internal/logger"
	"gatebot/internal/stats"
	"gatebot/internal/storage"
	"gatebot/internal/version"
	"gatebot/pkg/jobmgr"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		logger.Error("configuration error", "error", err)
		os.Exit(1)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting", "app", version.AppName, "build", version.BuildDate)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := storage.New(cfg.StoragePath, storage.Defaults{
		Prefix:   cfg.DefaultPrefix,
		Language: cfg.DefaultLanguage,
	})
	if err != nil {
		logger.Error("open storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	sink, err := stats.Open(cfg.StatsPath)
	if err != nil {
		logger.Error("open stats database", "error", err)
		os.Exit(1)
	}
	defer sink.Close()

	ledger := core.NewLedger()
	evaluator := &core.Evaluator{Cooldowns: ledger}
	registry := core.NewRegistry()
	waiters := core.NewWaitPool(registry)

	command.RegisterAll(registry, command.Deps{
		Store:     store,
		Ledger:    ledger,
		Evaluator: evaluator,
		Totals:    sink,
	})

	jobs := jobmgr.NewManager(logger.L)
	_ = jobs.Start("stats-flusher", func(jctx context.Context) error {
		return sink.RunFlusher(jctx, time.Minute)
	})
	defer jobs.StopAll()

	errCh := make(chan error, 1)
	go func() {
		errCh <- discord.Run(ctx, discord.Deps{
			Config:    cfg,
			Store:     store,
			Registry:  registry,
			Evaluator: evaluator,
			Cooldowns: ledger,
			Waiters:   waiters,
			Stats:     sink,
			Render:    lang.Renderer{},
			Jobs:      jobs,
		})
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		logger.Info("received signal, shutting down", "signal", s.String())
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil {
			logger.Error("bot error", "error", err)
			cancel()
			os.Exit(1)
		}
	}

	logger.Info("exited cleanly")
}
