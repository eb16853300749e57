package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stocktrail/internal/alert"
	"stocktrail/internal/config"
	"stocktrail/internal/infra"
	"stocktrail/internal/repository"
	"stocktrail/internal/router"
	"stocktrail/internal/store"
	"stocktrail/internal/syncer"
	"stocktrail/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open local database")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Domain stores — hydrate from the local database before serving ──────
	activityStore := store.NewActivityStore(repository.NewActivityRepository(db), nil)
	activityStore.Hydrate(ctx)

	inventoryStore := store.NewInventoryStore(repository.NewItemRepository(db), activityStore)
	inventoryStore.Hydrate(ctx)

	// ── Notification pipeline — alerts are delivered async via the queue ────
	mailer := infra.NewMailer(cfg)
	dispatcher := worker.NewDispatcher(rdb)
	notifier := worker.NewQueueNotifier(dispatcher, rdb, mailer, cfg.AlertEmailTo)

	engine := alert.NewEngine(
		repository.NewAlertRepository(db),
		repository.NewSettingRepository(db),
		notifier,
		activityStore,
	)
	engine.Hydrate(ctx)

	handlers := map[string]worker.Handler{
		"notification": worker.NewNotifyWorker(mailer, rdb, cfg.AlertEmailTo),
	}
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, handlers)

	// ── Sync machinery ───────────────────────────────────────────────────────
	remote := infra.NewSyncClient(cfg.RemoteSyncURL)
	monitor := syncer.NewMonitor(remote.Ping, cfg.ProbeInterval)
	cb := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	manager := syncer.NewManager(inventoryStore, remote, monitor, cb, cfg.SyncTimeout, cfg.SyncInterval)

	monitor.Start(ctx)
	manager.Start(ctx)

	// Periodic low-stock sweep and activity retention. Mutation paths already
	// run the check inline; this catches hydrated state and external edits.
	go func() {
		alertTicker := time.NewTicker(cfg.AlertCheckPeriod)
		retentionTicker := time.NewTicker(24 * time.Hour)
		defer alertTicker.Stop()
		defer retentionTicker.Stop()

		engine.CheckLowStock(ctx, inventoryStore.Items())
		for {
			select {
			case <-ctx.Done():
				return
			case <-alertTicker.C:
				engine.CheckLowStock(ctx, inventoryStore.Items())
			case <-retentionTicker.C:
				activityStore.ClearOld(ctx, cfg.ActivityRetentionDays)
			}
		}
	}()

	r := router.New(cfg, db, rdb, router.Deps{
		Inventory: inventoryStore,
		Activity:  activityStore,
		Alerts:    engine,
		Manager:   manager,
		Monitor:   monitor,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("StockTrail backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}

	// Background goroutines stop before the database closes under them.
	cancel()
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server exited")
}
