// Package main is the entry point for the epistock API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"epistock/internal/config"
	"epistock/internal/domain/catalogs/equipment"
	"epistock/internal/domain/catalogs/warehouse"
	"epistock/internal/domain/deliveries"
	"epistock/internal/domain/fichas"
	"epistock/internal/domain/notes"
	"epistock/internal/domain/policy"
	"epistock/internal/domain/stock"
	v1 "epistock/internal/infrastructure/http/v1"
	"epistock/internal/infrastructure/storage/postgres"
	"epistock/pkg/logger"
	"epistock/pkg/numerator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.App.Development(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	log.Infow("starting epistock server", "env", cfg.App.Env)

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.DB.ConnectionString())
	if cfg.DB.MaxConns > 0 {
		poolCfg.MaxConns = cfg.DB.MaxConns
	}
	if cfg.DB.MinConns > 0 {
		poolCfg.MinConns = cfg.DB.MinConns
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txm := postgres.NewTxManager(pool)

	// --- Repositories ---
	stockRepo := postgres.NewStockRepo(txm)
	noteRepo := postgres.NewNoteRepo(txm)
	deliveryRepo := postgres.NewDeliveryRepo(txm)
	warehouseRepo := postgres.NewWarehouseRepo(txm)
	equipmentRepo := postgres.NewEquipmentRepo(txm)
	fichaRepo := postgres.NewFichaRepo(txm)
	settingsRepo := postgres.NewSettingsRepo(txm)

	// --- Services ---
	numbers := numerator.New(pool.Pool)
	policies := policy.NewService(settingsRepo)
	ledger := stock.NewLedger(stockRepo)
	reverser := stock.NewReverser(stockRepo, ledger)

	warehouseSvc := warehouse.NewService(warehouseRepo)
	equipmentSvc := equipment.NewService(equipmentRepo)
	fichaSvc := fichas.NewService(fichaRepo)
	stockSvc := stock.NewService(stockRepo, ledger, reverser, policies, txm)
	noteSvc := notes.NewService(noteRepo, ledger, reverser, policies, warehouseSvc, equipmentSvc, numbers, txm)
	deliverySvc := deliveries.NewService(deliveryRepo, ledger, reverser, policies, fichaSvc, equipmentSvc, numbers, txm)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:       pool,
		Logger:     log,
		Notes:      noteSvc,
		Deliveries: deliverySvc,
		Stock:      stockSvc,
		Warehouses: warehouseSvc,
		Equipment:  equipmentSvc,
		Fichas:     fichaSvc,
		Settings:   settingsRepo,
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
