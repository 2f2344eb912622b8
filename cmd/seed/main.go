// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"epistock/internal/core/apperror"
	"epistock/internal/domain/catalogs/equipment"
	"epistock/internal/domain/catalogs/warehouse"
	"epistock/internal/infrastructure/storage/postgres"
	"epistock/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txm := postgres.NewTxManager(pool)

	if err := seedSettings(ctx, postgres.NewSettingsRepo(txm), log); err != nil {
		log.Fatalw("failed to seed settings", "error", err)
	}
	if err := seedWarehouses(ctx, postgres.NewWarehouseRepo(txm), log); err != nil {
		log.Fatalw("failed to seed warehouses", "error", err)
	}
	if err := seedEquipmentTypes(ctx, postgres.NewEquipmentRepo(txm), log); err != nil {
		log.Fatalw("failed to seed equipment types", "error", err)
	}

	log.Info("seeding completed successfully")
}

func seedSettings(ctx context.Context, repo *postgres.SettingsRepo, log *logger.Logger) error {
	cfg, err := repo.Load(ctx)
	if err != nil {
		return err
	}
	// Load returns false for missing keys; Save makes them explicit.
	if err := repo.Save(ctx, cfg); err != nil {
		return err
	}
	log.Infow("settings seeded",
		"allow_negative_stock", cfg.AllowNegativeStock,
		"allow_forced_adjustments", cfg.AllowForcedAdjustments,
	)
	return nil
}

func seedWarehouses(ctx context.Context, repo *postgres.WarehouseRepo, log *logger.Logger) error {
	svc := warehouse.NewService(repo)

	seeds := []struct {
		code, name, address string
	}{
		{"ALM-01", "Almoxarifado Central", "Av. Industrial, 1000 - Galpão A"},
		{"ALM-02", "Almoxarifado Obra Norte", "Rodovia BR-101, km 42"},
	}

	for _, s := range seeds {
		if _, err := repo.GetByCode(ctx, s.code); err == nil {
			log.Infow("warehouse already exists", "code", s.code)
			continue
		} else if !apperror.IsNotFound(err) {
			return err
		}

		w := warehouse.New(s.code, s.name)
		addr := s.address
		w.Address = &addr
		if err := svc.Create(ctx, w); err != nil {
			return err
		}
		log.Infow("warehouse created", "code", s.code, "id", w.ID)
	}
	return nil
}

func seedEquipmentTypes(ctx context.Context, repo *postgres.EquipmentRepo, log *logger.Logger) error {
	svc := equipment.NewService(repo)

	seeds := []struct {
		code, name, caNumber string
		usefulLifeDays       int
		unitCost             string
	}{
		{"EPI-CAP", "Capacete de Segurança Classe B", "CA-31469", 365, "28.90"},
		{"EPI-LUV", "Luva de Vaqueta", "CA-40371", 90, "15.50"},
		{"EPI-BOT", "Botina de Segurança com Bico de Aço", "CA-37456", 180, "89.90"},
		{"EPI-OCU", "Óculos de Proteção Incolor", "CA-34082", 120, "9.75"},
		{"EPI-PRO", "Protetor Auricular Tipo Concha", "CA-29176", 270, "32.00"},
	}

	for _, s := range seeds {
		if _, err := repo.GetByCode(ctx, s.code); err == nil {
			log.Infow("equipment type already exists", "code", s.code)
			continue
		} else if !apperror.IsNotFound(err) {
			return err
		}

		e := equipment.New(s.code, s.name, s.usefulLifeDays)
		e.CANumber = s.caNumber
		e.UnitCost = decimal.RequireFromString(s.unitCost)
		if err := svc.Create(ctx, e); err != nil {
			return err
		}
		log.Infow("equipment type created", "code", s.code, "id", e.ID)
	}
	return nil
}
