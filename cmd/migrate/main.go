// Package main provides a CLI tool for applying database migrations.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"

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

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}
	// The pgx/v5 driver registers itself under the pgx5 scheme.
	dbURL = strings.Replace(dbURL, "postgres://", "pgx5://", 1)

	sourceURL := os.Getenv("MIGRATIONS_PATH")
	if sourceURL == "" {
		sourceURL = "file://migrations"
	}

	m, err := migrate.New(sourceURL, dbURL)
	if err != nil {
		log.Fatalw("failed to initialize migrate", "error", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			log.Warnw("failed to close migration source", "error", srcErr)
		}
		if dbErr != nil {
			log.Warnw("failed to close database", "error", dbErr)
		}
	}()

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "up":
		if err := m.Up(); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				log.Info("database is up to date")
				return
			}
			log.Fatalw("migration failed", "error", err)
		}
		log.Info("migrations applied")

	case "down":
		if err := m.Steps(-1); err != nil {
			log.Fatalw("rollback failed", "error", err)
		}
		log.Info("rolled back one migration")

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatalw("failed to read version", "error", err)
		}
		log.Infow("current migration state", "version", version, "dirty", dirty)

	default:
		log.Fatalw("unknown command", "command", command)
	}
}
