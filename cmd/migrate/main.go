package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"

	"github.com/m04kA/CareClarity-AppointmentService/internal/config"
	"github.com/m04kA/CareClarity-AppointmentService/migrations"
	"github.com/m04kA/CareClarity-AppointmentService/pkg/logger"
)

// Usage:
//
//	migrate            apply pending migrations
//	migrate down       roll back one migration
//	migrate force <v>  mark version v as applied after a failed run
func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	m, err := migrations.New(cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to create migrator: %v", err)
	}
	defer func() { _, _ = m.Close() }()

	args := os.Args[1:]
	switch {
	case len(args) >= 2 && args[0] == "force":
		version, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatal("Invalid version %q: %v", args[1], err)
		}
		if err := m.Force(version); err != nil {
			log.Fatal("Failed to force version %d: %v", version, err)
		}
		log.Info("Forced schema version to %d", version)

	case len(args) >= 1 && args[0] == "down":
		if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal("Failed to roll back: %v", err)
		}
		log.Info("Rolled back one migration")

	default:
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal("Failed to migrate up: %v", err)
		}
		log.Info("Migrations complete (host=%s, db=%s)", cfg.Database.Host, cfg.Database.DBName)
	}
}
