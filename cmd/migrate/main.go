package main

// Run database migrations:
//   go run ./cmd/migrate
// Print migration status instead:
//   go run ./cmd/migrate status

import (
	"context"
	"log"
	"os"

	"resume-improver/internal/shared/config"
	"resume-improver/internal/shared/storage/db"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFor(db.RuntimeMigrate))
	if err != nil {
		log.Printf("failed to connect database: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	run, label := db.RunMigrations, "run migrations"
	if len(os.Args) > 1 && os.Args[1] == "status" {
		run, label = db.MigrationStatus, "read migration status"
	}
	if err := run(ctx, sqlDB); err != nil {
		log.Printf("failed to %s: %v", label, err)
		os.Exit(1)
	}
}
