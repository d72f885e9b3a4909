package main

// Run database migrations:
//   go run ./cmd/migrate

import (
	"context"
	"log"
	"os"

	"design-insight-backend/internal/config"
	"design-insight-backend/internal/shared/storage/db"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.ConnectAndMigrate(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		log.Printf("failed to migrate database: %v", err)
		os.Exit(1)
	}
	sqlDB.Close()
}
