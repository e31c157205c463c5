package main

import (
	"context"
	"fmt"

	"legalaid-backend/config"
	"legalaid-backend/database"
	"legalaid-backend/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.Background()
	db, err := database.Open(ctx, cfg.DBDriver, cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("Failed to connect to database", "error", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatal("Failed to create schema", "error", err)
	}

	fmt.Println("✓ Schema is up to date")
	for _, table := range []string{"users", "cases", "feedback", "attachments"} {
		fmt.Printf("  - %s: %v\n", table, db.Migrator().HasTable(table))
	}
}
