package main

import (
	"log"

	"myworld/backend/internal/app"
	"myworld/backend/internal/config"
	"myworld/backend/internal/db"
)

func main() {
	cfg, err := config.Load(config.New())
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	database, err := app.OpenDatabase(cfg)
	if err != nil {
		log.Fatalf("migrate: %v", err)
	}
	defer database.Close()

	applied, err := db.AppliedMigrations(database)
	if err != nil {
		log.Fatalf("list migrations: %v", err)
	}
	log.Printf("%s: %d migrations applied", cfg.DBPath(), len(applied))
}
