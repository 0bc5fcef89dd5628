package main

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/sahilchouksey/study-planner/config"
	"github.com/sahilchouksey/study-planner/database"
)

func main() {
	if err := config.LoadENV(); err != nil {
		log.Warnf(".env not loaded: %v", err)
	}

	getEnv, err := config.Get()
	if err != nil {
		log.Fatalf("Failed to read configuration: %v", err)
	}

	store, err := database.StartGORM()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	name := os.Getenv("SEED_NAME")
	if name == "" {
		name = "Demo Student"
	}

	seeder := database.NewSeeder(store.GetDB(), time.Now(), getEnv.TIMEZONE)
	if err := seeder.SeedAll(database.SeedUser{
		Name:     name,
		Email:    os.Getenv("SEED_EMAIL"),
		Password: os.Getenv("SEED_PASSWORD"),
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Info("Seeding completed successfully!")
}
