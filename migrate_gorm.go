// migrate_gorm.go - Run this file to apply GORM migrations
// Usage: go run migrate_gorm.go

//go:build ignore

package main

import (
	"github.com/gofiber/fiber/v2/log"

	"github.com/sahilchouksey/study-planner/config"
	"github.com/sahilchouksey/study-planner/database"
)

func main() {
	log.Info("=== GORM Migration ===")

	if err := config.LoadENV(); err != nil {
		log.Fatal("Failed to load environment variables: ", err)
	}

	store, err := database.StartGORM()
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	if err := store.HealthCheck(); err != nil {
		log.Fatal("Database health check failed: ", err)
	}

	log.Info("All migrations completed, tables: users, user_sessions, subjects, tasks, tests, revisions, doubts, user_notifications, cron_job_logs")
}
