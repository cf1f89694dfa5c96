package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/Rahnken/recipe-tracker/config"
	"github.com/Rahnken/recipe-tracker/internal/database"
	"github.com/Rahnken/recipe-tracker/internal/logger"
	"github.com/Rahnken/recipe-tracker/internal/repository"
	"github.com/Rahnken/recipe-tracker/internal/seed"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLog.Sync()

	db, err := database.New(cfg, appLog)
	if err != nil {
		appLog.Fatal("failed to connect to database", "error", err)
	}
	if err := database.RunMigrations(db, cfg.MigrationsDir, appLog); err != nil {
		appLog.Fatal("failed to run migrations", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	created, err := seed.DefaultRecipes(ctx, db, repository.New(db, appLog), appLog)
	if err != nil {
		appLog.Fatal("seeding failed", "created", created, "error", err)
	}
	appLog.Info("seeding complete", "created", created, "total_defaults", len(seed.DefaultRecipeNames()))
}
