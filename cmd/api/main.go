package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/Rahnken/recipe-tracker/config"
	"github.com/Rahnken/recipe-tracker/internal/api"
	"github.com/Rahnken/recipe-tracker/internal/database"
	"github.com/Rahnken/recipe-tracker/internal/logger"
	"github.com/Rahnken/recipe-tracker/internal/middleware"
	"github.com/Rahnken/recipe-tracker/internal/observability"
	"github.com/Rahnken/recipe-tracker/internal/repository"
	"github.com/Rahnken/recipe-tracker/internal/router"
	"github.com/Rahnken/recipe-tracker/internal/seed"
	"github.com/Rahnken/recipe-tracker/internal/server"
	"github.com/Rahnken/recipe-tracker/internal/service"
)

var version = "dev"

func main() {
	// A missing .env is fine outside local development
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing := observability.InitTracing(ctx, appLog, observability.TracingConfig{
		ServiceName: observability.ServiceName,
		Environment: string(cfg.Environment),
		Version:     version,
	})
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			appLog.Warn("tracing shutdown failed", "error", err)
		}
	}()

	// Initialize database
	db, err := database.New(cfg, appLog)
	if err != nil {
		appLog.Fatal("failed to connect to database", "error", err)
	}
	if err := database.RunMigrations(db, cfg.MigrationsDir, appLog); err != nil {
		appLog.Fatal("failed to run migrations", "error", err)
	}

	repos := repository.New(db, appLog)
	if cfg.SeedDefaults {
		created, err := seed.DefaultRecipes(ctx, db, repos, appLog)
		if err != nil {
			appLog.Fatal("failed to seed default recipes", "error", err)
		}
		appLog.Info("default recipes ready", "created", created)
	}

	// Rate limiting is optional
	var redisClient *redis.Client
	if cfg.RedisEnabled() {
		redisClient, err = database.NewRedisClient(cfg, appLog)
		if err != nil {
			appLog.Warn("redis unavailable, rate limiting disabled", "error", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}
	limits := router.Limiters{
		RecipeCreation:     middleware.NewRecipeCreationRateLimiter(redisClient, cfg.RecipeCreateLimit, appLog),
		RecipeModification: middleware.NewRecipeModificationRateLimiter(redisClient, cfg.RecipeUpdateLimit, appLog),
	}

	// Export storage is optional
	var store service.ObjectStore
	if cfg.S3Bucket != "" {
		s3Cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			appLog.Warn("s3 unavailable, exports are returned inline", "error", err)
		} else {
			store = s3Cfg
		}
	}

	// Initialize services
	authService := service.NewAuthService(repos.Users, cfg.JWTSecret, cfg.JWTTTL, appLog)
	emailService := service.NewEmailService(appLog)
	recipeService := service.NewRecipeService(db, repos, emailService, appLog)
	ingredientService := service.NewIngredientService(db, repos, appLog)
	exportService := service.NewExportService(recipeService, store, appLog)

	handlers := router.Handlers{
		Auth:        api.NewAuthHandler(authService, appLog),
		Ingredients: api.NewIngredientHandler(ingredientService, appLog),
		Recipes:     api.NewRecipeHandler(recipeService, exportService, appLog),
		RateLimits:  api.NewRateLimitHandler(limits.RecipeCreation, limits.RecipeModification, appLog),
	}
	engine := router.SetupRouter(cfg, db, appLog, authService, handlers, limits)

	// Create and start server
	srv := server.New(cfg, engine, appLog)
	if err := srv.Start(ctx); err != nil {
		appLog.Fatal("server error", "error", err)
	}
	appLog.Info("server stopped")
}
