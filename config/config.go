package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	devJWTSecret = "dev-secret-change-me"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string
	LogMode     string

	// Database configuration
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	SQLitePath    string
	MigrationsDir string
	SeedDefaults  bool

	// Redis configuration, optional; rate limiting is disabled without it
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Rate limits per user per hour
	RecipeCreateLimit int
	RecipeUpdateLimit int

	// JWT configuration
	JWTSecret string
	JWTTTL    time.Duration

	// Recipe export storage, optional
	S3Bucket  string
	AWSRegion string
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{Environment: env}

	// Load configuration based on environment
	switch env {
	case CI:
		loadCIConfig(cfg)
	case Development, Test:
		loadDevConfig(cfg)
	case Production:
		loadProdConfig(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadCIConfig loads configuration for CI using only environment variables
func loadCIConfig(cfg *Config) {
	loadCommon(cfg, false)
	cfg.DBPassword = os.Getenv("DB_PASSWORD")
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
}

// loadDevConfig loads configuration for development and test with local defaults.
// Docker secrets, when present, override environment values.
func loadDevConfig(cfg *Config) {
	loadCommon(cfg, true)
	cfg.DBPassword = secretOrEnv("db_password", "DB_PASSWORD", "postgres")
	cfg.JWTSecret = secretOrEnv("jwt_secret", "JWT_SECRET", devJWTSecret)
	cfg.RedisPassword = secretOrEnv("redis_password", "REDIS_PASSWORD", "")
}

// loadProdConfig loads configuration for production; sensitive values come from Docker secrets
func loadProdConfig(cfg *Config) {
	loadCommon(cfg, false)
	cfg.DBUser = secretOrEnv("db_user", "DB_USER", cfg.DBUser)
	cfg.DBPassword = readSecret("db_password")
	cfg.JWTSecret = readSecret("jwt_secret")
	cfg.RedisPassword = readSecret("redis_password")
	cfg.RedisURL = secretOrEnv("redis_url", "REDIS_URL", cfg.RedisURL)
}

func loadCommon(cfg *Config, withDefaults bool) {
	def := func(v string) string {
		if withDefaults {
			return v
		}
		return ""
	}

	cfg.ServerPort = getEnv("SERVER_PORT", "8080")
	cfg.ServerHost = getEnv("SERVER_HOST", "0.0.0.0")
	cfg.CORSOrigins = splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"))
	cfg.LogMode = getEnv("LOG_MODE", string(cfg.Environment))

	cfg.DBDriver = strings.ToLower(getEnv("DB_DRIVER", DriverPostgres))
	cfg.DBHost = getEnv("DB_HOST", def("localhost"))
	cfg.DBPort = getEnv("DB_PORT", def("5432"))
	cfg.DBUser = getEnv("DB_USER", def("postgres"))
	cfg.DBName = getEnv("DB_NAME", def("recipe_tracker"))
	cfg.DBSSLMode = getEnv("DB_SSL_MODE", "disable")
	cfg.SQLitePath = getEnv("SQLITE_PATH", "recipe_tracker.db")
	cfg.MigrationsDir = getEnv("MIGRATIONS_DIR", "migrations")
	cfg.SeedDefaults = getBool("SEED_DEFAULTS", withDefaults)

	cfg.RedisHost = getEnv("REDIS_HOST", "")
	cfg.RedisPort = getEnv("REDIS_PORT", "6379")
	cfg.RedisDB = getInt("REDIS_DB", 0)
	cfg.RedisURL = getEnv("REDIS_URL", "")

	cfg.RecipeCreateLimit = getInt("RATE_LIMIT_RECIPE_CREATE", 30)
	cfg.RecipeUpdateLimit = getInt("RATE_LIMIT_RECIPE_UPDATE", 60)

	cfg.JWTTTL = time.Duration(getInt("JWT_TTL_HOURS", 24)) * time.Hour

	cfg.S3Bucket = getEnv("S3_BUCKET_NAME", "")
	cfg.AWSRegion = getEnv("AWS_REGION", "")
}

// DSN returns the connection string for the configured postgres database.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// RedisEnabled reports whether a Redis endpoint is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

func secretOrEnv(secret, envVar, fallback string) string {
	if v := readSecret(secret); v != "" {
		return v
	}
	return getEnv(envVar, fallback)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
