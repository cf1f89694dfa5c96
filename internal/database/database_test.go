package database_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Rahnken/recipe-tracker/config"
	"github.com/Rahnken/recipe-tracker/internal/database"
	"github.com/Rahnken/recipe-tracker/internal/logger"
	"github.com/Rahnken/recipe-tracker/internal/models"
	"github.com/Rahnken/recipe-tracker/internal/testhelpers"
)

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "app.db?_foreign_keys=on", database.SQLiteDSN("app.db"))
	assert.Equal(t, "file:x?mode=memory&_foreign_keys=on", database.SQLiteDSN("file:x?mode=memory"))
}

func TestNew_SQLiteFileRunsMigrations(t *testing.T) {
	cfg := &config.Config{
		Environment: config.Test,
		DBDriver:    config.DriverSQLite,
		SQLitePath:  filepath.Join(t.TempDir(), "recipes.db"),
	}
	db, err := database.New(cfg, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	require.NoError(t, database.RunMigrations(db, "does-not-matter", logger.NewNop()))
	require.NoError(t, database.HealthCheck(context.Background(), db))

	user := models.User{ID: uuid.New(), Name: "Test User", Email: "test@example.com", PasswordHash: "hashed"}
	require.NoError(t, db.Create(&user).Error)

	dup := models.User{ID: uuid.New(), Name: "Other", Email: "test@example.com", PasswordHash: "hashed"}
	assert.ErrorIs(t, db.Create(&dup).Error, gorm.ErrDuplicatedKey)
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := database.New(&config.Config{DBDriver: "oracle"}, logger.NewNop())
	assert.Error(t, err)
}

func TestForeignKeysAreEnforced(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	line := models.RecipeIngredient{
		RecipeID:     uuid.New(),
		IngredientID: uuid.New(),
		Quantity:     1,
		Unit:         "cup",
	}
	assert.ErrorIs(t, db.Create(&line).Error, gorm.ErrForeignKeyViolated)
}

func TestUpMigrations(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"000002_add_shares.up.sql",
		"000001_init.up.sql",
		"000001_init.down.sql",
		"README.md",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("-- noop"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "000003_dir.up.sql"), 0o700))

	files, err := database.UpMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_init.up.sql", "000002_add_shares.up.sql"}, files)
	assert.Equal(t, "000002", database.MigrationVersion(files[1]))

	_, err = database.UpMigrations(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestRepoMigrationsArePaired(t *testing.T) {
	ups, err := database.UpMigrations(testhelpers.MigrationsDir())
	require.NoError(t, err)
	require.NotEmpty(t, ups)
	for _, up := range ups {
		down := up[:len(up)-len(".up.sql")] + ".down.sql"
		_, err := os.Stat(filepath.Join(testhelpers.MigrationsDir(), down))
		assert.NoError(t, err, "missing %s", down)
	}
}

func TestRunMigrations_PostgresIsIdempotent(t *testing.T) {
	db := testhelpers.SetupPostgres(t)

	var applied int64
	require.NoError(t, db.Table("schema_migrations").Count(&applied).Error)
	ups, err := database.UpMigrations(testhelpers.MigrationsDir())
	require.NoError(t, err)
	assert.EqualValues(t, len(ups), applied)

	require.NoError(t, database.RunMigrations(db, testhelpers.MigrationsDir(), logger.NewNop()))
	var again int64
	require.NoError(t, db.Table("schema_migrations").Count(&again).Error)
	assert.Equal(t, applied, again)

	for _, table := range []string{"users", "ingredients", "recipes", "recipe_ingredients", "recipe_instructions", "user_favourite_recipes", "hidden_default_recipes", "recipe_shares"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestNewRedisClient_BadURL(t *testing.T) {
	_, err := database.NewRedisClient(&config.Config{RedisURL: "://nope"}, logger.NewNop())
	assert.Error(t, err)
}
