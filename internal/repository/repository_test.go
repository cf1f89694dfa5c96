package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Rahnken/recipe-tracker/internal/logger"
	"github.com/Rahnken/recipe-tracker/internal/models"
	"github.com/Rahnken/recipe-tracker/internal/repository"
	"github.com/Rahnken/recipe-tracker/internal/service"
	"github.com/Rahnken/recipe-tracker/internal/testhelpers"
)

func ownRecipe(t *testing.T, db *gorm.DB, owner, name, embedText string, createdAt time.Time) *models.Recipe {
	t.Helper()
	r := &models.Recipe{
		ID:        uuid.New(),
		Name:      name,
		Servings:  2,
		MealType:  models.MealTypes{models.MealTypeDinner},
		CreatedBy: owner,
		Embedding: service.GenerateEmbedding(embedText),
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(r).Error)
	return r
}

func TestIngredientRepo_EnsureByNameIsIdempotent(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	repos := repository.New(db, logger.NewNop())
	ctx := context.Background()

	first, err := repos.Ingredients.EnsureByName(ctx, nil, "Garlic")
	require.NoError(t, err)
	second, err := repos.Ingredients.EnsureByName(ctx, nil, "Garlic")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	missing, err := repos.Ingredients.GetByID(ctx, nil, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestHiddenRepo_AddManySkipsExisting(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	repos := repository.New(db, logger.NewNop())
	ctx := context.Background()

	a := testhelpers.CreateDefaultRecipe(t, db, "A")
	b := testhelpers.CreateDefaultRecipe(t, db, "B")

	require.NoError(t, repos.Hidden.Add(ctx, nil, "user-1", a.ID))
	n, err := repos.Hidden.AddMany(ctx, nil, "user-1", []uuid.UUID{a.ID, b.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	ids, err := repos.Hidden.RecipeIDs(ctx, nil, "user-1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{a.ID, b.ID}, ids)

	removed, err := repos.Hidden.Remove(ctx, nil, "user-1", a.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = repos.Hidden.Remove(ctx, nil, "user-1", a.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestRecipeRepo_ListVisible(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	repos := repository.New(db, logger.NewNop())
	ctx := context.Background()

	now := time.Now().UTC()
	mine := ownRecipe(t, db, "user-1", "Mine", "mine", now)
	ownRecipe(t, db, "user-2", "Theirs", "theirs", now)
	def := testhelpers.CreateDefaultRecipe(t, db, "Shared Default")

	list, err := repos.Recipes.ListVisible(ctx, nil, "user-1", repository.RecipeQuery{})
	require.NoError(t, err)
	var ids []uuid.UUID
	for _, r := range list {
		ids = append(ids, r.ID)
	}
	assert.ElementsMatch(t, []uuid.UUID{mine.ID, def.ID}, ids)

	require.NoError(t, repos.Hidden.Add(ctx, nil, "user-1", def.ID))
	list, err = repos.Recipes.ListVisible(ctx, nil, "user-1", repository.RecipeQuery{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)

	list, err = repos.Recipes.ListVisible(ctx, nil, "user-1", repository.RecipeQuery{MealTypes: []models.MealType{models.MealTypeSnack}})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestShareRepo_UpsertReplacesPermission(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	repos := repository.New(db, logger.NewNop())
	ctx := context.Background()
	r := ownRecipe(t, db, "user-1", "Mine", "mine", time.Now().UTC())

	share := func(p models.SharePermission) {
		require.NoError(t, repos.Shares.Upsert(ctx, nil, []*models.RecipeShare{{
			RecipeID:   r.ID,
			SharedWith: "friend@example.com",
			Permission: p,
			SharedBy:   "user-1",
			UpdatedAt:  time.Now().UTC(),
		}}))
	}
	share(models.SharePermissionView)
	share(models.SharePermissionEdit)

	shares, err := repos.Shares.ListByRecipe(ctx, nil, r.ID)
	require.NoError(t, err)
	require.Len(t, shares, 1)
	assert.Equal(t, models.SharePermissionEdit, shares[0].Permission)
}

func TestRecipeRepo_PostgresRanksByEmbedding(t *testing.T) {
	db := testhelpers.SetupPostgres(t)
	repos := repository.New(db, logger.NewNop())
	ctx := context.Background()

	now := time.Now().UTC()
	chicken := ownRecipe(t, db, "user-1", "Chicken Soup", "chicken noodle soup", now.Add(-time.Hour))
	tomato := ownRecipe(t, db, "user-1", "Tomato Soup", "tomato basil soup", now)
	ownRecipe(t, db, "user-1", "Pancakes", "pancakes", now)

	plain, err := repos.Recipes.ListVisible(ctx, nil, "user-1", repository.RecipeQuery{Text: "soup"})
	require.NoError(t, err)
	require.Len(t, plain, 2)
	assert.Equal(t, tomato.ID, plain[0].ID)

	vec := service.GenerateEmbedding("chicken noodle soup")
	ranked, err := repos.Recipes.ListVisible(ctx, nil, "user-1", repository.RecipeQuery{Text: "soup", Embedding: &vec})
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, chicken.ID, ranked[0].ID)
	assert.Equal(t, tomato.ID, ranked[1].ID)
}
