package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rahnken/recipe-tracker/internal/logger"
	"github.com/Rahnken/recipe-tracker/internal/models"
	"github.com/Rahnken/recipe-tracker/internal/repository"
	"github.com/Rahnken/recipe-tracker/internal/testhelpers"
)

func TestDefaultRecipes_SeedsOnce(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	repos := repository.New(db, logger.NewNop())
	ctx := context.Background()

	created, err := DefaultRecipes(ctx, db, repos, logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 5, created)

	var names []string
	require.NoError(t, db.Model(&models.Recipe{}).
		Where("is_default = ? AND created_by = ?", true, models.SystemOwner).
		Order("name ASC").
		Pluck("name", &names).Error)
	assert.ElementsMatch(t, DefaultRecipeNames(), names)

	// Ingredients shared between defaults are stored once.
	for _, shared := range []string{"Salt", "Black Pepper"} {
		var n int64
		require.NoError(t, db.Model(&models.Ingredient{}).Where("name = ?", shared).Count(&n).Error)
		assert.EqualValues(t, 1, n, shared)
	}

	again, err := DefaultRecipes(ctx, db, repos, logger.NewNop())
	require.NoError(t, err)
	assert.Zero(t, again)

	var total int64
	require.NoError(t, db.Model(&models.Recipe{}).Count(&total).Error)
	assert.EqualValues(t, 5, total)
}

func TestDefaultRecipes_ChildRowsMatchDefinitions(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	repos := repository.New(db, logger.NewNop())
	ctx := context.Background()

	_, err := DefaultRecipes(ctx, db, repos, logger.NewNop())
	require.NoError(t, err)

	for _, def := range defaultRecipes {
		r, err := repos.Recipes.GetDefaultByName(ctx, nil, def.Name)
		require.NoError(t, err)
		require.NotNil(t, r, def.Name)

		full, err := repos.Recipes.GetByID(ctx, nil, r.ID)
		require.NoError(t, err)
		assert.Len(t, full.Ingredients, len(def.Ingredients), def.Name)
		require.Len(t, full.Instructions, len(def.Instructions), def.Name)
		for i, step := range full.Instructions {
			assert.Equal(t, i, step.OrderIndex)
			assert.Equal(t, def.Instructions[i], step.Step)
		}
		assert.Equal(t, def.PrepTime+def.CookTime, full.TotalTime())
	}
}

func TestDefaultRecipes_TrailMix(t *testing.T) {
	var trail *defaultRecipe
	for i := range defaultRecipes {
		if defaultRecipes[i].Name == "Trail Mix" {
			trail = &defaultRecipes[i]
		}
	}
	require.NotNil(t, trail)
	assert.Equal(t, 4, trail.Servings)
	assert.Equal(t, 5, trail.PrepTime)
	assert.Zero(t, trail.CookTime)
	assert.Equal(t, models.MealTypes{models.MealTypeSnack}, trail.MealType)
	assert.Len(t, trail.Ingredients, 5)
	assert.Len(t, trail.Instructions, 3)
}
