package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rahnken/recipe-tracker/internal/logger"
	"github.com/Rahnken/recipe-tracker/internal/repository"
	"github.com/Rahnken/recipe-tracker/internal/service"
	"github.com/Rahnken/recipe-tracker/internal/testhelpers"
	"github.com/Rahnken/recipe-tracker/internal/types"
)

func newIngredientService(t *testing.T) (*service.IngredientService, *recipeFixture) {
	t.Helper()
	f := newRecipeFixture(t)
	return service.NewIngredientService(f.db, f.repos, logger.NewNop()), f
}

func TestIngredientService_CreateListUpdate(t *testing.T) {
	svc, _ := newIngredientService(t)
	ctx := context.Background()

	flour, err := svc.Create(ctx, &types.CreateIngredientRequest{Name: "  Flour ", Category: "Baking"})
	require.NoError(t, err)
	assert.Equal(t, "Flour", flour.Name)
	_, err = svc.Create(ctx, &types.CreateIngredientRequest{Name: "Butter", Category: "Dairy"})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Butter", list[0].Name)
	assert.Equal(t, "Flour", list[1].Name)

	updated, err := svc.Update(ctx, flour.ID, &types.UpdateIngredientRequest{Name: "Bread Flour", Category: "Baking"})
	require.NoError(t, err)
	assert.Equal(t, flour.ID, updated.ID)
	assert.Equal(t, "Bread Flour", updated.Name)
}

func TestIngredientService_Errors(t *testing.T) {
	svc, _ := newIngredientService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &types.CreateIngredientRequest{Name: "Salt"})
	require.NoError(t, err)
	pepper, err := svc.Create(ctx, &types.CreateIngredientRequest{Name: "Pepper"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, &types.CreateIngredientRequest{Name: "Salt"})
	assert.ErrorIs(t, err, service.ErrConflict)

	_, err = svc.Update(ctx, pepper.ID, &types.UpdateIngredientRequest{Name: "Salt"})
	assert.ErrorIs(t, err, service.ErrConflict)

	_, err = svc.Create(ctx, &types.CreateIngredientRequest{Name: "   "})
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Fields[0].Field)

	_, err = svc.Update(ctx, uuid.NewString(), &types.UpdateIngredientRequest{Name: "Cumin"})
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "bogus"), service.ErrNotFound)
}

func TestIngredientService_DeleteRefusesReferencedIngredient(t *testing.T) {
	svc, f := newIngredientService(t)
	ctx := context.Background()
	user := testhelpers.CreateTestUser(t, f.db).ID.String()

	in := trailMixInput(t, f.db)
	_, err := f.svc.Create(ctx, user, in)
	require.NoError(t, err)

	err = svc.Delete(ctx, in.Ingredients[0].IngredientID)
	assert.ErrorIs(t, err, service.ErrConflict)

	unused := testhelpers.CreateTestIngredient(t, f.db, "Unused")
	require.NoError(t, svc.Delete(ctx, unused.ID.String()))

	got, err := repository.New(f.db, logger.NewNop()).Ingredients.GetByID(ctx, nil, unused.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
