package service_test

import (
	"context"
	"errors"
	"sync"
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
	"github.com/Rahnken/recipe-tracker/internal/types"
)

type recipeFixture struct {
	db       *gorm.DB
	repos    *repository.Repos
	svc      *service.RecipeService
	notifier *fakeNotifier
}

func newRecipeFixture(t *testing.T) *recipeFixture {
	t.Helper()
	db := testhelpers.SetupSQLite(t)
	log := logger.NewNop()
	repos := repository.New(db, log)
	notifier := &fakeNotifier{}
	return &recipeFixture{
		db:       db,
		repos:    repos,
		svc:      service.NewRecipeService(db, repos, notifier, log),
		notifier: notifier,
	}
}

type sentShare struct {
	To         string
	RecipeName string
	SharedBy   string
	Permission models.SharePermission
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentShare
}

func (f *fakeNotifier) SendEmail(to, subject, body string) error { return nil }

func (f *fakeNotifier) SendShareNotification(to string, recipe *models.Recipe, sharedBy *models.User, permission models.SharePermission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := sentShare{To: to, RecipeName: recipe.Name, Permission: permission}
	if sharedBy != nil {
		s.SharedBy = sharedBy.Name
	}
	f.sent = append(f.sent, s)
	return nil
}

func (f *fakeNotifier) Sent() []sentShare {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentShare(nil), f.sent...)
}

func intPtr(v int) *int { return &v }

func trailMixInput(t *testing.T, db *gorm.DB) *types.RecipeInput {
	t.Helper()
	names := []string{"Almonds", "Cashews", "Raisins", "Dark Chocolate Chips", "Sunflower Seeds"}
	in := &types.RecipeInput{
		Name:        "Trail Mix",
		Description: "Energy-packed snack mix",
		Servings:    intPtr(4),
		PrepTime:    intPtr(5),
		CookTime:    intPtr(0),
		MealType:    []models.MealType{models.MealTypeSnack},
	}
	for _, n := range names {
		ing := testhelpers.CreateTestIngredient(t, db, n)
		in.Ingredients = append(in.Ingredients, types.RecipeIngredientInput{
			IngredientID: ing.ID.String(),
			Quantity:     30,
			Unit:         "grams",
		})
	}
	in.Instructions = []types.RecipeInstructionInput{
		{Step: "Measure all ingredients", OrderIndex: 0},
		{Step: "Mix in a large bowl", OrderIndex: 1},
		{Step: "Store in an airtight container", OrderIndex: 2},
	}
	return in
}

func TestCreate_TrailMixFavouriteRoundTrip(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	user := testhelpers.CreateTestUser(t, f.db).ID.String()

	created, err := f.svc.Create(ctx, user, trailMixInput(t, f.db))
	require.NoError(t, err)
	assert.Len(t, created.Ingredients, 5)
	require.Len(t, created.Instructions, 3)
	for i, step := range created.Instructions {
		assert.Equal(t, i, step.OrderIndex)
	}
	assert.Equal(t, 4, created.Servings)
	assert.Equal(t, 5, created.TotalTime)
	assert.Equal(t, user, created.CreatedBy)
	assert.False(t, created.IsDefault)

	all, err := f.svc.GetAll(ctx, user, types.RecipeFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Trail Mix", all[0].Name)
	assert.False(t, all[0].IsFavourite)

	fav, err := f.svc.ToggleFavourite(ctx, user, created.ID)
	require.NoError(t, err)
	assert.True(t, fav)
	got, err := f.svc.GetByID(ctx, user, created.ID)
	require.NoError(t, err)
	assert.True(t, got.IsFavourite)

	fav, err = f.svc.ToggleFavourite(ctx, user, created.ID)
	require.NoError(t, err)
	assert.False(t, fav)
	got, err = f.svc.GetByID(ctx, user, created.ID)
	require.NoError(t, err)
	assert.False(t, got.IsFavourite)
}

func TestGetByID_OtherUserIsForbidden(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	owner := testhelpers.CreateTestUser(t, f.db).ID.String()
	other := testhelpers.CreateTestUser(t, f.db).ID.String()

	created, err := f.svc.Create(ctx, owner, trailMixInput(t, f.db))
	require.NoError(t, err)

	_, err = f.svc.GetByID(ctx, other, created.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)

	_, err = f.svc.GetByID(ctx, other, uuid.NewString())
	assert.ErrorIs(t, err, service.ErrNotFound)
	_, err = f.svc.GetByID(ctx, other, "not-an-id")
	assert.ErrorIs(t, err, service.ErrNotFound)

	err = f.svc.Delete(ctx, other, created.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)
	_, err = f.svc.ListShares(ctx, other, created.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestCreate_Validation(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	user := testhelpers.CreateTestUser(t, f.db).ID.String()

	tests := []struct {
		name   string
		mutate func(*types.RecipeInput)
		field  string
	}{
		{"empty name", func(in *types.RecipeInput) { in.Name = "  " }, "name"},
		{"zero servings", func(in *types.RecipeInput) { in.Servings = intPtr(0) }, "servings"},
		{"negative prep time", func(in *types.RecipeInput) { in.PrepTime = intPtr(-1) }, "prep_time"},
		{"bad url", func(in *types.RecipeInput) { in.SourceURL = "not a url" }, "source_url"},
		{"no meal type", func(in *types.RecipeInput) { in.MealType = nil }, "meal_type"},
		{"unknown meal type", func(in *types.RecipeInput) { in.MealType = []models.MealType{"BRUNCH"} }, "meal_type[0]"},
		{"zero quantity", func(in *types.RecipeInput) { in.Ingredients[0].Quantity = 0 }, "ingredients[0].quantity"},
		{"missing unit", func(in *types.RecipeInput) { in.Ingredients[1].Unit = "" }, "ingredients[1].unit"},
		{"no instructions", func(in *types.RecipeInput) { in.Instructions = nil }, "instructions"},
		{"repeated order index", func(in *types.RecipeInput) { in.Instructions[2].OrderIndex = 0 }, "instructions[2].order_index"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := trailMixInputNamed(t, f.db, tt.name)
			tt.mutate(in)

			_, err := f.svc.Create(ctx, user, in)
			var verr *service.ValidationError
			require.ErrorAs(t, err, &verr)
			fields := make([]string, len(verr.Fields))
			for i, fe := range verr.Fields {
				fields[i] = fe.Field
			}
			assert.Contains(t, fields, tt.field)
		})
	}

	var count int64
	require.NoError(t, f.db.Model(&models.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
}

// trailMixInputNamed builds the trail mix payload with ingredient names
// unique to one subtest.
func trailMixInputNamed(t *testing.T, db *gorm.DB, suffix string) *types.RecipeInput {
	t.Helper()
	in := &types.RecipeInput{
		Name:     "Trail Mix",
		Servings: intPtr(4),
		MealType: []models.MealType{models.MealTypeSnack},
		Instructions: []types.RecipeInstructionInput{
			{Step: "Measure", OrderIndex: 0},
			{Step: "Mix", OrderIndex: 1},
			{Step: "Store", OrderIndex: 2},
		},
	}
	for _, n := range []string{"Almonds ", "Raisins "} {
		ing := testhelpers.CreateTestIngredient(t, db, n+suffix)
		in.Ingredients = append(in.Ingredients, types.RecipeIngredientInput{IngredientID: ing.ID.String(), Quantity: 10, Unit: "grams"})
	}
	return in
}

func TestCreate_UnknownIngredient(t *testing.T) {
	f := newRecipeFixture(t)
	user := testhelpers.CreateTestUser(t, f.db).ID.String()
	in := trailMixInput(t, f.db)
	in.Ingredients[0].IngredientID = uuid.NewString()

	_, err := f.svc.Create(context.Background(), user, in)
	assert.ErrorIs(t, err, service.ErrNotFound)

	var count int64
	require.NoError(t, f.db.Model(&models.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdate_ReconcilesChildren(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	user := testhelpers.CreateTestUser(t, f.db).ID.String()

	in := trailMixInput(t, f.db)
	in.Ingredients = in.Ingredients[:3]
	created, err := f.svc.Create(ctx, user, in)
	require.NoError(t, err)

	byIngredient := map[string]types.RecipeIngredientResponse{}
	for _, line := range created.Ingredients {
		byIngredient[line.IngredientName] = line
	}
	a, b, c := byIngredient["Almonds"], byIngredient["Cashews"], byIngredient["Raisins"]
	d := testhelpers.CreateTestIngredient(t, f.db, "Pumpkin Seeds")

	update := trailMixInputFrom(created)
	update.Name = "Trail Mix Deluxe"
	update.Ingredients = []types.RecipeIngredientInput{
		{ID: b.ID, IngredientID: b.IngredientID, Quantity: 99, Unit: "grams", Notes: "roasted"},
		{IngredientID: d.ID.String(), Quantity: 15, Unit: "grams"},
	}
	update.Instructions = []types.RecipeInstructionInput{
		{ID: created.Instructions[2].ID, Step: "Store it", OrderIndex: 0},
		{Step: "Enjoy", OrderIndex: 1},
	}

	updated, err := f.svc.Update(ctx, user, created.ID, update)
	require.NoError(t, err)
	assert.Equal(t, "Trail Mix Deluxe", updated.Name)

	require.Len(t, updated.Ingredients, 2)
	lines := map[string]types.RecipeIngredientResponse{}
	for _, line := range updated.Ingredients {
		lines[line.IngredientName] = line
	}
	assert.Equal(t, b.ID, lines["Cashews"].ID)
	assert.Equal(t, 99.0, lines["Cashews"].Quantity)
	assert.Equal(t, "roasted", lines["Cashews"].Notes)
	require.Contains(t, lines, "Pumpkin Seeds")
	assert.NotEqual(t, a.ID, lines["Pumpkin Seeds"].ID)
	assert.NotEqual(t, c.ID, lines["Pumpkin Seeds"].ID)

	require.Len(t, updated.Instructions, 2)
	assert.Equal(t, created.Instructions[2].ID, updated.Instructions[0].ID)
	assert.Equal(t, "Store it", updated.Instructions[0].Step)
	assert.Equal(t, "Enjoy", updated.Instructions[1].Step)

	var rows int64
	require.NoError(t, f.db.Model(&models.RecipeIngredient{}).Where("id IN ?", []string{a.ID, c.ID}).Count(&rows).Error)
	assert.Zero(t, rows)
}

func TestUpdate_FailureLeavesRecipeUnchanged(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	user := testhelpers.CreateTestUser(t, f.db).ID.String()

	created, err := f.svc.Create(ctx, user, trailMixInput(t, f.db))
	require.NoError(t, err)

	require.NoError(t, f.db.Callback().Create().Before("gorm:create").Register("test:fail_instruction_insert", func(tx *gorm.DB) {
		if tx.Statement.Table == "recipe_instructions" {
			_ = tx.AddError(errors.New("simulated failure"))
		}
	}))

	update := trailMixInputFrom(created)
	update.Name = "Renamed"
	update.Ingredients = update.Ingredients[:1]
	update.Ingredients[0].Quantity = 500
	update.Instructions = append(update.Instructions[1:], types.RecipeInstructionInput{Step: "New step", OrderIndex: 9})

	_, err = f.svc.Update(ctx, user, created.ID, update)
	require.Error(t, err)
	assert.NotErrorIs(t, err, service.ErrNotFound)

	got, err := f.svc.GetByID(ctx, user, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
	assert.ElementsMatch(t, created.Ingredients, got.Ingredients)
	assert.Equal(t, created.Instructions, got.Instructions)
}

func TestUpdate_DefaultAndForeignRecipesAreForbidden(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	owner := testhelpers.CreateTestUser(t, f.db).ID.String()
	other := testhelpers.CreateTestUser(t, f.db).ID.String()

	created, err := f.svc.Create(ctx, owner, trailMixInput(t, f.db))
	require.NoError(t, err)
	def := testhelpers.CreateDefaultRecipe(t, f.db, "Default Snack")

	_, err = f.svc.Update(ctx, other, created.ID, trailMixInputFrom(created))
	assert.ErrorIs(t, err, service.ErrForbidden)
	_, err = f.svc.Update(ctx, owner, def.ID.String(), trailMixInputFrom(created))
	assert.ErrorIs(t, err, service.ErrForbidden)
	_, err = f.svc.Update(ctx, owner, uuid.NewString(), trailMixInputFrom(created))
	assert.ErrorIs(t, err, service.ErrNotFound)

	// Defaults stay readable by id even though they cannot be written.
	got, err := f.svc.GetByID(ctx, other, def.ID.String())
	require.NoError(t, err)
	assert.True(t, got.IsDefault)
}

func TestDelete_RemovesChildrenAndMarkers(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	user := testhelpers.CreateTestUser(t, f.db).ID.String()

	created, err := f.svc.Create(ctx, user, trailMixInput(t, f.db))
	require.NoError(t, err)
	_, err = f.svc.ToggleFavourite(ctx, user, created.ID)
	require.NoError(t, err)
	_, err = f.svc.Share(ctx, user, created.ID, &types.ShareRecipeRequest{ShareWith: []string{"friend@example.com"}, Permission: "VIEW"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, user, created.ID))

	for _, model := range []interface{}{&models.RecipeIngredient{}, &models.RecipeInstruction{}, &models.UserFavouriteRecipe{}, &models.RecipeShare{}} {
		var n int64
		require.NoError(t, f.db.Model(model).Where("recipe_id = ?", created.ID).Count(&n).Error)
		assert.Zero(t, n, "%T", model)
	}
	_, err = f.svc.GetByID(ctx, user, created.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestToggleHidden(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	user := testhelpers.CreateTestUser(t, f.db).ID.String()

	created, err := f.svc.Create(ctx, user, trailMixInput(t, f.db))
	require.NoError(t, err)
	_, err = f.svc.ToggleHidden(ctx, user, created.ID)
	assert.ErrorIs(t, err, service.ErrBadRequest)

	_, err = f.svc.ToggleHidden(ctx, user, uuid.NewString())
	assert.ErrorIs(t, err, service.ErrNotFound)

	def := testhelpers.CreateDefaultRecipe(t, f.db, "Default Snack")
	hidden, err := f.svc.ToggleHidden(ctx, user, def.ID.String())
	require.NoError(t, err)
	assert.True(t, hidden)

	all, err := f.svc.GetAll(ctx, user, types.RecipeFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, created.ID, all[0].ID)

	hidden, err = f.svc.ToggleHidden(ctx, user, def.ID.String())
	require.NoError(t, err)
	assert.False(t, hidden)
	all, err = f.svc.GetAll(ctx, user, types.RecipeFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestHideAllThenUnhideAllRestoresDefaults(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	user := testhelpers.CreateTestUser(t, f.db).ID.String()
	other := testhelpers.CreateTestUser(t, f.db).ID.String()

	var ids []string
	for _, name := range []string{"One", "Two", "Three"} {
		ids = append(ids, testhelpers.CreateDefaultRecipe(t, f.db, name).ID.String())
	}
	_, err := f.svc.ToggleHidden(ctx, user, ids[0])
	require.NoError(t, err)

	n, err := f.svc.HideAllDefaults(ctx, user)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	all, err := f.svc.GetAll(ctx, user, types.RecipeFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)

	others, err := f.svc.GetAll(ctx, other, types.RecipeFilter{})
	require.NoError(t, err)
	assert.Len(t, others, 3)

	n, err = f.svc.HideAllDefaults(ctx, user)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = f.svc.UnhideAllDefaults(ctx, user)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	all, err = f.svc.GetAll(ctx, user, types.RecipeFilter{})
	require.NoError(t, err)
	got := make([]string, len(all))
	for i, r := range all {
		got[i] = r.ID
	}
	assert.ElementsMatch(t, ids, got)
}

func TestGetAll_FiltersAndSorting(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	user := testhelpers.CreateTestUser(t, f.db).ID.String()

	mk := func(name string, servings, prep, cook int, meals ...models.MealType) string {
		in := trailMixInputNamed(t, f.db, name)
		in.Name = name
		in.Description = name + " description"
		in.Servings = intPtr(servings)
		in.PrepTime = intPtr(prep)
		in.CookTime = intPtr(cook)
		in.MealType = meals
		r, err := f.svc.Create(ctx, user, in)
		require.NoError(t, err)
		return r.ID
	}
	mk("Pancakes", 4, 10, 15, models.MealTypeBreakfast)
	soup := mk("Soup", 2, 5, 40, models.MealTypeLunch, models.MealTypeDinner)
	mk("Cookies", 12, 20, 0, models.MealTypeDessert, models.MealTypeSnack)

	names := func(filter types.RecipeFilter) []string {
		t.Helper()
		rs, err := f.svc.GetAll(ctx, user, filter)
		require.NoError(t, err)
		out := make([]string, len(rs))
		for i, r := range rs {
			out[i] = r.Name
		}
		return out
	}

	assert.ElementsMatch(t, []string{"Soup", "Cookies"}, names(types.RecipeFilter{MealTypes: []models.MealType{models.MealTypeDinner, models.MealTypeSnack}}))
	assert.Equal(t, []string{"Soup"}, names(types.RecipeFilter{Query: "SOUP"}))
	assert.Equal(t, []string{"Cookies", "Pancakes", "Soup"}, names(types.RecipeFilter{SortBy: types.SortByName}))
	assert.Equal(t, []string{"Soup", "Pancakes", "Cookies"}, names(types.RecipeFilter{SortBy: types.SortByName, SortOrder: "desc"}))
	assert.Equal(t, []string{"Cookies", "Pancakes", "Soup"}, names(types.RecipeFilter{SortBy: types.SortByTotalTime}))
	assert.Equal(t, []string{"Cookies", "Pancakes", "Soup"}, names(types.RecipeFilter{SortBy: types.SortByServings, SortOrder: "desc"}))

	_, err := f.svc.ToggleFavourite(ctx, user, soup)
	require.NoError(t, err)
	assert.Equal(t, []string{"Soup"}, names(types.RecipeFilter{FavouritesOnly: true}))

	_, err = f.svc.GetAll(ctx, user, types.RecipeFilter{SortBy: "calories"})
	var verr *service.ValidationError
	assert.ErrorAs(t, err, &verr)

}

func TestShare_UpsertsAndNotifies(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	owner := testhelpers.CreateTestUser(t, f.db)
	friend := testhelpers.CreateTestUser(t, f.db)
	created, err := f.svc.Create(ctx, owner.ID.String(), trailMixInput(t, f.db))
	require.NoError(t, err)

	shares, err := f.svc.Share(ctx, owner.ID.String(), created.ID, &types.ShareRecipeRequest{
		ShareWith:  []string{" " + friend.Email + " ", "new@example.com", "NEW@example.com", friend.ID.String()},
		Permission: "VIEW",
	})
	require.NoError(t, err)
	require.Len(t, shares, 3)

	byTarget := map[string]*types.RecipeShareResponse{}
	for _, s := range shares {
		byTarget[s.SharedWith] = s
	}
	require.NotNil(t, byTarget[friend.Email].SharedWithUserID)
	assert.Equal(t, friend.ID.String(), *byTarget[friend.Email].SharedWithUserID)
	assert.Nil(t, byTarget["new@example.com"].SharedWithUserID)
	assert.Equal(t, friend.ID.String(), *byTarget[friend.ID.String()].SharedWithUserID)

	require.Eventually(t, func() bool { return len(f.notifier.Sent()) == 2 }, 2*time.Second, 10*time.Millisecond)
	for _, s := range f.notifier.Sent() {
		assert.Equal(t, "Trail Mix", s.RecipeName)
		assert.Equal(t, owner.Name, s.SharedBy)
		assert.Equal(t, models.SharePermissionView, s.Permission)
	}

	shares, err = f.svc.Share(ctx, owner.ID.String(), created.ID, &types.ShareRecipeRequest{
		ShareWith:  []string{"new@example.com"},
		Permission: "EDIT",
	})
	require.NoError(t, err)
	require.Len(t, shares, 3)
	for _, s := range shares {
		if s.SharedWith == "new@example.com" {
			assert.Equal(t, "EDIT", s.Permission)
		} else {
			assert.Equal(t, "VIEW", s.Permission)
		}
	}

	_, err = f.svc.Share(ctx, owner.ID.String(), created.ID, &types.ShareRecipeRequest{Permission: "VIEW"})
	var verr *service.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = f.svc.Share(ctx, friend.ID.String(), created.ID, &types.ShareRecipeRequest{ShareWith: []string{"x@example.com"}, Permission: "VIEW"})
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func trailMixInputFrom(r *types.RecipeResponse) *types.RecipeInput {
	servings := r.Servings
	in := &types.RecipeInput{
		Name:        r.Name,
		Description: r.Description,
		Servings:    &servings,
		PrepTime:    r.PrepTime,
		CookTime:    r.CookTime,
		SourceURL:   r.SourceURL,
		MealType:    r.MealType,
	}
	for _, line := range r.Ingredients {
		in.Ingredients = append(in.Ingredients, types.RecipeIngredientInput{
			ID:           line.ID,
			IngredientID: line.IngredientID,
			Quantity:     line.Quantity,
			Unit:         line.Unit,
			Notes:        line.Notes,
		})
	}
	for _, step := range r.Instructions {
		in.Instructions = append(in.Instructions, types.RecipeInstructionInput{
			ID:         step.ID,
			Step:       step.Step,
			OrderIndex: step.OrderIndex,
		})
	}
	return in
}
