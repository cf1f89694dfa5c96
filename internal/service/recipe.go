package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Rahnken/recipe-tracker/internal/logger"
	"github.com/Rahnken/recipe-tracker/internal/models"
	"github.com/Rahnken/recipe-tracker/internal/repository"
	"github.com/Rahnken/recipe-tracker/internal/types"
)

// RecipeService handles recipe operations
type RecipeService struct {
	db       *gorm.DB
	repos    *repository.Repos
	notifier IEmailService
	log      *logger.Logger
}

// NewRecipeService creates a new RecipeService instance. notifier may be nil,
// in which case share notifications are skipped.
func NewRecipeService(db *gorm.DB, repos *repository.Repos, notifier IEmailService, baseLog *logger.Logger) *RecipeService {
	return &RecipeService{
		db:       db,
		repos:    repos,
		notifier: notifier,
		log:      baseLog.With("service", "RecipeService"),
	}
}

// GetAll returns the caller's own recipes plus every default recipe the
// caller has not hidden.
func (s *RecipeService) GetAll(ctx context.Context, callerID string, filter types.RecipeFilter) ([]*types.RecipeResponse, error) {
	if err := validateStruct(&filter); err != nil {
		return nil, err
	}

	q := repository.RecipeQuery{
		MealTypes:      filter.MealTypes,
		FavouritesOnly: filter.FavouritesOnly,
		Text:           filter.Query,
		SortBy:         filter.SortBy,
		Desc:           filter.SortOrder == "desc",
	}
	if filter.SortBy == types.SortByCreatedAt {
		q.SortBy = ""
	}
	if strings.TrimSpace(filter.Query) != "" {
		vec := GenerateEmbedding(filter.Query)
		q.Embedding = &vec
	}

	recipes, err := s.repos.Recipes.ListVisible(ctx, nil, callerID, q)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}

	ids := make([]uuid.UUID, len(recipes))
	for i, r := range recipes {
		ids[i] = r.ID
	}
	favs, err := s.repos.Favourites.RecipeIDSet(ctx, nil, callerID, ids)
	if err != nil {
		return nil, fmt.Errorf("load favourites: %w", err)
	}

	out := make([]*types.RecipeResponse, len(recipes))
	for i, r := range recipes {
		out[i] = toRecipeResponse(r, favs[r.ID])
	}
	return out, nil
}

// GetByID returns a single recipe the caller may read.
func (s *RecipeService) GetByID(ctx context.Context, callerID, id string) (*types.RecipeResponse, error) {
	recipeID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	recipe, err := s.repos.Recipes.GetByID(ctx, nil, recipeID)
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	if recipe == nil {
		return nil, fmt.Errorf("recipe %s: %w", id, ErrNotFound)
	}
	if !canRead(recipe, callerID) {
		return nil, fmt.Errorf("recipe %s: %w", id, ErrForbidden)
	}

	favs, err := s.repos.Favourites.RecipeIDSet(ctx, nil, callerID, []uuid.UUID{recipe.ID})
	if err != nil {
		return nil, fmt.Errorf("load favourites: %w", err)
	}
	return toRecipeResponse(recipe, favs[recipe.ID]), nil
}

// Create validates input and stores the recipe with all of its ingredients
// and instructions in one transaction.
func (s *RecipeService) Create(ctx context.Context, callerID string, input *types.RecipeInput) (*types.RecipeResponse, error) {
	if err := normalizeRecipeInput(input); err != nil {
		return nil, err
	}

	var created *models.Recipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := s.createInTx(ctx, tx, callerID, input)
		created = r
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("recipe created", "recipe_id", created.ID, "user_id", callerID)
	return s.GetByID(ctx, callerID, created.ID.String())
}

func (s *RecipeService) createInTx(ctx context.Context, tx *gorm.DB, ownerID string, input *types.RecipeInput) (*models.Recipe, error) {
	names, err := s.ingredientNames(ctx, tx, input.Ingredients)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		ID:        uuid.New(),
		CreatedBy: ownerID,
	}
	applyScalars(recipe, input)
	recipe.Embedding = GenerateEmbedding(RecipeEmbeddingText(recipe, sortedNames(names)))

	if err := s.repos.Recipes.Create(ctx, tx, recipe); err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}

	ingredients := make([]*models.RecipeIngredient, 0, len(input.Ingredients))
	for _, in := range input.Ingredients {
		ingredients = append(ingredients, newRecipeIngredient(recipe.ID, in))
	}
	if err := s.repos.Recipes.CreateIngredients(ctx, tx, ingredients); err != nil {
		return nil, fmt.Errorf("create recipe ingredients: %w", err)
	}

	steps := make([]*models.RecipeInstruction, 0, len(input.Instructions))
	for _, in := range input.Instructions {
		steps = append(steps, newRecipeInstruction(recipe.ID, in))
	}
	if err := s.repos.Recipes.CreateInstructions(ctx, tx, steps); err != nil {
		return nil, fmt.Errorf("create recipe instructions: %w", err)
	}
	return recipe, nil
}

// Update replaces the recipe's fields and reconciles its child rows against
// the payload. The whole sequence runs in one transaction with the recipe
// row locked, so a failure leaves the recipe exactly as it was.
func (s *RecipeService) Update(ctx context.Context, callerID, id string, input *types.RecipeInput) (*types.RecipeResponse, error) {
	if err := normalizeRecipeInput(input); err != nil {
		return nil, err
	}
	recipeID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := s.repos.Recipes.LockByID(ctx, tx, recipeID)
		if err != nil {
			return fmt.Errorf("lock recipe: %w", err)
		}
		if recipe == nil {
			return fmt.Errorf("recipe %s: %w", id, ErrNotFound)
		}
		if !canWrite(recipe, callerID) {
			return fmt.Errorf("recipe %s: %w", id, ErrForbidden)
		}

		names, err := s.ingredientNames(ctx, tx, input.Ingredients)
		if err != nil {
			return err
		}

		if err := s.reconcileIngredients(ctx, tx, recipe, input.Ingredients); err != nil {
			return err
		}
		if err := s.reconcileInstructions(ctx, tx, recipe, input.Instructions); err != nil {
			return err
		}

		applyScalars(recipe, input)
		recipe.Embedding = GenerateEmbedding(RecipeEmbeddingText(recipe, sortedNames(names)))
		if err := s.repos.Recipes.UpdateScalars(ctx, tx, recipe); err != nil {
			return fmt.Errorf("update recipe: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("recipe updated", "recipe_id", recipeID, "user_id", callerID)
	return s.GetByID(ctx, callerID, id)
}

func (s *RecipeService) reconcileIngredients(ctx context.Context, tx *gorm.DB, recipe *models.Recipe, incoming []types.RecipeIngredientInput) error {
	existing := make([]uuid.UUID, len(recipe.Ingredients))
	for i, ri := range recipe.Ingredients {
		existing[i] = ri.ID
	}
	plan := Diff(existing, incoming, func(in types.RecipeIngredientInput) string { return in.ID })

	if err := s.repos.Recipes.DeleteIngredients(ctx, tx, recipe.ID, plan.ToDelete); err != nil {
		return fmt.Errorf("delete recipe ingredients: %w", err)
	}
	for _, in := range plan.ToUpdate {
		row := newRecipeIngredient(recipe.ID, in)
		row.ID = uuid.MustParse(in.ID)
		if err := s.repos.Recipes.UpdateIngredient(ctx, tx, row); err != nil {
			return fmt.Errorf("update recipe ingredient %s: %w", in.ID, err)
		}
	}
	rows := make([]*models.RecipeIngredient, 0, len(plan.ToInsert))
	for _, in := range plan.ToInsert {
		rows = append(rows, newRecipeIngredient(recipe.ID, in))
	}
	if err := s.repos.Recipes.CreateIngredients(ctx, tx, rows); err != nil {
		return fmt.Errorf("create recipe ingredients: %w", err)
	}
	return nil
}

func (s *RecipeService) reconcileInstructions(ctx context.Context, tx *gorm.DB, recipe *models.Recipe, incoming []types.RecipeInstructionInput) error {
	existing := make([]uuid.UUID, len(recipe.Instructions))
	for i, step := range recipe.Instructions {
		existing[i] = step.ID
	}
	plan := Diff(existing, incoming, func(in types.RecipeInstructionInput) string { return in.ID })

	if err := s.repos.Recipes.DeleteInstructions(ctx, tx, recipe.ID, plan.ToDelete); err != nil {
		return fmt.Errorf("delete recipe instructions: %w", err)
	}
	for _, in := range plan.ToUpdate {
		row := newRecipeInstruction(recipe.ID, in)
		row.ID = uuid.MustParse(in.ID)
		if err := s.repos.Recipes.UpdateInstruction(ctx, tx, row); err != nil {
			return fmt.Errorf("update recipe instruction %s: %w", in.ID, err)
		}
	}
	rows := make([]*models.RecipeInstruction, 0, len(plan.ToInsert))
	for _, in := range plan.ToInsert {
		rows = append(rows, newRecipeInstruction(recipe.ID, in))
	}
	if err := s.repos.Recipes.CreateInstructions(ctx, tx, rows); err != nil {
		return fmt.Errorf("create recipe instructions: %w", err)
	}
	return nil
}

// Delete removes an owned recipe with its children, favourites, hidden
// markers and shares.
func (s *RecipeService) Delete(ctx context.Context, callerID, id string) error {
	recipeID, err := parseID(id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := s.repos.Recipes.FindByID(ctx, tx, recipeID)
		if err != nil {
			return fmt.Errorf("get recipe: %w", err)
		}
		if recipe == nil {
			return fmt.Errorf("recipe %s: %w", id, ErrNotFound)
		}
		if !canWrite(recipe, callerID) {
			return fmt.Errorf("recipe %s: %w", id, ErrForbidden)
		}
		if err := s.repos.Recipes.Delete(ctx, tx, recipeID); err != nil {
			return fmt.Errorf("delete recipe: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("recipe deleted", "recipe_id", recipeID, "user_id", callerID)
	return nil
}

// ToggleFavourite flips the caller's favourite marker on a recipe and
// returns the new state.
func (s *RecipeService) ToggleFavourite(ctx context.Context, callerID, recipeID string) (bool, error) {
	id, err := parseID(recipeID)
	if err != nil {
		return false, err
	}
	recipe, err := s.repos.Recipes.FindByID(ctx, nil, id)
	if err != nil {
		return false, fmt.Errorf("get recipe: %w", err)
	}
	if recipe == nil {
		return false, fmt.Errorf("recipe %s: %w", recipeID, ErrNotFound)
	}

	removed, err := s.repos.Favourites.Remove(ctx, nil, callerID, id)
	if err != nil {
		return false, fmt.Errorf("remove favourite: %w", err)
	}
	if removed {
		return false, nil
	}
	if err := s.repos.Favourites.Add(ctx, nil, callerID, id); err != nil {
		return false, fmt.Errorf("add favourite: %w", err)
	}
	return true, nil
}

// ToggleHidden flips the caller's hidden marker on a default recipe and
// returns the new state.
func (s *RecipeService) ToggleHidden(ctx context.Context, callerID, recipeID string) (bool, error) {
	id, err := parseID(recipeID)
	if err != nil {
		return false, err
	}
	recipe, err := s.repos.Recipes.FindByID(ctx, nil, id)
	if err != nil {
		return false, fmt.Errorf("get recipe: %w", err)
	}
	if recipe == nil {
		return false, fmt.Errorf("recipe %s: %w", recipeID, ErrNotFound)
	}
	if !recipe.IsDefault {
		return false, fmt.Errorf("only default recipes can be hidden: %w", ErrBadRequest)
	}

	removed, err := s.repos.Hidden.Remove(ctx, nil, callerID, id)
	if err != nil {
		return false, fmt.Errorf("unhide recipe: %w", err)
	}
	if removed {
		return false, nil
	}
	if err := s.repos.Hidden.Add(ctx, nil, callerID, id); err != nil {
		return false, fmt.Errorf("hide recipe: %w", err)
	}
	return true, nil
}

// HideAllDefaults hides every default recipe for the caller and returns how
// many were newly hidden.
func (s *RecipeService) HideAllDefaults(ctx context.Context, callerID string) (int64, error) {
	var inserted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids, err := s.repos.Recipes.DefaultIDs(ctx, tx)
		if err != nil {
			return fmt.Errorf("list default recipes: %w", err)
		}
		inserted, err = s.repos.Hidden.AddMany(ctx, tx, callerID, ids)
		if err != nil {
			return fmt.Errorf("hide default recipes: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// UnhideAllDefaults removes every hidden marker of the caller.
func (s *RecipeService) UnhideAllDefaults(ctx context.Context, callerID string) (int64, error) {
	removed, err := s.repos.Hidden.RemoveAll(ctx, nil, callerID)
	if err != nil {
		return 0, fmt.Errorf("unhide default recipes: %w", err)
	}
	return removed, nil
}

// Share records a VIEW or EDIT grant per target. Targets are user ids or
// email addresses; sharing again with the same target replaces the
// permission. Email targets are notified after the grants are stored.
func (s *RecipeService) Share(ctx context.Context, callerID, recipeID string, req *types.ShareRecipeRequest) ([]*types.RecipeShareResponse, error) {
	targets := normalizeShareTargets(req.ShareWith)
	req.ShareWith = targets
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	id, err := parseID(recipeID)
	if err != nil {
		return nil, err
	}
	permission := models.SharePermission(req.Permission)

	var (
		recipe *models.Recipe
		emails []string
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		recipe, err = s.repos.Recipes.FindByID(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("get recipe: %w", err)
		}
		if recipe == nil {
			return fmt.Errorf("recipe %s: %w", recipeID, ErrNotFound)
		}
		if !canWrite(recipe, callerID) {
			return fmt.Errorf("recipe %s: %w", recipeID, ErrForbidden)
		}

		for _, t := range targets {
			if isEmailTarget(t) {
				emails = append(emails, t)
			}
		}
		users, err := s.repos.Users.GetByEmails(ctx, tx, emails)
		if err != nil {
			return fmt.Errorf("resolve share targets: %w", err)
		}
		byEmail := make(map[string]string, len(users))
		for _, u := range users {
			byEmail[strings.ToLower(u.Email)] = u.ID.String()
		}

		now := time.Now().UTC()
		rows := make([]*models.RecipeShare, 0, len(targets))
		for _, t := range targets {
			row := &models.RecipeShare{
				RecipeID:   id,
				SharedWith: t,
				Permission: permission,
				SharedBy:   callerID,
				UpdatedAt:  now,
			}
			if isEmailTarget(t) {
				if uid, ok := byEmail[t]; ok {
					row.SharedWithUserID = &uid
				}
			} else {
				uid := t
				row.SharedWithUserID = &uid
			}
			rows = append(rows, row)
		}
		if err := s.repos.Shares.Upsert(ctx, tx, rows); err != nil {
			return fmt.Errorf("store shares: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("recipe shared", "recipe_id", id, "user_id", callerID, "targets", len(targets), "permission", permission)
	s.notifyShare(callerID, recipe, emails, permission)

	return s.ListShares(ctx, callerID, recipeID)
}

func (s *RecipeService) notifyShare(callerID string, recipe *models.Recipe, emails []string, permission models.SharePermission) {
	if s.notifier == nil || len(emails) == 0 {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		var sharedBy *models.User
		if uid, err := uuid.Parse(callerID); err == nil {
			sharedBy, _ = s.repos.Users.GetByID(ctx, nil, uid)
		}
		for _, to := range emails {
			if err := s.notifier.SendShareNotification(to, recipe, sharedBy, permission); err != nil {
				s.log.Warn("share notification failed", "recipe_id", recipe.ID, "to", to, "error", err)
			}
		}
	}()
}

// ListShares returns the grants recorded on an owned recipe.
func (s *RecipeService) ListShares(ctx context.Context, callerID, recipeID string) ([]*types.RecipeShareResponse, error) {
	id, err := parseID(recipeID)
	if err != nil {
		return nil, err
	}
	recipe, err := s.repos.Recipes.FindByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	if recipe == nil {
		return nil, fmt.Errorf("recipe %s: %w", recipeID, ErrNotFound)
	}
	if !canWrite(recipe, callerID) {
		return nil, fmt.Errorf("recipe %s: %w", recipeID, ErrForbidden)
	}

	shares, err := s.repos.Shares.ListByRecipe(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("list shares: %w", err)
	}
	out := make([]*types.RecipeShareResponse, len(shares))
	for i, sh := range shares {
		out[i] = &types.RecipeShareResponse{
			ID:               sh.ID.String(),
			RecipeID:         sh.RecipeID.String(),
			SharedWith:       sh.SharedWith,
			SharedWithUserID: sh.SharedWithUserID,
			Permission:       string(sh.Permission),
			SharedBy:         sh.SharedBy,
			CreatedAt:        sh.CreatedAt,
		}
	}
	return out, nil
}

// ingredientNames checks that every referenced ingredient exists and returns
// their names keyed by id.
func (s *RecipeService) ingredientNames(ctx context.Context, tx *gorm.DB, lines []types.RecipeIngredientInput) (map[uuid.UUID]string, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, uuid.MustParse(l.IngredientID))
	}
	found, err := s.repos.Ingredients.GetByIDs(ctx, tx, ids)
	if err != nil {
		return nil, fmt.Errorf("load ingredients: %w", err)
	}
	names := make(map[uuid.UUID]string, len(found))
	for _, ing := range found {
		names[ing.ID] = ing.Name
	}
	for _, id := range ids {
		if _, ok := names[id]; !ok {
			return nil, fmt.Errorf("ingredient %s: %w", id, ErrNotFound)
		}
	}
	return names, nil
}

func canRead(r *models.Recipe, callerID string) bool {
	return r.IsDefault || r.CreatedBy == callerID
}

func canWrite(r *models.Recipe, callerID string) bool {
	return !r.IsDefault && r.CreatedBy == callerID
}

func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("recipe %s: %w", id, ErrNotFound)
	}
	return parsed, nil
}

func applyScalars(r *models.Recipe, in *types.RecipeInput) {
	r.Name = in.Name
	r.Description = in.Description
	r.Servings = 1
	if in.Servings != nil {
		r.Servings = *in.Servings
	}
	r.PrepTime = in.PrepTime
	r.CookTime = in.CookTime
	r.SourceURL = in.SourceURL
	r.MealType = dedupeMealTypes(in.MealType)
}

func dedupeMealTypes(in []models.MealType) models.MealTypes {
	out := make(models.MealTypes, 0, len(in))
	for _, m := range models.AllMealTypes {
		for _, x := range in {
			if x == m {
				out = append(out, m)
				break
			}
		}
	}
	return out
}

func newRecipeIngredient(recipeID uuid.UUID, in types.RecipeIngredientInput) *models.RecipeIngredient {
	return &models.RecipeIngredient{
		RecipeID:     recipeID,
		IngredientID: uuid.MustParse(in.IngredientID),
		Quantity:     in.Quantity,
		Unit:         in.Unit,
		Notes:        in.Notes,
	}
}

func newRecipeInstruction(recipeID uuid.UUID, in types.RecipeInstructionInput) *models.RecipeInstruction {
	return &models.RecipeInstruction{
		RecipeID:   recipeID,
		Step:       in.Step,
		OrderIndex: in.OrderIndex,
	}
}

func sortedNames(names map[uuid.UUID]string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func isEmailTarget(t string) bool {
	return strings.Contains(t, "@")
}

// normalizeShareTargets trims targets, lower-cases emails and drops repeats.
func normalizeShareTargets(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, t := range in {
		t = strings.TrimSpace(t)
		if isEmailTarget(t) {
			t = strings.ToLower(t)
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func toRecipeResponse(r *models.Recipe, isFavourite bool) *types.RecipeResponse {
	resp := &types.RecipeResponse{
		ID:           r.ID.String(),
		Name:         r.Name,
		Description:  r.Description,
		Servings:     r.Servings,
		PrepTime:     r.PrepTime,
		CookTime:     r.CookTime,
		TotalTime:    r.TotalTime(),
		SourceURL:    r.SourceURL,
		MealType:     []models.MealType(r.MealType),
		IsDefault:    r.IsDefault,
		CreatedBy:    r.CreatedBy,
		IsFavourite:  isFavourite,
		Ingredients:  make([]types.RecipeIngredientResponse, 0, len(r.Ingredients)),
		Instructions: make([]types.RecipeInstructionResponse, 0, len(r.Instructions)),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if resp.MealType == nil {
		resp.MealType = []models.MealType{}
	}
	for _, ri := range r.Ingredients {
		line := types.RecipeIngredientResponse{
			ID:           ri.ID.String(),
			IngredientID: ri.IngredientID.String(),
			Quantity:     ri.Quantity,
			Unit:         ri.Unit,
			Notes:        ri.Notes,
		}
		if ri.Ingredient != nil {
			line.IngredientName = ri.Ingredient.Name
		}
		resp.Ingredients = append(resp.Ingredients, line)
	}
	steps := append([]models.RecipeInstruction(nil), r.Instructions...)
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].OrderIndex < steps[j].OrderIndex })
	for _, step := range steps {
		resp.Instructions = append(resp.Instructions, types.RecipeInstructionResponse{
			ID:         step.ID.String(),
			Step:       step.Step,
			OrderIndex: step.OrderIndex,
		})
	}
	return resp
}
