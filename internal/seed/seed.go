// Package seed inserts the default recipes every user sees until they hide them.
package seed

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Rahnken/recipe-tracker/internal/logger"
	"github.com/Rahnken/recipe-tracker/internal/models"
	"github.com/Rahnken/recipe-tracker/internal/repository"
	"github.com/Rahnken/recipe-tracker/internal/service"
)

// DefaultRecipes inserts every default recipe that is not present yet and
// returns how many were created. Ingredients are matched by name and created
// once, so recipes sharing an ingredient reference the same row.
func DefaultRecipes(ctx context.Context, db *gorm.DB, repos *repository.Repos, log *logger.Logger) (int, error) {
	created := 0
	for _, def := range defaultRecipes {
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			existing, err := repos.Recipes.GetDefaultByName(ctx, tx, def.Name)
			if err != nil {
				return err
			}
			if existing != nil {
				log.Debug("default recipe already present", "name", def.Name)
				return nil
			}
			if err := insertDefault(ctx, tx, repos, def); err != nil {
				return err
			}
			created++
			log.Info("created default recipe", "name", def.Name)
			return nil
		})
		if err != nil {
			return created, fmt.Errorf("seed %q: %w", def.Name, err)
		}
	}
	return created, nil
}

func insertDefault(ctx context.Context, tx *gorm.DB, repos *repository.Repos, def defaultRecipe) error {
	prep, cook := def.PrepTime, def.CookTime
	recipe := &models.Recipe{
		ID:          uuid.New(),
		Name:        def.Name,
		Description: def.Description,
		Servings:    def.Servings,
		PrepTime:    &prep,
		CookTime:    &cook,
		MealType:    def.MealType,
		IsDefault:   true,
		CreatedBy:   models.SystemOwner,
	}

	lines := make([]*models.RecipeIngredient, 0, len(def.Ingredients))
	names := make([]string, 0, len(def.Ingredients))
	for _, l := range def.Ingredients {
		ingredient, err := repos.Ingredients.EnsureByName(ctx, tx, l.Name)
		if err != nil {
			return fmt.Errorf("ingredient %q: %w", l.Name, err)
		}
		lines = append(lines, &models.RecipeIngredient{
			RecipeID:     recipe.ID,
			IngredientID: ingredient.ID,
			Quantity:     l.Quantity,
			Unit:         l.Unit,
			Notes:        l.Notes,
		})
		names = append(names, l.Name)
	}
	sort.Strings(names)
	recipe.Embedding = service.GenerateEmbedding(service.RecipeEmbeddingText(recipe, names))

	if err := repos.Recipes.Create(ctx, tx, recipe); err != nil {
		return err
	}
	if err := repos.Recipes.CreateIngredients(ctx, tx, lines); err != nil {
		return err
	}

	steps := make([]*models.RecipeInstruction, 0, len(def.Instructions))
	for i, step := range def.Instructions {
		steps = append(steps, &models.RecipeInstruction{
			RecipeID:   recipe.ID,
			Step:       step,
			OrderIndex: i,
		})
	}
	return repos.Recipes.CreateInstructions(ctx, tx, steps)
}
