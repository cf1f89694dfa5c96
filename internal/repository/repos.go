package repository

import (
	"gorm.io/gorm"

	"github.com/Rahnken/recipe-tracker/internal/logger"
)

// Repos bundles every repository over one database handle.
type Repos struct {
	Recipes     RecipeRepo
	Ingredients IngredientRepo
	Favourites  FavouriteRepo
	Hidden      HiddenRepo
	Shares      ShareRepo
	Users       UserRepo
}

func New(db *gorm.DB, baseLog *logger.Logger) *Repos {
	return &Repos{
		Recipes:     NewRecipeRepo(db, baseLog),
		Ingredients: NewIngredientRepo(db, baseLog),
		Favourites:  NewFavouriteRepo(db, baseLog),
		Hidden:      NewHiddenRepo(db, baseLog),
		Shares:      NewShareRepo(db, baseLog),
		Users:       NewUserRepo(db, baseLog),
	}
}
