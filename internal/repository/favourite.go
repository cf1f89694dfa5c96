package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Rahnken/recipe-tracker/internal/logger"
	"github.com/Rahnken/recipe-tracker/internal/models"
)

type FavouriteRepo interface {
	Add(ctx context.Context, tx *gorm.DB, userID string, recipeID uuid.UUID) error
	Remove(ctx context.Context, tx *gorm.DB, userID string, recipeID uuid.UUID) (bool, error)
	RecipeIDSet(ctx context.Context, tx *gorm.DB, userID string, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

type favouriteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFavouriteRepo(db *gorm.DB, baseLog *logger.Logger) FavouriteRepo {
	return &favouriteRepo{db: db, log: baseLog.With("repo", "FavouriteRepo")}
}

// Add marks the recipe as a favourite; an existing pair is left untouched.
func (r *favouriteRepo) Add(ctx context.Context, tx *gorm.DB, userID string, recipeID uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.UserFavouriteRecipe{UserID: userID, RecipeID: recipeID}).Error
}

// Remove deletes the pair and reports whether it existed.
func (r *favouriteRepo) Remove(ctx context.Context, tx *gorm.DB, userID string, recipeID uuid.UUID) (bool, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.UserFavouriteRecipe{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *favouriteRepo) RecipeIDSet(ctx context.Context, tx *gorm.DB, userID string, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	out := make(map[uuid.UUID]bool, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return out, nil
	}
	var ids []uuid.UUID
	if err := t.WithContext(ctx).
		Model(&models.UserFavouriteRecipe{}).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
