package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Rahnken/recipe-tracker/internal/logger"
	"github.com/Rahnken/recipe-tracker/internal/models"
)

type HiddenRepo interface {
	Add(ctx context.Context, tx *gorm.DB, userID string, recipeID uuid.UUID) error
	Remove(ctx context.Context, tx *gorm.DB, userID string, recipeID uuid.UUID) (bool, error)
	AddMany(ctx context.Context, tx *gorm.DB, userID string, recipeIDs []uuid.UUID) (int64, error)
	RemoveAll(ctx context.Context, tx *gorm.DB, userID string) (int64, error)
	RecipeIDs(ctx context.Context, tx *gorm.DB, userID string) ([]uuid.UUID, error)
}

type hiddenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHiddenRepo(db *gorm.DB, baseLog *logger.Logger) HiddenRepo {
	return &hiddenRepo{db: db, log: baseLog.With("repo", "HiddenRepo")}
}

func (r *hiddenRepo) Add(ctx context.Context, tx *gorm.DB, userID string, recipeID uuid.UUID) error {
	_, err := r.AddMany(ctx, tx, userID, []uuid.UUID{recipeID})
	return err
}

func (r *hiddenRepo) Remove(ctx context.Context, tx *gorm.DB, userID string, recipeID uuid.UUID) (bool, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.HiddenDefaultRecipe{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// AddMany inserts one hidden row per recipe, skipping pairs that already
// exist, and returns the number of rows actually inserted.
func (r *hiddenRepo) AddMany(ctx context.Context, tx *gorm.DB, userID string, recipeIDs []uuid.UUID) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(recipeIDs) == 0 {
		return 0, nil
	}
	rows := make([]*models.HiddenDefaultRecipe, 0, len(recipeIDs))
	for _, id := range recipeIDs {
		rows = append(rows, &models.HiddenDefaultRecipe{UserID: userID, RecipeID: id})
	}
	res := t.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *hiddenRepo) RemoveAll(ctx context.Context, tx *gorm.DB, userID string) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.HiddenDefaultRecipe{})
	return res.RowsAffected, res.Error
}

func (r *hiddenRepo) RecipeIDs(ctx context.Context, tx *gorm.DB, userID string) ([]uuid.UUID, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	ids := []uuid.UUID{}
	if err := t.WithContext(ctx).
		Model(&models.HiddenDefaultRecipe{}).
		Where("user_id = ?", userID).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
