package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Rahnken/recipe-tracker/internal/logger"
	"github.com/Rahnken/recipe-tracker/internal/models"
)

type ShareRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, shares []*models.RecipeShare) error
	ListByRecipe(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) ([]*models.RecipeShare, error)
}

type shareRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewShareRepo(db *gorm.DB, baseLog *logger.Logger) ShareRepo {
	return &shareRepo{db: db, log: baseLog.With("repo", "ShareRepo")}
}

// Upsert writes one row per (recipe, target); re-sharing replaces the permission.
func (r *shareRepo) Upsert(ctx context.Context, tx *gorm.DB, shares []*models.RecipeShare) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(shares) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "recipe_id"}, {Name: "shared_with"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"permission",
				"shared_with_user_id",
				"shared_by",
				"updated_at",
			}),
		}).
		Create(&shares).Error
}

func (r *shareRepo) ListByRecipe(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) ([]*models.RecipeShare, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	out := []*models.RecipeShare{}
	if err := t.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
