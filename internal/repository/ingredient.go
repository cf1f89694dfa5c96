package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Rahnken/recipe-tracker/internal/logger"
	"github.com/Rahnken/recipe-tracker/internal/models"
)

type IngredientRepo interface {
	List(ctx context.Context, tx *gorm.DB) ([]*models.Ingredient, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Ingredient, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*models.Ingredient, error)
	Create(ctx context.Context, tx *gorm.DB, ingredient *models.Ingredient) error
	Update(ctx context.Context, tx *gorm.DB, ingredient *models.Ingredient) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	CountReferences(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error)
	EnsureByName(ctx context.Context, tx *gorm.DB, name string) (*models.Ingredient, error)
}

type ingredientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIngredientRepo(db *gorm.DB, baseLog *logger.Logger) IngredientRepo {
	return &ingredientRepo{db: db, log: baseLog.With("repo", "IngredientRepo")}
}

func (r *ingredientRepo) List(ctx context.Context, tx *gorm.DB) ([]*models.Ingredient, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*models.Ingredient
	if err := t.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ingredientRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Ingredient, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var ingredient models.Ingredient
	err := t.WithContext(ctx).Where("id = ?", id).First(&ingredient).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (r *ingredientRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*models.Ingredient, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	out := []*models.Ingredient{}
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ingredientRepo) Create(ctx context.Context, tx *gorm.DB, ingredient *models.Ingredient) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Create(ingredient).Error
}

func (r *ingredientRepo) Update(ctx context.Context, tx *gorm.DB, ingredient *models.Ingredient) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Model(&models.Ingredient{}).
		Where("id = ?", ingredient.ID).
		Updates(map[string]interface{}{
			"name":     ingredient.Name,
			"category": ingredient.Category,
		}).Error
}

func (r *ingredientRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Where("id = ?", id).Delete(&models.Ingredient{}).Error
}

func (r *ingredientRepo) CountReferences(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var count int64
	if err := t.WithContext(ctx).
		Model(&models.RecipeIngredient{}).
		Where("ingredient_id = ?", id).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// EnsureByName returns the ingredient with the given name, creating it first
// when it does not exist yet.
func (r *ingredientRepo) EnsureByName(ctx context.Context, tx *gorm.DB, name string) (*models.Ingredient, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	row := &models.Ingredient{Name: name}
	if err := t.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(row).Error; err != nil {
		return nil, err
	}

	var ingredient models.Ingredient
	if err := t.WithContext(ctx).Where("name = ?", name).First(&ingredient).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}
