package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Rahnken/recipe-tracker/internal/logger"
	"github.com/Rahnken/recipe-tracker/internal/models"
)

// RecipeQuery narrows a visible-recipe listing.
type RecipeQuery struct {
	MealTypes      []models.MealType
	FavouritesOnly bool
	Text           string
	// Embedding ranks text matches by vector distance on postgres.
	Embedding *pgvector.Vector
	SortBy    string
	Desc      bool
}

type RecipeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, recipe *models.Recipe) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Recipe, error)
	FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Recipe, error)
	LockByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Recipe, error)
	ListVisible(ctx context.Context, tx *gorm.DB, userID string, q RecipeQuery) ([]*models.Recipe, error)
	ListOwned(ctx context.Context, tx *gorm.DB, ownerID string) ([]*models.Recipe, error)
	DefaultIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error)
	GetDefaultByName(ctx context.Context, tx *gorm.DB, name string) (*models.Recipe, error)
	UpdateScalars(ctx context.Context, tx *gorm.DB, recipe *models.Recipe) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error

	CreateIngredients(ctx context.Context, tx *gorm.DB, rows []*models.RecipeIngredient) error
	UpdateIngredient(ctx context.Context, tx *gorm.DB, row *models.RecipeIngredient) error
	DeleteIngredients(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, ids []uuid.UUID) error
	CreateInstructions(ctx context.Context, tx *gorm.DB, rows []*models.RecipeInstruction) error
	UpdateInstruction(ctx context.Context, tx *gorm.DB, row *models.RecipeInstruction) error
	DeleteInstructions(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, ids []uuid.UUID) error
}

type recipeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecipeRepo(db *gorm.DB, baseLog *logger.Logger) RecipeRepo {
	return &recipeRepo{db: db, log: baseLog.With("repo", "RecipeRepo")}
}

func (r *recipeRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx == nil {
		return r.db
	}
	return tx
}

func withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_ingredients.created_at ASC")
		}).
		Preload("Ingredients.Ingredient").
		Preload("Instructions", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_instructions.order_index ASC")
		})
}

func (r *recipeRepo) Create(ctx context.Context, tx *gorm.DB, recipe *models.Recipe) error {
	return r.conn(tx).WithContext(ctx).
		Omit(clause.Associations).
		Create(recipe).Error
}

func (r *recipeRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := withChildren(r.conn(tx).WithContext(ctx)).
		Where("id = ?", id).
		First(&recipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// FindByID loads the recipe row without its children.
func (r *recipeRepo) FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.conn(tx).WithContext(ctx).Where("id = ?", id).First(&recipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// LockByID loads a recipe with its children, holding a row lock on the
// parent for the rest of the transaction where the dialect supports it.
func (r *recipeRepo) LockByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Recipe, error) {
	t := r.conn(tx).WithContext(ctx)
	if t.Dialector.Name() == "postgres" {
		t = t.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var recipe models.Recipe
	err := t.Where("id = ?", id).First(&recipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.conn(tx).WithContext(ctx).
		Where("recipe_id = ?", id).
		Find(&recipe.Ingredients).Error; err != nil {
		return nil, err
	}
	if err := r.conn(tx).WithContext(ctx).
		Where("recipe_id = ?", id).
		Order("order_index ASC").
		Find(&recipe.Instructions).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepo) ListVisible(ctx context.Context, tx *gorm.DB, userID string, q RecipeQuery) ([]*models.Recipe, error) {
	t := r.conn(tx).WithContext(ctx)
	hidden := t.Session(&gorm.Session{NewDB: true}).
		Model(&models.HiddenDefaultRecipe{}).
		Select("recipe_id").
		Where("user_id = ?", userID)

	t = withChildren(t).
		Where("(is_default = ? AND created_by = ?) OR (is_default = ? AND id NOT IN (?))", false, userID, true, hidden)

	if q.FavouritesOnly {
		favs := r.conn(tx).Session(&gorm.Session{NewDB: true}).
			Model(&models.UserFavouriteRecipe{}).
			Select("recipe_id").
			Where("user_id = ?", userID)
		t = t.Where("id IN (?)", favs)
	}

	if len(q.MealTypes) > 0 {
		conds := make([]string, 0, len(q.MealTypes))
		args := make([]interface{}, 0, len(q.MealTypes))
		for _, m := range q.MealTypes {
			conds = append(conds, "meal_type LIKE ?")
			args = append(args, fmt.Sprintf("%%%q%%", string(m)))
		}
		t = t.Where(strings.Join(conds, " OR "), args...)
	}

	if text := strings.ToLower(strings.TrimSpace(q.Text)); text != "" {
		like := "%" + text + "%"
		t = t.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	t = r.order(t, q)

	var out []*models.Recipe
	if err := t.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *recipeRepo) order(t *gorm.DB, q RecipeQuery) *gorm.DB {
	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}
	switch q.SortBy {
	case "name":
		return t.Order("LOWER(name) " + dir).Order("created_at DESC")
	case "servings":
		return t.Order("servings " + dir).Order("created_at DESC")
	case "totalTime":
		return t.Order("(COALESCE(prep_time, 0) + COALESCE(cook_time, 0)) " + dir).Order("created_at DESC")
	}
	if q.Embedding != nil && t.Dialector.Name() == "postgres" {
		return t.Clauses(clause.OrderBy{
			Expression: clause.Expr{SQL: "embedding <-> ?, created_at DESC", Vars: []interface{}{*q.Embedding}},
		})
	}
	return t.Order("created_at DESC")
}

func (r *recipeRepo) ListOwned(ctx context.Context, tx *gorm.DB, ownerID string) ([]*models.Recipe, error) {
	var out []*models.Recipe
	if err := withChildren(r.conn(tx).WithContext(ctx)).
		Where("created_by = ? AND is_default = ?", ownerID, false).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *recipeRepo) DefaultIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.conn(tx).WithContext(ctx).
		Model(&models.Recipe{}).
		Where("is_default = ?", true).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *recipeRepo) GetDefaultByName(ctx context.Context, tx *gorm.DB, name string) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.conn(tx).WithContext(ctx).
		Where("is_default = ? AND name = ?", true, name).
		First(&recipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepo) UpdateScalars(ctx context.Context, tx *gorm.DB, recipe *models.Recipe) error {
	return r.conn(tx).WithContext(ctx).
		Model(&models.Recipe{}).
		Where("id = ?", recipe.ID).
		Updates(map[string]interface{}{
			"name":        recipe.Name,
			"description": recipe.Description,
			"servings":    recipe.Servings,
			"prep_time":   recipe.PrepTime,
			"cook_time":   recipe.CookTime,
			"source_url":  recipe.SourceURL,
			"meal_type":   recipe.MealType,
			"embedding":   recipe.Embedding,
		}).Error
}

// Delete removes a recipe together with every row that hangs off it.
func (r *recipeRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	t := r.conn(tx).WithContext(ctx)
	for _, model := range []interface{}{
		&models.RecipeIngredient{},
		&models.RecipeInstruction{},
		&models.UserFavouriteRecipe{},
		&models.HiddenDefaultRecipe{},
		&models.RecipeShare{},
	} {
		if err := t.Where("recipe_id = ?", id).Delete(model).Error; err != nil {
			return err
		}
	}
	return t.Where("id = ?", id).Delete(&models.Recipe{}).Error
}

func (r *recipeRepo) CreateIngredients(ctx context.Context, tx *gorm.DB, rows []*models.RecipeIngredient) error {
	if len(rows) == 0 {
		return nil
	}
	return r.conn(tx).WithContext(ctx).
		Omit(clause.Associations).
		Create(&rows).Error
}

func (r *recipeRepo) UpdateIngredient(ctx context.Context, tx *gorm.DB, row *models.RecipeIngredient) error {
	return r.conn(tx).WithContext(ctx).
		Model(&models.RecipeIngredient{}).
		Where("id = ? AND recipe_id = ?", row.ID, row.RecipeID).
		Updates(map[string]interface{}{
			"ingredient_id": row.IngredientID,
			"quantity":      row.Quantity,
			"unit":          row.Unit,
			"notes":         row.Notes,
		}).Error
}

func (r *recipeRepo) DeleteIngredients(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.conn(tx).WithContext(ctx).
		Where("recipe_id = ? AND id IN ?", recipeID, ids).
		Delete(&models.RecipeIngredient{}).Error
}

func (r *recipeRepo) CreateInstructions(ctx context.Context, tx *gorm.DB, rows []*models.RecipeInstruction) error {
	if len(rows) == 0 {
		return nil
	}
	return r.conn(tx).WithContext(ctx).Create(&rows).Error
}

func (r *recipeRepo) UpdateInstruction(ctx context.Context, tx *gorm.DB, row *models.RecipeInstruction) error {
	return r.conn(tx).WithContext(ctx).
		Model(&models.RecipeInstruction{}).
		Where("id = ? AND recipe_id = ?", row.ID, row.RecipeID).
		Updates(map[string]interface{}{
			"step":        row.Step,
			"order_index": row.OrderIndex,
		}).Error
}

func (r *recipeRepo) DeleteInstructions(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.conn(tx).WithContext(ctx).
		Where("recipe_id = ? AND id IN ?", recipeID, ids).
		Delete(&models.RecipeInstruction{}).Error
}
