package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Rahnken/recipe-tracker/internal/logger"
	"github.com/Rahnken/recipe-tracker/internal/models"
	"github.com/Rahnken/recipe-tracker/internal/repository"
	"github.com/Rahnken/recipe-tracker/internal/types"
)

// IngredientService manages the shared ingredient vocabulary
type IngredientService struct {
	db    *gorm.DB
	repos *repository.Repos
	log   *logger.Logger
}

func NewIngredientService(db *gorm.DB, repos *repository.Repos, baseLog *logger.Logger) *IngredientService {
	return &IngredientService{
		db:    db,
		repos: repos,
		log:   baseLog.With("service", "IngredientService"),
	}
}

// List returns every ingredient ordered by name.
func (s *IngredientService) List(ctx context.Context) ([]*types.IngredientResponse, error) {
	rows, err := s.repos.Ingredients.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	out := make([]*types.IngredientResponse, len(rows))
	for i, row := range rows {
		out[i] = toIngredientResponse(row)
	}
	return out, nil
}

// Create adds an ingredient. Names are unique.
func (s *IngredientService) Create(ctx context.Context, req *types.CreateIngredientRequest) (*types.IngredientResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.TrimSpace(req.Category)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	row := &models.Ingredient{Name: req.Name, Category: req.Category}
	if err := s.repos.Ingredients.Create(ctx, nil, row); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("ingredient %q already exists: %w", req.Name, ErrConflict)
		}
		return nil, fmt.Errorf("create ingredient: %w", err)
	}
	s.log.Info("ingredient created", "ingredient_id", row.ID, "name", row.Name)
	return toIngredientResponse(row), nil
}

// Update overwrites an ingredient's name and category.
func (s *IngredientService) Update(ctx context.Context, id string, req *types.UpdateIngredientRequest) (*types.IngredientResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.TrimSpace(req.Category)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	ingredientID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("ingredient %s: %w", id, ErrNotFound)
	}

	row, err := s.repos.Ingredients.GetByID(ctx, nil, ingredientID)
	if err != nil {
		return nil, fmt.Errorf("get ingredient: %w", err)
	}
	if row == nil {
		return nil, fmt.Errorf("ingredient %s: %w", id, ErrNotFound)
	}

	row.Name = req.Name
	row.Category = req.Category
	if err := s.repos.Ingredients.Update(ctx, nil, row); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("ingredient %q already exists: %w", req.Name, ErrConflict)
		}
		return nil, fmt.Errorf("update ingredient: %w", err)
	}
	return toIngredientResponse(row), nil
}

// Delete removes an ingredient that no recipe references.
func (s *IngredientService) Delete(ctx context.Context, id string) error {
	ingredientID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("ingredient %s: %w", id, ErrNotFound)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.repos.Ingredients.GetByID(ctx, tx, ingredientID)
		if err != nil {
			return fmt.Errorf("get ingredient: %w", err)
		}
		if row == nil {
			return fmt.Errorf("ingredient %s: %w", id, ErrNotFound)
		}
		refs, err := s.repos.Ingredients.CountReferences(ctx, tx, ingredientID)
		if err != nil {
			return fmt.Errorf("count ingredient references: %w", err)
		}
		if refs > 0 {
			return fmt.Errorf("ingredient %q is used by %d recipe line(s): %w", row.Name, refs, ErrConflict)
		}
		if err := s.repos.Ingredients.Delete(ctx, tx, ingredientID); err != nil {
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return fmt.Errorf("ingredient %q is in use: %w", row.Name, ErrConflict)
			}
			return fmt.Errorf("delete ingredient: %w", err)
		}
		return nil
	})
}

func toIngredientResponse(row *models.Ingredient) *types.IngredientResponse {
	return &types.IngredientResponse{
		ID:       row.ID.String(),
		Name:     row.Name,
		Category: row.Category,
	}
}
