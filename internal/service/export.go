package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Rahnken/recipe-tracker/internal/logger"
	"github.com/Rahnken/recipe-tracker/internal/models"
	"github.com/Rahnken/recipe-tracker/internal/types"
)

const exportURLExpiry = 15 * time.Minute

// ExportService writes a caller's recipes to a portable document and reads
// such documents back.
type ExportService struct {
	recipes *RecipeService
	store   ObjectStore
	log     *logger.Logger
}

// NewExportService creates an ExportService. store may be nil, in which
// case exports are only returned inline.
func NewExportService(recipes *RecipeService, store ObjectStore, baseLog *logger.Logger) *ExportService {
	return &ExportService{
		recipes: recipes,
		store:   store,
		log:     baseLog.With("service", "ExportService"),
	}
}

// Export builds the document of every recipe the caller owns. When object
// storage is configured the document is uploaded and a presigned link is
// returned alongside it.
func (s *ExportService) Export(ctx context.Context, callerID string) (*types.RecipeExport, *types.ExportResponse, error) {
	owned, err := s.recipes.repos.Recipes.ListOwned(ctx, nil, callerID)
	if err != nil {
		return nil, nil, fmt.Errorf("list owned recipes: %w", err)
	}

	doc := &types.RecipeExport{
		ExportedAt: time.Now().UTC(),
		Recipes:    make([]types.RecipeInput, 0, len(owned)),
	}
	for _, r := range owned {
		doc.Recipes = append(doc.Recipes, toRecipeInput(r))
	}

	if s.store == nil {
		return doc, nil, nil
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("encode export: %w", err)
	}
	key := fmt.Sprintf("exports/%s/%s.json", callerID, doc.ExportedAt.Format("20060102T150405Z"))
	if err := s.store.PutObject(ctx, key, "application/json", body); err != nil {
		return nil, nil, fmt.Errorf("upload export: %w", err)
	}
	url, err := s.store.GeneratePresignedURL(ctx, key, exportURLExpiry)
	if err != nil {
		return nil, nil, fmt.Errorf("presign export: %w", err)
	}

	s.log.Info("recipes exported", "user_id", callerID, "count", len(doc.Recipes), "key", key)
	return doc, &types.ExportResponse{
		Key:       key,
		URL:       url,
		ExpiresAt: time.Now().UTC().Add(exportURLExpiry),
		Count:     len(doc.Recipes),
	}, nil
}

// Import creates every recipe of doc for the caller. Either all recipes are
// created or none are.
func (s *ExportService) Import(ctx context.Context, callerID string, doc *types.RecipeExport) ([]*types.RecipeResponse, error) {
	for i := range doc.Recipes {
		// Imported recipes always get fresh child rows.
		for j := range doc.Recipes[i].Ingredients {
			doc.Recipes[i].Ingredients[j].ID = ""
		}
		for j := range doc.Recipes[i].Instructions {
			doc.Recipes[i].Instructions[j].ID = ""
		}
		if err := normalizeRecipeInput(&doc.Recipes[i]); err != nil {
			return nil, prefixValidation(err, fmt.Sprintf("recipes[%d].", i))
		}
	}
	if err := validateStruct(doc); err != nil {
		return nil, err
	}

	created := make([]*models.Recipe, 0, len(doc.Recipes))
	err := s.recipes.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range doc.Recipes {
			r, err := s.recipes.createInTx(ctx, tx, callerID, &doc.Recipes[i])
			if err != nil {
				return err
			}
			created = append(created, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]*types.RecipeResponse, 0, len(created))
	for _, r := range created {
		resp, err := s.recipes.GetByID(ctx, callerID, r.ID.String())
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	s.log.Info("recipes imported", "user_id", callerID, "count", len(out))
	return out, nil
}

func prefixValidation(err error, prefix string) error {
	verr, ok := err.(*ValidationError)
	if !ok {
		return err
	}
	out := &ValidationError{Fields: make([]FieldError, len(verr.Fields))}
	for i, f := range verr.Fields {
		out.Fields[i] = FieldError{Field: prefix + f.Field, Message: f.Message}
	}
	return out
}

func toRecipeInput(r *models.Recipe) types.RecipeInput {
	servings := r.Servings
	in := types.RecipeInput{
		Name:         r.Name,
		Description:  r.Description,
		Servings:     &servings,
		PrepTime:     r.PrepTime,
		CookTime:     r.CookTime,
		SourceURL:    r.SourceURL,
		MealType:     []models.MealType(r.MealType),
		Ingredients:  make([]types.RecipeIngredientInput, 0, len(r.Ingredients)),
		Instructions: make([]types.RecipeInstructionInput, 0, len(r.Instructions)),
	}
	for _, ri := range r.Ingredients {
		in.Ingredients = append(in.Ingredients, types.RecipeIngredientInput{
			IngredientID: ri.IngredientID.String(),
			Quantity:     ri.Quantity,
			Unit:         ri.Unit,
			Notes:        ri.Notes,
		})
	}
	for _, step := range r.Instructions {
		in.Instructions = append(in.Instructions, types.RecipeInstructionInput{
			Step:       step.Step,
			OrderIndex: step.OrderIndex,
		})
	}
	return in
}
