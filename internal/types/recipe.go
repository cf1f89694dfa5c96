package types

import (
	"time"

	"github.com/Rahnken/recipe-tracker/internal/models"
)

// RecipeIngredientInput is one ingredient line of a recipe payload.
// An empty ID means the row is new.
type RecipeIngredientInput struct {
	ID           string  `json:"id,omitempty" validate:"omitempty,uuid"`
	IngredientID string  `json:"ingredient_id" validate:"required,uuid"`
	Quantity     float64 `json:"quantity" validate:"gt=0"`
	Unit         string  `json:"unit" validate:"required,max=50"`
	Notes        string  `json:"notes,omitempty"`
}

// RecipeInstructionInput is one step of a recipe payload.
type RecipeInstructionInput struct {
	ID         string `json:"id,omitempty" validate:"omitempty,uuid"`
	Step       string `json:"step" validate:"required"`
	OrderIndex int    `json:"order_index" validate:"gte=0"`
}

// RecipeInput is the request body for creating or updating a recipe
type RecipeInput struct {
	Name         string                   `json:"name" validate:"required,max=255"`
	Description  string                   `json:"description"`
	Servings     *int                     `json:"servings,omitempty" validate:"omitempty,gt=0"`
	PrepTime     *int                     `json:"prep_time,omitempty" validate:"omitempty,gte=0"`
	CookTime     *int                     `json:"cook_time,omitempty" validate:"omitempty,gte=0"`
	SourceURL    string                   `json:"source_url,omitempty" validate:"omitempty,url,max=2048"`
	MealType     []models.MealType        `json:"meal_type" validate:"min=1,dive,mealtype"`
	Ingredients  []RecipeIngredientInput  `json:"ingredients" validate:"min=1,dive"`
	Instructions []RecipeInstructionInput `json:"instructions" validate:"min=1,dive"`
}

// RecipeIngredientResponse is an ingredient line joined with its ingredient name.
type RecipeIngredientResponse struct {
	ID             string  `json:"id"`
	IngredientID   string  `json:"ingredient_id"`
	IngredientName string  `json:"ingredient_name"`
	Quantity       float64 `json:"quantity"`
	Unit           string  `json:"unit"`
	Notes          string  `json:"notes,omitempty"`
}

type RecipeInstructionResponse struct {
	ID         string `json:"id"`
	Step       string `json:"step"`
	OrderIndex int    `json:"order_index"`
}

// RecipeResponse is a recipe as seen by one caller
type RecipeResponse struct {
	ID           string                      `json:"id"`
	Name         string                      `json:"name"`
	Description  string                      `json:"description"`
	Servings     int                         `json:"servings"`
	PrepTime     *int                        `json:"prep_time,omitempty"`
	CookTime     *int                        `json:"cook_time,omitempty"`
	TotalTime    int                         `json:"total_time"`
	SourceURL    string                      `json:"source_url,omitempty"`
	MealType     []models.MealType           `json:"meal_type"`
	IsDefault    bool                        `json:"is_default"`
	CreatedBy    string                      `json:"created_by"`
	IsFavourite  bool                        `json:"is_favourite"`
	Ingredients  []RecipeIngredientResponse  `json:"ingredients"`
	Instructions []RecipeInstructionResponse `json:"instructions"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}

// Sort keys accepted by RecipeFilter.SortBy
const (
	SortByCreatedAt = "createdAt"
	SortByName      = "name"
	SortByTotalTime = "totalTime"
	SortByServings  = "servings"
)

// RecipeFilter narrows and orders a recipe listing
type RecipeFilter struct {
	MealTypes      []models.MealType `validate:"dive,mealtype"`
	FavouritesOnly bool
	Query          string `validate:"max=255"`
	SortBy         string `validate:"omitempty,oneof=createdAt name totalTime servings"`
	SortOrder      string `validate:"omitempty,oneof=asc desc"`
}

// ToggleResponse reports the state after a favourite or hidden toggle.
type ToggleResponse struct {
	RecipeID    string `json:"recipe_id"`
	IsFavourite *bool  `json:"is_favourite,omitempty"`
	IsHidden    *bool  `json:"is_hidden,omitempty"`
}

// BulkResponse reports how many rows a bulk hide or unhide touched.
type BulkResponse struct {
	Affected int64 `json:"affected"`
}

// ShareRecipeRequest is the request body for sharing a recipe
type ShareRecipeRequest struct {
	ShareWith  []string `json:"share_with" validate:"min=1,max=50,dive,required,max=255"`
	Permission string   `json:"permission" validate:"required,oneof=VIEW EDIT"`
}

type RecipeShareResponse struct {
	ID               string    `json:"id"`
	RecipeID         string    `json:"recipe_id"`
	SharedWith       string    `json:"shared_with"`
	SharedWithUserID *string   `json:"shared_with_user_id,omitempty"`
	Permission       string    `json:"permission"`
	SharedBy         string    `json:"shared_by"`
	CreatedAt        time.Time `json:"created_at"`
}

// RecipeExport is the document produced by an export and accepted by an import.
type RecipeExport struct {
	ExportedAt time.Time     `json:"exported_at"`
	Recipes    []RecipeInput `json:"recipes" validate:"min=1,max=200,dive"`
}

// ExportResponse is returned when an export was uploaded to object storage.
type ExportResponse struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
	Count     int       `json:"count"`
}
