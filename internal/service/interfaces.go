package service

import (
	"context"
	"time"

	"github.com/Rahnken/recipe-tracker/internal/models"
	"github.com/Rahnken/recipe-tracker/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*types.AuthResponse, error)
	Login(ctx context.Context, req *types.LoginRequest) (*types.AuthResponse, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	GenerateToken(user *models.User) (string, error)
}

// IIngredientService defines the interface for ingredient directory operations
type IIngredientService interface {
	List(ctx context.Context) ([]*types.IngredientResponse, error)
	Create(ctx context.Context, req *types.CreateIngredientRequest) (*types.IngredientResponse, error)
	Update(ctx context.Context, id string, req *types.UpdateIngredientRequest) (*types.IngredientResponse, error)
	Delete(ctx context.Context, id string) error
}

// IRecipeService defines the interface for recipe operations. callerID is
// the id of the signed-in user every operation acts for.
type IRecipeService interface {
	GetAll(ctx context.Context, callerID string, filter types.RecipeFilter) ([]*types.RecipeResponse, error)
	GetByID(ctx context.Context, callerID, id string) (*types.RecipeResponse, error)
	Create(ctx context.Context, callerID string, input *types.RecipeInput) (*types.RecipeResponse, error)
	Update(ctx context.Context, callerID, id string, input *types.RecipeInput) (*types.RecipeResponse, error)
	Delete(ctx context.Context, callerID, id string) error
	ToggleFavourite(ctx context.Context, callerID, recipeID string) (bool, error)
	ToggleHidden(ctx context.Context, callerID, recipeID string) (bool, error)
	HideAllDefaults(ctx context.Context, callerID string) (int64, error)
	UnhideAllDefaults(ctx context.Context, callerID string) (int64, error)
	Share(ctx context.Context, callerID, recipeID string, req *types.ShareRecipeRequest) ([]*types.RecipeShareResponse, error)
	ListShares(ctx context.Context, callerID, recipeID string) ([]*types.RecipeShareResponse, error)
}

// IExportService defines the interface for recipe export and import
type IExportService interface {
	Export(ctx context.Context, callerID string) (*types.RecipeExport, *types.ExportResponse, error)
	Import(ctx context.Context, callerID string, doc *types.RecipeExport) ([]*types.RecipeResponse, error)
}

// IEmailService defines the interface for email operations
type IEmailService interface {
	SendEmail(to, subject, body string) error
	SendShareNotification(to string, recipe *models.Recipe, sharedBy *models.User, permission models.SharePermission) error
}

// ObjectStore uploads export documents and hands out temporary download links.
type ObjectStore interface {
	PutObject(ctx context.Context, key, contentType string, body []byte) error
	GeneratePresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}
