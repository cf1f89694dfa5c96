package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Rahnken/recipe-tracker/internal/types"
)

// MockRecipeService is a mock implementation of the recipe service
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) GetAll(ctx context.Context, callerID string, filter types.RecipeFilter) ([]*types.RecipeResponse, error) {
	args := m.Called(ctx, callerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.RecipeResponse), args.Error(1)
}

func (m *MockRecipeService) GetByID(ctx context.Context, callerID, id string) (*types.RecipeResponse, error) {
	args := m.Called(ctx, callerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeResponse), args.Error(1)
}

func (m *MockRecipeService) Create(ctx context.Context, callerID string, input *types.RecipeInput) (*types.RecipeResponse, error) {
	args := m.Called(ctx, callerID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeResponse), args.Error(1)
}

func (m *MockRecipeService) Update(ctx context.Context, callerID, id string, input *types.RecipeInput) (*types.RecipeResponse, error) {
	args := m.Called(ctx, callerID, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeResponse), args.Error(1)
}

func (m *MockRecipeService) Delete(ctx context.Context, callerID, id string) error {
	return m.Called(ctx, callerID, id).Error(0)
}

func (m *MockRecipeService) ToggleFavourite(ctx context.Context, callerID, recipeID string) (bool, error) {
	args := m.Called(ctx, callerID, recipeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRecipeService) ToggleHidden(ctx context.Context, callerID, recipeID string) (bool, error) {
	args := m.Called(ctx, callerID, recipeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRecipeService) HideAllDefaults(ctx context.Context, callerID string) (int64, error) {
	args := m.Called(ctx, callerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRecipeService) UnhideAllDefaults(ctx context.Context, callerID string) (int64, error) {
	args := m.Called(ctx, callerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRecipeService) Share(ctx context.Context, callerID, recipeID string, req *types.ShareRecipeRequest) ([]*types.RecipeShareResponse, error) {
	args := m.Called(ctx, callerID, recipeID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.RecipeShareResponse), args.Error(1)
}

func (m *MockRecipeService) ListShares(ctx context.Context, callerID, recipeID string) ([]*types.RecipeShareResponse, error) {
	args := m.Called(ctx, callerID, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.RecipeShareResponse), args.Error(1)
}

// MockExportService is a mock implementation of the export service
type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) Export(ctx context.Context, callerID string) (*types.RecipeExport, *types.ExportResponse, error) {
	args := m.Called(ctx, callerID)
	var doc *types.RecipeExport
	if v := args.Get(0); v != nil {
		doc = v.(*types.RecipeExport)
	}
	var resp *types.ExportResponse
	if v := args.Get(1); v != nil {
		resp = v.(*types.ExportResponse)
	}
	return doc, resp, args.Error(2)
}

func (m *MockExportService) Import(ctx context.Context, callerID string, doc *types.RecipeExport) ([]*types.RecipeResponse, error) {
	args := m.Called(ctx, callerID, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.RecipeResponse), args.Error(1)
}
