package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Rahnken/recipe-tracker/internal/types"
)

// MockIngredientService is a mock implementation of the ingredient service
type MockIngredientService struct {
	mock.Mock
}

func (m *MockIngredientService) List(ctx context.Context) ([]*types.IngredientResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.IngredientResponse), args.Error(1)
}

func (m *MockIngredientService) Create(ctx context.Context, req *types.CreateIngredientRequest) (*types.IngredientResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.IngredientResponse), args.Error(1)
}

func (m *MockIngredientService) Update(ctx context.Context, id string, req *types.UpdateIngredientRequest) (*types.IngredientResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.IngredientResponse), args.Error(1)
}

func (m *MockIngredientService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
