package testhelpers

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Rahnken/recipe-tracker/internal/models"
	"github.com/Rahnken/recipe-tracker/internal/types"
)

// TestPassword is the plain-text password of users made by CreateTestUser.
const TestPassword = "testpassword123"

// CreateTestUser stores a user with TestPassword and a unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	require.NoError(t, err)

	id := uuid.New()
	user := &models.User{
		ID:           id,
		Name:         "Test User",
		Email:        fmt.Sprintf("testuser+%s@example.com", id.String()[:8]),
		PasswordHash: string(hash),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTestIngredient stores an ingredient in the shared directory.
func CreateTestIngredient(t *testing.T, db *gorm.DB, name string) *models.Ingredient {
	t.Helper()

	ing := &models.Ingredient{Name: name}
	require.NoError(t, db.Create(ing).Error)
	return ing
}

// CreateDefaultRecipe stores a bare default recipe owned by the system.
func CreateDefaultRecipe(t *testing.T, db *gorm.DB, name string) *models.Recipe {
	t.Helper()

	recipe := &models.Recipe{
		ID:        uuid.New(),
		Name:      name,
		Servings:  1,
		MealType:  models.MealTypes{models.MealTypeSnack},
		IsDefault: true,
		CreatedBy: models.SystemOwner,
		Embedding: pgvector.NewVector(make([]float32, 16)),
	}
	require.NoError(t, db.Create(recipe).Error)
	return recipe
}

// MockTokenValidator is a mock token validator for testing
type MockTokenValidator struct {
	Claims *types.TokenClaims
	Error  error
}

// ValidateToken validates a token and returns claims
func (m *MockTokenValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	if m.Error != nil {
		return nil, m.Error
	}
	return m.Claims, nil
}

// JSONMarshal is a helper function to marshal JSON for testing
func JSONMarshal(t *testing.T, v interface{}) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Failed to marshal JSON: %v", err)
	}
	return data
}
