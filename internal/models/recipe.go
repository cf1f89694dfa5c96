package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// SystemOwner is the createdBy value of seeded default recipes.
const SystemOwner = "system"

// MealType tags a recipe with the meals it suits.
type MealType string

const (
	MealTypeBreakfast MealType = "BREAKFAST"
	MealTypeLunch     MealType = "LUNCH"
	MealTypeDinner    MealType = "DINNER"
	MealTypeSnack     MealType = "SNACK"
	MealTypeDessert   MealType = "DESSERT"
	MealTypeDrink     MealType = "DRINK"
)

// AllMealTypes lists every known meal type in display order.
var AllMealTypes = []MealType{
	MealTypeBreakfast,
	MealTypeLunch,
	MealTypeDinner,
	MealTypeSnack,
	MealTypeDessert,
	MealTypeDrink,
}

// Valid reports whether m is one of the known meal types.
func (m MealType) Valid() bool {
	for _, t := range AllMealTypes {
		if t == m {
			return true
		}
	}
	return false
}

// MealTypes is a set of meal types stored as a JSON array in a text column
type MealTypes []MealType

// Value implements the driver.Valuer interface
func (a MealTypes) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (a *MealTypes) Scan(value interface{}) error {
	if value == nil {
		*a = MealTypes{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported meal type value %T", value)
	}

	return json.Unmarshal(bytes, a)
}

// Contains reports whether the set holds m.
func (a MealTypes) Contains(m MealType) bool {
	for _, t := range a {
		if t == m {
			return true
		}
	}
	return false
}

type Recipe struct {
	ID           uuid.UUID           `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time           `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	Name         string              `gorm:"size:255;not null" json:"name"`
	Description  string              `gorm:"type:text" json:"description"`
	Servings     int                 `gorm:"not null;default:1" json:"servings"`
	PrepTime     *int                `json:"prep_time,omitempty"`
	CookTime     *int                `json:"cook_time,omitempty"`
	SourceURL    string              `gorm:"size:2048" json:"source_url"`
	MealType     MealTypes           `gorm:"type:text;not null" json:"meal_type"`
	IsDefault    bool                `gorm:"not null;default:false;index" json:"is_default"`
	CreatedBy    string              `gorm:"size:64;not null;index" json:"created_by"`
	Embedding    pgvector.Vector     `gorm:"type:vector(16)" json:"-"`
	Ingredients  []RecipeIngredient  `gorm:"constraint:OnDelete:CASCADE" json:"ingredients"`
	Instructions []RecipeInstruction `gorm:"constraint:OnDelete:CASCADE" json:"instructions"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Servings == 0 {
		r.Servings = 1
	}
	return nil
}

// TotalTime is prep plus cook minutes, counting missing values as zero.
func (r *Recipe) TotalTime() int {
	total := 0
	if r.PrepTime != nil {
		total += *r.PrepTime
	}
	if r.CookTime != nil {
		total += *r.CookTime
	}
	return total
}

// RecipeIngredient joins a recipe to a shared ingredient with a quantity.
type RecipeIngredient struct {
	ID           uuid.UUID   `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	RecipeID     uuid.UUID   `gorm:"type:varchar(36);not null;index" json:"recipe_id"`
	IngredientID uuid.UUID   `gorm:"type:varchar(36);not null;index" json:"ingredient_id"`
	Ingredient   *Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:RESTRICT" json:"ingredient,omitempty"`
	Quantity     float64     `gorm:"not null" json:"quantity"`
	Unit         string      `gorm:"size:50;not null" json:"unit"`
	Notes        string      `gorm:"type:text" json:"notes"`
}

func (ri *RecipeIngredient) BeforeCreate(tx *gorm.DB) error {
	if ri.ID == uuid.Nil {
		ri.ID = uuid.New()
	}
	return nil
}

type RecipeInstruction struct {
	ID         uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	RecipeID   uuid.UUID `gorm:"type:varchar(36);not null;index:idx_recipe_instruction_order" json:"recipe_id"`
	Step       string    `gorm:"type:text;not null" json:"step"`
	OrderIndex int       `gorm:"not null;index:idx_recipe_instruction_order" json:"order_index"`
}

func (ri *RecipeInstruction) BeforeCreate(tx *gorm.DB) error {
	if ri.ID == uuid.Nil {
		ri.ID = uuid.New()
	}
	return nil
}
