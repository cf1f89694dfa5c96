package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserFavouriteRecipe struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    string    `gorm:"size:64;not null;uniqueIndex:idx_user_favourite_recipe" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_favourite_recipe;index" json:"recipe_id"`
}

func (UserFavouriteRecipe) TableName() string {
	return "user_favourite_recipes"
}

func (f *UserFavouriteRecipe) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// HiddenDefaultRecipe marks a default recipe as hidden from one user's list.
type HiddenDefaultRecipe struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    string    `gorm:"size:64;not null;uniqueIndex:idx_hidden_default_recipe" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_hidden_default_recipe;index" json:"recipe_id"`
}

func (HiddenDefaultRecipe) TableName() string {
	return "hidden_default_recipes"
}

func (h *HiddenDefaultRecipe) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
