package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SharePermission is the access level granted by a RecipeShare.
type SharePermission string

const (
	SharePermissionView SharePermission = "VIEW"
	SharePermissionEdit SharePermission = "EDIT"
)

// RecipeShare records that an owner shared a recipe with a user id or email.
type RecipeShare struct {
	ID               uuid.UUID       `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	RecipeID         uuid.UUID       `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipe_share_target" json:"recipe_id"`
	SharedWith       string          `gorm:"size:255;not null;uniqueIndex:idx_recipe_share_target" json:"shared_with"`
	SharedWithUserID *string         `gorm:"size:64;index" json:"shared_with_user_id,omitempty"`
	Permission       SharePermission `gorm:"size:10;not null;check:permission IN ('VIEW', 'EDIT')" json:"permission"`
	SharedBy         string          `gorm:"size:64;not null" json:"shared_by"`
}

func (RecipeShare) TableName() string {
	return "recipe_shares"
}

func (s *RecipeShare) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
