package models

import (
	"time"

	"gorm.io/gorm"
)

type ScenarioGroup struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	Name            string         `json:"name" gorm:"not null"`
	Description     string         `json:"description"`
	CreatedByUserID uint           `json:"created_by_user_id" gorm:"not null;index"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	CreatedBy User                  `json:"created_by,omitempty" gorm:"foreignKey:CreatedByUserID"`
	Items     []ScenarioGroupItem   `json:"items,omitempty" gorm:"foreignKey:ScenarioGroupID;constraint:OnDelete:CASCADE"`
	Editors   []ScenarioGroupEditor `json:"editors,omitempty" gorm:"foreignKey:ScenarioGroupID;constraint:OnDelete:CASCADE"`
}

// ScenarioGroupEditor grants a non-creator mutation rights on a group.
// Hard-deleted on removal so a re-added editor does not trip the unique index.
type ScenarioGroupEditor struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	ScenarioGroupID uint      `json:"scenario_group_id" gorm:"not null;uniqueIndex:idx_group_editor"`
	UserID          uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_group_editor"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Relationships
	User User `json:"user,omitempty"`
}
