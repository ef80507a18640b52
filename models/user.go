package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Email     string         `json:"email" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	ScenarioGroups []ScenarioGroup `json:"scenario_groups,omitempty" gorm:"foreignKey:CreatedByUserID"`
	Studies        []Study         `json:"studies,omitempty" gorm:"foreignKey:CreatedByUserID"`
}
