package models

import (
	"time"

	"gorm.io/gorm"
)

type Study struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	ScenarioGroupID uint           `json:"scenario_group_id" gorm:"not null;index"`
	Title           string         `json:"title" gorm:"not null"`
	Description     string         `json:"description"`
	ContactEmail    string         `json:"contact_email" gorm:"not null"`
	CreatedByUserID uint           `json:"created_by_user_id" gorm:"not null;index"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	ScenarioGroup      ScenarioGroup       `json:"scenario_group,omitempty"`
	CreatedBy          User                `json:"created_by,omitempty" gorm:"foreignKey:CreatedByUserID"`
	PreStudyQuestions  []PreStudyQuestion  `json:"pre_study_questions,omitempty" gorm:"foreignKey:StudyID;constraint:OnDelete:CASCADE"`
	PostStudyQuestions []PostStudyQuestion `json:"post_study_questions,omitempty" gorm:"foreignKey:StudyID;constraint:OnDelete:CASCADE"`
}
