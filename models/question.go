package models

import (
	"time"

	"gorm.io/gorm"
)

// Question is a reusable definition shared by reference across scenario and
// study attachments. It is deletable only while nothing references it.
type Question struct {
	ID                uint           `json:"id" gorm:"primaryKey"`
	Text              string         `json:"text" gorm:"not null"`
	AllowFreeText     bool           `json:"allow_free_text" gorm:"not null;default:true"`
	AllowTags         bool           `json:"allow_tags" gorm:"not null;default:false"`
	AllowMultipleTags bool           `json:"allow_multiple_tags" gorm:"not null;default:false"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	TagAssignments []QuestionTagAssignment `json:"tag_assignments,omitempty" gorm:"foreignKey:QuestionID"`
}
