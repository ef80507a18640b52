package models

import (
	"time"

	"gorm.io/gorm"
)

// QuestionTag is a globally unique label in the shared tag library. Default
// tags are system-provided and have no owner.
type QuestionTag struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	Text            string         `json:"text" gorm:"uniqueIndex;not null"`
	IsDefault       bool           `json:"is_default" gorm:"not null;default:false"`
	CreatedByUserID *uint          `json:"created_by_user_id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
}

// QuestionTagAssignment orders a tag onto a question. At most one row per
// (question, tag) pair; hard-deleted by reconciliation.
type QuestionTagAssignment struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	QuestionID    uint      `json:"question_id" gorm:"not null;uniqueIndex:idx_question_tag"`
	QuestionTagID uint      `json:"question_tag_id" gorm:"not null;uniqueIndex:idx_question_tag"`
	Order         int       `json:"order" gorm:"not null"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relationships
	QuestionTag QuestionTag `json:"question_tag,omitempty"`
}
