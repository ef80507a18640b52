package models

import (
	"time"
)

// PostStudyQuestion attaches a question to a study, asked after the last
// scenario. A question attaches to a given study at most once.
type PostStudyQuestion struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	StudyID    uint      `json:"study_id" gorm:"not null;uniqueIndex:idx_post_study_question"`
	QuestionID uint      `json:"question_id" gorm:"not null;uniqueIndex:idx_post_study_question"`
	Required   bool      `json:"required" gorm:"not null;default:false"`
	Order      int       `json:"order" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relationships
	Question Question `json:"question,omitempty"`
}
