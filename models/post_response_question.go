package models

import (
	"time"
)

// PostResponseQuestion attaches a question to a train configuration; it is
// asked right after the participant picks a seat. A question attaches to a
// given configuration at most once.
type PostResponseQuestion struct {
	ID                   uint      `json:"id" gorm:"primaryKey"`
	TrainConfigurationID uint      `json:"train_configuration_id" gorm:"not null;uniqueIndex:idx_config_question"`
	QuestionID           uint      `json:"question_id" gorm:"not null;uniqueIndex:idx_config_question"`
	Required             bool      `json:"required" gorm:"not null;default:false"`
	Order                int       `json:"order" gorm:"not null"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`

	// Relationships
	Question Question `json:"question,omitempty"`
}
