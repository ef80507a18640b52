package models

import (
	"time"
)

// UserResponse is one participant's seat or floor choice for one scenario.
// The composite unique index on (configuration, session) backs the
// upsert-by-session contract; anonymous rows carry a NULL session, which
// never collides, so they are never deduplicated.
type UserResponse struct {
	ID                   uint      `json:"id" gorm:"primaryKey"`
	TrainConfigurationID uint      `json:"train_configuration_id" gorm:"not null;index;uniqueIndex:idx_response_session"`
	Row                  int       `json:"row" gorm:"not null"`
	Col                  int       `json:"col" gorm:"not null"`
	SelectionType        string    `json:"selection_type" gorm:"not null"` // seat, floor
	UserSessionID        *string   `json:"user_session_id" gorm:"uniqueIndex:idx_response_session"`
	UserID               *string   `json:"user_id"`
	Gender               *string   `json:"gender"` // man, woman, neutral
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`

	// Relationships
	QuestionResponses []QuestionResponse `json:"question_responses,omitempty" gorm:"foreignKey:UserResponseID"`
}
