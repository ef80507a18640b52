package models

import (
	"time"
)

// QuestionResponse answers one post-response question for one user response.
// A second submission for the same pair updates in place.
type QuestionResponse struct {
	ID                     uint      `json:"id" gorm:"primaryKey"`
	PostResponseQuestionID uint      `json:"post_response_question_id" gorm:"not null;uniqueIndex:idx_question_response"`
	UserResponseID         uint      `json:"user_response_id" gorm:"not null;uniqueIndex:idx_question_response"`
	FreeText               *string   `json:"free_text"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`

	// Relationships
	SelectedTags []QuestionResponseTag `json:"selected_tags,omitempty" gorm:"foreignKey:QuestionResponseID;constraint:OnDelete:CASCADE"`
}

// QuestionResponseTag links a selected tag to a question response. Only tags
// currently assigned to the question may be linked.
type QuestionResponseTag struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	QuestionResponseID uint      `json:"question_response_id" gorm:"not null;uniqueIndex:idx_response_tag"`
	QuestionTagID      uint      `json:"question_tag_id" gorm:"not null;uniqueIndex:idx_response_tag"`
	CreatedAt          time.Time `json:"created_at"`

	// Relationships
	QuestionTag QuestionTag `json:"question_tag,omitempty"`
}
