package models

import (
	"time"
)

// PreStudyQuestionResponse records a participant session's answer to a
// pre-study question. Unique per (question, session); resubmission updates.
type PreStudyQuestionResponse struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	PreStudyQuestionID uint      `json:"pre_study_question_id" gorm:"not null;uniqueIndex:idx_pre_study_response"`
	StudyID            uint      `json:"study_id" gorm:"not null;index"`
	UserSessionID      string    `json:"user_session_id" gorm:"not null;uniqueIndex:idx_pre_study_response"`
	FreeText           *string   `json:"free_text"`
	SelectedTagIDs     TagIDList `json:"selected_tag_ids" gorm:"type:jsonb"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
