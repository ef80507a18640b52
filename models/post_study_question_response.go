package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// TagIDList stores a set of selected tag ids as a JSON column on the
// study-level response tables.
type TagIDList []uint

func (l TagIDList) Value() (driver.Value, error) {
	if l == nil {
		l = TagIDList{}
	}
	return json.Marshal(l)
}

func (l *TagIDList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("unsupported tag id list column type")
	}
}

// PostStudyQuestionResponse records a participant session's answer to a
// post-study question. Unique per (question, session); resubmission updates.
type PostStudyQuestionResponse struct {
	ID                  uint      `json:"id" gorm:"primaryKey"`
	PostStudyQuestionID uint      `json:"post_study_question_id" gorm:"not null;uniqueIndex:idx_post_study_response"`
	StudyID             uint      `json:"study_id" gorm:"not null;index"`
	UserSessionID       string    `json:"user_session_id" gorm:"not null;uniqueIndex:idx_post_study_response"`
	FreeText            *string   `json:"free_text"`
	SelectedTagIDs      TagIDList `json:"selected_tag_ids" gorm:"type:jsonb"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}
