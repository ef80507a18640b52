package services

import (
	"errors"
	"fmt"

	"trainsurvey/models"

	"gorm.io/gorm"
)

type ResponseService struct {
	db    *gorm.DB
	stats *StatsService
	hub   *Hub
}

func NewResponseService(db *gorm.DB, stats *StatsService, hub *Hub) *ResponseService {
	return &ResponseService{db: db, stats: stats, hub: hub}
}

type SubmitResponseRequest struct {
	TrainConfigurationID uint    `json:"train_configuration_id" binding:"required"`
	Row                  *int    `json:"row" binding:"required"`
	Col                  *int    `json:"col" binding:"required"`
	SelectionType        string  `json:"selection_type" binding:"required,oneof=seat floor"`
	UserSessionID        *string `json:"user_session_id"`
	UserID               *string `json:"user_id"`
	Gender               *string `json:"gender" binding:"omitempty,oneof=man woman neutral"`
}

type SubmitQuestionResponseRequest struct {
	PostResponseQuestionID uint    `json:"post_response_question_id" binding:"required"`
	UserResponseID         uint    `json:"user_response_id" binding:"required"`
	FreeText               *string `json:"free_text"`
	SelectedTagIDs         []uint  `json:"selected_tag_ids"`
}

type SubmitStudyQuestionResponseRequest struct {
	QuestionID     uint    `json:"question_id" binding:"required"` // pre/post study question id
	UserSessionID  string  `json:"user_session_id" binding:"required"`
	FreeText       *string `json:"free_text"`
	SelectedTagIDs []uint  `json:"selected_tag_ids"`
}

// SubmitResponse records a seat/floor choice. Repeated submissions from one
// session converge on the latest choice: when a row for (configuration,
// session) already exists it is updated in place. Without a session id every
// call inserts a new row.
func (s *ResponseService) SubmitResponse(req *SubmitResponseRequest) (*models.UserResponse, error) {
	config, err := getConfiguration(s.db, req.TrainConfigurationID)
	if err != nil {
		return nil, err
	}

	row, col := *req.Row, *req.Col
	if row < 0 || row >= config.Height {
		return nil, NewValidationError(fmt.Sprintf("row %d is out of bounds for height %d", row, config.Height))
	}
	if col < 0 || col >= config.Width {
		return nil, NewValidationError(fmt.Sprintf("col %d is out of bounds for width %d", col, config.Width))
	}

	var response models.UserResponse
	if req.UserSessionID != nil && *req.UserSessionID != "" {
		err := s.db.Where("train_configuration_id = ? AND user_session_id = ?",
			req.TrainConfigurationID, *req.UserSessionID).First(&response).Error
		switch {
		case err == nil:
			response.Row = row
			response.Col = col
			response.SelectionType = req.SelectionType
			response.Gender = req.Gender
			if err := s.db.Save(&response).Error; err != nil {
				return nil, err
			}
			s.afterResponse(&response)
			return &response, nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
	}

	response = models.UserResponse{
		TrainConfigurationID: req.TrainConfigurationID,
		Row:                  row,
		Col:                  col,
		SelectionType:        req.SelectionType,
		UserSessionID:        req.UserSessionID,
		UserID:               req.UserID,
		Gender:               req.Gender,
	}
	if err := s.db.Create(&response).Error; err != nil {
		return nil, err
	}
	s.afterResponse(&response)
	return &response, nil
}

func (s *ResponseService) afterResponse(response *models.UserResponse) {
	if s.stats != nil {
		s.stats.InvalidateConfiguration(response.TrainConfigurationID)
	}
	if s.hub != nil {
		s.hub.BroadcastResponse(response.TrainConfigurationID, response)
	}
}

// SubmitQuestionResponse answers a post-response question for a stored user
// response. Selected tags that are not assigned to the question are skipped
// silently. Resubmitting for the same (question, response) pair updates the
// existing answer and replaces its tag links.
func (s *ResponseService) SubmitQuestionResponse(req *SubmitQuestionResponseRequest) (*models.QuestionResponse, error) {
	var attachment models.PostResponseQuestion
	if err := s.db.First(&attachment, req.PostResponseQuestionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("post-response question not found")
		}
		return nil, err
	}

	var userResponse models.UserResponse
	if err := s.db.First(&userResponse, req.UserResponseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("user response not found")
		}
		return nil, err
	}

	validTagIDs, err := s.assignedTagIDs(attachment.QuestionID, req.SelectedTagIDs)
	if err != nil {
		return nil, err
	}

	var response models.QuestionResponse
	err = s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("post_response_question_id = ? AND user_response_id = ?",
			req.PostResponseQuestionID, req.UserResponseID).First(&response).Error
		switch {
		case err == nil:
			response.FreeText = req.FreeText
			if err := tx.Save(&response).Error; err != nil {
				return err
			}
			if err := tx.Where("question_response_id = ?", response.ID).
				Delete(&models.QuestionResponseTag{}).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			response = models.QuestionResponse{
				PostResponseQuestionID: req.PostResponseQuestionID,
				UserResponseID:         req.UserResponseID,
				FreeText:               req.FreeText,
			}
			if err := tx.Create(&response).Error; err != nil {
				return err
			}
		default:
			return err
		}

		for _, tagID := range validTagIDs {
			link := models.QuestionResponseTag{
				QuestionResponseID: response.ID,
				QuestionTagID:      tagID,
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("SelectedTags.QuestionTag").First(&response, response.ID).Error; err != nil {
		return nil, err
	}
	return &response, nil
}

// assignedTagIDs filters the requested tag ids down to those actually
// assigned to the question, preserving request order and dropping duplicates.
func (s *ResponseService) assignedTagIDs(questionID uint, requested []uint) ([]uint, error) {
	if len(requested) == 0 {
		return nil, nil
	}

	var assignments []models.QuestionTagAssignment
	if err := s.db.Where("question_id = ?", questionID).Find(&assignments).Error; err != nil {
		return nil, err
	}
	assigned := make(map[uint]bool, len(assignments))
	for _, a := range assignments {
		assigned[a.QuestionTagID] = true
	}

	var valid []uint
	seen := make(map[uint]bool, len(requested))
	for _, tagID := range requested {
		if assigned[tagID] && !seen[tagID] {
			valid = append(valid, tagID)
			seen[tagID] = true
		}
	}
	return valid, nil
}

// SubmitPreStudyResponse upserts a session's answer to a pre-study question.
func (s *ResponseService) SubmitPreStudyResponse(req *SubmitStudyQuestionResponseRequest) (*models.PreStudyQuestionResponse, error) {
	var attachment models.PreStudyQuestion
	if err := s.db.First(&attachment, req.QuestionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("pre-study question not found")
		}
		return nil, err
	}

	validTagIDs, err := s.assignedTagIDs(attachment.QuestionID, req.SelectedTagIDs)
	if err != nil {
		return nil, err
	}

	var response models.PreStudyQuestionResponse
	err = s.db.Where("pre_study_question_id = ? AND user_session_id = ?",
		attachment.ID, req.UserSessionID).First(&response).Error
	switch {
	case err == nil:
		response.FreeText = req.FreeText
		response.SelectedTagIDs = models.TagIDList(validTagIDs)
		if err := s.db.Save(&response).Error; err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		response = models.PreStudyQuestionResponse{
			PreStudyQuestionID: attachment.ID,
			StudyID:            attachment.StudyID,
			UserSessionID:      req.UserSessionID,
			FreeText:           req.FreeText,
			SelectedTagIDs:     models.TagIDList(validTagIDs),
		}
		if err := s.db.Create(&response).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	return &response, nil
}

// SubmitPostStudyResponse upserts a session's answer to a post-study question.
func (s *ResponseService) SubmitPostStudyResponse(req *SubmitStudyQuestionResponseRequest) (*models.PostStudyQuestionResponse, error) {
	var attachment models.PostStudyQuestion
	if err := s.db.First(&attachment, req.QuestionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("post-study question not found")
		}
		return nil, err
	}

	validTagIDs, err := s.assignedTagIDs(attachment.QuestionID, req.SelectedTagIDs)
	if err != nil {
		return nil, err
	}

	var response models.PostStudyQuestionResponse
	err = s.db.Where("post_study_question_id = ? AND user_session_id = ?",
		attachment.ID, req.UserSessionID).First(&response).Error
	switch {
	case err == nil:
		response.FreeText = req.FreeText
		response.SelectedTagIDs = models.TagIDList(validTagIDs)
		if err := s.db.Save(&response).Error; err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		response = models.PostStudyQuestionResponse{
			PostStudyQuestionID: attachment.ID,
			StudyID:             attachment.StudyID,
			UserSessionID:       req.UserSessionID,
			FreeText:            req.FreeText,
			SelectedTagIDs:      models.TagIDList(validTagIDs),
		}
		if err := s.db.Create(&response).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	return &response, nil
}
