package services

import (
	"errors"
	"sort"
	"strings"

	"trainsurvey/models"

	"gorm.io/gorm"
)

type QuestionService struct {
	db *gorm.DB
}

func NewQuestionService(db *gorm.DB) *QuestionService {
	return &QuestionService{db: db}
}

type CreateQuestionRequest struct {
	Text              string `json:"text" binding:"required"`
	AllowFreeText     *bool  `json:"allow_free_text"`
	AllowTags         bool   `json:"allow_tags"`
	AllowMultipleTags bool   `json:"allow_multiple_tags"`
}

type UpdateQuestionRequest struct {
	Text              *string `json:"text"`
	AllowFreeText     *bool   `json:"allow_free_text"`
	AllowTags         *bool   `json:"allow_tags"`
	AllowMultipleTags *bool   `json:"allow_multiple_tags"`
}

type CreateTagRequest struct {
	Text string `json:"text" binding:"required"`
}

type SetQuestionTagsRequest struct {
	TagIDs []uint `json:"tag_ids" binding:"required"`
}

type AttachScenarioQuestionRequest struct {
	QuestionID uint `json:"question_id" binding:"required"`
	Required   bool `json:"required"`
	Order      int  `json:"order"`
}

type TagStatistic struct {
	QuestionTagID uint   `json:"question_tag_id"`
	Text          string `json:"text"`
	Count         int    `json:"count"`
}

func (s *QuestionService) CreateQuestion(req *CreateQuestionRequest) (*models.Question, error) {
	allowFreeText := true
	if req.AllowFreeText != nil {
		allowFreeText = *req.AllowFreeText
	}

	question := models.Question{
		Text:              req.Text,
		AllowFreeText:     allowFreeText,
		AllowTags:         req.AllowTags,
		AllowMultipleTags: req.AllowMultipleTags,
	}
	if err := s.db.Create(&question).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (s *QuestionService) GetQuestions() ([]models.Question, error) {
	var questions []models.Question
	err := s.db.
		Preload("TagAssignments", byOrder).
		Preload("TagAssignments.QuestionTag").
		Order("created_at DESC").
		Find(&questions).Error
	return questions, err
}

func (s *QuestionService) GetQuestionByID(questionID uint) (*models.Question, error) {
	var question models.Question
	err := s.db.
		Preload("TagAssignments", byOrder).
		Preload("TagAssignments.QuestionTag").
		First(&question, questionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("question not found")
		}
		return nil, err
	}
	return &question, nil
}

func (s *QuestionService) UpdateQuestion(questionID uint, req *UpdateQuestionRequest) (*models.Question, error) {
	question, err := s.GetQuestionByID(questionID)
	if err != nil {
		return nil, err
	}

	if req.Text != nil {
		question.Text = *req.Text
	}
	if req.AllowFreeText != nil {
		question.AllowFreeText = *req.AllowFreeText
	}
	if req.AllowTags != nil {
		question.AllowTags = *req.AllowTags
	}
	if req.AllowMultipleTags != nil {
		question.AllowMultipleTags = *req.AllowMultipleTags
	}

	if err := s.db.Save(question).Error; err != nil {
		return nil, err
	}
	return question, nil
}

// DeleteQuestion removes a question only while nothing references it: no
// scenario or study attachment may remain. Its tag assignments are cleaned
// up with it. Reference scan and delete share a transaction.
func (s *QuestionService) DeleteQuestion(questionID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var question models.Question
		if err := tx.First(&question, questionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("question not found")
			}
			return err
		}

		referencers := []struct {
			model interface{}
			name  string
		}{
			{&models.PostResponseQuestion{}, "scenario attachments"},
			{&models.PreStudyQuestion{}, "pre-study attachments"},
			{&models.PostStudyQuestion{}, "post-study attachments"},
		}
		for _, ref := range referencers {
			var count int64
			if err := tx.Model(ref.model).Where("question_id = ?", questionID).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return NewConflictError("question is still referenced by " + ref.name)
			}
		}

		if err := tx.Where("question_id = ?", questionID).
			Delete(&models.QuestionTagAssignment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Question{}, questionID).Error
	})
}

// CreateTag adds a user tag to the global library. Tag text is unique
// library-wide.
func (s *QuestionService) CreateTag(userID uint, req *CreateTagRequest) (*models.QuestionTag, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, NewValidationError("tag text must not be empty")
	}

	var count int64
	if err := s.db.Model(&models.QuestionTag{}).Where("text = ?", text).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, NewConflictError("a tag with this text already exists")
	}

	tag := models.QuestionTag{
		Text:            text,
		CreatedByUserID: &userID,
	}
	if err := s.db.Create(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// GetTagLibrary lists all tags, defaults first, then alphabetically.
func (s *QuestionService) GetTagLibrary() ([]models.QuestionTag, error) {
	var tags []models.QuestionTag
	err := s.db.Order("is_default DESC, text ASC").Find(&tags).Error
	return tags, err
}

// DeleteTag removes a user tag while it is unreferenced. Default tags are
// part of the system library and cannot be deleted.
func (s *QuestionService) DeleteTag(tagID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var tag models.QuestionTag
		if err := tx.First(&tag, tagID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("tag not found")
			}
			return err
		}
		if tag.IsDefault {
			return NewAuthorizationError("default tags cannot be deleted")
		}

		var count int64
		if err := tx.Model(&models.QuestionTagAssignment{}).
			Where("question_tag_id = ?", tagID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return NewConflictError("tag is still assigned to questions")
		}
		if err := tx.Model(&models.QuestionResponseTag{}).
			Where("question_tag_id = ?", tagID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return NewConflictError("tag is still referenced by responses")
		}

		return tx.Delete(&models.QuestionTag{}, tagID).Error
	})
}

// SetQuestionTags reconciles a question's tag assignments against the desired
// ordered tag-id list: assignments missing from the list are deleted, new
// ids are inserted at their position, and surviving assignments get their
// order updated in place. Unknown tag ids are skipped. A (question, tag)
// pair is never duplicated.
func (s *QuestionService) SetQuestionTags(questionID uint, req *SetQuestionTagsRequest) ([]models.QuestionTagAssignment, error) {
	if _, err := s.GetQuestionByID(questionID); err != nil {
		return nil, err
	}

	// Keep only tag ids that exist, preserving the requested order and
	// dropping duplicates so positions stay meaningful.
	var existingTags []models.QuestionTag
	if len(req.TagIDs) > 0 {
		if err := s.db.Where("id IN ?", req.TagIDs).Find(&existingTags).Error; err != nil {
			return nil, err
		}
	}
	known := make(map[uint]bool, len(existingTags))
	for _, t := range existingTags {
		known[t.ID] = true
	}

	desired := make([]uint, 0, len(req.TagIDs))
	seen := make(map[uint]bool, len(req.TagIDs))
	for _, tagID := range req.TagIDs {
		if known[tagID] && !seen[tagID] {
			desired = append(desired, tagID)
			seen[tagID] = true
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var current []models.QuestionTagAssignment
		if err := tx.Where("question_id = ?", questionID).Find(&current).Error; err != nil {
			return err
		}
		currentByTag := make(map[uint]*models.QuestionTagAssignment, len(current))
		for i := range current {
			currentByTag[current[i].QuestionTagID] = &current[i]
		}

		for _, assignment := range current {
			if !seen[assignment.QuestionTagID] {
				if err := tx.Delete(&models.QuestionTagAssignment{}, assignment.ID).Error; err != nil {
					return err
				}
			}
		}

		for position, tagID := range desired {
			if existing, ok := currentByTag[tagID]; ok {
				if existing.Order != position {
					if err := tx.Model(&models.QuestionTagAssignment{}).
						Where("id = ?", existing.ID).
						Update("order", position).Error; err != nil {
						return err
					}
				}
				continue
			}
			assignment := models.QuestionTagAssignment{
				QuestionID:    questionID,
				QuestionTagID: tagID,
				Order:         position,
			}
			if err := tx.Create(&assignment).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var assignments []models.QuestionTagAssignment
	err = s.db.Where("question_id = ?", questionID).
		Preload("QuestionTag").
		Order("\"order\"").
		Find(&assignments).Error
	return assignments, err
}

func (s *QuestionService) GetScenarioQuestions(configID uint) ([]models.PostResponseQuestion, error) {
	if _, err := getConfiguration(s.db, configID); err != nil {
		return nil, err
	}

	var attachments []models.PostResponseQuestion
	err := s.db.Where("train_configuration_id = ?", configID).
		Preload("Question.TagAssignments", byOrder).
		Preload("Question.TagAssignments.QuestionTag").
		Scopes(byOrder).
		Find(&attachments).Error
	return attachments, err
}

// AttachScenarioQuestion attaches an existing question to a configuration.
// A question attaches at most once per configuration.
func (s *QuestionService) AttachScenarioQuestion(configID uint, req *AttachScenarioQuestionRequest) (*models.PostResponseQuestion, error) {
	if _, err := getConfiguration(s.db, configID); err != nil {
		return nil, err
	}
	if _, err := s.GetQuestionByID(req.QuestionID); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.PostResponseQuestion{}).
		Where("train_configuration_id = ? AND question_id = ?", configID, req.QuestionID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, NewConflictError("question is already attached to this configuration")
	}

	attachment := models.PostResponseQuestion{
		TrainConfigurationID: configID,
		QuestionID:           req.QuestionID,
		Required:             req.Required,
		Order:                req.Order,
	}
	if err := s.db.Create(&attachment).Error; err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (s *QuestionService) DetachScenarioQuestion(configID, attachmentID uint) error {
	if _, err := getConfiguration(s.db, configID); err != nil {
		return err
	}

	result := s.db.Where("id = ? AND train_configuration_id = ?", attachmentID, configID).
		Delete(&models.PostResponseQuestion{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return NewNotFoundError("post-response question not found")
	}
	return nil
}

// ComputeTagStatistics counts, for every tag ever selected on responses to
// this question, how often it was chosen. Sorted by count descending; ties
// break on tag id ascending so the order is stable.
func (s *QuestionService) ComputeTagStatistics(questionID uint) ([]TagStatistic, error) {
	if _, err := s.GetQuestionByID(questionID); err != nil {
		return nil, err
	}

	var links []models.QuestionResponseTag
	err := s.db.
		Joins("JOIN question_responses ON question_responses.id = question_response_tags.question_response_id").
		Joins("JOIN post_response_questions ON post_response_questions.id = question_responses.post_response_question_id").
		Where("post_response_questions.question_id = ?", questionID).
		Preload("QuestionTag").
		Find(&links).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]*TagStatistic)
	for _, link := range links {
		stat, ok := counts[link.QuestionTagID]
		if !ok {
			stat = &TagStatistic{
				QuestionTagID: link.QuestionTagID,
				Text:          link.QuestionTag.Text,
			}
			counts[link.QuestionTagID] = stat
		}
		stat.Count++
	}

	stats := make([]TagStatistic, 0, len(counts))
	for _, stat := range counts {
		stats = append(stats, *stat)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].QuestionTagID < stats[j].QuestionTagID
	})
	return stats, nil
}
