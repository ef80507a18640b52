package services

import (
	"errors"

	"trainsurvey/models"

	"gorm.io/gorm"
)

type StudyService struct {
	db *gorm.DB
}

func NewStudyService(db *gorm.DB) *StudyService {
	return &StudyService{db: db}
}

type CreateStudyRequest struct {
	ScenarioGroupID uint   `json:"scenario_group_id" binding:"required"`
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	ContactEmail    string `json:"contact_email" binding:"required,email"`
}

type UpdateStudyRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	ContactEmail *string `json:"contact_email" binding:"omitempty,email"`
}

type AttachStudyQuestionRequest struct {
	QuestionID uint `json:"question_id" binding:"required"`
	Required   bool `json:"required"`
	Order      int  `json:"order"`
}

// StudyPublicView is the participant-facing shape of a study: the ordered
// scenarios plus the study-level questionnaires, no researcher data.
type StudyPublicView struct {
	ID                 uint                       `json:"id"`
	Title              string                     `json:"title"`
	Description        string                     `json:"description"`
	ContactEmail       string                     `json:"contact_email"`
	Items              []models.ScenarioGroupItem `json:"items"`
	PreStudyQuestions  []models.PreStudyQuestion  `json:"pre_study_questions"`
	PostStudyQuestions []models.PostStudyQuestion `json:"post_study_questions"`
}

// CreateStudy binds a scenario group to a new study. The caller must be the
// group's creator or one of its editors; the study itself is owned solely by
// the caller.
func (s *StudyService) CreateStudy(userID uint, req *CreateStudyRequest) (*models.Study, error) {
	if _, err := requireGroupRole(s.db, req.ScenarioGroupID, userID, RoleEditor); err != nil {
		return nil, err
	}

	study := models.Study{
		ScenarioGroupID: req.ScenarioGroupID,
		Title:           req.Title,
		Description:     req.Description,
		ContactEmail:    req.ContactEmail,
		CreatedByUserID: userID,
	}
	if err := s.db.Create(&study).Error; err != nil {
		return nil, err
	}
	return &study, nil
}

func (s *StudyService) GetUserStudies(userID uint) ([]models.Study, error) {
	var studies []models.Study
	err := s.db.Where("created_by_user_id = ?", userID).
		Order("created_at DESC").
		Find(&studies).Error
	return studies, err
}

// getOwnedStudy loads a study and enforces single-tier ownership. Not-found
// wins over authorization when the study does not exist.
func (s *StudyService) getOwnedStudy(studyID uint, userID uint) (*models.Study, error) {
	var study models.Study
	if err := s.db.First(&study, studyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("study not found")
		}
		return nil, err
	}
	if study.CreatedByUserID != userID {
		return nil, NewAuthorizationError("only the study creator may access this study")
	}
	return &study, nil
}

func (s *StudyService) GetStudyByID(studyID uint, userID uint) (*models.Study, error) {
	if _, err := s.getOwnedStudy(studyID, userID); err != nil {
		return nil, err
	}

	var study models.Study
	err := s.db.
		Preload("ScenarioGroup").
		Preload("PreStudyQuestions", byOrder).
		Preload("PreStudyQuestions.Question.TagAssignments", byOrder).
		Preload("PreStudyQuestions.Question.TagAssignments.QuestionTag").
		Preload("PostStudyQuestions", byOrder).
		Preload("PostStudyQuestions.Question.TagAssignments", byOrder).
		Preload("PostStudyQuestions.Question.TagAssignments.QuestionTag").
		First(&study, studyID).Error
	if err != nil {
		return nil, err
	}
	return &study, nil
}

func (s *StudyService) UpdateStudy(studyID uint, userID uint, req *UpdateStudyRequest) (*models.Study, error) {
	study, err := s.getOwnedStudy(studyID, userID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		study.Title = *req.Title
	}
	if req.Description != nil {
		study.Description = *req.Description
	}
	if req.ContactEmail != nil {
		study.ContactEmail = *req.ContactEmail
	}

	if err := s.db.Save(study).Error; err != nil {
		return nil, err
	}
	return study, nil
}

// DeleteStudy removes the study and its question attachments. Responses to
// study questions are kept for later analysis.
func (s *StudyService) DeleteStudy(studyID uint, userID uint) error {
	if _, err := s.getOwnedStudy(studyID, userID); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("study_id = ?", studyID).Delete(&models.PreStudyQuestion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("study_id = ?", studyID).Delete(&models.PostStudyQuestion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Study{}, studyID).Error
	})
}

// GetPublicView assembles the unauthenticated participant view of a study.
func (s *StudyService) GetPublicView(studyID uint) (*StudyPublicView, error) {
	var study models.Study
	err := s.db.
		Preload("PreStudyQuestions", byOrder).
		Preload("PreStudyQuestions.Question.TagAssignments", byOrder).
		Preload("PreStudyQuestions.Question.TagAssignments.QuestionTag").
		Preload("PostStudyQuestions", byOrder).
		Preload("PostStudyQuestions.Question.TagAssignments", byOrder).
		Preload("PostStudyQuestions.Question.TagAssignments.QuestionTag").
		First(&study, studyID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("study not found")
		}
		return nil, err
	}

	var items []models.ScenarioGroupItem
	err = s.db.Where("scenario_group_id = ?", study.ScenarioGroupID).
		Preload("TrainConfiguration").
		Scopes(byOrder).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return &StudyPublicView{
		ID:                 study.ID,
		Title:              study.Title,
		Description:        study.Description,
		ContactEmail:       study.ContactEmail,
		Items:              items,
		PreStudyQuestions:  study.PreStudyQuestions,
		PostStudyQuestions: study.PostStudyQuestions,
	}, nil
}

func (s *StudyService) GetPreStudyQuestions(studyID uint, userID uint) ([]models.PreStudyQuestion, error) {
	if _, err := s.getOwnedStudy(studyID, userID); err != nil {
		return nil, err
	}

	var questions []models.PreStudyQuestion
	err := s.db.Where("study_id = ?", studyID).
		Preload("Question").
		Scopes(byOrder).
		Find(&questions).Error
	return questions, err
}

// AttachPreStudyQuestion attaches an existing question to the study. A
// question attaches at most once per study.
func (s *StudyService) AttachPreStudyQuestion(studyID uint, userID uint, req *AttachStudyQuestionRequest) (*models.PreStudyQuestion, error) {
	if _, err := s.getOwnedStudy(studyID, userID); err != nil {
		return nil, err
	}
	if err := s.checkQuestionExists(req.QuestionID); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.PreStudyQuestion{}).
		Where("study_id = ? AND question_id = ?", studyID, req.QuestionID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, NewConflictError("question is already attached to this study")
	}

	attachment := models.PreStudyQuestion{
		StudyID:    studyID,
		QuestionID: req.QuestionID,
		Required:   req.Required,
		Order:      req.Order,
	}
	if err := s.db.Create(&attachment).Error; err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (s *StudyService) DetachPreStudyQuestion(studyID, attachmentID, userID uint) error {
	if _, err := s.getOwnedStudy(studyID, userID); err != nil {
		return err
	}

	result := s.db.Where("id = ? AND study_id = ?", attachmentID, studyID).
		Delete(&models.PreStudyQuestion{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return NewNotFoundError("pre-study question not found")
	}
	return nil
}

func (s *StudyService) GetPostStudyQuestions(studyID uint, userID uint) ([]models.PostStudyQuestion, error) {
	if _, err := s.getOwnedStudy(studyID, userID); err != nil {
		return nil, err
	}

	var questions []models.PostStudyQuestion
	err := s.db.Where("study_id = ?", studyID).
		Preload("Question").
		Scopes(byOrder).
		Find(&questions).Error
	return questions, err
}

func (s *StudyService) AttachPostStudyQuestion(studyID uint, userID uint, req *AttachStudyQuestionRequest) (*models.PostStudyQuestion, error) {
	if _, err := s.getOwnedStudy(studyID, userID); err != nil {
		return nil, err
	}
	if err := s.checkQuestionExists(req.QuestionID); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.PostStudyQuestion{}).
		Where("study_id = ? AND question_id = ?", studyID, req.QuestionID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, NewConflictError("question is already attached to this study")
	}

	attachment := models.PostStudyQuestion{
		StudyID:    studyID,
		QuestionID: req.QuestionID,
		Required:   req.Required,
		Order:      req.Order,
	}
	if err := s.db.Create(&attachment).Error; err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (s *StudyService) DetachPostStudyQuestion(studyID, attachmentID, userID uint) error {
	if _, err := s.getOwnedStudy(studyID, userID); err != nil {
		return err
	}

	result := s.db.Where("id = ? AND study_id = ?", attachmentID, studyID).
		Delete(&models.PostStudyQuestion{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return NewNotFoundError("post-study question not found")
	}
	return nil
}

func (s *StudyService) checkQuestionExists(questionID uint) error {
	var question models.Question
	if err := s.db.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("question not found")
		}
		return err
	}
	return nil
}

// byOrder sorts attachment rows by their caller-supplied order column.
func byOrder(db *gorm.DB) *gorm.DB {
	return db.Order("\"order\"")
}
