package handlers

import (
	"net/http"

	"trainsurvey/services"

	"github.com/gin-gonic/gin"
)

type StudyHandler struct {
	studyService *services.StudyService
}

func NewStudyHandler(studyService *services.StudyService) *StudyHandler {
	return &StudyHandler{
		studyService: studyService,
	}
}

func (h *StudyHandler) CreateStudy(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateStudyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	study, err := h.studyService.CreateStudy(userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, study)
}

func (h *StudyHandler) GetUserStudies(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	studies, err := h.studyService.GetUserStudies(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, studies)
}

func (h *StudyHandler) GetStudyByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	studyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	study, err := h.studyService.GetStudyByID(studyID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, study)
}

func (h *StudyHandler) UpdateStudy(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	studyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateStudyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	study, err := h.studyService.UpdateStudy(studyID, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, study)
}

func (h *StudyHandler) DeleteStudy(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	studyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.studyService.DeleteStudy(studyID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Study deleted successfully"})
}

// GetPublicView serves the unauthenticated participant view of a study.
func (h *StudyHandler) GetPublicView(c *gin.Context) {
	studyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.studyService.GetPublicView(studyID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *StudyHandler) GetPreStudyQuestions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	studyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	questions, err := h.studyService.GetPreStudyQuestions(studyID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, questions)
}

func (h *StudyHandler) AttachPreStudyQuestion(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	studyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.AttachStudyQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	attachment, err := h.studyService.AttachPreStudyQuestion(studyID, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, attachment)
}

func (h *StudyHandler) DetachPreStudyQuestion(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	studyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	attachmentID, ok := parseIDParam(c, "questionId")
	if !ok {
		return
	}

	if err := h.studyService.DetachPreStudyQuestion(studyID, attachmentID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Pre-study question removed successfully"})
}

func (h *StudyHandler) GetPostStudyQuestions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	studyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	questions, err := h.studyService.GetPostStudyQuestions(studyID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, questions)
}

func (h *StudyHandler) AttachPostStudyQuestion(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	studyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.AttachStudyQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	attachment, err := h.studyService.AttachPostStudyQuestion(studyID, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, attachment)
}

func (h *StudyHandler) DetachPostStudyQuestion(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	studyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	attachmentID, ok := parseIDParam(c, "questionId")
	if !ok {
		return
	}

	if err := h.studyService.DetachPostStudyQuestion(studyID, attachmentID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post-study question removed successfully"})
}
