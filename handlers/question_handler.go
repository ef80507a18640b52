package handlers

import (
	"net/http"

	"trainsurvey/services"

	"github.com/gin-gonic/gin"
)

type QuestionHandler struct {
	questionService *services.QuestionService
}

func NewQuestionHandler(questionService *services.QuestionService) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
	}
}

func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var req services.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question, err := h.questionService.CreateQuestion(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

func (h *QuestionHandler) GetQuestions(c *gin.Context) {
	questions, err := h.questionService.GetQuestions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, questions)
}

func (h *QuestionHandler) GetQuestionByID(c *gin.Context) {
	questionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	question, err := h.questionService.GetQuestionByID(questionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	questionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question, err := h.questionService.UpdateQuestion(questionID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	questionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.questionService.DeleteQuestion(questionID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Question deleted successfully"})
}

func (h *QuestionHandler) CreateTag(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tag, err := h.questionService.CreateTag(userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tag)
}

func (h *QuestionHandler) GetTagLibrary(c *gin.Context) {
	tags, err := h.questionService.GetTagLibrary()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, tags)
}

func (h *QuestionHandler) DeleteTag(c *gin.Context) {
	tagID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.questionService.DeleteTag(tagID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tag deleted successfully"})
}

func (h *QuestionHandler) SetQuestionTags(c *gin.Context) {
	questionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.SetQuestionTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assignments, err := h.questionService.SetQuestionTags(questionID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignments)
}

func (h *QuestionHandler) GetScenarioQuestions(c *gin.Context) {
	configID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	attachments, err := h.questionService.GetScenarioQuestions(configID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, attachments)
}

func (h *QuestionHandler) AttachScenarioQuestion(c *gin.Context) {
	configID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.AttachScenarioQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	attachment, err := h.questionService.AttachScenarioQuestion(configID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, attachment)
}

func (h *QuestionHandler) DetachScenarioQuestion(c *gin.Context) {
	configID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	attachmentID, ok := parseIDParam(c, "questionId")
	if !ok {
		return
	}

	if err := h.questionService.DetachScenarioQuestion(configID, attachmentID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Question detached successfully"})
}

func (h *QuestionHandler) GetTagStatistics(c *gin.Context) {
	questionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	stats, err := h.questionService.ComputeTagStatistics(questionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
