package handlers

import (
	"net/http"
	"strconv"

	"trainsurvey/services"

	"github.com/gin-gonic/gin"
)

type ResponseHandler struct {
	responseService *services.ResponseService
}

func NewResponseHandler(responseService *services.ResponseService) *ResponseHandler {
	return &ResponseHandler{
		responseService: responseService,
	}
}

func (h *ResponseHandler) SubmitResponse(c *gin.Context) {
	var req services.SubmitResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// A logged-in participant is attributed server-side; the client-supplied
	// user_id only counts for anonymous sessions.
	if userID, exists := c.Get("user_id"); exists {
		id := strconv.FormatUint(uint64(userID.(uint)), 10)
		req.UserID = &id
	}

	response, err := h.responseService.SubmitResponse(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *ResponseHandler) SubmitQuestionResponse(c *gin.Context) {
	var req services.SubmitQuestionResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.responseService.SubmitQuestionResponse(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *ResponseHandler) SubmitPreStudyResponse(c *gin.Context) {
	var req services.SubmitStudyQuestionResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.responseService.SubmitPreStudyResponse(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *ResponseHandler) SubmitPostStudyResponse(c *gin.Context) {
	var req services.SubmitStudyQuestionResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.responseService.SubmitPostStudyResponse(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}
