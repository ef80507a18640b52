package handlers

import (
	"net/http"
	"strconv"

	"trainsurvey/services"

	"github.com/gin-gonic/gin"
)

type ScenarioHandler struct {
	scenarioService *services.ScenarioService
	statsService    *services.StatsService
}

func NewScenarioHandler(scenarioService *services.ScenarioService, statsService *services.StatsService) *ScenarioHandler {
	return &ScenarioHandler{
		scenarioService: scenarioService,
		statsService:    statsService,
	}
}

func (h *ScenarioHandler) CreateConfiguration(c *gin.Context) {
	var req services.CreateTrainConfigurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	config, err := h.scenarioService.CreateConfiguration(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, config)
}

func (h *ScenarioHandler) GetConfigurations(c *gin.Context) {
	configs, err := h.scenarioService.GetConfigurations()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, configs)
}

func (h *ScenarioHandler) GetConfigurationByID(c *gin.Context) {
	configID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	config, err := h.scenarioService.GetConfigurationByID(configID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, config)
}

func (h *ScenarioHandler) GetRandomConfiguration(c *gin.Context) {
	config, err := h.scenarioService.GetRandomConfiguration()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, config)
}

func (h *ScenarioHandler) UpdateConfiguration(c *gin.Context) {
	configID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateTrainConfigurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	config, err := h.scenarioService.UpdateConfiguration(configID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, config)
}

func (h *ScenarioHandler) DeleteConfiguration(c *gin.Context) {
	configID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.scenarioService.DeleteConfiguration(configID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Train configuration deleted successfully"})
}

func (h *ScenarioHandler) GetStatistics(c *gin.Context) {
	configID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	gender := c.Query("gender")
	switch gender {
	case "", "man", "woman", "neutral":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid gender filter"})
		return
	}

	stats, err := h.statsService.ComputeStatistics(configID, gender)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " parameter"})
		return 0, false
	}
	return uint(id), true
}
