package routes

import (
	"log"
	"net/http"
	"strconv"

	"trainsurvey/handlers"
	"trainsurvey/middleware"
	"trainsurvey/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // origin filtering happens at the CORS layer
	},
}

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	scenarioHandler *handlers.ScenarioHandler,
	responseHandler *handlers.ResponseHandler,
	groupHandler *handlers.GroupHandler,
	studyHandler *handlers.StudyHandler,
	questionHandler *handlers.QuestionHandler,
	scenarioService *services.ScenarioService,
	hub *services.Hub,
	jwtSecret string,
) {
	requireAuth := middleware.AuthMiddleware(jwtSecret)

	// Auth routes (public)
	auth := router.Group("/auth")
	{
		auth.POST("/send-verification", authHandler.SendVerification)
		auth.GET("/verify-link", authHandler.VerifyLink)
		auth.POST("/verify-token", authHandler.VerifyToken)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/me", requireAuth, authHandler.GetProfile)
	}

	// Train configurations: reads are public for participants, mutations
	// require a researcher session.
	configs := router.Group("/train-configurations")
	{
		configs.GET("", scenarioHandler.GetConfigurations)
		configs.GET("/random", scenarioHandler.GetRandomConfiguration)
		configs.GET("/:id", scenarioHandler.GetConfigurationByID)
		configs.GET("/:id/statistics", scenarioHandler.GetStatistics)
		configs.GET("/:id/questions", questionHandler.GetScenarioQuestions)

		configs.POST("", requireAuth, scenarioHandler.CreateConfiguration)
		configs.PUT("/:id", requireAuth, scenarioHandler.UpdateConfiguration)
		configs.DELETE("/:id", requireAuth, scenarioHandler.DeleteConfiguration)
		configs.POST("/:id/questions", requireAuth, questionHandler.AttachScenarioQuestion)
		configs.DELETE("/:id/questions/:questionId", requireAuth, questionHandler.DetachScenarioQuestion)
	}

	// Participant response routes: public and session-identified, but a valid
	// researcher cookie still attributes the submission to its user.
	optionalAuth := middleware.OptionalAuthMiddleware(jwtSecret)
	router.POST("/user-responses", optionalAuth, responseHandler.SubmitResponse)
	router.POST("/question-responses", optionalAuth, responseHandler.SubmitQuestionResponse)
	router.POST("/pre-study-question-responses", optionalAuth, responseHandler.SubmitPreStudyResponse)
	router.POST("/post-study-question-responses", optionalAuth, responseHandler.SubmitPostStudyResponse)

	// Scenario groups (authenticated; ownership checked in the service layer)
	groups := router.Group("/scenario-groups", requireAuth)
	{
		groups.GET("", groupHandler.GetUserGroups)
		groups.POST("", groupHandler.CreateGroup)
		groups.GET("/:id", groupHandler.GetGroupByID)
		groups.PUT("/:id", groupHandler.UpdateGroup)
		groups.DELETE("/:id", groupHandler.DeleteGroup)

		groups.POST("/:id/items", groupHandler.AddItem)
		groups.PUT("/:id/items/:itemId", groupHandler.UpdateItem)
		groups.DELETE("/:id/items/:itemId", groupHandler.RemoveItem)

		groups.GET("/:id/editors", groupHandler.GetEditors)
		groups.POST("/:id/editors", groupHandler.AddEditor)
		groups.DELETE("/:id/editors/:userId", groupHandler.RemoveEditor)
	}

	// Studies
	studies := router.Group("/studies")
	{
		studies.GET("/:id/public", studyHandler.GetPublicView)

		authed := studies.Group("", requireAuth)
		authed.GET("", studyHandler.GetUserStudies)
		authed.POST("", studyHandler.CreateStudy)
		authed.GET("/:id", studyHandler.GetStudyByID)
		authed.PUT("/:id", studyHandler.UpdateStudy)
		authed.DELETE("/:id", studyHandler.DeleteStudy)

		authed.GET("/:id/pre-study-questions", studyHandler.GetPreStudyQuestions)
		authed.POST("/:id/pre-study-questions", studyHandler.AttachPreStudyQuestion)
		authed.DELETE("/:id/pre-study-questions/:questionId", studyHandler.DetachPreStudyQuestion)

		authed.GET("/:id/post-study-questions", studyHandler.GetPostStudyQuestions)
		authed.POST("/:id/post-study-questions", studyHandler.AttachPostStudyQuestion)
		authed.DELETE("/:id/post-study-questions/:questionId", studyHandler.DetachPostStudyQuestion)
	}

	// Questions and the shared tag library
	questions := router.Group("/questions")
	{
		questions.GET("/tag-library", questionHandler.GetTagLibrary)
		questions.GET("/:id", questionHandler.GetQuestionByID)
		questions.GET("/:id/tag-statistics", questionHandler.GetTagStatistics)

		questions.GET("", requireAuth, questionHandler.GetQuestions)
		questions.POST("", requireAuth, questionHandler.CreateQuestion)
		questions.PUT("/:id", requireAuth, questionHandler.UpdateQuestion)
		questions.DELETE("/:id", requireAuth, questionHandler.DeleteQuestion)
		questions.PUT("/:id/tags", requireAuth, questionHandler.SetQuestionTags)

		questions.POST("/tags", requireAuth, questionHandler.CreateTag)
		questions.DELETE("/tags/:id", requireAuth, questionHandler.DeleteTag)
	}

	// Live statistics stream for researchers watching responses arrive
	router.GET("/train-configurations/:id/statistics/live", func(c *gin.Context) {
		configID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid configuration ID"})
			return
		}

		if _, err := scenarioService.GetConfigurationByID(uint(configID)); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Train configuration not found"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed for configuration %d: %v", configID, err)
			return
		}

		hub.RegisterClient(conn, uint(configID))
	})

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to Train Seat Survey API"})
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
