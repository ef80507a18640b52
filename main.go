package main

import (
	"log"

	"trainsurvey/config"
	"trainsurvey/handlers"
	"trainsurvey/middleware"
	"trainsurvey/models"
	"trainsurvey/routes"
	"trainsurvey/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.User{},
		&models.EmailVerification{},
		&models.TrainConfiguration{},
		&models.ScenarioGroup{},
		&models.ScenarioGroupEditor{},
		&models.ScenarioGroupItem{},
		&models.Study{},
		&models.Question{},
		&models.QuestionTag{},
		&models.QuestionTagAssignment{},
		&models.PostResponseQuestion{},
		&models.PreStudyQuestion{},
		&models.PostStudyQuestion{},
		&models.UserResponse{},
		&models.QuestionResponse{},
		&models.QuestionResponseTag{},
		&models.PreStudyQuestionResponse{},
		&models.PostStudyQuestionResponse{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)

	// Initialize services
	emailSender := services.NewResendEmailSender(cfg.ResendAPIKey, cfg.EmailFrom, cfg.FrontendURL)
	authService := services.NewAuthService(db, cfg.JWTSecret, emailSender)
	scenarioService := services.NewScenarioService(db)
	statsService := services.NewStatsService(db, redisClient)
	groupService := services.NewGroupService(db)
	studyService := services.NewStudyService(db)
	questionService := services.NewQuestionService(db)

	// Initialize live statistics hub
	hub := services.NewHub()
	go hub.Run()

	responseService := services.NewResponseService(db, statsService, hub)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	scenarioHandler := handlers.NewScenarioHandler(scenarioService, statsService)
	responseHandler := handlers.NewResponseHandler(responseService)
	groupHandler := handlers.NewGroupHandler(groupService)
	studyHandler := handlers.NewStudyHandler(studyService)
	questionHandler := handlers.NewQuestionHandler(questionService)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS(cfg.CORSOrigins))

	// Setup routes
	routes.SetupRoutes(router, authHandler, scenarioHandler, responseHandler,
		groupHandler, studyHandler, questionHandler, scenarioService, hub, cfg.JWTSecret)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
