package main

import (
	"log"

	"github.com/eugenetwtw/w22-8g-chinese-course-simplified/internal/config"
	"github.com/eugenetwtw/w22-8g-chinese-course-simplified/internal/content"
	"github.com/eugenetwtw/w22-8g-chinese-course-simplified/internal/grader"
	"github.com/eugenetwtw/w22-8g-chinese-course-simplified/internal/handlers"
	"github.com/eugenetwtw/w22-8g-chinese-course-simplified/internal/services"
	"github.com/eugenetwtw/w22-8g-chinese-course-simplified/internal/ws"

	_ "github.com/eugenetwtw/w22-8g-chinese-course-simplified/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Chinese Course Quiz API
// @version         1.0
// @description     Review material, quiz and AI-assisted grading for a middle-school Chinese course
// @host            localhost:8080
// @BasePath        /

func main() {
	cfg := config.Load()

	course, err := content.Load(cfg.ContentPath)
	if err != nil {
		log.Fatalf("failed to load course content: %v", err)
	}

	hub := ws.NewHub()

	gradingClient := grader.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIAPIURL, cfg.OpenAIModel)
	if !gradingClient.Available() {
		log.Println("OPENAI_API_KEY not set, AI grading disabled")
	}

	scoringService := services.NewScoringService()
	attemptService := services.NewAttemptService(course, gradingClient, scoringService, hub)

	contentHandler := handlers.NewContentHandler(course)
	attemptHandler := handlers.NewAttemptHandler(attemptService, gradingClient)
	wsHandler := handlers.NewWSHandler(hub, attemptService)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/ws/attempts/:id", wsHandler.HandleAttemptSocket)

	api := r.Group("/api/v1")
	{
		contentRoutes := api.Group("/content")
		{
			contentRoutes.GET("/review", contentHandler.GetReview)
			contentRoutes.GET("/quiz", contentHandler.GetQuiz)
		}

		api.GET("/grader/status", attemptHandler.GraderStatus)

		attempts := api.Group("/attempts")
		{
			attempts.POST("", attemptHandler.CreateAttempt)
			attempts.GET("/:id", attemptHandler.GetAttempt)
			attempts.PUT("/:id/choice", attemptHandler.SelectChoice)
			attempts.PUT("/:id/short-answer", attemptHandler.SetShortAnswer)
			attempts.PUT("/:id/essay", attemptHandler.SetEssay)
			attempts.POST("/:id/grade", attemptHandler.GradeItem)
			attempts.POST("/:id/submit", attemptHandler.Submit)
			attempts.POST("/:id/reset", attemptHandler.Reset)
			attempts.GET("/:id/results", attemptHandler.Results)
		}
	}

	log.Printf("server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
