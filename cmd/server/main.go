// @title Mental Wellness API
// @version 1.0
// @description Backend API for the Mental Wellness conversational assistant
// @termsOfService http://swagger.io/terms/
// @contact.name API Support
// @contact.email support@example.com
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"log"

	"mental-wellness-be/config"
	"mental-wellness-be/internal/database"
	"mental-wellness-be/internal/handlers"
	"mental-wellness-be/internal/middleware"
	"mental-wellness-be/internal/repository"
	"mental-wellness-be/internal/services"

	"github.com/gin-gonic/gin"

	_ "mental-wellness-be/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Connect to MongoDB
	mongodb, err := database.NewMongoDB(cfg.MongoDBURI, cfg.MongoDBDatabase)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongodb.Disconnect()

	// Initialize repositories
	userRepo := repository.NewUserRepository(mongodb.Database)
	conversationRepo := repository.NewConversationRepository(mongodb.Database)

	// Initialize services
	stressService := services.NewStressService(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.AITimeout)
	replyService := services.NewReplyService(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.AITimeout)
	chatService := services.NewChatService(stressService, replyService, conversationRepo, userRepo)
	analyticsService := services.NewAnalyticsService(conversationRepo, userRepo)

	// Reconcile cached conversation counters against the log
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	services.StartReconcileWorker(workerCtx, cfg.ReconcileInterval, userRepo, conversationRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(cfg, userRepo)
	chatHandler := handlers.NewChatHandler(chatService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)

	// Initialize Gin
	r := gin.Default()

	// Apply CORS middleware
	r.Use(middleware.CORS(cfg))

	// Health check
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Mental Wellness API is running",
		})
	})

	// Auth routes (shapes follow the original frontend)
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)

	// Chat and analytics
	r.POST("/api/send-message", chatHandler.SendMessage)
	r.GET("/analytics/:username", analyticsHandler.GetAnalytics)
	r.GET("/analytics/:username/count", analyticsHandler.GetConversationCount)
	r.GET("/analytics/:username/suggestions", analyticsHandler.SearchSuggestions)

	// Extended auth
	api := r.Group("/api")
	{
		api.POST("/auth/google", authHandler.GoogleAuth)
		api.POST("/auth/refresh", authHandler.RefreshToken)
	}

	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware(cfg))
	{
		protected.GET("/auth/me", authHandler.GetMe)
	}

	// Swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	log.Printf("Connected to MongoDB: %s", cfg.MongoDBDatabase)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
