package router

import (
	"context"
	"log"
	"time"

	"github.com/bookxchange/backend/internal/handlers"
	"github.com/bookxchange/backend/internal/mailer"
	"github.com/bookxchange/backend/internal/middleware"
	"github.com/bookxchange/backend/internal/repositories"
	"github.com/bookxchange/backend/internal/services"
	"github.com/bookxchange/backend/pkg/config"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, mgClient *mongo.Client, redisClient *redis.Client, cfg *config.Config) {
	db := mgClient.Database(cfg.MongoDBName)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := repositories.EnsureIndexes(ctx, db, cfg.SessionTTL); err != nil {
		log.Fatalf("Failed to ensure MongoDB indexes: %v", err)
	}
	log.Println("MongoDB indexes ensured.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewMongoUserRepository(db)
	bookRepo := repositories.NewMongoBookRepository(db)
	sessionRepo := repositories.NewMongoSessionRepository(db)
	locationRepo := repositories.NewRedisLocationRepository(redisClient)

	// --- Initialize Services ---
	notificationService := services.NewNotificationService(userRepo)
	likeService := services.NewLikeService(userRepo, bookRepo, notificationService)
	discoveryService := services.NewDiscoveryService(userRepo, bookRepo, locationRepo)

	var mail mailer.Mailer = mailer.LogMailer{}
	if cfg.Env != "development" {
		mail = mailer.NewSendGridMailer(cfg.SendGridAPIKey, cfg.FromEmail, cfg.SendGridTemplateID)
	}

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, sessionRepo, locationRepo, mail, cfg.JWTSecret, cfg.JWTExpiry, cfg.Env == "development")
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes (require a live session) ---
	api := e.Group("/api/v1")
	api.Use(middleware.SessionAuth(sessionRepo, cfg.JWTSecret))
	log.Println("Session authentication middleware applied to /api/v1 group.")

	authHandler.RegisterSessionRoutes(api)

	// User profile routes
	userHandler := handlers.NewUserHandler(userRepo, locationRepo)
	userHandler.RegisterProfileRoutes(api)
	log.Println("User profile routes configured.")

	// Book routes
	bookHandler := handlers.NewBookHandler(bookRepo, userRepo)
	bookHandler.RegisterBookRoutes(api)
	log.Println("Book routes configured.")

	// Like routes
	likeHandler := handlers.NewLikeHandler(likeService)
	likeHandler.RegisterLikeRoutes(api)
	log.Println("Like routes configured.")

	// Discovery routes
	discoveryHandler := handlers.NewDiscoveryHandler(discoveryService)
	discoveryHandler.RegisterDiscoveryRoutes(api)
	log.Println("Discovery routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	// Admin routes
	adminGroup := e.Group("/api/v1/admin")
	adminHandler := handlers.NewAdminHandler(userRepo, bookRepo, sessionRepo, cfg.AdminToken)
	adminHandler.RegisterAdminRoutes(adminGroup)
	log.Println("Admin routes configured.")
}
