package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flyerhub/pkg/config"
	"flyerhub/pkg/jwt"
	"flyerhub/pkg/logger"
	"flyerhub/pkg/middleware"
	"flyerhub/pkg/queue"
	"flyerhub/pkg/s3"
	pointsHTTP "flyerhub/services/points/internal/controller/http"
	"flyerhub/services/points/internal/repo/persistent"
	"flyerhub/services/points/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB, redisClient *redis.Client, queueClient *queue.Client, s3Client *s3.Client) {
	jwtService := jwt.NewService(cfg.JWTSecret)

	// Initialize repositories
	ledgerRepo := persistent.NewLedgerRepository(db, cfg.LockWaitTimeout)

	// Initialize use cases
	pointsUseCase := usecase.NewPointsUseCase(ledgerRepo, redisClient, queueClient, cfg.DailyEarnCap, log)

	// Initialize HTTP handlers
	pointsHandler := pointsHTTP.NewPointsHandler(pointsUseCase, cfg.HistoryPageSize, log)
	adminHandler := pointsHTTP.NewAdminHandler(pointsUseCase, s3Client, log)

	// Setup router
	r := gin.Default()

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000", "*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(jwtService))
	api.Use(middleware.RateLimitMiddleware(redisClient, 100, time.Minute))

	{
		api.POST("/points/earn", pointsHandler.Earn)
		api.POST("/points/spend", pointsHandler.Spend)
		api.GET("/points/balance", pointsHandler.GetBalance)
		api.GET("/points/transactions", pointsHandler.GetTransactions)
		api.GET("/points/summary", pointsHandler.GetSummary)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.RequireRole("admin"))
	{
		admin.POST("/points/:user_id/grant", adminHandler.GrantPoints)
		admin.POST("/points/:user_id/deduct", adminHandler.DeductPoints)
		admin.POST("/points/:user_id/export", adminHandler.ExportHistory)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Points service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down points service...")

	// The context is used to inform the server it has 5 seconds to finish
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Close database connection
	sqlDB, err := db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error("Error closing database: %v", err)
		}
	}

	// Close Redis connection
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis: %v", err)
		}
	}

	// Close RabbitMQ connection
	if queueClient != nil {
		if err := queueClient.Close(); err != nil {
			log.Error("Error closing RabbitMQ: %v", err)
		}
	}

	// Shutdown server
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
		panic(err)
	}

	log.Info("Points service exited")
}
