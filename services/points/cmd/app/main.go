package main

import (
	"flyerhub/pkg/cache"
	"flyerhub/pkg/config"
	"flyerhub/pkg/database"
	"flyerhub/pkg/logger"
	"flyerhub/pkg/queue"
	"flyerhub/pkg/s3"
	"flyerhub/services/points/internal/app"

	_ "flyerhub/services/points/docs" // Swagger docs
)

// @title           Points Service API
// @version         1.0
// @description     Points ledger and transaction engine for the FlyerHub platform

// @contact.name   API Support

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if cfg.JWTSecret == "your-secret-key-change-in-production" || cfg.JWTSecret == "" {
		panic("JWT_SECRET must be set in environment variables")
	}

	log := logger.New()

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		// Rate limiting and daily caps degrade without redis; the ledger still runs.
		log.Warn("Redis unavailable, continuing without it: %v", err)
		redisClient = nil
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Warn("RabbitMQ unavailable, points events will not be published: %v", err)
		queueClient = nil
	}

	var s3Client *s3.Client
	if cfg.AWSAccessKeyID != "" || cfg.AWSEndpoint != "" {
		s3Client, err = s3.NewClient(cfg)
		if err != nil {
			log.Warn("S3 unavailable, audit exports disabled: %v", err)
			s3Client = nil
		}
	}

	app.Run(cfg, log, db, redisClient, queueClient, s3Client)
}
