package main

// @title           Q&A Service API
// @version         1.0
// @description     A RESTful API for questions, answers, voting and real-time notifications
// @host            localhost:8080
// @BasePath        /api
// @schemes         http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"qa-service/internal/adapters/kafka"
	"qa-service/internal/adapters/storage"
	"qa-service/internal/api/routes"
	"qa-service/internal/config"
	"qa-service/internal/database"
	"qa-service/internal/repositories/postgres"
	"qa-service/internal/services"
	"qa-service/internal/websocket"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	slog.Info("Starting Q&A server")

	redisClient, err := database.NewRedisConnection(&cfg.Redis)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	db, err := database.NewPostgresConnection(cfg.Database.URI)
	if err != nil {
		slog.Error("Failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}

	redisService := services.NewRedisService(redisClient)
	authService := services.NewAuthService(postgres.NewUserRepository(db), &cfg.JWT)

	hub := websocket.NewHub(authService, redisService)
	go hub.Run()

	producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer producer.Close()

	// Avatar uploads are optional; without MinIO the endpoint reports 503.
	var avatarStorage services.AvatarStorage
	if cfg.Minio.Endpoint != "" {
		minioStorage, err := storage.NewMinioStorage(
			cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey,
			cfg.Minio.Bucket, cfg.Minio.UseSSL,
		)
		if err != nil {
			slog.Error("Failed to initialize MinIO", "error", err)
			os.Exit(1)
		}
		avatarStorage = minioStorage
	}

	router := routes.NewRouter(routes.Deps{
		DB:            db,
		Hub:           hub,
		RedisService:  redisService,
		AuthService:   authService,
		Producer:      producer,
		AvatarStorage: avatarStorage,
	})
	router.SetupRoutes()

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.GetEngine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		slog.Info("Server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	hub.Stop()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server stopped")
}
