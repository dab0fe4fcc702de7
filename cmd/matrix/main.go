package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/0xForelsket/skillmatrix/internal/matrix/auth"
	"github.com/0xForelsket/skillmatrix/internal/matrix/cache"
	"github.com/0xForelsket/skillmatrix/internal/matrix/config"
	"github.com/0xForelsket/skillmatrix/internal/matrix/controller"
	"github.com/0xForelsket/skillmatrix/internal/matrix/db"
	"github.com/0xForelsket/skillmatrix/internal/matrix/events"
	"github.com/0xForelsket/skillmatrix/internal/matrix/handlers"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	logger := initLogger()
	defer func(logger *zap.Logger) {
		err := logger.Sync()
		if err != nil {
			logger.Error("failed to sync logger", zap.Error(err))
		}
	}(logger)

	// Optional .env for local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	repo, err := db.NewRepository(initDatabase(cfg))
	if err != nil {
		log.Fatal("failed to initialize database", err)
	}
	defer repo.Close()

	producer, err := events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
	if err != nil {
		log.Fatal("failed to initialize Kafka producer", err)
	}
	defer producer.Close()

	matrixCache := cache.NewMatrixCache(
		cfg.RedisAddr,
		cfg.RedisPassword,
		cfg.RedisDB,
		time.Duration(cfg.CacheTTLSecs)*time.Second,
		logger,
	)
	defer matrixCache.Close()

	matrixSvc := controller.NewMatrixService(repo, producer, matrixCache, logger)

	// Periodic expiry sweep publishing certification_expired events.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.SweepSchedule, func() {
		if err := matrixSvc.SweepExpired(context.Background()); err != nil {
			logger.Error("expiry sweep failed", zap.Error(err))
		}
	}); err != nil {
		logger.Fatal("failed to schedule expiry sweep", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	matrixHandler := handlers.NewMatrixHandler(matrixSvc, logger)
	server := handlers.NewServer(cfg.HTTPPort, logger, matrixHandler, auth.Middleware(cfg.JWTSecret))

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	waitForShutdown(server, logger)
}

// initLogger initializes a Zap production logger.
func initLogger() *zap.Logger {
	logger, _ := zap.NewProduction()
	return logger
}

// initDatabase initializes the database connection settings.
func initDatabase(cfg *config.Config) *db.Config {
	return &db.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	}
}

// waitForShutdown blocks until an interrupt or SIGTERM is received, then shuts down the server.
func waitForShutdown(server *handlers.Server, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	server.Stop()
	logger.Info("Server stopped properly")
}
