package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"clinic-records-server/internal/config"
	"clinic-records-server/internal/logger"
	"clinic-records-server/internal/metrics"
	"clinic-records-server/internal/middleware"
	"clinic-records-server/internal/models"
	"clinic-records-server/internal/routes"
	"clinic-records-server/internal/tracing"
)

func main() {
	// Load environment variables; a missing .env is fine in containers
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	appLogger, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer appLogger.Sync()

	tracerProvider, err := tracing.Init(cfg.Tracing)
	if err != nil {
		appLogger.Fatal("Error initializing tracing", zap.Error(err))
	}

	// Create a DatabaseConfig for models
	modelDbConfig := models.DatabaseConfig{
		DSN: cfg.Database.DSN,
	}

	// Initialize database connection
	db, err := models.InitDB(modelDbConfig)
	if err != nil {
		appLogger.Fatal("Error connecting to database", zap.Error(err))
	}

	collector := metrics.NewCollector("clinic")

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(appLogger, collector))

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Set up routes - passing DB and config to let routes.go create the handlers
	routes.SetupRoutes(router, db, cfg, appLogger, collector)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		appLogger.Info("Server starting", zap.String("port", cfg.Port), zap.String("environment", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Server error", zap.Error(err))
		}
	}()

	// Block until an interrupt arrives, then drain in-flight requests
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Fatal("Server shutdown failed", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(ctx); err != nil {
		appLogger.Error("Tracer shutdown failed", zap.Error(err))
	}

	appLogger.Info("Server stopped")
}
