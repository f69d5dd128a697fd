// @title           Vortex Board API
// @version         1.0
// @description     Multi-tenant kanban board API with realtime sync
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.email  support@vortexboard.dev

// @host      localhost:8000
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/vinilopesc/vortex-board/docs" // Swagger docs import

	"github.com/vinilopesc/vortex-board/internal/access"
	"github.com/vinilopesc/vortex-board/internal/config"
	"github.com/vinilopesc/vortex-board/internal/database"
	"github.com/vinilopesc/vortex-board/internal/job"
	"github.com/vinilopesc/vortex-board/internal/metrics"
	"github.com/vinilopesc/vortex-board/internal/repository"
	"github.com/vinilopesc/vortex-board/internal/router"
	"github.com/vinilopesc/vortex-board/internal/service"
	"github.com/vinilopesc/vortex-board/internal/storage"
	"github.com/vinilopesc/vortex-board/internal/ws"
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logger.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Set Gin mode
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Starting Vortex Board",
		zap.String("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("base_path", cfg.Server.BasePath),
	)

	// Initialize database; a failed connection keeps the pod alive and
	// retries in the background
	dbConfig := database.Config{
		DSN:             cfg.Database.GetDSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	db, err := database.New(dbConfig)
	if err != nil {
		logger.Warn("Failed to connect to database on startup, will retry in background",
			zap.Error(err))
		database.NewAsync(dbConfig, 5*time.Second)
	} else {
		database.SetDB(db)
		logger.Info("Database connected successfully")

		if err := database.AutoMigrate(db); err != nil {
			logger.Warn("Failed to run database migrations", zap.Error(err))
		} else {
			logger.Info("Database migrations completed")
		}
	}

	// Initialize metrics
	m := metrics.NewWithLogger(logger)
	logger.Info("Metrics initialized")

	if db != nil {
		database.RegisterMetricsCallbacks(db, m)
		statsDone := database.StartDBStatsCollector(db, m)
		defer close(statsDone)
	}

	// Initialize Redis for cross-instance event fanout
	if err := database.InitRedis(cfg.Redis, logger); err != nil {
		logger.Warn("Redis unavailable, event fanout stays in-process", zap.Error(err))
	}
	redisClient := database.GetRedis()

	// Initialize S3 client
	var s3Client storage.S3Client
	if cfg.S3.Bucket != "" && cfg.S3.Region != "" {
		client, err := storage.NewS3Client(cfg.S3)
		if err != nil {
			logger.Warn("Failed to initialize S3 client, attachment features may be limited", zap.Error(err))
		} else {
			s3Client = client
			logger.Info("S3 client initialized",
				zap.String("bucket", cfg.S3.Bucket),
				zap.String("region", cfg.S3.Region),
			)
		}
	} else {
		logger.Warn("S3 configuration incomplete, attachment features disabled")
	}

	// Start the websocket hub
	hub := ws.NewHub(logger, m)
	go hub.Run()

	// Start business metrics collection
	collector := metrics.NewBusinessMetricsCollector(db, m, logger)
	collector.Start()

	// Schedule background jobs
	scheduler := cron.New()
	if db != nil {
		userRepo := repository.NewUserRepository(db)
		projectRepo := repository.NewProjectRepository(db)
		boardRepo := repository.NewBoardRepository(db)
		itemRepo := repository.NewItemRepository(db)
		attachmentRepo := repository.NewAttachmentRepository(db)
		gate := access.NewAccessGate()

		attachmentService := service.NewAttachmentService(attachmentRepo, itemRepo, boardRepo, projectRepo, userRepo, s3Client, gate, logger)

		if _, err := scheduler.AddJob(cfg.Jobs.AttachmentCleanup, job.NewCleanupJob(attachmentService, logger)); err != nil {
			logger.Warn("Failed to schedule attachment cleanup job", zap.Error(err))
		}
		if _, err := scheduler.AddJob(cfg.Jobs.OverdueSweep, job.NewOverdueJob(itemRepo, hub, logger)); err != nil {
			logger.Warn("Failed to schedule overdue sweep job", zap.Error(err))
		}
		scheduler.Start()
		logger.Info("Background jobs scheduled",
			zap.String("attachment_cleanup", cfg.Jobs.AttachmentCleanup),
			zap.String("overdue_sweep", cfg.Jobs.OverdueSweep),
		)
	} else {
		logger.Warn("Database not connected, background jobs not scheduled")
	}

	// Setup router with all dependencies
	r := router.Setup(router.Config{
		DB:             db,
		Redis:          redisClient,
		S3Client:       s3Client,
		Hub:            hub,
		Logger:         logger,
		Metrics:        m,
		JWT:            cfg.JWT,
		BasePath:       cfg.Server.BasePath,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Vortex Board started successfully",
			zap.String("address", srv.Addr),
			zap.String("swagger", fmt.Sprintf("http://localhost:%s/swagger/index.html", cfg.Server.Port)),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	cronCtx := scheduler.Stop()
	<-cronCtx.Done()

	collector.Stop()
	hub.Stop()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if db != nil {
		if err := database.Close(db); err != nil {
			logger.Error("Failed to close database", zap.Error(err))
		}
	}

	logger.Info("Server exited gracefully")
}

// initLogger initializes the zap logger with the specified level
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      zapLevel == zapcore.DebugLevel,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}
