package router

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vinilopesc/vortex-board/internal/access"
	"github.com/vinilopesc/vortex-board/internal/config"
	"github.com/vinilopesc/vortex-board/internal/handler"
	"github.com/vinilopesc/vortex-board/internal/metrics"
	"github.com/vinilopesc/vortex-board/internal/middleware"
	"github.com/vinilopesc/vortex-board/internal/repository"
	"github.com/vinilopesc/vortex-board/internal/service"
	"github.com/vinilopesc/vortex-board/internal/storage"
	"github.com/vinilopesc/vortex-board/internal/store"
	"github.com/vinilopesc/vortex-board/internal/ws"
)

// Config holds the dependencies the router needs
type Config struct {
	DB             *gorm.DB
	Redis          *redis.Client
	S3Client       storage.S3Client
	Hub            *ws.Hub
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
	JWT            config.JWTConfig
	BasePath       string
	AllowedOrigins []string
}

// Setup builds the engine with all routes and middleware registered
func Setup(cfg Config) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.Metrics(cfg.Metrics))

	// Initialize repositories
	userRepo := repository.NewUserRepository(cfg.DB)
	projectRepo := repository.NewProjectRepository(cfg.DB)
	boardRepo := repository.NewBoardRepository(cfg.DB)
	itemRepo := repository.NewItemRepository(cfg.DB)
	commentRepo := repository.NewCommentRepository(cfg.DB)
	timeEntryRepo := repository.NewTimeEntryRepository(cfg.DB)
	eventRepo := repository.NewBoardEventRepository(cfg.DB)
	attachmentRepo := repository.NewAttachmentRepository(cfg.DB)
	stateStore := store.NewBoardStateStore(cfg.DB, cfg.Logger)

	gate := access.NewAccessGate()

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.JWT, cfg.Logger)
	projectService := service.NewProjectService(projectRepo, userRepo, gate, cfg.Logger)
	boardService := service.NewBoardService(boardRepo, projectRepo, itemRepo, eventRepo, gate, cfg.Hub, cfg.Metrics, cfg.Logger)
	mutationService := service.NewMutationService(stateStore, itemRepo, boardRepo, projectRepo, userRepo, commentRepo, timeEntryRepo, eventRepo, gate, cfg.Hub, cfg.Metrics, cfg.Logger)
	analyticsService := service.NewAnalyticsService(boardRepo, projectRepo, itemRepo, commentRepo, timeEntryRepo, gate, cfg.Logger)
	attachmentService := service.NewAttachmentService(attachmentRepo, itemRepo, boardRepo, projectRepo, userRepo, cfg.S3Client, gate, cfg.Logger)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	projectHandler := handler.NewProjectHandler(projectService)
	boardHandler := handler.NewBoardHandler(boardService)
	itemHandler := handler.NewItemHandler(mutationService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	attachmentHandler := handler.NewAttachmentHandler(attachmentService)
	wsHandler := handler.NewWSHandler(cfg.Hub, authService, boardService, cfg.Logger)
	healthHandler := handler.NewHealthHandler(cfg.DB, cfg.Redis)

	// Health and metrics endpoints (no auth)
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes with base path
	api := r.Group(cfg.BasePath)
	{
		// Health under base path
		if cfg.BasePath != "" {
			api.GET("/health", healthHandler.Health)
			api.GET("/ready", healthHandler.Ready)
		}

		// Auth routes (no token)
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// WebSocket endpoints authenticate via query token; static route
		// must come before dynamic route
		api.GET("/ws/notifications", wsHandler.HandleNotificationSocket)
		api.GET("/ws/boards/:boardId", wsHandler.HandleBoardSocket)

		// Authenticated routes
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(authService))
		{
			// Project routes
			authenticated.POST("/projects", projectHandler.CreateProject)
			authenticated.GET("/projects", projectHandler.ListProjects)
			authenticated.GET("/projects/:projectId", projectHandler.GetProject)
			authenticated.PATCH("/projects/:projectId", projectHandler.UpdateProject)
			authenticated.DELETE("/projects/:projectId", projectHandler.DeactivateProject)
			authenticated.GET("/projects/:projectId/members", projectHandler.ListMembers)
			authenticated.POST("/projects/:projectId/members", projectHandler.AddMember)
			authenticated.DELETE("/projects/:projectId/members/:userId", projectHandler.RemoveMember)
			authenticated.GET("/projects/:projectId/boards", boardHandler.ListBoards)
			authenticated.GET("/projects/:projectId/metrics", analyticsHandler.ProjectMetrics)

			// Board routes
			authenticated.POST("/boards", boardHandler.CreateBoard)
			authenticated.GET("/boards/:boardId", boardHandler.GetBoard)
			authenticated.GET("/boards/:boardId/snapshot", boardHandler.GetSnapshot)
			authenticated.GET("/boards/:boardId/items/search", boardHandler.SearchItems)
			authenticated.GET("/boards/:boardId/events", boardHandler.RecentEvents)
			authenticated.PATCH("/columns/:columnId", boardHandler.UpdateColumn)

			// Analytics routes
			authenticated.GET("/boards/:boardId/analytics/velocity", analyticsHandler.Velocity)
			authenticated.GET("/boards/:boardId/analytics/burndown", analyticsHandler.Burndown)
			authenticated.GET("/boards/:boardId/analytics/workload", analyticsHandler.Workload)
			authenticated.GET("/boards/:boardId/analytics/bottlenecks", analyticsHandler.Bottlenecks)
			authenticated.GET("/boards/:boardId/analytics/daily-summary", analyticsHandler.DailySummary)
			authenticated.GET("/boards/:boardId/analytics/overdue", analyticsHandler.OverdueItems)

			// Item routes
			authenticated.POST("/items", itemHandler.CreateItem)
			authenticated.POST("/items/move", itemHandler.MoveItem)
			authenticated.POST("/items/archive", itemHandler.ArchiveItem)
			authenticated.POST("/items/comments", itemHandler.AddComment)
			authenticated.POST("/items/time-entries", itemHandler.StartTimeEntry)
			authenticated.PATCH("/items/:itemType/:itemId", itemHandler.UpdateItem)
			authenticated.GET("/items/:itemType/:itemId/comments", itemHandler.ListComments)
			authenticated.GET("/items/:itemType/:itemId/time-entries", itemHandler.ListTimeEntries)
			authenticated.GET("/items/:itemType/:itemId/attachments", attachmentHandler.ListAttachments)
			authenticated.POST("/time-entries/:entryId/stop", itemHandler.StopTimeEntry)

			// Attachment routes
			authenticated.POST("/attachments/presigned-url", attachmentHandler.CreateUpload)
			authenticated.POST("/attachments/confirm", attachmentHandler.ConfirmAttachments)
			authenticated.DELETE("/attachments/:attachmentId", attachmentHandler.DeleteAttachment)
		}
	}

	return r
}
