// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	_ "lantern/docs" // swagger docs
	"lantern/internal/cache"
	"lantern/internal/config"
	"lantern/internal/database"
	"lantern/internal/middleware"
	"lantern/internal/models"
	"lantern/internal/notifications"
	"lantern/internal/repository"
	"lantern/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	userRepo repository.UserRepository

	notifier *notifications.Notifier
	hub      *notifications.Hub

	authService         *service.AuthService
	userService         *service.UserService
	diaryService        *service.DiaryService
	collabService       *service.CollabService
	commentService      *service.CommentService
	collectionService   *service.CollectionService
	collectService      *service.CollectService
	notificationService *service.NotificationService
	uploadService       *service.UploadService
	greetingService     *service.GreetingService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	database.ConnectRead(cfg)

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	diaryRepo := repository.NewDiaryRepository(db)
	collabRepo := repository.NewCollaborationRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	collectionRepo := repository.NewCollectionRepository(db)
	followRepo := repository.NewFollowRepository(db)
	collectRepo := repository.NewCollectRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	uploadRepo := repository.NewUploadRepository(db)

	prom := middleware.InitMetrics("lantern-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		userRepo:       userRepo,
	}

	if redisClient != nil {
		server.notifier = notifications.NewNotifier(redisClient)
		server.hub = notifications.NewHub()
	}

	server.notificationService = service.NewNotificationService(notificationRepo, server.notifier)
	server.authService = service.NewAuthService(userRepo, cfg.JWTSecret)
	server.userService = service.NewUserService(userRepo, followRepo, diaryRepo, collectionRepo, collabRepo, server.notificationService)
	server.diaryService = service.NewDiaryService(diaryRepo, collabRepo, collectionRepo)
	server.collabService = service.NewCollabService(collabRepo, diaryRepo, userRepo, server.notificationService)
	server.commentService = service.NewCommentService(commentRepo, diaryRepo, server.notificationService)
	server.collectionService = service.NewCollectionService(collectionRepo, diaryRepo)
	server.collectService = service.NewCollectService(collectRepo, diaryRepo)
	server.uploadService = service.NewUploadService(uploadRepo, userRepo, cfg.UploadDir)

	greetingService, err := service.NewGreetingService(cfg.GreetingsFile)
	if err != nil {
		log.Printf("greetings file unavailable (%v), prompts disabled", err)
	} else {
		server.greetingService = greetingService
	}

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS must run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they are handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Lantern Backend Metrics Dashboard",
	}))

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Daily writing prompt
	api.Get("/greeting", s.GetGreeting)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Get("/me", middleware.AuthRequired, s.GetMe)
	auth.Get("/verify", middleware.AuthRequired, s.VerifyToken)

	// Diary routes; visibility filtering happens inside the services, so
	// reads take optional auth
	diaries := api.Group("/diaries")
	diaries.Get("/", middleware.OptionalAuth, s.GetDiaries)
	diaries.Get("/collaborations/mine", middleware.AuthRequired, s.GetMyCollaborations)
	diaries.Post("/", middleware.AuthRequired, middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "create_diary"), s.CreateDiary)
	// Specific /:id/:resource routes BEFORE generic /:id routes
	diaries.Get("/:id/collaborators", middleware.OptionalAuth, s.GetCollaborators)
	diaries.Post("/:id/collaborators", middleware.AuthRequired, middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "collab_request"), s.RequestCollaboration)
	diaries.Patch("/:id/collaborators/:userId", middleware.AuthRequired, s.ReviewCollaboration)
	diaries.Get("/:id/collect-status", middleware.AuthRequired, s.GetCollectStatus)
	diaries.Post("/:id/collect", middleware.AuthRequired, s.CollectDiary)
	diaries.Delete("/:id/collect", middleware.AuthRequired, s.UncollectDiary)
	diaries.Patch("/:id/pin", middleware.AuthRequired, s.PinDiary)
	diaries.Patch("/:id/lock", middleware.AuthRequired, s.LockDiary)
	diaries.Get("/:id", middleware.OptionalAuth, s.GetDiary)
	diaries.Put("/:id", middleware.AuthRequired, s.UpdateDiary)
	diaries.Delete("/:id", middleware.AuthRequired, s.DeleteDiary)

	// Bookmarks by user
	api.Get("/collects/:username", middleware.AuthRequired, s.GetUserCollects)

	// Comment routes
	comments := api.Group("/comments")
	comments.Get("/diary/:diaryId", middleware.OptionalAuth, s.GetComments)
	comments.Post("/", middleware.AuthRequired, middleware.RateLimit(
		s.redis, 15, time.Minute, "create_comment"), s.CreateComment)
	comments.Delete("/:id", middleware.AuthRequired, s.DeleteComment)

	// Collection routes
	collections := api.Group("/collections")
	collections.Get("/user/:username", s.GetUserCollections)
	collections.Post("/", middleware.AuthRequired, s.CreateCollection)
	collections.Get("/:id", s.GetCollection)
	collections.Put("/:id", middleware.AuthRequired, s.UpdateCollection)
	collections.Delete("/:id", middleware.AuthRequired, s.DeleteCollection)

	// User routes
	users := api.Group("/users")
	users.Get("/public/list", s.GetPublicUsers)
	users.Get("/public/profile/:username", middleware.OptionalAuth, s.GetPublicProfile)
	users.Get("/me/limits", middleware.AuthRequired, s.GetMyLimits)
	users.Put("/me", middleware.AuthRequired, s.UpdateMyProfile)
	users.Get("/export/:username", middleware.AuthRequired, s.ExportUser)
	users.Get("/:username/following", s.GetFollowing)
	users.Get("/:username/followers", s.GetFollowers)
	users.Get("/:id/follow-status", middleware.AuthRequired, s.GetFollowStatus)
	users.Post("/:id/follow", middleware.AuthRequired, s.FollowUser)
	users.Delete("/:id/follow", middleware.AuthRequired, s.UnfollowUser)

	// Admin user management; rank rules are enforced by the service layer
	admin := api.Group("/admin", middleware.AuthRequired)
	admin.Get("/users", s.AdminListUsers)
	admin.Patch("/users/:id/status", s.AdminSetUserStatus)
	admin.Patch("/users/:id/role", s.AdminSetUserRole)
	admin.Patch("/users/:id/pin", s.AdminPinUser)
	admin.Patch("/users/:id/limits", s.AdminSetUserLimits)

	// Notification routes
	notifs := api.Group("/notifications", middleware.AuthRequired)
	notifs.Get("/", s.GetNotifications)
	notifs.Get("/unread-count", s.GetUnreadCount)
	notifs.Put("/read-all", s.MarkAllNotificationsRead)
	notifs.Put("/:id/read", s.MarkNotificationRead)

	// Upload routes
	api.Post("/uploads/images", middleware.AuthRequired, middleware.RateLimit(
		s.redis, 20, 10*time.Minute, "upload_image"), s.UploadImage)

	// Websocket endpoints
	api.Post("/ws/ticket", middleware.AuthRequired, s.IssueWSTicket)
	api.Get("/ws", s.WSAuth, s.WebsocketHandler())
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := fiber.New(fiber.Config{
		AppName:   "Lantern API",
		BodyLimit: 32 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	if s.notifier != nil && s.hub != nil {
		go func() {
			if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
				log.Printf("failed to start notification wiring: %v", err)
			}
		}()
	}

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if s.hub != nil {
		if err := s.hub.Shutdown(ctx); err != nil {
			log.Printf("error shutting down notification hub: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
