package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/campusboard/noticeboard/internal/config"
	"github.com/campusboard/noticeboard/internal/domain"
	"github.com/campusboard/noticeboard/internal/handler"
	"github.com/campusboard/noticeboard/internal/middleware"
	"github.com/campusboard/noticeboard/internal/realtime"
	"github.com/campusboard/noticeboard/internal/repository"
	"github.com/campusboard/noticeboard/internal/service"
	"github.com/campusboard/noticeboard/internal/service/auth"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	var sessions realtime.SessionRegistry = realtime.NewNopRegistry()
	redisClient, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v (live push disabled)", err)
	} else {
		defer redisClient.Close()
		sessions = realtime.NewRedisRegistry(redisClient)
	}

	minioClient, err := config.NewMinIOClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to MinIO: %v", err)
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, minioClient, sessions, cfg)
	defer services.Bus.Close()
	handlers := handler.NewHandlers(services)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
		BodyLimit:    int(cfg.MaxUploadBytes) * 11, // up to 10 files per notice plus form overhead
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	setupRoutes(app, handlers, services.Auth)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, authService auth.Service) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.Post("/register", h.Auth.Register)
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/refresh", h.Auth.Refresh)

	protected := v1.Group("", middleware.AuthRequired(authService))

	protected.Get("/auth/me", h.Auth.Me)

	notices := protected.Group("/notices")
	canPost := middleware.RequireAnyRole(domain.RoleAdmin, domain.RoleFaculty)
	notices.Post("/", canPost, h.Notice.Create)
	notices.Get("/", h.Notice.List)
	notices.Get("/:id", h.Notice.Get)
	notices.Put("/:id", canPost, h.Notice.Update)
	notices.Delete("/:id", canPost, h.Notice.Delete)
	notices.Get("/:id/attachments", h.Notice.ListAttachments)

	attachments := protected.Group("/attachments")
	attachments.Post("/", h.Attachment.Upload)
	attachments.Get("/", h.Attachment.ListMine)
	attachments.Get("/:id", h.Attachment.Download)
	attachments.Get("/:id/metadata", h.Attachment.GetMetadata)
	attachments.Delete("/:id", h.Attachment.Delete)

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.UnreadCount)
	notifications.Patch("/:id/read", h.Notification.MarkRead)
	notifications.Post("/mark-all-read", h.Notification.MarkAllRead)

	communications := protected.Group("/communications")
	communications.Post("/", h.Communication.Create)
	communications.Get("/", h.Communication.List)
	communications.Get("/:id", h.Communication.Get)
	communications.Post("/:id/messages", h.Communication.PostMessage)
	communications.Post("/:id/participants", h.Communication.AddParticipant)
	communications.Post("/:id/close", h.Communication.Close)
}
